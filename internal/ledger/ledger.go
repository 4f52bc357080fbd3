// Package ledger ведёт учёт оплаченных платежей по кредиту поверх графика.
//
// Состояние (оплаченные номера, история платежей, признак закрытия) хранится
// снаружи: вызывающий код загружает State, применяет операции и сохраняет его.
// Операции не возвращают ошибок: некорректный вызов ничего не меняет и
// сообщает причину в Outcome.
package ledger

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/cloud-ru/backoffice-finance-go/internal/calculations"
)

// DefaultLateFeeDailyRate дневная ставка пени от суммы просроченного платежа
const DefaultLateFeeDailyRate = 0.0005

// Причины, по которым операция не была применена
const (
	ReasonUnknownLoan   = "unknown loan"
	ReasonOutOfRange    = "installment out of range"
	ReasonAlreadyPaid   = "installment already paid"
	ReasonNotPaid       = "installment not paid"
	ReasonAlreadyClosed = "loan already closed"
)

// PaymentRecord запись истории платежей
type PaymentRecord struct {
	ID          uuid.UUID `json:"id"`
	Installment int       `json:"installment"`
	Amount      float64   `json:"amount"`
	PaidAt      time.Time `json:"paid_at"`
}

// State учётное состояние одного кредита.
// Paid хранится отсортированным по возрастанию.
type State struct {
	LoanID  string          `json:"loan_id"`
	Paid    []int           `json:"paid"`
	History []PaymentRecord `json:"history"`
	Closed  bool            `json:"closed"`
}

// Outcome результат мутации: применена ли она, и если нет, то почему
type Outcome struct {
	Applied bool   `json:"applied"`
	Reason  string `json:"reason,omitempty"`
}

func applied() Outcome           { return Outcome{Applied: true} }
func noop(reason string) Outcome { return Outcome{Reason: reason} }

// NewState пустое состояние для кредита
func NewState(loanID string) *State {
	return &State{LoanID: loanID}
}

func (s *State) known() bool {
	return s != nil && s.LoanID != ""
}

// IsPaid отмечен ли платёж оплаченным
func (s *State) IsPaid(number int) bool {
	if s == nil {
		return false
	}
	_, found := slices.BinarySearch(s.Paid, number)
	return found
}

func (s *State) hasHistory(number int) bool {
	return slices.ContainsFunc(s.History, func(r PaymentRecord) bool {
		return r.Installment == number
	})
}

func (s *State) addPaid(number int) {
	i, found := slices.BinarySearch(s.Paid, number)
	if !found {
		s.Paid = slices.Insert(s.Paid, i, number)
	}
}

func (s *State) record(number int, amount float64, now time.Time) {
	if s.hasHistory(number) {
		return
	}
	s.History = append(s.History, PaymentRecord{
		ID:          uuid.New(),
		Installment: number,
		Amount:      amount,
		PaidAt:      now,
	})
}

// MarkPaid отмечает платёж оплаченным и пишет в историю плановую сумму.
func (s *State) MarkPaid(schedule *calculations.Schedule, number int, now time.Time) Outcome {
	if !s.known() {
		return noop(ReasonUnknownLoan)
	}
	in, ok := schedule.Installment(number)
	if !ok {
		return noop(ReasonOutOfRange)
	}
	if s.IsPaid(number) {
		return noop(ReasonAlreadyPaid)
	}
	s.addPaid(number)
	s.record(number, in.Payment, now)
	return applied()
}

// MarkUnpaid снимает отметку об оплате и удаляет запись из истории.
// Закрытый кредит не переоткрывается.
func (s *State) MarkUnpaid(number int) Outcome {
	if !s.known() {
		return noop(ReasonUnknownLoan)
	}
	if s.Closed {
		return noop(ReasonAlreadyClosed)
	}
	i, found := slices.BinarySearch(s.Paid, number)
	if !found {
		return noop(ReasonNotPaid)
	}
	s.Paid = slices.Delete(s.Paid, i, i+1)
	s.History = slices.DeleteFunc(s.History, func(r PaymentRecord) bool {
		return r.Installment == number
	})
	return applied()
}

// EarlyClose досрочно закрывает кредит: все платежи отмечаются оплаченными,
// недостающие записи истории создаются с временем now. Повторный вызов
// ничего не меняет.
func (s *State) EarlyClose(schedule *calculations.Schedule, now time.Time) Outcome {
	if !s.known() {
		return noop(ReasonUnknownLoan)
	}
	if s.Closed {
		return noop(ReasonAlreadyClosed)
	}
	if schedule.Len() == 0 {
		return noop(ReasonOutOfRange)
	}
	for _, in := range schedule.Installments {
		s.addPaid(in.Number)
		s.record(in.Number, in.Payment, now)
	}
	s.Closed = true
	return applied()
}

// paidCount считает только номера, попадающие в график
func (s *State) paidCount(schedule *calculations.Schedule) int {
	if s == nil {
		return 0
	}
	n := 0
	for _, number := range s.Paid {
		if number >= 1 && number <= schedule.Len() {
			n++
		}
	}
	return n
}
