package ledger

import (
	"math"
	"time"

	"github.com/cloud-ru/backoffice-finance-go/internal/calculations"
	"github.com/cloud-ru/backoffice-finance-go/pkg/utils"
)

// Balances сводка по оплате кредита
type Balances struct {
	PaidCount         int     `json:"paid_count"`
	TotalInstallments int     `json:"total_installments"`
	TotalAmount       float64 `json:"total_amount"`
	PaidAmount        float64 `json:"paid_amount"`
	RemainingAmount   float64 `json:"remaining_amount"`
	ProgressPercent   float64 `json:"progress_percent"`
	Closed            bool    `json:"closed"`
}

// Balances считает оплаченную и оставшуюся сумму по числу отмеченных платежей.
// Закрытый кредит всегда показывает нулевой остаток и 100%.
func (s *State) Balances(schedule *calculations.Schedule) Balances {
	term := schedule.Len()
	paid := s.paidCount(schedule)
	var payment float64
	if schedule != nil {
		payment = schedule.Payment
	}

	b := Balances{
		PaidCount:         paid,
		TotalInstallments: term,
		TotalAmount:       payment * float64(term),
		PaidAmount:        payment * float64(paid),
	}
	b.RemainingAmount = math.Max(b.TotalAmount-b.PaidAmount, 0)
	if term > 0 {
		b.ProgressPercent = float64(paid) / float64(term) * 100
	}
	if s != nil && s.Closed {
		b.Closed = true
		b.RemainingAmount = 0
		b.ProgressPercent = 100
	}
	return b
}

// Rounded копия для отображения
func (b Balances) Rounded() Balances {
	b.TotalAmount = utils.Round2(b.TotalAmount)
	b.PaidAmount = utils.Round2(b.PaidAmount)
	b.RemainingAmount = utils.Round2(b.RemainingAmount)
	b.ProgressPercent = utils.Round2(b.ProgressPercent)
	return b
}

// LateFeeItem пеня по одному просроченному платежу
type LateFeeItem struct {
	Installment int     `json:"installment"`
	DueDate     string  `json:"due_date"`
	DaysLate    int     `json:"days_late"`
	Fee         float64 `json:"fee"`
}

// LateFee пени по кредиту
type LateFee struct {
	DailyRate float64       `json:"daily_rate"`
	Items     []LateFeeItem `json:"items,omitempty"`
	Total     float64       `json:"total"`
}

// LateFee начисляет пени на неоплаченные платежи, просроченные на дату now:
// платёж × дневная ставка × дни просрочки. Для закрытого кредита пеней нет.
// Неположительная или некорректная ставка заменяется DefaultLateFeeDailyRate.
func (s *State) LateFee(schedule *calculations.Schedule, now time.Time, dailyRate float64) LateFee {
	if !utils.IsFinite(dailyRate) || dailyRate <= 0 {
		dailyRate = DefaultLateFeeDailyRate
	}
	fee := LateFee{DailyRate: dailyRate}
	if schedule == nil || (s != nil && s.Closed) {
		return fee
	}
	for _, in := range schedule.Installments {
		if s.IsPaid(in.Number) || calculations.ClassifyDue(in.DueDate, now) != calculations.StatusOverdue {
			continue
		}
		days := utils.DaysBetween(in.DueDate, now)
		amount := in.Payment * dailyRate * float64(days)
		fee.Items = append(fee.Items, LateFeeItem{
			Installment: in.Number,
			DueDate:     in.DueDate.Format(time.DateOnly),
			DaysLate:    days,
			Fee:         amount,
		})
		fee.Total += amount
	}
	return fee
}

// Rounded копия для отображения
func (f LateFee) Rounded() LateFee {
	items := make([]LateFeeItem, len(f.Items))
	for i, it := range f.Items {
		it.Fee = utils.Round2(it.Fee)
		items[i] = it
	}
	f.Items = items
	f.Total = utils.Round2(f.Total)
	return f
}

// Statement выписка по кредиту на дату
type Statement struct {
	LoanID         string                        `json:"loan_id"`
	AsOf           string                        `json:"as_of"`
	Balances       Balances                      `json:"balances"`
	LateFee        LateFee                       `json:"late_fee"`
	OutstandingDue float64                       `json:"outstanding_due"`
	OverdueCount   int                           `json:"overdue_count"`
	NextDue        *calculations.InstallmentView `json:"next_due,omitempty"`
}

// Statement объединяет остаток, пени и ближайший неоплаченный платёж.
// К оплате = остаток по графику + пени.
func (s *State) Statement(schedule *calculations.Schedule, now time.Time, dailyRate float64) Statement {
	b := s.Balances(schedule)
	fee := s.LateFee(schedule, now, dailyRate)

	st := Statement{
		AsOf:           now.Format(time.DateOnly),
		Balances:       b.Rounded(),
		LateFee:        fee.Rounded(),
		OutstandingDue: utils.Round2(b.RemainingAmount + fee.Total),
		OverdueCount:   len(fee.Items),
	}
	if s != nil {
		st.LoanID = s.LoanID
	}
	if b.Closed || schedule == nil {
		return st
	}
	for _, in := range schedule.Installments {
		if s.IsPaid(in.Number) {
			continue
		}
		in.Status = calculations.ClassifyDue(in.DueDate, now)
		v := in.View()
		st.NextDue = &v
		break
	}
	return st
}
