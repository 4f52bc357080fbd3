package calculations

import (
	"time"

	"github.com/cloud-ru/backoffice-finance-go/pkg/utils"
)

// InstallmentStatus срочность платежа относительно текущей даты.
// От факта оплаты не зависит.
type InstallmentStatus string

const (
	StatusUpcoming InstallmentStatus = "Upcoming"
	StatusDueToday InstallmentStatus = "DueToday"
	StatusOverdue  InstallmentStatus = "Overdue"
)

// Installment одна строка графика платежей. Суммы хранятся без округления.
type Installment struct {
	Number    int
	DueDate   time.Time
	Payment   float64
	Interest  float64
	Principal float64
	Remaining float64
	Status    InstallmentStatus
}

// InstallmentView строка графика для отображения, суммы округлены до копеек
type InstallmentView struct {
	Number             int               `json:"number"`
	DueDate            string            `json:"due_date"`
	Payment            float64           `json:"payment"`
	Interest           float64           `json:"interest"`
	PrincipalComponent float64           `json:"principal_component"`
	RemainingPrincipal float64           `json:"remaining_principal"`
	Status             InstallmentStatus `json:"status"`
}

// View возвращает округлённое представление строки
func (i Installment) View() InstallmentView {
	return InstallmentView{
		Number:             i.Number,
		DueDate:            i.DueDate.Format(time.DateOnly),
		Payment:            utils.Round2(i.Payment),
		Interest:           utils.Round2(i.Interest),
		PrincipalComponent: utils.Round2(i.Principal),
		RemainingPrincipal: utils.Round2(i.Remaining),
		Status:             i.Status,
	}
}

// Schedule аннуитетный график кредита
type Schedule struct {
	Principal         float64
	AnnualRatePercent float64
	TermMonths        int
	StartDate         time.Time
	Payment           float64
	Installments      []Installment
}

// Len возвращает число периодов
func (s *Schedule) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Installments)
}

// Installment возвращает строку по номеру (с 1)
func (s *Schedule) Installment(number int) (Installment, bool) {
	if number < 1 || number > s.Len() {
		return Installment{}, false
	}
	return s.Installments[number-1], true
}

// TotalRepayment сумма всех платежей по графику
func (s *Schedule) TotalRepayment() float64 {
	return s.Payment * float64(s.Len())
}

// TotalInterest переплата по процентам
func (s *Schedule) TotalInterest() float64 {
	return s.TotalRepayment() - s.Principal
}

// LoanSummary представляет сводку по кредиту
type LoanSummary struct {
	Principal         float64 `json:"principal"`
	AnnualRatePercent float64 `json:"annual_rate_percent"`
	Months            int     `json:"months"`
	StartDate         string  `json:"start_date"`
	MonthlyPayment    float64 `json:"monthly_payment"`
	TotalPaid         float64 `json:"total_paid"`
	TotalInterest     float64 `json:"total_interest"`
}

// CalculationResult представляет результат расчета графика для отображения
type CalculationResult struct {
	Summary  LoanSummary       `json:"summary"`
	Schedule []InstallmentView `json:"schedule"`
}

// Summary возвращает округлённую сводку
func (s *Schedule) Summary() LoanSummary {
	return LoanSummary{
		Principal:         utils.Round2(s.Principal),
		AnnualRatePercent: utils.Round2(s.AnnualRatePercent),
		Months:            s.Len(),
		StartDate:         s.StartDate.Format(time.DateOnly),
		MonthlyPayment:    utils.Round2(s.Payment),
		TotalPaid:         utils.Round2(s.TotalRepayment()),
		TotalInterest:     utils.Round2(s.TotalInterest()),
	}
}

// View собирает сводку и строки графика для отображения
func (s *Schedule) View() *CalculationResult {
	rows := make([]InstallmentView, 0, s.Len())
	for _, in := range s.Installments {
		rows = append(rows, in.View())
	}
	return &CalculationResult{
		Summary:  s.Summary(),
		Schedule: rows,
	}
}
