package domain

import "time"

// LoanStatus статус заявки на кредит
type LoanStatus string

const (
	LoanPendingApproval LoanStatus = "PendingApproval"
	LoanApproved        LoanStatus = "Approved"
	LoanRejected        LoanStatus = "Rejected"
)

// DecisionStatus рекомендация движка автоматического решения
type DecisionStatus string

const (
	DecisionRejected    DecisionStatus = "Rejected"
	DecisionReview      DecisionStatus = "Review"
	DecisionPreapproved DecisionStatus = "Preapproved"
)

// Underwriting факты о заёмщике, необязательные при подаче заявки
type Underwriting struct {
	MonthlyIncome    float64 `json:"monthly_income"`
	OtherMonthlyDebt float64 `json:"other_monthly_debt"`
	LateCount        int     `json:"late_count"`
	Insured          bool    `json:"insured"`
}

// Loan запись о кредите
type Loan struct {
	ID                string        `json:"id"`
	CustomerID        string        `json:"customer_id"`
	CustomerName      string        `json:"customer_name"`
	Principal         float64       `json:"principal"`
	AnnualRatePercent float64       `json:"annual_rate_percent"`
	TermMonths        int           `json:"term_months"`
	StartDate         time.Time     `json:"start_date"`
	Type              string        `json:"type,omitempty"`
	SubType           string        `json:"sub_type,omitempty"`
	Status            LoanStatus    `json:"status"`
	Underwriting      *Underwriting `json:"underwriting,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
}

// NewLoan создаёт заявку в статусе PendingApproval.
// Пустой id заменяется сгенерированным.
func NewLoan(id, customerID, customerName string, principal, annualRatePercent float64,
	termMonths int, startDate, now time.Time) *Loan {
	return &Loan{
		ID:                orNewID(id),
		CustomerID:        customerID,
		CustomerName:      customerName,
		Principal:         principal,
		AnnualRatePercent: annualRatePercent,
		TermMonths:        termMonths,
		StartDate:         startDate,
		Status:            LoanPendingApproval,
		CreatedAt:         now,
	}
}

// ApplyDecision переводит заявку в статус по рекомендации.
// Review статус не меняет. Возвращает true, если статус изменился.
func (l *Loan) ApplyDecision(d DecisionStatus) bool {
	prev := l.Status
	switch d {
	case DecisionPreapproved:
		l.Status = LoanApproved
	case DecisionRejected:
		l.Status = LoanRejected
	}
	return l.Status != prev
}
