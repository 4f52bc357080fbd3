package calculations

import (
	"strings"

	"github.com/cloud-ru/backoffice-finance-go/internal/domain"
)

const (
	maxDTI           = 0.6
	maxLateCount     = 4
	preapproveScore  = 80
	preapproveMaxDTI = 0.4
	reviewScore      = 60
)

// Тексты причин решения
const (
	ReasonMissingBaseData = "missing base data"
	ReasonHighDTI         = "debt-to-income ratio above 60%"
	ReasonLatePayments    = "4 or more late payments"
	ReasonStrongProfile   = "high score, low DTI, insured"
	ReasonManualReview    = "score requires manual review"
	ReasonLowScore        = "low score"
)

// DecisionInput данные заявки для автоматического решения.
// AnnualRate задаётся долей, как в RiskInput.
type DecisionInput struct {
	Income     float64 `json:"income"`
	OtherDebts float64 `json:"other_debts"`
	Amount     float64 `json:"amount"`
	Term       int     `json:"term"`
	AnnualRate float64 `json:"annual_rate"`
	LateCount  int     `json:"late_count"`
	Insured    bool    `json:"insured"`
}

// Decision рекомендация по заявке
type Decision struct {
	Status     domain.DecisionStatus `json:"status"`
	Reason     string                `json:"reason"`
	Reasons    []string              `json:"reasons"`
	Assessment *Assessment           `json:"assessment,omitempty"`
}

// DecisionInputFromLoan собирает вход для Decide из записи кредита.
// Ставка кредита хранится в процентах и переводится в долю.
func DecisionInputFromLoan(l *domain.Loan) DecisionInput {
	in := DecisionInput{
		Amount:     l.Principal,
		Term:       l.TermMonths,
		AnnualRate: l.AnnualRatePercent / 100.0,
	}
	if u := l.Underwriting; u != nil {
		in.Income = u.MonthlyIncome
		in.OtherDebts = u.OtherMonthlyDebt
		in.LateCount = u.LateCount
		in.Insured = u.Insured
	}
	return in
}

// Decide проверяет правила по порядку, срабатывает первое подходящее.
// Запись кредита не меняется: применять ли рекомендацию, решает вызывающий код.
func Decide(in DecisionInput) Decision {
	if !(in.Income > 0) || !(in.Amount > 0) || in.Term <= 0 {
		return newDecision(domain.DecisionReview, nil, ReasonMissingBaseData)
	}

	a := Score(RiskInput{
		Income:     in.Income,
		OtherDebts: in.OtherDebts,
		LoanAmount: in.Amount,
		Term:       float64(in.Term),
		AnnualRate: in.AnnualRate,
		LateCount:  float64(in.LateCount),
	})

	var reasons []string
	if a.DTI > maxDTI {
		reasons = append(reasons, ReasonHighDTI)
	}
	if in.LateCount >= maxLateCount {
		reasons = append(reasons, ReasonLatePayments)
	}
	if len(reasons) > 0 {
		return newDecision(domain.DecisionRejected, &a, reasons...)
	}

	switch {
	case a.Score >= preapproveScore && a.DTI <= preapproveMaxDTI && in.Insured:
		return newDecision(domain.DecisionPreapproved, &a, ReasonStrongProfile)
	case a.Score >= reviewScore:
		return newDecision(domain.DecisionReview, &a, ReasonManualReview)
	default:
		return newDecision(domain.DecisionRejected, &a, ReasonLowScore)
	}
}

func newDecision(status domain.DecisionStatus, a *Assessment, reasons ...string) Decision {
	return Decision{
		Status:     status,
		Reason:     strings.Join(reasons, "; "),
		Reasons:    reasons,
		Assessment: a,
	}
}
