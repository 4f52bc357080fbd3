package calculations

import (
	"math"

	"github.com/cloud-ru/backoffice-finance-go/pkg/utils"
)

// Политика скоринга. Пороги фиксированы и не настраиваются на вызов.
const (
	DefaultRiskAnnualRate = 0.36

	dtiThreshold        = 0.4
	dtiPenaltyFactor    = 120.0
	dtiPenaltyCap       = 50.0
	latePenaltyPerEvent = 8.0
	latePenaltyCap      = 32.0
	longTermMonths      = 60
	longTermPerYear     = 5.0
	longTermPenaltyCap  = 15.0
	affordThreshold     = 0.5
	affordPenaltyFactor = 40.0
	affordPenaltyCap    = 20.0

	lowRiskFrom    = 70
	mediumRiskFrom = 40
)

// Метки уровня риска
const (
	LabelLowRisk    = "Low Risk"
	LabelMediumRisk = "Medium Risk"
	LabelHighRisk   = "High Risk"
)

// RiskInput финансовые факты заёмщика. AnnualRate задаётся долей (0.36 = 36%).
type RiskInput struct {
	Income     float64 `json:"income"`
	OtherDebts float64 `json:"other_debts"`
	LoanAmount float64 `json:"loan_amount"`
	Term       float64 `json:"term"`
	AnnualRate float64 `json:"annual_rate"`
	LateCount  float64 `json:"late_count"`
}

// Assessment результат скоринга. Defaulted перечисляет поля,
// значения которых были подменены значениями по умолчанию.
type Assessment struct {
	Score                int      `json:"score"`
	Label                string   `json:"label"`
	DTI                  float64  `json:"dti"`
	EstimatedInstallment float64  `json:"estimated_installment"`
	Defaulted            []string `json:"defaulted,omitempty"`
}

// Score рассчитывает кредитный скоринг 0..100 и долговую нагрузку (DTI).
// Некорректные числа не приводят к ошибке, а заменяются нулём.
func Score(in RiskInput) Assessment {
	var defaulted []string
	safe := func(name string, v float64) float64 {
		v, bad := utils.Safe(v)
		if bad {
			defaulted = append(defaulted, name)
		}
		return v
	}

	income := safe("income", in.Income)
	debts := safe("other_debts", in.OtherDebts)
	amount := safe("loan_amount", in.LoanAmount)
	late := math.Max(0, safe("late_count", in.LateCount))

	term := int(math.Floor(safe("term", in.Term)))
	if term < 1 {
		term = 1
	}

	rate := safe("annual_rate", in.AnnualRate)
	if rate <= 0 {
		if !contains(defaulted, "annual_rate") {
			defaulted = append(defaulted, "annual_rate")
		}
		rate = DefaultRiskAnnualRate
	}

	installment := annuityPayment(amount, rate/12.0, term)
	dti := (debts + installment) / math.Max(1, income)

	score := 100.0
	if dti > dtiThreshold {
		score -= math.Min(dtiPenaltyCap, (dti-dtiThreshold)*dtiPenaltyFactor)
	}
	score -= math.Min(latePenaltyCap, late*latePenaltyPerEvent)
	if term > longTermMonths {
		extraYears := (term - longTermMonths) / 12
		score -= math.Min(longTermPenaltyCap, float64(extraYears)*longTermPerYear)
	}
	if afford := amount / (math.Max(1, income) * float64(term)); afford > affordThreshold {
		score -= math.Min(affordPenaltyCap, (afford-affordThreshold)*affordPenaltyFactor)
	}

	final := int(math.Round(math.Min(100, math.Max(0, score))))

	return Assessment{
		Score:                final,
		Label:                riskLabel(final),
		DTI:                  dti,
		EstimatedInstallment: installment,
		Defaulted:            defaulted,
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func riskLabel(score int) string {
	switch {
	case score >= lowRiskFrom:
		return LabelLowRisk
	case score >= mediumRiskFrom:
		return LabelMediumRisk
	default:
		return LabelHighRisk
	}
}
