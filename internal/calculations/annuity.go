package calculations

import (
	"errors"
	"math"
	"time"

	"github.com/cloud-ru/backoffice-finance-go/pkg/utils"
)

// ErrInvalidLoanTerms параметры кредита нарушают инварианты:
// сумма > 0, ставка ≥ 0, срок ≥ 1 месяца
var ErrInvalidLoanTerms = errors.New("некорректные параметры кредита")

// MonthlyPayment рассчитывает аннуитетный платеж по годовой ставке в процентах
func MonthlyPayment(principal, annualRatePercent float64, months int) float64 {
	return annuityPayment(principal, annualRatePercent/100.0/12.0, months)
}

// annuityPayment P*r / (1 - (1+r)^-n); при r == 0 платеж равен P/n
func annuityPayment(principal, monthlyRate float64, months int) float64 {
	if months < 1 {
		months = 1
	}
	if monthlyRate == 0.0 {
		return principal / float64(months)
	}
	return principal * monthlyRate / (1.0 - math.Pow(1.0+monthlyRate, float64(-months)))
}

// ClassifyDue сравнивает дату платежа с текущей датой по календарным дням
func ClassifyDue(dueDate, now time.Time) InstallmentStatus {
	switch diff := utils.DaysBetween(now, dueDate); {
	case diff < 0:
		return StatusOverdue
	case diff == 0:
		return StatusDueToday
	default:
		return StatusUpcoming
	}
}

// BuildSchedule рассчитывает график аннуитетного кредита.
// Точность не теряется между периодами: округление делается только в View.
// Статусы строк вычисляются относительно now.
func BuildSchedule(principal, annualRatePercent float64, months int, startDate, now time.Time) (*Schedule, error) {
	if !utils.IsFinite(principal) || principal <= 0 ||
		!utils.IsFinite(annualRatePercent) || annualRatePercent < 0 ||
		months < 1 {
		return nil, ErrInvalidLoanTerms
	}

	r := annualRatePercent / 100.0 / 12.0
	payment := annuityPayment(principal, r, months)

	installments := make([]Installment, 0, months)
	remaining := principal

	for m := 1; m <= months; m++ {
		interest := remaining * r
		principalComponent := payment - interest

		remaining -= principalComponent
		if remaining < 0 {
			remaining = 0.0
		}

		due := startDate.AddDate(0, m, 0)
		installments = append(installments, Installment{
			Number:    m,
			DueDate:   due,
			Payment:   payment,
			Interest:  interest,
			Principal: principalComponent,
			Remaining: remaining,
			Status:    ClassifyDue(due, now),
		})
	}

	return &Schedule{
		Principal:         principal,
		AnnualRatePercent: annualRatePercent,
		TermMonths:        months,
		StartDate:         startDate,
		Payment:           payment,
		Installments:      installments,
	}, nil
}
