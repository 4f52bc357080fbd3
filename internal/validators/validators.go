package validators

import (
	"fmt"

	"github.com/cloud-ru/backoffice-finance-go/internal/config"
	"github.com/cloud-ru/backoffice-finance-go/internal/domain"
	"github.com/cloud-ru/backoffice-finance-go/pkg/utils"
)

// ValidatePositiveNumber проверяет, что число конечно и в допустимом диапазоне
func ValidatePositiveNumber(name string, value float64, minInclusive, maxInclusive float64) error {
	if !utils.IsFinite(value) {
		return fmt.Errorf("%s: значение не является конечным числом", name)
	}
	if value < minInclusive {
		return fmt.Errorf("%s: значение должно быть ≥ %g", name, minInclusive)
	}
	if value > maxInclusive {
		return fmt.Errorf("%s: значение слишком велико (>%g)", name, maxInclusive)
	}
	return nil
}

// ValidateIntRange проверяет, что целое число в допустимом диапазоне
func ValidateIntRange(name string, value int, minInclusive, maxInclusive int) error {
	if value < minInclusive || value > maxInclusive {
		return fmt.Errorf("%s: значение должно быть в диапазоне [%d; %d]", name, minInclusive, maxInclusive)
	}
	return nil
}

// CheckPrincipal проверяет сумму кредита или вклада
func CheckPrincipal(cfg *config.Config, principal float64) error {
	return ValidatePositiveNumber("principal", principal, 1e-9, cfg.MaxPrincipal)
}

// CheckRate проверяет процентную ставку
func CheckRate(cfg *config.Config, rate float64) error {
	return ValidatePositiveNumber("annual_rate_percent", rate, 0.0, cfg.MaxRate)
}

// CheckMonths проверяет срок в месяцах
func CheckMonths(cfg *config.Config, months int) error {
	return ValidateIntRange("months", months, 1, cfg.MaxMonths)
}

// CheckLoan проверяет запись кредита перед сохранением
func CheckLoan(cfg *config.Config, l *domain.Loan) error {
	if l.CustomerID == "" {
		return fmt.Errorf("customer_id: не задан")
	}
	if err := CheckPrincipal(cfg, l.Principal); err != nil {
		return err
	}
	if err := CheckRate(cfg, l.AnnualRatePercent); err != nil {
		return err
	}
	if err := CheckMonths(cfg, l.TermMonths); err != nil {
		return err
	}
	if u := l.Underwriting; u != nil {
		if err := ValidatePositiveNumber("monthly_income", u.MonthlyIncome, 0, cfg.MaxPrincipal); err != nil {
			return err
		}
		if err := ValidatePositiveNumber("other_monthly_debt", u.OtherMonthlyDebt, 0, cfg.MaxPrincipal); err != nil {
			return err
		}
		if u.LateCount < 0 {
			return fmt.Errorf("late_count: значение должно быть ≥ 0")
		}
	}
	return nil
}

// CheckDeposit проверяет запись вклада перед сохранением
func CheckDeposit(cfg *config.Config, d *domain.Deposit) error {
	if d.CustomerID == "" {
		return fmt.Errorf("customer_id: не задан")
	}
	if err := CheckPrincipal(cfg, d.Principal); err != nil {
		return err
	}
	switch d.Type {
	case domain.DepositTerm:
		if err := CheckRate(cfg, d.AnnualRatePercent); err != nil {
			return err
		}
		return CheckMonths(cfg, d.TermMonths)
	case domain.DepositDemand:
		if d.AnnualRatePercent != 0 || d.TermMonths != 0 || d.MaturityDate != nil {
			return fmt.Errorf("вклад до востребования не имеет ставки, срока и даты погашения")
		}
		return nil
	default:
		return fmt.Errorf("type: неизвестный тип вклада %q", d.Type)
	}
}
