package calculations

import (
	"time"

	"github.com/cloud-ru/backoffice-finance-go/internal/domain"
	"github.com/cloud-ru/backoffice-finance-go/pkg/utils"
)

// daysInYear база начисления: простые проценты, год 365 дней
const daysInYear = 365.0

// AccruedInterest рассчитывает простые проценты по срочному вкладу на дату asOf.
// Число дней ограничено снизу нулём и сверху сроком вклада.
// Для вкладов до востребования всегда 0.
func AccruedInterest(d *domain.Deposit, asOf time.Time) float64 {
	if d == nil || d.Type != domain.DepositTerm || d.MaturityDate == nil {
		return 0
	}
	full := utils.DaysBetween(d.StartDate, *d.MaturityDate)
	elapsed := utils.DaysBetween(d.StartDate, asOf)
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > full {
		elapsed = full
	}
	return d.Principal * (d.AnnualRatePercent / 100.0) * (float64(elapsed) / daysInYear)
}

// ValueAtMaturity сумма к выплате в дату погашения: тело плюс проценты за весь срок
func ValueAtMaturity(d *domain.Deposit) float64 {
	if d == nil {
		return 0
	}
	return d.Principal + d.Principal*(d.AnnualRatePercent/100.0)*(float64(d.TermMonths)/12.0)
}

// CanWithdrawToday разрешено ли снятие (закрытие) вклада в дату today.
// Решение только сообщается, запрет обеспечивает вызывающий код.
func CanWithdrawToday(d *domain.Deposit, today time.Time) bool {
	if d == nil {
		return false
	}
	if d.Type == domain.DepositDemand {
		return true
	}
	if d.MaturityDate == nil {
		return false
	}
	return utils.DaysBetween(*d.MaturityDate, today) >= 0
}

// DepositSettlement расчёт выплаты при закрытии вклада
type DepositSettlement struct {
	DepositID       string  `json:"deposit_id"`
	Type            string  `json:"type"`
	Principal       float64 `json:"principal"`
	AccruedInterest float64 `json:"accrued_interest"`
	Payout          float64 `json:"payout"`
	ValueAtMaturity float64 `json:"value_at_maturity"`
	MaturityDate    string  `json:"maturity_date,omitempty"`
	CanWithdraw     bool    `json:"can_withdraw"`
	Status          string  `json:"status"`
}

// Settle собирает показатели вклада на дату asOf: начисленные проценты,
// сумму к выплате и признак допустимости закрытия.
func Settle(d *domain.Deposit, asOf time.Time) DepositSettlement {
	if d == nil {
		return DepositSettlement{}
	}
	interest := AccruedInterest(d, asOf)
	s := DepositSettlement{
		DepositID:       d.ID,
		Type:            string(d.Type),
		Principal:       utils.Round2(d.Principal),
		AccruedInterest: utils.Round2(interest),
		Payout:          utils.Round2(d.Principal + interest),
		ValueAtMaturity: utils.Round2(ValueAtMaturity(d)),
		CanWithdraw:     CanWithdrawToday(d, asOf),
		Status:          string(d.Status),
	}
	if d.MaturityDate != nil {
		s.MaturityDate = d.MaturityDate.Format(time.DateOnly)
	}
	return s
}
