package utils

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Round2 округляет число до 2 знаков после запятой.
// Округление идёт через decimal, чтобы 1.005 не превращалось в 1.00
// из-за двоичного представления float64.
func Round2(value float64) float64 {
	if !IsFinite(value) {
		return value
	}
	return decimal.NewFromFloat(value).Round(2).InexactFloat64()
}

// IsFinite проверяет, является ли число конечным
func IsFinite(value float64) bool {
	return !math.IsInf(value, 0) && !math.IsNaN(value)
}

// Safe возвращает value, если оно конечно, иначе 0.
// Второй результат сообщает, что значение было подменено.
func Safe(value float64) (float64, bool) {
	if IsFinite(value) {
		return value, false
	}
	return 0, true
}

// DateOnly возвращает полночь UTC той календарной даты, которую t имеет в своей зоне.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween возвращает число календарных дней от from до to
// (отрицательное, если to раньше from). Переходы на летнее время не влияют.
func DaysBetween(from, to time.Time) int {
	return int(DateOnly(to).Sub(DateOnly(from)).Hours() / 24)
}
