package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ToolCalls счетчик вызовов инструментов
	ToolCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tool_calls_total",
			Help: "Общее количество вызовов инструментов",
		},
		[]string{"tool_name", "status"},
	)

	// CalculationErrors счетчик ошибок расчетов
	CalculationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "calculation_errors_total",
			Help: "Количество ошибок расчетов",
		},
		[]string{"tool_name", "error_type"},
	)

	// APICalls счетчик вызовов API
	APICalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_calls_total",
			Help: "Вызовы API инструментов",
		},
		[]string{"service", "endpoint", "status"},
	)

	// LedgerMutations счетчик операций над учётом платежей
	LedgerMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_mutations_total",
			Help: "Операции отметки платежей и досрочного закрытия",
		},
		[]string{"operation", "outcome"},
	)

	// OverdueLoans число кредитов с просрочкой на момент последней сверки
	OverdueLoans = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "loans_overdue",
			Help: "Кредиты с просроченными неоплаченными платежами",
		},
	)

	// LateFeesOutstanding сумма начисленных пеней на момент последней сверки
	LateFeesOutstanding = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "late_fees_outstanding",
			Help: "Сумма пеней по всем кредитам",
		},
	)
)

// Outcome метка результата мутации для LedgerMutations
func Outcome(applied bool) string {
	if applied {
		return "applied"
	}
	return "noop"
}
