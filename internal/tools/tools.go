package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/cloud-ru/backoffice-finance-go/internal/config"
	"github.com/cloud-ru/backoffice-finance-go/internal/metrics"
	"github.com/cloud-ru/backoffice-finance-go/internal/storage"
)

// ToolHandler представляет обработчик инструмента
type ToolHandler func(ctx context.Context, params map[string]interface{}) (interface{}, error)

// ErrInvalidParams некорректные входные параметры инструмента
var ErrInvalidParams = errors.New("неверные параметры")

// Deps зависимости обработчиков
type Deps struct {
	Cfg      *config.Config
	Tracer   trace.Tracer
	Logger   *slog.Logger
	Loans    *storage.LoanRepository
	Ledgers  *storage.LedgerRepository
	Deposits *storage.DepositRepository
	// Clock источник текущего времени, если в запросе не передан now
	Clock func() time.Time

	// mu сериализует чтение-изменение-запись записей в хранилище
	mu sync.Mutex
}

// NewDeps собирает зависимости поверх одного хранилища
func NewDeps(cfg *config.Config, tracer trace.Tracer, logger *slog.Logger, store storage.Store) *Deps {
	return &Deps{
		Cfg:      cfg,
		Tracer:   tracer,
		Logger:   logger,
		Loans:    storage.NewLoanRepository(store),
		Ledgers:  storage.NewLedgerRepository(store),
		Deposits: storage.NewDepositRepository(store),
		Clock:    time.Now,
	}
}

// Registry возвращает все инструменты по именам
func Registry(d *Deps) map[string]ToolHandler {
	return map[string]ToolHandler{
		"loan_schedule":    LoanScheduleHandler(d),
		"loan_submit":      LoanSubmitHandler(d),
		"loan_statement":   LoanStatementHandler(d),
		"loan_mark_paid":   LoanMarkPaidHandler(d),
		"loan_mark_unpaid": LoanMarkUnpaidHandler(d),
		"loan_early_close": LoanEarlyCloseHandler(d),
		"loan_decision":    LoanDecisionHandler(d),
		"risk_assessment":  RiskAssessmentHandler(d),
		"deposit_open":     DepositOpenHandler(d),
		"deposit_accrual":  DepositAccrualHandler(d),
		"deposit_close":    DepositCloseHandler(d),
	}
}

// Names отсортированный список имён инструментов
func Names(registry map[string]ToolHandler) []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type toolFunc func(ctx context.Context, span trace.Span, params map[string]interface{}) (interface{}, error)

// instrument оборачивает инструмент в span и счётчики
func (d *Deps) instrument(toolName string, fn toolFunc) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		ctx, span := d.Tracer.Start(ctx, toolName)
		defer span.End()

		metrics.APICalls.WithLabelValues("backoffice", toolName, "started").Inc()

		result, err := fn(ctx, span, params)
		if err != nil {
			kind := errorKind(err)
			span.SetAttributes(attribute.String("error", kind))
			span.SetStatus(codes.Error, err.Error())
			metrics.ToolCalls.WithLabelValues(toolName, kind).Inc()
			metrics.CalculationErrors.WithLabelValues(toolName, kind).Inc()
			metrics.APICalls.WithLabelValues("backoffice", toolName, "error").Inc()
			d.Logger.WarnContext(ctx, "tool failed", "tool", toolName, "kind", kind, "error", err)
			return nil, err
		}

		span.SetAttributes(attribute.Bool("success", true))
		metrics.ToolCalls.WithLabelValues(toolName, "success").Inc()
		metrics.APICalls.WithLabelValues("backoffice", toolName, "success").Inc()
		return result, nil
	}
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidParams):
		return "validation_error"
	case errors.Is(err, storage.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}

func invalid(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidParams, err)
}

// now время оценки: параметр now или часы сервиса
func (d *Deps) now(params map[string]interface{}) (time.Time, error) {
	return timeParam(params, "now", d.Clock())
}
