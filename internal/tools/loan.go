package tools

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/cloud-ru/backoffice-finance-go/internal/calculations"
	"github.com/cloud-ru/backoffice-finance-go/internal/domain"
	"github.com/cloud-ru/backoffice-finance-go/internal/ledger"
	"github.com/cloud-ru/backoffice-finance-go/internal/metrics"
	"github.com/cloud-ru/backoffice-finance-go/internal/storage"
	"github.com/cloud-ru/backoffice-finance-go/internal/validators"
	"github.com/cloud-ru/backoffice-finance-go/pkg/utils"
)

// LoanStatementResult график и выписка по сохранённому кредиту
type LoanStatementResult struct {
	Loan      *domain.Loan                   `json:"loan"`
	Summary   calculations.LoanSummary       `json:"summary"`
	Schedule  []calculations.InstallmentView `json:"schedule"`
	Paid      []int                          `json:"paid"`
	History   []ledger.PaymentRecord         `json:"history"`
	Statement ledger.Statement               `json:"statement"`
}

// MutationResult результат операции над учётом платежей
type MutationResult struct {
	LoanID   string           `json:"loan_id"`
	Outcome  ledger.Outcome   `json:"outcome"`
	Paid     []int            `json:"paid"`
	Balances *ledger.Balances `json:"balances,omitempty"`
}

// DecisionResult рекомендация и итоговый статус заявки
type DecisionResult struct {
	LoanID   string                `json:"loan_id"`
	Decision calculations.Decision `json:"decision"`
	Applied  bool                  `json:"applied"`
	Status   domain.LoanStatus     `json:"status"`
}

// loanTerms читает и проверяет principal, annual_rate_percent, months
func (d *Deps) loanTerms(span trace.Span, params map[string]interface{}) (float64, float64, int, error) {
	principal, err := floatParam(params, "principal")
	if err != nil {
		return 0, 0, 0, err
	}
	annualRatePercent, err := floatParam(params, "annual_rate_percent")
	if err != nil {
		return 0, 0, 0, err
	}
	months, err := intParam(params, "months")
	if err != nil {
		return 0, 0, 0, err
	}

	span.SetAttributes(
		attribute.Float64("principal", principal),
		attribute.Float64("annual_rate_percent", annualRatePercent),
		attribute.Int("months", months),
	)

	if err := validators.CheckPrincipal(d.Cfg, principal); err != nil {
		return 0, 0, 0, invalid(err)
	}
	if err := validators.CheckRate(d.Cfg, annualRatePercent); err != nil {
		return 0, 0, 0, invalid(err)
	}
	if err := validators.CheckMonths(d.Cfg, months); err != nil {
		return 0, 0, 0, invalid(err)
	}
	return principal, annualRatePercent, months, nil
}

// LoanScheduleHandler строит аннуитетный график по параметрам без сохранения
func LoanScheduleHandler(d *Deps) ToolHandler {
	return d.instrument("loan_schedule", func(ctx context.Context, span trace.Span, params map[string]interface{}) (interface{}, error) {
		now, err := d.now(params)
		if err != nil {
			return nil, err
		}
		principal, rate, months, err := d.loanTerms(span, params)
		if err != nil {
			return nil, err
		}
		start, err := timeParam(params, "start_date", utils.DateOnly(now))
		if err != nil {
			return nil, err
		}

		schedule, err := calculations.BuildSchedule(principal, rate, months, start, now)
		if err != nil {
			return nil, fmt.Errorf("ошибка при выполнении расчета: %w", err)
		}

		result := schedule.View()
		span.SetAttributes(
			attribute.Float64("monthly_payment", result.Summary.MonthlyPayment),
			attribute.Float64("total_paid", result.Summary.TotalPaid),
		)
		return result, nil
	})
}

// LoanSubmitHandler регистрирует заявку в статусе PendingApproval
func LoanSubmitHandler(d *Deps) ToolHandler {
	return d.instrument("loan_submit", func(ctx context.Context, span trace.Span, params map[string]interface{}) (interface{}, error) {
		now, err := d.now(params)
		if err != nil {
			return nil, err
		}
		principal, rate, months, err := d.loanTerms(span, params)
		if err != nil {
			return nil, err
		}
		start, err := timeParam(params, "start_date", utils.DateOnly(now))
		if err != nil {
			return nil, err
		}
		id, err := optStringParam(params, "id")
		if err != nil {
			return nil, err
		}
		customerID, err := stringParam(params, "customer_id")
		if err != nil {
			return nil, err
		}
		customerName, err := optStringParam(params, "customer_name")
		if err != nil {
			return nil, err
		}

		loan := domain.NewLoan(id, customerID, customerName, principal, rate, months, start, now)
		if loan.Type, err = optStringParam(params, "loan_type"); err != nil {
			return nil, err
		}
		if loan.SubType, err = optStringParam(params, "sub_type"); err != nil {
			return nil, err
		}
		if hasAny(params, "monthly_income", "other_monthly_debt", "late_count", "insured") {
			u, err := underwritingParams(params)
			if err != nil {
				return nil, err
			}
			loan.Underwriting = u
		}
		if err := validators.CheckLoan(d.Cfg, loan); err != nil {
			return nil, invalid(err)
		}

		d.mu.Lock()
		defer d.mu.Unlock()

		if _, err := d.Loans.Get(ctx, loan.ID); err == nil {
			return nil, invalid(fmt.Errorf("кредит %s уже существует", loan.ID))
		} else if !errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
		if err := d.Loans.Save(ctx, loan); err != nil {
			return nil, fmt.Errorf("сохранение кредита: %w", err)
		}

		span.SetAttributes(attribute.String("loan_id", loan.ID))
		d.Logger.InfoContext(ctx, "loan submitted", "loan_id", loan.ID, "customer_id", loan.CustomerID, "principal", loan.Principal)
		return loan, nil
	})
}

func underwritingParams(params map[string]interface{}) (*domain.Underwriting, error) {
	var (
		u   domain.Underwriting
		err error
	)
	if u.MonthlyIncome, err = optFloatParam(params, "monthly_income", 0); err != nil {
		return nil, err
	}
	if u.OtherMonthlyDebt, err = optFloatParam(params, "other_monthly_debt", 0); err != nil {
		return nil, err
	}
	if u.LateCount, err = optIntParam(params, "late_count", 0); err != nil {
		return nil, err
	}
	if u.Insured, err = optBoolParam(params, "insured"); err != nil {
		return nil, err
	}
	return &u, nil
}

// loadLoan читает кредит и строит его график на дату now
func (d *Deps) loadLoan(ctx context.Context, span trace.Span, params map[string]interface{}, now time.Time) (*domain.Loan, *calculations.Schedule, error) {
	id, err := stringParam(params, "loan_id")
	if err != nil {
		return nil, nil, err
	}
	span.SetAttributes(attribute.String("loan_id", id))

	loan, err := d.Loans.Get(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("кредит %s: %w", id, err)
	}
	schedule, err := calculations.BuildSchedule(loan.Principal, loan.AnnualRatePercent, loan.TermMonths, loan.StartDate, now)
	if err != nil {
		return nil, nil, fmt.Errorf("кредит %s: %w", id, err)
	}
	return loan, schedule, nil
}

// LoanStatementHandler график, остаток и пени по сохранённому кредиту
func LoanStatementHandler(d *Deps) ToolHandler {
	return d.instrument("loan_statement", func(ctx context.Context, span trace.Span, params map[string]interface{}) (interface{}, error) {
		now, err := d.now(params)
		if err != nil {
			return nil, err
		}
		loan, schedule, err := d.loadLoan(ctx, span, params, now)
		if err != nil {
			return nil, err
		}
		state, err := d.Ledgers.Get(ctx, loan.ID)
		if err != nil {
			return nil, err
		}

		view := schedule.View()
		statement := state.Statement(schedule, now, d.Cfg.LateFeeDailyRate)
		span.SetAttributes(
			attribute.Float64("outstanding_due", statement.OutstandingDue),
			attribute.Int("overdue_count", statement.OverdueCount),
		)
		return &LoanStatementResult{
			Loan:      loan,
			Summary:   view.Summary,
			Schedule:  view.Schedule,
			Paid:      state.Paid,
			History:   state.History,
			Statement: statement,
		}, nil
	})
}

type ledgerOp func(state *ledger.State, schedule *calculations.Schedule, params map[string]interface{}, now time.Time) (ledger.Outcome, error)

// mutate загружает учёт, применяет операцию и сохраняет только применённые изменения.
// Неизвестный кредит не ошибка: операция возвращает Outcome с причиной.
func (d *Deps) mutate(toolName string, op ledgerOp) ToolHandler {
	return d.instrument(toolName, func(ctx context.Context, span trace.Span, params map[string]interface{}) (interface{}, error) {
		now, err := d.now(params)
		if err != nil {
			return nil, err
		}

		d.mu.Lock()
		defer d.mu.Unlock()

		loanID, err := stringParam(params, "loan_id")
		if err != nil {
			return nil, err
		}
		loan, schedule, err := d.loadLoan(ctx, span, params, now)
		if errors.Is(err, storage.ErrNotFound) {
			out := ledger.Outcome{Reason: ledger.ReasonUnknownLoan}
			metrics.LedgerMutations.WithLabelValues(toolName, metrics.Outcome(false)).Inc()
			return &MutationResult{LoanID: loanID, Outcome: out}, nil
		}
		if err != nil {
			return nil, err
		}

		state, err := d.Ledgers.Get(ctx, loan.ID)
		if err != nil {
			return nil, err
		}
		out, err := op(state, schedule, params, now)
		if err != nil {
			return nil, err
		}
		if out.Applied {
			if err := d.Ledgers.Save(ctx, state); err != nil {
				return nil, fmt.Errorf("сохранение учёта %s: %w", loan.ID, err)
			}
			d.Logger.InfoContext(ctx, "ledger updated", "tool", toolName, "loan_id", loan.ID)
		}

		metrics.LedgerMutations.WithLabelValues(toolName, metrics.Outcome(out.Applied)).Inc()
		span.SetAttributes(
			attribute.Bool("applied", out.Applied),
			attribute.String("reason", out.Reason),
		)

		b := state.Balances(schedule).Rounded()
		return &MutationResult{
			LoanID:   loan.ID,
			Outcome:  out,
			Paid:     state.Paid,
			Balances: &b,
		}, nil
	})
}

// LoanMarkPaidHandler отмечает платёж оплаченным
func LoanMarkPaidHandler(d *Deps) ToolHandler {
	return d.mutate("loan_mark_paid", func(state *ledger.State, schedule *calculations.Schedule, params map[string]interface{}, now time.Time) (ledger.Outcome, error) {
		n, err := intParam(params, "installment")
		if err != nil {
			return ledger.Outcome{}, err
		}
		return state.MarkPaid(schedule, n, now), nil
	})
}

// LoanMarkUnpaidHandler снимает отметку об оплате
func LoanMarkUnpaidHandler(d *Deps) ToolHandler {
	return d.mutate("loan_mark_unpaid", func(state *ledger.State, _ *calculations.Schedule, params map[string]interface{}, _ time.Time) (ledger.Outcome, error) {
		n, err := intParam(params, "installment")
		if err != nil {
			return ledger.Outcome{}, err
		}
		return state.MarkUnpaid(n), nil
	})
}

// LoanEarlyCloseHandler досрочно закрывает кредит
func LoanEarlyCloseHandler(d *Deps) ToolHandler {
	return d.mutate("loan_early_close", func(state *ledger.State, schedule *calculations.Schedule, _ map[string]interface{}, now time.Time) (ledger.Outcome, error) {
		return state.EarlyClose(schedule, now), nil
	})
}

// LoanDecisionHandler рекомендация по сохранённой заявке.
// При apply=true рекомендация применяется к статусу заявки.
func LoanDecisionHandler(d *Deps) ToolHandler {
	return d.instrument("loan_decision", func(ctx context.Context, span trace.Span, params map[string]interface{}) (interface{}, error) {
		apply, err := optBoolParam(params, "apply")
		if err != nil {
			return nil, err
		}
		id, err := stringParam(params, "loan_id")
		if err != nil {
			return nil, err
		}
		span.SetAttributes(attribute.String("loan_id", id), attribute.Bool("apply", apply))

		d.mu.Lock()
		defer d.mu.Unlock()

		loan, err := d.Loans.Get(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("кредит %s: %w", id, err)
		}

		decision := calculations.Decide(calculations.DecisionInputFromLoan(loan))
		result := &DecisionResult{LoanID: loan.ID, Decision: decision}
		if apply && loan.ApplyDecision(decision.Status) {
			if err := d.Loans.Save(ctx, loan); err != nil {
				return nil, fmt.Errorf("сохранение кредита: %w", err)
			}
			result.Applied = true
			d.Logger.InfoContext(ctx, "decision applied", "loan_id", loan.ID, "status", loan.Status, "reason", decision.Reason)
		}
		result.Status = loan.Status

		span.SetAttributes(
			attribute.String("decision", string(decision.Status)),
			attribute.Bool("applied", result.Applied),
		)
		return result, nil
	})
}
