package tools

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/cloud-ru/backoffice-finance-go/internal/calculations"
	"github.com/cloud-ru/backoffice-finance-go/internal/domain"
	"github.com/cloud-ru/backoffice-finance-go/internal/storage"
	"github.com/cloud-ru/backoffice-finance-go/internal/validators"
	"github.com/cloud-ru/backoffice-finance-go/pkg/utils"
)

// Причины отказа в закрытии вклада
const (
	ReasonDepositClosed      = "deposit already closed"
	ReasonMaturityNotReached = "maturity date not reached"
)

// DepositCloseResult итог закрытия вклада
type DepositCloseResult struct {
	Closed     bool                           `json:"closed"`
	Reason     string                         `json:"reason,omitempty"`
	Settlement calculations.DepositSettlement `json:"settlement"`
}

// DepositOpenHandler открывает срочный вклад или вклад до востребования
func DepositOpenHandler(d *Deps) ToolHandler {
	return d.instrument("deposit_open", func(ctx context.Context, span trace.Span, params map[string]interface{}) (interface{}, error) {
		now, err := d.now(params)
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
		kind, err := optStringParam(params, "type")
		if err != nil {
			return nil, err
		}
		principal, err := floatParam(params, "principal")
		if err != nil {
			return nil, err
		}
		start, err := timeParam(params, "start_date", utils.DateOnly(now))
		if err != nil {
			return nil, err
		}

		var dep *domain.Deposit
		switch domain.DepositType(kind) {
		case domain.DepositTerm, "":
			rate, err := floatParam(params, "annual_rate_percent")
			if err != nil {
				return nil, err
			}
			months, err := intParam(params, "months")
			if err != nil {
				return nil, err
			}
			dep = domain.NewTermDeposit(id, customerID, customerName, principal, rate, months, start)
		case domain.DepositDemand:
			dep = domain.NewDemandDeposit(id, customerID, customerName, principal, start)
		default:
			return nil, invalid(fmt.Errorf("type: ожидается Term или Demand"))
		}
		if err := validators.CheckDeposit(d.Cfg, dep); err != nil {
			return nil, invalid(err)
		}

		d.mu.Lock()
		defer d.mu.Unlock()

		if _, err := d.Deposits.Get(ctx, dep.ID); err == nil {
			return nil, invalid(fmt.Errorf("вклад %s уже существует", dep.ID))
		} else if !errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
		if err := d.Deposits.Save(ctx, dep); err != nil {
			return nil, fmt.Errorf("сохранение вклада: %w", err)
		}

		span.SetAttributes(
			attribute.String("deposit_id", dep.ID),
			attribute.String("type", string(dep.Type)),
		)
		d.Logger.InfoContext(ctx, "deposit opened", "deposit_id", dep.ID, "type", dep.Type, "principal", dep.Principal)
		return dep, nil
	})
}

func (d *Deps) loadDeposit(ctx context.Context, span trace.Span, params map[string]interface{}) (*domain.Deposit, error) {
	id, err := stringParam(params, "deposit_id")
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("deposit_id", id))
	dep, err := d.Deposits.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("вклад %s: %w", id, err)
	}
	return dep, nil
}

// DepositAccrualHandler начисленные проценты и сумма к погашению на дату
func DepositAccrualHandler(d *Deps) ToolHandler {
	return d.instrument("deposit_accrual", func(ctx context.Context, span trace.Span, params map[string]interface{}) (interface{}, error) {
		now, err := d.now(params)
		if err != nil {
			return nil, err
		}
		dep, err := d.loadDeposit(ctx, span, params)
		if err != nil {
			return nil, err
		}
		s := calculations.Settle(dep, now)
		span.SetAttributes(
			attribute.Float64("accrued_interest", s.AccruedInterest),
			attribute.Bool("can_withdraw", s.CanWithdraw),
		)
		return s, nil
	})
}

// DepositCloseHandler закрывает вклад, если снятие разрешено.
// Запрет не ошибка: возвращается closed=false с причиной.
func DepositCloseHandler(d *Deps) ToolHandler {
	return d.instrument("deposit_close", func(ctx context.Context, span trace.Span, params map[string]interface{}) (interface{}, error) {
		now, err := d.now(params)
		if err != nil {
			return nil, err
		}

		d.mu.Lock()
		defer d.mu.Unlock()

		dep, err := d.loadDeposit(ctx, span, params)
		if err != nil {
			return nil, err
		}

		result := &DepositCloseResult{Settlement: calculations.Settle(dep, now)}
		switch {
		case dep.Status == domain.DepositClosed:
			result.Reason = ReasonDepositClosed
		case !result.Settlement.CanWithdraw:
			result.Reason = ReasonMaturityNotReached
		default:
			interest := calculations.AccruedInterest(dep, now)
			if interest > 0 {
				dep.Record("interest", interest, now)
			}
			dep.Record("withdraw", dep.Principal+interest, now)
			dep.Status = domain.DepositClosed
			if err := d.Deposits.Save(ctx, dep); err != nil {
				return nil, fmt.Errorf("сохранение вклада: %w", err)
			}
			result.Closed = true
			result.Settlement.Status = string(dep.Status)
			d.Logger.InfoContext(ctx, "deposit closed", "deposit_id", dep.ID, "payout", result.Settlement.Payout)
		}

		span.SetAttributes(
			attribute.Bool("closed", result.Closed),
			attribute.String("reason", result.Reason),
		)
		return result, nil
	})
}
