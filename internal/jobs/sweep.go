// Package jobs фоновые задачи по расписанию.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/cloud-ru/backoffice-finance-go/internal/calculations"
	"github.com/cloud-ru/backoffice-finance-go/internal/metrics"
	"github.com/cloud-ru/backoffice-finance-go/internal/storage"
)

// SweepReport итог одной сверки просрочек
type SweepReport struct {
	AsOf         time.Time
	Loans        int
	OverdueLoans int
	LateFees     float64
}

// OverdueSweep обходит сохранённые кредиты, считает пени на текущую дату
// и публикует итог в метриках.
type OverdueSweep struct {
	Loans            *storage.LoanRepository
	Ledgers          *storage.LedgerRepository
	LateFeeDailyRate float64
	Logger           *slog.Logger
	Clock            func() time.Time
}

// Run выполняет одну сверку на дату Clock()
func (s *OverdueSweep) Run(ctx context.Context) (SweepReport, error) {
	now := s.Clock()
	report := SweepReport{AsOf: now}

	loans, err := s.Loans.List(ctx)
	if err != nil {
		return report, fmt.Errorf("sweep: list loans: %w", err)
	}
	for _, loan := range loans {
		schedule, err := calculations.BuildSchedule(loan.Principal, loan.AnnualRatePercent, loan.TermMonths, loan.StartDate, now)
		if err != nil {
			s.Logger.WarnContext(ctx, "sweep: skip loan", "loan_id", loan.ID, "error", err)
			continue
		}
		state, err := s.Ledgers.Get(ctx, loan.ID)
		if err != nil {
			return report, fmt.Errorf("sweep: ledger %s: %w", loan.ID, err)
		}

		report.Loans++
		fee := state.LateFee(schedule, now, s.LateFeeDailyRate)
		if len(fee.Items) == 0 {
			continue
		}
		report.OverdueLoans++
		report.LateFees += fee.Total
		s.Logger.InfoContext(ctx, "loan overdue",
			"loan_id", loan.ID,
			"customer_id", loan.CustomerID,
			"overdue_installments", len(fee.Items),
			"late_fee", fee.Rounded().Total,
		)
	}

	metrics.OverdueLoans.Set(float64(report.OverdueLoans))
	metrics.LateFeesOutstanding.Set(report.LateFees)
	s.Logger.InfoContext(ctx, "overdue sweep finished",
		"loans", report.Loans,
		"overdue", report.OverdueLoans,
		"late_fees", report.LateFees,
	)
	return report, nil
}

// Schedule регистрирует сверку в планировщике. expr в формате cron
// или дескриптор вида @daily.
func (s *OverdueSweep) Schedule(ctx context.Context, c *cron.Cron, expr string) (cron.EntryID, error) {
	id, err := c.AddFunc(expr, func() {
		if _, err := s.Run(ctx); err != nil {
			s.Logger.ErrorContext(ctx, "overdue sweep failed", "error", err)
		}
	})
	if err != nil {
		return 0, fmt.Errorf("sweep: schedule %q: %w", expr, err)
	}
	return id, nil
}
