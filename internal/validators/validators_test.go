package validators

import (
	"math"
	"testing"
	"time"

	"github.com/cloud-ru/backoffice-finance-go/internal/config"
	"github.com/cloud-ru/backoffice-finance-go/internal/domain"
)

func TestValidators(t *testing.T) {
	cfg, _ := config.LoadConfig()

	tests := []struct {
		name      string
		validator func(*config.Config, interface{}) error
		value     interface{}
		wantError bool
	}{
		{
			name:      "valid principal",
			validator: func(cfg *config.Config, v interface{}) error { return CheckPrincipal(cfg, v.(float64)) },
			value:     1000000.0,
			wantError: false,
		},
		{
			name:      "invalid principal zero",
			validator: func(cfg *config.Config, v interface{}) error { return CheckPrincipal(cfg, v.(float64)) },
			value:     0.0,
			wantError: true,
		},
		{
			name:      "invalid principal NaN",
			validator: func(cfg *config.Config, v interface{}) error { return CheckPrincipal(cfg, v.(float64)) },
			value:     math.NaN(),
			wantError: true,
		},
		{
			name:      "valid zero rate",
			validator: func(cfg *config.Config, v interface{}) error { return CheckRate(cfg, v.(float64)) },
			value:     0.0,
			wantError: false,
		},
		{
			name:      "invalid rate negative",
			validator: func(cfg *config.Config, v interface{}) error { return CheckRate(cfg, v.(float64)) },
			value:     -1.0,
			wantError: true,
		},
		{
			name:      "valid months",
			validator: func(cfg *config.Config, v interface{}) error { return CheckMonths(cfg, v.(int)) },
			value:     12,
			wantError: false,
		},
		{
			name:      "invalid months zero",
			validator: func(cfg *config.Config, v interface{}) error { return CheckMonths(cfg, v.(int)) },
			value:     0,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.validator(cfg, tt.value)
			if (err != nil) != tt.wantError {
				t.Errorf("validator error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestCheckLoan(t *testing.T) {
	cfg, _ := config.LoadConfig()
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	valid := domain.NewLoan("l-1", "c-1", "", 12000, 12, 12, start, start)
	if err := CheckLoan(cfg, valid); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	noCustomer := domain.NewLoan("l-2", "", "", 12000, 12, 12, start, start)
	if err := CheckLoan(cfg, noCustomer); err == nil {
		t.Error("expected error for missing customer")
	}

	badFacts := domain.NewLoan("l-3", "c-1", "", 12000, 12, 12, start, start)
	badFacts.Underwriting = &domain.Underwriting{MonthlyIncome: 1000, LateCount: -1}
	if err := CheckLoan(cfg, badFacts); err == nil {
		t.Error("expected error for negative late count")
	}
}

func TestCheckDeposit(t *testing.T) {
	cfg, _ := config.LoadConfig()
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	if err := CheckDeposit(cfg, domain.NewTermDeposit("d-1", "c-1", "", 10000, 10, 3, start)); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := CheckDeposit(cfg, domain.NewTermDeposit("d-2", "c-1", "", 10000, 10, 0, start)); err == nil {
		t.Error("expected error for zero-month term deposit")
	}
	if err := CheckDeposit(cfg, domain.NewDemandDeposit("d-3", "c-1", "", 500, start)); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	demand := domain.NewDemandDeposit("d-4", "c-1", "", 500, start)
	demand.AnnualRatePercent = 3
	if err := CheckDeposit(cfg, demand); err == nil {
		t.Error("expected error for demand deposit with a rate")
	}
}
