package calculations

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name      string
		in        RiskInput
		wantScore int
		wantLabel string
		wantDTI   float64
	}{
		{
			name:      "healthy borrower",
			in:        RiskInput{Income: 5000, OtherDebts: 200, LoanAmount: 12000, Term: 12, AnnualRate: 0.12},
			wantScore: 100,
			wantLabel: LabelLowRisk,
			wantDTI:   0.253237,
		},
		{
			name:      "long term and late payments",
			in:        RiskInput{Income: 3000, OtherDebts: 500, LoanAmount: 30000, Term: 84, AnnualRate: 0.2, LateCount: 2},
			wantScore: 74,
			wantLabel: LabelLowRisk,
			wantDTI:   0.388729,
		},
		{
			name:      "default rate and capped term penalty",
			in:        RiskInput{Income: 4000, LoanAmount: 100000, Term: 120},
			wantScore: 40,
			wantLabel: LabelMediumRisk,
			wantDTI:   0.772248,
		},
		{
			name:      "high DTI with late history",
			in:        RiskInput{Income: 1000, OtherDebts: 700, LoanAmount: 5000, Term: 12, AnnualRate: 0.12, LateCount: 4},
			wantScore: 18,
			wantLabel: LabelHighRisk,
			wantDTI:   1.144244,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Score(tt.in)
			assert.Equal(t, tt.wantScore, a.Score)
			assert.Equal(t, tt.wantLabel, a.Label)
			assert.InDelta(t, tt.wantDTI, a.DTI, 1e-6)
		})
	}
}

func TestScore_EstimatedInstallmentMatchesSchedule(t *testing.T) {
	a := Score(RiskInput{Income: 5000, LoanAmount: 12000, Term: 12, AnnualRate: 0.12})
	assert.InDelta(t, MonthlyPayment(12000, 12, 12), a.EstimatedInstallment, 1e-9)
}

func TestScore_ClampedForExtremeInputs(t *testing.T) {
	inputs := []RiskInput{
		{Income: 0, LoanAmount: 1e9, LateCount: 100, Term: 360, AnnualRate: 0.12},
		{Income: 1e12, LoanAmount: 1, Term: 1, AnnualRate: 0.01},
		{Income: -500, OtherDebts: -1e6, LoanAmount: -10, Term: -4, LateCount: -3},
		{Income: math.Inf(1), OtherDebts: math.NaN(), LoanAmount: math.Inf(-1), Term: math.NaN(), AnnualRate: math.NaN(), LateCount: math.Inf(1)},
	}

	for _, in := range inputs {
		a := Score(in)
		assert.GreaterOrEqual(t, a.Score, 0)
		assert.LessOrEqual(t, a.Score, 100)
		assert.False(t, math.IsNaN(a.DTI), "DTI must stay finite for %+v", in)
	}
	assert.Equal(t, 0, Score(inputs[0]).Score)
}

func TestScore_ReportsDefaultedFields(t *testing.T) {
	a := Score(RiskInput{Income: math.NaN(), LoanAmount: 1000, Term: 0, LateCount: math.Inf(1)})

	require.NotEmpty(t, a.Defaulted)
	assert.ElementsMatch(t, []string{"income", "late_count", "annual_rate"}, a.Defaulted)
	assert.InDelta(t, 1030.0, a.EstimatedInstallment, 1e-9)
}

func TestScore_NoDefaultsForCleanInput(t *testing.T) {
	a := Score(RiskInput{Income: 5000, LoanAmount: 1000, Term: 6, AnnualRate: 0.1})
	assert.Empty(t, a.Defaulted)
}
