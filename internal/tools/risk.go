package tools

import (
	"context"
	"math"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/cloud-ru/backoffice-finance-go/internal/calculations"
)

// RiskAssessmentHandler скоринг по сырым данным заёмщика.
// Отсутствующие поля не ошибка: скоринг подставит значения по умолчанию
// и перечислит их в defaulted.
func RiskAssessmentHandler(d *Deps) ToolHandler {
	return d.instrument("risk_assessment", func(ctx context.Context, span trace.Span, params map[string]interface{}) (interface{}, error) {
		var in calculations.RiskInput
		fields := []struct {
			key string
			dst *float64
		}{
			{"income", &in.Income},
			{"other_debts", &in.OtherDebts},
			{"loan_amount", &in.LoanAmount},
			{"term", &in.Term},
			{"annual_rate", &in.AnnualRate},
			{"late_count", &in.LateCount},
		}
		for _, f := range fields {
			v, err := optFloatParam(params, f.key, math.NaN())
			if err != nil {
				return nil, err
			}
			*f.dst = v
		}

		a := calculations.Score(in)
		span.SetAttributes(
			attribute.Int("score", a.Score),
			attribute.String("label", a.Label),
			attribute.Float64("dti", a.DTI),
			attribute.StringSlice("defaulted", a.Defaulted),
		)
		return a, nil
	})
}
