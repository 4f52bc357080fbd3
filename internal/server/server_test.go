package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/cloud-ru/backoffice-finance-go/internal/config"
	"github.com/cloud-ru/backoffice-finance-go/internal/storage"
	"github.com/cloud-ru/backoffice-finance-go/internal/tools"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	deps := tools.NewDeps(cfg, noop.NewTracerProvider().Tracer("test"), logger, storage.NewMemoryStore())
	deps.Clock = func() time.Time { return time.Date(2025, 4, 20, 0, 0, 0, 0, time.UTC) }
	return NewRouter(tools.Registry(deps), logger)
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	w := do(newTestRouter(t), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestListTools(t *testing.T) {
	w := do(newTestRouter(t), http.MethodGet, "/api/v1/tools", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Tools []string `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body.Tools, "loan_schedule")
	assert.Contains(t, body.Tools, "deposit_close")
}

func TestCallTool(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodPost, "/api/v1/tools/loan_schedule",
		`{"principal":12000,"annual_rate_percent":12,"months":12,"start_date":"2025-01-15"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Result struct {
			Summary struct {
				MonthlyPayment float64 `json:"monthly_payment"`
			} `json:"summary"`
			Schedule []json.RawMessage `json:"schedule"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1066.19, body.Result.Summary.MonthlyPayment)
	assert.Len(t, body.Result.Schedule, 12)
}

func TestCallToolErrors(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		name string
		path string
		body string
		want int
	}{
		{"unknown tool", "/api/v1/tools/nope", `{}`, http.StatusNotFound},
		{"invalid params", "/api/v1/tools/loan_schedule", `{"principal":-1,"annual_rate_percent":12,"months":12}`, http.StatusBadRequest},
		{"malformed body", "/api/v1/tools/loan_schedule", `[1,2`, http.StatusBadRequest},
		{"missing loan", "/api/v1/tools/loan_statement", `{"loan_id":"L-404"}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.want, w.Code)
			assert.Contains(t, w.Body.String(), "error")
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter(t)
	do(r, http.MethodPost, "/api/v1/tools/risk_assessment", `{"income":5000,"loan_amount":12000,"term":12}`)

	w := do(r, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "tool_calls_total")
}
