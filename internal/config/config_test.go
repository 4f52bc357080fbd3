package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "MAX_MONTHS", "LATE_FEE_DAILY_RATE", "STORE_BACKEND", "SWEEP_SCHEDULE"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, 600, cfg.MaxMonths)
	assert.Equal(t, 0.0005, cfg.LateFeeDailyRate)
	assert.Equal(t, StoreMemory, cfg.StoreBackend)
	assert.Equal(t, "@daily", cfg.SweepSchedule)
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LATE_FEE_DAILY_RATE", "0.001")
	t.Setenv("STORE_BACKEND", StoreRedis)
	t.Setenv("MAX_MONTHS", "not-a-number")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 0.001, cfg.LateFeeDailyRate)
	assert.Equal(t, StoreRedis, cfg.StoreBackend)
	assert.Equal(t, 600, cfg.MaxMonths)
}
