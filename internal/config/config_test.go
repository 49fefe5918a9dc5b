package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, 10*time.Second, cfg.AttemptTimeout)
	assert.Equal(t, 30*time.Second, cfg.CallDeadline)
	assert.Equal(t, 4, cfg.MaxAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.RetryWaitMin)
	assert.Equal(t, 8*time.Second, cfg.RetryWaitMax)
	assert.Equal(t, 5.0, cfg.UpstreamRPS)
	assert.Equal(t, 0.011, cfg.PropertyTaxRate)
	assert.Equal(t, 0.0035, cfg.InsuranceRate)
	assert.Equal(t, 0.007, cfg.PMIRate)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ZILLOW_API_KEY", "secret")
	t.Setenv("ZILLOW_CALL_DEADLINE", "45s")
	t.Setenv("ZILLOW_MAX_ATTEMPTS", "2")
	t.Setenv("ZILLOW_UPSTREAM_RPS", "2.5")
	t.Setenv("MORTGAGE_PMI_RATE", "0.005")

	cfg := Load()
	assert.Equal(t, "secret", cfg.APIKey)
	assert.Equal(t, 45*time.Second, cfg.CallDeadline)
	assert.Equal(t, 2, cfg.MaxAttempts)
	assert.Equal(t, 2.5, cfg.UpstreamRPS)
	assert.Equal(t, 0.005, cfg.PMIRate)
}

func TestMalformedValuesFallBack(t *testing.T) {
	t.Setenv("ZILLOW_MAX_ATTEMPTS", "lots")
	t.Setenv("ZILLOW_RETRY_WAIT_MIN", "soon")
	t.Setenv("MORTGAGE_INSURANCE_RATE", "n/a")

	cfg := Load()
	assert.Equal(t, 4, cfg.MaxAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.RetryWaitMin)
	assert.Equal(t, 0.0035, cfg.InsuranceRate)
}
