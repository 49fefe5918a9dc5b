// Package config loads runtime settings from environment variables with
// documented defaults.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the application's configuration values. APIKey is required;
// its absence is enforced at client construction.
type Config struct {
	APIKey         string
	BaseURL        string
	AttemptTimeout time.Duration
	CallDeadline   time.Duration
	MaxAttempts    int
	RetryWaitMin   time.Duration
	RetryWaitMax   time.Duration
	UpstreamRPS    float64

	// Estimation rates for the mortgage engine; region-specific, so they
	// stay configurable.
	PropertyTaxRate float64
	InsuranceRate   float64
	PMIRate         float64
}

// Load reads configuration from the environment.
func Load() *Config {
	return &Config{
		APIKey:         os.Getenv("ZILLOW_API_KEY"),
		BaseURL:        getEnv("ZILLOW_API_BASE_URL", ""),
		AttemptTimeout: getEnvDuration("ZILLOW_ATTEMPT_TIMEOUT", 10*time.Second),
		CallDeadline:   getEnvDuration("ZILLOW_CALL_DEADLINE", 30*time.Second),
		MaxAttempts:    getEnvInt("ZILLOW_MAX_ATTEMPTS", 4),
		RetryWaitMin:   getEnvDuration("ZILLOW_RETRY_WAIT_MIN", 500*time.Millisecond),
		RetryWaitMax:   getEnvDuration("ZILLOW_RETRY_WAIT_MAX", 8*time.Second),
		UpstreamRPS:    getEnvFloat("ZILLOW_UPSTREAM_RPS", 5),

		PropertyTaxRate: getEnvFloat("MORTGAGE_PROPERTY_TAX_RATE", 0.011),
		InsuranceRate:   getEnvFloat("MORTGAGE_INSURANCE_RATE", 0.0035),
		PMIRate:         getEnvFloat("MORTGAGE_PMI_RATE", 0.007),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := strconv.Atoi(valueStr); err == nil {
			return value
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
			return value
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := time.ParseDuration(valueStr); err == nil {
			return value
		}
	}
	return fallback
}
