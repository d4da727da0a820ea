package config

import (
	"os"
	"strconv"
	"time"
)

// RateLimitConfig controls the failed-login limiter.  The defaults mirror
// the portal's long-standing policy: five failed attempts per client within
// a fifteen minute window.
type RateLimitConfig struct {
	MaxAttempts int
	Window      time.Duration
	Prefix      string
}

func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		MaxAttempts: envInt("LOGIN_MAX_ATTEMPTS", 5),
		Window:      envDur("LOGIN_ATTEMPT_WINDOW", 15*time.Minute),
		Prefix:      envStr("LOGIN_ATTEMPT_PREFIX", "login_attempts"),
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.Window <= 0 {
		cfg.Window = 15 * time.Minute
	}
	return cfg
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
