package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	defaultJWTSecret     = "change-me-jwt-secret"
	defaultJWTAccessTTL  = "24h"
	defaultPaymentWindow = "24h"
	defaultSnapBaseURL   = "https://app.sandbox.midtrans.com"
	defaultExpirySpec    = "*/5 * * * *"
	defaultReconcileSpec = "0 3 * * *"
)

type RuntimeConfig struct {
	AppEnv       string
	Port         string
	DatabaseURL  string
	JWTSecret    string
	JWTAccessTTL time.Duration

	// How long an unpaid/deposit-paid booking may wait for payment before
	// the expiry sweep claims it.
	PaymentWindow time.Duration

	SnapBaseURL       string
	MidtransServerKey string

	ExpiryCronSpec    string
	ReconcileCronSpec string
}

func LoadRuntimeConfig() (*RuntimeConfig, error) {
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}

	cfg := &RuntimeConfig{
		AppEnv:            strings.ToLower(appEnv),
		Port:              getEnv("PORT", "8080"),
		DatabaseURL:       getEnv("DATABASE_URL", "file:koskita.db?cache=shared"),
		JWTSecret:         strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret)),
		SnapBaseURL:       strings.TrimSpace(getEnv("MIDTRANS_SNAP_URL", defaultSnapBaseURL)),
		MidtransServerKey: strings.TrimSpace(os.Getenv("MIDTRANS_SERVER_KEY")),
		ExpiryCronSpec:    getEnv("EXPIRY_CRON_SPEC", defaultExpirySpec),
		ReconcileCronSpec: getEnv("RECONCILE_CRON_SPEC", defaultReconcileSpec),
	}

	var err error
	cfg.JWTAccessTTL, err = parseDurationEnv("JWT_ACCESS_TTL", defaultJWTAccessTTL)
	if err != nil {
		return nil, err
	}
	cfg.PaymentWindow, err = parseDurationEnv("PAYMENT_WINDOW", defaultPaymentWindow)
	if err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *RuntimeConfig) error {
	if cfg.JWTAccessTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be > 0")
	}
	if cfg.PaymentWindow <= 0 {
		return fmt.Errorf("PAYMENT_WINDOW must be > 0")
	}
	if isProdLike(cfg.AppEnv) {
		if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if cfg.MidtransServerKey == "" {
			return fmt.Errorf("in prod/release MIDTRANS_SERVER_KEY must be set")
		}
	}
	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
