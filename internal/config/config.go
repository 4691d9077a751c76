package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/i474232898/frost-dashboard/internal/frost"
)

var validate = validator.New()

type AppConfig struct {
	// BackendURL is the base URL of the prediction server.
	BackendURL  string
	HTTPTimeout time.Duration
	MaxRetries  int

	// Contract of the automatic forecast endpoint.
	Contract frost.ForecastContract

	// StaleGuard drops responses overtaken by a newer request.
	StaleGuard bool

	// RefreshInterval controls how often the stored prediction is reloaded (0 = never).
	RefreshInterval time.Duration

	// Diagnostics retention.
	DiagnosticsMaxHistory int           // max number of entries (0 = unlimited)
	DiagnosticsMaxAge     time.Duration // max age of entries (0 = unlimited)

	// ManualFeatures is the payload sent by the manual prediction button.
	ManualFeatures frost.Features

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.BackendURL = strings.TrimRight(getenvDefault("BACKEND_URL", "http://localhost:5000"), "/")

	timeout, err := time.ParseDuration(getenvDefault("HTTP_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout
	if cfg.MaxRetries, err = getenvInt("BACKEND_MAX_RETRIES", 0); err != nil {
		return nil, err
	}
	if cfg.MaxRetries < 0 {
		return nil, fmt.Errorf("invalid BACKEND_MAX_RETRIES: must not be negative")
	}

	contract, ok := frost.ParseForecastContract(getenvDefault("FORECAST_CONTRACT", string(frost.ContractBatch)))
	if !ok {
		return nil, fmt.Errorf("invalid FORECAST_CONTRACT: use %q or %q", frost.ContractSingle, frost.ContractBatch)
	}
	cfg.Contract = contract
	if cfg.StaleGuard, err = getenvBool("STALE_RESPONSE_GUARD", true); err != nil {
		return nil, err
	}

	refresh, err := time.ParseDuration(getenvDefault("REFRESH_INTERVAL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid REFRESH_INTERVAL: %w", err)
	}
	cfg.RefreshInterval = refresh

	if cfg.DiagnosticsMaxHistory, err = getenvInt("DIAGNOSTICS_MAX_HISTORY", 200); err != nil {
		return nil, err
	}
	maxAge, err := time.ParseDuration(getenvDefault("DIAGNOSTICS_MAX_AGE", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid DIAGNOSTICS_MAX_AGE: %w", err)
	}
	cfg.DiagnosticsMaxAge = maxAge

	features, err := loadManualFeatures()
	if err != nil {
		return nil, err
	}
	cfg.ManualFeatures = features
	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func loadManualFeatures() (frost.Features, error) {
	f := frost.Features{
		Ubicacion: getenvDefault("MANUAL_UBICACION", "Valle Central"),
		Estacion:  getenvDefault("MANUAL_ESTACION", "Estación Meteorológica Principal"),
	}

	var err error
	if f.Temperatura, err = getenvFloat("MANUAL_TEMPERATURA", 5.0); err != nil {
		return f, err
	}
	if f.HumedadRelativa, err = getenvFloat("MANUAL_HUMEDAD_RELATIVA", 85.0); err != nil {
		return f, err
	}
	if f.PresionAtmosferica, err = getenvFloat("MANUAL_PRESION_ATMOSFERICA", 1012.0); err != nil {
		return f, err
	}
	if f.HumedadSuelo, err = getenvFloat("MANUAL_HUMEDAD_SUELO", 60.0); err != nil {
		return f, err
	}

	if err := validate.Struct(f); err != nil {
		return f, fmt.Errorf("invalid manual features: %w", err)
	}
	return f, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getenvBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getenvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}
