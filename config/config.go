// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/katalvlaran/gwsur/fit"
	"github.com/katalvlaran/gwsur/greedy"
	"github.com/katalvlaran/gwsur/pipeline"
	"github.com/katalvlaran/gwsur/surrogate"
)

// Config holds every setting of the gwsur binary.
type Config struct {
	// Storage
	StorePath  string
	LedgerPath string

	// HTTP
	HTTPAddr string

	// Build
	Kind         string
	Tolerance    float64
	MaxBasis     int
	FitMaxDegree int
	HoldOutFolds int
	FitNorms     bool
	Workers      int
	InnerProduct string
	OutOfRange   string

	// Observability
	LogLevel     string
	LogFormat    string
	OTLPEndpoint string
	ServiceName  string
}

// Load reads .env (if present) and then the environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		StorePath:  getEnv("GWSUR_STORE_PATH", "./gwsur-data"),
		LedgerPath: getEnv("GWSUR_LEDGER_PATH", "./gwsur-ledger.db"),

		HTTPAddr: getEnv("GWSUR_HTTP_ADDR", ":8080"),

		Kind:         getEnv("GWSUR_KIND", surrogate.WaveformBasis.String()),
		Tolerance:    getEnvFloat("GWSUR_TOLERANCE", pipeline.DefaultTolerance),
		MaxBasis:     getEnvInt("GWSUR_MAX_BASIS", greedy.DefaultMaxBasis),
		FitMaxDegree: getEnvInt("GWSUR_FIT_MAX_DEGREE", fit.DefaultHoldOut.MaxDegree),
		HoldOutFolds: getEnvInt("GWSUR_FIT_FOLDS", fit.DefaultHoldOut.Folds),
		FitNorms:     getEnvBool("GWSUR_FIT_NORMS", false),
		Workers:      getEnvInt("GWSUR_WORKERS", 0),
		InnerProduct: getEnv("GWSUR_INNER_PRODUCT", "euclidean"),
		OutOfRange:   getEnv("GWSUR_OUT_OF_RANGE", surrogate.Reject.String()),

		LogLevel:     getEnv("GWSUR_LOG_LEVEL", "info"),
		LogFormat:    getEnv("GWSUR_LOG_FORMAT", "json"),
		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ServiceName:  getEnv("OTEL_SERVICE_NAME", "gwsur"),
	}
}

// Pipeline translates the build settings into a pipeline.Config named name.
func (c *Config) Pipeline(name string) (pipeline.Config, error) {
	policy, err := surrogate.ParseRangePolicy(c.OutOfRange)
	if err != nil {
		return pipeline.Config{}, fmt.Errorf("GWSUR_OUT_OF_RANGE: %w", err)
	}
	kind, err := surrogate.ParseKind(c.Kind)
	if err != nil {
		return pipeline.Config{}, fmt.Errorf("GWSUR_KIND: %w", err)
	}
	pc := pipeline.DefaultConfig()
	pc.Name = name
	pc.Kind = kind
	pc.Tolerance = c.Tolerance
	pc.MaxBasis = c.MaxBasis
	pc.Workers = c.Workers
	pc.InnerProduct = c.InnerProduct
	pc.FitNorms = c.FitNorms
	pc.Selector = fit.HoldOut{Folds: c.HoldOutFolds, MaxDegree: c.FitMaxDegree}
	pc.RangePolicy = policy

	return pc, pc.Validate()
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		slog.Warn("config: not a float, using default", slog.String("key", key), slog.Any("error", err))
		return defaultValue
	}
	return floatValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		slog.Warn("config: not an integer, using default", slog.String("key", key), slog.Any("error", err))
		return defaultValue
	}
	return intValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		slog.Warn("config: not a bool, using default", slog.String("key", key), slog.Any("error", err))
		return defaultValue
	}
	return boolValue
}
