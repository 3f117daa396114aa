package config

import (
	"os"
	"strconv"
	"time"

	"godeviate/domain/kpi"
	"godeviate/internal/errors"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Ops      OpsConfig
	Analysis AnalysisConfig
	Upload   UploadConfig
	Log      LogConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port            string        `validate:"required,numeric"`
	GinMode         string        `validate:"oneof=debug release test"`
	ShutdownTimeout time.Duration `validate:"gt=0"`
}

// OpsConfig holds the metrics/health/pprof listener settings
type OpsConfig struct {
	Port    string `validate:"omitempty,numeric"`
	Enabled bool
}

// AnalysisConfig holds pipeline defaults
type AnalysisConfig struct {
	Level          string  `validate:"oneof=company position"`
	Threshold      float64 `validate:"gt=0"`
	LenientNumbers bool
}

// UploadConfig limits what the web UI accepts
type UploadConfig struct {
	MaxBytes int64 `validate:"gt=0"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string
}

// Load reads .env (if present) and the environment, then validates the result
func Load() (*Config, error) {
	// A missing .env is normal; real environment variables still apply
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the configuration from environment variables only
func FromEnv() (*Config, error) {
	config := &Config{
		Server:   *loadServerConfig(),
		Ops:      *loadOpsConfig(),
		Analysis: *loadAnalysisConfig(),
		Upload:   *loadUploadConfig(),
		Log: LogConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "INFO"),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// Default returns the configuration used when no environment is set
func Default() *Config {
	return &Config{
		Server:   ServerConfig{Port: "8080", GinMode: "release", ShutdownTimeout: 10 * time.Second},
		Ops:      OpsConfig{Port: "6060", Enabled: true},
		Analysis: AnalysisConfig{Level: string(kpi.LevelCompany), Threshold: kpi.DefaultThreshold},
		Upload:   UploadConfig{MaxBytes: 32 << 20},
		Log:      LogConfig{Level: "INFO"},
	}
}

func loadServerConfig() *ServerConfig {
	def := Default().Server
	return &ServerConfig{
		Port:            getEnvOrDefault("PORT", def.Port),
		GinMode:         getEnvOrDefault("GIN_MODE", def.GinMode),
		ShutdownTimeout: getEnvDurationOrDefault("SHUTDOWN_TIMEOUT", def.ShutdownTimeout),
	}
}

func loadOpsConfig() *OpsConfig {
	def := Default().Ops
	return &OpsConfig{
		Port:    getEnvOrDefault("OPS_PORT", def.Port),
		Enabled: getEnvBoolOrDefault("OPS_ENABLED", def.Enabled),
	}
}

func loadAnalysisConfig() *AnalysisConfig {
	def := Default().Analysis
	return &AnalysisConfig{
		Level:          getEnvOrDefault("DEVIATION_LEVEL", def.Level),
		Threshold:      getEnvFloatOrDefault("Z_THRESHOLD", def.Threshold),
		LenientNumbers: getEnvBoolOrDefault("LENIENT_NUMBERS", def.LenientNumbers),
	}
}

func loadUploadConfig() *UploadConfig {
	return &UploadConfig{
		MaxBytes: getEnvInt64OrDefault("UPLOAD_MAX_BYTES", Default().Upload.MaxBytes),
	}
}

var validate = validator.New()

func validateConfig(config *Config) error {
	if err := validate.Struct(config); err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
