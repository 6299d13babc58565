package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all runtime configuration derived from environment variables.
type Config struct {
	HTTPPort           string
	LogLevel           string
	GraceWindow        time.Duration
	SnapshotPath       string
	PublicRateLimitRPS int
}

// Load reads environment variables using viper and returns a typed config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	bindEnv(v, "port", "PORT", "LEDGER_PORT")
	bindEnv(v, "log_level", "LOG_LEVEL", "LEDGER_LOG_LEVEL")
	bindEnv(v, "grace_window", "GRACE_WINDOW", "LEDGER_GRACE_WINDOW")
	bindEnv(v, "snapshot_path", "SNAPSHOT_PATH", "LEDGER_SNAPSHOT_PATH")
	bindEnv(v, "public_rate_limit_rps", "PUBLIC_RATE_LIMIT_RPS", "LEDGER_PUBLIC_RATE_LIMIT_RPS")

	v.SetDefault("port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("grace_window", "5s")
	v.SetDefault("snapshot_path", "")
	v.SetDefault("public_rate_limit_rps", 10)

	grace, err := time.ParseDuration(v.GetString("grace_window"))
	if err != nil {
		return nil, fmt.Errorf("invalid GRACE_WINDOW: %w", err)
	}
	if grace < 0 {
		return nil, fmt.Errorf("GRACE_WINDOW must not be negative, got %s", grace)
	}

	cfg := &Config{
		HTTPPort:           v.GetString("port"),
		LogLevel:           v.GetString("log_level"),
		GraceWindow:        grace,
		SnapshotPath:       v.GetString("snapshot_path"),
		PublicRateLimitRPS: max(v.GetInt("public_rate_limit_rps"), 1),
	}

	return cfg, nil
}

func bindEnv(v *viper.Viper, key string, names ...string) {
	args := append([]string{key}, names...)
	_ = v.BindEnv(args...)
}
