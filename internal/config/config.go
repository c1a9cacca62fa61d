package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"` // Listen port.
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"` // SQLite path or PostgreSQL URL.
}

// RedisConfig holds optional Redis settings. When Addr is empty the
// verification-code store falls back to memory.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// JWTConfig holds token signing settings.
type JWTConfig struct {
	Secret           string `yaml:"secret"`
	UserExpiryHours  int    `yaml:"user_expiry_hours"`
	AdminExpiryHours int    `yaml:"admin_expiry_hours"`
}

// UserExpiry returns the user token lifetime.
func (c JWTConfig) UserExpiry() time.Duration {
	return time.Duration(c.UserExpiryHours) * time.Hour
}

// AdminExpiry returns the admin token lifetime.
func (c JWTConfig) AdminExpiry() time.Duration {
	return time.Duration(c.AdminExpiryHours) * time.Hour
}

// RulesConfig holds business tunables.
type RulesConfig struct {
	SignupBonus       float64 `yaml:"signup_bonus"`        // Balance credited at registration.
	WithdrawalMin     float64 `yaml:"withdrawal_min"`      // Smallest accepted withdrawal.
	WithdrawalTaxRate float64 `yaml:"withdrawal_tax_rate"` // Reported tax fraction, not debited.
	OTPTTLMinutes     int     `yaml:"otp_ttl_minutes"`     // Verification code lifetime.
}

// OTPTTL returns the verification code lifetime.
func (c RulesConfig) OTPTTL() time.Duration {
	return time.Duration(c.OTPTTLMinutes) * time.Minute
}

// AdminSeedConfig holds the bootstrap admin credentials.
type AdminSeedConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"` // Empty logs to stdout only.
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	JWT       JWTConfig       `yaml:"jwt"`
	Rules     RulesConfig     `yaml:"rules"`
	AdminSeed AdminSeedConfig `yaml:"admin_seed"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// Load reads the YAML config file at path, applies environment overrides and
// fills defaults. A missing file is not an error; env and defaults apply.
func Load(path string) (Config, error) {
	cfg := Config{}

	if strings.TrimSpace(path) != "" {
		data, errRead := os.ReadFile(path)
		if errRead == nil {
			if errUnmarshal := yaml.Unmarshal(data, &cfg); errUnmarshal != nil {
				return Config{}, fmt.Errorf("config: parse %s: %w", path, errUnmarshal)
			}
		} else if !os.IsNotExist(errRead) {
			return Config{}, fmt.Errorf("config: read %s: %w", path, errRead)
		}
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)

	if strings.TrimSpace(cfg.JWT.Secret) == "" {
		return Config{}, fmt.Errorf("config: jwt secret is required (set jwt.secret or JWT_SECRET)")
	}
	return cfg, nil
}

// applyEnvOverrides overlays environment variables onto the config.
func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := strings.TrimSpace(os.Getenv("DATABASE_DSN")); v != "" {
		cfg.Database.DSN = v
	}
	if v := strings.TrimSpace(os.Getenv("REDIS_ADDR")); v != "" {
		cfg.Redis.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv("JWT_SECRET")); v != "" {
		cfg.JWT.Secret = v
	}
	if v := strings.TrimSpace(os.Getenv("ADMIN_USERNAME")); v != "" {
		cfg.AdminSeed.Username = v
	}
	if v := strings.TrimSpace(os.Getenv("ADMIN_PASSWORD")); v != "" {
		cfg.AdminSeed.Password = v
	}
}

// applyDefaults fills zero values with production defaults.
func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if strings.TrimSpace(cfg.Database.DSN) == "" {
		cfg.Database.DSN = "file:data/wealthora.db"
	}
	if cfg.JWT.UserExpiryHours <= 0 {
		cfg.JWT.UserExpiryHours = 72
	}
	if cfg.JWT.AdminExpiryHours <= 0 {
		cfg.JWT.AdminExpiryHours = 12
	}
	if cfg.Rules.SignupBonus == 0 {
		cfg.Rules.SignupBonus = 30
	}
	if cfg.Rules.WithdrawalMin == 0 {
		cfg.Rules.WithdrawalMin = 300
	}
	if cfg.Rules.WithdrawalTaxRate == 0 {
		cfg.Rules.WithdrawalTaxRate = 0.08
	}
	if cfg.Rules.OTPTTLMinutes <= 0 {
		cfg.Rules.OTPTTLMinutes = 5
	}
	if strings.TrimSpace(cfg.AdminSeed.Username) == "" {
		cfg.AdminSeed.Username = "admin"
	}
	if strings.TrimSpace(cfg.AdminSeed.Password) == "" {
		cfg.AdminSeed.Password = "changeme"
	}
	if strings.TrimSpace(cfg.Logging.Level) == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.MaxSizeMB <= 0 {
		cfg.Logging.MaxSizeMB = 50
	}
	if cfg.Logging.MaxBackups <= 0 {
		cfg.Logging.MaxBackups = 5
	}
	if cfg.Logging.MaxAgeDays <= 0 {
		cfg.Logging.MaxAgeDays = 30
	}
}
