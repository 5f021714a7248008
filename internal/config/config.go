// File: internal/config/config.go
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type AcademyConfig struct {
	OrganizationID string `yaml:"organization_id"`
	Language       string `yaml:"language"` // locale code, e.g. pt-BR
}

type BillingConfig struct {
	LookaheadDays int           `yaml:"lookahead_days"`
	Interval      time.Duration `yaml:"interval"`
}

type AttendanceConfig struct {
	Lead  time.Duration `yaml:"lead"`  // check-in opens StartTime-Lead
	Grace time.Duration `yaml:"grace"` // check-in closes EndTime+Grace
}

type PaymentConfig struct {
	Asaas struct {
		APIKey       string `yaml:"api_key"`
		Sandbox      bool   `yaml:"sandbox"`
		WebhookToken string `yaml:"webhook_token"`
	} `yaml:"asaas"`
	ReconcileInterval time.Duration `yaml:"reconcile_interval"`
	StaleAfter        time.Duration `yaml:"stale_after"`
}

type SMTPConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	FromAddress string `yaml:"from_address"`
	FromName    string `yaml:"from_name"`
}

type AIConfig struct {
	GeminiKey       string `yaml:"gemini_key"`
	Model           string `yaml:"model"`
	MaxOutputTokens int    `yaml:"max_output_tokens"`
}

type SecurityConfig struct {
	EncryptionKey string        `yaml:"encryption_key"` // 16, 24 or 32 bytes
	AdminUsername string        `yaml:"admin_username"`
	AdminPassword string        `yaml:"admin_password"`
	JWTSecret     string        `yaml:"jwt_secret"`
	TokenTTL      time.Duration `yaml:"token_ttl"`
}

type WorkerConfig struct {
	PoolSize int `yaml:"pool_size"`
}

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Academy    AcademyConfig    `yaml:"academy"`
	Billing    BillingConfig    `yaml:"billing"`
	Attendance AttendanceConfig `yaml:"attendance"`
	Payment    PaymentConfig    `yaml:"payment"`
	SMTP       SMTPConfig       `yaml:"smtp"`
	AI         AIConfig         `yaml:"ai"`
	Security   SecurityConfig   `yaml:"security"`
	Worker     WorkerConfig     `yaml:"worker"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig() (*Config, error) {
	var configPath string
	var dev bool
	flag.StringVar(&configPath, "config", "config.yaml", "path to config yaml")
	flag.BoolVar(&dev, "dev", false, "development mode")
	flag.Parse()

	b, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// defaults
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Academy.Language == "" {
		cfg.Academy.Language = "pt-BR"
	}
	if cfg.Billing.LookaheadDays <= 0 {
		cfg.Billing.LookaheadDays = 3
	}
	if cfg.Billing.Interval <= 0 {
		cfg.Billing.Interval = time.Hour
	}
	if cfg.Attendance.Lead <= 0 {
		cfg.Attendance.Lead = 30 * time.Minute
	}
	if cfg.Attendance.Grace <= 0 {
		cfg.Attendance.Grace = 15 * time.Minute
	}
	if cfg.Payment.ReconcileInterval <= 0 {
		cfg.Payment.ReconcileInterval = 5 * time.Minute
	}
	if cfg.Payment.StaleAfter <= 0 {
		cfg.Payment.StaleAfter = 30 * time.Minute
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "gemini-2.0-flash"
	}
	if cfg.AI.MaxOutputTokens <= 0 {
		cfg.AI.MaxOutputTokens = 512
	}
	if cfg.Security.TokenTTL <= 0 {
		cfg.Security.TokenTTL = 12 * time.Hour
	}
	if cfg.Worker.PoolSize <= 0 {
		cfg.Worker.PoolSize = 8
	}

	// Minimal validation
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.Addr == "" {
		return nil, errors.New("redis.addr is required")
	}
	if cfg.Academy.OrganizationID == "" {
		return nil, errors.New("academy.organization_id is required")
	}
	if cfg.Security.EncryptionKey == "" {
		return nil, errors.New("security.encryption_key is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}
