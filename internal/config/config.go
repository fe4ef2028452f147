package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	configFilePathENV = "CONFIG_FILE"
	tokenTelegramENV  = "TELEGRAM_TOKEN"
	databaseDSN       = "DATABASE_DSN"
)

// Config ...
type Config struct {
	Binance struct {
		// Testnet по умолчанию: реальные ордера, демо-деньги.
		BaseURL string `yaml:"base_url"`
		WSURL   string `yaml:"ws_url"`
		// Ключи только из ENV, в yaml не кладём.
		APIKey    string `yaml:"-"`
		APISecret string `yaml:"-"`
	} `yaml:"binance"`

	Telegram struct {
		Token  string `yaml:"token"`
		ChatID int64  `yaml:"chat_id"`
	} `yaml:"telegram"`

	DB string `yaml:"db_dsn"`

	Jaeger struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"jaeger"`

	// Целевой объём одной сделки в USDT (notional), не количество монет.
	TargetNotional float64 `yaml:"target_notional"`
	// Минимальная уверенность сигнала: строгий гейт (> MinConfidence).
	MinConfidence float64 `yaml:"min_confidence"`

	// Пауза между циклами. Одна и та же на тихом цикле и после сделки.
	CooldownSeconds int `yaml:"cooldown_seconds"`
	// Укороченная пауза после упавшего цикла.
	FaultDelaySeconds int `yaml:"fault_delay_seconds"`

	// Ретраи чтения тикеров перед уходом в fallback-сигналы.
	MaxRetries          int `yaml:"max_retries"`
	RetryBackoffSeconds int `yaml:"retry_backoff_seconds"`
}

func (c *Config) Cooldown() time.Duration {
	return time.Duration(c.CooldownSeconds) * time.Second
}

func (c *Config) FaultDelay() time.Duration {
	return time.Duration(c.FaultDelaySeconds) * time.Second
}

func (c *Config) RetryBackoff() time.Duration {
	return time.Duration(c.RetryBackoffSeconds) * time.Second
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	config := Config{
		TargetNotional:      25.0,
		MinConfidence:       0.6,
		CooldownSeconds:     300,
		FaultDelaySeconds:   60,
		MaxRetries:          3,
		RetryBackoffSeconds: 2,
	}

	configFileName := os.Getenv(configFilePathENV)
	if configFileName == "" {
		configFileName = "values_local.yaml"
	}
	file, err := os.Open("configs/" + configFileName)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}

	defer func() {
		_ = file.Close()
	}()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	if config.Binance.BaseURL == "" {
		config.Binance.BaseURL = "https://testnet.binance.vision"
	}
	if config.Binance.WSURL == "" {
		config.Binance.WSURL = "wss://stream.testnet.binance.vision"
	}

	config.Binance.APIKey = os.Getenv("BINANCE_API_KEY")
	config.Binance.APISecret = os.Getenv("BINANCE_API_SECRET")

	if token := os.Getenv(tokenTelegramENV); token != "" {
		config.Telegram.Token = token
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.Telegram.ChatID = id
		}
	}
	if dsn := os.Getenv(databaseDSN); dsn != "" {
		config.DB = dsn
	}

	// env бьёт yaml для всех настроек без исключений
	config.TargetNotional = floatFromEnv("TARGET_NOTIONAL", config.TargetNotional)
	config.MinConfidence = floatFromEnv("MIN_CONFIDENCE", config.MinConfidence)
	config.CooldownSeconds = intFromEnv("COOLDOWN_SECONDS", config.CooldownSeconds)
	config.FaultDelaySeconds = intFromEnv("FAULT_DELAY_SECONDS", config.FaultDelaySeconds)
	config.MaxRetries = intFromEnv("MAX_RETRIES", config.MaxRetries)
	config.RetryBackoffSeconds = intFromEnv("RETRY_BACKOFF_SECONDS", config.RetryBackoffSeconds)

	if config.TargetNotional <= 0 {
		return nil, fmt.Errorf("target_notional must be > 0")
	}
	if config.MinConfidence < 0 || config.MinConfidence > 1 {
		return nil, fmt.Errorf("min_confidence must be in [0,1]")
	}
	if config.MaxRetries < 1 {
		return nil, fmt.Errorf("max_retries must be >= 1")
	}

	return &config, nil
}

func intFromEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func floatFromEnv(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
