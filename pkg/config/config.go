package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Log         struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"log"`
	Server struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		CORS            bool          `yaml:"cors"`
		RatePerSec      float64       `yaml:"rate_per_sec"` // per client IP, 0 disables
		RateBurst       int           `yaml:"rate_burst"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	MarketData struct {
		Source       string        `yaml:"source"` // kraken or clickhouse
		BaseURL      string        `yaml:"base_url"`
		Limit        int           `yaml:"limit"`
		RatePerSec   float64       `yaml:"rate_per_sec"`
		Timeout      time.Duration `yaml:"timeout"`
		CacheTTL     time.Duration `yaml:"cache_ttl"`
		GapTolerance float64       `yaml:"gap_tolerance"`
	} `yaml:"market_data"`
	Narrative struct {
		Provider  string        `yaml:"provider"` // template or openai
		BaseURL   string        `yaml:"base_url"`
		APIKey    string        `yaml:"api_key"`
		Model     string        `yaml:"model"`
		Timeout   time.Duration `yaml:"timeout"`
		MaxTokens int           `yaml:"max_tokens"`
	} `yaml:"narrative"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		LogsTopic    string   `yaml:"logs_topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchBytes   int           `yaml:"batch_bytes"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
		FlushInterval  time.Duration `yaml:"flush_interval"`
		CountThreshold int           `yaml:"count_threshold"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		Table            string        `yaml:"table"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
// A .env file in the working directory is loaded first when present.
func LoadWithEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("MARKET_DATA_SOURCE"); v != "" {
		c.MarketData.Source = v
	}
	if v := os.Getenv("NARRATIVE_PROVIDER"); v != "" {
		c.Narrative.Provider = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		c.Narrative.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		c.Narrative.BaseURL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
		c.Redis.Enabled = true
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Default returns a config usable without any file: Kraken data, template narrative, memory cache.
func Default() *Config {
	c := &Config{Environment: "development"}
	c.Log.Level = "info"
	c.Log.Format = "json"
	c.Log.Output = "stdout"
	c.Server.Port = 8000
	c.Server.ReadTimeout = 15 * time.Second
	c.Server.WriteTimeout = 30 * time.Second
	c.Server.ShutdownTimeout = 10 * time.Second
	c.Server.CORS = true
	c.Server.RatePerSec = 5
	c.Server.RateBurst = 10
	c.Metrics.Enabled = true
	c.Metrics.Path = "/metrics"
	c.MarketData.Source = "kraken"
	c.MarketData.BaseURL = "https://api.kraken.com"
	c.MarketData.Limit = 300
	c.MarketData.RatePerSec = 1
	c.MarketData.Timeout = 10 * time.Second
	c.MarketData.CacheTTL = 30 * time.Second
	c.MarketData.GapTolerance = 3
	c.Narrative.Provider = "template"
	c.Narrative.Model = "gpt-4o-mini"
	c.Narrative.Timeout = 5 * time.Second
	c.Narrative.MaxTokens = 150
	c.Kafka.LogsTopic = "regime-audit-logs"
	c.Kafka.RequiredAcks = -1
	c.Kafka.Compression = "gzip"
	c.Kafka.Producer.MaxAttempts = 3
	c.Kafka.Producer.Linger = time.Second
	c.Kafka.Producer.BatchSize = 100
	c.Kafka.Producer.BatchBytes = 1 << 20
	c.Kafka.Producer.WriteTimeout = 10 * time.Second
	c.Kafka.Producer.ReadTimeout = 10 * time.Second
	c.Kafka.FlushInterval = 30 * time.Second
	c.Kafka.CountThreshold = 100
	c.ClickHouse.Port = 9000
	c.ClickHouse.Database = "default"
	c.ClickHouse.User = "default"
	c.ClickHouse.Table = "candles"
	return c
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	switch c.MarketData.Source {
	case "kraken":
		if c.MarketData.BaseURL == "" {
			return fmt.Errorf("market_data.base_url is required for kraken")
		}
	case "clickhouse":
		if c.ClickHouse.Host == "" {
			return fmt.Errorf("clickhouse.host is required when market_data.source is clickhouse")
		}
	default:
		return fmt.Errorf("market_data.source must be 'kraken' or 'clickhouse', got '%s'", c.MarketData.Source)
	}
	if c.MarketData.Limit < 14 {
		return fmt.Errorf("market_data.limit must be at least 14, got %d", c.MarketData.Limit)
	}
	switch c.Narrative.Provider {
	case "template":
	case "openai":
		if c.Narrative.BaseURL == "" || c.Narrative.APIKey == "" {
			return fmt.Errorf("narrative.base_url and narrative.api_key are required for openai")
		}
	default:
		return fmt.Errorf("narrative.provider must be 'template' or 'openai', got '%s'", c.Narrative.Provider)
	}
	if c.Narrative.Timeout <= 0 {
		return fmt.Errorf("narrative.timeout must be positive")
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required when redis is enabled")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	return nil
}
