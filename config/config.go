package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultAPIKeyEnv = "GEMINI_API_KEY"

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Model    ModelConfig    `yaml:"model"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Jobs     JobsConfig     `yaml:"jobs"`
	Log      LogConfig      `yaml:"log"`
}

type HTTPConfig struct {
	Address             string `yaml:"address"`
	PublicURL           string `yaml:"public_url"`
	ReadTimeoutSeconds  int    `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `yaml:"write_timeout_seconds"`
	MaxUploadMB         int    `yaml:"max_upload_mb"`
	SwaggerDir          string `yaml:"swagger_dir"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// Enabled reports whether a database is configured at all.
func (d DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

type RedisConfig struct {
	Addr             string `yaml:"addr"`
	Password         string `yaml:"password"`
	DB               int    `yaml:"db"`
	RecentTTLSeconds int    `yaml:"recent_ttl_seconds"`
}

func (r RedisConfig) RecentTTL() time.Duration {
	return time.Duration(r.RecentTTLSeconds) * time.Second
}

func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

type KafkaConfig struct {
	Brokers       []string `yaml:"brokers"`
	RequestsTopic string   `yaml:"requests_topic"`
	EventsTopic   string   `yaml:"events_topic"`
	GroupID       string   `yaml:"group_id"`
	NotifyGroupID string   `yaml:"notify_group_id"`
}

func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

// ModelConfig describes the generative backend. The API key is resolved once
// in LoadConfig and handed to the gateway constructor; nothing else reads the
// environment for credentials.
type ModelConfig struct {
	Provider           string `yaml:"provider"`
	APIKey             string `yaml:"api_key"`
	APIKeyEnv          string `yaml:"api_key_env"`
	BaseURL            string `yaml:"base_url"`
	TextModel          string `yaml:"text_model"`
	ImageModel         string `yaml:"image_model"`
	CallTimeoutSeconds int    `yaml:"call_timeout_seconds"`
}

func (m ModelConfig) CallTimeout() time.Duration {
	return time.Duration(m.CallTimeoutSeconds) * time.Second
}

type PipelineConfig struct {
	MaxAttempts      int `yaml:"max_attempts"`
	BaseDelayMillis  int `yaml:"base_delay_ms"`
	ImageConcurrency int `yaml:"image_concurrency"`
}

func (p PipelineConfig) BaseDelay() time.Duration {
	return time.Duration(p.BaseDelayMillis) * time.Millisecond
}

type JobsConfig struct {
	StatusTTLMinutes int `yaml:"status_ttl_minutes"`
}

func (j JobsConfig) StatusTTL() time.Duration {
	return time.Duration(j.StatusTTLMinutes) * time.Minute
}

type LogConfig struct {
	Level string `yaml:"level"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	cfg.resolveAPIKey(os.Getenv)
	return cfg, nil
}

// Default returns the built-in configuration with the model credential taken
// from the environment, for runs without a config file.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	cfg.resolveAPIKey(os.Getenv)
	return &cfg
}

// Parse decodes a YAML document and applies defaults. It does not consult the
// environment.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.HTTP.ReadTimeoutSeconds <= 0 {
		c.HTTP.ReadTimeoutSeconds = 30
	}
	if c.HTTP.WriteTimeoutSeconds <= 0 {
		c.HTTP.WriteTimeoutSeconds = 300
	}
	if c.HTTP.MaxUploadMB <= 0 {
		c.HTTP.MaxUploadMB = 20
	}
	if c.HTTP.PublicURL == "" {
		host := c.HTTP.Address
		if strings.HasPrefix(host, ":") {
			host = "localhost" + host
		}
		c.HTTP.PublicURL = "http://" + host
	}
	if c.Model.Provider == "" {
		c.Model.Provider = "gemini"
	}
	if c.Model.APIKeyEnv == "" {
		c.Model.APIKeyEnv = defaultAPIKeyEnv
	}
	if c.Model.CallTimeoutSeconds <= 0 {
		c.Model.CallTimeoutSeconds = 60
	}
	if c.Pipeline.MaxAttempts <= 0 {
		c.Pipeline.MaxAttempts = 3
	}
	if c.Pipeline.BaseDelayMillis <= 0 {
		c.Pipeline.BaseDelayMillis = 2000
	}
	if c.Pipeline.ImageConcurrency <= 0 {
		c.Pipeline.ImageConcurrency = 4
	}
	if c.Redis.RecentTTLSeconds <= 0 {
		c.Redis.RecentTTLSeconds = 30
	}
	if c.Jobs.StatusTTLMinutes <= 0 {
		c.Jobs.StatusTTLMinutes = 24 * 60
	}
	if c.Kafka.RequestsTopic == "" {
		c.Kafka.RequestsTopic = "quotation.requests"
	}
	if c.Kafka.EventsTopic == "" {
		c.Kafka.EventsTopic = "quotation.events"
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = "quotation-worker"
	}
	if c.Kafka.NotifyGroupID == "" {
		c.Kafka.NotifyGroupID = "quotation-notifier"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c *Config) resolveAPIKey(getenv func(string) string) {
	if strings.TrimSpace(c.Model.APIKey) != "" {
		return
	}
	c.Model.APIKey = strings.TrimSpace(getenv(c.Model.APIKeyEnv))
}
