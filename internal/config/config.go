package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Source  SourceConfig  `yaml:"source"`
	Alert   AlertConfig   `yaml:"alert"`
	Mailer  MailerConfig  `yaml:"mailer"`
	Storage StorageConfig `yaml:"storage"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// GetHost returns the server host, with container detection
func (c ServerConfig) GetHost() string {
	// On ECS/container, listen on all interfaces
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return "0.0.0.0"
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		return host
	}
	return c.Host
}

// SourceConfig holds settings for fetching the ACCC price-cycles page
type SourceConfig struct {
	URL            string `yaml:"url"`
	UserAgent      string `yaml:"user_agent"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the configured timeout as a duration
func (c SourceConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// AlertConfig holds token signing and alert dispatch settings
type AlertConfig struct {
	SecretKey string   `yaml:"secret_key"`
	Cities    []string `yaml:"cities"`
	FromEmail string   `yaml:"from_email"`
	FromName  string   `yaml:"from_name"`
	SiteURL   string   `yaml:"site_url"`
	Workers   int      `yaml:"workers"`
}

// MailerConfig holds email provider configuration.
// Provider selects the sender: "resend", "ses" or "dryrun".
type MailerConfig struct {
	Provider       string `yaml:"provider"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`

	ResendAPIKey  string `yaml:"resend_api_key"`
	ResendBaseURL string `yaml:"resend_base_url"`

	SESRegion    string `yaml:"ses_region"`
	SESAccessKey string `yaml:"ses_access_key"`
	SESSecretKey string `yaml:"ses_secret_key"`
}

// Timeout returns the configured timeout as a duration
func (c MailerConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// StorageConfig holds storage backend configuration.
// Type selects the backend: "file", "redis" or "postgres".
type StorageConfig struct {
	Type        string `yaml:"type"`
	DataDir     string `yaml:"data_dir"`
	RedisAddr   string `yaml:"redis_addr"`
	RedisDB     int    `yaml:"redis_db"`
	DatabaseURL string `yaml:"database_url"`
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Source.URL == "" {
		cfg.Source.URL = "https://www.accc.gov.au/consumers/petrol-and-fuel/petrol-price-cycles-in-the-5-largest-cities"
	}
	if cfg.Source.UserAgent == "" {
		cfg.Source.UserAgent = "FuelPriceAlert/1.0 (Consumer savings tool)"
	}
	if cfg.Source.TimeoutSeconds == 0 {
		cfg.Source.TimeoutSeconds = 30
	}
	if len(cfg.Alert.Cities) == 0 {
		cfg.Alert.Cities = []string{"sydney", "melbourne", "brisbane", "adelaide", "perth"}
	}
	if cfg.Alert.FromEmail == "" {
		cfg.Alert.FromEmail = "alerts@yourdomain.com"
	}
	if cfg.Alert.FromName == "" {
		cfg.Alert.FromName = "Fuel Alert"
	}
	if cfg.Alert.SiteURL == "" {
		cfg.Alert.SiteURL = "https://yourusername.github.io/fuel-alert"
	}
	if cfg.Alert.Workers == 0 {
		cfg.Alert.Workers = 4
	}
	if cfg.Mailer.Provider == "" {
		cfg.Mailer.Provider = "dryrun"
	}
	if cfg.Mailer.TimeoutSeconds == 0 {
		cfg.Mailer.TimeoutSeconds = 30
	}
	if cfg.Mailer.ResendBaseURL == "" {
		cfg.Mailer.ResendBaseURL = "https://api.resend.com"
	}
	if cfg.Mailer.SESRegion == "" {
		cfg.Mailer.SESRegion = "us-east-1"
	}
	if cfg.Storage.Type == "" {
		cfg.Storage.Type = "file"
	}
	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = "data"
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration with environment variable overrides.
// It automatically loads a .env file (if present) before reading env vars,
// so secrets can live in .env locally and in real env vars in deployment.
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("SECRET_KEY"); v != "" {
		cfg.Alert.SecretKey = v
	}
	if v := os.Getenv("FROM_EMAIL"); v != "" {
		cfg.Alert.FromEmail = v
	}
	if v := os.Getenv("SITE_URL"); v != "" {
		cfg.Alert.SiteURL = v
	}
	if v := os.Getenv("FUEL_CITIES"); v != "" {
		cities := strings.Split(v, ",")
		for i := range cities {
			cities[i] = strings.ToLower(strings.TrimSpace(cities[i]))
		}
		cfg.Alert.Cities = cities
	}
	if v := os.Getenv("RESEND_API_KEY"); v != "" {
		cfg.Mailer.ResendAPIKey = v
		if cfg.Mailer.Provider == "dryrun" {
			cfg.Mailer.Provider = "resend"
		}
	}
	if v := os.Getenv("RESEND_BASE_URL"); v != "" {
		cfg.Mailer.ResendBaseURL = v
	}
	if v := os.Getenv("AWS_SES_ACCESS_KEY"); v != "" {
		cfg.Mailer.SESAccessKey = v
	}
	if v := os.Getenv("AWS_SES_SECRET_KEY"); v != "" {
		cfg.Mailer.SESSecretKey = v
	}
	if v := os.Getenv("AWS_SES_REGION"); v != "" {
		cfg.Mailer.SESRegion = v
	}

	// Storage overrides (useful on hosts where config.yaml has local defaults)
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Storage.RedisAddr = v
		cfg.Storage.Type = "redis"
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.Storage.RedisDB = db
		}
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Storage.DatabaseURL = v
		cfg.Storage.Type = "postgres"
	}

	return cfg, nil
}
