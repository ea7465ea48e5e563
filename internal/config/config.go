package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"snowpool/internal/models"
	"snowpool/internal/pricing"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App         AppConfig           `yaml:"app"`
	API         APIConfig           `yaml:"api"`
	Redis       RedisConfig         `yaml:"redis"`
	Monitoring  MonitoringConfig    `yaml:"monitoring"`
	Logging     LoggingConfig       `yaml:"logging"`
	Pricing     pricing.Config      `yaml:"pricing"`
	Marketplace MarketplaceConfig   `yaml:"marketplace"`
	PostalAreas []models.PostalArea `yaml:"postal_areas"`
	Exports     ExportConfig        `yaml:"exports"`
	Scheduler   SchedulerConfig     `yaml:"scheduler"`
}

type APIConfig struct {
	HTTP      APIHTTPConfig      `yaml:"http"`
	GRPC      APIGRPCConfig      `yaml:"grpc"`
	RateLimit APIRateLimitConfig `yaml:"rate_limit"`
}

type APIHTTPConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

type APIGRPCConfig struct {
	Enabled    bool `yaml:"enabled"`
	Port       int  `yaml:"port"`
	Reflection bool `yaml:"reflection"`
}

// APIRateLimitConfig selects the client limiter. RPS and Burst drive the in-process token
// bucket; Requests and WindowSeconds drive the fixed window used when Redis is configured.
type APIRateLimitConfig struct {
	RPS           float64 `yaml:"rps"`
	Burst         int     `yaml:"burst"`
	Requests      int     `yaml:"requests"`
	WindowSeconds int     `yaml:"window_seconds"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type MarketplaceConfig struct {
	PostalAreasPath  string `yaml:"postal_areas_path"`
	StrictValidation *bool  `yaml:"strict_validation"`
	CallerHeader     string `yaml:"caller_header"`
}

// Strict reports whether inputs are validated; unset means true.
func (m MarketplaceConfig) Strict() bool {
	return m.StrictValidation == nil || *m.StrictValidation
}

type ExportConfig struct {
	Path     string `yaml:"path"`
	Schedule string `yaml:"schedule"`
}

type SchedulerConfig struct {
	Enabled        bool   `yaml:"enabled"`
	DemandSchedule string `yaml:"demand_schedule"`
}

func Load(configPath string) (*Config, error) {
	// .env is optional
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	expandedData := []byte(os.ExpandEnv(string(data)))

	// pricing keys left out of the file keep their defaults; an explicit zero is kept
	config := Config{Pricing: pricing.DefaultConfig()}
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Pricing.BasePricePerArea < 0 {
		return errors.New("pricing.base_price_per_area must not be negative")
	}
	if c.Pricing.HourlyRate < 0 {
		return errors.New("pricing.hourly_rate must not be negative")
	}
	if c.Pricing.TimeUnitMinutes <= 0 {
		return errors.New("pricing.time_unit_minutes must be positive")
	}
	if c.API.RateLimit.RPS < 0 || c.API.RateLimit.Burst < 0 {
		return errors.New("api.rate_limit must not be negative")
	}
	if c.API.HTTP.Enabled && c.API.GRPC.Enabled && c.API.HTTP.Port == c.API.GRPC.Port {
		return fmt.Errorf("http and grpc cannot share port %d", c.API.HTTP.Port)
	}

	return ValidatePostalAreas(c.PostalAreas)
}

// ValidatePostalAreas rejects seed areas without a code and duplicate ids. Duplicate codes are
// allowed; lookups resolve to the first one.
func ValidatePostalAreas(areas []models.PostalArea) error {
	ids := make(map[string]bool)
	for _, area := range areas {
		if area.PostalCode == "" {
			return fmt.Errorf("postal area '%s' has no postal code", area.ID)
		}
		if area.ID == "" {
			return fmt.Errorf("postal area '%s' has no id", area.PostalCode)
		}
		if ids[area.ID] {
			return fmt.Errorf("duplicate postal area ID found: %s", area.ID)
		}
		ids[area.ID] = true
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "snowpool"
	}
	if c.API.GRPC.Port == 0 {
		c.API.GRPC.Port = 8081
	}
	if c.API.HTTP.Port == 0 {
		c.API.HTTP.Port = 8080
	}
	if c.API.RateLimit.Requests == 0 {
		c.API.RateLimit.Requests = 60
	}
	if c.API.RateLimit.WindowSeconds == 0 {
		c.API.RateLimit.WindowSeconds = 60
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if c.Redis.PoolSize == 0 {
		c.Redis.PoolSize = 10
	}

	if c.Marketplace.CallerHeader == "" {
		c.Marketplace.CallerHeader = models.DefaultCallerHeader
	}
	if c.Scheduler.DemandSchedule == "" {
		c.Scheduler.DemandSchedule = models.DemandRefreshSchedule
	}
}
