package config

import (
	"os"
	"path/filepath"
	"testing"

	"snowpool/internal/models"
	"snowpool/internal/pricing"
)

func TestLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	t.Setenv("SNOWPOOL_TEST_RATE", "120")

	yamlContent := `
api:
  http:
    enabled: true
    port: 8088
pricing:
  hourly_rate: ${SNOWPOOL_TEST_RATE}
marketplace:
  strict_validation: false
postal_areas:
  - id: "1"
    postal_code: "00100"
    city: "Helsinki"
    area_name: "Keskusta"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.API.HTTP.Port != 8088 {
		t.Errorf("expected http port 8088, got %d", cfg.API.HTTP.Port)
	}
	if cfg.Pricing.HourlyRate != 120 {
		t.Errorf("expected hourly rate 120 from env, got %v", cfg.Pricing.HourlyRate)
	}
	if cfg.Pricing.BasePricePerArea != pricing.DefaultBasePricePerArea {
		t.Errorf("expected default base price, got %v", cfg.Pricing.BasePricePerArea)
	}
	if cfg.Marketplace.Strict() {
		t.Errorf("expected strict validation to be disabled")
	}
	if len(cfg.PostalAreas) != 1 || cfg.PostalAreas[0].PostalCode != "00100" {
		t.Errorf("expected 1 postal area 00100, got %+v", cfg.PostalAreas)
	}
}

func TestLoadConfig_ExplicitZeroPricing(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	yamlContent := `
pricing:
  base_price_per_area: 0
  hourly_rate: 0
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Pricing.BasePricePerArea != 0 {
		t.Errorf("expected base price 0 to be kept, got %v", cfg.Pricing.BasePricePerArea)
	}
	if cfg.Pricing.HourlyRate != 0 {
		t.Errorf("expected hourly rate 0 to be kept, got %v", cfg.Pricing.HourlyRate)
	}
	if cfg.Pricing.TimeUnitMinutes != pricing.DefaultTimeUnitMinutes {
		t.Errorf("expected default time unit, got %d", cfg.Pricing.TimeUnitMinutes)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestValidateConfig(t *testing.T) {
	valid := func() Config {
		cfg := Config{Pricing: pricing.DefaultConfig()}
		cfg.applyDefaults()
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *Config) {}, wantErr: false},
		{name: "negative base price", mutate: func(c *Config) { c.Pricing.BasePricePerArea = -1 }, wantErr: true},
		{name: "negative hourly rate", mutate: func(c *Config) { c.Pricing.HourlyRate = -5 }, wantErr: true},
		{name: "zero time unit", mutate: func(c *Config) { c.Pricing.TimeUnitMinutes = 0 }, wantErr: true},
		{name: "negative rps", mutate: func(c *Config) { c.API.RateLimit.RPS = -1 }, wantErr: true},
		{
			name: "shared port",
			mutate: func(c *Config) {
				c.API.HTTP.Enabled, c.API.GRPC.Enabled = true, true
				c.API.GRPC.Port = c.API.HTTP.Port
			},
			wantErr: true,
		},
		{
			name: "duplicate area id",
			mutate: func(c *Config) {
				c.PostalAreas = []models.PostalArea{{ID: "1", PostalCode: "00100"}, {ID: "1", PostalCode: "00200"}}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	if cfg.API.GRPC.Port != 8081 {
		t.Errorf("expected default gRPC port 8081, got %d", cfg.API.GRPC.Port)
	}
	if cfg.API.HTTP.Port != 8080 {
		t.Errorf("expected default HTTP port 8080, got %d", cfg.API.HTTP.Port)
	}
	if cfg.Marketplace.CallerHeader != models.DefaultCallerHeader {
		t.Errorf("expected caller header %s, got %s", models.DefaultCallerHeader, cfg.Marketplace.CallerHeader)
	}
	if !cfg.Marketplace.Strict() {
		t.Errorf("expected strict validation by default")
	}
	if cfg.Scheduler.DemandSchedule != models.DemandRefreshSchedule {
		t.Errorf("expected demand schedule %s, got %s", models.DemandRefreshSchedule, cfg.Scheduler.DemandSchedule)
	}
}

func TestValidatePostalAreas(t *testing.T) {
	tests := []struct {
		name    string
		areas   []models.PostalArea
		wantErr bool
	}{
		{"empty", nil, false},
		{"valid", []models.PostalArea{{ID: "1", PostalCode: "00100"}, {ID: "2", PostalCode: "00200"}}, false},
		{"duplicate code allowed", []models.PostalArea{{ID: "1", PostalCode: "00100"}, {ID: "2", PostalCode: "00100"}}, false},
		{"missing code", []models.PostalArea{{ID: "1"}}, true},
		{"missing id", []models.PostalArea{{PostalCode: "00100"}}, true},
		{"duplicate id", []models.PostalArea{{ID: "1", PostalCode: "00100"}, {ID: "1", PostalCode: "00200"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePostalAreas(tt.areas)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePostalAreas() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
