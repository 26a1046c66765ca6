package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

// SlotTemplate declares recurring demand to expand when defining a schedule
type SlotTemplate struct {
	Role          string `yaml:"role" validate:"required"`
	Shift         string `yaml:"shift" validate:"required"`
	RequiredCount int    `yaml:"requiredCount" validate:"required,min=1"`
	RRule         string `yaml:"rrule,omitempty"`
}

// Config represents the application configuration
type Config struct {
	OrganizationID      string         `yaml:"organizationID" validate:"required,uuid"`
	DefaultScheduleDays int            `yaml:"defaultScheduleDays,omitempty" validate:"omitempty,min=1"`
	SlotTemplates       []SlotTemplate `yaml:"slotTemplates,omitempty" validate:"dive"`
	LogFile             string         `yaml:"logFile,omitempty"`

	// DatabaseURL comes from the DATABASE_URL environment variable, never
	// from the yaml file.
	DatabaseURL string `yaml:"-" validate:"required"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from staffroster.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	configPath, err := findConfigFile()
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.DefaultScheduleDays == 0 {
		cfg.DefaultScheduleDays = 7
	}

	// A .env file next to the binary is optional; the variable itself is not.
	_ = godotenv.Load()
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct and checks rrule syntax
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	for i, tmpl := range cfg.SlotTemplates {
		if tmpl.RRule == "" {
			continue
		}
		if _, err := rrule.StrToRRule(tmpl.RRule); err != nil {
			return fmt.Errorf("invalid rrule in slotTemplates[%d]: %w", i, err)
		}
	}

	return nil
}

// findConfigFile searches for staffroster.yaml in current directory and home directory
func findConfigFile() (string, error) {
	configFileName := "staffroster.yaml"

	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}
