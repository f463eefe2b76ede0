package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const defaultZohoAPIURL = "https://www.zohoapis.in/crm/v7/functions/create_social_leads_api1/actions/execute"

// CRM success modes
const (
	SuccessModeStrict     = "strict"
	SuccessModePermissive = "permissive"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string
	LogFormat   string
	StoreID     string
	CORSOrigins []string
	CRM         CRMConfig
	Database    DatabaseConfig
	Admin       AdminConfig
}

type CRMConfig struct {
	APIURL      string
	APIKey      string
	Timeout     time.Duration
	SuccessMode string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// Enabled reports whether the lead audit log should be written
func (d DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

type AdminConfig struct {
	APIKeyHash string
}

// ClientConfig configures the lead submission client
type ClientConfig struct {
	APIURL  string
	Timeout time.Duration
}

func setup() error {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "3001")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "console")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if .env doesn't exist, we'll use env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

// Load reads the server configuration
func Load() (*Config, error) {
	if err := setup(); err != nil {
		return nil, err
	}

	timeout, err := getDurationOrViper("CRM_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "3001"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		LogLevel:    getEnvOrViper("LOG_LEVEL", "info"),
		LogFormat:   getEnvOrViper("LOG_FORMAT", "console"),
		StoreID:     getEnvOrViper("STORE_ID", "store1"),
		CORSOrigins: splitList(getEnvOrViper("CORS_ALLOWED_ORIGINS", "*")),
		CRM: CRMConfig{
			APIURL:      getEnvOrViper("ZOHO_API_URL", defaultZohoAPIURL),
			APIKey:      getEnvOrViper("ZOHO_API_KEY", ""),
			Timeout:     timeout,
			SuccessMode: strings.ToLower(getEnvOrViper("CRM_SUCCESS_MODE", SuccessModeStrict)),
		},
		Database: DatabaseConfig{
			Host:     getEnvOrViper("DB_HOST", ""),
			Port:     getEnvOrViper("DB_PORT", "5432"),
			User:     getEnvOrViper("DB_USER", "postgres"),
			Password: getEnvOrViper("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrViper("DB_NAME", "prebook"),
			SSLMode:  getEnvOrViper("DB_SSLMODE", "disable"),
		},
		Admin: AdminConfig{
			APIKeyHash: getEnvOrViper("ADMIN_API_KEY_HASH", ""),
		},
	}

	// Validate required fields
	if cfg.CRM.APIKey == "" {
		return nil, fmt.Errorf("ZOHO_API_KEY is required")
	}
	if cfg.CRM.SuccessMode != SuccessModeStrict && cfg.CRM.SuccessMode != SuccessModePermissive {
		return nil, fmt.Errorf("CRM_SUCCESS_MODE must be %q or %q", SuccessModeStrict, SuccessModePermissive)
	}

	return cfg, nil
}

// LoadClient reads the settings the submission client needs. It does not
// require any CRM credentials.
func LoadClient() (*ClientConfig, error) {
	if err := setup(); err != nil {
		return nil, err
	}

	timeout, err := getDurationOrViper("CLIENT_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	return &ClientConfig{
		APIURL:  getEnvOrViper("PREBOOK_API_URL", "http://localhost:3001"),
		Timeout: timeout,
	}, nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}

func getDurationOrViper(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := getEnvOrViper(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
