package config

import (
	"github.com/spf13/viper"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	// Server
	Port           int    `mapstructure:"PORT"`
	Env            string `mapstructure:"APP_ENV"`      // development | production
	Timezone       string `mapstructure:"APP_TIMEZONE"` // IANA name; drives day bucketing
	WorkerPoolSize int    `mapstructure:"WORKER_POOL_SIZE"`

	// Google Sheets backing store
	SpreadsheetID        string `mapstructure:"SHEETS_SPREADSHEET_ID"`
	GoogleClientEmail    string `mapstructure:"GOOGLE_CLIENT_EMAIL"`
	GooglePrivateKey     string `mapstructure:"GOOGLE_PRIVATE_KEY"`
	SheetsTimeoutSeconds int    `mapstructure:"SHEETS_TIMEOUT_SECONDS"`

	// Tab names — one spreadsheet, five tabs
	SalesTab     string `mapstructure:"SHEET_SALES_TAB"`
	DeliveryTab  string `mapstructure:"SHEET_DELIVERY_TAB"`
	CashOpenTab  string `mapstructure:"SHEET_CASH_OPEN_TAB"`
	CashCloseTab string `mapstructure:"SHEET_CASH_CLOSE_TAB"`
	ClientsTab   string `mapstructure:"SHEET_CLIENTS_TAB"`

	// Redis
	RedisURL string `mapstructure:"REDIS_URL"`

	// Auth — single admin account
	JWTSecret          string `mapstructure:"JWT_SECRET"`
	JWTExpirationHours int    `mapstructure:"JWT_EXPIRATION_HOURS"`
	AdminUsername      string `mapstructure:"ADMIN_USERNAME"`
	AdminPasswordHash  string `mapstructure:"ADMIN_PASSWORD_HASH"` // bcrypt, generate with cmd/genhash
}

// Load reads configuration from environment variables (and optional .env file).
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Sensible defaults for development
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_TIMEZONE", "Africa/Nairobi")
	viper.SetDefault("WORKER_POOL_SIZE", 2)
	viper.SetDefault("SHEETS_TIMEOUT_SECONDS", 30)
	viper.SetDefault("SHEET_SALES_TAB", "Sales")
	viper.SetDefault("SHEET_DELIVERY_TAB", "Delivery")
	viper.SetDefault("SHEET_CASH_OPEN_TAB", "CashOpen")
	viper.SetDefault("SHEET_CASH_CLOSE_TAB", "CashClose")
	viper.SetDefault("SHEET_CLIENTS_TAB", "Clients")
	viper.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	viper.SetDefault("JWT_EXPIRATION_HOURS", 12)
	viper.SetDefault("ADMIN_USERNAME", "admin")

	// Optional .env file for local development — does not fail if missing
	_ = viper.ReadInConfig()

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
