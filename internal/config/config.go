package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/shemul345/Life-O-positive-server/internal/core/domain"
)

// Config holds all configuration for the application
type Config struct {
	AppMode        string
	Port           string
	LogLevel       string
	AllowedOrigins string
	AdminEmail     string
	Database       DatabaseConfig
	JWT            JWTConfig
	Stripe         StripeConfig
	Funding        FundingConfig
	Donation       DonationConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// JWTConfig holds identity token configuration
type JWTConfig struct {
	Secret string
}

// StripeConfig holds payment provider credentials
type StripeConfig struct {
	SecretKey string
}

// FundingConfig holds checkout settings
type FundingConfig struct {
	Currency  string
	ClientURL string
}

// DonationConfig holds donation request lifecycle settings
type DonationConfig struct {
	Transitions domain.TransitionMode
}

// Load reads configuration from the .env file and environment variables
func Load() (*Config, error) {
	// .env is optional; real environment variables win over it
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_MODE", "dev")
	v.SetDefault("PORT", "3000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("FUNDING_CURRENCY", "usd")
	v.SetDefault("CLIENT_URL", "http://localhost:5173")
	v.SetDefault("DONATION_TRANSITIONS", string(domain.TransitionsPermissive))

	for _, prefix := range []string{"DEV_", "PROD_"} {
		v.SetDefault(prefix+"DB_HOST", "localhost")
		v.SetDefault(prefix+"DB_PORT", "3306")
		v.SetDefault(prefix+"DB_USER", "root")
		v.SetDefault(prefix+"DB_NAME", "life_o_positive")
	}
}

func fromViper(v *viper.Viper) (*Config, error) {
	// trim spaces for Windows compatibility
	appMode := strings.TrimSpace(v.GetString("APP_MODE"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	transitions := domain.TransitionMode(strings.ToLower(strings.TrimSpace(v.GetString("DONATION_TRANSITIONS"))))
	if _, err := domain.NewTransitionPolicy(transitions); err != nil {
		return nil, fmt.Errorf("invalid DONATION_TRANSITIONS: %w", err)
	}

	cfg := &Config{
		AppMode:        appMode,
		Port:           v.GetString("PORT"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		AllowedOrigins: v.GetString("ALLOWED_ORIGINS"),
		AdminEmail:     domain.NormalizeEmail(v.GetString("ADMIN_EMAIL")),
		Database:       loadDatabaseConfig(v, appMode),
		JWT:            JWTConfig{Secret: v.GetString("JWT_SECRET")},
		Stripe:         StripeConfig{SecretKey: v.GetString("STRIPE_SECRET_KEY")},
		Funding: FundingConfig{
			Currency:  strings.ToLower(v.GetString("FUNDING_CURRENCY")),
			ClientURL: strings.TrimRight(v.GetString("CLIENT_URL"), "/"),
		},
		Donation: DonationConfig{Transitions: transitions},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(v *viper.Viper, mode string) DatabaseConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	return DatabaseConfig{
		Host:     v.GetString(prefix + "DB_HOST"),
		Port:     v.GetString(prefix + "DB_PORT"),
		User:     v.GetString(prefix + "DB_USER"),
		Password: v.GetString(prefix + "DB_PASS"),
		DBName:   v.GetString(prefix + "DB_NAME"),
	}
}

func (c *Config) validate() error {
	var errs []error
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.Stripe.SecretKey == "" {
		errs = append(errs, errors.New("STRIPE_SECRET_KEY is required"))
	}
	if c.IsProd() && c.AllowedOrigins == "" {
		errs = append(errs, errors.New("ALLOWED_ORIGINS is required in prod mode"))
	}
	return errors.Join(errs...)
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	if c.AllowedOrigins == "" && c.IsDev() {
		return "*"
	}
	return c.AllowedOrigins
}
