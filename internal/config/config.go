package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ndewijer/finance-dashboard/internal/apperrors"
	"github.com/ndewijer/finance-dashboard/internal/model"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Settings SettingsConfig `mapstructure:"settings"`
	Database DatabaseConfig `mapstructure:"database"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Quotes   QuotesConfig   `mapstructure:"quotes"`
	Rate     RateConfig     `mapstructure:"rate"`
	Crypto   CryptoConfig   `mapstructure:"crypto"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Host string `mapstructure:"host"`
	Addr string `mapstructure:"-"` // Combined host:port for convenience
}

// SettingsConfig selects where the dashboard settings are persisted.
type SettingsConfig struct {
	Backend string `mapstructure:"backend"` // "file" or "sqlite"
	Path    string `mapstructure:"path"`    // JSON file used by the file backend
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// QuotesConfig controls quote resolution.
type QuotesConfig struct {
	Source         string        `mapstructure:"source"` // "yahoo" or "financego"
	LookbackDays   int           `mapstructure:"lookback_days"`
	Intraday       bool          `mapstructure:"intraday"`
	CacheTTL       time.Duration `mapstructure:"cache_ttl"`
	RequestsPerSec float64       `mapstructure:"requests_per_sec"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// RateConfig controls the exchange-rate fallback chain.
type RateConfig struct {
	PrimarySymbol   string  `mapstructure:"primary_symbol"`
	SecondarySymbol string  `mapstructure:"secondary_symbol"`
	FallbackRate    float64 `mapstructure:"fallback_rate"`
}

// CryptoConfig holds crypto valuation options.
type CryptoConfig struct {
	CostCurrency string `mapstructure:"cost_currency"` // "reporting" or "quote"
}

// LoggingConfig holds logrus options.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "text"
}

// legacyEnv maps environment variable names used before the config file existed.
var legacyEnv = map[string]string{
	"server.port":   "SERVER_PORT",
	"server.host":   "SERVER_HOST",
	"database.path": "DB_PATH",
}

// Load reads configuration from defaults, an optional config file, the environment
// and a .env file. An empty configPath searches for config.yaml in the working
// directory and ./config.
func Load(configPath string) (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("DASHBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range legacyEnv {
		if err := v.BindEnv(key, "DASHBOARD_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, fmt.Errorf("error binding %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "5001")
	v.SetDefault("server.host", "localhost")

	v.SetDefault("settings.backend", "file")
	v.SetDefault("settings.path", "./data/cash_data.json")
	v.SetDefault("database.path", "./data/dashboard.db")

	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000", "http://localhost"})

	v.SetDefault("quotes.source", "yahoo")
	v.SetDefault("quotes.lookback_days", 30)
	v.SetDefault("quotes.intraday", true)
	v.SetDefault("quotes.cache_ttl", 300*time.Second)
	v.SetDefault("quotes.requests_per_sec", 4.0)
	v.SetDefault("quotes.request_timeout", 15*time.Second)

	v.SetDefault("rate.primary_symbol", "TWD=X")
	v.SetDefault("rate.secondary_symbol", "USDTWD=X")
	v.SetDefault("rate.fallback_rate", 32.5)

	v.SetDefault("crypto.cost_currency", string(model.CostInReporting))

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Validate checks enumerated values that viper cannot.
func (c *Config) Validate() error {
	switch c.Settings.Backend {
	case "file", "sqlite":
	default:
		return fmt.Errorf("%w: %q", apperrors.ErrUnknownSettingsBackend, c.Settings.Backend)
	}
	switch c.Quotes.Source {
	case "yahoo", "financego":
	default:
		return fmt.Errorf("%w: %q", apperrors.ErrUnknownPriceSource, c.Quotes.Source)
	}
	switch model.CostCurrency(c.Crypto.CostCurrency) {
	case model.CostInReporting, model.CostInQuote:
	default:
		return fmt.Errorf("%w: %q", apperrors.ErrInvalidCostCurrency, c.Crypto.CostCurrency)
	}
	return nil
}

// CurrencyPair returns the exchange-rate chain used to convert foreign amounts.
func (c *Config) CurrencyPair() model.CurrencyPair {
	return model.CurrencyPair{
		Base:            model.ForeignCurrency,
		Quote:           model.ReportingCurrency,
		PrimarySymbol:   c.Rate.PrimarySymbol,
		SecondarySymbol: c.Rate.SecondarySymbol,
		FallbackRate:    c.Rate.FallbackRate,
	}
}
