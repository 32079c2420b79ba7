package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env  string
	Port string

	// Upstreams. HoldingsAPIURL is the backend that owns holding
	// persistence; FinanceAPIURL is the quote gateway. Both are API roots,
	// e.g. "http://localhost:8000/api".
	HoldingsAPIURL string
	FinanceAPIURL  string

	// AccountID scopes every holdings backend call.
	AccountID int64

	RedisURL       string
	RequestTimeout time.Duration
	QuoteCacheTTL  time.Duration
	QuoteRateLimit float64

	AllowedOrigins []string
	HealthAdminKey string
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("HOLDINGS_API_URL", "http://localhost:8000/api")
	viper.SetDefault("FINANCE_API_URL", "http://localhost:8000/api")
	viper.SetDefault("ACCOUNT_ID", 1)
	viper.SetDefault("REQUEST_TIMEOUT_SECONDS", 15)
	viper.SetDefault("QUOTE_CACHE_TTL_SECONDS", 30)
	viper.SetDefault("QUOTE_RATE_LIMIT", 5)

	return &Config{
		Env:            viper.GetString("APP_ENV"),
		Port:           viper.GetString("PORT"),
		HoldingsAPIURL: strings.TrimRight(viper.GetString("HOLDINGS_API_URL"), "/"),
		FinanceAPIURL:  strings.TrimRight(viper.GetString("FINANCE_API_URL"), "/"),
		AccountID:      viper.GetInt64("ACCOUNT_ID"),
		RedisURL:       viper.GetString("REDIS_URL"),
		RequestTimeout: time.Duration(viper.GetInt("REQUEST_TIMEOUT_SECONDS")) * time.Second,
		QuoteCacheTTL:  time.Duration(viper.GetInt("QUOTE_CACHE_TTL_SECONDS")) * time.Second,
		QuoteRateLimit: viper.GetFloat64("QUOTE_RATE_LIMIT"),
		AllowedOrigins: splitOrigins(viper.GetString("ALLOWED_ORIGINS")),
		HealthAdminKey: viper.GetString("HEALTH_ADMIN_KEY"),
	}, nil
}

func splitOrigins(s string) []string {
	var origins []string
	for _, o := range strings.Split(s, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
