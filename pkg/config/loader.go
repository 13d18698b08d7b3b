package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/app/configs")

	viper.SetEnvPrefix("RATESENSE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Allow common env vars without the RATESENSE_ prefix for Docker deploys
	viper.BindEnv("http.port", "HTTP_PORT", "RATESENSE_HTTP_PORT")
	viper.BindEnv("database.url", "DATABASE_URL", "RATESENSE_DATABASE_URL")
	viper.BindEnv("redis.url", "REDIS_URL", "RATESENSE_REDIS_URL")
	viper.BindEnv("queue.nats.url", "NATS_URL", "RATESENSE_QUEUE_NATS_URL")
	viper.BindEnv("queue.rabbitmq.url", "RABBITMQ_URL", "RATESENSE_QUEUE_RABBITMQ_URL")
	viper.BindEnv("hotel.id", "HOTEL_ID", "RATESENSE_HOTEL_ID")
	viper.BindEnv("previo.login", "PREVIO_LOGIN", "RATESENSE_PREVIO_LOGIN")
	viper.BindEnv("previo.password", "PREVIO_PASSWORD", "RATESENSE_PREVIO_PASSWORD")
	viper.BindEnv("eqc.username", "EQC_USERNAME", "RATESENSE_EQC_USERNAME")
	viper.BindEnv("eqc.password", "EQC_PASSWORD", "RATESENSE_EQC_PASSWORD")
	viper.BindEnv("auth.api_key", "API_KEY", "RATESENSE_AUTH_API_KEY")
	viper.BindEnv("auth.jwt.secret", "JWT_SECRET", "RATESENSE_AUTH_JWT_SECRET")
	viper.BindEnv("notification.email.sendgrid_api_key", "SENDGRID_API_KEY")
	viper.BindEnv("vault.address", "VAULT_ADDR")
	viper.BindEnv("vault.token", "VAULT_TOKEN")
	viper.BindEnv("app.environment", "RATESENSE_ENVIRONMENT")
	viper.BindEnv("logging.level", "LOG_LEVEL")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Env-only deploys work without a config file.
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("app.name", "ratesense")
	viper.SetDefault("app.version", "dev")
	viper.SetDefault("app.environment", "development")
	viper.SetDefault("http.port", 8080)
	viper.SetDefault("queue.kind", "nats")
	viper.SetDefault("previo.xml_base_url", "https://api.previo.app/x1")
	viper.SetDefault("previo.rest_base_url", "https://api.previo.app/rest")
	viper.SetDefault("eqc.ar_url", "https://api.previo.app/eqc1/ar")
	viper.SetDefault("eqc.br_url", "https://api.previo.app/eqc1/br")
	viper.SetDefault("auth.jwt.token_ttl", time.Hour)
	viper.SetDefault("auth.jwt.issuer", "ratesense")
	viper.SetDefault("auth.jwt.audience", "ratesense-api")
	viper.SetDefault("notification.email.provider", "sendgrid")
	viper.SetDefault("jobs.precompute.enabled", true)
	viper.SetDefault("jobs.precompute.interval", 24*time.Hour)
	viper.SetDefault("prometheus.enabled", true)
	viper.SetDefault("prometheus.path", "/metrics")
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("database.auto_migrate", true)
}
