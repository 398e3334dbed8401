package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvProduction = "production"

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Payment  PaymentConfig
	Auth     AuthConfig
	Order    OrderConfig
	Kafka    KafkaConfig
	Log      LogConfig
}

type AppConfig struct {
	Env         string
	BaseURL     string
	CatalogPath string
}

type ServerConfig struct {
	Port int
}

// DatabaseConfig carries two credential tiers. The service tier may write;
// the read-only tier serves identity lookups and falls back to the service
// tier when unset.
type DatabaseConfig struct {
	Host             string
	Port             int
	User             string
	Password         string
	ReadOnlyUser     string
	ReadOnlyPassword string
	Name             string
	MaxOpenConns     int
	MaxIdleConns     int
	ConnMaxLifetime  time.Duration
}

type PaymentConfig struct {
	SecretKey     string
	WebhookSecret string
}

type AuthConfig struct {
	JWTSecret     string
	AdminPassword string
}

type OrderConfig struct {
	CancelOnSubscriptionDeleted bool
	MaxRetryAttempts            int
}

type KafkaConfig struct {
	Brokers    []string
	OrderTopic string
}

type LogConfig struct {
	Level string
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Env, EnvProduction)
}

// ReadOnly returns the restricted credential tier.
func (d DatabaseConfig) ReadOnly() DatabaseConfig {
	ro := d
	if d.ReadOnlyUser != "" {
		ro.User = d.ReadOnlyUser
		ro.Password = d.ReadOnlyPassword
	}
	return ro
}

func Load() (*Config, error) {
	viper.AutomaticEnv()

	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("BASE_URL", "http://localhost:3000")
	viper.SetDefault("CATALOG_PATH", "")
	viper.SetDefault("SERVER_PORT", 8080)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", 3306)
	viper.SetDefault("DB_USER", "phonestore")
	viper.SetDefault("DB_PASSWORD", "secret")
	viper.SetDefault("DB_READONLY_USER", "")
	viper.SetDefault("DB_READONLY_PASSWORD", "")
	viper.SetDefault("DB_NAME", "phonestore")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	viper.SetDefault("STRIPE_SECRET_KEY", "")
	viper.SetDefault("STRIPE_WEBHOOK_SECRET", "")
	viper.SetDefault("AUTH_JWT_SECRET", "")
	viper.SetDefault("ADMIN_PASSWORD", "")
	viper.SetDefault("ORDER_CANCEL_ON_SUBSCRIPTION_DELETED", false)
	viper.SetDefault("ORDER_MAX_RETRY_ATTEMPTS", 3)
	viper.SetDefault("KAFKA_BROKERS", "")
	viper.SetDefault("KAFKA_ORDER_TOPIC", "phonestore.orders")
	viper.SetDefault("LOG_LEVEL", "info")

	connMaxLifetime, err := time.ParseDuration(viper.GetString("DB_CONN_MAX_LIFETIME"))
	if err != nil {
		return nil, fmt.Errorf("parsing DB_CONN_MAX_LIFETIME: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Env:         viper.GetString("APP_ENV"),
			BaseURL:     strings.TrimRight(viper.GetString("BASE_URL"), "/"),
			CatalogPath: viper.GetString("CATALOG_PATH"),
		},
		Server: ServerConfig{
			Port: viper.GetInt("SERVER_PORT"),
		},
		Database: DatabaseConfig{
			Host:             viper.GetString("DB_HOST"),
			Port:             viper.GetInt("DB_PORT"),
			User:             viper.GetString("DB_USER"),
			Password:         viper.GetString("DB_PASSWORD"),
			ReadOnlyUser:     viper.GetString("DB_READONLY_USER"),
			ReadOnlyPassword: viper.GetString("DB_READONLY_PASSWORD"),
			Name:             viper.GetString("DB_NAME"),
			MaxOpenConns:     viper.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:     viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime:  connMaxLifetime,
		},
		Payment: PaymentConfig{
			SecretKey:     viper.GetString("STRIPE_SECRET_KEY"),
			WebhookSecret: viper.GetString("STRIPE_WEBHOOK_SECRET"),
		},
		Auth: AuthConfig{
			JWTSecret:     viper.GetString("AUTH_JWT_SECRET"),
			AdminPassword: viper.GetString("ADMIN_PASSWORD"),
		},
		Order: OrderConfig{
			CancelOnSubscriptionDeleted: viper.GetBool("ORDER_CANCEL_ON_SUBSCRIPTION_DELETED"),
			MaxRetryAttempts:            viper.GetInt("ORDER_MAX_RETRY_ATTEMPTS"),
		},
		Kafka: KafkaConfig{
			Brokers:    splitCSV(viper.GetString("KAFKA_BROKERS")),
			OrderTopic: viper.GetString("KAFKA_ORDER_TOPIC"),
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
	}

	if cfg.IsProduction() {
		if cfg.Payment.SecretKey == "" || cfg.Payment.WebhookSecret == "" {
			return nil, fmt.Errorf("STRIPE_SECRET_KEY and STRIPE_WEBHOOK_SECRET are required in production")
		}
		if cfg.Auth.JWTSecret == "" {
			return nil, fmt.Errorf("AUTH_JWT_SECRET is required in production")
		}
	}

	return cfg, nil
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
