package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type PostgresConfig struct {
	DSN             string
	MaxOpen         int
	MaxIdle         int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type SecurityConfig struct {
	SessionSecret string
	SessionTTL    time.Duration
}

type OAuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	RedirectBaseURL    string
}

// ClassEntitlements is the static policy for one caller class.
type ClassEntitlements struct {
	MaxMessagesPerDay int
	AllowedModelIDs   []string
}

type EntitlementsConfig struct {
	Guest   ClassEntitlements
	Regular ClassEntitlements
}

type ModelConfig struct {
	ID          string
	Name        string
	Description string
}

type JobsConfig struct {
	GuestRetention time.Duration
}

type AppConfig struct {
	Environment      string
	HTTP             HTTPConfig
	Postgres         PostgresConfig
	Redis            RedisConfig
	Security         SecurityConfig
	OAuth            OAuthConfig
	Entitlements     EntitlementsConfig
	Models           []ModelConfig
	Jobs             JobsConfig
	AllowCORSOrigins []string
}

func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

func Load() (*AppConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")

	v.SetEnvPrefix("RELAYCHAT")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Security.SessionSecret == "" {
		return nil, fmt.Errorf("security.sessionsecret is required")
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "15s")
	v.SetDefault("http.idletimeout", "60s")

	v.SetDefault("postgres.maxopen", 30)
	v.SetDefault("postgres.maxidle", 10)
	v.SetDefault("postgres.connmaxlifetime", "30m")

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("security.sessionttl", "720h") // 30 days

	v.SetDefault("oauth.redirectbaseurl", "http://localhost:8080")

	v.SetDefault("entitlements.guest.maxmessagesperday", 5)
	v.SetDefault("entitlements.guest.allowedmodelids", []string{"chat-model", "chat-model-reasoning"})
	v.SetDefault("entitlements.regular.maxmessagesperday", 100)
	v.SetDefault("entitlements.regular.allowedmodelids", []string{"chat-model", "chat-model-reasoning"})

	v.SetDefault("models", []map[string]any{
		{
			"id":          "chat-model",
			"name":        "Gemini Pro",
			"description": "General purpose conversational model",
		},
		{
			"id":          "chat-model-reasoning",
			"name":        "Gemini Reasoning",
			"description": "Chain-of-thought reasoning for complex problems",
		},
	})

	v.SetDefault("jobs.guestretention", "720h")
}
