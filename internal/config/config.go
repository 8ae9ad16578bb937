// AngelaMos | 2026
// config.go

package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	App       AppConfig       `koanf:"app"`
	Server    ServerConfig    `koanf:"server"`
	Mongo     MongoConfig     `koanf:"mongo"`
	Redis     RedisConfig     `koanf:"redis"`
	JWT       JWTConfig       `koanf:"jwt"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	CORS      CORSConfig      `koanf:"cors"`
	Log       LogConfig       `koanf:"log"`
	Otel      OtelConfig      `koanf:"otel"`
	Email     EmailConfig     `koanf:"email"`
}

type AppConfig struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"`
	BaseURL     string `koanf:"base_url"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	MaxBodyBytes    int64         `koanf:"max_body_bytes"`
}

type MongoConfig struct {
	URI             string        `koanf:"uri"`
	Database        string        `koanf:"database"`
	MaxPoolSize     uint64        `koanf:"max_pool_size"`
	MinPoolSize     uint64        `koanf:"min_pool_size"`
	MaxConnIdleTime time.Duration `koanf:"max_conn_idle_time"`
}

type RedisConfig struct {
	URL          string `koanf:"url"`
	PoolSize     int    `koanf:"pool_size"`
	MinIdleConns int    `koanf:"min_idle_conns"`
}

type JWTConfig struct {
	PrivateKeyPath string        `koanf:"private_key_path"`
	PublicKeyPath  string        `koanf:"public_key_path"`
	SessionExpire  time.Duration `koanf:"session_expire"`
	ResetExpire    time.Duration `koanf:"reset_expire"`
	CookieExpire   time.Duration `koanf:"cookie_expire"`
	Issuer         string        `koanf:"issuer"`
	Audience       string        `koanf:"audience"`
}

type RateLimitConfig struct {
	Requests int           `koanf:"requests"`
	Window   time.Duration `koanf:"window"`
	Burst    int           `koanf:"burst"`
}

type CORSConfig struct {
	AllowedOrigins   []string `koanf:"allowed_origins"`
	AllowedMethods   []string `koanf:"allowed_methods"`
	AllowedHeaders   []string `koanf:"allowed_headers"`
	AllowCredentials bool     `koanf:"allow_credentials"`
	MaxAge           int      `koanf:"max_age"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type OtelConfig struct {
	Endpoint    string  `koanf:"endpoint"`
	ServiceName string  `koanf:"service_name"`
	Enabled     bool    `koanf:"enabled"`
	Insecure    bool    `koanf:"insecure"`
	SampleRate  float64 `koanf:"sample_rate"`
}

type EmailConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	From     string `koanf:"from"`
	Enabled  bool   `koanf:"enabled"`
}

var (
	cfg  *Config
	once sync.Once
)

func Load(configPath string) (*Config, error) {
	var loadErr error

	once.Do(func() {
		k := koanf.New(".")

		if err := loadDefaults(k); err != nil {
			loadErr = fmt.Errorf("load defaults: %w", err)
			return
		}

		if configPath != "" {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				loadErr = fmt.Errorf("load config file: %w", err)
				return
			}
		}

		if err := k.Load(env.Provider("", ".", envKeyReplacer), nil); err != nil {
			loadErr = fmt.Errorf("load env vars: %w", err)
			return
		}

		cfg = &Config{}
		if err := k.Unmarshal("", cfg); err != nil {
			loadErr = fmt.Errorf("unmarshal config: %w", err)
			return
		}

		if err := validate(cfg); err != nil {
			loadErr = fmt.Errorf("validate config: %w", err)
			return
		}
	})

	if loadErr != nil {
		return nil, loadErr
	}

	return cfg, nil
}

func Get() *Config {
	if cfg == nil {
		panic("config not loaded: call Load() first")
	}
	return cfg
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"app.name":        "BookIt API",
		"app.version":     "1.0.0",
		"app.environment": "development",
		"app.base_url":    "http://localhost:8080",

		"server.host":             "0.0.0.0",
		"server.port":             8080,
		"server.read_timeout":     "30s",
		"server.write_timeout":    "30s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "15s",
		"server.max_body_bytes":   20 * 1024,

		"mongo.database":           "bookit",
		"mongo.max_pool_size":      25,
		"mongo.min_pool_size":      5,
		"mongo.max_conn_idle_time": "30m",

		"redis.pool_size":      10,
		"redis.min_idle_conns": 5,

		"jwt.session_expire":   "24h",
		"jwt.reset_expire":     "10m",
		"jwt.cookie_expire":    "24h",
		"jwt.issuer":           "bookit",
		"jwt.audience":         "bookit-api",
		"jwt.private_key_path": "keys/private.pem",
		"jwt.public_key_path":  "keys/public.pem",

		"rate_limit.requests": 100,
		"rate_limit.window":   "1h",
		"rate_limit.burst":    100,

		"cors.allowed_origins": []string{"http://localhost:3000"},
		"cors.allowed_methods": []string{
			"GET",
			"POST",
			"PUT",
			"PATCH",
			"DELETE",
			"OPTIONS",
		},
		"cors.allowed_headers": []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-Request-ID",
		},
		"cors.allow_credentials": true,
		"cors.max_age":           300,

		"log.level":  "info",
		"log.format": "json",

		"otel.enabled":      false,
		"otel.insecure":     true,
		"otel.sample_rate":  0.1,
		"otel.service_name": "bookit-api",

		"email.enabled": false,
		"email.port":    587,
		"email.from":    "BookIt <hello@bookit.example>",
	}

	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return fmt.Errorf("set default %s: %w", key, err)
		}
	}

	return nil
}

var envKeyMap = map[string]string{
	"MONGO_URI":             "mongo.uri",
	"MONGO_DATABASE":        "mongo.database",
	"REDIS_URL":             "redis.url",
	"ENVIRONMENT":           "app.environment",
	"BASE_URL":              "app.base_url",
	"HOST":                  "server.host",
	"PORT":                  "server.port",
	"LOG_LEVEL":             "log.level",
	"LOG_FORMAT":            "log.format",
	"JWT_PRIVATE_KEY_PATH":  "jwt.private_key_path",
	"JWT_PUBLIC_KEY_PATH":   "jwt.public_key_path",
	"JWT_SESSION_EXPIRE":    "jwt.session_expire",
	"JWT_RESET_EXPIRE":      "jwt.reset_expire",
	"JWT_COOKIE_EXPIRE":     "jwt.cookie_expire",
	"JWT_ISSUER":            "jwt.issuer",
	"JWT_AUDIENCE":          "jwt.audience",
	"RATE_LIMIT_REQUESTS":   "rate_limit.requests",
	"RATE_LIMIT_WINDOW":     "rate_limit.window",
	"RATE_LIMIT_BURST":      "rate_limit.burst",
	"OTEL_ENDPOINT":         "otel.endpoint",
	"OTEL_SERVICE_NAME":     "otel.service_name",
	"OTEL_ENABLED":          "otel.enabled",
	"OTEL_INSECURE":         "otel.insecure",
	"OTEL_SAMPLE_RATE":      "otel.sample_rate",
	"EMAIL_HOST":            "email.host",
	"EMAIL_PORT":            "email.port",
	"EMAIL_USERNAME":        "email.username",
	"EMAIL_PASSWORD":        "email.password",
	"EMAIL_FROM":            "email.from",
	"EMAIL_ENABLED":         "email.enabled",
}

func envKeyReplacer(s string) string {
	if mapped, ok := envKeyMap[s]; ok {
		return mapped
	}
	return ""
}

func validate(c *Config) error {
	if c.Mongo.URI == "" {
		return fmt.Errorf("MONGO_URI is required")
	}

	if c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	if c.JWT.PrivateKeyPath == "" {
		return fmt.Errorf("JWT_PRIVATE_KEY_PATH is required")
	}

	if c.JWT.PublicKeyPath == "" {
		return fmt.Errorf("JWT_PUBLIC_KEY_PATH is required")
	}

	if c.JWT.SessionExpire <= 0 {
		return fmt.Errorf("jwt.session_expire must be positive")
	}

	if c.CORS.AllowCredentials {
		for _, origin := range c.CORS.AllowedOrigins {
			if origin == "*" {
				return fmt.Errorf(
					"CORS wildcard '*' cannot be used with AllowCredentials",
				)
			}
		}
	}

	if c.App.Environment == "production" {
		if c.Otel.Enabled && c.Otel.Insecure {
			return fmt.Errorf("OTEL_INSECURE must be false in production")
		}
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server.read_timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server.write_timeout must be positive")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
