package config

import "time"

type Config struct {
	App           AppConfig           `mapstructure:"app"`
	HTTP          HTTPConfig          `mapstructure:"http"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Queue         QueueConfig         `mapstructure:"queue"`
	JWT           JWTConfig           `mapstructure:"jwt"`
	OpenTelemetry OpenTelemetryConfig `mapstructure:"opentelemetry"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Cache         CacheConfig         `mapstructure:"cache"`
	Access        AccessConfig        `mapstructure:"access"`
	Journal       JournalConfig       `mapstructure:"journal"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type HTTPConfig struct {
	Port           int           `mapstructure:"port"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

type RedisConfig struct {
	URL string `mapstructure:"url"`
}

// QueueConfig selects the record transport. Driver is one of "memory",
// "nats", "rabbitmq".
type QueueConfig struct {
	Driver        string        `mapstructure:"driver"`
	NATSURL       string        `mapstructure:"nats_url"`
	RabbitMQURL   string        `mapstructure:"rabbitmq_url"`
	MaxReconnects int           `mapstructure:"max_reconnects"`
	ReconnectWait time.Duration `mapstructure:"reconnect_wait"`
}

type JWTConfig struct {
	Secret   string `mapstructure:"secret"`
	Issuer   string `mapstructure:"issuer"`
	Audience string `mapstructure:"audience"`
}

type OpenTelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

type CacheConfig struct {
	StationTTL      time.Duration `mapstructure:"station_ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// AccessConfig seeds the elevated operator identities of the access registry.
type AccessConfig struct {
	Operators []string `mapstructure:"operators"`
}

type JournalConfig struct {
	Enabled bool `mapstructure:"enabled"`
}
