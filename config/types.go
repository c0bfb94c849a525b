package config

import (
	"time"

	"github.com/knadh/koanf/v2"
)

// Environment names recognized in app.env.
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Config is the root configuration structure for applications built on the
// toolkit.
type Config struct {
	App      AppConfig      `koanf:"app"`
	Log      LogConfig      `koanf:"log"`
	Client   ClientConfig   `koanf:"client"`
	Database DatabaseConfig `koanf:"database"`

	k *koanf.Koanf
}

// AppConfig identifies the embedding application.
type AppConfig struct {
	Name  string `koanf:"name" validate:"required"`
	Env   string `koanf:"env" validate:"required,oneof=development staging production"`
	Debug bool   `koanf:"debug"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level  string `koanf:"level" validate:"required"`
	Pretty bool   `koanf:"pretty"`
}

// ClientConfig carries defaults for outbound HTTP clients. Per-call settings
// on a request plan take precedence over these.
type ClientConfig struct {
	Host               string        `koanf:"host"`
	APIVersion         string        `koanf:"apiversion"`
	Timeout            time.Duration `koanf:"timeout" validate:"gt=0"`
	Retries            int           `koanf:"retries" validate:"gte=1"`
	RetryDelay         time.Duration `koanf:"retrydelay" validate:"gt=0"`
	BackoffFactor      float64       `koanf:"backofffactor" validate:"gte=1"`
	LogPayloads        bool          `koanf:"logpayloads"`
	MaxPayloadLogBytes int           `koanf:"maxpayloadlogbytes" validate:"gte=0"`
}

// DatabaseConfig describes a PostgreSQL connection for the session manager.
// Either ConnectionString or the discrete fields must be set when Enabled.
type DatabaseConfig struct {
	Enabled          bool          `koanf:"enabled"`
	ConnectionString string        `koanf:"connectionstring"`
	Host             string        `koanf:"host"`
	Port             int           `koanf:"port" validate:"gte=0,lte=65535"`
	Username         string        `koanf:"username"`
	Password         string        `koanf:"password"`
	Database         string        `koanf:"database"`
	SSLMode          string        `koanf:"sslmode"`
	MaxConns         int           `koanf:"maxconns" validate:"gte=0"`
	MaxIdleConns     int           `koanf:"maxidleconns" validate:"gte=0"`
	ConnMaxLifetime  time.Duration `koanf:"connmaxlifetime"`
	ConnMaxIdleTime  time.Duration `koanf:"connmaxidletime"`
}

// Raw exposes the underlying koanf instance for ad-hoc key access.
func (c *Config) Raw() *koanf.Koanf {
	return c.k
}

// IsProduction reports whether the app runs in the production environment.
func (c *Config) IsProduction() bool {
	return c.App.Env == EnvProduction
}
