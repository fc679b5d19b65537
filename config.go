package sqlchain

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/creasty/defaults"
)

// PoolConfig holds connection-pool sizing knobs (spec.md §5's
// ConnectionPool, C11).
type PoolConfig struct {
	MaxOpen         int           `default:"10"`
	MaxIdle         int           `default:"5"`
	ConnMaxLifetime time.Duration `default:"30m"`
	ConnMaxIdleTime time.Duration `default:"10m"`
}

// RetryPolicy bounds the connect retry loop spec.md §5(b) describes.
type RetryPolicy struct {
	MaxAttempts   int           `default:"3"`
	RetryInterval time.Duration `default:"200ms"`
}

// Config gathers everything needed to open a Chain's connection: software
// selector, host credentials, pool sizing and retry policy (spec.md §3's
// "Chain / DBCommand" credentials plus the ambient pool/retry knobs of
// SPEC_FULL.md §4.9).
type Config struct {
	Driver string `env:"SQLCHAIN_DRIVER" default:"mysql"`
	Host   string `env:"SQLCHAIN_HOST" default:"127.0.0.1"`
	Port   int    `env:"SQLCHAIN_PORT" default:"3306"`
	User   string `env:"SQLCHAIN_USER"`
	Pass   string `env:"SQLCHAIN_PASS"`
	DB     string `env:"SQLCHAIN_DB"`

	Pool  PoolConfig
	Retry RetryPolicy
}

// LoadConfig layers overrides on top of struct defaults, then layers
// environment variables on top of that (env wins), mirroring the
// defaults-then-env precedence the reference corpus uses for its own
// *Config types.
func LoadConfig(overrides Config) (Config, error) {
	cfg := overrides
	if err := defaults.Set(&cfg); err != nil {
		return Config{}, err
	}
	cfg = overrides.mergeNonZero(cfg)
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// mergeNonZero re-applies any field the caller explicitly set in overrides
// on top of the defaulted cfg, so defaults.Set only fills genuine zero
// values.
func (o Config) mergeNonZero(cfg Config) Config {
	if o.Driver != "" {
		cfg.Driver = o.Driver
	}
	if o.Host != "" {
		cfg.Host = o.Host
	}
	if o.Port != 0 {
		cfg.Port = o.Port
	}
	if o.User != "" {
		cfg.User = o.User
	}
	if o.Pass != "" {
		cfg.Pass = o.Pass
	}
	if o.DB != "" {
		cfg.DB = o.DB
	}
	return cfg
}
