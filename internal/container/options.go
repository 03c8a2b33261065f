// Package container wires the service together with samber/do.
package container

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/serroba/shortly/internal/shortener"
)

const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"

	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"

	StatsDirect = "direct"
	StatsStream = "stream"
)

// ErrInvalidOptions wraps every option validation failure.
var ErrInvalidOptions = errors.New("invalid options")

// Options is read by humacli from flags and SERVICE_* environment variables.
type Options struct {
	Port        int    `default:"8888"                                                help:"Port to listen on"                                           short:"p"`
	BaseURL     string `help:"Public base URL of short links (default http://localhost:<port>)"`
	Env         string `default:"development"                                         help:"Environment: development, staging or production"             short:"e"`
	Secret      string `help:"Secret used to sign form tokens (required)"`
	CodeLength  int    `default:"6"                                                   help:"Length of generated short codes"                             short:"c"`
	Storage     string `default:"memory"                                              help:"Short link storage: memory, postgres or redis"               short:"s"`
	DatabaseURL string `default:"postgres://localhost:5432/shortly?sslmode=disable" help:"PostgreSQL connection URL"`
	RedisAddr   string `default:"localhost:6379"                                      help:"Redis server address"                                        short:"r"`
	CacheTTL    string `default:"1h"                                                  help:"Redis cache TTL in front of postgres, 0 disables the cache"`
	StatsMode   string `default:"direct"                                              help:"Hit counters: direct (write redis inline) or stream (publish)"`
	LogFormat   string `default:"console"                                             help:"Log format: console or json"`
	TrustProxy  bool   `help:"Read client addresses from X-Forwarded-For/X-Real-IP (only behind a proxy)"`
}

// Validate checks enumerated options and the signing secret.
func (o *Options) Validate() error {
	var errs []error

	if o.Secret == "" {
		errs = append(errs, errors.New("secret is required"))
	}

	if !slices.Contains([]string{EnvDevelopment, EnvStaging, EnvProduction}, o.Env) {
		errs = append(errs, fmt.Errorf("unknown env %q", o.Env))
	}

	if !slices.Contains([]string{StorageMemory, StoragePostgres, StorageRedis}, o.Storage) {
		errs = append(errs, fmt.Errorf("unknown storage %q", o.Storage))
	}

	if !slices.Contains([]string{StatsDirect, StatsStream}, o.StatsMode) {
		errs = append(errs, fmt.Errorf("unknown stats mode %q", o.StatsMode))
	}

	if o.CodeLength < shortener.MinCodeLength || o.CodeLength > 32 {
		errs = append(errs, fmt.Errorf("code length %d out of range %d-32", o.CodeLength, shortener.MinCodeLength))
	}

	if _, err := o.CacheDuration(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidOptions, errors.Join(errs...))
	}

	return nil
}

// Production reports whether production limits apply. Staging counts as production.
func (o *Options) Production() bool {
	return o.Env == EnvProduction || o.Env == EnvStaging
}

// PublicBaseURL is the base of every short link, without a trailing slash.
func (o *Options) PublicBaseURL() string {
	if o.BaseURL != "" {
		return strings.TrimRight(o.BaseURL, "/")
	}

	return fmt.Sprintf("http://localhost:%d", o.Port)
}

func (o *Options) CacheDuration() (time.Duration, error) {
	d, err := time.ParseDuration(o.CacheTTL)
	if err != nil {
		return 0, fmt.Errorf("cache ttl: %w", err)
	}

	return d, nil
}

// UsesRedis reports whether any component needs the redis client.
func (o *Options) UsesRedis() bool {
	return o.Storage != StorageMemory || o.StatsMode == StatsStream
}
