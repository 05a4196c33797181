// Package config loads the cropsy deployment configuration.
//
// Values are resolved in order: built-in defaults, the TOML config file,
// environment variables, then command-line flags (applied by the CLI).
// Gallery geometry is read once at startup and never changes while the
// relay runs.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/cropsy/pkg/cache"
	"github.com/matzehuels/cropsy/pkg/crop"
	cerrors "github.com/matzehuels/cropsy/pkg/errors"
	"github.com/matzehuels/cropsy/pkg/pipeline"
	"github.com/matzehuels/cropsy/pkg/relay"
	"github.com/matzehuels/cropsy/pkg/transport/osc"
)

const appName = "cropsy"

// Config holds the application configuration.
type Config struct {
	Listen Endpoint    `toml:"listen"`
	Izzy   Endpoint    `toml:"izzy"`
	HTTP   HTTPConfig  `toml:"http"`
	OSC    OSCConfig   `toml:"osc"`
	Layout crop.Config `toml:"layout"`
	Cache  CacheConfig `toml:"cache"`
}

// Endpoint is a UDP host and port.
type Endpoint struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// HTTPConfig configures the optional HTTP API.
type HTTPConfig struct {
	Enabled bool   `toml:"enabled"`
	Addr    string `toml:"addr"`
}

// OSCConfig holds message addresses and send behavior.
type OSCConfig struct {
	InboundAddress    string   `toml:"inbound_address"`
	OutboundPrefix    string   `toml:"outbound_prefix"`
	SendRetries       int      `toml:"send_retries"`
	RetryDelay        Duration `toml:"retry_delay"`
	SendHeightPercent bool     `toml:"send_height_percent"`
	SkipDegenerate    bool     `toml:"skip_degenerate"`

	// MaxCount is the largest box count a request may ask for.
	MaxCount int `toml:"max_count"`
}

// CacheConfig selects where computed values are memoized.
type CacheConfig struct {
	Backend    string   `toml:"backend"`
	MaxEntries int      `toml:"max_entries"`
	TTL        Duration `toml:"ttl"`

	// Namespace prefixes every key so several rigs can share one cache.
	Namespace string `toml:"namespace"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	RedisPrefix   string `toml:"redis_prefix"`
}

// Duration is a time.Duration written as a string ("24h") in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns a configuration with default values.
func Default() *Config {
	return &Config{
		Listen: Endpoint{Host: osc.DefaultListenHost, Port: osc.DefaultListenPort},
		Izzy:   Endpoint{Host: osc.DefaultSendHost, Port: osc.DefaultSendPort},
		HTTP:   HTTPConfig{Enabled: false, Addr: "127.0.0.1:8080"},
		OSC: OSCConfig{
			InboundAddress: relay.DefaultInboundAddress,
			OutboundPrefix: relay.DefaultOutboundPrefix,
			SendRetries:    osc.DefaultSendRetries,
			RetryDelay:     Duration{osc.DefaultRetryDelay},
			MaxCount:       pipeline.DefaultMaxCount,
		},
		Layout: crop.DefaultConfig(),
		Cache: CacheConfig{
			Backend:     cache.BackendMemory,
			MaxEntries:  cache.DefaultMaxEntries,
			TTL:         Duration{pipeline.DefaultTTL},
			RedisAddr:   "127.0.0.1:6379",
			RedisPrefix: appName + ":",
		},
	}
}

// Load reads the configuration from path on top of the defaults and applies
// environment overrides. An empty path uses [DefaultPath]; a missing
// default file is not an error, a missing explicit file is.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	cfg, err := LoadFromFile(path)
	switch {
	case err == nil:
	case !explicit && errors.Is(err, fs.ErrNotExist):
		cfg = Default()
	default:
		return nil, err
	}

	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// LoadFromFile decodes a TOML file over the defaults. Unknown keys are
// rejected so that typos do not silently fall back to defaults.
func LoadFromFile(filename string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(filename, cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, cerrors.Wrap(cerrors.ErrCodeInvalidConfig, err, "parse config file %s", filename)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, cerrors.New(cerrors.ErrCodeInvalidConfig,
			"unknown key %q in %s", undecoded[0].String(), filename)
	}
	return cfg, nil
}

// SaveToFile writes the configuration as TOML, creating parent directories.
func (c *Config) SaveToFile(filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode config: %w", err)
	}
	return f.Close()
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	for _, ep := range []struct {
		name string
		Endpoint
	}{{"listen", c.Listen}, {"izzy", c.Izzy}} {
		if err := cerrors.ValidateHost(ep.Host); err != nil {
			return cerrors.Wrap(cerrors.ErrCodeInvalidConfig, err, "%s.host", ep.name)
		}
		if err := cerrors.ValidatePort(ep.Port); err != nil {
			return cerrors.Wrap(cerrors.ErrCodeInvalidConfig, err, "%s.port", ep.name)
		}
	}

	if c.HTTP.Enabled {
		if err := cerrors.ValidateListenAddr(c.HTTP.Addr); err != nil {
			return cerrors.Wrap(cerrors.ErrCodeInvalidConfig, err, "http.addr")
		}
	}

	if err := cerrors.ValidateOSCAddress(c.OSC.InboundAddress); err != nil {
		return cerrors.Wrap(cerrors.ErrCodeInvalidConfig, err, "osc.inbound_address")
	}
	if err := cerrors.ValidateOSCAddress(c.OSC.OutboundPrefix); err != nil {
		return cerrors.Wrap(cerrors.ErrCodeInvalidConfig, err, "osc.outbound_prefix")
	}
	if c.OSC.SendRetries < 0 {
		return cerrors.New(cerrors.ErrCodeInvalidConfig, "osc.send_retries must not be negative")
	}
	if c.OSC.MaxCount < 1 {
		return cerrors.New(cerrors.ErrCodeInvalidConfig, "osc.max_count must be at least 1 (got %d)", c.OSC.MaxCount)
	}

	if err := c.Layout.Validate(); err != nil {
		return err
	}

	switch c.Cache.Backend {
	case cache.BackendNone, cache.BackendMemory:
	case cache.BackendRedis:
		if err := cerrors.ValidateListenAddr(c.Cache.RedisAddr); err != nil {
			return cerrors.Wrap(cerrors.ErrCodeInvalidConfig, err, "cache.redis_addr")
		}
	default:
		return cerrors.New(cerrors.ErrCodeInvalidConfig,
			"cache.backend must be one of: none, memory, redis (got %q)", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return cerrors.New(cerrors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	return nil
}

// DefaultPath returns the configuration file path using the XDG standard
// (~/.config/cropsy/config.toml).
func DefaultPath() string {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", appName, "config.toml")
}

// OSCTransport returns the transport endpoints.
func (c *Config) OSCTransport() osc.Config {
	return osc.Config{
		ListenHost:  c.Listen.Host,
		ListenPort:  c.Listen.Port,
		SendHost:    c.Izzy.Host,
		SendPort:    c.Izzy.Port,
		SendRetries: c.OSC.SendRetries,
		RetryDelay:  c.OSC.RetryDelay.Duration,
	}
}

// RelayOptions returns the relay addresses.
func (c *Config) RelayOptions() relay.Options {
	return relay.Options{
		InboundAddress:    c.OSC.InboundAddress,
		OutboundPrefix:    c.OSC.OutboundPrefix,
		SendHeightPercent: c.OSC.SendHeightPercent,
		SkipDegenerate:    c.OSC.SkipDegenerate,
	}
}

// CacheKeyer returns the keyer for computed values, scoped by
// cache.namespace when one is set.
func (c *Config) CacheKeyer() cache.Keyer {
	if c.Cache.Namespace == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), c.Cache.Namespace+":")
}

// CacheOptions returns the cache backend selection.
func (c *Config) CacheOptions() cache.Options {
	return cache.Options{
		Backend:    c.Cache.Backend,
		MaxEntries: c.Cache.MaxEntries,
		Redis: cache.RedisOptions{
			Addr:     c.Cache.RedisAddr,
			Password: c.Cache.RedisPassword,
			DB:       c.Cache.RedisDB,
			Prefix:   c.Cache.RedisPrefix,
		},
	}
}
