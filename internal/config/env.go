package config

import (
	"strconv"

	cerrors "github.com/matzehuels/cropsy/pkg/errors"
)

// Environment variables. The first four keep the names existing ZoomOSC and
// Isadora deployments already export.
const (
	EnvListenHost = "LISTEN_HOST"
	EnvListenPort = "LISTEN_PORT"
	EnvIzzyHost   = "IZZY_HOST"
	EnvIzzyPort   = "IZZY_PORT"
	EnvHTTPAddr   = "CROPSY_HTTP_ADDR"
	EnvCache      = "CROPSY_CACHE"
	EnvRedisAddr  = "CROPSY_REDIS_ADDR"
)

// ApplyEnv overrides fields from environment variables read with getenv.
// Setting CROPSY_HTTP_ADDR also enables the HTTP API.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	setString(getenv, EnvListenHost, &c.Listen.Host)
	setString(getenv, EnvIzzyHost, &c.Izzy.Host)
	setString(getenv, EnvCache, &c.Cache.Backend)
	setString(getenv, EnvRedisAddr, &c.Cache.RedisAddr)

	if err := setPort(getenv, EnvListenPort, &c.Listen.Port); err != nil {
		return err
	}
	if err := setPort(getenv, EnvIzzyPort, &c.Izzy.Port); err != nil {
		return err
	}

	if v := getenv(EnvHTTPAddr); v != "" {
		c.HTTP.Addr = v
		c.HTTP.Enabled = true
	}
	return nil
}

func setString(getenv func(string) string, key string, dst *string) {
	if v := getenv(key); v != "" {
		*dst = v
	}
}

func setPort(getenv func(string) string, key string, dst *int) error {
	v := getenv(key)
	if v == "" {
		return nil
	}
	port, err := strconv.Atoi(v)
	if err != nil {
		return cerrors.Wrap(cerrors.ErrCodeInvalidConfig, err, "%s=%q is not a port number", key, v)
	}
	*dst = port
	return nil
}
