package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/cropsy/pkg/cache"
	"github.com/matzehuels/cropsy/pkg/crop"
	cerrors "github.com/matzehuels/cropsy/pkg/errors"
	"github.com/matzehuels/cropsy/pkg/pipeline"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
	if cfg.Listen.Port != 1235 || cfg.Izzy.Port != 1234 {
		t.Errorf("ports = %d/%d, want 1235/1234", cfg.Listen.Port, cfg.Izzy.Port)
	}
	if cfg.Listen.Host != "0.0.0.0" || cfg.Izzy.Host != "127.0.0.1" {
		t.Errorf("hosts = %s/%s", cfg.Listen.Host, cfg.Izzy.Host)
	}
	if cfg.Layout != crop.DefaultConfig() {
		t.Errorf("Layout = %+v, want defaults", cfg.Layout)
	}
	if cfg.OSC.MaxCount != pipeline.DefaultMaxCount || cfg.OSC.SkipDegenerate {
		t.Errorf("OSC = %+v, want default max count and degenerate counts sent", cfg.OSC)
	}
	if cfg.Cache.Namespace != "" {
		t.Errorf("Cache.Namespace = %q, want unscoped", cfg.Cache.Namespace)
	}
}

func TestSaveAndLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := Default()
	cfg.Izzy.Port = 4321
	cfg.Layout.Spacing = 8
	cfg.Cache.TTL = Duration{90 * time.Minute}
	if err := cfg.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}
	if loaded.Izzy.Port != 4321 {
		t.Errorf("Izzy.Port = %d, want 4321", loaded.Izzy.Port)
	}
	if loaded.Layout.Spacing != 8 {
		t.Errorf("Layout.Spacing = %v, want 8", loaded.Layout.Spacing)
	}
	if loaded.Layout.AspectRatio != crop.DefaultAspectRatio {
		t.Errorf("Layout.AspectRatio = %v, want %v", loaded.Layout.AspectRatio, crop.DefaultAspectRatio)
	}
	if loaded.Cache.TTL.Duration != 90*time.Minute {
		t.Errorf("Cache.TTL = %v, want 1h30m", loaded.Cache.TTL)
	}
}

func TestLoadFromFilePartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[izzy]
host = "10.0.0.5"

[layout]
top_margin = 40.0

[osc]
max_count = 2000
skip_degenerate = true

[cache]
backend = "none"
ttl = "5m"
namespace = "stage"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}
	if cfg.Izzy.Host != "10.0.0.5" || cfg.Izzy.Port != 1234 {
		t.Errorf("Izzy = %+v", cfg.Izzy)
	}
	if cfg.OSC.MaxCount != 2000 || !cfg.OSC.SkipDegenerate || cfg.OSC.OutboundPrefix != "/izzy/cropValues/" {
		t.Errorf("OSC = %+v", cfg.OSC)
	}
	if cfg.Cache.Namespace != "stage" {
		t.Errorf("Cache.Namespace = %q, want stage", cfg.Cache.Namespace)
	}
	if cfg.Layout.TopMargin != 40 || cfg.Layout.BottomMargin != crop.DefaultBottomMargin {
		t.Errorf("Layout = %+v", cfg.Layout)
	}
	if cfg.Cache.Backend != cache.BackendNone || cfg.Cache.TTL.Duration != 5*time.Minute {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
}

func TestLoadFromFileRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[layout]\ntop_margn = 40.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadFromFile(path)
	if !cerrors.Is(err, cerrors.ErrCodeInvalidConfig) {
		t.Errorf("LoadFromFile() error = %v, want INVALID_CONFIG", err)
	}
}

func TestLoadFromFileBadSyntax(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[izzy\nport = "), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromFile(path); !cerrors.Is(err, cerrors.ErrCodeInvalidConfig) {
		t.Errorf("LoadFromFile() error = %v, want INVALID_CONFIG", err)
	}
}

func TestLoadMissingFiles(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, key := range []string{EnvListenHost, EnvListenPort, EnvIzzyHost, EnvIzzyPort, EnvHTTPAddr, EnvCache, EnvRedisAddr} {
		t.Setenv(key, "")
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") without a default file error = %v", err)
	}
	if cfg.Listen.Port != 1235 {
		t.Errorf("Listen.Port = %d", cfg.Listen.Port)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("Load() of a missing explicit file should fail")
	}
}

func TestLoadAppliesEnv(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(EnvListenHost, "")
	t.Setenv(EnvListenPort, "9000")
	t.Setenv(EnvIzzyHost, "")
	t.Setenv(EnvIzzyPort, "")
	t.Setenv(EnvHTTPAddr, "")
	t.Setenv(EnvCache, "none")
	t.Setenv(EnvRedisAddr, "")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Listen.Port != 9000 {
		t.Errorf("Listen.Port = %d, want 9000", cfg.Listen.Port)
	}
	if cfg.Cache.Backend != cache.BackendNone {
		t.Errorf("Cache.Backend = %s, want none", cfg.Cache.Backend)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvListenHost: "127.0.0.1",
		EnvListenPort: "5000",
		EnvIzzyHost:   "192.168.1.20",
		EnvIzzyPort:   "5001",
		EnvHTTPAddr:   ":9090",
		EnvCache:      "redis",
		EnvRedisAddr:  "redis:6379",
	}
	cfg := Default()
	if err := cfg.ApplyEnv(func(k string) string { return env[k] }); err != nil {
		t.Fatalf("ApplyEnv() error = %v", err)
	}

	if cfg.Listen != (Endpoint{Host: "127.0.0.1", Port: 5000}) {
		t.Errorf("Listen = %+v", cfg.Listen)
	}
	if cfg.Izzy != (Endpoint{Host: "192.168.1.20", Port: 5001}) {
		t.Errorf("Izzy = %+v", cfg.Izzy)
	}
	if !cfg.HTTP.Enabled || cfg.HTTP.Addr != ":9090" {
		t.Errorf("HTTP = %+v", cfg.HTTP)
	}
	if cfg.Cache.Backend != "redis" || cfg.Cache.RedisAddr != "redis:6379" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestApplyEnvBadPort(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(func(k string) string {
		if k == EnvIzzyPort {
			return "isadora"
		}
		return ""
	})
	if !cerrors.Is(err, cerrors.ErrCodeInvalidConfig) {
		t.Errorf("ApplyEnv() error = %v, want INVALID_CONFIG", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty listen host", func(c *Config) { c.Listen.Host = "" }},
		{"port zero", func(c *Config) { c.Izzy.Port = 0 }},
		{"port too large", func(c *Config) { c.Listen.Port = 70000 }},
		{"bad http addr", func(c *Config) { c.HTTP.Enabled = true; c.HTTP.Addr = "nope" }},
		{"inbound without slash", func(c *Config) { c.OSC.InboundAddress = "zgc/cropValues" }},
		{"prefix with space", func(c *Config) { c.OSC.OutboundPrefix = "/izzy crop/" }},
		{"negative retries", func(c *Config) { c.OSC.SendRetries = -1 }},
		{"zero max count", func(c *Config) { c.OSC.MaxCount = 0 }},
		{"negative margin", func(c *Config) { c.Layout.TopMargin = -1 }},
		{"zero aspect ratio", func(c *Config) { c.Layout.AspectRatio = 0 }},
		{"unknown backend", func(c *Config) { c.Cache.Backend = "memcached" }},
		{"redis without addr", func(c *Config) { c.Cache.Backend = "redis"; c.Cache.RedisAddr = "" }},
		{"negative ttl", func(c *Config) { c.Cache.TTL = Duration{-time.Second} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !cerrors.Is(err, cerrors.ErrCodeInvalidConfig) {
				t.Errorf("Validate() error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := DefaultPath(); got != filepath.Join("/tmp/xdg", "cropsy", "config.toml") {
		t.Errorf("DefaultPath() = %s", got)
	}
}

func TestDerivedOptions(t *testing.T) {
	cfg := Default()
	cfg.OSC.SendHeightPercent = true

	tc := cfg.OSCTransport()
	if tc.ListenAddr() != "0.0.0.0:1235" || tc.SendAddr() != "127.0.0.1:1234" {
		t.Errorf("transport = %s -> %s", tc.ListenAddr(), tc.SendAddr())
	}

	ro := cfg.RelayOptions()
	if ro.InboundAddress != "/zgc/cropValues" || ro.OutboundPrefix != "/izzy/cropValues/" || !ro.SendHeightPercent {
		t.Errorf("relay options = %+v", ro)
	}

	co := cfg.CacheOptions()
	if co.Backend != cache.BackendMemory || co.Redis.Prefix != "cropsy:" {
		t.Errorf("cache options = %+v", co)
	}

	cfg.OSC.SkipDegenerate = true
	if !cfg.RelayOptions().SkipDegenerate {
		t.Error("RelayOptions should carry osc.skip_degenerate")
	}
}

func TestCacheKeyer(t *testing.T) {
	geo := crop.DefaultConfig()
	cfg := Default()

	plain := cfg.CacheKeyer().PannerKey(1920, 1080, 3, geo)
	if !strings.HasPrefix(plain, "panner:") {
		t.Errorf("unscoped key = %s", plain)
	}

	cfg.Cache.Namespace = "stage"
	stage := cfg.CacheKeyer().PannerKey(1920, 1080, 3, geo)
	if stage != "stage:"+plain {
		t.Errorf("scoped key = %s, want stage:%s", stage, plain)
	}

	cfg.Cache.Namespace = "show"
	if show := cfg.CacheKeyer().LayoutKey(1920, 1080, 3, geo); !strings.HasPrefix(show, "show:layout:") {
		t.Errorf("scoped layout key = %s", show)
	}
}
