// Package config loads kgraph settings from a TOML file.
//
// A config file is optional. Missing sections and keys keep the values from
// [Default]; a few secrets and endpoints may also come from the environment:
//
//	KGRAPH_LLM_API_KEY   overrides [llm] api_key
//	KGRAPH_REDIS_ADDR    overrides [redis] addr
//	KGRAPH_MONGO_URI     overrides [mongo] uri
//
// Example file:
//
//	[layout]
//	base_radius = 400.0
//	cutoff = 3
//
//	[server]
//	addr = ":8080"
//
//	[llm]
//	base_url = "http://localhost:11434/v1"
//	model = "gemma3"
//	timeout = "5m"
package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/kgraph/pkg/errors"
	"github.com/matzehuels/kgraph/pkg/graphgen"
	"github.com/matzehuels/kgraph/pkg/radial"
	"github.com/matzehuels/kgraph/pkg/server"
)

const appName = "kgraph"

// Environment variables read by [Config.ApplyEnv].
const (
	EnvLLMAPIKey = "KGRAPH_LLM_API_KEY"
	EnvRedisAddr = "KGRAPH_REDIS_ADDR"
	EnvMongoURI  = "KGRAPH_MONGO_URI"
)

// Config is the complete file configuration.
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Server ServerConfig `toml:"server"`
	Redis  RedisConfig  `toml:"redis"`
	Mongo  MongoConfig  `toml:"mongo"`
	LLM    LLMConfig    `toml:"llm"`
}

// LayoutConfig holds relayout defaults. CLI flags and request options
// take precedence.
type LayoutConfig struct {
	BaseRadius float64 `toml:"base_radius"`
	Cutoff     int     `toml:"cutoff"`
	Concentric bool    `toml:"concentric"`
	Strict     bool    `toml:"strict"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string        `toml:"addr"`
	ReadTimeout  time.Duration `toml:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout"`
	MaxBodyBytes int64         `toml:"max_body_bytes"`
}

// RedisConfig selects a shared Redis cache. An empty Addr means the local
// file cache is used instead.
type RedisConfig struct {
	Addr     string        `toml:"addr"`
	Password string        `toml:"password"`
	DB       int           `toml:"db"`
	Prefix   string        `toml:"prefix"`
	TTL      time.Duration `toml:"ttl"`
}

// Enabled reports whether a Redis address is configured.
func (c RedisConfig) Enabled() bool { return c.Addr != "" }

// MongoConfig selects persistent graph storage. An empty URI means graphs
// are kept in memory.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Enabled reports whether a MongoDB URI is configured.
func (c MongoConfig) Enabled() bool { return c.URI != "" }

// LLMConfig configures graph extraction.
type LLMConfig struct {
	BaseURL     string        `toml:"base_url"`
	APIKey      string        `toml:"api_key"`
	Model       string        `toml:"model"`
	Temperature float32       `toml:"temperature"`
	Timeout     time.Duration `toml:"timeout"`
	CacheTTL    time.Duration `toml:"cache_ttl"`
	Attempts    int           `toml:"attempts"`
}

// Generator returns the graphgen configuration.
func (c LLMConfig) Generator() graphgen.Config {
	return graphgen.Config{
		BaseURL:     c.BaseURL,
		APIKey:      c.APIKey,
		Model:       c.Model,
		Temperature: c.Temperature,
		Timeout:     c.Timeout,
		CacheTTL:    c.CacheTTL,
		Attempts:    c.Attempts,
	}
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Layout: LayoutConfig{
			BaseRadius: radial.DefaultBaseRadius,
			Cutoff:     radial.DefaultCutoff,
		},
		Server: ServerConfig{
			Addr:         server.DefaultAddr,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 2 * time.Minute,
			MaxBodyBytes: server.DefaultMaxBodyBytes,
		},
		Redis: RedisConfig{
			Prefix: appName + ":",
			TTL:    24 * time.Hour,
		},
		Mongo: MongoConfig{
			Database:   appName,
			Collection: "graphs",
		},
		LLM: LLMConfig{
			BaseURL:  graphgen.DefaultBaseURL,
			Model:    graphgen.DefaultModel,
			Timeout:  graphgen.DefaultTimeout,
			CacheTTL: graphgen.DefaultCacheTTL,
			Attempts: 3,
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/kgraph/config.toml, falling back to
// ~/.config/kgraph/config.toml.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the config at path over [Default] and applies environment
// overrides. An empty path means [DefaultPath], which may be absent; an
// explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			cfg.ApplyEnv()
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	switch {
	case err == nil:
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return cfg, errors.New(errors.ErrCodeInvalidInput, "%s: unknown key %q", path, undecoded[0].String())
		}
	case !explicit && stderrors.Is(err, fs.ErrNotExist):
	case stderrors.Is(err, fs.ErrNotExist):
		return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
	default:
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}

	cfg.ApplyEnv()
	return cfg, cfg.Validate()
}

// ApplyEnv overrides fields from the environment.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvLLMAPIKey); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv(EnvRedisAddr); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv(EnvMongoURI); v != "" {
		c.Mongo.URI = v
	}
}

// Validate rejects values no component accepts.
func (c Config) Validate() error {
	if c.Layout.BaseRadius < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "layout.base_radius must not be negative")
	}
	if c.Layout.Cutoff < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "layout.cutoff must not be negative")
	}
	if c.Redis.DB < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "redis.db must not be negative")
	}
	if c.LLM.Attempts < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "llm.attempts must not be negative")
	}
	if err := errors.ValidateURL("llm.base_url", c.LLM.BaseURL); err != nil {
		return err
	}
	return nil
}
