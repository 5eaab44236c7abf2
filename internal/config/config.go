// Package config loads designer settings from an optional TOML file and the
// environment. Environment variables win over the file; the file wins over
// built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Store backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

type Config struct {
	Server    Server    `toml:"server"`
	Store     Store     `toml:"store"`
	Generator Generator `toml:"generator"`
	Canvas    Canvas    `toml:"canvas"`
}

type Server struct {
	Addr       string `toml:"addr"`
	CORSOrigin string `toml:"cors_origin"`
}

type Store struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	RedisURL      string `toml:"redis_url"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

type Generator struct {
	URL      string   `toml:"url"`
	Model    string   `toml:"model"`
	Timeout  Duration `toml:"timeout"`
	CacheTTL Duration `toml:"cache_ttl"`
	// Cache is "file", "redis" or "none".
	Cache string `toml:"cache"`
}

type Canvas struct {
	Width         float64 `toml:"width"`
	Height        float64 `toml:"height"`
	SnapThreshold float64 `toml:"snap_threshold"`
}

// Duration is a time.Duration written as a string in TOML ("90s").
type Duration struct{ time.Duration }

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Server: Server{Addr: ":8790", CORSOrigin: "*"},
		Store: Store{
			Backend:       BackendFile,
			RedisURL:      "redis://localhost:6379/0",
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: "logsmart",
		},
		Generator: Generator{
			URL:      "http://127.0.0.1:11434",
			Model:    "qwen3:4b-instruct",
			Timeout:  Duration{2 * time.Minute},
			CacheTTL: Duration{24 * time.Hour},
			Cache:    "file",
		},
		Canvas: Canvas{Width: 800, Height: 600, SnapThreshold: 10},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/designer/designer.toml, falling back
// to ~/.config.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "designer", "designer.toml")
}

// Load reads path, then applies environment overrides and validates the
// result. A missing file is not an error when path is the default; an
// explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			if explicit || !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("load config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Addr = getenv("DESIGNER_ADDR", c.Server.Addr)
	c.Server.CORSOrigin = getenv("DESIGNER_CORS_ORIGIN", c.Server.CORSOrigin)

	c.Store.Backend = getenv("DESIGNER_STORE", c.Store.Backend)
	c.Store.Dir = getenv("DESIGNER_STORE_DIR", c.Store.Dir)
	c.Store.RedisURL = getenv("REDIS_URL", c.Store.RedisURL)
	c.Store.MongoURI = getenv("MONGO_URI", c.Store.MongoURI)
	c.Store.MongoDatabase = getenv("MONGO_DATABASE", c.Store.MongoDatabase)

	c.Generator.URL = getenv("OLLAMA_URL", c.Generator.URL)
	c.Generator.Model = getenv("OLLAMA_MODEL", c.Generator.Model)
	c.Generator.Timeout.Duration = getenvDuration("DESIGNER_GENERATE_TIMEOUT", c.Generator.Timeout.Duration)
	c.Generator.Cache = getenv("DESIGNER_GENERATE_CACHE", c.Generator.Cache)

	c.Canvas.Width = getenvFloat("DESIGNER_CANVAS_WIDTH", c.Canvas.Width)
	c.Canvas.Height = getenvFloat("DESIGNER_CANVAS_HEIGHT", c.Canvas.Height)
	c.Canvas.SnapThreshold = getenvFloat("DESIGNER_SNAP_THRESHOLD", c.Canvas.SnapThreshold)
}

// Validate checks that settings are usable.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendFile, BackendRedis, BackendMongo:
	default:
		return fmt.Errorf("unknown store backend %q (want memory, file, redis or mongo)", c.Store.Backend)
	}
	switch c.Generator.Cache {
	case "file", "redis", "none", "":
	default:
		return fmt.Errorf("unknown generator cache %q (want file, redis or none)", c.Generator.Cache)
	}
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("canvas size must be positive, got %gx%g", c.Canvas.Width, c.Canvas.Height)
	}
	if c.Canvas.SnapThreshold < 0 {
		return fmt.Errorf("snap threshold cannot be negative")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server addr cannot be empty")
	}
	return nil
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
