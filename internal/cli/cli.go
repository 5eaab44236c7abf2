// Package cli implements the designer command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/logsmart/designer/internal/config"
	"github.com/logsmart/designer/pkg/buildinfo"
	"github.com/logsmart/designer/pkg/cache"
	"github.com/logsmart/designer/pkg/canvas"
	"github.com/logsmart/designer/pkg/generate"
	"github.com/logsmart/designer/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "designer"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Designer lays out log templates on a snapping canvas",
		Long: `Designer edits the form layout of recurring log templates. It serves the
canvas, alignment and version history API used by the web designer and
offers offline tools for inspecting and restoring saved versions.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/designer/designer.toml)")

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.versionsCommand())
	root.AddCommand(c.restoreCommand())
	root.AddCommand(c.snapCommand())
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Factories
// =============================================================================

func (c *CLI) loadConfig() (config.Config, error) {
	return config.Load(c.configPath)
}

// openStore opens the template store selected by cfg.
func openStore(ctx context.Context, cfg config.Store) (store.Store, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return store.NewMemoryStore(), nil
	case config.BackendFile:
		return store.NewFileStore(cfg.Dir)
	case config.BackendRedis:
		return store.NewRedisStore(ctx, cfg.RedisURL)
	case config.BackendMongo:
		return store.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

// newCache opens the generation cache selected by cfg.
func newCache(ctx context.Context, cfg config.Config) (cache.Cache, error) {
	switch cfg.Generator.Cache {
	case "", "none":
		return cache.NewNullCache(), nil
	case "redis":
		return cache.NewRedisCache(ctx, cfg.Store.RedisURL)
	default:
		dir, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	}
}

// newGenerator builds the Ollama client wrapped in the configured cache. The
// returned cache must be closed by the caller.
func newGenerator(ctx context.Context, cfg config.Config, logger *log.Logger) (*generate.Cached, cache.Cache, error) {
	client := generate.NewClient(
		generate.WithURL(cfg.Generator.URL),
		generate.WithModel(cfg.Generator.Model),
		generate.WithTimeout(cfg.Generator.Timeout.Duration),
		generate.WithLogger(logger),
		generate.WithCanvas(cfg.Canvas.Width, cfg.Canvas.Height),
		generate.WithCatalog(canvas.DefaultCatalog()),
	)
	c, err := newCache(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open generation cache: %w", err)
	}
	return generate.NewCached(client, c, nil, cfg.Generator.CacheTTL.Duration), c, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/designer/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
