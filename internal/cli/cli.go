// Package cli implements the dyntrees command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ferreusveritas/dynamictrees/pkg/buildinfo"
	"github.com/ferreusveritas/dynamictrees/pkg/cache"
	"github.com/ferreusveritas/dynamictrees/pkg/config"
	"github.com/ferreusveritas/dynamictrees/pkg/errors"
	dtio "github.com/ferreusveritas/dynamictrees/pkg/io"
	"github.com/ferreusveritas/dynamictrees/pkg/voxel"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "dyntrees"
)

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

	// configPath is the --config flag; empty selects the built-in configuration.
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
		Use:          appName,
		Short:        "dyntrees analyzes and grows voxel tree networks",
		Long:         `dyntrees walks the branch networks of voxel trees: it finds roots, maps endpoints, ticks leaf clusters and places growth features such as vines.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "tree configuration file (.toml, .yaml); built-in when empty")

	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.growCommand())
	root.AddCommand(c.networkCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// registries loads the tree configuration named by --config and builds it.
func (c *CLI) registries() (*config.Registries, error) {
	cfg := config.Default()
	if c.configPath != "" {
		loaded, err := config.Load(c.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
		c.Logger.Debug("loaded config", "path", c.configPath,
			"families", len(cfg.Families), "species", len(cfg.Species))
	}
	return cfg.Build(nil)
}

// loadScene reads a scene file and builds the configured registries.
func (c *CLI) loadScene(path string) (*dtio.Scene, *config.Registries, error) {
	reg, err := c.registries()
	if err != nil {
		return nil, nil, err
	}
	scene, err := dtio.ImportScene(path)
	if err != nil {
		return nil, nil, err
	}
	c.Logger.Debug("loaded scene", "path", path, "voxels", len(scene.Voxels), "trees", len(scene.Trees))
	return scene, reg, nil
}

// =============================================================================
// Cache
// =============================================================================

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the cache directory using XDG standard (~/.cache/dyntrees/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return cache.DefaultDir()
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Argument Helpers
// =============================================================================

// parseCoords parses "x,y,z" arguments.
func parseCoords(args []string) ([]voxel.Coord, error) {
	out := make([]voxel.Coord, 0, len(args))
	for _, a := range args {
		c, err := voxel.ParseCoord(a)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse coordinate")
		}
		out = append(out, c)
	}
	return out, nil
}

// startsFor returns the coordinates given on the command line, or the scene's
// tree list when none are given.
func startsFor(scene *dtio.Scene, args []string) ([]voxel.Coord, error) {
	if len(args) > 0 {
		return parseCoords(args)
	}
	if len(scene.Trees) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "scene lists no trees; pass coordinates as x,y,z")
	}
	return scene.TreeCoords(), nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{formatSVG}
	}
	return strings.Split(s, ",")
}
