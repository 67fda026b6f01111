// Package cli implements the elestrals command-line interface.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/elestrals/internal/config"
	"github.com/mesh-intelligence/elestrals/internal/logging"
	"github.com/mesh-intelligence/elestrals/internal/paths"
	"github.com/mesh-intelligence/elestrals/internal/sqlite"
)

// Exit codes.
const (
	exitSuccess = 0
	exitFailure = 1
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	dbPath    string
	logLevel  string
	logFormat string
	jsonMode  bool
}

// app is the state shared by one command tree: flags, then the resolved
// configuration filled in before any subcommand runs.
type app struct {
	flags rootFlags

	cfg       config.Config
	configDir string
	dataDir   string
	dbPath    string
	log       *slog.Logger
}

// NewRootCmd creates the top-level "elestrals" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "elestrals",
		Short: "Build and serve the Elestrals card catalog",
		Long: "elestrals imports card, set and series JSON files into a SQLite catalog\n" +
			"and serves the catalog over HTTP.",
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir/elestrals)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "data directory holding cards/, sets/ and series/ (default: $(CWD)/data)")
	pf.StringVar(&a.flags.dbPath, "db", "", "SQLite database path (default: $(CWD)/sqlite/elestrals_api.sqlite)")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&a.flags.logFormat, "log-format", "", "log format: text or json")
	pf.BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newImportCmd(a))
	root.AddCommand(newServeCmd(a))
	root.AddCommand(newExportCmd(a))
	root.AddCommand(newLoadCmd(a))

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(exitFailure)
	}
	os.Exit(exitSuccess)
}

// setup resolves directories and configuration with precedence
// flag > environment > config.yaml > default, then builds the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	env, err := config.ParseEnv()
	if err != nil {
		return err
	}
	if a.configDir, err = paths.ResolveConfigDir(a.flags.configDir, env.ConfigDir); err != nil {
		return err
	}
	if a.cfg, err = config.Load(a.configDir, env); err != nil {
		return err
	}
	if a.flags.logLevel != "" {
		a.cfg.Log.Level = a.flags.logLevel
	}
	if a.flags.logFormat != "" {
		a.cfg.Log.Format = a.flags.logFormat
	}

	if a.dataDir, err = paths.ResolveDataDir(a.flags.dataDir, env.DataDir, a.cfg.DataDir); err != nil {
		return err
	}
	if a.dbPath, err = paths.ResolveDBPath(a.flags.dbPath, env.DBPath, a.cfg.DBPath); err != nil {
		return err
	}

	if a.log, err = logging.New(cmd.ErrOrStderr(), a.cfg.Log.Level, a.cfg.Log.Format); err != nil {
		return err
	}
	logging.With(a.log, logging.TypeSystem).Debug("configuration resolved",
		slog.String("config_dir", a.configDir),
		slog.String("data_dir", a.dataDir),
		slog.String("db", a.dbPath),
	)
	return nil
}

// openStore opens the catalog at the resolved database path.
func (a *app) openStore(ctx context.Context) (*sqlite.Store, error) {
	store, err := sqlite.Open(ctx, a.dbPath)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	return store, nil
}

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
