package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/elestrals/internal/config"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration, data directories and the catalog",
		Long: "Write config.yaml if missing, create the cards, sets and series data\n" +
			"directories, and create the catalog database with its schema.",
		RunE: a.runInit,
	}
}

func (a *app) runInit(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	cfg := a.cfg
	cfg.DataDir = a.dataDir
	cfg.DBPath = a.dbPath
	written, err := config.WriteIfMissing(a.configDir, cfg)
	if err != nil {
		return err
	}
	configPath := filepath.Join(a.configDir, config.FileExt)
	if written {
		fmt.Fprintf(out, "Wrote %s\n", configPath)
	} else {
		fmt.Fprintf(out, "Kept existing %s\n", configPath)
	}

	for _, sub := range []string{"cards", "sets", "series"} {
		if err := os.MkdirAll(filepath.Join(a.dataDir, sub), 0o755); err != nil {
			return fmt.Errorf("create data directory: %w", err)
		}
	}

	store, err := a.openStore(cmd.Context())
	if err != nil {
		return err
	}
	if err := store.Close(); err != nil {
		return err
	}

	fmt.Fprintf(out, "Catalog initialized at %s\n", a.dbPath)
	return nil
}
