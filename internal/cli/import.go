package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/elestrals/internal/importer"
)

func newImportCmd(a *app) *cobra.Command {
	var (
		dryRun    bool
		cacheSize int
	)
	cmd := &cobra.Command{
		Use:   "import [dataPath]",
		Short: "Import card JSON files into the catalog",
		Long: "Import every <dataPath>/cards/*.json file into the catalog. Sets and series\n" +
			"are read from <dataPath>/sets and <dataPath>/series when present.\n" +
			"dataPath defaults to the data directory. Files that fail are reported and\n" +
			"skipped; the command fails only when the run cannot proceed.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dataPath := a.dataDir
			if len(args) == 1 {
				abs, err := filepath.Abs(args[0])
				if err != nil {
					return err
				}
				dataPath = abs
			}
			if cacheSize <= 0 {
				cacheSize = a.cfg.Import.CacheSize
			}

			store, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			im, err := importer.New(store, importer.Options{
				Logger:        a.log,
				CacheSize:     cacheSize,
				ProgressEvery: a.cfg.Import.ProgressEvery,
				DryRun:        dryRun,
			})
			if err != nil {
				return err
			}
			sum, err := im.Run(cmd.Context(), dataPath)
			if err != nil {
				return err
			}

			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), sum)
			}
			verb := "Imported"
			if sum.DryRun {
				verb = "Dry run: would import"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d of %d cards (%d failed) in %s\n",
				verb, sum.Imported, sum.Found, sum.Failed, sum.Duration.Round(time.Millisecond))
			for _, f := range sum.FailedFiles {
				fmt.Fprintf(cmd.OutOrStdout(), "  failed: %s\n", f)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate and process every card, then roll back")
	cmd.Flags().IntVar(&cacheSize, "cache-size", 0, "entries per lookup cache (default from config)")
	return cmd
}
