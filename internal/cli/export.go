package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"
)

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <dir>",
		Short: "Write every catalog table to <dir>/<table>.jsonl",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			counts, err := store.ExportJSONL(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.printCounts(cmd.OutOrStdout(), "Exported", counts)
		},
	}
}

func newLoadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "load <dir>",
		Short: "Load <dir>/<table>.jsonl files into an empty catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			counts, err := store.LoadJSONL(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.printCounts(cmd.OutOrStdout(), "Loaded", counts)
		},
	}
}

// printCounts reports per-table row counts in table name order.
func (a *app) printCounts(w io.Writer, verb string, counts map[string]int) error {
	if a.flags.jsonMode {
		return writeJSON(w, counts)
	}
	tables := make([]string, 0, len(counts))
	for t := range counts {
		tables = append(tables, t)
	}
	sort.Strings(tables)
	for _, t := range tables {
		fmt.Fprintf(w, "%s %d %s\n", verb, counts[t], t)
	}
	return nil
}
