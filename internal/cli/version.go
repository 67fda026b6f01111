package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the elestrals release.
const Version = "0.1.0"

const modulePath = "github.com/mesh-intelligence/elestrals"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the elestrals version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "elestrals v%s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}
