package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/juicebatch/cli/internal/version"
)

func newVersionCommand() *cobra.Command {
	var full bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			info := version.Get()
			if full {
				fmt.Fprintln(cmd.OutOrStdout(), info.FullString())
				return
			}
			fmt.Fprintln(cmd.OutOrStdout(), info.String())
		},
	}

	cmd.Flags().BoolVar(&full, "full", false, "Include build details")

	return cmd
}
