package commands

import (
	_ "embed"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/juicebatch/cli/internal/ui"
)

//go:embed guide.md
var guide string

func newGuideCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "guide",
		Short: "Show the usage guide",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ui.PrintMarkdown(guide)
		},
	}
}
