// Package commands implements the juicebatch CLI.
package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/juicebatch/cli/internal/config"
	"github.com/satishbabariya/juicebatch/cli/internal/ui"
	"github.com/satishbabariya/juicebatch/cli/internal/version"
	"github.com/satishbabariya/juicebatch/internal/debug"
	"github.com/satishbabariya/juicebatch/internal/driver"
)

// Exit statuses.
const (
	ExitOK = 0
	// ExitFailure is used for any propagated error.
	ExitFailure = 1
	// ExitMissingInput is -1 as an unsigned status.
	ExitMissingInput = 255
)

type rootOptions struct {
	dir     string
	from    string
	summary bool

	cfg *config.Config
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "juicebatch [file...]",
		Short: "Batch-compile files with the juice compiler",
		Long: `juicebatch runs the juice compiler over a set of files and renames
each compiled output (<name>.mes) back to <name>.

With file arguments every file must exist; nothing is compiled otherwise.
Each file is compiled on its own with 'juice -c -f <file>'.

Without arguments every *.rkt file in the working directory is compiled by a
single 'juice -c <files...>' run, then every *.rkt.mes file is renamed.

Input files named like a subcommand (init, guide, version, help) must be
passed after '--', e.g. 'juicebatch -- version'.`,
		Example: `  juicebatch
  juicebatch main.rkt util.rkt
  juicebatch --from build.list --summary
  juicebatch -C examples --compiler /opt/juice/juice
  juicebatch -- version init.rkt`,
		Version:       version.Get().Version,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(cmd, opts)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd, opts, args)
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.dir, "dir", "C", ".", "Run as if started in this directory")
	pf.Bool("debug", false, "Enable debug logging")

	f := cmd.Flags()
	f.String("compiler", "", "Path to the juice compiler (default ../juice)")
	f.String("ext", "", "Source extension compiled when no files are given (default .rkt)")
	f.String("suffix", "", "Suffix the compiler appends to its outputs (default .mes)")
	f.StringVar(&opts.from, "from", "", "Read input paths from a list file")
	f.BoolVar(&opts.summary, "summary", false, "Print a summary table after the run")

	cmd.AddCommand(newInitCommand(opts))
	cmd.AddCommand(newGuideCommand())
	cmd.AddCommand(newVersionCommand())

	return cmd
}

// Execute runs the CLI with os.Args.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// ExitStatus reports err to the user and returns the process exit status.
func ExitStatus(err error) int {
	if err == nil {
		return ExitOK
	}

	var missing *driver.MissingInputError
	if errors.As(err, &missing) {
		ui.PrintWarning("%v", err)
		return ExitMissingInput
	}

	debug.Error("Run failed", "error", err)
	ui.PrintError("%v", err)
	return ExitFailure
}
