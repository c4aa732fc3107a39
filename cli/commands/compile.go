package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/juicebatch/cli/internal/config"
	"github.com/satishbabariya/juicebatch/cli/internal/ui"
	"github.com/satishbabariya/juicebatch/cli/internal/version"
	"github.com/satishbabariya/juicebatch/internal/debug"
	"github.com/satishbabariya/juicebatch/internal/driver"
	"github.com/satishbabariya/juicebatch/internal/listfile"
)

// newInvoker creates the compiler invoker. Replaced in tests.
var newInvoker = func(path string) (driver.Invoker, error) {
	return driver.NewExecInvoker(path)
}

// loadConfig reads the configuration for opts.dir and sets up debug logging.
// It runs before every command.
func loadConfig(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := config.Load(config.AppFs, opts.dir, cmd.Flags())
	if err != nil {
		return err
	}
	debug.Init(cfg.Debug)
	debug.Debug("Loaded config", "command", cmd.Name(), "file", cfg.File, "compiler", cfg.Compiler, "extension", cfg.Extension)

	opts.cfg = cfg
	return nil
}

func runCompile(cmd *cobra.Command, opts *rootOptions, args []string) error {
	cfg := opts.cfg

	if err := version.Check(cfg.RequiredVersion); err != nil {
		return err
	}

	files := args
	if opts.from != "" {
		listed, err := listfile.ParseFile(config.AppFs, inDir(opts.dir, opts.from))
		if err != nil {
			return err
		}
		if len(listed) == 0 {
			return fmt.Errorf("list file %s has no entries", opts.from)
		}
		files = append(append([]string{}, args...), listed...)
	}

	invoker, err := newInvoker(inDir(opts.dir, cfg.Compiler))
	if err != nil {
		return err
	}

	total := len(files)
	if total == 0 {
		total = 1
	}
	progress := &progressInvoker{next: invoker, total: total}

	d := driver.New(config.AppFs, progress, driver.Options{
		Dir:          opts.dir,
		Extension:    cfg.Extension,
		OutputSuffix: cfg.OutputSuffix,
	})

	report, err := d.Run(cmd.Context(), files)
	if report != nil {
		debug.Info("Run finished", "mode", report.Mode, "invocations", report.Invocations, "renamed", countRenamed(report))
	}
	if report != nil {
		if perr := printReport(report, opts.summary); perr != nil && err == nil {
			err = perr
		}
	}
	return err
}

func inDir(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// progressInvoker prints a step line before each compiler run.
type progressInvoker struct {
	next  driver.Invoker
	total int
	step  int
}

func (p *progressInvoker) Invoke(ctx context.Context, inv driver.Invocation) error {
	p.step++
	label := ui.ModeLabel(inv.Mode.String())
	ui.PrintStep(p.step, p.total, fmt.Sprintf("%s juice %s", label, strings.Join(inv.Args(), " ")))
	return p.next.Invoke(ctx, inv)
}

func printReport(report *driver.Report, summary bool) error {
	failed := 0
	for _, res := range report.Results {
		if res.CompileErr != nil {
			failed++
		}
	}
	if report.Mode == driver.ModeBatch && len(report.Inputs) == 0 {
		ui.PrintInfo("No source files found")
	}
	if failed > 0 {
		ui.PrintWarning("Compiler exited with an error for %d output(s)", failed)
	}
	ui.PrintSuccess("Renamed %d output(s) after %d compiler run(s)", countRenamed(report), report.Invocations)

	if !summary || len(report.Results) == 0 {
		return nil
	}

	rows := make([][]string, 0, len(report.Results))
	for _, res := range report.Results {
		status := "ok"
		if res.CompileErr != nil {
			status = fmt.Sprintf("exit %d", res.CompileErr.Code)
		}
		if res.Target == "" {
			status += ", not renamed"
		}
		rows = append(rows, []string{res.Input, res.Output, res.Target, status})
	}
	return ui.PrintTable([]string{"Input", "Output", "Renamed To", "Status"}, rows)
}

func countRenamed(report *driver.Report) int {
	n := 0
	for _, res := range report.Results {
		if res.Target != "" {
			n++
		}
	}
	return n
}
