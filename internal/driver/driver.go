// Package driver implements the batch compile driver: it validates input
// files, runs the external compiler over them and renames the compiler's
// suffixed outputs back to the original file names.
package driver

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/satishbabariya/juicebatch/internal/debug"
)

// Defaults used when Options leaves a field empty.
const (
	DefaultExtension    = ".rkt"
	DefaultOutputSuffix = ".mes"
)

// Options configures a Driver.
type Options struct {
	// Dir is the working directory. Empty means the process working directory.
	Dir string

	// Extension selects the sources compiled in batch mode.
	Extension string

	// OutputSuffix is what the compiler appends to each compiled file name.
	OutputSuffix string
}

func (o Options) withDefaults() Options {
	if o.Dir == "" {
		o.Dir = "."
	}
	if o.Extension == "" {
		o.Extension = DefaultExtension
	}
	if o.OutputSuffix == "" {
		o.OutputSuffix = DefaultOutputSuffix
	}
	return o
}

// Result describes one renamed compiler output.
type Result struct {
	// Input is the source path. In batch mode it is derived from the output name.
	Input string
	// Output is the file the compiler produced.
	Output string
	// Target is the name Output was renamed to. Empty if the rename did not happen.
	Target string
	// CompileErr is set when the compiler exited non-zero for this input.
	CompileErr *CompilerExitError
}

// Report summarizes a run.
type Report struct {
	Mode        Mode
	Inputs      []string
	Invocations int
	Results     []Result
}

// Driver runs the compiler over a set of files.
type Driver struct {
	fs      afero.Fs
	invoker Invoker
	opts    Options
}

// New creates a driver. fs is used for every existence check, directory scan
// and rename; invoker runs the compiler.
func New(fs afero.Fs, invoker Invoker, opts Options) *Driver {
	return &Driver{
		fs:      fs,
		invoker: invoker,
		opts:    opts.withDefaults(),
	}
}

// Run compiles files one by one, or every source in the working directory in
// a single batch invocation when files is empty.
//
// All named files are checked before anything is compiled; the first missing
// one is returned as a *MissingInputError. A compiler that exits non-zero is
// recorded in the report and does not stop the run. Any other error aborts it.
func (d *Driver) Run(ctx context.Context, files []string) (*Report, error) {
	if len(files) == 0 {
		return d.runBatch(ctx)
	}

	paths, err := d.validate(files)
	if err != nil {
		return nil, err
	}
	return d.runEach(ctx, paths)
}

func (d *Driver) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(d.opts.Dir, path)
}

func (d *Driver) validate(files []string) ([]string, error) {
	paths := make([]string, 0, len(files))
	for _, f := range files {
		p := d.resolve(f)
		ok, err := afero.Exists(d.fs, p)
		if err != nil {
			return nil, fmt.Errorf("failed to check %s: %w", f, err)
		}
		if !ok {
			debug.Warn("Input file missing", "file", f)
			return nil, &MissingInputError{Path: f}
		}
		paths = append(paths, p)
	}
	return paths, nil
}

func (d *Driver) runEach(ctx context.Context, paths []string) (*Report, error) {
	report := &Report{Mode: ModeSingle, Inputs: paths}

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		inv := Invocation{
			Mode:  ModeSingle,
			Dir:   filepath.Dir(p),
			Files: []string{filepath.Base(p)},
		}
		res := Result{Input: p, Output: p + d.opts.OutputSuffix}

		compileErr, err := d.invoke(ctx, inv)
		if err != nil {
			return report, err
		}
		report.Invocations++
		res.CompileErr = compileErr

		target, err := d.rename(res.Output)
		if err != nil {
			report.Results = append(report.Results, res)
			return report, err
		}
		res.Target = target
		report.Results = append(report.Results, res)
	}

	return report, nil
}

func (d *Driver) runBatch(ctx context.Context) (*Report, error) {
	report := &Report{Mode: ModeBatch}

	inputs, err := d.scan(d.opts.Extension)
	if err != nil {
		return nil, err
	}
	report.Inputs = inputs
	debug.Debug("Discovered sources", "dir", d.opts.Dir, "count", len(inputs))

	var compileErr *CompilerExitError
	if len(inputs) > 0 {
		names := make([]string, len(inputs))
		for i, in := range inputs {
			names[i] = filepath.Base(in)
		}
		inv := Invocation{Mode: ModeBatch, Dir: d.opts.Dir, Files: names}
		compileErr, err = d.invoke(ctx, inv)
		if err != nil {
			return report, err
		}
		report.Invocations++
	}

	if err := ctx.Err(); err != nil {
		return report, err
	}

	// Outputs are found by scanning again, not derived from inputs.
	outputs, err := d.scan(d.opts.Extension + d.opts.OutputSuffix)
	if err != nil {
		return report, err
	}
	debug.Debug("Discovered outputs", "dir", d.opts.Dir, "count", len(outputs))

	for _, out := range outputs {
		res := Result{Output: out, CompileErr: compileErr}
		target, err := d.rename(out)
		if err != nil {
			report.Results = append(report.Results, res)
			return report, err
		}
		res.Input = target
		res.Target = target
		report.Results = append(report.Results, res)
	}

	return report, nil
}

// scan lists the regular files directly in the working directory whose names
// end in suffix, sorted by name. The directory name is never treated as a
// pattern.
func (d *Driver) scan(suffix string) ([]string, error) {
	entries, err := afero.ReadDir(d.fs, d.opts.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", d.opts.Dir, err)
	}

	var paths []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || len(name) <= len(suffix) || !strings.HasSuffix(name, suffix) {
			continue
		}
		paths = append(paths, filepath.Join(d.opts.Dir, name))
	}
	return paths, nil
}

// invoke runs the compiler. A non-zero compiler exit is returned as the first
// value; everything else is fatal.
func (d *Driver) invoke(ctx context.Context, inv Invocation) (*CompilerExitError, error) {
	err := d.invoker.Invoke(ctx, inv)
	if err == nil {
		return nil, nil
	}

	var exitErr *CompilerExitError
	if errors.As(err, &exitErr) {
		debug.Warn("Compiler exited non-zero", "mode", inv.Mode, "files", inv.Files, "status", exitErr.Code)
		return exitErr, nil
	}
	return nil, err
}

// rename moves a compiler output back to its original name. An existing file
// at the target is overwritten.
func (d *Driver) rename(output string) (string, error) {
	dir, name := filepath.Split(output)
	stripped, err := StripSuffix(name, len(d.opts.OutputSuffix))
	if err != nil {
		return "", err
	}
	target := dir + stripped

	if err := d.fs.Rename(output, target); err != nil {
		return "", fmt.Errorf("failed to rename %s: %w", output, err)
	}
	debug.With("from", output).Debug("Renamed output", "to", target)
	return target, nil
}

// StripSuffix removes the last n characters of name. name must be longer than n.
func StripSuffix(name string, n int) (string, error) {
	if n < 0 || len(name) <= n {
		return "", fmt.Errorf("cannot strip %d characters from %q", n, name)
	}
	return name[:len(name)-n], nil
}
