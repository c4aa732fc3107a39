package commands

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/juicebatch/cli/internal/config"
	"github.com/satishbabariya/juicebatch/cli/internal/ui"
	"github.com/satishbabariya/juicebatch/internal/debug"
)

// ask prompts the user. Replaced in tests.
var ask = func(qs []*survey.Question, response interface{}) error {
	return survey.Ask(qs, response)
}

type initAnswers struct {
	Compiler  string `survey:"compiler"`
	Extension string `survey:"extension"`
}

func newInitCommand(opts *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a .juicebatch.yaml config file",
		Long: `Create a .juicebatch.yaml config file in the working directory.

You are asked for the compiler path and the source extension unless --yes is
given, in which case the defaults are written. An existing config file is
never overwritten.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(opts.dir, yes)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Write the defaults without prompting")

	return cmd
}

func runInit(dir string, yes bool) error {
	path := filepath.Join(dir, config.FileName+".yaml")
	if exists, err := afero.Exists(config.AppFs, path); err != nil {
		return fmt.Errorf("failed to check %s: %w", path, err)
	} else if exists {
		return fmt.Errorf("config file already exists: %s", path)
	}

	answers := initAnswers{
		Compiler:  filepath.Join("..", "juice"),
		Extension: ".rkt",
	}

	if !yes {
		qs := []*survey.Question{
			{
				Name:     "compiler",
				Prompt:   &survey.Input{Message: "Compiler path:", Default: answers.Compiler},
				Validate: survey.Required,
			},
			{
				Name:     "extension",
				Prompt:   &survey.Input{Message: "Source extension:", Default: answers.Extension},
				Validate: validateExtension,
			},
		}
		if err := ask(qs, &answers); err != nil {
			return fmt.Errorf("prompt failed: %w", err)
		}
	}

	cfg := &config.Config{
		Compiler:     answers.Compiler,
		Extension:    answers.Extension,
		OutputSuffix: ".mes",
	}
	debug.Debug("Writing config", "path", path, "compiler", cfg.Compiler, "extension", cfg.Extension)
	if err := config.SaveConfig(config.AppFs, path, cfg); err != nil {
		return err
	}

	ui.PrintSuccess("Created %s", path)
	return nil
}

func validateExtension(ans interface{}) error {
	s, ok := ans.(string)
	if !ok {
		return errors.New("extension must be text")
	}
	if !strings.HasPrefix(s, ".") || len(s) < 2 {
		return fmt.Errorf("extension must start with a dot, got %q", s)
	}
	return nil
}
