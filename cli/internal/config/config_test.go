package config

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"
)

func newFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("compiler", "", "")
	flags.String("ext", "", "")
	flags.String("suffix", "", "")
	flags.Bool("debug", false, "")
	return flags
}

func TestLoad_Defaults(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := fs.MkdirAll("/proj", 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}

	cfg, err := Load(fs, "/proj", nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Compiler != "../juice" {
		t.Errorf("Compiler = %q, want ../juice", cfg.Compiler)
	}
	if cfg.Extension != ".rkt" || cfg.OutputSuffix != ".mes" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.File != "" {
		t.Errorf("File = %q, want none", cfg.File)
	}
}

func TestLoad_ConfigFileEnvAndFlags(t *testing.T) {
	fs := afero.NewMemMapFs()
	content := "compiler: /opt/juice/bin/juice\nextension: .jb\nrequired_version: \">= 0.1\"\n"
	if err := afero.WriteFile(fs, "/proj/.juicebatch.yaml", []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	t.Setenv("JUICEBATCH_OUTPUT_SUFFIX", ".out")

	flags := newFlags()
	if err := flags.Parse([]string{"--ext", ".scm"}); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	cfg, err := Load(fs, "/proj", flags)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Compiler != "/opt/juice/bin/juice" {
		t.Errorf("Compiler = %q, want value from config file", cfg.Compiler)
	}
	if cfg.Extension != ".scm" {
		t.Errorf("Extension = %q, want flag value", cfg.Extension)
	}
	if cfg.OutputSuffix != ".out" {
		t.Errorf("OutputSuffix = %q, want env value", cfg.OutputSuffix)
	}
	if cfg.RequiredVersion != ">= 0.1" {
		t.Errorf("RequiredVersion = %q", cfg.RequiredVersion)
	}
	if !strings.HasSuffix(cfg.File, ".juicebatch.yaml") {
		t.Errorf("File = %q", cfg.File)
	}
}

func TestLoad_EnvLocalOverrides(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/proj/.env", []byte("JUICEBATCH_EXTENSION=.env-ext\n"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := afero.WriteFile(fs, "/proj/.env.local", []byte("JUICEBATCH_EXTENSION=.local-ext\n"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	// Registers cleanup so the dotenv values do not leak into other tests.
	t.Setenv("JUICEBATCH_EXTENSION", ".process-ext")

	cfg, err := Load(fs, "/proj", nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Extension != ".local-ext" {
		t.Errorf("Extension = %q, want .env.local value", cfg.Extension)
	}
}

func TestLoad_InvalidConfigFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/proj/.juicebatch.yaml", []byte("compiler: [unclosed\n"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if _, err := Load(fs, "/proj", nil); err == nil {
		t.Error("Expected error for malformed config file")
	}
}

func TestSaveConfig(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg := &Config{Compiler: "../juice", Extension: ".rkt", OutputSuffix: ".mes"}

	if err := SaveConfig(fs, "/proj/.juicebatch.yaml", cfg); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := Load(fs, "/proj", nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Compiler != cfg.Compiler || loaded.Extension != cfg.Extension {
		t.Errorf("loaded %+v, want %+v", loaded, cfg)
	}

	if err := SaveConfig(fs, "/proj/.juicebatch.yaml", cfg); err == nil {
		t.Error("Expected SaveConfig to refuse overwriting")
	}
}
