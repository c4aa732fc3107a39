package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var AppFs = afero.NewOsFs()

const (
	// FileName is the config file name without extension.
	FileName = ".juicebatch"
	// EnvPrefix prefixes every environment override, e.g. JUICEBATCH_COMPILER.
	EnvPrefix = "JUICEBATCH"
)

// Config holds the application configuration
type Config struct {
	Compiler        string
	Extension       string
	OutputSuffix    string
	RequiredVersion string
	Debug           bool

	// File is the config file that was read, empty if none was found.
	File string
}

// flag name -> config key
var flagKeys = map[string]string{
	"compiler": "compiler",
	"ext":      "extension",
	"suffix":   "output_suffix",
	"debug":    "debug",
}

// Load loads configuration from, lowest priority first: defaults, the config
// file, .env files, environment variables and changed command-line flags.
func Load(fs afero.Fs, dir string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetFs(fs)

	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
		v.AddConfigPath(filepath.Join(home, ".config", "juicebatch"))
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	// The compiler lives one directory above the working directory.
	v.SetDefault("compiler", filepath.Join("..", "juice"))
	v.SetDefault("extension", ".rkt")
	v.SetDefault("output_suffix", ".mes")
	v.SetDefault("required_version", "")
	v.SetDefault("debug", false)

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := loadEnvFile(fs, filepath.Join(dir, ".env"), false); err != nil {
		return nil, err
	}
	// .env.local has higher priority
	if err := loadEnvFile(fs, filepath.Join(dir, ".env.local"), true); err != nil {
		return nil, err
	}

	return &Config{
		Compiler:        v.GetString("compiler"),
		Extension:       v.GetString("extension"),
		OutputSuffix:    v.GetString("output_suffix"),
		RequiredVersion: v.GetString("required_version"),
		Debug:           v.GetBool("debug"),
		File:            v.ConfigFileUsed(),
	}, nil
}

// loadEnvFile exports the variables of a dotenv file. Unless override is set,
// variables already present in the environment win.
func loadEnvFile(fs afero.Fs, path string, override bool) error {
	f, err := fs.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	vars, err := godotenv.Parse(f)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	for key, value := range vars {
		if _, set := os.LookupEnv(key); set && !override {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}
	return nil
}

// SaveConfig writes cfg to path. It refuses to overwrite an existing file.
func SaveConfig(fs afero.Fs, path string, cfg *Config) error {
	v := viper.New()
	v.SetFs(fs)

	v.Set("compiler", cfg.Compiler)
	v.Set("extension", cfg.Extension)
	v.Set("output_suffix", cfg.OutputSuffix)
	if cfg.RequiredVersion != "" {
		v.Set("required_version", cfg.RequiredVersion)
	}
	if cfg.Debug {
		v.Set("debug", true)
	}

	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := v.SafeWriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
