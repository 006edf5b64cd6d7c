package commands

import (
	"fmt"
	"os"

	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
)

// defaultConfigFile is looked up in the working directory when no --config
// flag is given.
const defaultConfigFile = "oasguard.yaml"

// Config holds the check settings merged from the config file and flags.
// Flags take precedence over the file.
type Config struct {
	Spec        string `koanf:"spec"`
	Strict      bool   `koanf:"strict"`
	NoWarnings  bool   `koanf:"no-warnings"`
	MaxBodySize int64  `koanf:"max-body-size"`
	Format      string `koanf:"format"`
}

// BindCheckFlags binds the check settings as flags.
func BindCheckFlags(cmd *cobra.Command) {
	flags := cmd.Flags()

	flags.StringP("spec", "s", "", "OpenAPI spec file path")
	flags.Bool("strict", false, "Reject undeclared query parameters")
	flags.Bool("no-warnings", false, "Suppress advisory warnings")
	flags.Int64("max-body-size", 0, "Maximum body size in bytes (default 10 MiB)")
	flags.StringP("format", "f", FormatText, "Output format: text, json, yaml")
}

// LoadConfig merges the config file (if any) with command flags.
func LoadConfig(cmd *cobra.Command) (*Config, error) {
	k := koanf.New(".")

	configFile, _ := cmd.Flags().GetString("config")
	if configFile == "" {
		configFile, _ = cmd.InheritedFlags().GetString("config")
	}
	if configFile == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			configFile = defaultConfigFile
		}
	}

	if configFile != "" {
		if err := k.Load(file.Provider(configFile), kyaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	flagsMap := buildFlagsMap(cmd)
	if len(flagsMap) > 0 {
		if err := k.Load(confmap.Provider(flagsMap, "."), nil); err != nil {
			return nil, fmt.Errorf("loading flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if cfg.Format == "" {
		cfg.Format = FormatText
	}
	if err := ValidateOutputFormat(cfg.Format); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// buildFlagsMap collects flags the user set explicitly, so they override
// the config file.
func buildFlagsMap(cmd *cobra.Command) map[string]any {
	m := make(map[string]any)

	if v, err := cmd.Flags().GetString("spec"); err == nil && v != "" {
		m["spec"] = v
	}
	if cmd.Flags().Changed("strict") {
		v, _ := cmd.Flags().GetBool("strict")
		m["strict"] = v
	}
	if cmd.Flags().Changed("no-warnings") {
		v, _ := cmd.Flags().GetBool("no-warnings")
		m["no-warnings"] = v
	}
	if cmd.Flags().Changed("max-body-size") {
		v, _ := cmd.Flags().GetInt64("max-body-size")
		m["max-body-size"] = v
	}
	if cmd.Flags().Changed("format") {
		v, _ := cmd.Flags().GetString("format")
		m["format"] = v
	}

	return m
}
