// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"

	"github.com/invowk/wirekit/internal/compiler"
	"github.com/invowk/wirekit/internal/emit"
	"github.com/invowk/wirekit/internal/graph"
	"github.com/invowk/wirekit/internal/issue"
	"github.com/invowk/wirekit/pkg/cueutil"
	"github.com/invowk/wirekit/pkg/decl"
)

const (
	// AppName is the application name.
	AppName = "wirekit"
	// ConfigFileName is the name of the config file without extension.
	ConfigFileName = "wirekit"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes environment overrides: WIREKIT_MODE, WIREKIT_OUTPUT_DIR, ...
	EnvPrefix = "WIREKIT"
)

//go:embed config_schema.cue
var configSchema []byte

// LoadOptions defines explicit configuration loading inputs.
type LoadOptions struct {
	// ConfigFilePath forces loading from a specific file when set.
	ConfigFilePath string
	// Dir is searched for wirekit.cue when no file is forced; empty means
	// the working directory.
	Dir string
}

// Load resolves the configuration and returns it with the path of the file
// it was read from, empty when only defaults and environment applied.
func Load(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := opts.ConfigFilePath
	if path == "" {
		candidate := filepath.Join(opts.Dir, ConfigFileName+"."+ConfigFileExt)
		if fileExists(candidate) {
			path = candidate
		}
	} else if !fileExists(path) {
		return nil, "", issue.NewErrorContext().
			WithOperation("load configuration").
			WithResource(path).
			WithSuggestion("Verify the file path is correct").
			WithSuggestion("Use 'wirekit config show' to see the default configuration").
			Wrap(fmt.Errorf("config file not found: %s", path)).
			BuildError()
	}

	if path != "" {
		if err := loadCUEIntoViper(v, path); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Use 'wirekit config dump' to print a valid configuration").
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}
	if ok, errs := cfg.IsValid(); !ok {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(path).
			WithSuggestion("Check WIREKIT_* environment variables for typos").
			Wrap(errs[0]).
			BuildError()
	}
	return &cfg, path, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("mode", string(d.Mode))
	v.SetDefault("output.dir", d.Output.Dir)
	v.SetDefault("output.suffix", d.Output.Suffix)
	v.SetDefault("naming.prefix", d.Naming.Prefix)
	v.SetDefault("executor.qualifier", d.Executor.Qualifier)
	v.SetDefault("log.level", string(d.Log.Level))
	v.SetDefault("log.format", string(d.Log.Format))
	v.SetDefault("warnings_as_errors", d.WarningsAsErrors)
}

// loadCUEIntoViper validates path against #Config and merges it into v.
// Unset fields are allowed, so the schema is not required to be concrete.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	result, err := cueutil.ParseAndDecode[map[string]any](configSchema, data, "#Config",
		cueutil.WithFilename(path),
		cueutil.WithConcrete(false),
	)
	if err != nil {
		return err
	}
	if err := v.MergeConfigMap(*result.Value); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// CompilerOptions maps the configuration onto compiler options.
func (c *Config) CompilerOptions(logger *log.Logger) compiler.Options {
	return compiler.Options{
		Build: graph.BuildOptions{ExecutorKey: decl.Qualified(c.Executor.Qualifier, decl.ExecutorType)},
		Emit: emit.Options{
			Mode:   c.Mode,
			Prefix: c.Naming.Prefix,
			Suffix: c.Output.Suffix,
		},
		WarningsAsErrors: c.WarningsAsErrors,
		Logger:           logger,
	}
}

// NewLogger builds the CLI logger. verbose forces debug level.
func (c *Config) NewLogger(w io.Writer, verbose bool) *log.Logger {
	level, err := log.ParseLevel(string(c.Log.Level))
	if err != nil || verbose {
		level = log.DebugLevel
	}
	formatter := log.TextFormatter
	switch c.Log.Format {
	case LogFormatJSON:
		formatter = log.JSONFormatter
	case LogFormatLogfmt:
		formatter = log.LogfmtFormatter
	}
	return log.NewWithOptions(w, log.Options{
		Prefix:    AppName,
		Level:     level,
		Formatter: formatter,
	})
}

// GenerateCUE renders cfg as a wirekit.cue file.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// wirekit configuration\n\n")
	fmt.Fprintf(&sb, "mode: %q\n", cfg.Mode)

	sb.WriteString("\noutput: {\n")
	if cfg.Output.Dir != "" {
		fmt.Fprintf(&sb, "\tdir:    %q\n", cfg.Output.Dir)
	}
	fmt.Fprintf(&sb, "\tsuffix: %q\n", cfg.Output.Suffix)
	sb.WriteString("}\n")

	sb.WriteString("\nnaming: {\n")
	fmt.Fprintf(&sb, "\tprefix: %q\n", cfg.Naming.Prefix)
	sb.WriteString("}\n")

	sb.WriteString("\nexecutor: {\n")
	fmt.Fprintf(&sb, "\tqualifier: %q\n", cfg.Executor.Qualifier)
	sb.WriteString("}\n")

	sb.WriteString("\nlog: {\n")
	fmt.Fprintf(&sb, "\tlevel:  %q\n", cfg.Log.Level)
	fmt.Fprintf(&sb, "\tformat: %q\n", cfg.Log.Format)
	sb.WriteString("}\n")

	fmt.Fprintf(&sb, "\nwarnings_as_errors: %v\n", cfg.WarningsAsErrors)
	return sb.String()
}
