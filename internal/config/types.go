// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/invowk/wirekit/internal/emit"
)

const (
	// LogLevelDebug logs compiler phases and producer events.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo logs generated files.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn logs warnings only.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError logs errors only.
	LogLevelError LogLevel = "error"

	// LogFormatText is the human-readable format.
	LogFormatText LogFormat = "text"
	// LogFormatJSON emits one JSON object per line.
	LogFormatJSON LogFormat = "json"
	// LogFormatLogfmt emits key=value pairs.
	LogFormatLogfmt LogFormat = "logfmt"
)

var (
	// ErrInvalidLogLevel is the sentinel error wrapped by InvalidLogLevelError.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidLogFormat is the sentinel error wrapped by InvalidLogFormatError.
	ErrInvalidLogFormat = errors.New("invalid log format")
	// ErrInvalidOutput is the sentinel error wrapped by InvalidOutputError.
	ErrInvalidOutput = errors.New("invalid output config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// LogLevel is the minimum level the CLI logs at.
	LogLevel string

	// InvalidLogLevelError is returned when a LogLevel value is not recognized.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// LogFormat selects the log formatter.
	LogFormat string

	// InvalidLogFormatError is returned when a LogFormat value is not recognized.
	InvalidLogFormatError struct {
		Value LogFormat
	}

	// OutputConfig controls where generated files go.
	OutputConfig struct {
		// Dir is the output directory; empty writes next to the first declaration file.
		Dir string `json:"dir" mapstructure:"dir"`
		// Suffix is appended to the snake-cased component name.
		Suffix string `json:"suffix" mapstructure:"suffix"`
	}

	// InvalidOutputError is returned when OutputConfig fails validation.
	InvalidOutputError struct {
		Reason string
	}

	// NamingConfig controls generated type names.
	NamingConfig struct {
		// Prefix is prepended to the component name, e.g. "Wired" gives WiredApp.
		Prefix string `json:"prefix" mapstructure:"prefix"`
	}

	// ExecutorConfig selects the executor binding producers run on.
	ExecutorConfig struct {
		Qualifier string `json:"qualifier" mapstructure:"qualifier"`
	}

	// LogConfig configures CLI logging.
	LogConfig struct {
		Level  LogLevel  `json:"level" mapstructure:"level"`
		Format LogFormat `json:"format" mapstructure:"format"`
	}

	// Config is the complete wirekit configuration.
	Config struct {
		Mode             emit.Mode      `json:"mode" mapstructure:"mode"`
		Output           OutputConfig   `json:"output" mapstructure:"output"`
		Naming           NamingConfig   `json:"naming" mapstructure:"naming"`
		Executor         ExecutorConfig `json:"executor" mapstructure:"executor"`
		Log              LogConfig      `json:"log" mapstructure:"log"`
		WarningsAsErrors bool           `json:"warnings_as_errors" mapstructure:"warnings_as_errors"`
	}

	// InvalidConfigError collects every field error of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}
)

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Mode:     emit.ModeDefault,
		Output:   OutputConfig{Suffix: "_wire.go"},
		Naming:   NamingConfig{Prefix: "Wired"},
		Executor: ExecutorConfig{Qualifier: "production"},
		Log:      LogConfig{Level: LogLevelWarn, Format: LogFormatText},
	}
}

// IsValid returns whether l is a known level, with the validation errors.
func (l LogLevel) IsValid() (bool, []error) {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true, nil
	default:
		return false, []error{&InvalidLogLevelError{Value: l}}
	}
}

func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

// Unwrap returns ErrInvalidLogLevel for errors.Is() compatibility.
func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }

// IsValid returns whether f is a known format, with the validation errors.
func (f LogFormat) IsValid() (bool, []error) {
	switch f {
	case LogFormatText, LogFormatJSON, LogFormatLogfmt:
		return true, nil
	default:
		return false, []error{&InvalidLogFormatError{Value: f}}
	}
}

func (e *InvalidLogFormatError) Error() string {
	return fmt.Sprintf("invalid log format %q (valid: text, json, logfmt)", e.Value)
}

// Unwrap returns ErrInvalidLogFormat for errors.Is() compatibility.
func (e *InvalidLogFormatError) Unwrap() error { return ErrInvalidLogFormat }

// IsValid checks the output settings.
func (c OutputConfig) IsValid() (bool, []error) {
	if !strings.HasSuffix(c.Suffix, ".go") {
		return false, []error{&InvalidOutputError{Reason: fmt.Sprintf("suffix %q must end in .go", c.Suffix)}}
	}
	return true, nil
}

func (e *InvalidOutputError) Error() string { return "invalid output config: " + e.Reason }

// Unwrap returns ErrInvalidOutput for errors.Is() compatibility.
func (e *InvalidOutputError) Unwrap() error { return ErrInvalidOutput }

// IsValid validates every field and returns all errors found.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if ok, fieldErrs := c.Mode.IsValid(); !ok {
		errs = append(errs, fieldErrs...)
	}
	if ok, fieldErrs := c.Output.IsValid(); !ok {
		errs = append(errs, fieldErrs...)
	}
	if ok, fieldErrs := c.Log.Level.IsValid(); !ok {
		errs = append(errs, fieldErrs...)
	}
	if ok, fieldErrs := c.Log.Format.IsValid(); !ok {
		errs = append(errs, fieldErrs...)
	}
	if strings.TrimSpace(c.Executor.Qualifier) == "" {
		errs = append(errs, errors.New("executor qualifier must not be empty"))
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

// Unwrap returns ErrInvalidConfig followed by the field errors, so errors.Is
// matches both the config sentinel and each field's sentinel.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}
