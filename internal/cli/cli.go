package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/vk/gobundle/internal/app"
)

// Environment variables supplying defaults for unset flags.
const (
	EnvRoot      = "GOBUNDLE_ROOT"
	EnvLogLevel  = "GOBUNDLE_LOG_LEVEL"
	EnvLogFormat = "GOBUNDLE_LOG_FORMAT"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
//
// Unset flags fall back to the process environment, then to <root>/.env,
// then to built-in defaults.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("gobundle", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
gobundle - Bundle a contest solution and the library code it uses into one file.

Usage:
  gobundle [options] PROBLEM

Arguments:
  PROBLEM
    Problem label; the entry file defaults to cmd/PROBLEM/main.go and the
    bundle to bundled/PROBLEM.go.

Options:
`)
		flagSet.PrintDefaults()
	}

	rootFlag := flagSet.String("root", "", "Project root containing go.mod (default $"+EnvRoot+" or '.').")
	configFlag := flagSet.String("config", "", "Path to the project config (default <root>/bundle.hcl).")
	outFlag := flagSet.String("out", "", "Write the bundle here instead of the configured output path.")
	dryRunFlag := flagSet.Bool("dry-run", false, "Print the bundle to stdout instead of writing it.")
	explainFlag := flagSet.String("explain", "", "Print why an item, e.g. 'math/nt.Gcd', is part of the bundle.")
	logFormatFlag := flagSet.String("log-format", "", "Log output format. Options: 'text' or 'json' (default 'text').")
	logLevelFlag := flagSet.String("log-level", "", "Set the logging level. Options: 'debug', 'info', 'warn', 'error' (default 'info').")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	switch flagSet.NArg() {
	case 0:
		slog.Debug("No problem provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	case 1:
	default:
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("expected exactly one PROBLEM argument, got %d", flagSet.NArg())}
	}

	root := firstNonEmpty(*rootFlag, os.Getenv(EnvRoot), ".")
	dotEnv, err := readDotEnv(root)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	lookup := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return dotEnv[key]
	}

	logFormat := strings.ToLower(firstNonEmpty(*logFormatFlag, lookup(EnvLogFormat), "text"))
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(firstNonEmpty(*logLevelFlag, lookup(EnvLogLevel), "info"))
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		Problem:    flagSet.Arg(0),
		Root:       root,
		ConfigPath: *configFlag,
		OutputPath: *outFlag,
		DryRun:     *dryRunFlag,
		Explain:    *explainFlag,
		LogFormat:  logFormat,
		LogLevel:   logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

// readDotEnv reads <root>/.env without touching the process environment.
// A missing file yields no values.
func readDotEnv(root string) (map[string]string, error) {
	path := filepath.Join(root, ".env")
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return values, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
