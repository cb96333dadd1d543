package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vk/gobundle/internal/app"
	"github.com/vk/gobundle/internal/cli"
	"github.com/vk/gobundle/internal/hcl_adapter"
)

// main is the entrypoint for the gobundle application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// The real main function handles errors and exit codes.
	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, "gobundle:", err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error
// handling. Bundles and explanations go to outW, usage and logs to errW.
func run(outW, errW io.Writer, args []string) error {
	appConfig, shouldExit, err := cli.Parse(args, errW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	loader := hcl_adapter.NewLoader()
	gobundleApp := app.NewApp(outW, errW, appConfig, loader)

	return gobundleApp.Run(context.Background(), appConfig)
}
