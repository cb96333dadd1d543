package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/vk/gobundle/internal/config"
	"github.com/vk/gobundle/internal/ctxlog"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	loader config.Loader
}

// NewApp is the constructor for the main application. Bundles and
// explanations go to outW; logs go to logW through an isolated logger.
func NewApp(outW, logW io.Writer, appConfig *Config, loader config.Loader) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	ctxlog.FromContext(ctx).Debug("Logger configured successfully.")

	return &App{
		outW:   outW,
		logger: logger,
		loader: loader,
	}
}
