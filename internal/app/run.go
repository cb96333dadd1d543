package app

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/vk/gobundle/internal/config"
	"github.com/vk/gobundle/internal/ctxlog"
	"github.com/vk/gobundle/internal/itemid"
	"github.com/vk/gobundle/internal/pipeline"
	"github.com/vk/gobundle/internal/source"
)

// Run bundles one problem as described by appConfig.
func (a *App) Run(ctx context.Context, appConfig *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "problem", appConfig.Problem)

	configPath := appConfig.ConfigPath
	if configPath == "" {
		configPath = filepath.Join(appConfig.Root, config.DefaultFileName)
	}
	project, err := a.loader.Load(ctx, configPath, config.Vars{Problem: appConfig.Problem, Root: appConfig.Root})
	if err != nil {
		return &pipeline.StageError{Stage: pipeline.StageConfig, Err: err}
	}
	a.logger.Debug("Project configuration loaded.", "library", project.LibraryDir, "entry", project.EntryFile)

	output := project.OutputFile
	if appConfig.OutputPath != "" {
		output = appConfig.OutputPath
	}
	if !filepath.IsAbs(output) {
		output = filepath.Join(appConfig.Root, filepath.FromSlash(output))
	}

	req := pipeline.Request{
		Layout: source.Layout{
			Root:       appConfig.Root,
			LibraryDir: project.LibraryDir,
			EntryFile:  project.EntryFile,
		},
		OutputPath:  output,
		KeepMethods: project.KeepMethods,
		Header:      project.Header,
		DryRun:      appConfig.DryRun || appConfig.Explain != "",
	}

	a.logger.Info("🚀 Bundling problem.", "problem", appConfig.Problem, "entry", project.EntryFile)
	report, err := pipeline.Run(ctx, req)
	if err != nil {
		return err
	}

	switch {
	case appConfig.Explain != "":
		return a.explain(report, appConfig.Explain)
	case appConfig.DryRun:
		if _, err := a.outW.Write(report.Output); err != nil {
			return fmt.Errorf("writing bundle to output: %w", err)
		}
	default:
		a.logger.Info("🏁 Bundle written.", "path", report.OutputPath, "items", report.Emitted, "of", report.Items)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// explain prints the shortest reference chain that pulls raw into the
// bundle, followed by every item referring to it and every item it refers to.
func (a *App) explain(report *pipeline.Report, raw string) error {
	id, err := itemid.Parse(raw)
	if err != nil {
		return err
	}
	chain, err := report.Result.Explain(id)
	if err != nil {
		return err
	}
	referrers, err := report.Result.Graph.Referrers(id)
	if err != nil {
		return err
	}
	references, err := report.Result.Graph.References(id)
	if err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString(joinIDs(chain, " -> "))
	b.WriteByte('\n')
	if len(referrers) > 0 {
		fmt.Fprintf(&b, "  referenced by: %s\n", joinIDs(referrers, ", "))
	}
	if len(references) > 0 {
		fmt.Fprintf(&b, "  references: %s\n", joinIDs(references, ", "))
	}
	_, err = io.WriteString(a.outW, b.String())
	return err
}

func joinIDs(ids []itemid.ID, sep string) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, id.String())
	}
	return strings.Join(parts, sep)
}
