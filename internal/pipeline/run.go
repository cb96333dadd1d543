package pipeline

import (
	"context"
	"errors"

	"github.com/vk/gobundle/internal/ctxlog"
	"github.com/vk/gobundle/internal/emit"
	"github.com/vk/gobundle/internal/flatten"
	"github.com/vk/gobundle/internal/modgraph"
	"github.com/vk/gobundle/internal/reach"
	"github.com/vk/gobundle/internal/source"
)

// Request describes one bundling run.
type Request struct {
	Layout source.Layout
	// OutputPath is where the bundle is written. It is ignored in dry runs.
	OutputPath string
	// KeepMethods are retained on every reachable type in addition to the
	// methods reach.CapabilityMethods releases.
	KeepMethods []string
	Header      string
	// DryRun renders the bundle into the report without writing it.
	DryRun bool
}

// Report summarises a run. On failure it holds whatever the completed
// stages produced.
type Report struct {
	State State
	// History lists every state the run entered, in order.
	History []State

	Files     int
	Modules   int
	Items     int
	Reachable int
	Emitted   int

	OutputPath string
	Output     []byte

	Result *reach.Result
	Plan   *flatten.Plan
}

func (r *Report) enter(s State) {
	r.State = s
	r.History = append(r.History, s)
}

func (r *Report) fail(stage string, err error) error {
	r.enter(StateFailed)
	return &StageError{Stage: stage, Err: err}
}

// Run executes the pipeline for req.
func Run(ctx context.Context, req Request) (*Report, error) {
	logger := ctxlog.FromContext(ctx)
	report := &Report{}
	report.enter(StateIdle)

	if req.OutputPath == "" && !req.DryRun {
		return report, report.fail(StageEmit, errors.New("no output path given"))
	}
	snap, err := source.Load(ctxlog.WithStage(ctx, StageLoad), req.Layout)
	if err != nil {
		return report, report.fail(StageLoad, err)
	}
	report.Files = len(snap.Library) + 1
	report.enter(StateLoaded)

	tree, err := modgraph.Build(ctxlog.WithStage(ctx, StageGraph), snap)
	if err != nil {
		return report, report.fail(StageGraph, err)
	}
	report.Modules = len(tree.Modules())
	report.Items = tree.ItemCount()
	report.enter(StateGraphBuilt)

	res, err := reach.Walk(ctxlog.WithStage(ctx, StageReach), tree, reach.Options{KeepMethods: req.KeepMethods})
	if err != nil {
		return report, report.fail(StageReach, err)
	}
	report.Result = res
	report.Reachable = res.Set.Len()
	report.enter(StateReachabilityComputed)

	plan, err := flatten.Flatten(ctxlog.WithStage(ctx, StageFlatten), tree, res)
	if err != nil {
		return report, report.fail(StageFlatten, err)
	}
	report.Plan = plan
	report.Emitted = plan.Len()
	report.enter(StateFlattened)

	emitCtx := ctxlog.WithStage(ctx, StageEmit)
	out, err := emit.Render(emitCtx, plan, req.Header)
	if err != nil {
		return report, report.fail(StageEmit, err)
	}
	report.Output = out
	if !req.DryRun {
		if err := emit.Write(emitCtx, req.OutputPath, out); err != nil {
			return report, report.fail(StageEmit, err)
		}
		report.OutputPath = req.OutputPath
	}
	report.enter(StateEmitted)

	report.enter(StateDone)
	logger.Info("Bundle complete.",
		"entry", req.Layout.EntryFile,
		"items", report.Items,
		"reachable", report.Reachable,
		"bytes", len(out),
		"dry_run", req.DryRun,
	)
	return report, nil
}
