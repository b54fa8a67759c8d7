package flow

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/streamkit/errors"
	"github.com/kbukum/streamkit/logger"
	"github.com/kbukum/streamkit/observability"
	"github.com/kbukum/streamkit/pipeline"
)

// RunOptions configures a Runner.
type RunOptions struct {
	// Logger receives run summaries. Nil uses the global logger.
	Logger *logger.Logger
	// Trace logs every prime and push at debug level.
	Trace bool
	// Metrics records pushes and runs when set.
	Metrics *observability.StreamMetrics
	// Capture keeps up to this many values that reach the terminal.
	Capture int
	// OnValue receives every value pushed into the terminal, in order, on
	// the goroutine driving the run.
	OnValue func(pipeline.Value)
}

// Report summarizes one run.
type Report struct {
	RunID     string
	Stages    []string
	Generated int
	Captured  []pipeline.Value
	Duration  time.Duration
}

// MarshalJSON renders the duration in milliseconds.
func (r Report) MarshalJSON() ([]byte, error) {
	captured := r.Captured
	if captured == nil {
		captured = []pipeline.Value{}
	}
	return json.Marshal(struct {
		RunID      string           `json:"run_id"`
		Stages     []string         `json:"stages"`
		Generated  int              `json:"generated"`
		Captured   []pipeline.Value `json:"captured"`
		DurationMs float64          `json:"duration_ms"`
	}{
		RunID:      r.RunID,
		Stages:     r.Stages,
		Generated:  r.Generated,
		Captured:   captured,
		DurationMs: float64(r.Duration.Microseconds()) / 1000,
	})
}

// Runner builds and drives pipelines. A Runner holds no per-run state and
// is safe for concurrent use.
type Runner struct {
	opts RunOptions
}

// NewRunner creates a Runner.
func NewRunner(opts RunOptions) *Runner {
	if opts.Capture < 0 {
		opts.Capture = 0
	}
	return &Runner{opts: opts}
}

// WithCapture returns a copy of r that captures up to n values.
func (r *Runner) WithCapture(n int) *Runner {
	opts := r.opts
	opts.Capture = n
	return NewRunner(opts)
}

// WithOnValue returns a copy of r that hands every terminal value to fn.
func (r *Runner) WithOnValue(fn func(pipeline.Value)) *Runner {
	opts := r.opts
	opts.OnValue = fn
	return NewRunner(opts)
}

// Run builds descs and drives the result to completion. The pipeline runs
// on the calling goroutine; cancelling ctx ends it between values, or inside
// an unbounded fan-out, with a CANCELED error alongside the partial report.
func (r *Runner) Run(ctx context.Context, descs []Descriptor) (*Report, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanRun)
	defer span.End()

	prep, err := r.Prepare(ctx, descs)
	if err != nil {
		observability.SetSpanError(ctx, err)
		return nil, err
	}
	return prep.drive(ctx)
}

// Prepared is a pipeline built by Runner.Prepare that has not run yet. It
// is driven at most once.
type Prepared struct {
	runner *Runner
	log    *logger.Logger
	report *Report
	p      *pipeline.Pipeline
	stop   chan struct{}
	built  time.Duration
	ran    bool
}

// Prepare builds descs without driving them, so a caller can reject a bad
// pipeline before committing to a run. Build errors are logged and counted
// here.
func (r *Runner) Prepare(ctx context.Context, descs []Descriptor) (*Prepared, error) {
	runID := uuid.NewString()
	prep := &Prepared{
		runner: r,
		log:    r.logger().WithRun(runID),
		report: &Report{RunID: runID, Stages: Names(descs)},
		stop:   make(chan struct{}),
	}

	start := time.Now()
	p, err := r.build(ctx, descs, prep)
	prep.built = time.Since(start)
	if err != nil {
		r.recordRun(ctx, observability.RunStatusBuildError, 0, prep.built)
		prep.log.Warn("pipeline build failed", logger.ErrorFields("build", err))
		return nil, err
	}
	prep.p = p
	return prep, nil
}

// RunID returns the ID the report will carry.
func (p *Prepared) RunID() string { return p.report.RunID }

// Run drives the prepared pipeline. A second call fails without running.
func (p *Prepared) Run(ctx context.Context) (*Report, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanRun)
	defer span.End()
	return p.drive(ctx)
}

func (p *Prepared) drive(ctx context.Context) (*Report, error) {
	if p.ran {
		return nil, errors.Internal(stderrors.New("pipeline already ran")).WithDetail("run_id", p.report.RunID)
	}
	p.ran = true

	report, log, r := p.report, p.log, p.runner
	observability.SetSpanAttribute(ctx, observability.AttrRunID, report.RunID)
	observability.SetSpanAttribute(ctx, observability.AttrStages, report.Stages)

	unwatch := context.AfterFunc(ctx, func() { close(p.stop) })
	defer unwatch()

	start := time.Now()
	generated, err := p.p.Run(ctx)
	report.Generated = generated
	report.Duration = p.built + time.Since(start)
	observability.SetSpanAttribute(ctx, observability.AttrGenerated, generated)

	if err != nil {
		appErr := errors.Internal(err)
		status := observability.RunStatusError
		if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
			appErr = errors.Canceled(err)
			status = observability.RunStatusCanceled
		}
		appErr.WithDetail("run_id", report.RunID)
		observability.SetSpanError(ctx, appErr)
		r.recordRun(ctx, status, generated, report.Duration)
		log.Warn("pipeline run interrupted", logger.MergeWithError(
			logger.RunFields(len(report.Stages), generated, report.Duration), err))
		return report, appErr
	}

	r.recordRun(ctx, observability.RunStatusOK, generated, report.Duration)
	log.Info("pipeline run finished", logger.RunFields(len(report.Stages), generated, report.Duration))
	return report, nil
}

func (r *Runner) build(ctx context.Context, descs []Descriptor, prep *Prepared) (*pipeline.Pipeline, error) {
	_, span := observability.StartSpan(ctx, observability.SpanBuild)
	defer span.End()

	report, log := prep.report, prep.log
	last := len(descs) - 1
	opts := []BuildOption{
		WithDecorator(func(_ int, _ Op, s pipeline.Stage) pipeline.Stage {
			if in, ok := s.(pipeline.Interruptible); ok {
				in.Interrupt(prep.stop)
			}
			return s
		}),
	}
	if r.opts.Capture > 0 || r.opts.OnValue != nil {
		limit, onValue := r.opts.Capture, r.opts.OnValue
		opts = append(opts, WithDecorator(func(i int, _ Op, s pipeline.Stage) pipeline.Stage {
			if i != last {
				return s
			}
			return pipeline.Tap(s, func(v pipeline.Value, _ pipeline.Signal) {
				if len(report.Captured) < limit {
					report.Captured = append(report.Captured, v)
				}
				if onValue != nil {
					onValue(v)
				}
			})
		}))
	}
	if r.opts.Trace {
		opts = append(opts, WithDecorator(func(_ int, op Op, s pipeline.Stage) pipeline.Stage {
			return pipeline.WithLogging(s, op.String(), log)
		}))
	}
	if r.opts.Metrics != nil {
		opts = append(opts, WithDecorator(func(_ int, op Op, s pipeline.Stage) pipeline.Stage {
			return pipeline.WithMetrics(ctx, s, op.String(), r.opts.Metrics)
		}))
	}
	return Build(descs, opts...)
}

func (r *Runner) recordRun(ctx context.Context, status string, generated int, d time.Duration) {
	if r.opts.Metrics != nil {
		r.opts.Metrics.RecordRun(ctx, status, generated, d)
	}
}

func (r *Runner) logger() *logger.Logger {
	if r.opts.Logger != nil {
		return r.opts.Logger
	}
	return logger.Get(logger.ComponentFlow)
}

// Run builds and drives descs with default options.
func Run(ctx context.Context, descs []Descriptor) (*Report, error) {
	return NewRunner(RunOptions{}).Run(ctx, descs)
}
