package fit

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/cwbudde/algo-pals/pals/param"
	"github.com/cwbudde/algo-pals/pals/residual"
	"github.com/cwbudde/algo-pals/pals/spectrum"
)

var (
	ErrNilJob         = errors.New("fit: job is nil")
	ErrEmptySpectrum  = errors.New("fit: spectrum is empty")
	ErrTooFewChannels = errors.New("fit: not enough channels for the free parameters")
	ErrBusy           = errors.New("fit: a fit is already running")
)

// Settings are the per-fit acquisition and solver settings.
type Settings struct {
	StartChannel      int
	StopChannel       int
	ChannelResolution float64 // time per channel, e.g. ps
	MaxIterations     int     // per solver run; 0 selects the solver default
	Weighting         residual.Weighting
}

// Job is everything one fit needs. Params is updated in place with the
// fitted values and errors.
type Job struct {
	Spectrum spectrum.Spectrum
	Settings Settings
	Params   *param.Set
}

// Completion is delivered once on the channel returned by Engine.Start.
type Completion struct {
	Result *Result
	Err    error
}

// Engine runs fits. It is safe for concurrent use; Start refuses to overlap
// with a fit it started earlier.
type Engine struct {
	cfg  Config
	busy atomic.Bool
}

// NewEngine returns an engine configured by opts.
func NewEngine(opts ...Option) *Engine {
	return &Engine{cfg: ApplyOptions(opts...)}
}

// Fit runs a fit synchronously. Invalid input returns an error and leaves
// job.Params untouched. Solver failures are reported through Result.State.
func (e *Engine) Fit(job *Job) (*Result, error) {
	if job != nil {
		if err := param.Validate(job.Params); err != nil {
			return nil, fmt.Errorf("fit: %w", err)
		}
	}

	ctx, err := newFitContext(job)
	if err != nil {
		return nil, err
	}
	if ctx.dof <= 0 {
		return nil, fmt.Errorf("%w: %d data points, %d free parameters", ErrTooFewChannels, ctx.eval.Len(), ctx.asm.Free())
	}

	log := e.cfg.Logger
	log.Info("fit started",
		slog.Int("start_channel", ctx.roi.Start),
		slog.Int("stop_channel", ctx.roi.Stop),
		slog.Int("parameters", ctx.asm.Layout.Len()),
		slog.Int("free", ctx.asm.Free()),
		slog.Int("counts", ctx.roi.Integral),
	)

	loop := e.drive(ctx)
	res := extract(ctx, job.Params, job.Spectrum, loop)

	log.Info("fit finished",
		slog.String("id", res.ID.String()),
		slog.String("state", res.State.String()),
		slog.Int("status", int(res.Status)),
		slog.Int("runs", len(res.Runs)),
		slog.Float64("chi2", res.ChiSquare),
	)

	return res, nil
}

// Start runs Fit on its own goroutine. The returned channel receives one
// Completion and is then closed. ErrBusy is returned while a fit started
// by this engine is still running.
func (e *Engine) Start(job *Job) (<-chan Completion, error) {
	if !e.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}

	done := make(chan Completion, 1)
	go func() {
		defer close(done)

		res, err := e.Fit(job)
		e.busy.Store(false)
		done <- Completion{Result: res, Err: err}
	}()

	return done, nil
}

// Busy reports whether a fit started with Start is running.
func (e *Engine) Busy() bool {
	return e.busy.Load()
}

// Preview evaluates the model at the start values over the ROI.
func (e *Engine) Preview(job *Job) ([]spectrum.Sample, error) {
	ctx, err := newFitContext(job)
	if err != nil {
		return nil, err
	}

	return ctx.curve(ctx.asm.Values), nil
}
