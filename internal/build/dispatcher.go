package build

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	abErrors "git.home.luguber.info/inful/autobuilder/internal/errors"
	"git.home.luguber.info/inful/autobuilder/internal/logfields"
	"git.home.luguber.info/inful/autobuilder/internal/metrics"
	"git.home.luguber.info/inful/autobuilder/internal/observability"
)

// Settings replaces the editor's global state with explicit inputs.
type Settings struct {
	// BuildsRoot defaults to DefaultBuildsRoot.
	BuildsRoot  string
	Version     string
	ProductName string
	// Commit tags outcomes with the project revision; optional.
	Commit string
	// Scenes is the project scene registry in registry order.
	Scenes []Scene
}

// OutcomeSink receives every outcome the dispatcher produces.
type OutcomeSink interface {
	HandleOutcome(ctx context.Context, outcome Outcome) error
}

// Dispatcher orchestrates one build per platform against an Engine.
// It is not safe for concurrent dispatches; builds run strictly one after another.
type Dispatcher struct {
	settings Settings
	engine   Engine
	recorder metrics.Recorder
	sinks    []OutcomeSink

	mkdirAll func(path string, perm os.FileMode) error
	now      func() time.Time
	newID    func() string
}

// NewDispatcher creates a Dispatcher with a no-op metrics recorder and no sinks.
func NewDispatcher(settings Settings, engine Engine) *Dispatcher {
	if settings.BuildsRoot == "" {
		settings.BuildsRoot = DefaultBuildsRoot
	}
	return &Dispatcher{
		settings: settings,
		engine:   engine,
		recorder: metrics.NoopRecorder{},
		mkdirAll: os.MkdirAll,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// WithRecorder sets the metrics recorder.
func (d *Dispatcher) WithRecorder(r metrics.Recorder) *Dispatcher {
	if r == nil {
		r = metrics.NoopRecorder{}
	}
	d.recorder = r
	return d
}

// WithSinks appends outcome sinks. Sinks are called in order after each build.
func (d *Dispatcher) WithSinks(sinks ...OutcomeSink) *Dispatcher {
	for _, s := range sinks {
		if s != nil {
			d.sinks = append(d.sinks, s)
		}
	}
	return d
}

// EnabledScenes returns the paths of enabled registry entries in registry order.
func (d *Dispatcher) EnabledScenes() []string {
	scenes := make([]string, 0, len(d.settings.Scenes))
	for _, s := range d.settings.Scenes {
		if s.Enabled {
			scenes = append(scenes, s.Path)
		}
	}
	return scenes
}

// Dispatch runs one build for req.
//
// With no enabled scenes it does nothing and returns a nil outcome and nil
// error. Build results, including engine errors, are logged and reported in
// the outcome; the only returned error is a failure to create the output
// directory.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (*Outcome, error) {
	scenes := d.EnabledScenes()
	if len(scenes) == 0 {
		observability.DebugContext(observability.WithPlatform(ctx, req.PlatformLabel), "No enabled scenes, skipping build")
		d.recorder.IncDispatchSkipped(req.PlatformLabel)
		return nil, nil
	}

	id := d.newID()
	ctx = observability.WithPlatform(observability.WithDispatchID(ctx, id), req.PlatformLabel)

	dir := OutputDir(d.settings.BuildsRoot, d.settings.Version, req.PlatformLabel)
	if err := d.mkdirAll(dir, 0o755); err != nil {
		return nil, abErrors.OutputDirError(dir, err)
	}
	location := LocationPath(dir, d.settings.ProductName, req.OutputExtension)

	observability.InfoContext(ctx, "Dispatching player build",
		logfields.Target(string(req.Target)),
		logfields.OutputPath(location),
		logfields.Scenes(len(scenes)),
		logfields.Version(d.settings.Version))

	start := d.now()
	summary, err := d.engine.Build(ctx, PlayerOptions{
		Scenes:       scenes,
		LocationPath: location,
		Target:       req.Target,
		Options:      OptionsNone,
	})
	if err != nil {
		observability.ErrorContext(ctx, "Build engine error", logfields.Error(err))
		summary = Summary{Result: ResultFailed}
		if ctx.Err() != nil {
			summary.Result = ResultCancelled
		}
	}
	if summary.Platform == "" {
		summary.Platform = string(req.Target)
	}

	outcome := &Outcome{
		DispatchID:     id,
		Succeeded:      summary.Result == ResultSucceeded,
		Platform:       summary.Platform,
		PlatformLabel:  req.PlatformLabel,
		Target:         req.Target,
		Result:         summary.Result,
		TotalSizeBytes: summary.TotalSize,
		OutputPath:     location,
		Scenes:         len(scenes),
		Version:        d.settings.Version,
		Commit:         d.settings.Commit,
		StartedAt:      start,
		Duration:       d.now().Sub(start),
	}

	d.report(ctx, outcome)
	return outcome, nil
}

// report emits the one-line result and forwards the outcome to metrics and sinks.
func (d *Dispatcher) report(ctx context.Context, o *Outcome) {
	attrs := []slog.Attr{
		logfields.Result(o.Result.String()),
		logfields.Duration(o.Duration),
	}
	if o.Commit != "" {
		attrs = append(attrs, logfields.Commit(o.Commit))
	}
	if o.Succeeded {
		attrs = append(attrs, logfields.SizeBytes(o.TotalSizeBytes))
		observability.InfoContext(ctx, fmt.Sprintf("%s: %d bytes", o.Platform, o.TotalSizeBytes), attrs...)
		d.recorder.SetOutputSize(o.PlatformLabel, o.TotalSizeBytes)
	} else {
		observability.ErrorContext(ctx, fmt.Sprintf("%s: %s", o.Platform, o.Result), attrs...)
	}
	d.recorder.IncDispatchOutcome(o.PlatformLabel, o.Result.String())
	d.recorder.ObserveDispatchDuration(o.PlatformLabel, o.Duration)

	for _, sink := range d.sinks {
		if err := sink.HandleOutcome(ctx, *o); err != nil {
			observability.WarnContext(ctx, "Outcome sink failed", logfields.Error(err))
		}
	}
}

// DispatchAll builds Windows, Android and WebGL in that order. A failed or
// skipped build does not stop the next one. An output directory error aborts
// the run and is returned with the outcomes produced so far.
func (d *Dispatcher) DispatchAll(ctx context.Context) ([]*Outcome, error) {
	var outcomes []*Outcome
	for _, p := range DefaultPlatforms() {
		o, err := d.Dispatch(ctx, p.Request())
		if err != nil {
			return outcomes, err
		}
		if o != nil {
			outcomes = append(outcomes, o)
		}
	}
	return outcomes, nil
}

// BuildWindows dispatches a 64-bit Windows standalone build.
func (d *Dispatcher) BuildWindows(ctx context.Context) (*Outcome, error) {
	return d.Dispatch(ctx, PlatformWindows.Request())
}

// BuildAndroid dispatches an Android APK build.
func (d *Dispatcher) BuildAndroid(ctx context.Context) (*Outcome, error) {
	return d.Dispatch(ctx, PlatformAndroid.Request())
}

// BuildWebGL dispatches a WebGL build.
func (d *Dispatcher) BuildWebGL(ctx context.Context) (*Outcome, error) {
	return d.Dispatch(ctx, PlatformWebGL.Request())
}

// BuildAll is DispatchAll.
func (d *Dispatcher) BuildAll(ctx context.Context) ([]*Outcome, error) {
	return d.DispatchAll(ctx)
}
