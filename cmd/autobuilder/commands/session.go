package commands

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"

	"git.home.luguber.info/inful/autobuilder/internal/build"
	"git.home.luguber.info/inful/autobuilder/internal/config"
	abErrors "git.home.luguber.info/inful/autobuilder/internal/errors"
	"git.home.luguber.info/inful/autobuilder/internal/git"
	"git.home.luguber.info/inful/autobuilder/internal/history"
	"git.home.luguber.info/inful/autobuilder/internal/logfields"
	"git.home.luguber.info/inful/autobuilder/internal/metrics"
	"git.home.luguber.info/inful/autobuilder/internal/notify"
	"git.home.luguber.info/inful/autobuilder/internal/project"
	"git.home.luguber.info/inful/autobuilder/internal/unity"
)

// Session is a dispatcher wired to the engine and the outcome sinks the
// configuration enables. Close must be called when the session is done.
type Session struct {
	Config     *config.Config
	Dispatcher *build.Dispatcher

	recorder *metrics.PrometheusRecorder
	closers  []io.Closer
}

// NewSession resolves build settings from the project and configuration and
// wires the dispatcher. With dryRun set the editor is never launched.
func NewSession(cfg *config.Config, dryRun bool) (*Session, error) {
	settings, err := ResolveSettings(cfg)
	if err != nil {
		return nil, err
	}

	engine, err := newEngine(cfg, dryRun)
	if err != nil {
		return nil, err
	}

	s := &Session{
		Config:     cfg,
		Dispatcher: build.NewDispatcher(settings, engine),
	}

	if cfg.Metrics.Textfile != "" {
		s.recorder = metrics.NewPrometheusRecorder(nil)
		s.Dispatcher.WithRecorder(s.recorder)
	}

	if cfg.History.Path != "" {
		store, err := history.NewSQLiteStore(cfg.History.Path)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, store)
		s.Dispatcher.WithSinks(store)
	}

	if cfg.Notify.NATSURL != "" {
		pub, err := notify.NewNATSPublisher(cfg.Notify.NATSURL, cfg.Notify.Subject)
		if err != nil {
			// Notifications are best-effort; builds go ahead without them.
			slog.Warn("Outcome notifications disabled", logfields.Error(err))
		} else {
			s.closers = append(s.closers, pub)
			s.Dispatcher.WithSinks(pub)
		}
	}

	return s, nil
}

// entryPoints maps platform labels to the dispatcher's per-platform builds.
var entryPoints = map[string]func(*build.Dispatcher, context.Context) (*build.Outcome, error){
	build.PlatformWindows.Label: (*build.Dispatcher).BuildWindows,
	build.PlatformAndroid.Label: (*build.Dispatcher).BuildAndroid,
	build.PlatformWebGL.Label:   (*build.Dispatcher).BuildWebGL,
}

// DispatchAll runs a full dispatch round and exports metrics afterwards.
func (s *Session) DispatchAll(ctx context.Context) ([]*build.Outcome, error) {
	outcomes, err := s.Dispatcher.BuildAll(ctx)
	s.flushMetrics()
	return outcomes, err
}

// Dispatch runs one platform build and exports metrics afterwards.
func (s *Session) Dispatch(ctx context.Context, p build.Platform) (*build.Outcome, error) {
	var (
		outcome *build.Outcome
		err     error
	)
	if entry, ok := entryPoints[p.Label]; ok {
		outcome, err = entry(s.Dispatcher, ctx)
	} else {
		outcome, err = s.Dispatcher.Dispatch(ctx, p.Request())
	}
	s.flushMetrics()
	return outcome, err
}

func (s *Session) flushMetrics() {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.WriteTextfile(s.Config.Metrics.Textfile); err != nil {
		slog.Warn("Failed to export metrics", logfields.Path(s.Config.Metrics.Textfile), logfields.Error(err))
	}
}

// Close releases the history store and the notification connection.
func (s *Session) Close() error {
	var errs []error
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ResolveSettings combines configuration overrides with the project's scene
// registry, player settings and git revision. A relative builds root is
// resolved against the project directory so the editor and the dispatcher
// agree on where output goes.
func ResolveSettings(cfg *config.Config) (build.Settings, error) {
	settings := build.Settings{
		BuildsRoot:  cfg.BuildsRoot,
		Version:     cfg.Version,
		ProductName: cfg.ProductName,
	}
	if !filepath.IsAbs(settings.BuildsRoot) {
		settings.BuildsRoot = filepath.Join(cfg.Project, settings.BuildsRoot)
	}
	// The editor runs with the project as its working directory, so the
	// output location handed to it must not depend on ours.
	root, err := filepath.Abs(settings.BuildsRoot)
	if err != nil {
		return build.Settings{}, abErrors.OutputDirError(settings.BuildsRoot, err)
	}
	settings.BuildsRoot = root

	scenes, err := SceneRegistry(cfg)
	if err != nil {
		return build.Settings{}, err
	}
	settings.Scenes = scenes

	if settings.Version == "" || settings.ProductName == "" {
		ps, err := project.ReadPlayerSettings(cfg.Project)
		if err != nil {
			return build.Settings{}, err
		}
		if settings.Version == "" {
			settings.Version = ps.BundleVersion
		}
		if settings.ProductName == "" {
			settings.ProductName = ps.ProductName
		}
	}
	if err := config.ValidateVersion(settings.Version); err != nil {
		return build.Settings{}, err
	}

	rev, err := git.ReadRevision(cfg.Project)
	switch {
	case errors.Is(err, git.ErrNotRepository):
		slog.Debug("Project is not a git repository; outcomes carry no commit", logfields.Path(cfg.Project))
	case err != nil:
		slog.Warn("Failed to resolve project revision", logfields.Path(cfg.Project), logfields.Error(err))
	default:
		settings.Commit = rev.Commit
		slog.Debug("Resolved project revision", logfields.Commit(rev.Short()), slog.String("branch", rev.Branch))
	}

	return settings, nil
}

// SceneRegistry returns the configured scene list, or the project's
// EditorBuildSettings registry when the configuration names none.
func SceneRegistry(cfg *config.Config) ([]build.Scene, error) {
	if len(cfg.Scenes) > 0 {
		return cfg.Scenes, nil
	}
	return project.ReadSceneRegistry(cfg.Project)
}

func newEngine(cfg *config.Config, dryRun bool) (build.Engine, error) {
	if dryRun {
		return build.DryRunEngine{}, nil
	}
	if cfg.Engine.EditorPath == "" {
		return nil, abErrors.ValidationFailed("engine.editor_path",
			"editor path is not set; configure it or export "+config.EnvEditorPath)
	}
	e := unity.NewEngine(cfg.Engine.EditorPath, cfg.Project)
	e.ExecuteMethod = cfg.Engine.ExecuteMethod
	e.LogFile = cfg.Engine.LogFile
	e.ExtraArgs = cfg.Engine.ExtraArgs
	return e, nil
}
