package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/autobuilder/internal/build"
	"git.home.luguber.info/inful/autobuilder/internal/logfields"
)

// BuildCmd groups the per-platform build entry points.
type BuildCmd struct {
	Windows BuildWindowsCmd `cmd:"" help:"Build the 64-bit Windows standalone player"`
	Android BuildAndroidCmd `cmd:"" help:"Build the Android APK"`
	WebGL   BuildWebGLCmd   `cmd:"" name:"webgl" help:"Build the WebGL player"`
	All     BuildAllCmd     `cmd:"" help:"Build Windows, Android and WebGL in order"`
}

type BuildWindowsCmd struct{}

func (*BuildWindowsCmd) Run(g *Global, root *CLI) error {
	return RunBuild(g, root, build.PlatformWindows)
}

type BuildAndroidCmd struct{}

func (*BuildAndroidCmd) Run(g *Global, root *CLI) error {
	return RunBuild(g, root, build.PlatformAndroid)
}

type BuildWebGLCmd struct{}

func (*BuildWebGLCmd) Run(g *Global, root *CLI) error {
	return RunBuild(g, root, build.PlatformWebGL)
}

type BuildAllCmd struct{}

func (*BuildAllCmd) Run(g *Global, root *CLI) error {
	return RunBuildAll(g, root)
}

// RunBuild dispatches a single platform build. A failed build is reported
// but is not an error; only setup and output directory failures are.
func RunBuild(g *Global, root *CLI, p build.Platform) error {
	ctx, stop := signalContext()
	defer stop()

	session, err := openSession(root)
	if err != nil {
		return err
	}
	defer closeSession(session)

	outcome, err := session.Dispatch(ctx, p)
	if err != nil {
		return err
	}
	printOutcome(g.out(), p.Label, outcome)
	return nil
}

// RunBuildAll dispatches every default platform in order.
func RunBuildAll(g *Global, root *CLI) error {
	ctx, stop := signalContext()
	defer stop()

	session, err := openSession(root)
	if err != nil {
		return err
	}
	defer closeSession(session)

	outcomes, err := session.DispatchAll(ctx)
	byLabel := make(map[string]*build.Outcome, len(outcomes))
	for _, o := range outcomes {
		byLabel[o.PlatformLabel] = o
	}
	for _, p := range build.DefaultPlatforms() {
		o, ok := byLabel[p.Label]
		if !ok && err != nil {
			break
		}
		printOutcome(g.out(), p.Label, o)
	}
	return err
}

func openSession(root *CLI) (*Session, error) {
	cfg, err := LoadConfig(root)
	if err != nil {
		return nil, err
	}
	return NewSession(cfg, root.DryRun)
}

func closeSession(s *Session) {
	if err := s.Close(); err != nil {
		slog.Warn("Failed to close session", logfields.Error(err))
	}
}

func printOutcome(w io.Writer, label string, o *build.Outcome) {
	if o == nil {
		_, _ = fmt.Fprintf(w, "%-8s skipped (no enabled scenes)\n", label)
		return
	}
	_, _ = fmt.Fprintf(w, "%-8s %-10s %d bytes  %s\n", label, o.Result, o.TotalSizeBytes, o.OutputPath)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
