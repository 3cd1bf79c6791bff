package build

import (
	"context"
	"log/slog"
)

// PlayerOptions is the input to one engine build.
type PlayerOptions struct {
	Scenes       []string
	LocationPath string
	Target       Target
	Options      Options
}

// Summary is the engine's result summary for one build.
type Summary struct {
	// Platform is the engine's name for the built platform.
	Platform  string
	Result    Result
	TotalSize int64
}

// Engine runs a player build. Implementations block until the build finishes.
// A returned error means the build could not be run at all; a build that ran
// and failed is reported through Summary.Result.
type Engine interface {
	Build(ctx context.Context, opts PlayerOptions) (Summary, error)
}


// DryRunEngine reports every build as succeeded without running anything.
type DryRunEngine struct{}

func (DryRunEngine) Build(ctx context.Context, opts PlayerOptions) (Summary, error) {
	slog.DebugContext(ctx, "Dry run: skipping engine build",
		slog.String("target", string(opts.Target)),
		slog.String("location", opts.LocationPath),
		slog.Int("scenes", len(opts.Scenes)))
	return Summary{Platform: string(opts.Target), Result: ResultSucceeded}, nil
}
