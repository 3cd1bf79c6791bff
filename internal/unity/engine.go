// Package unity runs player builds through the Unity editor in batch mode.
package unity

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/autobuilder/internal/build"
	abErrors "git.home.luguber.info/inful/autobuilder/internal/errors"
	"git.home.luguber.info/inful/autobuilder/internal/logfields"
)

// DefaultExecuteMethod is the editor script entry point that reads the
// -autobuild* arguments and calls BuildPipeline.BuildPlayer.
const DefaultExecuteMethod = "AutoBuilder.BuildFromCommandLine"

// Command-line arguments understood by the editor entry point.
const (
	ArgScenes  = "-autobuildScenes"
	ArgOutput  = "-autobuildOutput"
	ArgTarget  = "-autobuildTarget"
	ArgOptions = "-autobuildOptions"
)

// sceneSeparator joins scene paths; asset paths never contain it.
const sceneSeparator = ";"

// Engine implements build.Engine by launching the editor once per build.
type Engine struct {
	EditorPath    string
	ProjectPath   string
	ExecuteMethod string
	// LogFile is passed to -logFile. "-" streams the editor log to Stdout.
	LogFile   string
	ExtraArgs []string

	Stdout io.Writer
	Stderr io.Writer

	run func(cmd *exec.Cmd) error
}

// NewEngine returns an Engine for the editor at editorPath building the
// project at projectPath.
func NewEngine(editorPath, projectPath string) *Engine {
	return &Engine{
		EditorPath:    editorPath,
		ProjectPath:   projectPath,
		ExecuteMethod: DefaultExecuteMethod,
		LogFile:       "-",
		Stdout:        os.Stdout,
		Stderr:        os.Stderr,
		run:           (*exec.Cmd).Run,
	}
}

// Args returns the editor command line for one build.
func (e *Engine) Args(opts build.PlayerOptions) []string {
	method := e.ExecuteMethod
	if method == "" {
		method = DefaultExecuteMethod
	}
	logFile := e.LogFile
	if logFile == "" {
		logFile = "-"
	}

	args := []string{
		"-batchmode",
		"-quit",
		"-nographics",
		"-projectPath", e.ProjectPath,
		"-buildTarget", opts.Target.CommandLineName(),
		"-executeMethod", method,
		"-logFile", logFile,
		ArgScenes, strings.Join(opts.Scenes, sceneSeparator),
		ArgOutput, opts.LocationPath,
		ArgTarget, string(opts.Target),
		ArgOptions, strconv.FormatUint(uint64(opts.Options), 10),
	}
	return append(args, e.ExtraArgs...)
}

// Build runs the editor and maps its exit status to a build result:
// exit 0 is Succeeded even if ctx was cancelled as the editor finished.
// Otherwise a cancelled context is Cancelled and a non-zero exit is Failed.
// An unknown target or an editor that cannot be started is an error.
func (e *Engine) Build(ctx context.Context, opts build.PlayerOptions) (build.Summary, error) {
	summary := build.Summary{Platform: string(opts.Target)}
	if !opts.Target.Valid() {
		return summary, abErrors.ValidationFailed("target", fmt.Sprintf("unsupported build target %q", opts.Target))
	}

	cmd := exec.CommandContext(ctx, e.EditorPath, e.Args(opts)...)
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr

	slog.DebugContext(ctx, "Launching editor",
		slog.String("editor", e.EditorPath),
		slog.String("args", strings.Join(cmd.Args[1:], " ")))

	run := e.run
	if run == nil {
		run = (*exec.Cmd).Run
	}
	err := run(cmd)

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		summary.Result = build.ResultSucceeded
	case ctx.Err() != nil:
		summary.Result = build.ResultCancelled
		return summary, nil
	case errors.As(err, &exitErr):
		slog.DebugContext(ctx, "Editor exited with failure", slog.Int("exit_code", exitErr.ExitCode()))
		summary.Result = build.ResultFailed
		return summary, nil
	default:
		return summary, abErrors.EngineStartError(e.EditorPath, err)
	}

	size, err := OutputSize(opts.LocationPath)
	if err != nil {
		slog.WarnContext(ctx, "Failed to measure build output",
			logfields.OutputPath(opts.LocationPath), logfields.Error(err))
	}
	summary.TotalSize = size
	return summary, nil
}

// OutputSize returns the total size of the build at location. A file location
// (an executable or package) is measured together with its sibling data
// directories, so the whole platform output directory is summed.
func OutputSize(location string) (int64, error) {
	info, err := os.Stat(location)
	if err != nil {
		return 0, err
	}
	root := location
	if !info.IsDir() {
		root = filepath.Dir(location)
	}

	var total int64
	err = filepath.WalkDir(root, func(_ string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !d.Type().IsRegular() {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		total += fi.Size()
		return nil
	})
	return total, err
}
