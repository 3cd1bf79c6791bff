package commands

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/autobuilder/internal/build"
	abErrors "git.home.luguber.info/inful/autobuilder/internal/errors"
	"git.home.luguber.info/inful/autobuilder/internal/history"
	abtesting "git.home.luguber.info/inful/autobuilder/internal/testing"
)

func writeUnityProject(t *testing.T) string {
	t.Helper()
	return abtesting.NewProjectBuilder(t).
		WithVersion("1.2.3").
		WithScene("Assets/Scenes/Menu.unity", true).
		WithScene("Assets/Scenes/Debug.unity", false).
		WithScene("Assets/Scenes/Level1.unity", true).
		Build()
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "autobuilder.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func quietLogs(t *testing.T) {
	t.Helper()
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for env, want := range cases {
		t.Run(env, func(t *testing.T) {
			t.Setenv(EnvLogLevel, env)
			assert.Equal(t, want, parseLogLevel(false))
		})
	}

	t.Run("verbose wins", func(t *testing.T) {
		t.Setenv(EnvLogLevel, "error")
		assert.Equal(t, slog.LevelDebug, parseLogLevel(true))
	})
}

func TestLoadConfig(t *testing.T) {
	t.Run("explicit missing path is a config error", func(t *testing.T) {
		_, err := LoadConfig(&CLI{Config: filepath.Join(t.TempDir(), "missing.yaml")})
		require.Error(t, err)
		assert.True(t, abErrors.IsCategory(err, abErrors.CategoryConfig))
	})

	t.Run("project flag overrides file", func(t *testing.T) {
		path := writeConfigFile(t, "project: from-file\n")
		cfg, err := LoadConfig(&CLI{Config: path, Project: "from-flag"})
		require.NoError(t, err)
		assert.Equal(t, "from-flag", cfg.Project)
	})
}

func TestResolveSettings(t *testing.T) {
	quietLogs(t)
	projectDir := writeUnityProject(t)

	t.Run("reads project settings", func(t *testing.T) {
		cfg, err := LoadConfig(&CLI{Config: writeConfigFile(t, "project: "+projectDir+"\n")})
		require.NoError(t, err)

		settings, err := ResolveSettings(cfg)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(projectDir, "Builds"), settings.BuildsRoot)
		assert.Equal(t, "1.2.3", settings.Version)
		assert.Equal(t, "Game", settings.ProductName)
		assert.Empty(t, settings.Commit)
		require.Len(t, settings.Scenes, 3)
		assert.False(t, settings.Scenes[1].Enabled)
	})

	t.Run("configuration overrides project", func(t *testing.T) {
		out := t.TempDir()
		cfg, err := LoadConfig(&CLI{Config: writeConfigFile(t, `
project: `+projectDir+`
builds_root: `+out+`
version: "2.0"
product_name: Demo
scenes:
  - path: Assets/Scenes/Only.unity
    enabled: true
`)})
		require.NoError(t, err)

		settings, err := ResolveSettings(cfg)
		require.NoError(t, err)
		assert.Equal(t, out, settings.BuildsRoot)
		assert.Equal(t, "2.0", settings.Version)
		assert.Equal(t, "Demo", settings.ProductName)
		assert.Equal(t, []build.Scene{{Path: "Assets/Scenes/Only.unity", Enabled: true}}, settings.Scenes)
	})

	t.Run("missing project settings", func(t *testing.T) {
		cfg, err := LoadConfig(&CLI{Config: writeConfigFile(t, "project: "+t.TempDir()+"\n")})
		require.NoError(t, err)
		_, err = ResolveSettings(cfg)
		require.Error(t, err)
		assert.True(t, abErrors.IsCategory(err, abErrors.CategoryProject))
	})
}

func TestRunBuild_RequiresEditorPath(t *testing.T) {
	quietLogs(t)
	t.Setenv("UNITY_PATH", "")
	projectDir := writeUnityProject(t)
	root := &CLI{Config: writeConfigFile(t, "project: "+projectDir+"\n")}

	err := RunBuild(&Global{Stdout: &bytes.Buffer{}}, root, build.PlatformWindows)
	require.Error(t, err)
	assert.True(t, abErrors.IsCategory(err, abErrors.CategoryValidation))
}

func TestRunBuildAll_DryRunRecordsHistory(t *testing.T) {
	quietLogs(t)
	projectDir := writeUnityProject(t)
	dbPath := filepath.Join(t.TempDir(), "history.db")
	textfile := filepath.Join(t.TempDir(), "autobuilder.prom")
	root := &CLI{
		Config: writeConfigFile(t, "project: "+projectDir+"\nhistory:\n  path: "+dbPath+"\nmetrics:\n  textfile: "+textfile+"\n"),
		DryRun: true,
	}
	var out bytes.Buffer

	require.NoError(t, RunBuildAll(&Global{Stdout: &out}, root))

	abtesting.NewTreeAssertions(t, projectDir).
		HasPlatformDir("Builds", "1.2.3", "Windows").
		HasPlatformDir("Builds", "1.2.3", "Android").
		HasPlatformDir("Builds", "1.2.3", "WebGL").
		Missing("Builds/1_2_3/Windows/Game.exe")
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "Windows"))
	assert.Contains(t, lines[0], filepath.Join(projectDir, "Builds", "1_2_3", "Windows", "Game.exe"))
	assert.True(t, strings.HasPrefix(lines[2], "WebGL"))

	store, err := history.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	outcomes, err := store.List(context.Background(), history.Filter{})
	require.NoError(t, err)
	require.Len(t, outcomes, 3)
	for _, o := range outcomes {
		assert.Equal(t, build.ResultSucceeded, o.Result)
		assert.Equal(t, 2, o.Scenes)
	}

	metrics, err := os.ReadFile(textfile)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "autobuilder_dispatch_outcomes_total")

	out.Reset()
	require.NoError(t, (&HistoryCmd{Platform: "android", Limit: 10}).Run(&Global{Stdout: &out}, root))
	assert.Contains(t, out.String(), "Android")
	assert.NotContains(t, out.String(), "Windows")
}

func TestScenesCmd(t *testing.T) {
	quietLogs(t)
	projectDir := writeUnityProject(t)
	root := &CLI{Project: projectDir, Config: writeConfigFile(t, "builds_root: Builds\n")}

	var out bytes.Buffer
	require.NoError(t, (&ScenesCmd{}).Run(&Global{Stdout: &out}, root))
	assert.Equal(t, "Assets/Scenes/Menu.unity\nAssets/Scenes/Level1.unity\n", out.String())

	out.Reset()
	require.NoError(t, (&ScenesCmd{All: true}).Run(&Global{Stdout: &out}, root))
	assert.Contains(t, out.String(), "[ ] Assets/Scenes/Debug.unity")
	assert.Contains(t, out.String(), "[x] Assets/Scenes/Menu.unity")
}

func TestHistoryCmd_RequiresPath(t *testing.T) {
	root := &CLI{Config: writeConfigFile(t, "project: .\n")}
	err := (&HistoryCmd{}).Run(&Global{Stdout: &bytes.Buffer{}}, root)
	assert.True(t, abErrors.IsCategory(err, abErrors.CategoryValidation))
}

func TestScheduleCmd_RequiresCron(t *testing.T) {
	root := &CLI{Config: writeConfigFile(t, "project: .\n"), DryRun: true}
	err := (&ScheduleCmd{}).Run(&Global{}, root)
	assert.True(t, abErrors.IsCategory(err, abErrors.CategoryValidation))

	err = (&ScheduleCmd{Cron: "not a cron"}).Run(&Global{}, root)
	assert.True(t, abErrors.IsCategory(err, abErrors.CategoryValidation))
}

func TestWriteHistory(t *testing.T) {
	outcomes := []build.Outcome{{
		PlatformLabel:  "Android",
		Result:         build.ResultFailed,
		TotalSizeBytes: 1234567,
		Duration:       90 * time.Second,
		Version:        "1.2.3",
		Commit:         "0123456789abcdef0123",
		StartedAt:      time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}}

	var out bytes.Buffer
	require.NoError(t, WriteHistory(&out, outcomes, localePrinter("en_US.UTF-8")))
	assert.Contains(t, out.String(), "1,234,567")
	assert.Contains(t, out.String(), "0123456789ab")
	assert.Contains(t, out.String(), "Failed")

	out.Reset()
	require.NoError(t, WriteHistory(&out, nil, localePrinter("")))
	assert.Equal(t, "No builds recorded\n", out.String())
}

func TestLocalePrinter(t *testing.T) {
	assert.Equal(t, "1.234.567", localePrinter("de_DE.UTF-8").Sprintf("%d", 1234567))
	assert.Equal(t, "1,234,567", localePrinter("C").Sprintf("%d", 1234567))
}

func TestRunInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autobuilder.yaml")
	var out bytes.Buffer
	require.NoError(t, RunInit(&out, path, false))
	assert.FileExists(t, path)
	assert.Contains(t, out.String(), "initialized successfully")

	err := RunInit(&out, path, false)
	require.Error(t, err)
	require.NoError(t, RunInit(&out, path, true))
}

func TestResolveSettings_RelativeProjectYieldsAbsoluteBuildsRoot(t *testing.T) {
	quietLogs(t)
	work := t.TempDir()
	abtesting.NewProjectBuilder(t).
		WithVersion("1.2.3").
		WithScene("Assets/Scenes/Menu.unity", true).
		BuildAt(filepath.Join(work, "sub", "Game"))
	t.Chdir(work)
	wd, err := os.Getwd()
	require.NoError(t, err)

	root := &CLI{Config: writeConfigFile(t, "project: sub/Game\n"), DryRun: true}
	cfg, err := LoadConfig(root)
	require.NoError(t, err)
	settings, err := ResolveSettings(cfg)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "sub", "Game", "Builds"), settings.BuildsRoot)

	var out bytes.Buffer
	require.NoError(t, RunBuild(&Global{Stdout: &out}, root, build.PlatformWindows))
	assert.Contains(t, out.String(), filepath.Join(wd, "sub", "Game", "Builds", "1_2_3", "Windows", "Game.exe"))
	abtesting.NewTreeAssertions(t, wd).
		HasPlatformDir("sub/Game/Builds", "1.2.3", "Windows").
		Missing("sub/Game/sub")
}

func TestResolveSettings_RejectsBundleVersionWithSeparator(t *testing.T) {
	quietLogs(t)
	projectDir := abtesting.NewProjectBuilder(t).
		WithVersion("1.0/beta").
		WithScene("Assets/Scenes/Menu.unity", true).
		Build()
	cfg, err := LoadConfig(&CLI{Config: writeConfigFile(t, "project: "+projectDir+"\n")})
	require.NoError(t, err)

	_, err = ResolveSettings(cfg)
	require.Error(t, err)
	assert.True(t, abErrors.IsCategory(err, abErrors.CategoryValidation))
	abtesting.NewTreeAssertions(t, projectDir).Missing("Builds")
}

func TestScenesCmd_NeedsOnlySceneRegistry(t *testing.T) {
	projectDir := writeUnityProject(t)
	require.NoError(t, os.Remove(filepath.Join(projectDir, "ProjectSettings", "ProjectSettings.asset")))

	var out bytes.Buffer
	root := &CLI{Project: projectDir, Config: writeConfigFile(t, "builds_root: Builds\n")}
	require.NoError(t, (&ScenesCmd{}).Run(&Global{Stdout: &out}, root))
	assert.Equal(t, "Assets/Scenes/Menu.unity\nAssets/Scenes/Level1.unity\n", out.String())

	out.Reset()
	root = &CLI{Project: t.TempDir(), Config: writeConfigFile(t, "scenes:\n  - path: Assets/Only.unity\n    enabled: true\n")}
	require.NoError(t, (&ScenesCmd{}).Run(&Global{Stdout: &out}, root))
	assert.Equal(t, "Assets/Only.unity\n", out.String())
}

func TestHistoryCmd_RejectsUnknownPlatform(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")
	root := &CLI{Config: writeConfigFile(t, "history:\n  path: "+dbPath+"\n")}

	err := (&HistoryCmd{Platform: "switch", Limit: 5}).Run(&Global{Stdout: &bytes.Buffer{}}, root)
	require.Error(t, err)
	assert.True(t, abErrors.IsCategory(err, abErrors.CategoryValidation))
	assert.NoFileExists(t, dbPath)
}

func TestRunBuild_EachPlatformBuildsOnlyItsOwnOutput(t *testing.T) {
	quietLogs(t)
	for _, p := range build.DefaultPlatforms() {
		t.Run(p.Label, func(t *testing.T) {
			projectDir := writeUnityProject(t)
			root := &CLI{Config: writeConfigFile(t, "project: "+projectDir+"\n"), DryRun: true}
			var out bytes.Buffer

			require.NoError(t, RunBuild(&Global{Stdout: &out}, root, p))

			assert.True(t, strings.HasPrefix(out.String(), p.Label))
			tree := abtesting.NewTreeAssertions(t, projectDir).HasPlatformDir("Builds", "1.2.3", p.Label)
			for _, other := range build.DefaultPlatforms() {
				if other.Label != p.Label {
					tree.Missing("Builds/1_2_3/" + other.Label)
				}
			}
		})
	}
}
