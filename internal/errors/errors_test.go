package errors

import (
	"bytes"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutoBuilderError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AutoBuilderError
		expected string
	}{
		{
			name:     "error without cause",
			err:      New(CategoryConfig, SeverityFatal, "configuration invalid"),
			expected: "config (fatal): configuration invalid",
		},
		{
			name:     "error with cause",
			err:      Wrap(fmt.Errorf("permission denied"), CategoryFileSystem, SeverityFatal, "failed to create output directory"),
			expected: "filesystem (fatal): failed to create output directory: permission denied",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, test.err.Error())
		})
	}
}

func TestAutoBuilderError_WithContext(t *testing.T) {
	err := OutputDirError("Builds/1_0/Windows", stdErrors.New("read-only file system"))

	require.NotNil(t, err.Context)
	assert.Equal(t, "Builds/1_0/Windows", err.Context["path"])
	assert.Equal(t, CategoryFileSystem, err.Category)
}

func TestIsCategory_ThroughWrapping(t *testing.T) {
	base := ConfigNotFound("autobuilder.yaml")
	wrapped := fmt.Errorf("load config: %w", base)

	assert.True(t, IsCategory(wrapped, CategoryConfig))
	assert.False(t, IsCategory(wrapped, CategoryEngine))
	assert.False(t, IsCategory(fmt.Errorf("plain"), CategoryConfig))
}

func TestUnwrap(t *testing.T) {
	cause := stdErrors.New("disk full")
	err := OutputDirError("Builds", cause)
	assert.ErrorIs(t, err, cause)
}

func TestCLIErrorAdapter_ExitCodes(t *testing.T) {
	a := NewCLIErrorAdapter(false, nil)

	tests := []struct {
		err  error
		code int
	}{
		{nil, 0},
		{fmt.Errorf("plain"), 1},
		{ValidationFailed("target", "unknown"), 2},
		{ConfigNotFound("x.yaml"), 7},
		{ProjectSettingsError("EditorBuildSettings.asset", stdErrors.New("bad")), 7},
		{OutputDirError("Builds", stdErrors.New("denied")), 11},
		{StorageError("open", stdErrors.New("locked")), 8},
		{InternalError("boom", nil), 10},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.code, a.ExitCodeFor(tt.err), "error: %v", tt.err)
	}
}

func TestCLIErrorAdapter_HandleError(t *testing.T) {
	var logs, out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	a := NewCLIErrorAdapter(false, logger)
	a.out = &out
	exitCode := -1
	a.exit = func(code int) { exitCode = code }

	a.HandleError(ConfigNotFound("missing.yaml"))

	assert.Equal(t, 7, exitCode)
	assert.Equal(t, "configuration file not found\n", out.String())
	assert.Contains(t, logs.String(), "path=missing.yaml")
}

func TestCLIErrorAdapter_FormatVerbose(t *testing.T) {
	a := NewCLIErrorAdapter(true, nil)
	err := OutputDirError("Builds", stdErrors.New("denied"))
	assert.Equal(t, err.Error(), a.FormatError(err))
	assert.Equal(t, "Error: plain", a.FormatError(fmt.Errorf("plain")))
}
