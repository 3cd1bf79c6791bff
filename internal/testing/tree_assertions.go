package testing

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TreeAssertions checks a project or build output tree. Paths are relative to
// the root and use forward slashes.
type TreeAssertions struct {
	t    *testing.T
	root string
}

// NewTreeAssertions returns assertions rooted at root.
func NewTreeAssertions(t *testing.T, root string) *TreeAssertions {
	return &TreeAssertions{t: t, root: root}
}

func (ta *TreeAssertions) path(rel string) string {
	return filepath.Join(ta.root, filepath.FromSlash(rel))
}

// HasFile fails unless rel is a regular file.
func (ta *TreeAssertions) HasFile(rel string) *TreeAssertions {
	ta.t.Helper()
	info, err := os.Stat(ta.path(rel))
	if assert.NoError(ta.t, err, "expected file %s", rel) {
		assert.False(ta.t, info.IsDir(), "%s is a directory", rel)
	}
	return ta
}

// HasDir fails unless rel is a directory.
func (ta *TreeAssertions) HasDir(rel string) *TreeAssertions {
	ta.t.Helper()
	assert.DirExists(ta.t, ta.path(rel))
	return ta
}

// Missing fails if rel exists.
func (ta *TreeAssertions) Missing(rel string) *TreeAssertions {
	ta.t.Helper()
	assert.NoFileExists(ta.t, ta.path(rel))
	assert.NoDirExists(ta.t, ta.path(rel))
	return ta
}

// FileContains fails unless rel contains want.
func (ta *TreeAssertions) FileContains(rel, want string) *TreeAssertions {
	ta.t.Helper()
	data, err := os.ReadFile(ta.path(rel))
	if assert.NoError(ta.t, err) {
		assert.True(ta.t, strings.Contains(string(data), want), "%s does not contain %q:\n%s", rel, want, data)
	}
	return ta
}

// HasPlatformDir fails unless Builds/<version_underscored>/<label> exists
// under the tree.
func (ta *TreeAssertions) HasPlatformDir(buildsRoot, version, label string) *TreeAssertions {
	ta.t.Helper()
	return ta.HasDir(buildsRoot + "/" + strings.ReplaceAll(version, ".", "_") + "/" + label)
}
