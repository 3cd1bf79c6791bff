package testing

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ProjectBuilder provides a fluent interface for creating Unity project
// fixtures on disk.
type ProjectBuilder struct {
	t           *testing.T
	productName string
	companyName string
	version     string
	scenes      []fixtureScene
}

type fixtureScene struct {
	path    string
	enabled bool
}

// NewProjectBuilder creates a project builder with Unity's new-project defaults.
func NewProjectBuilder(t *testing.T) *ProjectBuilder {
	return &ProjectBuilder{
		t:           t,
		productName: "Game",
		companyName: "DefaultCompany",
		version:     "0.1",
	}
}

// WithProductName sets PlayerSettings.productName.
func (pb *ProjectBuilder) WithProductName(name string) *ProjectBuilder {
	pb.productName = name
	return pb
}

// WithVersion sets PlayerSettings.bundleVersion.
func (pb *ProjectBuilder) WithVersion(version string) *ProjectBuilder {
	pb.version = version
	return pb
}

// WithScene appends a scene to the build settings registry.
func (pb *ProjectBuilder) WithScene(path string, enabled bool) *ProjectBuilder {
	pb.scenes = append(pb.scenes, fixtureScene{path: path, enabled: enabled})
	return pb
}

// Build writes the project under a fresh temp dir and returns its path.
func (pb *ProjectBuilder) Build() string {
	pb.t.Helper()
	root := pb.t.TempDir()
	pb.BuildAt(root)
	return root
}

// BuildAt writes ProjectSettings/*.asset under root.
func (pb *ProjectBuilder) BuildAt(root string) {
	pb.t.Helper()
	dir := filepath.Join(root, "ProjectSettings")
	if err := os.MkdirAll(dir, testDirPermissions); err != nil {
		pb.t.Fatalf("Failed to create ProjectSettings: %v", err)
	}
	pb.write(filepath.Join(dir, "EditorBuildSettings.asset"), pb.editorBuildSettings())
	pb.write(filepath.Join(dir, "ProjectSettings.asset"), pb.playerSettings())
}

func (pb *ProjectBuilder) write(path, content string) {
	pb.t.Helper()
	if err := os.WriteFile(path, []byte(content), testFilePermissions); err != nil {
		pb.t.Fatalf("Failed to write %s: %v", path, err)
	}
}

const assetHeader = "%YAML 1.1\n%TAG !u! tag:unity3d.com,2011:\n"

func (pb *ProjectBuilder) editorBuildSettings() string {
	var b strings.Builder
	b.WriteString(assetHeader)
	b.WriteString("--- !u!1045 &1\nEditorBuildSettings:\n  m_ObjectHideFlags: 0\n  serializedVersion: 2\n")
	if len(pb.scenes) == 0 {
		b.WriteString("  m_Scenes: []\n")
		return b.String()
	}
	b.WriteString("  m_Scenes:\n")
	for _, s := range pb.scenes {
		enabled := 0
		if s.enabled {
			enabled = 1
		}
		fmt.Fprintf(&b, "  - enabled: %d\n    path: %s\n", enabled, s.path)
	}
	return b.String()
}

func (pb *ProjectBuilder) playerSettings() string {
	return assetHeader + fmt.Sprintf("--- !u!129 &1\nPlayerSettings:\n  m_ObjectHideFlags: 0\n"+
		"  companyName: %s\n  productName: %s\n  bundleVersion: %s\n",
		pb.companyName, pb.productName, pb.version)
}
