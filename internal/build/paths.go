package build

import (
	"path/filepath"
	"strings"
)

// DefaultBuildsRoot is the directory all version-tagged build output lives under.
const DefaultBuildsRoot = "Builds"

// VersionDir returns the version directory name: dots become underscores.
func VersionDir(version string) string {
	return strings.ReplaceAll(version, ".", "_")
}

// OutputDir returns <buildsRoot>/<version_underscored>/<platformLabel>.
func OutputDir(buildsRoot, version, platformLabel string) string {
	if buildsRoot == "" {
		buildsRoot = DefaultBuildsRoot
	}
	return filepath.Join(buildsRoot, VersionDir(version), platformLabel)
}

// LocationPath returns the build location inside outputDir. With an extension
// it is <outputDir>/<productName><ext>; without one it is outputDir itself.
func LocationPath(outputDir, productName, extension string) string {
	if extension == "" {
		return outputDir
	}
	return filepath.Join(outputDir, productName+extension)
}
