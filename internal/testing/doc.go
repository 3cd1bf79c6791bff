// Package testing holds fixtures shared by package tests: a Unity project
// builder and assertions over the build output tree.
package testing

const (
	testDirPermissions  = 0o750
	testFilePermissions = 0o600
)
