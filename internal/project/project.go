// Package project reads build inputs from a Unity project's serialized settings.
package project

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/autobuilder/internal/build"
	abErrors "git.home.luguber.info/inful/autobuilder/internal/errors"
)

const (
	settingsDir           = "ProjectSettings"
	editorBuildSettings   = "EditorBuildSettings.asset"
	playerSettingsAsset   = "ProjectSettings.asset"
	defaultProductName    = "Game"
	defaultProductVersion = "0.1"
)

// PlayerSettings holds the player settings the dispatcher needs.
type PlayerSettings struct {
	ProductName   string `yaml:"productName"`
	CompanyName   string `yaml:"companyName"`
	BundleVersion string `yaml:"bundleVersion"`
}

type editorBuildSettingsDoc struct {
	EditorBuildSettings struct {
		Scenes []struct {
			Enabled int    `yaml:"enabled"`
			Path    string `yaml:"path"`
		} `yaml:"m_Scenes"`
	} `yaml:"EditorBuildSettings"`
}

type playerSettingsDoc struct {
	PlayerSettings PlayerSettings `yaml:"PlayerSettings"`
}

// ReadSceneRegistry returns the scene registry of the project at projectPath
// in registry order, disabled entries included.
func ReadSceneRegistry(projectPath string) ([]build.Scene, error) {
	path := filepath.Join(projectPath, settingsDir, editorBuildSettings)
	var doc editorBuildSettingsDoc
	if err := decodeFile(path, &doc); err != nil {
		return nil, err
	}

	scenes := make([]build.Scene, 0, len(doc.EditorBuildSettings.Scenes))
	for _, s := range doc.EditorBuildSettings.Scenes {
		scenes = append(scenes, build.Scene{Path: s.Path, Enabled: s.Enabled != 0})
	}
	return scenes, nil
}

// ReadPlayerSettings returns the product name and version of the project at
// projectPath. Missing values fall back to the editor's defaults for a new project.
func ReadPlayerSettings(projectPath string) (PlayerSettings, error) {
	path := filepath.Join(projectPath, settingsDir, playerSettingsAsset)
	var doc playerSettingsDoc
	if err := decodeFile(path, &doc); err != nil {
		return PlayerSettings{}, err
	}

	ps := doc.PlayerSettings
	if ps.ProductName == "" {
		ps.ProductName = defaultProductName
	}
	if ps.BundleVersion == "" {
		ps.BundleVersion = defaultProductVersion
	}
	return ps, nil
}

func decodeFile(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return abErrors.ProjectSettingsError(path, err)
	}
	if err := Decode(data, out); err != nil {
		return abErrors.ProjectSettingsError(path, err)
	}
	return nil
}

// Decode unmarshals the first document of a Unity serialized asset.
// Unity writes a %TAG directive and "--- !u!<classID> &<fileID>" document
// markers that plain YAML decoding rejects, so both are removed first.
func Decode(data []byte, out any) error {
	var cleaned bytes.Buffer
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "%"):
			continue
		case strings.HasPrefix(line, "--- "):
			line = "---"
		}
		cleaned.WriteString(line)
		cleaned.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan asset: %w", err)
	}

	if err := yaml.Unmarshal(cleaned.Bytes(), out); err != nil {
		return fmt.Errorf("decode asset: %w", err)
	}
	return nil
}
