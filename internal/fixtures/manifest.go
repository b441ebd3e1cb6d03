// Package fixtures loads the YAML-described end-to-end fixture manifest
// (testdata/fixtures/manifest.yaml) that drives the ember test suite and
// the "ember test" CLI sub-command. Each entry names a .ember program, the
// stage it exercises, and whether that stage is expected to fail.
package fixtures

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

// Stage names the pipeline stage a fixture exercises.
type Stage string

const (
	StageLex   Stage = "lex"
	StageParse Stage = "parse"
	StageExec  Stage = "exec"
	StageComp  Stage = "comp"
)

// Fixture describes one end-to-end test case.
type Fixture struct {
	Name        string `yaml:"name"`
	File        string `yaml:"file"`
	Stage       Stage  `yaml:"stage"`
	Argv        string `yaml:"argv,omitempty"`
	ExpectError bool   `yaml:"expect_error,omitempty"`
}

// Manifest is the top-level shape of manifest.yaml.
type Manifest struct {
	Fixtures []Fixture `yaml:"fixtures"`
}

// Load reads and decodes a fixture manifest from path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fixtures: reading manifest %s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("fixtures: decoding manifest %s: %w", path, err)
	}
	return &m, nil
}

// Source reads a fixture's .ember program, resolved relative to the
// manifest's own directory.
func (f Fixture) Source(manifestPath string) (string, error) {
	path := filepath.Join(filepath.Dir(manifestPath), f.File)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("fixtures: reading %s: %w", path, err)
	}
	return string(data), nil
}
