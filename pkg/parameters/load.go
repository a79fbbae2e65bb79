package parameters

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// File is the on-disk layout of a parameter set.
type File struct {
	Parameters []Definition `yaml:"parameters"`
}

// Load decodes a YAML parameter file and builds a store from it.
func Load(r io.Reader) (*Parameters, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse parameters: %w", err)
	}
	return New(f.Parameters...)
}

// LoadFile reads a YAML parameter file from disk.
func LoadFile(path string) (*Parameters, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parameters: %w", err)
	}
	return Load(bytes.NewReader(data))
}

// Defaults returns a fresh store holding the built-in parameter set.
func Defaults() *Parameters {
	p, err := Load(bytes.NewReader(defaultsYAML))
	if err != nil {
		// The embedded file is covered by tests; failing here is a build defect.
		panic(fmt.Sprintf("parameters: invalid embedded defaults: %v", err))
	}
	return p
}
