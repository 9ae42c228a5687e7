package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"xplm-bindgen/internal/plan"
)

// File is the optional YAML configuration file. Environment values and
// command-line flags take precedence over it.
type File struct {
	// Version of the file schema.
	Version string `yaml:"version,omitempty"`

	// SDK is the X-Plane SDK root. Relative paths are resolved against the
	// directory holding the file.
	SDK string `yaml:"sdk,omitempty"`

	// Versions is the epoch override list, either "A;B" or [A, B].
	Versions StringOrArray `yaml:"versions,omitempty"`

	// Generate requests generation instead of using a pre-built artifact.
	Generate *bool `yaml:"generate,omitempty"`

	Output OutputFile `yaml:"output,omitempty"`

	Parser ParserFile `yaml:"parser,omitempty"`

	// Toolchain overrides the fixed flags preceding every definition set.
	Toolchain *plan.Toolchain `yaml:"toolchain,omitempty"`

	Headers HeadersFile `yaml:"headers,omitempty"`
}

// OutputFile configures where the artifact is written.
type OutputFile struct {
	Dir      string `yaml:"dir,omitempty"`
	Package  string `yaml:"package,omitempty"`
	Artifact string `yaml:"artifact,omitempty"`
}

// ParserFile configures the external parser command.
type ParserFile struct {
	Command string   `yaml:"command,omitempty"`
	Args    []string `yaml:"args,omitempty"`
}

// HeadersFile tunes header discovery.
type HeadersFile struct {
	// Exclude lists header base names never handed to the parser.
	Exclude []string `yaml:"exclude,omitempty"`
}

// LoadFile loads and parses a YAML configuration file from the given path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a File.
func Parse(data []byte) (*File, error) {
	var f File

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	// An empty document is a valid empty config.
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	applyDefaults(&f)

	return &f, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(f *File) {
	if f.Version == "" {
		f.Version = "1"
	}
}
