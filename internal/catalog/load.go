package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/trainhub/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed library.yaml
var defaultLibrary []byte

// File is the on-disk catalog layout, shared by YAML and JSON files.
type File struct {
	Activities []domain.Activity `json:"activities" yaml:"activities"`
	Tools      []domain.Tool     `json:"tools" yaml:"tools"`
}

// Default returns the activity and tool library shipped with the binary.
func Default() (*Catalog, error) {
	c, err := Parse(defaultLibrary, FormatYAML)
	if err != nil {
		return nil, fmt.Errorf("loading built-in library: %w", err)
	}
	return c, nil
}

// Load reads a catalog file. The format is chosen by extension:
// .json is JSON, .yaml and .yml are YAML.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	format, err := formatForPath(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Format identifies a catalog encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

func formatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported catalog extension %q (want .yaml, .yml or .json)", filepath.Ext(path))
	}
}

// Parse decodes and validates catalog data.
func Parse(data []byte, format Format) (*Catalog, error) {
	var f File
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("parsing catalog JSON: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("parsing catalog YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown catalog format %q", format)
	}
	return New(f.Activities, f.Tools)
}
