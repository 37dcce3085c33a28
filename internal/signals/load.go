package signals

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a YAML override file and compiles it over the built-in tables.
// Lists present in the file replace the built-in list; weight maps are merged key by key.
func LoadFile(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Message: fmt.Sprintf("failed to read %s", path), Cause: err}
	}
	return Parse(data)
}

// Parse compiles YAML override data over the built-in tables.
func Parse(data []byte) (*Tables, error) {
	raw := defaultRaw()
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &LoadError{Message: "failed to parse signal tables YAML", Cause: err}
	}
	return compile(raw)
}

// Resolve returns the tables from path, or the built-in tables when path is empty.
func Resolve(path string) (*Tables, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}
