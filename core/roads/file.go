package roads

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type fileFormat struct {
	Roads []Segment `yaml:"roads"`
}

// LoadFile reads segments from a YAML document of the form
//
//	roads:
//	  - road_id: 1
//	    name: Main Street
//	    region: North
func LoadFile(path string) ([]Segment, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read road directory: %w", err)
	}
	var f fileFormat
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse road directory %s: %w", path, err)
	}
	return f.Roads, nil
}

// NewMemoryFromFile seeds a Memory directory from path. An empty path yields
// an empty directory.
func NewMemoryFromFile(path string) (*Memory, error) {
	if path == "" {
		return NewMemory(), nil
	}
	segs, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return NewMemory(segs...), nil
}
