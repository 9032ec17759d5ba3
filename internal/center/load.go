package center

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed centers.yaml
var builtinYAML []byte

type directoryFile struct {
	Centers []Center `yaml:"centers"`
}

// Builtin returns the directory shipped with the binary.
func Builtin() (*Dataset, error) {
	records, err := Decode(builtinYAML)
	if err != nil {
		return nil, fmt.Errorf("center: builtin directory: %w", err)
	}
	return NewDataset(records)
}

// LoadFile reads a YAML or JSON directory file. Both a top-level list of
// records and a document with a "centers" key are accepted.
func LoadFile(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("center: read %s: %w", path, err)
	}
	records, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("center: parse %s: %w", path, err)
	}
	return NewDataset(records)
}

// Decode parses directory bytes without validating them.
func Decode(data []byte) ([]Center, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		var records []Center
		if err := root.Decode(&records); err != nil {
			return nil, err
		}
		return records, nil
	case yaml.MappingNode:
		var file directoryFile
		if err := root.Decode(&file); err != nil {
			return nil, err
		}
		return file.Centers, nil
	default:
		return nil, fmt.Errorf("unexpected document kind %d", root.Kind)
	}
}
