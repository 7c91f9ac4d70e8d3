package rooms

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// customTypesFile is the on-disk layout of a custom palette. JSON files
// decode too, since YAML is a superset of JSON.
type customTypesFile struct {
	RoomTypes []TypeDefinition `yaml:"roomTypes"`
}

// LoadCustomTypes reads a custom room type palette from a YAML or JSON file:
//
//	roomTypes:
//	  - label: Server Room
//	    color: "#0EA5E9"
//
// The result is validated and de-duplicated by label.
func LoadCustomTypes(path string) ([]TypeDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read room types: %w", err)
	}

	var f customTypesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse room types %s: %w", path, err)
	}

	types, err := ValidateCustomTypes(f.RoomTypes)
	if err != nil {
		return nil, fmt.Errorf("room types %s: %w", path, err)
	}
	return DedupeTypes(types), nil
}
