package shared

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// MarshalJSON marshals data to JSON, optionally indented for readability.
func MarshalJSON(data any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(data, "", "  ")
	}
	return json.Marshal(data)
}

// WriteJSONFile marshals data and writes it to path, creating parent
// directories as needed.
func WriteJSONFile(path string, data any) error {
	out, err := MarshalJSON(data, true)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

// ReadJSONFile reads path and unmarshals it into target.
func ReadJSONFile(path string, target any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}
