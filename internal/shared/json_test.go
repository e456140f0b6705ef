package shared

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteAndReadJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data.json")

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	if err := WriteJSONFile(path, payload{Name: "aria", Count: 3}); err != nil {
		t.Fatalf("WriteJSONFile() error = %v", err)
	}

	var got payload
	if err := ReadJSONFile(path, &got); err != nil {
		t.Fatalf("ReadJSONFile() error = %v", err)
	}
	if got.Name != "aria" || got.Count != 3 {
		t.Errorf("round trip = %+v", got)
	}
}

func TestReadJSONFileMissing(t *testing.T) {
	var target any
	if err := ReadJSONFile(filepath.Join(t.TempDir(), "absent.json"), &target); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestMarshalJSON(t *testing.T) {
	data := map[string]int{"a": 1}

	compact, err := MarshalJSON(data, false)
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	if strings.Contains(string(compact), "\n") {
		t.Errorf("compact output should be one line, got %q", compact)
	}

	pretty, err := MarshalJSON(data, true)
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	if !strings.Contains(string(pretty), "\n") {
		t.Errorf("pretty output should be indented, got %q", pretty)
	}
}
