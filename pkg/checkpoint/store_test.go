package checkpoint

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "steam.index"))

	value, err := store.Load()
	if err != nil {
		t.Fatalf("Load on missing file should not error, got %v", err)
	}
	if value != 0 {
		t.Errorf("Expected 0 for missing file, got %d", value)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "steam.index"))

	tests := []int{0, 10, 100, 27075}

	for _, value := range tests {
		if err := store.Save(value); err != nil {
			t.Fatalf("Save(%d) failed: %v", value, err)
		}

		got, err := store.Load()
		if err != nil {
			t.Fatalf("Load after Save(%d) failed: %v", value, err)
		}
		if got != value {
			t.Errorf("Round trip: saved %d, loaded %d", value, got)
		}
	}
}

func TestSaveFileFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "steam.index")
	store := NewStore(path)

	if err := store.Save(1500); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read checkpoint file: %v", err)
	}
	if string(data) != "1500\n" {
		t.Errorf("Expected file content %q, got %q", "1500\n", string(data))
	}
}

func TestLoadMalformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "text", content: "not a number\n"},
		{name: "float", content: "12.5\n"},
		{name: "negative", content: "-3\n"},
		{name: "empty", content: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "steam.index")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("Failed to seed file: %v", err)
			}

			_, err := NewStore(path).Load()
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("Expected ErrMalformed, got %v", err)
			}
		})
	}
}

func TestLoadTrimsWhitespace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "steam.index")
	if err := os.WriteFile(path, []byte("  420 \n"), 0o644); err != nil {
		t.Fatalf("Failed to seed file: %v", err)
	}

	value, err := NewStore(path).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if value != 420 {
		t.Errorf("Expected 420, got %d", value)
	}
}

func TestSaveRejectsNegative(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "steam.index"))

	if err := store.Save(-1); err == nil {
		t.Error("Expected error for negative value")
	}
}

func TestSaveCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "nested", "steam.index")
	store := NewStore(path)

	if err := store.Save(7); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	value, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if value != 7 {
		t.Errorf("Expected 7, got %d", value)
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(filepath.Join(dir, "steam.index"))

	for i := 0; i < 5; i++ {
		if err := store.Save(i * 100); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("Expected only the checkpoint file, found %v", names)
	}
}

func TestReset(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "steam.index"))

	if err := store.Save(900); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Reset(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	value, err := store.Load()
	if err != nil {
		t.Fatalf("Load after Reset failed: %v", err)
	}
	if value != 0 {
		t.Errorf("Expected 0 after Reset, got %d", value)
	}
}
