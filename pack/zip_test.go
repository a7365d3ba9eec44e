package pack

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"
)

func TestZip_RoundTrip(t *testing.T) {
	files := []File{
		{Name: "Downtown.iif", Content: "!TRNS\nENDTRNS\n"},
		{Name: "Uptown.iif", Content: "!TRNS\n"},
	}

	blob, err := Zip(files)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	reader, err := zip.NewReader(bytes.NewReader(blob), int64(len(blob)))
	if err != nil {
		t.Fatalf("Failed to open archive: %v", err)
	}
	if len(reader.File) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(reader.File))
	}

	for i, f := range files {
		entry := reader.File[i]
		if entry.Name != f.Name {
			t.Errorf("Entry %d: expected '%s', got '%s'", i, f.Name, entry.Name)
		}
		rc, err := entry.Open()
		if err != nil {
			t.Fatalf("Failed to open entry: %v", err)
		}
		content, _ := io.ReadAll(rc)
		rc.Close()
		if string(content) != f.Content {
			t.Errorf("Entry %d: content mismatch", i)
		}
	}
}

func TestZip_Empty(t *testing.T) {
	blob, err := Zip(nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, err := zip.NewReader(bytes.NewReader(blob), int64(len(blob))); err != nil {
		t.Errorf("Expected a valid empty archive: %v", err)
	}
}
