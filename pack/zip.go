// Package pack bundles the converters' named output blobs into a single
// zip archive for download.
package pack

import (
	"archive/zip"
	"bytes"
	"fmt"
)

// File is one named text blob to package.
type File struct {
	Name    string
	Content string
}

// Zip writes every file into one archive, preserving order.
func Zip(files []File) ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	for _, f := range files {
		entry, err := w.Create(f.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to create zip entry %q: %w", f.Name, err)
		}
		if _, err := entry.Write([]byte(f.Content)); err != nil {
			return nil, fmt.Errorf("failed to write zip entry %q: %w", f.Name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize zip: %w", err)
	}
	return buf.Bytes(), nil
}
