package invoicing

import (
	"archive/zip"
	"bytes"
	"fmt"

	"github.com/google/uuid"
)

// ArchiveKey is the storage key a batch run's archive is uploaded under
func ArchiveKey(jobID uuid.UUID) string {
	return fmt.Sprintf("batches/%s.zip", jobID)
}

// BuildArchive packs rendered documents into a zip archive, preserving
// the given order. Duplicate filenames get a numeric suffix so no entry
// silently overwrites another.
func BuildArchive(docs []RenderedDocument) ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	seen := make(map[string]int, len(docs))
	for _, doc := range docs {
		name := doc.FileName
		if n := seen[name]; n > 0 {
			name = fmt.Sprintf("%s (%d)", name, n)
		}
		seen[doc.FileName]++

		entry, err := w.Create(name)
		if err != nil {
			return nil, fmt.Errorf("failed to create archive entry %s: %w", name, err)
		}
		if _, err := entry.Write(doc.Data); err != nil {
			return nil, fmt.Errorf("failed to write archive entry %s: %w", name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}

	return buf.Bytes(), nil
}
