// internal/storage/memory/export.go
package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	v1 "github.com/dinorampage/combat/internal/storage/memory/export/v1"
	"github.com/dinorampage/combat/pkg/core"
)

// exportJSON writes the session data to a JSON file, gzipped when configured.
// Callers hold b.mu.
func (b *Backend) exportJSON(sum *core.SessionSummary) error {
	export := v1.Build(&v1.SessionData{
		Session: b.session,
		Summary: sum,
		Events:  b.events,
	})

	outputPath := filepath.Join(b.cfg.OutputDir, exportFilename(b.session, b.cfg.CompressOutput))

	// Ensure output directory exists
	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := writeExport(outputPath, export, b.cfg.CompressOutput); err != nil {
		return err
	}

	b.lastExportPath = outputPath
	return nil
}

// exportFilename is name_id_timestamp with path-unsafe characters replaced.
func exportFilename(s *core.Session, compress bool) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case ' ', ':', '/', '\\':
			return '_'
		}
		return r
	}, s.Name)
	if name == "" {
		name = "session"
	}
	timestamp := s.StartTime.UTC().Format("20060102_150405")

	filename := fmt.Sprintf("%s_%d_%s.json", name, s.ID, timestamp)
	if compress {
		filename += ".gz"
	}
	return filename
}

func writeExport(path string, data v1.Export, compress bool) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close file: %w", cerr)
		}
	}()

	if !compress {
		return json.NewEncoder(f).Encode(data)
	}

	gzWriter := gzip.NewWriter(f)
	if err := json.NewEncoder(gzWriter).Encode(data); err != nil {
		gzWriter.Close()
		return fmt.Errorf("failed to encode export: %w", err)
	}
	if err := gzWriter.Close(); err != nil {
		return fmt.Errorf("failed to finish gzip stream: %w", err)
	}
	return nil
}
