package client

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/claude/trainload/internal/models"
)

// ExportFileName is the download name for a dataset export on the given day.
func ExportFileName(now time.Time) string {
	return "trainload_export_" + now.Format("2006-01-02") + ".json"
}

// WriteExport writes ds as indented JSON into dir and returns the file path.
// The file has the GET /api/data shape and can be imported back.
func WriteExport(dir string, ds *models.Dataset, now time.Time) (string, error) {
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding export: %w", err)
	}
	path := filepath.Join(dir, ExportFileName(now))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing export: %w", err)
	}
	return path, nil
}

// ReadImportFile loads an import payload and checks that it has a players
// array before anything is sent to the server.
func ReadImportFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading import file: %w", err)
	}
	if _, err := models.ParseImport(data); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return data, nil
}
