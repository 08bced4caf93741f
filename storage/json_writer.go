package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"recipebox/models"
	"recipebox/utils"
)

// JSONWriter writes the seed document to a file, replacing whatever was there
type JSONWriter struct {
	filePath string
	logger   *utils.Logger
}

// NewJSONWriter creates a new JSONWriter
func NewJSONWriter(filePath string, logger *utils.Logger) *JSONWriter {
	return &JSONWriter{filePath: filePath, logger: logger}
}

// SaveClean overwrites the file with the document. The write is not atomic.
func (w *JSONWriter) SaveClean(ctx context.Context, doc *models.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := writeDocument(w.filePath, doc); err != nil {
		return err
	}
	w.logger.Info("Seed document written to: %s (%d recipes)", w.filePath, len(doc.Recipes))
	return nil
}

func (w *JSONWriter) Close() error { return nil }

func writeDocument(path string, doc *models.Document) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if doc.Recipes == nil {
		doc = &models.Document{Recipes: []models.OutputRecipe{}}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func readDocument(path string) (*models.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc models.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return &doc, nil
}
