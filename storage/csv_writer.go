package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"recipebox/models"
	"recipebox/utils"
)

// CSVWriter dumps raw meals to a CSV file for auditing what the API returned
type CSVWriter struct {
	filePath string
	logger   *utils.Logger
}

// NewCSVWriter creates a new CSVWriter
func NewCSVWriter(filePath string, logger *utils.Logger) *CSVWriter {
	return &CSVWriter{filePath: filePath, logger: logger}
}

// SaveRaw writes one row per raw meal, in fetch order
func (w *CSVWriter) SaveRaw(records []models.RawRecord) error {
	if dir := filepath.Dir(w.filePath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(w.filePath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	header := []string{"id", "title", "category", "area", "thumbnail", "ingredient_slots", "has_instructions"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range records {
		slots := 0
		for i := 1; i <= ingredientSlotCount; i++ {
			if r.Get(models.IngredientField(i)) != "" {
				slots++
			}
		}
		row := []string{
			r.ID(),
			r.Get("strMeal"),
			r.Get("strCategory"),
			r.Get("strArea"),
			r.Get("strMealThumb"),
			strconv.Itoa(slots),
			strconv.FormatBool(r.Get("strInstructions") != ""),
		}
		if err := writer.Write(row); err != nil {
			w.logger.Error("Failed to write CSV row for '%s': %v", r.Get("strMeal"), err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	w.logger.Info("Raw records written to: %s (%d rows)", w.filePath, len(records))
	return nil
}

const ingredientSlotCount = 20
