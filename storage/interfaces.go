package storage

import (
	"context"

	"recipebox/models"
)

// RawStorage defines the interface for storing raw fetched meals
type RawStorage interface {
	SaveRaw(records []models.RawRecord) error
}

// CleanStorage defines the interface for storing the final seed document
type CleanStorage interface {
	SaveClean(ctx context.Context, doc *models.Document) error
	Close() error
}
