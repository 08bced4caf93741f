package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"recipebox/models"
	"recipebox/utils"

	"github.com/lib/pq"
)

// PostgresWriter mirrors the seed document into a recipes table
type PostgresWriter struct {
	db     *sql.DB
	logger *utils.Logger
}

// NewPostgresWriter opens the DB and pings it, retrying a few times while it starts up
func NewPostgresWriter(ctx context.Context, connStr string, retries int, logger *utils.Logger) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open DB: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Minute * 5)

	err = utils.RetryWithBackoff(ctx, retries, func() error {
		return db.PingContext(ctx)
	}, logger)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	logger.Info("Connected to PostgreSQL successfully")
	return &PostgresWriter{db: db, logger: logger}, nil
}

// CreateTable creates the recipes table if it doesn't exist
func (w *PostgresWriter) CreateTable(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS recipes (
		id               INTEGER PRIMARY KEY,
		title            TEXT    NOT NULL,
		description      TEXT    NOT NULL DEFAULT '',
		ingredients      TEXT[]  NOT NULL,
		ingredients_text TEXT    NOT NULL DEFAULT '',
		instructions     TEXT    NOT NULL,
		thumbnail_url    TEXT    NOT NULL,
		favorite         BOOLEAN NOT NULL DEFAULT FALSE,
		is_user          BOOLEAN NOT NULL DEFAULT FALSE
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_recipes_title ON recipes (lower(title));
	`
	if _, err := w.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	w.logger.Info("Table 'recipes' is ready")
	return nil
}

// SaveClean replaces the table contents with the document in a single transaction,
// matching the overwrite semantics of the JSON document.
func (w *PostgresWriter) SaveClean(ctx context.Context, doc *models.Document) (err error) {
	if err := w.CreateTable(ctx); err != nil {
		return err
	}

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `TRUNCATE recipes`); err != nil {
		return fmt.Errorf("failed to truncate recipes: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO recipes (id, title, description, ingredients, ingredients_text, instructions, thumbnail_url, favorite, is_user)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range doc.Recipes {
		_, err = stmt.ExecContext(ctx,
			r.ID,
			r.Title,
			r.Description,
			pq.Array(r.Ingredients),
			r.IngredientsText,
			r.Instructions,
			r.ThumbnailURL,
			r.Favorite,
			r.IsUser,
		)
		if err != nil {
			return fmt.Errorf("failed to insert '%s': %w", r.Title, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	w.logger.Info("Replaced PostgreSQL recipes with %d rows", len(doc.Recipes))
	return nil
}

// Close closes the database connection
func (w *PostgresWriter) Close() error {
	if w.db != nil {
		return w.db.Close()
	}
	return nil
}
