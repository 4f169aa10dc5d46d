package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/triply/content-engine/internal/database"
	"github.com/triply/content-engine/internal/models"
)

// mediaRepo is the concrete implementation of MediaRepository
type mediaRepo struct {
	db *database.DB
}

// NewMediaRepo creates a new media repository
func NewMediaRepo(db *database.DB) MediaRepository {
	return &mediaRepo{db: db}
}

// Create inserts a new media metadata record
func (r *mediaRepo) Create(ctx context.Context, media *models.Media) error {
	variants, err := json.Marshal(media.Variants)
	if err != nil {
		return fmt.Errorf("marshal variants: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO media (id, filename, alt, mime_type, width, height, variants, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		media.ID, media.Filename, media.Alt, media.MimeType,
		media.Width, media.Height, variants, media.CreatedAt,
	)
	return err
}

// GetByID retrieves a media record by ID
func (r *mediaRepo) GetByID(ctx context.Context, id string) (*models.Media, error) {
	var m models.Media
	var variants []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT id, filename, alt, mime_type, width, height, variants, created_at FROM media WHERE id = $1`, id,
	).Scan(&m.ID, &m.Filename, &m.Alt, &m.MimeType, &m.Width, &m.Height, &variants, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(variants) > 0 {
		if err := json.Unmarshal(variants, &m.Variants); err != nil {
			return nil, fmt.Errorf("unmarshal variants: %w", err)
		}
	}
	return &m, nil
}
