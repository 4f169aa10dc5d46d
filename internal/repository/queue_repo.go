package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/triply/content-engine/internal/database"
	"github.com/triply/content-engine/internal/models"
)

// queueRepo is the concrete implementation of QueueRepository
type queueRepo struct {
	db *database.DB
}

// NewQueueRepo creates a new queue repository
func NewQueueRepo(db *database.DB) QueueRepository {
	return &queueRepo{db: db}
}

const queueColumns = `id, keyword, suggested_title, airport_code, slug, article_type, article_style,
	parent_slug, hub_slug, search_volume, seo_difficulty, target_words, priority, status,
	batch, scheduled_publish_date, competitor_urls, outline, generated_post_id,
	error_message, notes, version, created_at, updated_at`

// Create inserts a new queue item; a duplicate slug surfaces as a
// DuplicateSlug domain error
func (r *queueRepo) Create(ctx context.Context, item *models.QueueItem) error {
	competitorURLs, err := json.Marshal(item.CompetitorURLs)
	if err != nil {
		return fmt.Errorf("marshal competitor_urls: %w", err)
	}
	outline, err := json.Marshal(item.Outline)
	if err != nil {
		return fmt.Errorf("marshal outline: %w", err)
	}

	query := `
		INSERT INTO queue_items (` + queueColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24)
	`
	_, err = r.db.ExecContext(ctx, query,
		item.ID, item.Keyword, item.SuggestedTitle, item.AirportCode, item.Slug,
		item.ArticleType, item.ArticleStyle,
		nullString(item.ParentSlug), nullString(item.HubSlug),
		nullInt(item.SearchVolume), nullInt(item.SEODifficulty),
		item.TargetWords, item.Priority, item.Status,
		nullString(item.Batch), item.ScheduledPublishDate,
		competitorURLs, outline,
		nullString(item.GeneratedPostID), nullString(item.ErrorMessage),
		nullString(item.Notes), item.Version, item.CreatedAt, item.UpdatedAt,
	)
	if database.IsUniqueViolation(err) {
		return models.NewDuplicateSlugError(item.Slug)
	}
	return err
}

// GetByID retrieves a queue item by ID
func (r *queueRepo) GetByID(ctx context.Context, id string) (*models.QueueItem, error) {
	query := `SELECT ` + queueColumns + ` FROM queue_items WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// GetBySlug retrieves a queue item by slug
func (r *queueRepo) GetBySlug(ctx context.Context, slug string) (*models.QueueItem, error) {
	query := `SELECT ` + queueColumns + ` FROM queue_items WHERE slug = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, slug))
}

// GetByGeneratedPost resolves which queue item produced a post. The forward
// link lives on the queue item only, so this is a reverse lookup.
func (r *queueRepo) GetByGeneratedPost(ctx context.Context, postID string) (*models.QueueItem, error) {
	query := `SELECT ` + queueColumns + ` FROM queue_items WHERE generated_post_id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, postID))
}

// List retrieves queue items matching the filter's indexed fields
func (r *queueRepo) List(ctx context.Context, filter models.QueueFilter) ([]*models.QueueItem, error) {
	query := `SELECT ` + queueColumns + ` FROM queue_items WHERE 1=1`
	var args []interface{}
	idx := 1
	if filter.AirportCode != "" {
		query += fmt.Sprintf(" AND airport_code = $%d", idx)
		args = append(args, filter.AirportCode)
		idx++
	}
	if filter.ArticleType != "" {
		query += fmt.Sprintf(" AND article_type = $%d", idx)
		args = append(args, filter.ArticleType)
		idx++
	}
	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", idx)
		args = append(args, filter.Status)
		idx++
	}
	if filter.Batch != "" {
		query += fmt.Sprintf(" AND batch = $%d", idx)
		args = append(args, filter.Batch)
		idx++
	}
	query += " ORDER BY priority, slug"
	return r.scanMany(ctx, query, args...)
}

// ListByHub retrieves all queue items whose hub_slug matches
func (r *queueRepo) ListByHub(ctx context.Context, hubSlug string) ([]*models.QueueItem, error) {
	query := `SELECT ` + queueColumns + ` FROM queue_items WHERE hub_slug = $1 ORDER BY priority, slug`
	return r.scanMany(ctx, query, hubSlug)
}

// ListByParent retrieves all queue items whose parent_slug matches
func (r *queueRepo) ListByParent(ctx context.Context, parentSlug string) ([]*models.QueueItem, error) {
	query := `SELECT ` + queueColumns + ` FROM queue_items WHERE parent_slug = $1 ORDER BY priority, slug`
	return r.scanMany(ctx, query, parentSlug)
}

// ListByBatch retrieves all queue items in a named batch
func (r *queueRepo) ListByBatch(ctx context.Context, batch string) ([]*models.QueueItem, error) {
	query := `SELECT ` + queueColumns + ` FROM queue_items WHERE batch = $1 ORDER BY scheduled_publish_date, priority, slug`
	return r.scanMany(ctx, query, batch)
}

// Update persists all mutable fields with an optimistic-concurrency guard.
// The WHERE clause matches on the version the caller read; zero rows
// affected means either the row is gone or another writer won the race.
func (r *queueRepo) Update(ctx context.Context, item *models.QueueItem, expectedVersion int) error {
	competitorURLs, err := json.Marshal(item.CompetitorURLs)
	if err != nil {
		return fmt.Errorf("marshal competitor_urls: %w", err)
	}
	outline, err := json.Marshal(item.Outline)
	if err != nil {
		return fmt.Errorf("marshal outline: %w", err)
	}

	query := `
		UPDATE queue_items SET
			keyword = $1, suggested_title = $2, airport_code = $3,
			article_type = $4, article_style = $5, parent_slug = $6, hub_slug = $7,
			search_volume = $8, seo_difficulty = $9, target_words = $10,
			priority = $11, status = $12, batch = $13, scheduled_publish_date = $14,
			competitor_urls = $15, outline = $16, generated_post_id = $17,
			error_message = $18, notes = $19, version = version + 1, updated_at = $20
		WHERE id = $21 AND version = $22
	`
	result, err := r.db.ExecContext(ctx, query,
		item.Keyword, item.SuggestedTitle, item.AirportCode,
		item.ArticleType, item.ArticleStyle,
		nullString(item.ParentSlug), nullString(item.HubSlug),
		nullInt(item.SearchVolume), nullInt(item.SEODifficulty), item.TargetWords,
		item.Priority, item.Status, nullString(item.Batch), item.ScheduledPublishDate,
		competitorURLs, outline,
		nullString(item.GeneratedPostID), nullString(item.ErrorMessage),
		nullString(item.Notes), time.Now().UTC(),
		item.ID, expectedVersion,
	)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		exists, err := r.exists(ctx, item.ID)
		if err != nil {
			return err
		}
		if !exists {
			return models.NewNotFoundError("queue item", item.ID)
		}
		return models.NewConflictError(item.ID)
	}
	item.Version = expectedVersion + 1
	return nil
}

// SlugExists checks whether a slug is already taken by a queue item
func (r *queueRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM queue_items WHERE slug = $1)`, slug).Scan(&exists)
	return exists, err
}

// Delete removes a queue item; queue items are destroyed only by explicit
// deletion, there is no automatic expiry
func (r *queueRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM queue_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return models.NewNotFoundError("queue item", id)
	}
	return nil
}

func (r *queueRepo) exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM queue_items WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

// rowScanner lets scanOne work for both QueryRow and Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *queueRepo) scanOne(row rowScanner) (*models.QueueItem, error) {
	var item models.QueueItem
	var parentSlug, hubSlug, batch, generatedPostID, errorMessage, notes sql.NullString
	var searchVolume, seoDifficulty sql.NullInt64
	var scheduled sql.NullTime
	var competitorURLs, outline []byte

	err := row.Scan(
		&item.ID, &item.Keyword, &item.SuggestedTitle, &item.AirportCode, &item.Slug,
		&item.ArticleType, &item.ArticleStyle, &parentSlug, &hubSlug,
		&searchVolume, &seoDifficulty, &item.TargetWords, &item.Priority, &item.Status,
		&batch, &scheduled, &competitorURLs, &outline,
		&generatedPostID, &errorMessage, &notes, &item.Version,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	item.ParentSlug = parentSlug.String
	item.HubSlug = hubSlug.String
	item.Batch = batch.String
	item.GeneratedPostID = generatedPostID.String
	item.ErrorMessage = errorMessage.String
	item.Notes = notes.String
	if searchVolume.Valid {
		v := int(searchVolume.Int64)
		item.SearchVolume = &v
	}
	if seoDifficulty.Valid {
		v := int(seoDifficulty.Int64)
		item.SEODifficulty = &v
	}
	if scheduled.Valid {
		t := scheduled.Time
		item.ScheduledPublishDate = &t
	}
	if len(competitorURLs) > 0 {
		if err := json.Unmarshal(competitorURLs, &item.CompetitorURLs); err != nil {
			return nil, fmt.Errorf("unmarshal competitor_urls: %w", err)
		}
	}
	if len(outline) > 0 {
		if err := json.Unmarshal(outline, &item.Outline); err != nil {
			return nil, fmt.Errorf("unmarshal outline: %w", err)
		}
	}

	return &item, nil
}

func (r *queueRepo) scanMany(ctx context.Context, query string, args ...interface{}) ([]*models.QueueItem, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.QueueItem
	for rows.Next() {
		item, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// helper to convert empty string to NULL
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// helper to convert nil int pointer to NULL
func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
