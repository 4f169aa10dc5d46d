package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/triply/content-engine/internal/database"
	"github.com/triply/content-engine/internal/models"
)

// postRepo is the concrete implementation of PostRepository
type postRepo struct {
	db *database.DB
}

// NewPostRepo creates a new post repository
func NewPostRepo(db *database.DB) PostRepository {
	return &postRepo{db: db}
}

const postColumns = `id, title, slug, excerpt, featured_image_id, content, category_id,
	tag_ids, author_id, status, published_at, meta_title, meta_description,
	seo_score, seo_score_details, airport_code, article_type, parent_slug, hub_slug,
	faq_items, created_at, updated_at`

// Create inserts a new post. seo_score columns are left NULL; only the
// scoring gate writes them.
func (r *postRepo) Create(ctx context.Context, post *models.Post) error {
	faqItems, err := json.Marshal(post.FAQItems)
	if err != nil {
		return fmt.Errorf("marshal faq_items: %w", err)
	}

	query := `
		INSERT INTO posts (id, title, slug, excerpt, featured_image_id, content, category_id,
			tag_ids, author_id, status, published_at, meta_title, meta_description,
			airport_code, article_type, parent_slug, hub_slug, faq_items, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`
	_, err = r.db.ExecContext(ctx, query,
		post.ID, post.Title, post.Slug, post.Excerpt,
		nullString(post.FeaturedImageID), post.Content, post.CategoryID,
		pq.Array(post.TagIDs), post.AuthorID, post.Status, post.PublishedAt,
		nullString(post.SEO.MetaTitle), nullString(post.SEO.MetaDescription),
		nullString(post.AirportCode), nullString(string(post.ArticleType)),
		nullString(post.ParentSlug), nullString(post.HubSlug),
		faqItems, post.CreatedAt, post.UpdatedAt,
	)
	if database.IsUniqueViolation(err) {
		return models.NewDuplicateSlugError(post.Slug)
	}
	return err
}

// GetByID retrieves a post by ID
func (r *postRepo) GetByID(ctx context.Context, id string) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// GetBySlug retrieves a post by slug
func (r *postRepo) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE slug = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, slug))
}

// Update persists operator-editable fields. The seo_score columns are
// deliberately absent from the SET list: writing them outside the scoring
// gate is a contract violation.
func (r *postRepo) Update(ctx context.Context, post *models.Post) error {
	faqItems, err := json.Marshal(post.FAQItems)
	if err != nil {
		return fmt.Errorf("marshal faq_items: %w", err)
	}

	query := `
		UPDATE posts SET
			title = $1, slug = $2, excerpt = $3, featured_image_id = $4, content = $5,
			category_id = $6, tag_ids = $7, author_id = $8, status = $9, published_at = $10,
			meta_title = $11, meta_description = $12, airport_code = $13, article_type = $14,
			parent_slug = $15, hub_slug = $16, faq_items = $17, updated_at = $18
		WHERE id = $19
	`
	result, err := r.db.ExecContext(ctx, query,
		post.Title, post.Slug, post.Excerpt, nullString(post.FeaturedImageID), post.Content,
		post.CategoryID, pq.Array(post.TagIDs), post.AuthorID, post.Status, post.PublishedAt,
		nullString(post.SEO.MetaTitle), nullString(post.SEO.MetaDescription),
		nullString(post.AirportCode), nullString(string(post.ArticleType)),
		nullString(post.ParentSlug), nullString(post.HubSlug),
		faqItems, time.Now().UTC(), post.ID,
	)
	if database.IsUniqueViolation(err) {
		return models.NewDuplicateSlugError(post.Slug)
	}
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return models.NewNotFoundError("post", post.ID)
	}
	return nil
}

// UpdateSEOScore writes the score and its breakdown in a single statement,
// the only write path for these columns
func (r *postRepo) UpdateSEOScore(ctx context.Context, id string, score int, details *models.SEOScoreDetails) error {
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("marshal seo_score_details: %w", err)
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE posts SET seo_score = $1, seo_score_details = $2, updated_at = $3 WHERE id = $4`,
		score, detailsJSON, time.Now().UTC(), id,
	)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return models.NewNotFoundError("post", id)
	}
	return nil
}

// SlugExists checks whether a slug is already taken by a post
func (r *postRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM posts WHERE slug = $1)`, slug).Scan(&exists)
	return exists, err
}

func (r *postRepo) scanOne(row rowScanner) (*models.Post, error) {
	var post models.Post
	var featuredImageID, metaTitle, metaDescription sql.NullString
	var airportCode, articleType, parentSlug, hubSlug sql.NullString
	var publishedAt sql.NullTime
	var seoScore sql.NullInt64
	var seoScoreDetails, faqItems []byte
	var tagIDs pq.StringArray

	err := row.Scan(
		&post.ID, &post.Title, &post.Slug, &post.Excerpt, &featuredImageID,
		&post.Content, &post.CategoryID, &tagIDs, &post.AuthorID, &post.Status,
		&publishedAt, &metaTitle, &metaDescription, &seoScore, &seoScoreDetails,
		&airportCode, &articleType, &parentSlug, &hubSlug, &faqItems,
		&post.CreatedAt, &post.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	post.FeaturedImageID = featuredImageID.String
	post.SEO.MetaTitle = metaTitle.String
	post.SEO.MetaDescription = metaDescription.String
	post.AirportCode = airportCode.String
	post.ArticleType = models.ArticleType(articleType.String)
	post.ParentSlug = parentSlug.String
	post.HubSlug = hubSlug.String
	post.TagIDs = tagIDs
	if publishedAt.Valid {
		t := publishedAt.Time
		post.PublishedAt = &t
	}
	if seoScore.Valid {
		v := int(seoScore.Int64)
		post.SEOScore = &v
	}
	if len(seoScoreDetails) > 0 {
		var details models.SEOScoreDetails
		if err := json.Unmarshal(seoScoreDetails, &details); err != nil {
			return nil, fmt.Errorf("unmarshal seo_score_details: %w", err)
		}
		post.SEOScoreDetails = &details
	}
	if len(faqItems) > 0 {
		if err := json.Unmarshal(faqItems, &post.FAQItems); err != nil {
			return nil, fmt.Errorf("unmarshal faq_items: %w", err)
		}
	}

	return &post, nil
}
