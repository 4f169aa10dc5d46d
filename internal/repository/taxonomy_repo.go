package repository

import (
	"context"
	"database/sql"

	"github.com/triply/content-engine/internal/database"
	"github.com/triply/content-engine/internal/models"
)

// taxonomyRepo is the concrete implementation of TaxonomyRepository
type taxonomyRepo struct {
	db *database.DB
}

// NewTaxonomyRepo creates a new taxonomy repository
func NewTaxonomyRepo(db *database.DB) TaxonomyRepository {
	return &taxonomyRepo{db: db}
}

// CreateCategory inserts a new category
func (r *taxonomyRepo) CreateCategory(ctx context.Context, category *models.Category) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (id, name, slug, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		category.ID, category.Name, category.Slug, category.CreatedAt, category.UpdatedAt,
	)
	if database.IsUniqueViolation(err) {
		return models.NewDuplicateSlugError(category.Slug)
	}
	return err
}

// GetCategory retrieves a category by ID
func (r *taxonomyRepo) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	var c models.Category
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, slug, created_at, updated_at FROM categories WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCategories retrieves all categories ordered by name
func (r *taxonomyRepo) ListCategories(ctx context.Context) ([]*models.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, slug, created_at, updated_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

// CreateTag inserts a new tag
func (r *taxonomyRepo) CreateTag(ctx context.Context, tag *models.Tag) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tags (id, name, slug, created_at) VALUES ($1, $2, $3, $4)`,
		tag.ID, tag.Name, tag.Slug, tag.CreatedAt,
	)
	if database.IsUniqueViolation(err) {
		return models.NewDuplicateSlugError(tag.Slug)
	}
	return err
}

// GetTag retrieves a tag by ID
func (r *taxonomyRepo) GetTag(ctx context.Context, id string) (*models.Tag, error) {
	var t models.Tag
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, slug, created_at FROM tags WHERE id = $1`, id,
	).Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTags retrieves all tags ordered by name
func (r *taxonomyRepo) ListTags(ctx context.Context) ([]*models.Tag, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, slug, created_at FROM tags ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}

// CreateAuthor inserts a new author
func (r *taxonomyRepo) CreateAuthor(ctx context.Context, author *models.Author) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO authors (id, name, email, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		author.ID, author.Name, author.Email, author.CreatedAt, author.UpdatedAt,
	)
	if database.IsUniqueViolation(err) {
		return models.NewValidationError("email", "email is already in use")
	}
	return err
}

// GetAuthor retrieves an author by ID
func (r *taxonomyRepo) GetAuthor(ctx context.Context, id string) (*models.Author, error) {
	var a models.Author
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, created_at, updated_at FROM authors WHERE id = $1`, id,
	).Scan(&a.ID, &a.Name, &a.Email, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAuthors retrieves all authors ordered by name
func (r *taxonomyRepo) ListAuthors(ctx context.Context) ([]*models.Author, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, email, created_at, updated_at FROM authors ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Author
	for rows.Next() {
		var a models.Author
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}
