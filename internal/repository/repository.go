package repository

import (
	"context"

	"github.com/triply/content-engine/internal/database"
	"github.com/triply/content-engine/internal/models"
)

// QueueRepository defines the interface for content queue data operations
type QueueRepository interface {
	Create(ctx context.Context, item *models.QueueItem) error
	GetByID(ctx context.Context, id string) (*models.QueueItem, error)
	GetBySlug(ctx context.Context, slug string) (*models.QueueItem, error)
	GetByGeneratedPost(ctx context.Context, postID string) (*models.QueueItem, error)
	List(ctx context.Context, filter models.QueueFilter) ([]*models.QueueItem, error)
	ListByHub(ctx context.Context, hubSlug string) ([]*models.QueueItem, error)
	ListByParent(ctx context.Context, parentSlug string) ([]*models.QueueItem, error)
	ListByBatch(ctx context.Context, batch string) ([]*models.QueueItem, error)
	// Update persists all mutable fields guarded by the item's current
	// version. It returns a ConflictError when the row was modified
	// concurrently, so status transitions serialize per item.
	Update(ctx context.Context, item *models.QueueItem, expectedVersion int) error
	SlugExists(ctx context.Context, slug string) (bool, error)
	Delete(ctx context.Context, id string) error
}

// PostRepository defines the interface for post data operations.
// Update never touches the seo_score columns; those are written exclusively
// through UpdateSEOScore so the scoring gate stays the only writer.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	UpdateSEOScore(ctx context.Context, id string, score int, details *models.SEOScoreDetails) error
	SlugExists(ctx context.Context, slug string) (bool, error)
}

// TaxonomyRepository defines the interface for category, tag and author records
type TaxonomyRepository interface {
	CreateCategory(ctx context.Context, category *models.Category) error
	GetCategory(ctx context.Context, id string) (*models.Category, error)
	ListCategories(ctx context.Context) ([]*models.Category, error)
	CreateTag(ctx context.Context, tag *models.Tag) error
	GetTag(ctx context.Context, id string) (*models.Tag, error)
	ListTags(ctx context.Context) ([]*models.Tag, error)
	CreateAuthor(ctx context.Context, author *models.Author) error
	GetAuthor(ctx context.Context, id string) (*models.Author, error)
	ListAuthors(ctx context.Context) ([]*models.Author, error)
}

// MediaRepository defines the interface for media metadata records
type MediaRepository interface {
	Create(ctx context.Context, media *models.Media) error
	GetByID(ctx context.Context, id string) (*models.Media, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	Queue    QueueRepository
	Post     PostRepository
	Taxonomy TaxonomyRepository
	Media    MediaRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Queue:    NewQueueRepo(db),
		Post:     NewPostRepo(db),
		Taxonomy: NewTaxonomyRepo(db),
		Media:    NewMediaRepo(db),
	}
}
