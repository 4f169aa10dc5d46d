package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/triply/content-engine/internal/models"
	"github.com/triply/content-engine/internal/repository"
	"github.com/triply/content-engine/internal/security"
	"github.com/triply/content-engine/internal/validation"
)

// contentService manages posts, taxonomy and media. Post content is
// sanitized on every write; the SEO score columns are never written here.
type contentService struct {
	repos     *repository.Repositories
	sanitizer security.Sanitizer
	log       zerolog.Logger
}

// newContentService creates a new ContentService
func newContentService(repos *repository.Repositories, sanitizer security.Sanitizer, log zerolog.Logger) *contentService {
	return &contentService{
		repos:     repos,
		sanitizer: sanitizer,
		log:       log.With().Str("service", "content").Logger(),
	}
}

// CreatePost creates a draft post. Slug derives from the title when absent.
func (s *contentService) CreatePost(ctx context.Context, post *models.Post) (*models.Post, error) {
	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	if post.Slug == "" {
		post.Slug = validation.DeriveSlug(post.Title)
	}
	if post.Status == "" {
		post.Status = models.PostStatusDraft
	}
	post.Content = s.sanitizer.SanitizeHTML(post.Content)
	post.CreatedAt = time.Now().UTC()
	post.UpdatedAt = post.CreatedAt

	if errs := validation.ValidatePost(post); len(errs) > 0 {
		return nil, validation.FirstError(errs)
	}
	if err := s.checkReferences(ctx, post); err != nil {
		return nil, err
	}

	if err := s.repos.Post.Create(ctx, post); err != nil {
		return nil, err
	}

	s.log.Info().Str("post_id", post.ID).Str("slug", post.Slug).Msg("post created")
	return post, nil
}

// UpdatePost updates editable fields. Score columns, slug and the
// published timestamp are preserved from the stored row.
func (s *contentService) UpdatePost(ctx context.Context, id string, post *models.Post) (*models.Post, error) {
	existing, err := s.repos.Post.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, models.NewNotFoundError("post", id)
	}

	post.ID = existing.ID
	post.Slug = existing.Slug
	post.SEOScore = existing.SEOScore
	post.SEOScoreDetails = existing.SEOScoreDetails
	post.PublishedAt = existing.PublishedAt
	post.CreatedAt = existing.CreatedAt
	if post.Status == "" {
		post.Status = existing.Status
	}
	post.Content = s.sanitizer.SanitizeHTML(post.Content)
	post.UpdatedAt = time.Now().UTC()

	if errs := validation.ValidatePost(post); len(errs) > 0 {
		return nil, validation.FirstError(errs)
	}
	if err := s.checkReferences(ctx, post); err != nil {
		return nil, err
	}

	if err := s.repos.Post.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// GetPost retrieves a post by ID
func (s *contentService) GetPost(ctx context.Context, id string) (*models.Post, error) {
	post, err := s.repos.Post.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, models.NewNotFoundError("post", id)
	}
	return post, nil
}

// GetPostBySlug retrieves a post by slug
func (s *contentService) GetPostBySlug(ctx context.Context, slug string) (*models.Post, error) {
	post, err := s.repos.Post.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, models.NewNotFoundError("post", slug)
	}
	return post, nil
}

// checkReferences verifies category, author and tag IDs resolve
func (s *contentService) checkReferences(ctx context.Context, post *models.Post) error {
	if post.CategoryID != "" {
		cat, err := s.repos.Taxonomy.GetCategory(ctx, post.CategoryID)
		if err != nil {
			return err
		}
		if cat == nil {
			return models.NewDanglingReferenceError("categoryId", post.CategoryID)
		}
	}
	if post.AuthorID != "" {
		author, err := s.repos.Taxonomy.GetAuthor(ctx, post.AuthorID)
		if err != nil {
			return err
		}
		if author == nil {
			return models.NewDanglingReferenceError("authorId", post.AuthorID)
		}
	}
	for _, tagID := range post.TagIDs {
		tag, err := s.repos.Taxonomy.GetTag(ctx, tagID)
		if err != nil {
			return err
		}
		if tag == nil {
			return models.NewDanglingReferenceError("tagIds", tagID)
		}
	}
	return nil
}

// CreateCategory creates a category, deriving its slug from the name
func (s *contentService) CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	if category.Slug == "" {
		category.Slug = validation.DeriveSlug(category.Name)
	}
	if category.Name == "" {
		return nil, models.NewValidationError("name", "name is required")
	}
	category.CreatedAt = time.Now().UTC()
	category.UpdatedAt = category.CreatedAt
	if err := s.repos.Taxonomy.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// ListCategories lists all categories
func (s *contentService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	return s.repos.Taxonomy.ListCategories(ctx)
}

// CreateTag creates a tag, deriving its slug from the name
func (s *contentService) CreateTag(ctx context.Context, tag *models.Tag) (*models.Tag, error) {
	if tag.ID == "" {
		tag.ID = uuid.New().String()
	}
	if tag.Slug == "" {
		tag.Slug = validation.DeriveSlug(tag.Name)
	}
	if tag.Name == "" {
		return nil, models.NewValidationError("name", "name is required")
	}
	tag.CreatedAt = time.Now().UTC()
	if err := s.repos.Taxonomy.CreateTag(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// ListTags lists all tags
func (s *contentService) ListTags(ctx context.Context) ([]*models.Tag, error) {
	return s.repos.Taxonomy.ListTags(ctx)
}

// CreateAuthor creates an author
func (s *contentService) CreateAuthor(ctx context.Context, author *models.Author) (*models.Author, error) {
	if author.ID == "" {
		author.ID = uuid.New().String()
	}
	if author.Name == "" {
		return nil, models.NewValidationError("name", "name is required")
	}
	author.CreatedAt = time.Now().UTC()
	author.UpdatedAt = author.CreatedAt
	if err := s.repos.Taxonomy.CreateAuthor(ctx, author); err != nil {
		return nil, err
	}
	return author, nil
}

// ListAuthors lists all authors
func (s *contentService) ListAuthors(ctx context.Context) ([]*models.Author, error) {
	return s.repos.Taxonomy.ListAuthors(ctx)
}

// CreateMedia registers an upload and attaches the standard size variants
func (s *contentService) CreateMedia(ctx context.Context, media *models.Media) (*models.Media, error) {
	if media.ID == "" {
		media.ID = uuid.New().String()
	}
	if media.Filename == "" {
		return nil, models.NewValidationError("filename", "filename is required")
	}
	if media.Alt == "" {
		return nil, models.NewValidationError("alt", "alt text is required")
	}
	// copy so a caller mutating its record cannot touch the shared defaults
	media.Variants = append([]models.MediaVariant(nil), models.StandardMediaVariants...)
	media.CreatedAt = time.Now().UTC()
	if err := s.repos.Media.Create(ctx, media); err != nil {
		return nil, err
	}
	return media, nil
}

// GetMedia retrieves media metadata by ID
func (s *contentService) GetMedia(ctx context.Context, id string) (*models.Media, error) {
	media, err := s.repos.Media.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if media == nil {
		return nil, models.NewNotFoundError("media", id)
	}
	return media, nil
}
