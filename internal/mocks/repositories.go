package mocks

import (
	"context"
	"sync"

	"github.com/triply/content-engine/internal/models"
)

// MockQueueRepository is an in-memory implementation of QueueRepository.
// It honors the optimistic-concurrency contract: Update fails with a
// ConflictError when the expected version is stale, so concurrency tests
// behave like the postgres implementation.
type MockQueueRepository struct {
	mu          sync.Mutex
	Items       map[string]*models.QueueItem
	SlugToItem  map[string]*models.QueueItem
	CreateError error
	UpdateError error
}

// NewMockQueueRepository creates an empty mock queue repository
func NewMockQueueRepository() *MockQueueRepository {
	return &MockQueueRepository{
		Items:      make(map[string]*models.QueueItem),
		SlugToItem: make(map[string]*models.QueueItem),
	}
}

func (m *MockQueueRepository) Create(ctx context.Context, item *models.QueueItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateError != nil {
		return m.CreateError
	}
	if _, exists := m.SlugToItem[item.Slug]; exists {
		return models.NewDuplicateSlugError(item.Slug)
	}
	stored := *item
	m.Items[item.ID] = &stored
	m.SlugToItem[item.Slug] = &stored
	return nil
}

func (m *MockQueueRepository) GetByID(ctx context.Context, id string) (*models.QueueItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.Items[id]
	if !ok {
		return nil, nil
	}
	copied := *item
	return &copied, nil
}

func (m *MockQueueRepository) GetBySlug(ctx context.Context, slug string) (*models.QueueItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.SlugToItem[slug]
	if !ok {
		return nil, nil
	}
	copied := *item
	return &copied, nil
}

func (m *MockQueueRepository) GetByGeneratedPost(ctx context.Context, postID string) (*models.QueueItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, item := range m.Items {
		if item.GeneratedPostID == postID {
			copied := *item
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *MockQueueRepository) List(ctx context.Context, filter models.QueueFilter) ([]*models.QueueItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.QueueItem
	for _, item := range m.Items {
		if filter.AirportCode != "" && item.AirportCode != filter.AirportCode {
			continue
		}
		if filter.ArticleType != "" && item.ArticleType != filter.ArticleType {
			continue
		}
		if filter.Status != "" && item.Status != filter.Status {
			continue
		}
		if filter.Batch != "" && item.Batch != filter.Batch {
			continue
		}
		copied := *item
		out = append(out, &copied)
	}
	return out, nil
}

func (m *MockQueueRepository) ListByHub(ctx context.Context, hubSlug string) ([]*models.QueueItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.QueueItem
	for _, item := range m.Items {
		if item.HubSlug == hubSlug {
			copied := *item
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *MockQueueRepository) ListByParent(ctx context.Context, parentSlug string) ([]*models.QueueItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.QueueItem
	for _, item := range m.Items {
		if item.ParentSlug == parentSlug {
			copied := *item
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *MockQueueRepository) ListByBatch(ctx context.Context, batch string) ([]*models.QueueItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.QueueItem
	for _, item := range m.Items {
		if item.Batch == batch {
			copied := *item
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *MockQueueRepository) Update(ctx context.Context, item *models.QueueItem, expectedVersion int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateError != nil {
		return m.UpdateError
	}
	stored, ok := m.Items[item.ID]
	if !ok {
		return models.NewNotFoundError("queue item", item.ID)
	}
	if stored.Version != expectedVersion {
		return models.NewConflictError(item.ID)
	}
	updated := *item
	updated.Version = expectedVersion + 1
	delete(m.SlugToItem, stored.Slug)
	m.Items[item.ID] = &updated
	m.SlugToItem[updated.Slug] = &updated
	item.Version = updated.Version
	return nil
}

func (m *MockQueueRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, exists := m.SlugToItem[slug]
	return exists, nil
}

func (m *MockQueueRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.Items[id]
	if !ok {
		return models.NewNotFoundError("queue item", id)
	}
	delete(m.SlugToItem, item.Slug)
	delete(m.Items, id)
	return nil
}

// MockPostRepository is an in-memory implementation of PostRepository.
// Update preserves the stored score columns the way the postgres
// implementation's column list does.
type MockPostRepository struct {
	mu          sync.Mutex
	Posts       map[string]*models.Post
	SlugToPost  map[string]*models.Post
	CreateError error
	UpdateError error
}

// NewMockPostRepository creates an empty mock post repository
func NewMockPostRepository() *MockPostRepository {
	return &MockPostRepository{
		Posts:      make(map[string]*models.Post),
		SlugToPost: make(map[string]*models.Post),
	}
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateError != nil {
		return m.CreateError
	}
	if _, exists := m.SlugToPost[post.Slug]; exists {
		return models.NewDuplicateSlugError(post.Slug)
	}
	stored := *post
	m.Posts[post.ID] = &stored
	m.SlugToPost[post.Slug] = &stored
	return nil
}

func (m *MockPostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	post, ok := m.Posts[id]
	if !ok {
		return nil, nil
	}
	copied := *post
	return &copied, nil
}

func (m *MockPostRepository) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	post, ok := m.SlugToPost[slug]
	if !ok {
		return nil, nil
	}
	copied := *post
	return &copied, nil
}

// Update mirrors the postgres repo contract: seo score fields on the
// incoming post are ignored, preserving whatever the scoring gate wrote
func (m *MockPostRepository) Update(ctx context.Context, post *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateError != nil {
		return m.UpdateError
	}
	stored, ok := m.Posts[post.ID]
	if !ok {
		return models.NewNotFoundError("post", post.ID)
	}
	updated := *post
	updated.SEOScore = stored.SEOScore
	updated.SEOScoreDetails = stored.SEOScoreDetails
	delete(m.SlugToPost, stored.Slug)
	m.Posts[post.ID] = &updated
	m.SlugToPost[updated.Slug] = &updated
	return nil
}

func (m *MockPostRepository) UpdateSEOScore(ctx context.Context, id string, score int, details *models.SEOScoreDetails) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.Posts[id]
	if !ok {
		return models.NewNotFoundError("post", id)
	}
	s := score
	stored.SEOScore = &s
	copied := *details
	stored.SEOScoreDetails = &copied
	return nil
}

func (m *MockPostRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, exists := m.SlugToPost[slug]
	return exists, nil
}

// MockTaxonomyRepository is an in-memory implementation of TaxonomyRepository
type MockTaxonomyRepository struct {
	mu         sync.Mutex
	Categories map[string]*models.Category
	Tags       map[string]*models.Tag
	Authors    map[string]*models.Author
}

// NewMockTaxonomyRepository creates an empty mock taxonomy repository
func NewMockTaxonomyRepository() *MockTaxonomyRepository {
	return &MockTaxonomyRepository{
		Categories: make(map[string]*models.Category),
		Tags:       make(map[string]*models.Tag),
		Authors:    make(map[string]*models.Author),
	}
}

func (m *MockTaxonomyRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Categories[category.ID] = category
	return nil
}

func (m *MockTaxonomyRepository) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Categories[id], nil
}

func (m *MockTaxonomyRepository) ListCategories(ctx context.Context) ([]*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Category
	for _, c := range m.Categories {
		out = append(out, c)
	}
	return out, nil
}

func (m *MockTaxonomyRepository) CreateTag(ctx context.Context, tag *models.Tag) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Tags[tag.ID] = tag
	return nil
}

func (m *MockTaxonomyRepository) GetTag(ctx context.Context, id string) (*models.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Tags[id], nil
}

func (m *MockTaxonomyRepository) ListTags(ctx context.Context) ([]*models.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Tag
	for _, t := range m.Tags {
		out = append(out, t)
	}
	return out, nil
}

func (m *MockTaxonomyRepository) CreateAuthor(ctx context.Context, author *models.Author) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Authors[author.ID] = author
	return nil
}

func (m *MockTaxonomyRepository) GetAuthor(ctx context.Context, id string) (*models.Author, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Authors[id], nil
}

func (m *MockTaxonomyRepository) ListAuthors(ctx context.Context) ([]*models.Author, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Author
	for _, a := range m.Authors {
		out = append(out, a)
	}
	return out, nil
}

// MockMediaRepository is an in-memory implementation of MediaRepository
type MockMediaRepository struct {
	mu    sync.Mutex
	Media map[string]*models.Media
}

// NewMockMediaRepository creates an empty mock media repository
func NewMockMediaRepository() *MockMediaRepository {
	return &MockMediaRepository{Media: make(map[string]*models.Media)}
}

func (m *MockMediaRepository) Create(ctx context.Context, media *models.Media) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Media[media.ID] = media
	return nil
}

func (m *MockMediaRepository) GetByID(ctx context.Context, id string) (*models.Media, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Media[id], nil
}
