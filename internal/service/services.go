package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/triply/content-engine/internal/config"
	"github.com/triply/content-engine/internal/metrics"
	"github.com/triply/content-engine/internal/models"
	"github.com/triply/content-engine/internal/repository"
	"github.com/triply/content-engine/internal/security"
)

// QueueService manages the content queue and its state machine
type QueueService interface {
	Create(ctx context.Context, item *models.QueueItem) (*models.QueueItem, error)
	Get(ctx context.Context, id string) (*models.QueueItem, error)
	List(ctx context.Context, filter models.QueueFilter) ([]*models.QueueItem, error)
	// Transition applies one state machine edge. Concurrent transitions on
	// the same item serialize: exactly one wins, the loser gets a
	// ConflictError and must refetch.
	Transition(ctx context.Context, id string, req *models.TransitionRequest) (*models.QueueItem, error)
	Update(ctx context.Context, item *models.QueueItem) (*models.QueueItem, error)
	Delete(ctx context.Context, id string) error
}

// GraphService maintains the hub/sub-pillar/spoke topic cluster forest
type GraphService interface {
	ValidateClusterReference(ctx context.Context, item *models.QueueItem) error
	// ListDescendants streams all sub-pillars and spokes transitively under
	// the hub, depth-first, ordered by (priority, slug). The hub itself is
	// never included.
	ListDescendants(ctx context.Context, hubSlug string, fn func(*models.QueueItem) error) error
	Descendants(ctx context.Context, hubSlug string) ([]*models.QueueItem, error)
	InternalLinkSuggestions(ctx context.Context, item *models.QueueItem) ([]string, error)
}

// SchedulerService orders batch publishing
type SchedulerService interface {
	// NextDue returns items in the batch due at or before asOf that are
	// still draft or review, ascending by date, ties by priority then slug
	NextDue(ctx context.Context, batch string, asOf time.Time) ([]*models.QueueItem, error)
	// CheckPublishOrder fails with PublishOrderViolation when a descendant
	// is scheduled before its hub
	CheckPublishOrder(ctx context.Context, item *models.QueueItem) error
}

// ScoreService is the SEO scoring gate, the only writer of a post's
// seoScore and seoScoreDetails
type ScoreService interface {
	// ScorePost computes and persists the score; idempotent, re-runnable
	ScorePost(ctx context.Context, postID string) (*models.SEOScoreDetails, error)
	// Score is the pure scoring function; identical inputs yield identical output
	Score(post *models.Post, origin *models.QueueItem) *models.SEOScoreDetails
}

// ContentService manages posts, taxonomy and media metadata
type ContentService interface {
	CreatePost(ctx context.Context, post *models.Post) (*models.Post, error)
	GetPost(ctx context.Context, id string) (*models.Post, error)
	GetPostBySlug(ctx context.Context, slug string) (*models.Post, error)
	UpdatePost(ctx context.Context, id string, post *models.Post) (*models.Post, error)
	CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error)
	ListCategories(ctx context.Context) ([]*models.Category, error)
	CreateTag(ctx context.Context, tag *models.Tag) (*models.Tag, error)
	ListTags(ctx context.Context) ([]*models.Tag, error)
	CreateAuthor(ctx context.Context, author *models.Author) (*models.Author, error)
	ListAuthors(ctx context.Context) ([]*models.Author, error)
	CreateMedia(ctx context.Context, media *models.Media) (*models.Media, error)
	GetMedia(ctx context.Context, id string) (*models.Media, error)
}

// IngestService polls competitor feeds and files queue suggestions
type IngestService interface {
	Start(ctx context.Context)
	Stop()
	RunOnce(ctx context.Context) (int, error)
}

// Services holds all service interfaces
type Services struct {
	Queue     QueueService
	Graph     GraphService
	Scheduler SchedulerService
	Score     ScoreService
	Content   ContentService
	Ingest    IngestService
	Resolver  ReferenceResolver
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger, collector metrics.Collector) *Services {
	sanitizer := security.NewSanitizer()
	guard := security.NewURLGuard()

	resolver := NewReferenceResolver(repos.Queue, repos.Post)
	graphSvc := newGraphService(repos.Queue, resolver, log)
	schedulerSvc := newSchedulerService(repos.Queue, repos.Post, log)
	scoreSvc := newScoreService(repos.Post, repos.Queue, sanitizer, collector, log)
	queueSvc := newQueueService(repos.Queue, repos.Post, graphSvc, schedulerSvc, collector, log)
	contentSvc := newContentService(repos, sanitizer, log)
	ingestSvc := newIngestService(queueSvc, repos.Queue, repos.Post, guard, &cfg.Ingest, collector, log)

	return &Services{
		Queue:     queueSvc,
		Graph:     graphSvc,
		Scheduler: schedulerSvc,
		Score:     scoreSvc,
		Content:   contentSvc,
		Ingest:    ingestSvc,
		Resolver:  resolver,
	}
}
