package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/triply/content-engine/internal/metrics"
	"github.com/triply/content-engine/internal/models"
	"github.com/triply/content-engine/internal/repository"
	"github.com/triply/content-engine/internal/validation"
)

// queueService is the concrete implementation of QueueService
type queueService struct {
	queueRepo repository.QueueRepository
	postRepo  repository.PostRepository
	graph     GraphService
	scheduler SchedulerService
	collector metrics.Collector
	log       zerolog.Logger
}

// newQueueService creates a new QueueService
func newQueueService(
	queueRepo repository.QueueRepository,
	postRepo repository.PostRepository,
	graph GraphService,
	scheduler SchedulerService,
	collector metrics.Collector,
	log zerolog.Logger,
) *queueService {
	return &queueService{
		queueRepo: queueRepo,
		postRepo:  postRepo,
		graph:     graph,
		scheduler: scheduler,
		collector: collector,
		log:       log.With().Str("service", "queue").Logger(),
	}
}

// Create files a new queue item in status queued, deriving the slug from
// the suggested title when none was supplied
func (s *queueService) Create(ctx context.Context, item *models.QueueItem) (*models.QueueItem, error) {
	now := time.Now().UTC()
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.Slug == "" {
		item.Slug = validation.DeriveSlug(item.SuggestedTitle)
	}
	if item.ArticleStyle == "" {
		item.ArticleStyle = models.ArticleStyleStandard
	}
	if item.Priority == "" {
		item.Priority = models.PriorityS2
	}
	if item.Status == "" {
		item.Status = models.QueueStatusQueued
	}
	if item.TargetWords == 0 {
		item.TargetWords = models.DefaultTargetWords
	}
	item.Version = 1
	item.CreatedAt = now
	item.UpdatedAt = now

	if item.Status != models.QueueStatusQueued {
		return nil, models.NewValidationError("status", "new queue items must start in status queued")
	}
	if err := validation.FirstError(validation.ValidateQueueItem(item)); err != nil {
		return nil, err
	}
	if err := s.graph.ValidateClusterReference(ctx, item); err != nil {
		return nil, err
	}

	if err := s.queueRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("id", item.ID).
		Str("slug", item.Slug).
		Str("airport_code", item.AirportCode).
		Str("article_type", string(item.ArticleType)).
		Msg("Queue item created")

	return item, nil
}

// Get retrieves a queue item by ID
func (s *queueService) Get(ctx context.Context, id string) (*models.QueueItem, error) {
	item, err := s.queueRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, models.NewNotFoundError("queue item", id)
	}
	return item, nil
}

// List retrieves queue items matching the filter
func (s *queueService) List(ctx context.Context, filter models.QueueFilter) ([]*models.QueueItem, error) {
	return s.queueRepo.List(ctx, filter)
}

// Transition applies one state machine edge with its guards and side
// effects. The version read with the item is passed to the repository as
// the optimistic-concurrency token, so two racing transitions produce
// exactly one winner.
func (s *queueService) Transition(ctx context.Context, id string, req *models.TransitionRequest) (*models.QueueItem, error) {
	if !models.ValidQueueStatuses[req.Status] {
		return nil, models.NewValidationError("status", "invalid target status")
	}

	item, err := s.queueRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, models.NewNotFoundError("queue item", id)
	}

	from := item.Status
	to := req.Status
	if !from.CanTransitionTo(to) {
		s.collector.RecordTransitionRejected(string(models.ErrInvalidTransition))
		return nil, models.NewInvalidTransitionError(from, to, "")
	}

	var publishPost *models.Post

	switch to {
	case models.QueueStatusError:
		// a failed generation must leave a durable diagnostic
		if req.ErrorMessage == "" {
			s.collector.RecordTransitionRejected(string(models.ErrValidation))
			return nil, models.NewValidationError("error_message", "error_message is required when transitioning to error")
		}
		item.ErrorMessage = req.ErrorMessage

	case models.QueueStatusQueued:
		// operator retry: the error record persists until re-queued
		item.ErrorMessage = ""

	case models.QueueStatusDraft:
		if req.GeneratedPostID == "" {
			s.collector.RecordTransitionRejected(string(models.ErrValidation))
			return nil, models.NewValidationError("generated_post_id", "generated_post_id is required when generation succeeds")
		}
		post, err := s.postRepo.GetByID(ctx, req.GeneratedPostID)
		if err != nil {
			return nil, err
		}
		if post == nil {
			s.collector.RecordTransitionRejected(string(models.ErrNotFound))
			return nil, models.NewNotFoundError("post", req.GeneratedPostID)
		}
		item.GeneratedPostID = req.GeneratedPostID

	case models.QueueStatusPublished:
		post, err := s.linkedPost(ctx, item)
		if err != nil {
			s.collector.RecordTransitionRejected(string(models.ErrInvalidTransition))
			return nil, err
		}
		// ungated content must not silently publish
		if !post.IsScored() {
			s.collector.RecordTransitionRejected(string(models.ErrInvalidTransition))
			return nil, models.NewInvalidTransitionError(from, to, "linked post has no SEO score, run the scoring gate first")
		}
		if err := s.scheduler.CheckPublishOrder(ctx, item); err != nil {
			s.collector.RecordTransitionRejected(string(models.ErrPublishOrderViolation))
			return nil, err
		}
		publishPost = post
	}

	item.Status = to
	if err := s.queueRepo.Update(ctx, item, item.Version); err != nil {
		if models.IsKind(err, models.ErrConflict) {
			s.collector.RecordTransitionConflict()
		}
		return nil, err
	}

	if publishPost != nil {
		publishPost.Status = models.PostStatusPublished
		if publishPost.PublishedAt == nil {
			now := time.Now().UTC()
			publishPost.PublishedAt = &now
		}
		if err := s.postRepo.Update(ctx, publishPost); err != nil {
			s.log.Error().Err(err).Str("post_id", publishPost.ID).Msg("Failed to publish linked post")
			// roll the queue row back so a published item never fronts
			// a draft post; if the revert also fails the operator
			// re-runs the transition once the store recovers
			item.Status = from
			if revertErr := s.queueRepo.Update(ctx, item, item.Version); revertErr != nil {
				s.log.Error().Err(revertErr).Str("id", item.ID).Msg("Failed to revert queue item after post publish failure")
			}
			return nil, err
		}
	}

	s.collector.RecordTransition(string(from), string(to))
	s.log.Info().
		Str("id", item.ID).
		Str("slug", item.Slug).
		Str("from", string(from)).
		Str("to", string(to)).
		Msg("Queue item transitioned")

	return item, nil
}

// linkedPost loads the generated post required by the publish guard
func (s *queueService) linkedPost(ctx context.Context, item *models.QueueItem) (*models.Post, error) {
	if item.GeneratedPostID == "" {
		return nil, models.NewInvalidTransitionError(item.Status, models.QueueStatusPublished, "no generated post is linked")
	}
	post, err := s.postRepo.GetByID(ctx, item.GeneratedPostID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, models.NewNotFoundError("post", item.GeneratedPostID)
	}
	return post, nil
}

// Update persists operator edits (batching, scheduling, outline, notes).
// Status changes must go through Transition; a status edit here is rejected.
func (s *queueService) Update(ctx context.Context, item *models.QueueItem) (*models.QueueItem, error) {
	current, err := s.queueRepo.GetByID(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, models.NewNotFoundError("queue item", item.ID)
	}
	if item.Status == "" {
		item.Status = current.Status
	}
	if item.Status != current.Status {
		return nil, models.NewValidationError("status", "status cannot be edited directly, use the transition operation")
	}

	item.GeneratedPostID = current.GeneratedPostID
	item.ErrorMessage = current.ErrorMessage
	item.CreatedAt = current.CreatedAt
	if err := validation.FirstError(validation.ValidateQueueItem(item)); err != nil {
		return nil, err
	}
	if err := s.graph.ValidateClusterReference(ctx, item); err != nil {
		return nil, err
	}

	if err := s.queueRepo.Update(ctx, item, item.Version); err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes a queue item permanently
func (s *queueService) Delete(ctx context.Context, id string) error {
	if err := s.queueRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("id", id).Msg("Queue item deleted")
	return nil
}
