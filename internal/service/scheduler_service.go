package service

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/triply/content-engine/internal/models"
	"github.com/triply/content-engine/internal/repository"
)

// schedulerService is the concrete implementation of SchedulerService
type schedulerService struct {
	queueRepo repository.QueueRepository
	postRepo  repository.PostRepository
	log       zerolog.Logger
}

// newSchedulerService creates a new SchedulerService
func newSchedulerService(queueRepo repository.QueueRepository, postRepo repository.PostRepository, log zerolog.Logger) *schedulerService {
	return &schedulerService{
		queueRepo: queueRepo,
		postRepo:  postRepo,
		log:       log.With().Str("service", "scheduler").Logger(),
	}
}

// NextDue returns the batch's items due at or before asOf whose status is
// still draft or review, ascending by scheduled date, ties broken by
// priority (S1 first) then slug. The batch is read in a single query so
// the result reflects one consistent snapshot of the store.
func (s *schedulerService) NextDue(ctx context.Context, batch string, asOf time.Time) ([]*models.QueueItem, error) {
	items, err := s.queueRepo.ListByBatch(ctx, batch)
	if err != nil {
		return nil, err
	}

	var due []*models.QueueItem
	for _, item := range items {
		if item.ScheduledPublishDate == nil || item.ScheduledPublishDate.After(asOf) {
			continue
		}
		if item.Status != models.QueueStatusDraft && item.Status != models.QueueStatusReview {
			continue
		}
		due = append(due, item)
	}

	sort.Slice(due, func(i, j int) bool {
		di, dj := *due[i].ScheduledPublishDate, *due[j].ScheduledPublishDate
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		if due[i].Priority.Rank() != due[j].Priority.Rank() {
			return due[i].Priority.Rank() < due[j].Priority.Rank()
		}
		return due[i].Slug < due[j].Slug
	})

	return due, nil
}

// CheckPublishOrder enforces that a sub-pillar or spoke never publishes
// before its hub. Unless the hub is already live, the descendant may only
// go out if the hub is scheduled at or before the descendant's own publish
// time; a descendant with no date of its own publishes immediately and is
// held against the current time.
func (s *schedulerService) CheckPublishOrder(ctx context.Context, item *models.QueueItem) error {
	if item.ArticleType == models.ArticleTypeHub || item.HubSlug == "" {
		return nil
	}

	hub, err := s.queueRepo.GetBySlug(ctx, item.HubSlug)
	if err != nil {
		return err
	}
	if hub == nil {
		// the hub may already exist only as a published post, in which
		// case it is out and any descendant date is fine
		post, err := s.postRepo.GetBySlug(ctx, item.HubSlug)
		if err != nil {
			return err
		}
		if post != nil && post.Status == models.PostStatusPublished {
			return nil
		}
		return models.NewDanglingReferenceError("hub_slug", item.HubSlug)
	}

	if hub.Status == models.QueueStatusPublished {
		return nil
	}

	// the hub is not out yet: it must be scheduled no later than the
	// descendant's own publish time. An undated descendant publishes now,
	// so an unscheduled or future-dated hub blocks it either way.
	effective := time.Now().UTC()
	if item.ScheduledPublishDate != nil {
		effective = *item.ScheduledPublishDate
	}
	if hub.ScheduledPublishDate == nil || hub.ScheduledPublishDate.After(effective) {
		return models.NewPublishOrderViolationError(item.Slug, hub.Slug)
	}
	return nil
}
