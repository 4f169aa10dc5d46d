package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/triply/content-engine/internal/metrics"
	"github.com/triply/content-engine/internal/mocks"
	"github.com/triply/content-engine/internal/models"
)

func newTestQueueService() (*queueService, *mocks.MockQueueRepository, *mocks.MockPostRepository) {
	queueRepo := mocks.NewMockQueueRepository()
	postRepo := mocks.NewMockPostRepository()
	log := zerolog.Nop()
	resolver := NewReferenceResolver(queueRepo, postRepo)
	graph := newGraphService(queueRepo, resolver, log)
	scheduler := newSchedulerService(queueRepo, postRepo, log)
	queue := newQueueService(queueRepo, postRepo, graph, scheduler, metrics.NopCollector{}, log)
	return queue, queueRepo, postRepo
}

func hubItem() *models.QueueItem {
	return &models.QueueItem{
		Keyword:        "jfk parking",
		SuggestedTitle: "JFK Airport Parking: The Complete Guide",
		AirportCode:    "JFK",
		ArticleType:    models.ArticleTypeHub,
	}
}

func TestQueueServiceCreateDefaults(t *testing.T) {
	svc, _, _ := newTestQueueService()

	created, err := svc.Create(context.Background(), hubItem())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.Slug != "jfk-airport-parking-the-complete-guide" {
		t.Errorf("slug not derived from title, got %q", created.Slug)
	}
	if created.Status != models.QueueStatusQueued {
		t.Errorf("expected status queued, got %s", created.Status)
	}
	if created.Priority != models.PriorityS2 {
		t.Errorf("expected default priority S2, got %s", created.Priority)
	}
	if created.ArticleStyle != models.ArticleStyleStandard {
		t.Errorf("expected default style standard, got %s", created.ArticleStyle)
	}
	if created.TargetWords != models.DefaultTargetWords {
		t.Errorf("expected default target words %d, got %d", models.DefaultTargetWords, created.TargetWords)
	}
	if created.Version != 1 {
		t.Errorf("expected version 1, got %d", created.Version)
	}
	if created.ID == "" {
		t.Error("expected generated ID")
	}
}

func TestQueueServiceCreateDuplicateSlug(t *testing.T) {
	svc, _, _ := newTestQueueService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, hubItem()); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	_, err := svc.Create(ctx, hubItem())
	if !models.IsKind(err, models.ErrDuplicateSlug) {
		t.Errorf("expected DuplicateSlug error, got %v", err)
	}
}

func TestQueueServiceCreateRejectsNonQueuedStatus(t *testing.T) {
	svc, _, _ := newTestQueueService()

	item := hubItem()
	item.Status = models.QueueStatusDraft
	_, err := svc.Create(context.Background(), item)
	if !models.IsKind(err, models.ErrValidation) {
		t.Errorf("expected Validation error for non-queued initial status, got %v", err)
	}
}

func TestQueueServiceCreateDanglingHubReference(t *testing.T) {
	svc, _, _ := newTestQueueService()

	item := &models.QueueItem{
		Keyword:        "jfk long term parking",
		SuggestedTitle: "Long Term Parking at JFK",
		AirportCode:    "JFK",
		ArticleType:    models.ArticleTypeSpoke,
		HubSlug:        "jfk-parking",
	}
	_, err := svc.Create(context.Background(), item)
	if !models.IsKind(err, models.ErrDanglingReference) {
		t.Errorf("expected DanglingReference error, got %v", err)
	}
}

// seedPost inserts a draft post directly through the repository
func seedPost(t *testing.T, postRepo *mocks.MockPostRepository, id, slug string) *models.Post {
	t.Helper()
	post := &models.Post{
		ID:         id,
		Title:      "JFK Airport Parking",
		Slug:       slug,
		Excerpt:    "Parking guide.",
		Content:    "<p>Guide body.</p>",
		CategoryID: "cat-1",
		AuthorID:   "author-1",
		Status:     models.PostStatusDraft,
	}
	if err := postRepo.Create(context.Background(), post); err != nil {
		t.Fatalf("seed post failed: %v", err)
	}
	return post
}

func TestQueueServiceLifecycle(t *testing.T) {
	svc, _, postRepo := newTestQueueService()
	ctx := context.Background()

	item, err := svc.Create(ctx, hubItem())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// queued -> generating
	item, err = svc.Transition(ctx, item.ID, &models.TransitionRequest{Status: models.QueueStatusGenerating})
	if err != nil {
		t.Fatalf("transition to generating failed: %v", err)
	}

	// generating -> draft requires a generated post that exists
	_, err = svc.Transition(ctx, item.ID, &models.TransitionRequest{Status: models.QueueStatusDraft})
	if !models.IsKind(err, models.ErrValidation) {
		t.Fatalf("expected Validation error without generated_post_id, got %v", err)
	}

	post := seedPost(t, postRepo, "post-1", item.Slug)
	item, err = svc.Transition(ctx, item.ID, &models.TransitionRequest{
		Status:          models.QueueStatusDraft,
		GeneratedPostID: post.ID,
	})
	if err != nil {
		t.Fatalf("transition to draft failed: %v", err)
	}
	if item.GeneratedPostID != post.ID {
		t.Errorf("generated_post_id not recorded, got %q", item.GeneratedPostID)
	}

	// draft -> review
	item, err = svc.Transition(ctx, item.ID, &models.TransitionRequest{Status: models.QueueStatusReview})
	if err != nil {
		t.Fatalf("transition to review failed: %v", err)
	}

	// review -> published is blocked while the post is unscored
	_, err = svc.Transition(ctx, item.ID, &models.TransitionRequest{Status: models.QueueStatusPublished})
	if !models.IsKind(err, models.ErrInvalidTransition) {
		t.Fatalf("expected InvalidTransition for unscored post, got %v", err)
	}

	// score the post, then publish succeeds
	if err := postRepo.UpdateSEOScore(ctx, post.ID, 82, &models.SEOScoreDetails{Total: 82}); err != nil {
		t.Fatalf("score update failed: %v", err)
	}
	item, err = svc.Transition(ctx, item.ID, &models.TransitionRequest{Status: models.QueueStatusPublished})
	if err != nil {
		t.Fatalf("transition to published failed: %v", err)
	}
	if item.Status != models.QueueStatusPublished {
		t.Errorf("expected status published, got %s", item.Status)
	}

	published, _ := postRepo.GetByID(ctx, post.ID)
	if published.Status != models.PostStatusPublished {
		t.Errorf("linked post not published, got %s", published.Status)
	}
	if published.PublishedAt == nil {
		t.Error("published post must carry a published_at timestamp")
	}

	// published is terminal
	_, err = svc.Transition(ctx, item.ID, &models.TransitionRequest{Status: models.QueueStatusQueued})
	if !models.IsKind(err, models.ErrInvalidTransition) {
		t.Errorf("expected InvalidTransition out of published, got %v", err)
	}
}

func TestQueueServicePublishRevertsOnPostFailure(t *testing.T) {
	svc, queueRepo, postRepo := newTestQueueService()
	ctx := context.Background()

	item, err := svc.Create(ctx, hubItem())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := svc.Transition(ctx, item.ID, &models.TransitionRequest{Status: models.QueueStatusGenerating}); err != nil {
		t.Fatalf("transition to generating failed: %v", err)
	}
	post := seedPost(t, postRepo, "post-1", item.Slug)
	if _, err := svc.Transition(ctx, item.ID, &models.TransitionRequest{
		Status:          models.QueueStatusDraft,
		GeneratedPostID: post.ID,
	}); err != nil {
		t.Fatalf("transition to draft failed: %v", err)
	}
	if _, err := svc.Transition(ctx, item.ID, &models.TransitionRequest{Status: models.QueueStatusReview}); err != nil {
		t.Fatalf("transition to review failed: %v", err)
	}
	if err := postRepo.UpdateSEOScore(ctx, post.ID, 82, &models.SEOScoreDetails{Total: 82}); err != nil {
		t.Fatalf("score update failed: %v", err)
	}

	// the post store fails mid-publish
	postRepo.UpdateError = fmt.Errorf("connection reset")
	if _, err := svc.Transition(ctx, item.ID, &models.TransitionRequest{Status: models.QueueStatusPublished}); err == nil {
		t.Fatal("expected publish to fail when the post write fails")
	}

	current, _ := queueRepo.GetByID(ctx, item.ID)
	if current.Status != models.QueueStatusReview {
		t.Errorf("queue item must roll back to review after a failed post write, got %s", current.Status)
	}
	stored, _ := postRepo.GetByID(ctx, post.ID)
	if stored.Status != models.PostStatusDraft {
		t.Errorf("post must remain draft, got %s", stored.Status)
	}

	// the operator retries once the store recovers
	postRepo.UpdateError = nil
	published, err := svc.Transition(ctx, item.ID, &models.TransitionRequest{Status: models.QueueStatusPublished})
	if err != nil {
		t.Fatalf("retry after recovery failed: %v", err)
	}
	if published.Status != models.QueueStatusPublished {
		t.Errorf("expected status published, got %s", published.Status)
	}
}

func TestQueueServiceErrorBranch(t *testing.T) {
	svc, _, _ := newTestQueueService()
	ctx := context.Background()

	item, err := svc.Create(ctx, hubItem())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	item, err = svc.Transition(ctx, item.ID, &models.TransitionRequest{Status: models.QueueStatusGenerating})
	if err != nil {
		t.Fatalf("transition to generating failed: %v", err)
	}

	// error needs a message
	_, err = svc.Transition(ctx, item.ID, &models.TransitionRequest{Status: models.QueueStatusError})
	if !models.IsKind(err, models.ErrValidation) {
		t.Fatalf("expected Validation error without error_message, got %v", err)
	}

	item, err = svc.Transition(ctx, item.ID, &models.TransitionRequest{
		Status:       models.QueueStatusError,
		ErrorMessage: "generation timed out",
	})
	if err != nil {
		t.Fatalf("transition to error failed: %v", err)
	}
	if item.ErrorMessage != "generation timed out" {
		t.Errorf("error message not recorded, got %q", item.ErrorMessage)
	}

	// retry clears the error record
	item, err = svc.Transition(ctx, item.ID, &models.TransitionRequest{Status: models.QueueStatusQueued})
	if err != nil {
		t.Fatalf("re-queue failed: %v", err)
	}
	if item.ErrorMessage != "" {
		t.Errorf("error message should clear on re-queue, got %q", item.ErrorMessage)
	}
}

func TestQueueServiceInvalidEdge(t *testing.T) {
	svc, _, _ := newTestQueueService()
	ctx := context.Background()

	item, err := svc.Create(ctx, hubItem())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	_, err = svc.Transition(ctx, item.ID, &models.TransitionRequest{Status: models.QueueStatusPublished})
	if !models.IsKind(err, models.ErrInvalidTransition) {
		t.Errorf("expected InvalidTransition for queued -> published, got %v", err)
	}
}

func TestQueueServiceUpdateConflict(t *testing.T) {
	svc, _, _ := newTestQueueService()
	ctx := context.Background()

	item, err := svc.Create(ctx, hubItem())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// two operators read version 1; the second write loses
	first := *item
	second := *item

	first.Notes = "writer one"
	if _, err := svc.Update(ctx, &first); err != nil {
		t.Fatalf("first update failed: %v", err)
	}

	second.Notes = "writer two"
	_, err = svc.Update(ctx, &second)
	if !models.IsKind(err, models.ErrConflict) {
		t.Errorf("expected Conflict error for stale version, got %v", err)
	}
}

func TestQueueServiceUpdateRejectsStatusEdit(t *testing.T) {
	svc, _, _ := newTestQueueService()
	ctx := context.Background()

	item, err := svc.Create(ctx, hubItem())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	edited := *item
	edited.Status = models.QueueStatusPublished
	_, err = svc.Update(ctx, &edited)
	if !models.IsKind(err, models.ErrValidation) {
		t.Errorf("expected Validation error for direct status edit, got %v", err)
	}
}

func TestQueueServiceUpdateAllowsScheduling(t *testing.T) {
	svc, _, _ := newTestQueueService()
	ctx := context.Background()

	item, err := svc.Create(ctx, hubItem())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	date := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	edited := *item
	edited.Batch = "2025-01"
	edited.ScheduledPublishDate = &date

	updated, err := svc.Update(ctx, &edited)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Batch != "2025-01" {
		t.Errorf("batch not persisted, got %q", updated.Batch)
	}
	if updated.Version != item.Version+1 {
		t.Errorf("version should bump on update, got %d", updated.Version)
	}
}
