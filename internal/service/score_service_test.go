package service

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/triply/content-engine/internal/metrics"
	"github.com/triply/content-engine/internal/mocks"
	"github.com/triply/content-engine/internal/models"
	"github.com/triply/content-engine/internal/security"
)

func newTestScoreService() (*scoreService, *mocks.MockQueueRepository, *mocks.MockPostRepository) {
	queueRepo := mocks.NewMockQueueRepository()
	postRepo := mocks.NewMockPostRepository()
	score := newScoreService(postRepo, queueRepo, security.NewSanitizer(), metrics.NopCollector{}, zerolog.Nop())
	return score, queueRepo, postRepo
}

func scorablePost() *models.Post {
	return &models.Post{
		ID:      "post-1",
		Title:   "JFK Parking Guide",
		Slug:    "jfk-parking",
		Excerpt: "Everything about jfk parking in one place.",
		Content: "<p>" + strings.Repeat("jfk parking rates and lots compared in detail here ", 150) + "</p>",
		SEO: models.SEOMeta{
			MetaTitle:       "JFK Parking Guide",
			MetaDescription: "Compare jfk parking rates across every lot.",
		},
		FAQItems: []models.FAQItem{
			{Question: "How much is parking?", Answer: "From $18 per day."},
			{Question: "Can I reserve?", Answer: "Yes, online."},
		},
		Status: models.PostStatusDraft,
	}
}

func TestScoreIsPureAndDeterministic(t *testing.T) {
	svc, _, _ := newTestScoreService()

	post := scorablePost()
	origin := &models.QueueItem{
		Keyword:     "jfk parking",
		TargetWords: 1200,
		Outline: []models.OutlineSection{
			{Order: 1, Heading: "Rates", LinksTo: "jfk-parking-rates"},
			{Order: 2, Heading: "Lots"},
		},
	}

	first := svc.Score(post, origin)
	second := svc.Score(post, origin)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical inputs must yield identical scores: %+v vs %+v", first, second)
	}

	if first.Total < 0 || first.Total > 100 {
		t.Errorf("total must be 0-100, got %d", first.Total)
	}
	if first.FocusKeyword != "jfk parking" {
		t.Errorf("focus keyword should come from the origin item, got %q", first.FocusKeyword)
	}
	if first.TargetWords != 1200 {
		t.Errorf("target words should come from the origin item, got %d", first.TargetWords)
	}
	// one of two outline sections carries a link
	if first.InternalLinks != 50 {
		t.Errorf("expected internal link sub-score 50, got %d", first.InternalLinks)
	}
	// two FAQ items at 25 each
	if first.FAQ != 50 {
		t.Errorf("expected FAQ sub-score 50, got %d", first.FAQ)
	}
}

func TestScoreWithoutOriginFallsBackToSlug(t *testing.T) {
	svc, _, _ := newTestScoreService()

	post := scorablePost()
	details := svc.Score(post, nil)

	if details.FocusKeyword != "jfk parking" {
		t.Errorf("expected slug-derived keyword %q, got %q", "jfk parking", details.FocusKeyword)
	}
	if details.TargetWords != models.DefaultTargetWords {
		t.Errorf("expected default target words, got %d", details.TargetWords)
	}
}

func TestScoreCountsRenderedWordsOnly(t *testing.T) {
	svc, _, _ := newTestScoreService()

	withMarkup := scorablePost()
	withMarkup.Content = "<h2>One two</h2><p>three <a href=\"/x\">four</a></p>"

	details := svc.Score(withMarkup, nil)
	if details.WordCount != 4 {
		t.Errorf("markup must not count as words, got %d", details.WordCount)
	}
}

func TestScorePostPersists(t *testing.T) {
	svc, queueRepo, postRepo := newTestScoreService()
	ctx := context.Background()

	post := scorablePost()
	if err := postRepo.Create(ctx, post); err != nil {
		t.Fatalf("seed post failed: %v", err)
	}
	origin := &models.QueueItem{
		ID:              "queue-1",
		Keyword:         "jfk parking",
		SuggestedTitle:  "JFK Parking",
		AirportCode:     "JFK",
		Slug:            "jfk-parking",
		ArticleType:     models.ArticleTypeHub,
		TargetWords:     1200,
		Status:          models.QueueStatusDraft,
		GeneratedPostID: post.ID,
		Version:         1,
	}
	if err := queueRepo.Create(ctx, origin); err != nil {
		t.Fatalf("seed queue item failed: %v", err)
	}

	details, err := svc.ScorePost(ctx, post.ID)
	if err != nil {
		t.Fatalf("ScorePost failed: %v", err)
	}

	stored, _ := postRepo.GetByID(ctx, post.ID)
	if !stored.IsScored() {
		t.Fatal("post should be scored after ScorePost")
	}
	if *stored.SEOScore != details.Total {
		t.Errorf("persisted score %d does not match returned total %d", *stored.SEOScore, details.Total)
	}
	if stored.SEOScoreDetails == nil || stored.SEOScoreDetails.Total != details.Total {
		t.Error("breakdown not persisted alongside the score")
	}

	// re-running on unchanged input is a no-op rescore
	again, err := svc.ScorePost(ctx, post.ID)
	if err != nil {
		t.Fatalf("rescore failed: %v", err)
	}
	if !reflect.DeepEqual(details, again) {
		t.Errorf("rescore on unchanged input must match: %+v vs %+v", details, again)
	}
}

func TestScorePostNotFound(t *testing.T) {
	svc, _, _ := newTestScoreService()

	_, err := svc.ScorePost(context.Background(), "no-such-post")
	if !models.IsKind(err, models.ErrNotFound) {
		t.Errorf("expected NotFound error, got %v", err)
	}
}
