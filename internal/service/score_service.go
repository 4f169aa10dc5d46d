package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/triply/content-engine/internal/metrics"
	"github.com/triply/content-engine/internal/models"
	"github.com/triply/content-engine/internal/repository"
	"github.com/triply/content-engine/internal/security"
)

// scoreService is the SEO scoring gate. Score is a pure function of the
// post's persisted fields plus the originating queue item's keyword,
// target length and outline; running it twice on unchanged input yields
// identical output. Persisting goes through the repository's dedicated
// UpdateSEOScore path, the only writer of the score columns.
type scoreService struct {
	postRepo  repository.PostRepository
	queueRepo repository.QueueRepository
	sanitizer security.Sanitizer
	collector metrics.Collector
	log       zerolog.Logger
}

// newScoreService creates a new ScoreService
func newScoreService(
	postRepo repository.PostRepository,
	queueRepo repository.QueueRepository,
	sanitizer security.Sanitizer,
	collector metrics.Collector,
	log zerolog.Logger,
) *scoreService {
	return &scoreService{
		postRepo:  postRepo,
		queueRepo: queueRepo,
		sanitizer: sanitizer,
		collector: collector,
		log:       log.With().Str("service", "score").Logger(),
	}
}

// sub-score weights, summing to 100
const (
	weightKeyword       = 30
	weightLength        = 25
	weightMeta          = 20
	weightInternalLinks = 15
	weightFAQ           = 10
)

// leadWords is how much of the article counts as the lead for keyword placement
const leadWords = 100

// ScorePost computes the score for a post and persists score and breakdown
// in one statement. Explicit and re-runnable; never invoked on save.
func (s *scoreService) ScorePost(ctx context.Context, postID string) (*models.SEOScoreDetails, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, models.NewNotFoundError("post", postID)
	}

	// the originating queue item carries keyword, target length and
	// outline; posts created outside the queue score against defaults
	origin, err := s.queueRepo.GetByGeneratedPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	details := s.Score(post, origin)
	if err := s.postRepo.UpdateSEOScore(ctx, postID, details.Total, details); err != nil {
		return nil, err
	}

	s.collector.RecordScoreComputed(details.Total)
	s.log.Info().
		Str("post_id", postID).
		Str("slug", post.Slug).
		Int("score", details.Total).
		Msg("SEO score computed")

	return details, nil
}

// Score computes the 0-100 readiness score and its breakdown
func (s *scoreService) Score(post *models.Post, origin *models.QueueItem) *models.SEOScoreDetails {
	keyword := focusKeyword(post, origin)
	targetWords := models.DefaultTargetWords
	if origin != nil && origin.TargetWords > 0 {
		targetWords = origin.TargetWords
	}

	text := s.sanitizer.ExtractText(post.Content)
	words := strings.Fields(text)

	details := &models.SEOScoreDetails{
		Keyword:       keywordScore(post, keyword, words),
		Length:        lengthScore(len(words), targetWords),
		Meta:          metaScore(post),
		InternalLinks: internalLinkScore(post, origin),
		FAQ:           faqScore(post),
		WordCount:     len(words),
		TargetWords:   targetWords,
		FocusKeyword:  keyword,
	}
	details.Total = (details.Keyword*weightKeyword +
		details.Length*weightLength +
		details.Meta*weightMeta +
		details.InternalLinks*weightInternalLinks +
		details.FAQ*weightFAQ) / 100

	return details
}

// focusKeyword prefers the queue item's target keyword, falling back to
// the slug read as a phrase
func focusKeyword(post *models.Post, origin *models.QueueItem) string {
	if origin != nil && origin.Keyword != "" {
		return strings.ToLower(origin.Keyword)
	}
	return strings.ReplaceAll(post.Slug, "-", " ")
}

// keywordScore rewards keyword placement in title, meta title, excerpt
// and the article lead
func keywordScore(post *models.Post, keyword string, words []string) int {
	if keyword == "" {
		return 0
	}
	score := 0
	if containsFold(post.Title, keyword) {
		score += 30
	}
	if containsFold(post.SEO.MetaTitle, keyword) {
		score += 20
	}
	if containsFold(post.Excerpt, keyword) {
		score += 20
	}
	lead := words
	if len(lead) > leadWords {
		lead = lead[:leadWords]
	}
	if containsFold(strings.Join(lead, " "), keyword) {
		score += 30
	}
	return score
}

// lengthScore is proportional to target achievement, capped at 100
func lengthScore(wordCount, targetWords int) int {
	if targetWords <= 0 {
		return 0
	}
	score := wordCount * 100 / targetWords
	if score > 100 {
		score = 100
	}
	return score
}

// metaScore rewards complete, in-budget meta fields
func metaScore(post *models.Post) int {
	score := 0
	if t := post.SEO.MetaTitle; t != "" && len(t) <= models.MetaTitleMaxLen {
		score += 50
	}
	if d := post.SEO.MetaDescription; d != "" && len(d) <= models.MetaDescriptionMaxLen {
		score += 50
	}
	return score
}

// internalLinkScore measures outline link coverage when an outline exists,
// otherwise counts anchors in the rendered content
func internalLinkScore(post *models.Post, origin *models.QueueItem) int {
	if origin != nil && len(origin.Outline) > 0 {
		linked := 0
		for _, section := range origin.Outline {
			if section.LinksTo != "" {
				linked++
			}
		}
		return linked * 100 / len(origin.Outline)
	}
	anchors := strings.Count(post.Content, "<a ")
	score := anchors * 25
	if score > 100 {
		score = 100
	}
	return score
}

// faqScore rewards FAQ coverage up to four items
func faqScore(post *models.Post) int {
	score := len(post.FAQItems) * 25
	if score > 100 {
		score = 100
	}
	return score
}

// containsFold reports whether s contains substr case-insensitively
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
