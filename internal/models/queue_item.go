package models

import (
	"time"
)

// QueueStatus represents the lifecycle state of a queued article topic
type QueueStatus string

const (
	QueueStatusQueued     QueueStatus = "queued"
	QueueStatusGenerating QueueStatus = "generating"
	QueueStatusDraft      QueueStatus = "draft"
	QueueStatusReview     QueueStatus = "review"
	QueueStatusPublished  QueueStatus = "published"
	QueueStatusError      QueueStatus = "error"
)

// ValidQueueStatuses defines allowed queue item statuses
var ValidQueueStatuses = map[QueueStatus]bool{
	QueueStatusQueued:     true,
	QueueStatusGenerating: true,
	QueueStatusDraft:      true,
	QueueStatusReview:     true,
	QueueStatusPublished:  true,
	QueueStatusError:      true,
}

// queueTransitions is the allowed-transition table for the queue state
// machine. Guards on individual transitions (error message required,
// scoring gate, publish ordering) are enforced by the queue service; this
// table only answers whether an edge exists at all.
var queueTransitions = map[QueueStatus][]QueueStatus{
	QueueStatusQueued:     {QueueStatusGenerating},
	QueueStatusGenerating: {QueueStatusDraft, QueueStatusError},
	QueueStatusDraft:      {QueueStatusReview},
	QueueStatusReview:     {QueueStatusPublished},
	QueueStatusPublished:  {},
	QueueStatusError:      {QueueStatusQueued},
}

// CanTransitionTo reports whether the state machine allows moving from s to target
func (s QueueStatus) CanTransitionTo(target QueueStatus) bool {
	for _, next := range queueTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether s is a terminal success state
func (s QueueStatus) IsTerminal() bool {
	return s == QueueStatusPublished
}

// ArticleType represents the topic cluster tier of an article
type ArticleType string

const (
	ArticleTypeHub       ArticleType = "hub"
	ArticleTypeSubPillar ArticleType = "sub-pillar"
	ArticleTypeSpoke     ArticleType = "spoke"
)

// ValidArticleTypes defines allowed article types
var ValidArticleTypes = map[ArticleType]bool{
	ArticleTypeHub:       true,
	ArticleTypeSubPillar: true,
	ArticleTypeSpoke:     true,
}

// ArticleStyle controls article opening structure and tone variation
type ArticleStyle string

const (
	ArticleStyleStandard   ArticleStyle = "standard"
	ArticleStyleNarrative  ArticleStyle = "narrative"
	ArticleStyleListicle   ArticleStyle = "listicle"
	ArticleStyleDataHeavy  ArticleStyle = "data-heavy"
	ArticleStyleComparison ArticleStyle = "comparison"
)

// ValidArticleStyles defines allowed article styles
var ValidArticleStyles = map[ArticleStyle]bool{
	ArticleStyleStandard:   true,
	ArticleStyleNarrative:  true,
	ArticleStyleListicle:   true,
	ArticleStyleDataHeavy:  true,
	ArticleStyleComparison: true,
}

// Priority represents scheduling priority (S1 high, S2 medium, S3 low)
type Priority string

const (
	PriorityS1 Priority = "S1"
	PriorityS2 Priority = "S2"
	PriorityS3 Priority = "S3"
)

// ValidPriorities defines allowed priorities
var ValidPriorities = map[Priority]bool{
	PriorityS1: true,
	PriorityS2: true,
	PriorityS3: true,
}

// Rank returns the sort rank of a priority; S1 sorts before S2 before S3.
// Unknown priorities sort last.
func (p Priority) Rank() int {
	switch p {
	case PriorityS1:
		return 0
	case PriorityS2:
		return 1
	case PriorityS3:
		return 2
	}
	return 3
}

// OutlineSection is one ordered heading within a queue item's planned article
type OutlineSection struct {
	Order    int    `json:"order"`
	AnchorID string `json:"anchor_id,omitempty"`
	Heading  string `json:"heading"`
	Summary  string `json:"summary,omitempty"`
	LinksTo  string `json:"links_to,omitempty"` // slug of article this section should link to
}

// QueueItem is a candidate article tracked from ideation through
// AI-assisted generation to publication
type QueueItem struct {
	ID                   string           `json:"id" db:"id"`
	Keyword              string           `json:"keyword" db:"keyword"`
	SuggestedTitle       string           `json:"suggested_title" db:"suggested_title"`
	AirportCode          string           `json:"airport_code" db:"airport_code"`
	Slug                 string           `json:"slug" db:"slug"`
	ArticleType          ArticleType      `json:"article_type" db:"article_type"`
	ArticleStyle         ArticleStyle     `json:"article_style" db:"article_style"`
	ParentSlug           string           `json:"parent_slug,omitempty" db:"parent_slug"`
	HubSlug              string           `json:"hub_slug,omitempty" db:"hub_slug"`
	SearchVolume         *int             `json:"search_volume,omitempty" db:"search_volume"`
	SEODifficulty        *int             `json:"seo_difficulty,omitempty" db:"seo_difficulty"`
	TargetWords          int              `json:"target_words" db:"target_words"`
	Priority             Priority         `json:"priority" db:"priority"`
	Status               QueueStatus      `json:"status" db:"status"`
	Batch                string           `json:"batch,omitempty" db:"batch"`
	ScheduledPublishDate *time.Time       `json:"scheduled_publish_date,omitempty" db:"scheduled_publish_date"`
	CompetitorURLs       []string         `json:"competitor_urls,omitempty" db:"-"`
	Outline              []OutlineSection `json:"outline,omitempty" db:"-"`
	GeneratedPostID      string           `json:"generated_post_id,omitempty" db:"generated_post_id"`
	ErrorMessage         string           `json:"error_message,omitempty" db:"error_message"`
	Notes                string           `json:"notes,omitempty" db:"notes"`
	Version              int              `json:"version" db:"version"`
	CreatedAt            time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at" db:"updated_at"`
}

// DefaultTargetWords is the target word count applied when none is given
const DefaultTargetWords = 1500

// QueueFilter narrows queue listings to the indexed lookup fields
type QueueFilter struct {
	AirportCode string
	ArticleType ArticleType
	Status      QueueStatus
	Batch       string
}

// TransitionRequest is the payload for a status transition
type TransitionRequest struct {
	Status          QueueStatus `json:"status"`
	ErrorMessage    string      `json:"error_message,omitempty"`
	GeneratedPostID string      `json:"generated_post_id,omitempty"`
}
