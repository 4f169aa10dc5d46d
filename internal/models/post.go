package models

import (
	"time"
)

// PostStatus represents the publication state of a post
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
)

// ValidPostStatuses defines allowed post statuses
var ValidPostStatuses = map[PostStatus]bool{
	PostStatusDraft:     true,
	PostStatusPublished: true,
}

// Field length limits carried over from the CMS schema
const (
	PostTitleMaxLen       = 100
	PostExcerptMaxLen     = 300
	MetaTitleMaxLen       = 60
	MetaDescriptionMaxLen = 160
)

// SEOMeta holds the search-engine override fields of a post
type SEOMeta struct {
	MetaTitle       string `json:"meta_title,omitempty"`
	MetaDescription string `json:"meta_description,omitempty"`
}

// FAQItem is one question/answer pair rendered as accordion and schema markup
type FAQItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// SEOScoreDetails is the structured breakdown attached alongside the SEO
// score. Sub-scores are 0-100 within their own dimension; Total is the
// weighted 0-100 aggregate persisted as the post's seoScore.
type SEOScoreDetails struct {
	Total         int    `json:"total"`
	Keyword       int    `json:"keyword"`
	Length        int    `json:"length"`
	Meta          int    `json:"meta"`
	InternalLinks int    `json:"internal_links"`
	FAQ           int    `json:"faq"`
	WordCount     int    `json:"word_count"`
	TargetWords   int    `json:"target_words"`
	FocusKeyword  string `json:"focus_keyword"`
}

// Post is a published or draft article. SEOScore and SEOScoreDetails are
// read-only from the API: only the scoring gate's repository path writes them.
type Post struct {
	ID              string           `json:"id" db:"id"`
	Title           string           `json:"title" db:"title"`
	Slug            string           `json:"slug" db:"slug"`
	Excerpt         string           `json:"excerpt" db:"excerpt"`
	FeaturedImageID string           `json:"featured_image_id,omitempty" db:"featured_image_id"`
	Content         string           `json:"content" db:"content"` // sanitized HTML
	CategoryID      string           `json:"category_id" db:"category_id"`
	TagIDs          []string         `json:"tag_ids,omitempty" db:"-"`
	AuthorID        string           `json:"author_id" db:"author_id"`
	Status          PostStatus       `json:"status" db:"status"`
	PublishedAt     *time.Time       `json:"published_at,omitempty" db:"published_at"`
	SEO             SEOMeta          `json:"seo" db:"-"`
	SEOScore        *int             `json:"seo_score,omitempty" db:"seo_score"`
	SEOScoreDetails *SEOScoreDetails `json:"seo_score_details,omitempty" db:"-"`
	AirportCode     string           `json:"airport_code,omitempty" db:"airport_code"`
	ArticleType     ArticleType      `json:"article_type,omitempty" db:"article_type"`
	ParentSlug      string           `json:"parent_slug,omitempty" db:"parent_slug"`
	HubSlug         string           `json:"hub_slug,omitempty" db:"hub_slug"`
	FAQItems        []FAQItem        `json:"faq_items,omitempty" db:"-"`
	CreatedAt       time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at" db:"updated_at"`
}

// IsScored reports whether the scoring gate has run for this post
func (p *Post) IsScored() bool {
	return p.SEOScore != nil
}
