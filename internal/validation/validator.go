package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/triply/content-engine/internal/models"
)

var (
	slugRegex        = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	airportCodeRegex = regexp.MustCompile(`^[A-Z]{3}$`)
	nonAlnumRegex    = regexp.MustCompile(`[^a-z0-9]+`)
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// DeriveSlug derives a URL-safe slug from a human title: lowercase, runs of
// non-alphanumeric characters collapsed to single hyphens, leading/trailing
// hyphens trimmed. An input that is already a valid slug is returned
// unchanged.
func DeriveSlug(title string) string {
	if slugRegex.MatchString(title) {
		return title
	}
	slug := strings.ToLower(title)
	slug = nonAlnumRegex.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// IsValidSlug reports whether s is a well-formed slug
func IsValidSlug(s string) bool {
	return slugRegex.MatchString(s)
}

// ValidateQueueItem validates a queue item's field constraints
func ValidateQueueItem(item *models.QueueItem) []ValidationError {
	var errs []ValidationError

	if item.Keyword == "" {
		errs = append(errs, ValidationError{Field: "keyword", Message: "keyword is required"})
	}
	if item.SuggestedTitle == "" {
		errs = append(errs, ValidationError{Field: "suggested_title", Message: "suggested_title is required"})
	}
	if item.AirportCode == "" {
		errs = append(errs, ValidationError{Field: "airport_code", Message: "airport_code is required"})
	} else if !airportCodeRegex.MatchString(item.AirportCode) {
		errs = append(errs, ValidationError{Field: "airport_code", Message: "airport_code must be a 3-letter IATA code", Value: item.AirportCode})
	}
	if item.Slug == "" {
		errs = append(errs, ValidationError{Field: "slug", Message: "slug is required"})
	} else if !IsValidSlug(item.Slug) {
		errs = append(errs, ValidationError{Field: "slug", Message: "slug must contain only lowercase letters, digits and single hyphens", Value: item.Slug})
	}
	if !models.ValidArticleTypes[item.ArticleType] {
		errs = append(errs, ValidationError{Field: "article_type", Message: "article_type must be one of: hub, sub-pillar, spoke", Value: string(item.ArticleType)})
	}
	if !models.ValidArticleStyles[item.ArticleStyle] {
		errs = append(errs, ValidationError{Field: "article_style", Message: "invalid article_style", Value: string(item.ArticleStyle)})
	}
	if !models.ValidPriorities[item.Priority] {
		errs = append(errs, ValidationError{Field: "priority", Message: "priority must be one of: S1, S2, S3", Value: string(item.Priority)})
	}
	if !models.ValidQueueStatuses[item.Status] {
		errs = append(errs, ValidationError{Field: "status", Message: "invalid status", Value: string(item.Status)})
	}
	if item.ArticleType == models.ArticleTypeHub {
		if item.ParentSlug != "" {
			errs = append(errs, ValidationError{Field: "parent_slug", Message: "a hub must not have a parent_slug", Value: item.ParentSlug})
		}
		if item.HubSlug != "" {
			errs = append(errs, ValidationError{Field: "hub_slug", Message: "a hub must not have a hub_slug", Value: item.HubSlug})
		}
	}
	if item.ParentSlug != "" && !IsValidSlug(item.ParentSlug) {
		errs = append(errs, ValidationError{Field: "parent_slug", Message: "parent_slug is not a well-formed slug", Value: item.ParentSlug})
	}
	if item.HubSlug != "" && !IsValidSlug(item.HubSlug) {
		errs = append(errs, ValidationError{Field: "hub_slug", Message: "hub_slug is not a well-formed slug", Value: item.HubSlug})
	}
	if item.SearchVolume != nil && *item.SearchVolume < 0 {
		errs = append(errs, ValidationError{Field: "search_volume", Message: "search_volume must be non-negative", Value: *item.SearchVolume})
	}
	if item.SEODifficulty != nil && (*item.SEODifficulty < 0 || *item.SEODifficulty > 100) {
		errs = append(errs, ValidationError{Field: "seo_difficulty", Message: "seo_difficulty must be between 0 and 100", Value: *item.SEODifficulty})
	}
	if item.TargetWords <= 0 {
		errs = append(errs, ValidationError{Field: "target_words", Message: "target_words must be positive", Value: item.TargetWords})
	}
	if item.Status == models.QueueStatusError && item.ErrorMessage == "" {
		errs = append(errs, ValidationError{Field: "error_message", Message: "error_message is required when status is error"})
	}
	if item.Status != models.QueueStatusError && item.ErrorMessage != "" {
		errs = append(errs, ValidationError{Field: "error_message", Message: "error_message is only allowed when status is error"})
	}
	for i, u := range item.CompetitorURLs {
		if err := validateHTTPURL(u); err != nil {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("competitor_urls[%d]", i),
				Message: err.Error(),
				Value:   u,
			})
		}
	}
	errs = append(errs, validateOutline(item.Outline)...)

	return errs
}

// validateOutline checks that outline order values are unique and headings present
func validateOutline(outline []models.OutlineSection) []ValidationError {
	var errs []ValidationError
	seen := make(map[int]bool, len(outline))
	for i, section := range outline {
		if section.Heading == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("outline[%d].heading", i),
				Message: "heading is required",
			})
		}
		if seen[section.Order] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("outline[%d].order", i),
				Message: "order values must be unique within the outline",
				Value:   section.Order,
			})
		}
		seen[section.Order] = true
		if section.LinksTo != "" && !IsValidSlug(section.LinksTo) {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("outline[%d].links_to", i),
				Message: "links_to is not a well-formed slug",
				Value:   section.LinksTo,
			})
		}
	}
	return errs
}

// ValidatePost validates a post's field constraints
func ValidatePost(post *models.Post) []ValidationError {
	var errs []ValidationError

	if post.Title == "" {
		errs = append(errs, ValidationError{Field: "title", Message: "title is required"})
	} else if len(post.Title) > models.PostTitleMaxLen {
		errs = append(errs, ValidationError{Field: "title", Message: fmt.Sprintf("title must be at most %d characters", models.PostTitleMaxLen)})
	}
	if post.Slug != "" && !IsValidSlug(post.Slug) {
		errs = append(errs, ValidationError{Field: "slug", Message: "slug must contain only lowercase letters, digits and single hyphens", Value: post.Slug})
	}
	if post.Excerpt == "" {
		errs = append(errs, ValidationError{Field: "excerpt", Message: "excerpt is required"})
	} else if len(post.Excerpt) > models.PostExcerptMaxLen {
		errs = append(errs, ValidationError{Field: "excerpt", Message: fmt.Sprintf("excerpt must be at most %d characters", models.PostExcerptMaxLen)})
	}
	if post.Content == "" {
		errs = append(errs, ValidationError{Field: "content", Message: "content is required"})
	}
	if post.CategoryID == "" {
		errs = append(errs, ValidationError{Field: "category_id", Message: "category_id is required"})
	}
	if post.AuthorID == "" {
		errs = append(errs, ValidationError{Field: "author_id", Message: "author_id is required"})
	}
	if !models.ValidPostStatuses[post.Status] {
		errs = append(errs, ValidationError{Field: "status", Message: "status must be draft or published", Value: string(post.Status)})
	}
	if post.Status == models.PostStatusPublished && post.PublishedAt == nil {
		errs = append(errs, ValidationError{Field: "published_at", Message: "published_at is required for published posts"})
	}
	if len(post.SEO.MetaTitle) > models.MetaTitleMaxLen {
		errs = append(errs, ValidationError{Field: "seo.meta_title", Message: fmt.Sprintf("meta_title must be at most %d characters", models.MetaTitleMaxLen)})
	}
	if len(post.SEO.MetaDescription) > models.MetaDescriptionMaxLen {
		errs = append(errs, ValidationError{Field: "seo.meta_description", Message: fmt.Sprintf("meta_description must be at most %d characters", models.MetaDescriptionMaxLen)})
	}
	if post.ArticleType != "" && !models.ValidArticleTypes[post.ArticleType] {
		errs = append(errs, ValidationError{Field: "article_type", Message: "article_type must be one of: hub, sub-pillar, spoke", Value: string(post.ArticleType)})
	}
	for i, faq := range post.FAQItems {
		if faq.Question == "" {
			errs = append(errs, ValidationError{Field: fmt.Sprintf("faq_items[%d].question", i), Message: "question is required"})
		}
		if faq.Answer == "" {
			errs = append(errs, ValidationError{Field: fmt.Sprintf("faq_items[%d].answer", i), Message: "answer is required"})
		}
	}

	return errs
}

// validateHTTPURL checks URL syntax only; SSRF checks against resolved
// addresses live in the security package
func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https")
	}
	if u.Host == "" {
		return fmt.Errorf("URL host is required")
	}
	return nil
}

// FirstError converts a validation error list into a single domain error,
// or nil when the list is empty
func FirstError(errs []ValidationError) error {
	if len(errs) == 0 {
		return nil
	}
	return models.NewValidationError(errs[0].Field, errs[0].Message)
}
