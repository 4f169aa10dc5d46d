package validation

import (
	"testing"

	"github.com/triply/content-engine/internal/models"
)

func TestDeriveSlug(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{
			name:  "title with spaces and punctuation",
			title: "JFK Airport Parking: The Complete Guide!",
			want:  "jfk-airport-parking-the-complete-guide",
		},
		{
			name:  "already a valid slug is returned unchanged",
			title: "jfk-parking",
			want:  "jfk-parking",
		},
		{
			name:  "consecutive separators collapse to one hyphen",
			title: "Cheap   --  Parking",
			want:  "cheap-parking",
		},
		{
			name:  "leading and trailing separators are trimmed",
			title: "  JFK Parking  ",
			want:  "jfk-parking",
		},
		{
			name:  "uppercase input is lowercased",
			title: "LGA Terminal B",
			want:  "lga-terminal-b",
		},
		{
			name:  "digits are preserved",
			title: "Top 10 Hotels Near JFK",
			want:  "top-10-hotels-near-jfk",
		},
		{
			name:  "all punctuation yields empty slug",
			title: "!!!",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveSlug(tt.title)
			if got != tt.want {
				t.Errorf("DeriveSlug(%q) = %q, want %q", tt.title, got, tt.want)
			}
			if got != "" && !IsValidSlug(got) {
				t.Errorf("DeriveSlug(%q) produced invalid slug %q", tt.title, got)
			}
		})
	}
}

func TestDeriveSlugIdempotent(t *testing.T) {
	titles := []string{
		"JFK Airport Parking: The Complete Guide!",
		"Top 10 Hotels Near JFK",
		"lga-terminal-b",
	}
	for _, title := range titles {
		once := DeriveSlug(title)
		twice := DeriveSlug(once)
		if once != twice {
			t.Errorf("DeriveSlug not idempotent for %q: %q != %q", title, once, twice)
		}
	}
}

func validQueueItem() *models.QueueItem {
	return &models.QueueItem{
		ID:             "550e8400-e29b-41d4-a716-446655440000",
		Keyword:        "jfk parking",
		SuggestedTitle: "JFK Parking Guide",
		AirportCode:    "JFK",
		Slug:           "jfk-parking",
		ArticleType:    models.ArticleTypeHub,
		ArticleStyle:   models.ArticleStyleStandard,
		TargetWords:    1500,
		Priority:       models.PriorityS1,
		Status:         models.QueueStatusQueued,
	}
}

func TestValidateQueueItem(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*models.QueueItem)
		wantErrors int
		wantFields []string
	}{
		{
			name:       "valid hub",
			mutate:     func(item *models.QueueItem) {},
			wantErrors: 0,
		},
		{
			name: "missing keyword",
			mutate: func(item *models.QueueItem) {
				item.Keyword = ""
			},
			wantErrors: 1,
			wantFields: []string{"keyword"},
		},
		{
			name: "lowercase airport code",
			mutate: func(item *models.QueueItem) {
				item.AirportCode = "jfk"
			},
			wantErrors: 1,
			wantFields: []string{"airport_code"},
		},
		{
			name: "malformed slug",
			mutate: func(item *models.QueueItem) {
				item.Slug = "JFK--Parking"
			},
			wantErrors: 1,
			wantFields: []string{"slug"},
		},
		{
			name: "hub with parent reference",
			mutate: func(item *models.QueueItem) {
				item.ParentSlug = "jfk-travel"
			},
			wantErrors: 1,
			wantFields: []string{"parent_slug"},
		},
		{
			name: "hub with hub reference",
			mutate: func(item *models.QueueItem) {
				item.HubSlug = "jfk-travel"
			},
			wantErrors: 1,
			wantFields: []string{"hub_slug"},
		},
		{
			name: "spoke with cluster references is valid",
			mutate: func(item *models.QueueItem) {
				item.ArticleType = models.ArticleTypeSpoke
				item.ParentSlug = "jfk-parking-lots"
				item.HubSlug = "jfk-parking"
				item.Slug = "jfk-long-term-parking"
			},
			wantErrors: 0,
		},
		{
			name: "error status without message",
			mutate: func(item *models.QueueItem) {
				item.Status = models.QueueStatusError
			},
			wantErrors: 1,
			wantFields: []string{"error_message"},
		},
		{
			name: "error message outside error status",
			mutate: func(item *models.QueueItem) {
				item.ErrorMessage = "generation timed out"
			},
			wantErrors: 1,
			wantFields: []string{"error_message"},
		},
		{
			name: "seo difficulty out of range",
			mutate: func(item *models.QueueItem) {
				v := 150
				item.SEODifficulty = &v
			},
			wantErrors: 1,
			wantFields: []string{"seo_difficulty"},
		},
		{
			name: "non-positive target words",
			mutate: func(item *models.QueueItem) {
				item.TargetWords = 0
			},
			wantErrors: 1,
			wantFields: []string{"target_words"},
		},
		{
			name: "competitor URL with bad scheme",
			mutate: func(item *models.QueueItem) {
				item.CompetitorURLs = []string{"ftp://example.com/feed"}
			},
			wantErrors: 1,
			wantFields: []string{"competitor_urls[0]"},
		},
		{
			name: "duplicate outline order",
			mutate: func(item *models.QueueItem) {
				item.Outline = []models.OutlineSection{
					{Order: 1, Heading: "Overview"},
					{Order: 1, Heading: "Rates"},
				}
			},
			wantErrors: 1,
			wantFields: []string{"outline[1].order"},
		},
		{
			name: "outline section without heading",
			mutate: func(item *models.QueueItem) {
				item.Outline = []models.OutlineSection{{Order: 1}}
			},
			wantErrors: 1,
			wantFields: []string{"outline[0].heading"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := validQueueItem()
			tt.mutate(item)

			errs := ValidateQueueItem(item)
			if len(errs) != tt.wantErrors {
				t.Errorf("ValidateQueueItem() got %d errors, want %d. Errors: %v", len(errs), tt.wantErrors, errs)
			}

			for _, wantField := range tt.wantFields {
				found := false
				for _, err := range errs {
					if err.Field == wantField {
						found = true
						break
					}
				}
				if !found {
					t.Errorf("expected error on field %q, got %v", wantField, errs)
				}
			}
		})
	}
}

func TestValidatePost(t *testing.T) {
	longString := func(n int) string {
		s := make([]byte, n)
		for i := range s {
			s[i] = 'a'
		}
		return string(s)
	}

	tests := []struct {
		name       string
		mutate     func(*models.Post)
		wantErrors int
		wantFields []string
	}{
		{
			name:       "valid draft",
			mutate:     func(p *models.Post) {},
			wantErrors: 0,
		},
		{
			name: "title over limit",
			mutate: func(p *models.Post) {
				p.Title = longString(models.PostTitleMaxLen + 1)
			},
			wantErrors: 1,
			wantFields: []string{"title"},
		},
		{
			name: "excerpt over limit",
			mutate: func(p *models.Post) {
				p.Excerpt = longString(models.PostExcerptMaxLen + 1)
			},
			wantErrors: 1,
			wantFields: []string{"excerpt"},
		},
		{
			name: "meta title over limit",
			mutate: func(p *models.Post) {
				p.SEO.MetaTitle = longString(models.MetaTitleMaxLen + 1)
			},
			wantErrors: 1,
			wantFields: []string{"seo.meta_title"},
		},
		{
			name: "published without timestamp",
			mutate: func(p *models.Post) {
				p.Status = models.PostStatusPublished
			},
			wantErrors: 1,
			wantFields: []string{"published_at"},
		},
		{
			name: "faq item without answer",
			mutate: func(p *models.Post) {
				p.FAQItems = []models.FAQItem{{Question: "Is parking covered?"}}
			},
			wantErrors: 1,
			wantFields: []string{"faq_items[0].answer"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post := &models.Post{
				ID:         "550e8400-e29b-41d4-a716-446655440001",
				Title:      "JFK Parking Guide",
				Slug:       "jfk-parking",
				Excerpt:    "Everything about parking at JFK.",
				Content:    "<p>Parking at JFK.</p>",
				CategoryID: "cat-1",
				AuthorID:   "author-1",
				Status:     models.PostStatusDraft,
			}
			tt.mutate(post)

			errs := ValidatePost(post)
			if len(errs) != tt.wantErrors {
				t.Errorf("ValidatePost() got %d errors, want %d. Errors: %v", len(errs), tt.wantErrors, errs)
			}

			for _, wantField := range tt.wantFields {
				found := false
				for _, err := range errs {
					if err.Field == wantField {
						found = true
						break
					}
				}
				if !found {
					t.Errorf("expected error on field %q, got %v", wantField, errs)
				}
			}
		})
	}
}
