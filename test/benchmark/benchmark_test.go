package benchmark

import (
	"strings"
	"testing"

	"github.com/triply/content-engine/internal/models"
	"github.com/triply/content-engine/internal/security"
	"github.com/triply/content-engine/internal/validation"
)

// BenchmarkDeriveSlug benchmarks slug derivation from keyword phrases
func BenchmarkDeriveSlug(b *testing.B) {
	titles := []string{
		"JFK Airport Parking: The Complete Guide",
		"LGA Cell Phone Lot — Rules & Wait Times",
		"EWR   Long-Term   Parking Rates (2026)",
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		validation.DeriveSlug(titles[i%len(titles)])
	}
}

// BenchmarkValidateQueueItem benchmarks the full queue item validation pipeline
func BenchmarkValidateQueueItem(b *testing.B) {
	item := &models.QueueItem{
		ID:             "550e8400-e29b-41d4-a716-446655440000",
		Keyword:        "jfk parking",
		SuggestedTitle: "JFK Airport Parking: The Complete Guide",
		AirportCode:    "JFK",
		Slug:           "jfk-airport-parking-the-complete-guide",
		ArticleType:    models.ArticleTypeHub,
		ArticleStyle:   models.ArticleStyleStandard,
		Priority:       models.PriorityS1,
		Status:         models.QueueStatusQueued,
		TargetWords:    models.DefaultTargetWords,
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		validation.ValidateQueueItem(item)
	}
}

// BenchmarkSanitizeHTML benchmarks content sanitization on a typical article body
func BenchmarkSanitizeHTML(b *testing.B) {
	sanitizer := security.NewSanitizer()

	var buf strings.Builder
	for i := 0; i < 50; i++ {
		buf.WriteString(`<h2 id="section">Daily parking rates</h2><p>The <a href="/jfk-economy-lot">economy lot</a> runs $22 per day with a free AirTrain shuttle.</p>`)
	}
	content := buf.String()

	b.ResetTimer()
	b.ReportAllocs()
	b.SetBytes(int64(len(content)))

	for i := 0; i < b.N; i++ {
		sanitizer.SanitizeHTML(content)
	}
}

// BenchmarkExtractText benchmarks markup stripping used by the scoring gate
func BenchmarkExtractText(b *testing.B) {
	sanitizer := security.NewSanitizer()

	var buf strings.Builder
	for i := 0; i < 50; i++ {
		buf.WriteString(`<p>Parking at JFK ranges from valet at Terminal 4 to the long-term economy lot on the AirTrain line.</p>`)
	}
	content := buf.String()

	b.ResetTimer()
	b.ReportAllocs()
	b.SetBytes(int64(len(content)))

	for i := 0; i < b.N; i++ {
		sanitizer.ExtractText(content)
	}
}

// BenchmarkCanTransitionTo benchmarks the lifecycle edge lookup
func BenchmarkCanTransitionTo(b *testing.B) {
	states := []models.QueueStatus{
		models.QueueStatusQueued,
		models.QueueStatusGenerating,
		models.QueueStatusDraft,
		models.QueueStatusReview,
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		from := states[i%len(states)]
		from.CanTransitionTo(models.QueueStatusPublished)
	}
}
