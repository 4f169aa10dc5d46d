package models

import "testing"

func TestCanTransitionTo(t *testing.T) {
	allowed := []struct {
		from QueueStatus
		to   QueueStatus
	}{
		{QueueStatusQueued, QueueStatusGenerating},
		{QueueStatusGenerating, QueueStatusDraft},
		{QueueStatusGenerating, QueueStatusError},
		{QueueStatusDraft, QueueStatusReview},
		{QueueStatusReview, QueueStatusPublished},
		{QueueStatusError, QueueStatusQueued},
	}
	for _, tt := range allowed {
		if !tt.from.CanTransitionTo(tt.to) {
			t.Errorf("expected %s -> %s to be allowed", tt.from, tt.to)
		}
	}

	// published is terminal; every edge out of it is rejected
	for target := range ValidQueueStatuses {
		if QueueStatusPublished.CanTransitionTo(target) {
			t.Errorf("published must be terminal, but %s was allowed", target)
		}
	}

	denied := []struct {
		from QueueStatus
		to   QueueStatus
	}{
		{QueueStatusQueued, QueueStatusDraft},
		{QueueStatusQueued, QueueStatusPublished},
		{QueueStatusDraft, QueueStatusPublished},
		{QueueStatusDraft, QueueStatusQueued},
		{QueueStatusReview, QueueStatusDraft},
		{QueueStatusError, QueueStatusDraft},
		{QueueStatusGenerating, QueueStatusPublished},
	}
	for _, tt := range denied {
		if tt.from.CanTransitionTo(tt.to) {
			t.Errorf("expected %s -> %s to be rejected", tt.from, tt.to)
		}
	}
}

func TestPriorityRank(t *testing.T) {
	if PriorityS1.Rank() >= PriorityS2.Rank() || PriorityS2.Rank() >= PriorityS3.Rank() {
		t.Errorf("priority ranks out of order: S1=%d S2=%d S3=%d",
			PriorityS1.Rank(), PriorityS2.Rank(), PriorityS3.Rank())
	}
	if Priority("S9").Rank() <= PriorityS3.Rank() {
		t.Errorf("unknown priority must sort last, got %d", Priority("S9").Rank())
	}
}

func TestIsKind(t *testing.T) {
	err := NewInvalidTransitionError(QueueStatusQueued, QueueStatusPublished, "")
	if !IsKind(err, ErrInvalidTransition) {
		t.Error("IsKind should match the error's kind")
	}
	if IsKind(err, ErrConflict) {
		t.Error("IsKind should not match a different kind")
	}
}
