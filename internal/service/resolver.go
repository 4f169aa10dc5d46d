package service

import (
	"context"

	"github.com/triply/content-engine/internal/models"
	"github.com/triply/content-engine/internal/repository"
)

// ReferenceKind distinguishes which collection a slug resolved into
type ReferenceKind string

const (
	ReferenceQueueItem ReferenceKind = "queue_item"
	ReferencePost      ReferenceKind = "post"
)

// Reference is a resolved handle into the combined queue+post slug
// namespace. Cluster edges are weak string references, so every lookup
// goes through here rather than a database foreign key.
type Reference struct {
	Slug        string
	Kind        ReferenceKind
	ArticleType models.ArticleType
	ParentSlug  string
	HubSlug     string
}

// ReferenceResolver resolves slugs across queue items and posts
type ReferenceResolver interface {
	// Resolve returns the handle for a slug, or a NotFound error.
	// Queue items shadow posts: a generated post usually carries the same
	// slug as its queue item, and the queue item holds the richer
	// clustering state.
	Resolve(ctx context.Context, slug string) (*Reference, error)
}

// referenceResolver is the concrete implementation of ReferenceResolver
type referenceResolver struct {
	queueRepo repository.QueueRepository
	postRepo  repository.PostRepository
}

// NewReferenceResolver creates a resolver over both collections
func NewReferenceResolver(queueRepo repository.QueueRepository, postRepo repository.PostRepository) ReferenceResolver {
	return &referenceResolver{queueRepo: queueRepo, postRepo: postRepo}
}

// Resolve looks the slug up in queue items first, then posts
func (r *referenceResolver) Resolve(ctx context.Context, slug string) (*Reference, error) {
	item, err := r.queueRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if item != nil {
		return &Reference{
			Slug:        item.Slug,
			Kind:        ReferenceQueueItem,
			ArticleType: item.ArticleType,
			ParentSlug:  item.ParentSlug,
			HubSlug:     item.HubSlug,
		}, nil
	}

	post, err := r.postRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if post != nil {
		return &Reference{
			Slug:        post.Slug,
			Kind:        ReferencePost,
			ArticleType: post.ArticleType,
			ParentSlug:  post.ParentSlug,
			HubSlug:     post.HubSlug,
		}, nil
	}

	return nil, models.NewNotFoundError("reference", slug)
}
