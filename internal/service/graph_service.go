package service

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/triply/content-engine/internal/models"
	"github.com/triply/content-engine/internal/repository"
)

// graphService is the concrete implementation of GraphService. The topic
// cluster is a forest of weak slug references, validated here at the
// application layer rather than by database foreign keys.
type graphService struct {
	queueRepo repository.QueueRepository
	resolver  ReferenceResolver
	log       zerolog.Logger
}

// newGraphService creates a new GraphService
func newGraphService(queueRepo repository.QueueRepository, resolver ReferenceResolver, log zerolog.Logger) *graphService {
	return &graphService{
		queueRepo: queueRepo,
		resolver:  resolver,
		log:       log.With().Str("service", "graph").Logger(),
	}
}

// maxParentDepth bounds the parent walk; any well-formed cluster is at
// most hub -> sub-pillar -> spoke, so a deep chain is already broken
const maxParentDepth = 16

// ValidateClusterReference checks that an item's cluster edges are
// well-formed: references resolve, no parent cycle, tiers match
func (s *graphService) ValidateClusterReference(ctx context.Context, item *models.QueueItem) error {
	if item.ArticleType == models.ArticleTypeHub {
		if item.ParentSlug != "" || item.HubSlug != "" {
			return models.NewTypeMismatchError(item.Slug, "a hub must not reference a parent or hub")
		}
		return nil
	}

	if item.ParentSlug != "" {
		if _, err := s.resolver.Resolve(ctx, item.ParentSlug); err != nil {
			if models.IsKind(err, models.ErrNotFound) {
				return models.NewDanglingReferenceError("parent_slug", item.ParentSlug)
			}
			return err
		}
	}

	if item.HubSlug != "" {
		hub, err := s.resolver.Resolve(ctx, item.HubSlug)
		if err != nil {
			if models.IsKind(err, models.ErrNotFound) {
				return models.NewDanglingReferenceError("hub_slug", item.HubSlug)
			}
			return err
		}
		if hub.ArticleType != models.ArticleTypeHub {
			return models.NewTypeMismatchError(item.HubSlug, "hub_slug must reference a hub article")
		}
	}

	return s.checkParentCycle(ctx, item)
}

// checkParentCycle follows parentSlug pointers and fails when the walk
// revisits any slug
func (s *graphService) checkParentCycle(ctx context.Context, item *models.QueueItem) error {
	visited := map[string]bool{item.Slug: true}
	current := item.ParentSlug

	for depth := 0; current != "" && depth < maxParentDepth; depth++ {
		if visited[current] {
			return models.NewCycleDetectedError(item.Slug)
		}
		visited[current] = true

		ref, err := s.resolver.Resolve(ctx, current)
		if err != nil {
			if models.IsKind(err, models.ErrNotFound) {
				// dangling mid-chain; reported against the edge we followed
				return models.NewDanglingReferenceError("parent_slug", current)
			}
			return err
		}
		current = ref.ParentSlug
	}

	if current != "" {
		return models.NewCycleDetectedError(item.Slug)
	}
	return nil
}

// ListDescendants streams all items transitively under the hub depth-first.
// Membership is the union of the denormalized hub_slug column and the
// parent_slug edges, since an item deep in the tree may carry only a
// parent reference. Children of each node are visited in (priority, slug)
// order so output is deterministic; the callback can stop the walk by
// returning an error.
func (s *graphService) ListDescendants(ctx context.Context, hubSlug string, fn func(*models.QueueItem) error) error {
	children := make(map[string][]*models.QueueItem)
	seen := make(map[string]bool)
	var frontier []string

	add := func(item *models.QueueItem) {
		if item.Slug == hubSlug || seen[item.Slug] {
			return
		}
		seen[item.Slug] = true
		parent := item.ParentSlug
		if parent == "" {
			parent = hubSlug
		}
		children[parent] = append(children[parent], item)
		frontier = append(frontier, item.Slug)
	}

	members, err := s.queueRepo.ListByHub(ctx, hubSlug)
	if err != nil {
		return err
	}
	frontier = append(frontier, hubSlug)
	for _, member := range members {
		add(member)
	}
	for len(frontier) > 0 {
		slug := frontier[0]
		frontier = frontier[1:]
		kids, err := s.queueRepo.ListByParent(ctx, slug)
		if err != nil {
			return err
		}
		for _, kid := range kids {
			add(kid)
		}
	}

	for _, siblings := range children {
		sortByPriorityThenSlug(siblings)
	}

	visited := make(map[string]bool)
	var walk func(parent string) error
	walk = func(parent string) error {
		for _, child := range children[parent] {
			if visited[child.Slug] {
				continue
			}
			visited[child.Slug] = true
			if err := fn(child); err != nil {
				return err
			}
			if err := walk(child.Slug); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(hubSlug)
}

// Descendants collects the stream into a slice
func (s *graphService) Descendants(ctx context.Context, hubSlug string) ([]*models.QueueItem, error) {
	var out []*models.QueueItem
	err := s.ListDescendants(ctx, hubSlug, func(item *models.QueueItem) error {
		out = append(out, item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// InternalLinkSuggestions returns candidate slugs the item's outline should
// link to: explicit linksTo targets plus siblings in the same hub cluster,
// deduplicated and sorted
func (s *graphService) InternalLinkSuggestions(ctx context.Context, item *models.QueueItem) ([]string, error) {
	suggestions := make(map[string]bool)

	for _, section := range item.Outline {
		if section.LinksTo != "" && section.LinksTo != item.Slug {
			suggestions[section.LinksTo] = true
		}
	}

	hubSlug := item.HubSlug
	if item.ArticleType == models.ArticleTypeHub {
		hubSlug = item.Slug
	}
	if hubSlug != "" {
		siblings, err := s.queueRepo.ListByHub(ctx, hubSlug)
		if err != nil {
			return nil, err
		}
		if hubSlug != item.Slug {
			suggestions[hubSlug] = true
		}
		for _, sibling := range siblings {
			if sibling.Slug != item.Slug {
				suggestions[sibling.Slug] = true
			}
		}
	}
	if item.ParentSlug != "" {
		suggestions[item.ParentSlug] = true
	}

	out := make([]string, 0, len(suggestions))
	for slug := range suggestions {
		out = append(out, slug)
	}
	sort.Strings(out)
	return out, nil
}

// sortByPriorityThenSlug orders items S1 before S2 before S3, then by slug
func sortByPriorityThenSlug(items []*models.QueueItem) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Priority.Rank() != items[j].Priority.Rank() {
			return items[i].Priority.Rank() < items[j].Priority.Rank()
		}
		return items[i].Slug < items[j].Slug
	})
}
