package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/rs/zerolog"

	"github.com/triply/content-engine/internal/config"
	"github.com/triply/content-engine/internal/metrics"
	"github.com/triply/content-engine/internal/models"
	"github.com/triply/content-engine/internal/repository"
	"github.com/triply/content-engine/internal/security"
	"github.com/triply/content-engine/internal/validation"
)

// ingestService polls competitor RSS/Atom feeds and files low-priority
// queue suggestions for topics not already covered. Fetches go through
// the SSRF-guarded client because feed URLs are operator-supplied.
type ingestService struct {
	queueSvc  QueueService
	queueRepo repository.QueueRepository
	postRepo  repository.PostRepository
	guard     security.URLGuard
	cfg       *config.IngestConfig
	collector metrics.Collector
	log       zerolog.Logger

	client *http.Client
	parser *gofeed.Parser

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
	mu      sync.Mutex
}

// newIngestService creates a new IngestService
func newIngestService(
	queueSvc QueueService,
	queueRepo repository.QueueRepository,
	postRepo repository.PostRepository,
	guard security.URLGuard,
	cfg *config.IngestConfig,
	collector metrics.Collector,
	log zerolog.Logger,
) *ingestService {
	return &ingestService{
		queueSvc:  queueSvc,
		queueRepo: queueRepo,
		postRepo:  postRepo,
		guard:     guard,
		cfg:       cfg,
		collector: collector,
		log:       log.With().Str("service", "ingest").Logger(),
		client:    guard.NewSafeClient(cfg.FetchTimeout),
		parser:    gofeed.NewParser(),
	}
}

// Start runs the polling loop until the context is cancelled or Stop is called
func (s *ingestService) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	s.mu.Unlock()
	defer s.wg.Done()

	s.log.Info().
		Int("feeds", len(s.cfg.Feeds)).
		Dur("interval", s.cfg.Interval).
		Msg("Feed ingestion started")

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			s.log.Info().Msg("Feed ingestion stopping")
			return
		case <-ticker.C:
			if _, err := s.RunOnce(s.ctx); err != nil {
				s.log.Error().Err(err).Msg("Ingestion run failed")
			}
		}
	}
}

// Stop stops the polling loop and waits for it, including any in-flight
// fetch, to finish
func (s *ingestService) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	cancel := s.cancel
	s.mu.Unlock()

	cancel()
	s.wg.Wait()
	s.log.Info().Msg("Feed ingestion stopped")
}

// RunOnce fetches every configured feed and returns the number of
// suggestions filed. A single failing feed does not abort the run.
func (s *ingestService) RunOnce(ctx context.Context) (int, error) {
	total := 0
	for _, feed := range s.cfg.Feeds {
		created, err := s.ingestFeed(ctx, feed)
		if err != nil {
			s.collector.RecordIngestFailure("fetch")
			s.log.Warn().
				Err(err).
				Str("airport_code", feed.AirportCode).
				Str("feed_url", feed.URL).
				Msg("Feed ingestion failed")
			continue
		}
		total += created
	}
	return total, nil
}

// ingestFeed fetches and parses one feed, filing a suggestion per item
// whose derived slug is not already taken by a queue item or a post
func (s *ingestService) ingestFeed(ctx context.Context, feed config.FeedSource) (int, error) {
	if err := s.guard.ValidateURL(feed.URL); err != nil {
		return 0, fmt.Errorf("unsafe feed URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feed.URL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", "content-engine/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %d from feed", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.cfg.MaxResponseSize))
	if err != nil {
		return 0, fmt.Errorf("failed to read feed body: %w", err)
	}

	parsed, err := s.parser.ParseString(string(body))
	if err != nil {
		return 0, fmt.Errorf("failed to parse feed: %w", err)
	}

	created := 0
	for _, item := range parsed.Items {
		if item.Title == "" {
			continue
		}
		ok, err := s.suggest(ctx, feed, item)
		if err != nil {
			s.collector.RecordIngestFailure("suggest")
			s.log.Warn().
				Err(err).
				Str("title", item.Title).
				Msg("Failed to file suggestion")
			continue
		}
		if ok {
			s.collector.RecordIngestItem()
			created++
		}
	}

	s.log.Info().
		Str("airport_code", feed.AirportCode).
		Str("feed_url", feed.URL).
		Int("items", len(parsed.Items)).
		Int("created", created).
		Msg("Feed ingested")

	return created, nil
}

// suggest files one queue suggestion unless the slug is already covered
func (s *ingestService) suggest(ctx context.Context, feed config.FeedSource, item *gofeed.Item) (bool, error) {
	slug := validation.DeriveSlug(item.Title)
	if slug == "" {
		return false, nil
	}

	taken, err := s.queueRepo.SlugExists(ctx, slug)
	if err != nil {
		return false, err
	}
	if !taken {
		taken, err = s.postRepo.SlugExists(ctx, slug)
		if err != nil {
			return false, err
		}
	}
	if taken {
		return false, nil
	}

	suggestion := &models.QueueItem{
		Slug:           slug,
		Keyword:        strings.ReplaceAll(slug, "-", " "),
		SuggestedTitle: item.Title,
		AirportCode:    feed.AirportCode,
		ArticleType:    models.ArticleTypeSpoke,
		Priority:       models.PriorityS3,
		CompetitorURLs: []string{strings.TrimSpace(item.Link)},
	}
	if _, err := s.queueSvc.Create(ctx, suggestion); err != nil {
		return false, err
	}
	return true, nil
}
