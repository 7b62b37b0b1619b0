package usecase

import (
	"context"
	"fmt"
	"time"

	"youtube_trend_collector/config"
	"youtube_trend_collector/internal/domain"
	"youtube_trend_collector/internal/infrastructure/ytsearch"
	"youtube_trend_collector/internal/logger"
)

// Collector orchestrates per-keyword and whole-run collection. Keywords are
// processed one at a time with a fixed delay in between; running searches
// in parallel trips the upstream's anti-scraping defenses.
type Collector struct {
	config   *config.Config
	keywords domain.KeywordRepository
	videos   domain.VideoRepository
	runs     domain.CollectionRunRepository
	searcher domain.VideoSearcher
	trends   *TrendAggregator
	notifier domain.RunNotifier
	delay    time.Duration
	now      func() time.Time
}

// NewCollector creates a new collection orchestrator
func NewCollector(
	cfg *config.Config,
	keywordRepo domain.KeywordRepository,
	videoRepo domain.VideoRepository,
	runRepo domain.CollectionRunRepository,
	searcher domain.VideoSearcher,
	trends *TrendAggregator,
	notifier domain.RunNotifier,
) *Collector {
	delay := 2 * time.Second
	if cfg != nil && cfg.RequestDelay > 0 {
		delay = cfg.RequestDelay
	}

	return &Collector{
		config:   cfg,
		keywords: keywordRepo,
		videos:   videoRepo,
		runs:     runRepo,
		searcher: searcher,
		trends:   trends,
		notifier: notifier,
		delay:    delay,
		now:      time.Now,
	}
}

// Collect runs collection for a single keyword. An unknown keyword is a
// fatal error for the call; an inactive keyword is a zero-effect outcome,
// not an error. Search and persistence failures land in the result's
// Error field instead of aborting.
func (c *Collector) Collect(ctx context.Context, keywordID string, limit int) (*domain.KeywordCollectResult, error) {
	keyword, err := c.keywords.GetByID(keywordID)
	if err != nil {
		return nil, fmt.Errorf("load keyword %s: %w", keywordID, err)
	}
	if keyword == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrKeywordNotFound, keywordID)
	}

	return c.collectKeyword(ctx, keyword, limit), nil
}

// collectKeyword performs one keyword's search-map-upsert cycle.
func (c *Collector) collectKeyword(ctx context.Context, keyword *domain.Keyword, limit int) *domain.KeywordCollectResult {
	result := &domain.KeywordCollectResult{
		KeywordID:   keyword.ID,
		KeywordName: keyword.Name,
	}

	if !keyword.IsActive {
		result.Inactive = true
		result.Error = "keyword is inactive"
		return result
	}

	opts := domain.SearchOptions{
		Keyword: keyword.Name,
		Limit:   limit,
	}
	if c.config != nil {
		opts.MaxAgeDays = c.config.MaxAgeDays
		opts.RecencyWindow = c.config.RecencyWindow
	}

	records, err := c.searcher.Search(ctx, opts)
	if err != nil {
		result.Error = err.Error()
		logger.Error().Printf("search failed for keyword %q: %v", keyword.Name, err)
		return result
	}

	collectedAt := c.now()
	for _, raw := range records {
		video := ytsearch.MapVideo(keyword.ID, raw, collectedAt)
		if video.ExternalVideoID == "" {
			logger.Error().Printf("skipping record without a video ID for keyword %q", keyword.Name)
			continue
		}
		// One failed upsert must not sink the rest of the batch.
		if err := c.videos.Upsert(video); err != nil {
			logger.Error().Printf("failed to persist video %s for keyword %q: %v",
				video.ExternalVideoID, keyword.Name, err)
			continue
		}
		result.VideosCollected++
	}

	return result
}

// CollectAll runs collection for every active keyword, sequentially, and
// folds the outcome into one CollectionRun record. A missing search tool
// aborts before any keyword is touched. Per-keyword failures are recorded
// in the report and never stop the loop.
func (c *Collector) CollectAll(ctx context.Context, limit int) (*domain.RunReport, error) {
	if err := c.searcher.Available(); err != nil {
		return nil, fmt.Errorf("search tool preflight: %w", err)
	}

	startedAt := c.now()

	active, err := c.keywords.GetAllActive()
	if err != nil {
		return nil, fmt.Errorf("load active keywords: %w", err)
	}

	report := &domain.RunReport{
		StartedAt: startedAt,
		Status:    domain.RunStatusSuccess,
	}

	if len(active) == 0 {
		report.CompletedAt = c.now()
		logger.Info().Println("no active keywords; nothing to collect")
		return report, nil
	}

	for i, keyword := range active {
		if i > 0 {
			// Fixed pause between keywords; also the only cancellation point.
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.delay):
			}
		}

		result := c.collectKeyword(ctx, keyword, limit)
		report.Keywords = append(report.Keywords, result)
		report.TotalVideos += result.VideosCollected

		logger.Info().Printf("collected %d videos for keyword %q", result.VideosCollected, keyword.Name)
	}

	report.KeywordCount = len(active)
	report.CompletedAt = c.now()
	report.Status = classifyRun(report)

	run := &domain.CollectionRun{
		StartedAt:    report.StartedAt,
		CompletedAt:  report.CompletedAt,
		KeywordCount: report.KeywordCount,
		VideoCount:   report.TotalVideos,
		Status:       report.Status,
	}
	if failed := countFailures(report); failed > 0 {
		run.Error = fmt.Sprintf("%d of %d keywords failed", failed, report.KeywordCount)
	}

	if err := c.runs.Append(run); err != nil {
		logger.Error().Printf("failed to record collection run: %v", err)
	}

	if c.notifier != nil {
		if err := c.notifier.NotifyRunCompleted(ctx, report); err != nil {
			logger.Error().Printf("run notification failed: %v", err)
		}
	}

	if c.trends != nil {
		if err := c.trends.AggregateAll(ctx); err != nil {
			logger.Error().Printf("trend aggregation after run failed: %v", err)
		}
	}

	return report, nil
}

// classifyRun derives the run status from the per-keyword outcomes.
func classifyRun(report *domain.RunReport) domain.RunStatus {
	if report.TotalVideos == 0 {
		return domain.RunStatusFailed
	}
	if countFailures(report) > 0 {
		return domain.RunStatusPartial
	}
	return domain.RunStatusSuccess
}

func countFailures(report *domain.RunReport) int {
	failed := 0
	for _, result := range report.Keywords {
		if result.Error != "" {
			failed++
		}
	}
	return failed
}
