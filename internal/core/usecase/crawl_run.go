package usecase

import (
	"context"

	"github.com/google/uuid"

	"lbc-crawler-service/internal/contextkeys"
	"lbc-crawler-service/internal/core/domain"
	"lbc-crawler-service/internal/core/port"
)

// CrawlRunUseCase orchestrates one run across a list of query sources,
// sequentially, with a shared dedup state and combined statistics.
type CrawlRunUseCase struct {
	crawlQuery *CrawlQueryUseCase
}

func NewCrawlRunUseCase(crawlQuery *CrawlQueryUseCase) *CrawlRunUseCase {
	return &CrawlRunUseCase{crawlQuery: crawlQuery}
}

// Execute runs every query source in order and returns the combined result.
// A RunResult is always produced, even when every source failed; the only
// error returned is context cancellation, and even then the result carries
// everything collected up to that point.
func (uc *CrawlRunUseCase) Execute(
	ctx context.Context,
	runID uuid.UUID,
	sources []port.QuerySourcePort,
	settings domain.CrawlSettings,
) (*domain.RunResult, error) {
	if runID == uuid.Nil {
		runID = uuid.New()
	}

	runLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "CrawlRun",
		"run_id":   runID.String(),
	})
	ctx = contextkeys.ContextWithLogger(ctx, runLogger)

	runLogger.Info("Starting crawl run", port.Fields{"query_sources": len(sources)})

	state := newCrawlState()
	var queries []string

	for i, source := range sources {
		if ctx.Err() != nil {
			break
		}

		sourceLogger := runLogger.WithFields(port.Fields{"source": source.Label()})

		task, err := source.BuildQuery(ctx)
		if err != nil {
			sourceLogger.Error("Failed to build query from source, skipping", err, nil)
			state.stats.Errors++
			continue
		}
		if task.Query.IsZero() {
			sourceLogger.Warn("Query source produced an empty query, skipping", nil)
			continue
		}

		queries = append(queries, task.Label)

		if err := uc.crawlQuery.ExecuteQuery(ctx, state, task, settings); err != nil {
			// Only context cancellation reaches here; buffered records were
			// already flushed by the query crawl.
			sourceLogger.Warn("Run cancelled during query crawl", nil)
			break
		}

		if i < len(sources)-1 && settings.QueryDelay > 0 {
			if err := sleepCtx(ctx, settings.QueryDelay); err != nil {
				break
			}
		}
	}

	result := &domain.RunResult{
		RunID:    runID,
		Stats:    state.stats,
		Records:  state.records,
		Settings: settings,
		Queries:  queries,
	}

	runLogger.Info("Crawl run finished", port.Fields{
		"total_ads":       result.Stats.Total,
		"unique_ads":      result.Stats.Unique,
		"duplicates":      result.Stats.Duplicates,
		"too_old":         result.Stats.TooOld,
		"pages_processed": result.Stats.PagesProcessed,
		"errors":          result.Stats.Errors,
	})

	return result, ctx.Err()
}
