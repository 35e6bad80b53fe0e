package usecase

import (
	"context"
	"strings"
	"time"

	"lbc-crawler-service/internal/constants"
	"lbc-crawler-service/internal/contextkeys"
	"lbc-crawler-service/internal/core/domain"
	"lbc-crawler-service/internal/core/port"
)

// blockedMarker identifies a fetch failure caused by the marketplace's
// anti-automation defense, detected by substring match on the error message.
const blockedMarker = "datadome"

// crawlState is the mutable per-run state. One instance is shared by every
// query of a run, so an identifier seen under one query is a duplicate under
// the next. Not safe for concurrent use; the engine is strictly sequential.
type crawlState struct {
	seen    map[int64]struct{}
	batch   []domain.ListingRecord
	records []domain.ListingRecord
	stats   domain.CrawlStats
}

func newCrawlState() *crawlState {
	return &crawlState{seen: make(map[int64]struct{})}
}

// CrawlQueryUseCase drives the sequential page loop for one query:
// dedup, age gating, batching and flushing to the sink.
type CrawlQueryUseCase struct {
	searchClient port.SearchClientPort
	sink         port.RecordSinkPort
	normalizer   *RecordNormalizer
	now          func() time.Time
}

func NewCrawlQueryUseCase(
	searchClient port.SearchClientPort,
	sink port.RecordSinkPort,
	normalizer *RecordNormalizer,
	now func() time.Time,
) *CrawlQueryUseCase {
	if now == nil {
		now = time.Now
	}
	return &CrawlQueryUseCase{
		searchClient: searchClient,
		sink:         sink,
		normalizer:   normalizer,
		now:          now,
	}
}

// ExecuteQuery crawls every page of one query, mutating the shared run
// state. Fetch failures end the query but not the run, so the only error
// returned is context cancellation. The batch buffer is always flushed
// before returning, whatever the stop reason.
func (uc *CrawlQueryUseCase) ExecuteQuery(
	ctx context.Context,
	state *crawlState,
	task domain.QueryTask,
	settings domain.CrawlSettings,
) error {
	baseLogger := contextkeys.LoggerFromContext(ctx)
	queryLogger := baseLogger.WithFields(port.Fields{
		"use_case": "CrawlQuery",
		"query":    task.Label,
	})

	maxPages := settings.MaxPages
	if maxPages <= 0 {
		maxPages = constants.UnlimitedPagesCap
	}
	pageSize := settings.PageSize
	if pageSize <= 0 {
		pageSize = task.Query.PageSize
	}
	if pageSize <= 0 {
		pageSize = constants.DefaultPageSize
	}
	oldLimit := settings.ConsecutiveOldLimit
	if oldLimit <= 0 {
		oldLimit = constants.DefaultConsecutiveOldLimit
	}
	flushThreshold := constants.BatchPagesPerFlush * pageSize

	prov := provenanceFor(task)
	queryLogger.Info("Starting query crawl", port.Fields{
		"max_pages": maxPages,
		"page_size": pageSize,
	})

	oldStreak := 0

	for page := 1; page <= maxPages; page++ {
		select {
		case <-ctx.Done():
			uc.flush(ctx, state, queryLogger)
			return ctx.Err()
		default:
		}

		pageLogger := queryLogger.WithFields(port.Fields{"page": page})

		result, fetchErr := uc.searchClient.Search(ctx, task.Query, page, pageSize)
		if fetchErr != nil {
			state.stats.Errors++
			if isBlockedError(fetchErr) {
				pageLogger.Error("Access blocked by anti-bot protection, stopping query", fetchErr, nil)
			} else {
				pageLogger.Error("Failed to fetch search page, stopping query", fetchErr, nil)
			}
			break
		}

		if page == 1 && (result.Total > 0 || result.MaxPages > 0) {
			pageLogger.Info("Search reported result counts", port.Fields{
				"total":     result.Total,
				"max_pages": result.MaxPages,
			})
		}

		if len(result.Ads) == 0 {
			pageLogger.Debug("No listings returned, end of results", nil)
			break
		}

		processed := 0
		stopQuery := false

		for _, listing := range result.Ads {
			if listing.ID == 0 {
				state.stats.Invalid++
				continue
			}

			if _, dup := state.seen[listing.ID]; dup {
				state.stats.Duplicates++
				continue
			}

			if settings.MaxAgeDays > 0 {
				if !listing.FirstPublicationDate.IsZero() &&
					uc.now().Sub(listing.FirstPublicationDate) > time.Duration(settings.MaxAgeDays)*24*time.Hour {
					state.stats.TooOld++
					oldStreak++
					if oldStreak >= oldLimit {
						pageLogger.Info("Consecutive-old limit reached, stopping query", port.Fields{
							"limit": oldLimit,
						})
						stopQuery = true
						break
					}
					continue
				}
				// Fresh listing or no publication date: the streak only
				// counts uninterrupted old listings.
				oldStreak = 0
			}

			record := uc.normalizer.Normalize(listing, prov)
			state.seen[listing.ID] = struct{}{}
			state.batch = append(state.batch, record)
			state.records = append(state.records, record)
			state.stats.Total++
			state.stats.Unique++
			processed++
		}

		if processed > 0 {
			state.stats.PagesProcessed++
			pageLogger.Debug("Processed page", port.Fields{"listings": processed})
		}

		if len(state.batch) >= flushThreshold {
			uc.flush(ctx, state, queryLogger)
		}

		if stopQuery {
			break
		}

		if page < maxPages && settings.PageDelay > 0 {
			if err := sleepCtx(ctx, settings.PageDelay); err != nil {
				uc.flush(ctx, state, queryLogger)
				return err
			}
		}
	}

	uc.flush(ctx, state, queryLogger)

	queryLogger.Info("Finished query crawl", port.Fields{
		"unique_ads":      state.stats.Unique,
		"duplicates":      state.stats.Duplicates,
		"pages_processed": state.stats.PagesProcessed,
	})
	return nil
}

// flush hands the buffered batch to the sink. A failing push is logged and
// counted; the accumulated records are kept in the run result either way.
func (uc *CrawlQueryUseCase) flush(ctx context.Context, state *crawlState, logger port.LoggerPort) {
	if len(state.batch) == 0 {
		return
	}

	if err := uc.sink.Push(ctx, state.batch); err != nil {
		logger.Error("Failed to push batch to sink", err, port.Fields{"batch_size": len(state.batch)})
		state.stats.Errors++
	} else {
		logger.Debug("Pushed batch to sink", port.Fields{"batch_size": len(state.batch)})
	}
	state.batch = nil
}

func provenanceFor(task domain.QueryTask) domain.Provenance {
	prov := domain.Provenance{
		Category: "all",
		Location: "all",
		URL:      task.SourceURL,
	}
	if task.Query.Category != "" {
		prov.Category = string(task.Query.Category)
	}
	if len(task.Query.Locations) > 0 {
		prov.Location = task.Query.Locations[0].Label
	}
	return prov
}

func isBlockedError(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), blockedMarker)
}

// sleepCtx waits for the delay without blocking cancellation.
func sleepCtx(ctx context.Context, delay time.Duration) error {
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
