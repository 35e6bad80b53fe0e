package usecases

import (
	"context"

	"github.com/google/uuid"

	"lbc-crawler-service/internal/core/domain"
	"lbc-crawler-service/internal/core/port"
)

// CrawlRunPort is the inbound port for executing one multi-query crawl run.
// The caller owns the run id so it can hand it out before the run completes.
type CrawlRunPort interface {
	Execute(ctx context.Context, runID uuid.UUID, sources []port.QuerySourcePort, settings domain.CrawlSettings) (*domain.RunResult, error)
}
