package port

import (
	"context"

	"lbc-crawler-service/internal/core/domain"
)

// SearchPage is one page of search results. Total and MaxPages are
// informational and may be zero when the marketplace omits them.
type SearchPage struct {
	Ads      []domain.Listing
	Total    int
	MaxPages int
}

// SearchClientPort is the collaborator that performs the actual HTTP search
// against the marketplace, including transport and anti-bot concerns.
type SearchClientPort interface {
	Search(ctx context.Context, query domain.SearchQuery, page, limit int) (*SearchPage, error)
}
