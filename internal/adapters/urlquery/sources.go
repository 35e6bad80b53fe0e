package urlquery

import (
	"context"
	"fmt"

	"lbc-crawler-service/internal/core/domain"
)

// URLSource builds a query by parsing a search URL.
type URLSource struct {
	parser *Parser
	rawURL string
}

func NewURLSource(parser *Parser, rawURL string) *URLSource {
	return &URLSource{parser: parser, rawURL: rawURL}
}

func (s *URLSource) Label() string { return s.rawURL }

func (s *URLSource) BuildQuery(ctx context.Context) (domain.QueryTask, error) {
	query, err := s.parser.Parse(ctx, s.rawURL)
	if err != nil {
		return domain.QueryTask{}, err
	}
	return domain.QueryTask{
		Label:     s.rawURL,
		SourceURL: s.rawURL,
		Query:     query,
	}, nil
}

// DirectSource wraps a prebuilt query. Direct arguments win over URLs, so
// callers put a DirectSource first and skip URL sources entirely.
type DirectSource struct {
	label string
	query domain.SearchQuery
}

func NewDirectSource(label string, query domain.SearchQuery) *DirectSource {
	return &DirectSource{label: label, query: query}
}

func (s *DirectSource) Label() string { return s.label }

func (s *DirectSource) BuildQuery(_ context.Context) (domain.QueryTask, error) {
	return domain.QueryTask{
		Label: s.label,
		Query: s.query,
	}, nil
}

// FilterArgs is the structured-filters input shape, accepted both from the
// environment (SEARCH_FILTERS_JSON) and the REST trigger payload. Range
// values use the same "min-X" / "X-max" / "a-b" grammar as URLs.
type FilterArgs struct {
	Text      string              `json:"text,omitempty"`
	Category  string              `json:"category,omitempty"`
	Locations []string            `json:"locations,omitempty"`
	Sort      string              `json:"sort,omitempty"`
	Order     string              `json:"order,omitempty"`
	AdType    string              `json:"ad_type,omitempty"`
	OwnerType string              `json:"owner_type,omitempty"`
	Shippable bool                `json:"shippable,omitempty"`
	Ranges    map[string]string   `json:"ranges,omitempty"`
	Filters   map[string][]string `json:"filters,omitempty"`
	PageSize  int                 `json:"page_size,omitempty"`
}

// FilterSource builds a query from structured filter arguments, resolving
// enums and locations through the same tables the URL parser uses.
type FilterSource struct {
	parser *Parser
	label  string
	args   FilterArgs
}

func NewFilterSource(parser *Parser, label string, args FilterArgs) *FilterSource {
	return &FilterSource{parser: parser, label: label, args: args}
}

func (s *FilterSource) Label() string { return s.label }

func (s *FilterSource) BuildQuery(ctx context.Context) (domain.QueryTask, error) {
	query, err := s.parser.FromFilterArgs(ctx, s.args)
	if err != nil {
		return domain.QueryTask{}, err
	}
	return domain.QueryTask{
		Label: s.label,
		Query: query,
	}, nil
}

// FromFilterArgs maps structured filter arguments onto a SearchQuery with
// the same per-parameter degradation policy as URL parsing.
func (p *Parser) FromFilterArgs(ctx context.Context, args FilterArgs) (domain.SearchQuery, error) {
	query := domain.SearchQuery{
		Text:      args.Text,
		Shippable: args.Shippable,
		Ranges:    make(map[string]domain.Range),
		Filters:   make(map[string][]string),
	}

	if args.Category != "" {
		if cat, ok := p.tables.Categories[args.Category]; ok {
			query.Category = cat
		} else {
			query.Category = domain.CategoryAll
		}
	}

	for _, descriptor := range args.Locations {
		loc, _, err := p.ParseLocation(ctx, descriptor)
		if err != nil {
			return domain.SearchQuery{}, fmt.Errorf("urlquery: location %q: %w", descriptor, err)
		}
		query.Locations = append(query.Locations, loc)
	}

	if s, ok := p.tables.Sorts[args.Sort]; ok {
		query.Sort = applyOrder(s, args.Order)
	}
	if at, ok := p.tables.AdTypes[args.AdType]; ok {
		query.AdType = at
	}
	if ot, ok := p.tables.OwnerTypes[args.OwnerType]; ok {
		query.OwnerType = ot
	}

	for key, value := range args.Ranges {
		r, _, err := p.ParseRange(value)
		if err != nil {
			continue
		}
		query.Ranges[key] = r
	}
	for key, values := range args.Filters {
		query.Filters[key] = values
	}

	if query.Sort == "" {
		query.Sort = domain.SortNewest
	}
	if query.AdType == "" {
		query.AdType = domain.AdTypeOffer
	}
	query.PageSize = args.PageSize
	if query.PageSize == 0 {
		query.PageSize = p.tables.DefaultPageSize
	}

	return query, nil
}
