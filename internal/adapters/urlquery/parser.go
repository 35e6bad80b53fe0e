package urlquery

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"lbc-crawler-service/internal/contextkeys"
	"lbc-crawler-service/internal/core/domain"
	"lbc-crawler-service/internal/core/port"
)

// RangeForm reports which grammar a range value matched, so callers and tests
// can assert on the parse path, not only the resulting bounds.
type RangeForm int

const (
	RangeClosed  RangeForm = iota // "100-200"
	RangeOpenMin                  // "min-1600", lower bound defaults to 0
	RangeOpenMax                  // "2020-max", upper bound is the sentinel
	RangeSingle                   // bare number, degenerate (v,v)
)

func (f RangeForm) String() string {
	switch f {
	case RangeClosed:
		return "closed"
	case RangeOpenMin:
		return "open_min"
	case RangeOpenMax:
		return "open_max"
	case RangeSingle:
		return "single"
	}
	return "unknown"
}

// Parser turns a marketplace search URL into a domain.SearchQuery. A failing
// parameter is dropped, never fatal: the worst outcome for a well-formed URL
// is a query with fewer filters than the URL carried.
type Parser struct {
	tables   Tables
	geocoder port.GeocoderPort
}

func NewParser(tables Tables, geocoder port.GeocoderPort) *Parser {
	return &Parser{
		tables:   tables,
		geocoder: geocoder,
	}
}

// Parse builds a SearchQuery from a search URL. A URL with no query string
// yields a zero SearchQuery and no error, signalling the caller to use direct
// arguments instead.
func (p *Parser) Parse(ctx context.Context, rawURL string) (domain.SearchQuery, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"component": "urlquery.Parser"})

	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return domain.SearchQuery{}, fmt.Errorf("urlquery: invalid search URL %q: %w", rawURL, err)
	}
	if u.RawQuery == "" {
		return domain.SearchQuery{}, nil
	}

	params := u.Query()

	query := domain.SearchQuery{
		Ranges:  make(map[string]domain.Range),
		Filters: make(map[string][]string),
	}

	// Coupled parameters are resolved before the generic loop so their
	// precedence never depends on map iteration order: order modifies sort,
	// real_estate_type overrides category.
	if v := first(params, "sort"); v != "" {
		if s, ok := p.tables.Sorts[v]; ok {
			query.Sort = s
		}
	}
	if v := first(params, "order"); v != "" && query.Sort != "" {
		query.Sort = applyOrder(query.Sort, v)
	}

	if v := first(params, "category"); v != "" {
		if _, err := strconv.Atoi(v); err != nil {
			logger.Debug("Dropping non-numeric category id", port.Fields{"value": v})
		} else if cat, ok := p.tables.Categories[v]; ok {
			query.Category = cat
		} else {
			query.Category = domain.CategoryAll
		}
	}
	if v := first(params, "real_estate_type"); v != "" {
		if cat, ok := p.tables.RealEstateTypes[v]; ok {
			query.Category = cat
		}
	}

	for key, values := range params {
		if len(values) == 0 {
			continue
		}
		value := values[0]

		switch key {
		case "text":
			query.Text = value

		case "locations":
			query.Locations = p.parseLocations(ctx, value)

		case "owner_type":
			if ot, ok := p.tables.OwnerTypes[value]; ok {
				query.OwnerType = ot
			}

		case "ad_type":
			if at, ok := p.tables.AdTypes[value]; ok {
				query.AdType = at
			}

		case "shippable":
			query.Shippable = value == "1"

		case "sort", "order", "category", "real_estate_type":
			// handled above

		case "page":
			// pagination is driven by the crawl loop, never by the URL

		default:
			if p.tables.RangeKeys[key] {
				r, form, rngErr := p.ParseRange(value)
				if rngErr != nil {
					logger.Debug("Dropping unparseable range parameter", port.Fields{
						"key": key, "value": value, "error": rngErr.Error(),
					})
					continue
				}
				query.Ranges[key] = r
				logger.Debug("Parsed range parameter", port.Fields{
					"key": key, "form": form.String(), "min": r.Min, "max": r.Max,
				})
				continue
			}
			p.addGenericFilter(&query, key, value)
		}
	}

	// Defaults for any URL that carried a query string.
	if query.Sort == "" {
		query.Sort = domain.SortNewest
	}
	if query.AdType == "" {
		query.AdType = domain.AdTypeOffer
	}
	if query.PageSize == 0 {
		query.PageSize = p.tables.DefaultPageSize
	}

	return query, nil
}

// ParseRange parses "min-X", "X-max", "a-b" and bare-number range grammar.
func (p *Parser) ParseRange(s string) (domain.Range, RangeForm, error) {
	s = strings.TrimSpace(s)

	if rest, ok := strings.CutPrefix(s, "min-"); ok {
		max, err := strconv.Atoi(rest)
		if err != nil {
			return domain.Range{}, 0, fmt.Errorf("urlquery: bad open-min range %q: %w", s, err)
		}
		return domain.Range{Min: 0, Max: max}, RangeOpenMin, nil
	}

	if rest, ok := strings.CutSuffix(s, "-max"); ok {
		min, err := strconv.Atoi(rest)
		if err != nil {
			return domain.Range{}, 0, fmt.Errorf("urlquery: bad open-max range %q: %w", s, err)
		}
		return domain.Range{Min: min, Max: p.tables.OpenUpperBound}, RangeOpenMax, nil
	}

	if before, after, found := strings.Cut(s, "-"); found {
		min, errMin := strconv.Atoi(before)
		max, errMax := strconv.Atoi(after)
		if errMin != nil || errMax != nil {
			return domain.Range{}, 0, fmt.Errorf("urlquery: bad closed range %q", s)
		}
		return domain.Range{Min: min, Max: max}, RangeClosed, nil
	}

	v, err := strconv.Atoi(s)
	if err != nil {
		return domain.Range{}, 0, fmt.Errorf("urlquery: not a range %q", s)
	}
	return domain.Range{Min: v, Max: v}, RangeSingle, nil
}

// addGenericFilter applies the pass-through fallback for unrecognized keys:
// a value that parses as a range goes to Ranges, a comma-separated value
// becomes a trimmed string list, anything else a single-element list.
func (p *Parser) addGenericFilter(query *domain.SearchQuery, key, value string) {
	if strings.Contains(value, "-") && strings.Count(value, "-") == 1 {
		if r, _, err := p.ParseRange(value); err == nil {
			query.Ranges[key] = r
			return
		}
	}

	if strings.Contains(value, ",") {
		parts := strings.Split(value, ",")
		trimmed := make([]string, 0, len(parts))
		for _, part := range parts {
			trimmed = append(trimmed, strings.TrimSpace(part))
		}
		query.Filters[key] = trimmed
		return
	}

	query.Filters[key] = []string{value}
}

// applyOrder adjusts a table-resolved sort per the marketplace coupling
// rules: time+asc flips to oldest-first, price+desc flips to expensive-first.
func applyOrder(sort domain.Sort, order string) domain.Sort {
	switch order {
	case "asc":
		switch sort {
		case domain.SortNewest:
			return domain.SortOldest
		case domain.SortExpensive:
			return domain.SortCheapest
		}
	case "desc":
		switch sort {
		case domain.SortOldest:
			return domain.SortNewest
		case domain.SortCheapest:
			return domain.SortExpensive
		}
	}
	return sort
}

func first(params url.Values, key string) string {
	if vs, ok := params[key]; ok && len(vs) > 0 {
		return vs[0]
	}
	return ""
}
