package rest

import (
	"time"

	"lbc-crawler-service/internal/adapters/urlquery"
	"lbc-crawler-service/internal/core/domain"
)

// CrawlRequestDTO is the body of POST /api/v1/crawl. Structured filters win
// over URLs when both are given.
type CrawlRequestDTO struct {
	URLs     []string               `json:"urls"`
	Filters  []urlquery.FilterArgs  `json:"filters"`
	Settings *CrawlSettingsOverride `json:"settings"`
}

// CrawlSettingsOverride carries per-request overrides of the configured crawl
// settings. Nil fields keep the configured value.
type CrawlSettingsOverride struct {
	MaxPages            *int     `json:"max_pages"`
	PageSize            *int     `json:"page_size"`
	PageDelaySeconds    *float64 `json:"page_delay_seconds"`
	QueryDelaySeconds   *float64 `json:"query_delay_seconds"`
	MaxAgeDays          *int     `json:"max_age_days"`
	ConsecutiveOldLimit *int     `json:"consecutive_old_limit"`
}

func (o *CrawlSettingsOverride) apply(settings domain.CrawlSettings) domain.CrawlSettings {
	if o == nil {
		return settings
	}
	if o.MaxPages != nil {
		settings.MaxPages = *o.MaxPages
	}
	if o.PageSize != nil {
		settings.PageSize = *o.PageSize
	}
	if o.PageDelaySeconds != nil {
		settings.PageDelay = time.Duration(*o.PageDelaySeconds * float64(time.Second))
	}
	if o.QueryDelaySeconds != nil {
		settings.QueryDelay = time.Duration(*o.QueryDelaySeconds * float64(time.Second))
	}
	if o.MaxAgeDays != nil {
		settings.MaxAgeDays = *o.MaxAgeDays
	}
	if o.ConsecutiveOldLimit != nil {
		settings.ConsecutiveOldLimit = *o.ConsecutiveOldLimit
	}
	return settings
}
