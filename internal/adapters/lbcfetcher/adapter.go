package lbcfetcher

import (
	"fmt"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/gocolly/colly/v2/extensions"
)

const apiDomain = "api.leboncoin.fr"

// LbcFetcherAdapter owns all interactions with the marketplace search API.
type LbcFetcherAdapter struct {
	// parent collector, its limit rules are inherited by per-request clones
	collector *colly.Collector
	searchURL string
}

// NewLbcFetcherAdapter builds the parent collector. An empty proxyURL means
// direct connections.
func NewLbcFetcherAdapter(searchURL, proxyURL string) (*LbcFetcherAdapter, error) {
	c := colly.NewCollector(colly.AllowedDomains(apiDomain), colly.AllowURLRevisit())

	err := c.Limit(&colly.LimitRule{
		DomainGlob: apiDomain,

		// one in-flight request at a time, the engine is sequential anyway
		Parallelism: 1,

		// up to 3 seconds of jitter between requests
		RandomDelay: 3 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("LbcFetcherAdapter: failed to set limit rule: %w", err)
	}

	extensions.RandomUserAgent(c) // real-browser User-Agent per request
	extensions.Referer(c)         // mimics in-site navigation

	if proxyURL != "" {
		if err := c.SetProxy(proxyURL); err != nil {
			return nil, fmt.Errorf("LbcFetcherAdapter: failed to set proxy: %w", err)
		}
	}

	return &LbcFetcherAdapter{
		collector: c,
		searchURL: searchURL,
	}, nil
}
