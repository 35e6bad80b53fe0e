package domain

import "github.com/google/uuid"

// CrawlStats are the per-run counters reported in the final summary.
type CrawlStats struct {
	Total          int `json:"total_ads"`
	Unique         int `json:"unique_ads"`
	Duplicates     int `json:"duplicates"`
	Invalid        int `json:"invalid"`
	TooOld         int `json:"too_old"`
	PagesProcessed int `json:"pages_processed"`
	Errors         int `json:"errors"`
}

// RunResult is the complete-run summary: final statistics, every record that
// was accumulated (including ones a failing sink could not take), and the
// settings the run was executed with. Partial success is the normal terminal
// state, so a RunResult is produced even when every query failed.
type RunResult struct {
	RunID    uuid.UUID     `json:"run_id"`
	Stats    CrawlStats    `json:"stats"`
	Records  []ListingRecord `json:"records"`
	Settings CrawlSettings `json:"-"`
	Queries  []string      `json:"queries"`
}
