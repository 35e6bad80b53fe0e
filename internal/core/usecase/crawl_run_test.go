package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"lbc-crawler-service/internal/core/domain"
	"lbc-crawler-service/internal/core/port"
)

type fakeSource struct {
	label string
	query domain.SearchQuery
	err   error
}

func (f *fakeSource) Label() string { return f.label }

func (f *fakeSource) BuildQuery(_ context.Context) (domain.QueryTask, error) {
	if f.err != nil {
		return domain.QueryTask{}, f.err
	}
	return domain.QueryTask{Label: f.label, Query: f.query}, nil
}

func newTestCrawlRun(client port.SearchClientPort, sink port.RecordSinkPort) *CrawlRunUseCase {
	return NewCrawlRunUseCase(newTestCrawlQuery(client, sink))
}

func TestExecuteRunSharesDedupAcrossQueries(t *testing.T) {
	fresh := testNow.Add(-time.Hour)
	// both queries return the same listings
	client := &fakeSearchClient{pages: []port.SearchPage{{Ads: makeListings(1, 20, fresh)}}}
	sink := &fakeSink{}
	uc := newTestCrawlRun(client, sink)

	sources := []port.QuerySourcePort{
		&fakeSource{label: "query A", query: domain.SearchQuery{Text: "velo"}},
		&fakeSource{label: "query B", query: domain.SearchQuery{Text: "velo electrique"}},
	}

	result, err := uc.Execute(context.Background(), uuid.Nil, sources, domain.CrawlSettings{PageSize: 35})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}

	if result.Stats.Unique != 20 {
		t.Errorf("Unique = %d, want 20", result.Stats.Unique)
	}
	if result.Stats.Duplicates != 20 {
		t.Errorf("Duplicates = %d, want 20 (second query repeats the first)", result.Stats.Duplicates)
	}
	if len(result.Records) != 20 {
		t.Errorf("Records = %d, want 20", len(result.Records))
	}
	if result.RunID == uuid.Nil {
		t.Errorf("RunID was not assigned")
	}
	if len(result.Queries) != 2 {
		t.Errorf("Queries = %v, want both labels", result.Queries)
	}
}

func TestExecuteRunSkipsFailingSource(t *testing.T) {
	fresh := testNow.Add(-time.Hour)
	client := &fakeSearchClient{pages: []port.SearchPage{{Ads: makeListings(1, 5, fresh)}}}
	sink := &fakeSink{}
	uc := newTestCrawlRun(client, sink)

	sources := []port.QuerySourcePort{
		&fakeSource{label: "broken", err: fmt.Errorf("bad location")},
		&fakeSource{label: "ok", query: domain.SearchQuery{Text: "velo"}},
	}

	result, err := uc.Execute(context.Background(), uuid.Nil, sources, domain.CrawlSettings{PageSize: 35})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}

	if result.Stats.Errors != 1 {
		t.Errorf("Errors = %d, want 1", result.Stats.Errors)
	}
	if result.Stats.Unique != 5 {
		t.Errorf("Unique = %d, want 5 (second source still crawled)", result.Stats.Unique)
	}
	if len(result.Queries) != 1 || result.Queries[0] != "ok" {
		t.Errorf("Queries = %v, want only the working source", result.Queries)
	}
}

func TestExecuteRunSkipsEmptyQuery(t *testing.T) {
	client := &fakeSearchClient{}
	sink := &fakeSink{}
	uc := newTestCrawlRun(client, sink)

	sources := []port.QuerySourcePort{
		&fakeSource{label: "empty", query: domain.SearchQuery{}},
	}

	result, err := uc.Execute(context.Background(), uuid.Nil, sources, domain.CrawlSettings{PageSize: 35})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if client.calls != 0 {
		t.Errorf("search calls = %d, want 0 for an empty query", client.calls)
	}
	if len(result.Queries) != 0 {
		t.Errorf("Queries = %v, want none", result.Queries)
	}
}

func TestExecuteRunKeepsProvidedRunID(t *testing.T) {
	client := &fakeSearchClient{}
	sink := &fakeSink{}
	uc := newTestCrawlRun(client, sink)

	runID := uuid.New()
	result, err := uc.Execute(context.Background(), runID, nil, domain.CrawlSettings{})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if result.RunID != runID {
		t.Errorf("RunID = %s, want %s", result.RunID, runID)
	}
}

func TestExecuteRunCancelledContextReturnsPartialResult(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := &fakeSearchClient{}
	sink := &fakeSink{}
	uc := newTestCrawlRun(client, sink)

	sources := []port.QuerySourcePort{
		&fakeSource{label: "q", query: domain.SearchQuery{Text: "velo"}},
	}

	result, err := uc.Execute(ctx, uuid.Nil, sources, domain.CrawlSettings{})
	if err == nil {
		t.Fatalf("expected context error, got nil")
	}
	if result == nil {
		t.Fatalf("a result must be produced even on cancellation")
	}
}
