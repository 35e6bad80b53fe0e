package contracts

import "testing"

func TestValidateCrawlRequestAccepts(t *testing.T) {
	bodies := []string{
		`{"urls": ["https://www.leboncoin.fr/recherche?text=velo"]}`,
		`{"filters": [{"text": "velo", "category": "1", "ranges": {"price": "min-500"}}]}`,
		`{"urls": ["https://x"], "settings": {"max_pages": 3, "page_delay_seconds": 0.5}}`,
		`{"filters": [{"locations": ["Paris"], "sort": "price", "order": "asc"}]}`,
	}

	for _, body := range bodies {
		if err := ValidateCrawlRequest([]byte(body)); err != nil {
			t.Errorf("ValidateCrawlRequest(%s) = %v, want nil", body, err)
		}
	}
}

func TestValidateCrawlRequestRejects(t *testing.T) {
	bodies := []string{
		`{}`,                             // neither urls nor filters
		`not json`,                       // not JSON at all
		`{"urls": "https://x"}`,          // urls must be an array
		`{"filters": [{"sort": "xyz"}]}`, // unknown sort
		`{"filters": [{"ranges": {"price": "cheap"}}]}`,   // range grammar
		`{"urls": ["https://x"], "bogus": true}`,          // unknown property
		`{"urls": ["https://x"], "settings": {"page_size": 0}}`, // below minimum
	}

	for _, body := range bodies {
		if err := ValidateCrawlRequest([]byte(body)); err == nil {
			t.Errorf("ValidateCrawlRequest(%s) = nil, want error", body)
		}
	}
}

func TestGenerateKeyFromPath(t *testing.T) {
	got := generateKeyFromPath("schemas/requests/crawl-request/v1.json")
	if got != "CrawlRequest/1.0.0" {
		t.Errorf("generateKeyFromPath = %q, want CrawlRequest/1.0.0", got)
	}
}

func TestValidateUnknownRequestType(t *testing.T) {
	if err := ValidateRequest("Nonexistent", "1.0.0", []byte(`{}`)); err == nil {
		t.Errorf("expected error for unregistered request type")
	}
}
