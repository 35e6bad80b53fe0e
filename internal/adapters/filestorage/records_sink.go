package filestorage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"lbc-crawler-service/internal/contextkeys"
	"lbc-crawler-service/internal/core/domain"
	"lbc-crawler-service/internal/core/port"
)

// RecordsFileSinkAdapter implements RecordSinkPort over a local append-only
// file. Each pushed batch is written as one pretty-printed JSON array block.
type RecordsFileSinkAdapter struct {
	filename string
	mu       sync.Mutex // serializes appends
}

func NewRecordsFileSinkAdapter(filename string) (*RecordsFileSinkAdapter, error) {
	if filename == "" {
		return nil, fmt.Errorf("filestorage: filename cannot be empty")
	}
	return &RecordsFileSinkAdapter{
		filename: filename,
	}, nil
}

// Push appends the batch to the output file.
func (a *RecordsFileSinkAdapter) Push(ctx context.Context, records []domain.ListingRecord) error {
	if len(records) == 0 {
		return nil
	}

	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"component": "RecordsFileSinkAdapter"})

	a.mu.Lock()
	defer a.mu.Unlock()

	prettyJSON, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("filestorage: failed to format batch to pretty JSON: %w", err)
	}

	file, err := os.OpenFile(a.filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("filestorage: failed to open output file '%s': %w", a.filename, err)
	}
	defer file.Close()

	dataToWrite := append(prettyJSON, []byte("\n\n")...)

	if _, err := file.Write(dataToWrite); err != nil {
		return fmt.Errorf("filestorage: failed to write to output file '%s': %w", a.filename, err)
	}

	logger.Debug("Appended batch to output file", port.Fields{
		"file":    a.filename,
		"records": len(records),
	})
	return nil
}
