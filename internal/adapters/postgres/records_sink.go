package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lbc-crawler-service/internal/contextkeys"
	"lbc-crawler-service/internal/core/domain"
	"lbc-crawler-service/internal/core/port"
)

const insertRecordQuery = `
	INSERT INTO crawled_records (ad_id, scraped_at, payload)
	VALUES ($1, now(), $2)
	ON CONFLICT (ad_id) DO NOTHING`

// RecordsPostgresSinkAdapter implements RecordSinkPort over a jsonb table.
// Re-pushed identifiers are ignored at the database level, so replaying a
// batch after a partial failure is safe.
type RecordsPostgresSinkAdapter struct {
	dbPool *pgxpool.Pool
}

func NewRecordsPostgresSinkAdapter(dbPool *pgxpool.Pool) (*RecordsPostgresSinkAdapter, error) {
	if dbPool == nil {
		return nil, fmt.Errorf("postgres sink: db pool cannot be nil")
	}
	return &RecordsPostgresSinkAdapter{dbPool: dbPool}, nil
}

// Push inserts the whole batch in one round trip.
func (a *RecordsPostgresSinkAdapter) Push(ctx context.Context, records []domain.ListingRecord) error {
	if len(records) == 0 {
		return nil
	}

	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"component": "RecordsPostgresSinkAdapter"})

	batch := &pgx.Batch{}
	for _, record := range records {
		payload, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("postgres sink: failed to marshal record: %w", err)
		}
		batch.Queue(insertRecordQuery, record["id"], payload)
	}

	results := a.dbPool.SendBatch(ctx, batch)
	defer results.Close()

	for range records {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("postgres sink: failed to insert record batch: %w", err)
		}
	}

	logger.Debug("Inserted record batch", port.Fields{"records": len(records)})
	return nil
}
