package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mbertin/radio-tracker-api/internal/models"
	appErrors "github.com/mbertin/radio-tracker-api/pkg/errors"
)

const tableSnapshotKey = "tracker:records:table"

// recordSnapshot is the cache-side shape of a record. The API struct hides
// body text from payloads, but the snapshot must round-trip every column
// or a cache hit would serve a lossy table.
type recordSnapshot struct {
	models.Record
	BodyText string `json:"body_text"`
}

type tableSnapshot struct {
	Headers []string         `json:"headers"`
	Records []recordSnapshot `json:"records"`
}

func encodeTableSnapshot(table *Table) ([]byte, error) {
	snap := tableSnapshot{
		Headers: table.Headers,
		Records: make([]recordSnapshot, len(table.Records)),
	}
	for i, rec := range table.Records {
		snap.Records[i] = recordSnapshot{Record: rec, BodyText: rec.BodyText}
	}
	return json.Marshal(snap)
}

func decodeTableSnapshot(raw []byte) (*Table, error) {
	var snap tableSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, err
	}

	table := &Table{
		Headers: snap.Headers,
		Records: make([]models.Record, len(snap.Records)),
	}
	for i, sr := range snap.Records {
		rec := sr.Record
		rec.BodyText = sr.BodyText
		table.Records[i] = rec
	}
	return table, nil
}

// CacheRepository keeps a TTL-bound snapshot of the loaded records table so
// a fresh session can skip the full sheet read. Any confirmed write
// invalidates it; the sheet stays the source of truth.
type CacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewCacheRepository constructs a cache repository. A nil client disables
// caching without changing call sites.
func NewCacheRepository(client *redis.Client, logger *zap.Logger) *CacheRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheRepository{client: client, logger: logger}
}

// GetTable retrieves the cached table snapshot.
func (r *CacheRepository) GetTable(ctx context.Context) (*Table, error) {
	if r.client == nil {
		return nil, appErrors.ErrCacheMiss
	}

	raw, err := r.client.Get(ctx, tableSnapshotKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, appErrors.ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get %s: %w", tableSnapshotKey, err)
	}

	table, err := decodeTableSnapshot(raw)
	if err != nil {
		return nil, fmt.Errorf("unmarshal table snapshot: %w", err)
	}

	return table, nil
}

// SetTable stores the table snapshot with the given TTL.
func (r *CacheRepository) SetTable(ctx context.Context, table *Table, ttl time.Duration) error {
	if r.client == nil {
		return nil
	}

	payload, err := encodeTableSnapshot(table)
	if err != nil {
		return fmt.Errorf("marshal table snapshot: %w", err)
	}

	if err := r.client.Set(ctx, tableSnapshotKey, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", tableSnapshotKey, err)
	}

	return nil
}

// Invalidate drops the snapshot after any remote write.
func (r *CacheRepository) Invalidate(ctx context.Context) error {
	if r.client == nil {
		return nil
	}

	if err := r.client.Del(ctx, tableSnapshotKey).Err(); err != nil {
		return fmt.Errorf("redis delete %s: %w", tableSnapshotKey, err)
	}

	return nil
}
