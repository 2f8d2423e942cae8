package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/guidecrawl"
)

// Ensure LoggingRecordStore implements guidecrawl.RecordStore.
var _ guidecrawl.RecordStore = (*LoggingRecordStore)(nil)

// LoggingRecordStore wraps a RecordStore with logging.
type LoggingRecordStore struct {
	next   guidecrawl.RecordStore
	name   string
	logger *slog.Logger
}

// NewLoggingRecordStore creates a new LoggingRecordStore. name identifies
// the store in log lines.
func NewLoggingRecordStore(next guidecrawl.RecordStore, name string, logger *slog.Logger) *LoggingRecordStore {
	return &LoggingRecordStore{next: next, name: name, logger: logger}
}

// SavePlatform delegates to the wrapped store and logs the save.
func (s *LoggingRecordStore) SavePlatform(ctx context.Context, platform string, records []*guidecrawl.PageRecord) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("saved platform",
			"store", s.name,
			"platform", platform,
			"records", len(records),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.SavePlatform(ctx, platform, records)
}

// SaveAll delegates to the wrapped store and logs the save.
func (s *LoggingRecordStore) SaveAll(ctx context.Context, all map[string][]*guidecrawl.PageRecord) (err error) {
	defer func(begin time.Time) {
		total := 0
		for _, records := range all {
			total += len(records)
		}
		s.logger.Info("saved consolidated results",
			"store", s.name,
			"platforms", len(all),
			"records", total,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.SaveAll(ctx, all)
}
