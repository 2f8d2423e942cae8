package mock

import (
	"context"

	"github.com/fwojciec/guidecrawl"
)

var _ guidecrawl.RecordStore = (*RecordStore)(nil)

// RecordStore is a mock implementation of guidecrawl.RecordStore.
type RecordStore struct {
	SavePlatformFn func(ctx context.Context, platform string, records []*guidecrawl.PageRecord) error
	SaveAllFn      func(ctx context.Context, all map[string][]*guidecrawl.PageRecord) error
}

func (s *RecordStore) SavePlatform(ctx context.Context, platform string, records []*guidecrawl.PageRecord) error {
	return s.SavePlatformFn(ctx, platform, records)
}

func (s *RecordStore) SaveAll(ctx context.Context, all map[string][]*guidecrawl.PageRecord) error {
	return s.SaveAllFn(ctx, all)
}
