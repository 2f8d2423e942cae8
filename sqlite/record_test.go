package sqlite_test

import (
	"context"
	"testing"

	"github.com/fwojciec/guidecrawl"
	"github.com/fwojciec/guidecrawl/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openDB(t *testing.T) *sqlite.DB {
	t.Helper()

	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleRecords(platform string, urls ...string) []*guidecrawl.PageRecord {
	records := make([]*guidecrawl.PageRecord, len(urls))
	for i, u := range urls {
		records[i] = &guidecrawl.PageRecord{
			URL:      u,
			Title:    "Title " + u,
			Platform: platform,
			Category: "Docs",
			Content:  "How to configure " + u,
			HTML:     "<main>How to configure " + u + "</main>",
		}
	}
	return records
}

func TestRecordStore_SavePlatform(t *testing.T) {
	t.Parallel()

	t.Run("stores records in crawl order", func(t *testing.T) {
		t.Parallel()

		store := sqlite.NewRecordStore(openDB(t))
		ctx := context.Background()
		records := sampleRecords("segment", "https://segment.com/docs/b", "https://segment.com/docs/a")

		require.NoError(t, store.SavePlatform(ctx, "segment", records))

		stored, err := store.FindRecords(ctx, sqlite.RecordFilter{Platform: "segment"})
		require.NoError(t, err)
		require.Len(t, stored, 2)
		assert.Equal(t, records[0], stored[0].Record)
		assert.Equal(t, records[1], stored[1].Record)
		assert.Equal(t, 1, stored[1].Position)
		assert.NotEmpty(t, stored[0].ID)
		assert.Len(t, stored[0].ContentHash, 16)
		assert.False(t, stored[0].SavedAt.IsZero())
	})

	t.Run("replaces previous records of the platform only", func(t *testing.T) {
		t.Parallel()

		store := sqlite.NewRecordStore(openDB(t))
		ctx := context.Background()
		require.NoError(t, store.SavePlatform(ctx, "segment", sampleRecords("segment", "https://segment.com/docs/1", "https://segment.com/docs/2")))
		require.NoError(t, store.SavePlatform(ctx, "lytics", sampleRecords("lytics", "https://docs.lytics.com/a")))

		require.NoError(t, store.SavePlatform(ctx, "segment", sampleRecords("segment", "https://segment.com/docs/3")))

		segment, err := store.FindRecords(ctx, sqlite.RecordFilter{Platform: "segment"})
		require.NoError(t, err)
		require.Len(t, segment, 1)
		assert.Equal(t, "https://segment.com/docs/3", segment[0].Record.URL)

		lytics, err := store.FindRecords(ctx, sqlite.RecordFilter{Platform: "lytics"})
		require.NoError(t, err)
		assert.Len(t, lytics, 1)
	})

	t.Run("empty result clears the platform", func(t *testing.T) {
		t.Parallel()

		store := sqlite.NewRecordStore(openDB(t))
		ctx := context.Background()
		require.NoError(t, store.SavePlatform(ctx, "segment", sampleRecords("segment", "https://segment.com/docs/1")))

		require.NoError(t, store.SavePlatform(ctx, "segment", nil))

		stored, err := store.FindRecords(ctx, sqlite.RecordFilter{Platform: "segment"})
		require.NoError(t, err)
		assert.Empty(t, stored)
	})

	t.Run("requires a platform name", func(t *testing.T) {
		t.Parallel()

		store := sqlite.NewRecordStore(openDB(t))

		err := store.SavePlatform(context.Background(), "", nil)

		assert.Equal(t, guidecrawl.EINVALID, guidecrawl.ErrorCode(err))
	})
}

func TestRecordStore_SaveAll(t *testing.T) {
	t.Parallel()

	store := sqlite.NewRecordStore(openDB(t))
	ctx := context.Background()
	require.NoError(t, store.SavePlatform(ctx, "zeotap", sampleRecords("zeotap", "https://docs.zeotap.com/x")))

	all := map[string][]*guidecrawl.PageRecord{
		"segment": sampleRecords("segment", "https://segment.com/docs/1"),
		"lytics":  sampleRecords("lytics", "https://docs.lytics.com/a", "https://docs.lytics.com/b"),
	}
	require.NoError(t, store.SaveAll(ctx, all))

	stored, err := store.FindRecords(ctx, sqlite.RecordFilter{})
	require.NoError(t, err)
	require.Len(t, stored, 4)
	assert.Equal(t, "lytics", stored[0].Record.Platform)
	assert.Equal(t, "segment", stored[2].Record.Platform)
	assert.Equal(t, "zeotap", stored[3].Record.Platform)
}

func TestRecordStore_FindRecords(t *testing.T) {
	t.Parallel()

	store := sqlite.NewRecordStore(openDB(t))
	ctx := context.Background()
	require.NoError(t, store.SavePlatform(ctx, "segment", sampleRecords("segment",
		"https://segment.com/docs/1",
		"https://segment.com/docs/2",
		"https://segment.com/docs/3",
	)))

	t.Run("filters by URL", func(t *testing.T) {
		stored, err := store.FindRecords(ctx, sqlite.RecordFilter{URL: "https://segment.com/docs/2"})
		require.NoError(t, err)
		require.Len(t, stored, 1)
		assert.Equal(t, "Title https://segment.com/docs/2", stored[0].Record.Title)
	})

	t.Run("paginates", func(t *testing.T) {
		stored, err := store.FindRecords(ctx, sqlite.RecordFilter{Limit: 1, Offset: 1})
		require.NoError(t, err)
		require.Len(t, stored, 1)
		assert.Equal(t, "https://segment.com/docs/2", stored[0].Record.URL)
	})

	t.Run("offset without limit", func(t *testing.T) {
		stored, err := store.FindRecords(ctx, sqlite.RecordFilter{Offset: 2})
		require.NoError(t, err)
		require.Len(t, stored, 1)
		assert.Equal(t, "https://segment.com/docs/3", stored[0].Record.URL)
	})
}
