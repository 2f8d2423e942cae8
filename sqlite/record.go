package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/guidecrawl"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ guidecrawl.RecordStore = (*RecordStore)(nil)

// RecordStore implements guidecrawl.RecordStore using SQLite.
// Saving a platform replaces all of its previous rows.
type RecordStore struct {
	db  *DB
	now func() time.Time
}

// NewRecordStore creates a new RecordStore.
func NewRecordStore(db *DB) *RecordStore {
	return &RecordStore{db: db, now: time.Now}
}

// RecordFilter selects stored records. Zero fields match everything.
type RecordFilter struct {
	Platform string
	URL      string
	Limit    int
	Offset   int
}

// StoredRecord is a PageRecord with its storage metadata.
type StoredRecord struct {
	ID          string
	ContentHash string
	Position    int
	SavedAt     time.Time
	Record      *guidecrawl.PageRecord
}

// contentHash returns the hex xxhash64 of content.
func contentHash(content string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(content))
}

// SavePlatform replaces the stored records of platform.
func (s *RecordStore) SavePlatform(ctx context.Context, platform string, records []*guidecrawl.PageRecord) error {
	if platform == "" {
		return guidecrawl.Errorf(guidecrawl.EINVALID, "platform name required")
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		return s.replace(ctx, tx, platform, records)
	})
}

// SaveAll replaces the stored records of every platform in all in one
// transaction. Platforms not in all are left untouched.
func (s *RecordStore) SaveAll(ctx context.Context, all map[string][]*guidecrawl.PageRecord) error {
	platforms := make([]string, 0, len(all))
	for name := range all {
		platforms = append(platforms, name)
	}
	sort.Strings(platforms)

	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, name := range platforms {
			if err := s.replace(ctx, tx, name, all[name]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *RecordStore) replace(ctx context.Context, tx *sql.Tx, platform string, records []*guidecrawl.PageRecord) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE platform = ?`, platform); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (id, platform, url, title, category, content, html, content_hash, position, saved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	savedAt := s.now().UTC().Format(time.RFC3339)
	for i, r := range records {
		if _, err := stmt.ExecContext(ctx,
			uuid.New().String(), platform, r.URL, r.Title, r.Category, r.Content, r.HTML,
			contentHash(r.Content), i, savedAt,
		); err != nil {
			return fmt.Errorf("inserting record %d of %s: %w", i, platform, err)
		}
	}
	return nil
}

// FindRecords returns stored records matching filter, ordered by platform
// and crawl position.
func (s *RecordStore) FindRecords(ctx context.Context, filter RecordFilter) ([]*StoredRecord, error) {
	var query strings.Builder
	query.WriteString(`
		SELECT id, platform, url, title, category, content, html, content_hash, position, saved_at
		FROM records
		WHERE 1 = 1`)

	var args []any
	if filter.Platform != "" {
		query.WriteString(" AND platform = ?")
		args = append(args, filter.Platform)
	}
	if filter.URL != "" {
		query.WriteString(" AND url = ?")
		args = append(args, filter.URL)
	}
	query.WriteString(" ORDER BY platform, position")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stored []*StoredRecord
	for rows.Next() {
		var r guidecrawl.PageRecord
		var sr StoredRecord
		var savedAt string
		if err := rows.Scan(&sr.ID, &r.Platform, &r.URL, &r.Title, &r.Category, &r.Content, &r.HTML,
			&sr.ContentHash, &sr.Position, &savedAt); err != nil {
			return nil, err
		}
		if sr.SavedAt, err = time.Parse(time.RFC3339, savedAt); err != nil {
			return nil, fmt.Errorf("failed to parse saved_at: %w", err)
		}
		sr.Record = &r
		stored = append(stored, &sr)
	}
	return stored, rows.Err()
}

func (s *RecordStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
