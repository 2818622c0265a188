// Package store persists dataset records in SQLite and their file blobs on
// the filesystem, and enforces the retention window during creation.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Mayukh-Jain/equipviz/internal/dataset/entity"
	"github.com/Mayukh-Jain/equipviz/internal/pkg/pkgerror"
	"github.com/Mayukh-Jain/equipviz/internal/pkg/pkguid"
)

// DefaultRetentionLimit is the number of datasets kept when no limit is
// configured.
const DefaultRetentionLimit = 5

// Options configures a SQLite store.
type Options struct {
	DBPath  string
	BlobDir string
	IDs     pkguid.NumberID
	Limit   int
	Now     func() time.Time // defaults to time.Now
}

// SQLite stores dataset records in a SQLite database with file content on
// the filesystem next to it.
//
// Create (including eviction) is serialized by a mutex so two concurrent
// uploads cannot both observe a count at the limit and both skip eviction.
// Reads run concurrently and never see a record whose blob deletion is still
// pending, because eviction removes the blob first and the record second.
type SQLite struct {
	mu    sync.Mutex
	db    *sql.DB
	blobs *blobStore
	ids   pkguid.NumberID
	now   func() time.Time
	limit int
}

// New opens (and if needed bootstraps) the store.
func New(opts Options) (*SQLite, error) {
	if opts.IDs == nil {
		return nil, errors.New("store: id generator is required")
	}

	limit := opts.Limit
	if limit < 1 {
		limit = DefaultRetentionLimit
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	blobs, err := newBlobStore(opts.BlobDir)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", opts.DBPath+"?_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &SQLite{
		db:    db,
		blobs: blobs,
		ids:   opts.IDs,
		now:   now,
		limit: limit,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *SQLite) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS datasets (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		blob_key TEXT NOT NULL,
		uploaded_at INTEGER NOT NULL,
		summary TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_datasets_uploaded ON datasets(uploaded_at);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Create persists the blob and record, then applies eviction, as one
// critical section. It returns the created record and, when retention was
// enforced, the evicted one.
//
// If eviction cannot complete (blob deletion failed), the record it targeted
// is left in place and the error is returned: a broken retention invariant
// must never pass silently. The next Create retries, since eviction loops
// until the count is back under the limit.
func (s *SQLite) Create(ctx context.Context, name string, file []byte, summary entity.Summary) (entity.Dataset, *entity.Dataset, error) {
	id := s.ids.Generate()
	uploadedAt := s.now().UTC()
	blobKey := strconv.FormatInt(id, 10) + ".csv"

	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return entity.Dataset{}, nil, fmt.Errorf("encode summary: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.blobs.Put(blobKey, file); err != nil {
		return entity.Dataset{}, nil, err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO datasets (id, name, blob_key, uploaded_at, summary) VALUES (?, ?, ?, ?, ?)`,
		id, name, blobKey, uploadedAt.UnixNano(), string(summaryJSON),
	)
	if err != nil {
		// No partially-visible record: remove the blob written above.
		if delErr := s.blobs.Delete(blobKey); delErr != nil {
			err = errors.Join(err, delErr)
		}
		return entity.Dataset{}, nil, fmt.Errorf("insert dataset: %w", err)
	}

	created := entity.Dataset{
		ID:         id,
		Name:       name,
		BlobKey:    blobKey,
		UploadedAt: uploadedAt,
		Summary:    summary,
	}

	evicted, err := s.evictLocked(ctx)
	if err != nil {
		return created, evicted, fmt.Errorf("dataset %d created but eviction failed: %w", id, err)
	}

	return created, evicted, nil
}

// evictLocked removes the oldest dataset while the count exceeds the limit.
// Caller must hold s.mu. The blob is deleted before the record; if the blob
// deletion fails the record stays, so no index entry ever points nowhere.
func (s *SQLite) evictLocked(ctx context.Context) (*entity.Dataset, error) {
	var evicted *entity.Dataset

	for {
		var count int
		if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM datasets`).Scan(&count); err != nil {
			return evicted, fmt.Errorf("count datasets: %w", err)
		}
		if count <= s.limit {
			return evicted, nil
		}

		row := s.db.QueryRowContext(ctx,
			`SELECT id, name, blob_key, uploaded_at, summary FROM datasets ORDER BY uploaded_at ASC, id ASC LIMIT 1`)
		oldest, err := scanDataset(row)
		if err != nil {
			return evicted, fmt.Errorf("find oldest dataset: %w", err)
		}

		if err := s.blobs.Delete(oldest.BlobKey); err != nil {
			return evicted, err
		}

		if _, err := s.db.ExecContext(ctx, `DELETE FROM datasets WHERE id = ?`, oldest.ID); err != nil {
			return evicted, fmt.Errorf("delete dataset %d: %w", oldest.ID, err)
		}

		evicted = &oldest
	}
}

// Get returns a single dataset record.
func (s *SQLite) Get(ctx context.Context, id int64) (entity.Dataset, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, blob_key, uploaded_at, summary FROM datasets WHERE id = ?`, id)

	ds, err := scanDataset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Dataset{}, pkgerror.ErrNotFound
	}
	if err != nil {
		return entity.Dataset{}, fmt.Errorf("get dataset %d: %w", id, err)
	}

	return ds, nil
}

// ListRecent returns at most the retention limit of datasets, newest first.
func (s *SQLite) ListRecent(ctx context.Context) ([]entity.Dataset, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, blob_key, uploaded_at, summary FROM datasets ORDER BY uploaded_at DESC, id DESC LIMIT ?`,
		s.limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	defer rows.Close()

	out := []entity.Dataset{}
	for rows.Next() {
		ds, err := scanDataset(rows)
		if err != nil {
			return nil, fmt.Errorf("list datasets: %w", err)
		}
		out = append(out, ds)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}

	return out, nil
}

// OpenFile returns a reader over a dataset's stored file.
//
// A missing record yields pkgerror.ErrNotFound; a record whose blob vanished
// mid-read (eviction raced the lookup) yields ErrBlobGone.
func (s *SQLite) OpenFile(ctx context.Context, id int64) (io.ReadCloser, error) {
	ds, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.blobs.Open(ds.BlobKey)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDataset(row rowScanner) (entity.Dataset, error) {
	var (
		ds          entity.Dataset
		uploadedAt  int64
		summaryJSON string
	)

	if err := row.Scan(&ds.ID, &ds.Name, &ds.BlobKey, &uploadedAt, &summaryJSON); err != nil {
		return entity.Dataset{}, err
	}

	ds.UploadedAt = time.Unix(0, uploadedAt).UTC()

	if err := json.Unmarshal([]byte(summaryJSON), &ds.Summary); err != nil {
		return entity.Dataset{}, fmt.Errorf("decode summary of dataset %d: %w", ds.ID, err)
	}

	return ds, nil
}
