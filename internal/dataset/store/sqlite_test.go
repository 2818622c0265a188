package store

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mayukh-Jain/equipviz/internal/dataset/entity"
	"github.com/Mayukh-Jain/equipviz/internal/pkg/pkgerror"
)

type seqID struct {
	n atomic.Int64
}

func (s *seqID) Generate() int64 {
	return s.n.Add(1)
}

func newTestSQLite(t *testing.T, limit int) *SQLite {
	t.Helper()

	dir := t.TempDir()
	var tick atomic.Int64

	s, err := New(Options{
		DBPath:  filepath.Join(dir, "datasets.db"),
		BlobDir: filepath.Join(dir, "blobs"),
		IDs:     &seqID{},
		Limit:   limit,
		Now: func() time.Time {
			return time.Unix(1_700_000_000+tick.Add(1), 0)
		},
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return s
}

func testSummary(count int) entity.Summary {
	summary := entity.Summary{
		TotalCount: count,
	}
	if count > 0 {
		flow, pres, temp := 100.0, 5.0, 50.0
		summary.Averages = entity.Averages{Flowrate: &flow, Pressure: &pres, Temperature: &temp}
		summary.TypeDistribution = entity.Distribution{{Label: "Pump", Count: count}}
	}
	return summary
}

func TestSQLiteCreateAndGet(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t, 5)

	created, evicted, err := s.Create(ctx, "plant.csv", []byte("a,b\n1,2\n"), testSummary(1))
	require.NoError(t, err)
	assert.Nil(t, evicted)
	assert.Equal(t, "plant.csv", created.Name)
	assert.NotZero(t, created.ID)

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.UploadedAt, got.UploadedAt)
	assert.Equal(t, 1, got.Summary.TotalCount)
	require.NotNil(t, got.Summary.Averages.Flowrate)
	assert.Equal(t, 100.0, *got.Summary.Averages.Flowrate)
	assert.Equal(t, entity.Distribution{{Label: "Pump", Count: 1}}, got.Summary.TypeDistribution)
}

func TestSQLiteGetUnknown(t *testing.T) {
	s := newTestSQLite(t, 5)

	_, err := s.Get(context.Background(), 404)
	assert.ErrorIs(t, err, pkgerror.ErrNotFound)
}

func TestSQLiteOpenFileRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t, 5)

	content := []byte("Type,Flowrate,Pressure,Temperature\nPump,1,2,3\n")
	created, _, err := s.Create(ctx, "plant.csv", content, testSummary(1))
	require.NoError(t, err)

	rc, err := s.OpenFile(ctx, created.ID)
	require.NoError(t, err)
	defer rc.Close()

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestSQLiteEvictsOldestBeyondLimit(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t, 5)

	var ids []int64
	for i := 0; i < 6; i++ {
		name := fmt.Sprintf("file-%d.csv", i)
		created, evicted, err := s.Create(ctx, name, []byte("data"), testSummary(1))
		require.NoError(t, err)
		ids = append(ids, created.ID)

		if i < 5 {
			assert.Nil(t, evicted)
		} else {
			require.NotNil(t, evicted)
			assert.Equal(t, ids[0], evicted.ID)
			assert.Equal(t, "file-0.csv", evicted.Name)
		}
	}

	recent, err := s.ListRecent(ctx)
	require.NoError(t, err)
	require.Len(t, recent, 5)
	for i, ds := range recent {
		// newest first: ids[5], ids[4], ... ids[1]
		assert.Equal(t, ids[5-i], ds.ID)
	}

	_, err = s.Get(ctx, ids[0])
	assert.ErrorIs(t, err, pkgerror.ErrNotFound)

	// the evicted blob is gone from disk
	_, err = os.Stat(filepath.Join(s.blobs.root, fmt.Sprintf("%d.csv", ids[0])))
	assert.True(t, os.IsNotExist(err))
}

func TestSQLiteOpenFileAfterBlobVanished(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t, 5)

	created, _, err := s.Create(ctx, "plant.csv", []byte("data"), testSummary(1))
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(s.blobs.root, created.BlobKey)))

	_, err = s.OpenFile(ctx, created.ID)
	assert.ErrorIs(t, err, ErrBlobGone)
}

func TestSQLiteListRecentOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t, 5)

	for i := 0; i < 3; i++ {
		_, _, err := s.Create(ctx, fmt.Sprintf("file-%d.csv", i), []byte("data"), testSummary(1))
		require.NoError(t, err)
	}

	recent, err := s.ListRecent(ctx)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "file-2.csv", recent[0].Name)
	assert.Equal(t, "file-1.csv", recent[1].Name)
	assert.Equal(t, "file-0.csv", recent[2].Name)
}

func TestSQLiteConcurrentCreatesKeepLimit(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t, 5)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, err := s.Create(ctx, fmt.Sprintf("file-%d.csv", i), []byte("data"), testSummary(1))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	recent, err := s.ListRecent(ctx)
	require.NoError(t, err)
	assert.Len(t, recent, 5)

	var count int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM datasets`).Scan(&count))
	assert.Equal(t, 5, count)

	// one blob per surviving record, no orphans besides temp-free files
	entries, err := os.ReadDir(s.blobs.root)
	require.NoError(t, err)
	assert.Len(t, entries, 5)
}

func TestSQLiteSummaryOrderSurvivesStorage(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t, 5)

	summary := testSummary(3)
	summary.TypeDistribution = entity.Distribution{
		{Label: "Valve", Count: 1},
		{Label: "Pump", Count: 1},
		{Label: "Compressor", Count: 1},
	}

	created, _, err := s.Create(ctx, "plant.csv", []byte("data"), summary)
	require.NoError(t, err)

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, summary.TypeDistribution, got.Summary.TypeDistribution)
}
