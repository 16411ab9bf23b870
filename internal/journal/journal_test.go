// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "state", "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndRecent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.Record(ctx, Entry{RunID: "r1", ArxivID: "2101.00001", Title: "First", Filename: "Downloads/2101.00001 - First.pdf", Path: "/tmp/a.pdf", Status: "saved", At: at}))
	require.NoError(t, s.Record(ctx, Entry{RunID: "r1", ArxivID: "9999.9999", Status: "skipped", At: at.Add(time.Second)}))
	require.NoError(t, s.Record(ctx, Entry{RunID: "r2", ArxivID: "2101.00001", Status: "failed", Error: "HTTP 503", At: at.Add(2 * time.Second)}))

	entries, err := s.Recent(ctx, 0, "")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "failed", entries[0].Status, "newest first")
	assert.Equal(t, "HTTP 503", entries[0].Error)
	assert.Equal(t, "9999.9999", entries[1].ArxivID)
	assert.Empty(t, entries[1].Title)
	assert.Equal(t, "First", entries[2].Title)
	assert.Equal(t, "/tmp/a.pdf", entries[2].Path)
	assert.True(t, entries[2].At.Equal(at))
}

func TestRecentFiltersAndLimits(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	for _, id := range []string{"2101.00001", "2202.00002", "2101.00001", "2303.00003"} {
		require.NoError(t, s.Record(ctx, Entry{RunID: "r", ArxivID: id, Status: "saved"}))
	}

	byID, err := s.Recent(ctx, 10, "2101.00001")
	require.NoError(t, err)
	assert.Len(t, byID, 2)

	limited, err := s.Recent(ctx, 2, "")
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "2303.00003", limited[0].ArxivID)
	assert.False(t, limited[0].At.IsZero(), "zero At is stamped on record")
}

func TestOpenReusesExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Record(context.Background(), Entry{RunID: "r", ArxivID: "2101.00001", Status: "saved"}))
	require.NoError(t, s.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()
	entries, err := s2.Recent(context.Background(), 0, "")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
