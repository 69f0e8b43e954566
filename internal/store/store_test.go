package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T, now *time.Time) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "portfolio.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	s.now = func() time.Time { return *now }
	return s
}

func TestOpenTwice(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "portfolio.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.RecordVisit(context.Background(), Visit{HashedIP: "a", Path: "/"}))
	require.NoError(t, s.Close())

	// schema already current
	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Ping(context.Background()))

	visitors, err := s.RecentVisitors(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, visitors, 1)
}

func TestStats(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	s := openTestStore(t, &now)

	at := func(ts time.Time, f func()) {
		saved := now
		now = ts
		f()
		now = saved
	}

	at(now.Add(-30*24*time.Hour), func() {
		require.NoError(t, s.RecordVisit(ctx, Visit{HashedIP: "aa", Path: "/"}))
	})
	at(now.Add(-3*24*time.Hour), func() {
		require.NoError(t, s.RecordVisit(ctx, Visit{HashedIP: "bb", Path: "/"}))
	})
	require.NoError(t, s.RecordVisit(ctx, Visit{HashedIP: "aa", UserAgent: "curl", Path: "/resume.md"}))

	require.NoError(t, s.RecordSectionView(ctx, "s1", "home"))
	require.NoError(t, s.RecordSectionView(ctx, "s1", "projects"))
	require.NoError(t, s.RecordSectionView(ctx, "s2", "projects"))
	require.NoError(t, s.RecordCopy(ctx, "s1", true))
	require.NoError(t, s.RecordCopy(ctx, "s2", false))

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 3, stats.TotalVisitors)
	require.EqualValues(t, 2, stats.UniqueVisitors)
	require.EqualValues(t, 1, stats.VisitorsToday)
	require.EqualValues(t, 2, stats.VisitorsThisWeek)
	require.EqualValues(t, 2, stats.LiveSessions)
	require.EqualValues(t, 3, stats.SectionViews)
	require.EqualValues(t, 1, stats.CopiesGranted)
	require.EqualValues(t, 1, stats.CopiesDenied)
	require.Equal(t, []SectionCount{{"projects", 2}, {"home", 1}}, stats.TopSections)

	require.Len(t, stats.RecentVisitors, 3)
	require.Equal(t, "/resume.md", stats.RecentVisitors[0].Path)
	require.Equal(t, "curl", stats.RecentVisitors[0].UserAgent)
	require.True(t, now.Equal(stats.RecentVisitors[0].Timestamp))
}

func TestCleanup(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	s := openTestStore(t, &now)

	old := now
	now = now.Add(-400 * 24 * time.Hour)
	require.NoError(t, s.RecordVisit(ctx, Visit{HashedIP: "aa"}))
	require.NoError(t, s.RecordSectionView(ctx, "s1", "home"))
	require.NoError(t, s.RecordCopy(ctx, "s1", true))
	now = old
	require.NoError(t, s.RecordVisit(ctx, Visit{HashedIP: "bb"}))

	n, err := s.Cleanup(ctx, 365*24*time.Hour)
	require.NoError(t, err)
	require.EqualValues(t, 3, n)

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, stats.TotalVisitors)
	require.Zero(t, stats.SectionViews)
	require.Empty(t, stats.TopSections)
}

func TestHashIP(t *testing.T) {
	t.Parallel()

	a := HashIP("203.0.113.7", "salt")
	require.Len(t, a, 16)
	require.Equal(t, a, HashIP("203.0.113.7", "salt"))
	require.NotEqual(t, a, HashIP("203.0.113.7", "pepper"))
	require.NotEqual(t, a, HashIP("203.0.113.8", "salt"))

	s1, err := NewSalt()
	require.NoError(t, err)
	s2, err := NewSalt()
	require.NoError(t, err)
	require.Len(t, s1, 64)
	require.NotEqual(t, s1, s2)
}
