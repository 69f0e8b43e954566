package store

import (
	"context"
	"fmt"
	"time"
)

// Visitor is a stored visit, as shown on the admin pages.
type Visitor struct {
	ID        int64     `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

// SectionCount is how often a section became active.
type SectionCount struct {
	Section string `json:"section"`
	Views   int64  `json:"views"`
}

// Stats summarizes the analytics for the dashboard.
type Stats struct {
	TotalVisitors    int64          `json:"total_visitors"`
	UniqueVisitors   int64          `json:"unique_visitors"`
	VisitorsToday    int64          `json:"visitors_today"`
	VisitorsThisWeek int64          `json:"visitors_this_week"`
	LiveSessions     int64          `json:"live_sessions"`
	SectionViews     int64          `json:"section_views"`
	CopiesGranted    int64          `json:"copies_granted"`
	CopiesDenied     int64          `json:"copies_denied"`
	TopSections      []SectionCount `json:"top_sections"`
	RecentVisitors   []Visitor      `json:"recent_visitors"`
}

// Stats gathers the dashboard numbers.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	week := now.Add(-7 * 24 * time.Hour)

	stats := &Stats{}
	counts := []struct {
		dst   *int64
		query string
		args  []any
	}{
		{&stats.TotalVisitors, `SELECT COUNT(*) FROM visitors`, nil},
		{&stats.UniqueVisitors, `SELECT COUNT(DISTINCT hashed_ip) FROM visitors`, nil},
		{&stats.VisitorsToday, `SELECT COUNT(*) FROM visitors WHERE created_at >= ?`, []any{today.Unix()}},
		{&stats.VisitorsThisWeek, `SELECT COUNT(*) FROM visitors WHERE created_at >= ?`, []any{week.Unix()}},
		{&stats.LiveSessions, `SELECT COUNT(DISTINCT session) FROM section_views`, nil},
		{&stats.SectionViews, `SELECT COUNT(*) FROM section_views`, nil},
		{&stats.CopiesGranted, `SELECT COUNT(*) FROM copy_events WHERE granted = 1`, nil},
		{&stats.CopiesDenied, `SELECT COUNT(*) FROM copy_events WHERE granted = 0`, nil},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query, c.args...).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("stats: %w", err)
		}
	}

	var err error
	if stats.TopSections, err = s.SectionCounts(ctx); err != nil {
		return nil, err
	}
	if stats.RecentVisitors, err = s.RecentVisitors(ctx, 50); err != nil {
		return nil, err
	}
	return stats, nil
}

// RecentVisitors returns up to limit visits, newest first.
func (s *Store) RecentVisitors(ctx context.Context, limit int) ([]Visitor, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, hashed_ip, user_agent, path, created_at
		FROM visitors
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent visitors: %w", err)
	}
	defer rows.Close()

	var visitors []Visitor
	for rows.Next() {
		var v Visitor
		var ts int64
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &ts); err != nil {
			return nil, fmt.Errorf("scan visitor: %w", err)
		}
		v.Timestamp = time.Unix(ts, 0).UTC()
		visitors = append(visitors, v)
	}
	return visitors, rows.Err()
}

// SectionCounts returns view counts per section, most viewed first.
func (s *Store) SectionCounts(ctx context.Context) ([]SectionCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT section, COUNT(*) AS views
		FROM section_views
		GROUP BY section
		ORDER BY views DESC, section ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("section counts: %w", err)
	}
	defer rows.Close()

	var out []SectionCount
	for rows.Next() {
		var sc SectionCount
		if err := rows.Scan(&sc.Section, &sc.Views); err != nil {
			return nil, fmt.Errorf("scan section count: %w", err)
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}
