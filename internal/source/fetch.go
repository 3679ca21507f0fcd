package source

import "context"

// Query describes one insights request.
type Query struct {
	Level         string   // "account", "campaign", "adset" or "ad"
	Fields        []string
	Breakdowns    []string
	DatePreset    string // e.g. "last_30d"; empty uses the fetcher default
	TimeIncrement int    // 1 for daily rows, 0 for the whole range
}

// Fetcher returns the raw insights rows for a query.
type Fetcher interface {
	Fetch(ctx context.Context, q Query) ([]RawRow, error)
}
