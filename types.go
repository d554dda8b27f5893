package main

import "time"

// SearchResult is a single news or blog item returned by the Naver search API,
// with HTML stripped from title and description. Immutable once returned.
type SearchResult struct {
	Title       string
	Link        string
	Description string
	BloggerName string
	Tags        []string
	PublishDate time.Time
}

// ProcessMode selects how the pipeline transforms a result.
type ProcessMode string

const (
	ModeSummary      ProcessMode = "summary"
	ModeRestructured ProcessMode = "restructured"
)

// ProcessedContent is the pipeline's output record, immutable after assembly.
// Summary mode fills LongVersion/ShortVersion; restructure mode fills Content.
type ProcessedContent struct {
	Mode         ProcessMode
	Title        string
	OriginalLink string
	LongVersion  string
	ShortVersion string
	Content      string
	Keywords     []string
	CreatedAt    time.Time
}

// Body returns the primary text of the record regardless of mode.
func (pc *ProcessedContent) Body() string {
	if pc.Mode == ModeRestructured {
		return pc.Content
	}
	return pc.LongVersion
}

// SaveResult tracks the outcome of persisting a processed record.
type SaveResult struct {
	Platform string
	Path     string
	PageID   string
	Error    error
}
