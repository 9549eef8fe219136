package domain

import "time"

// Group is one capture group of a successful match. Matched is false for
// groups that did not participate; Start and End are -1 in that case.
type Group struct {
	Index   int    `json:"index"`
	Text    string `json:"text"`
	Matched bool   `json:"matched"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
}

// Span is one match produced by find, as a half-open byte range.
type Span struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Report is the outcome of a single evaluation. Text is what the
// presentation layer shows; OK selects the success or error highlight.
type Report struct {
	Operation Operation     `json:"operation"`
	Pattern   string        `json:"pattern"`
	Subject   string        `json:"string"`
	Text      string        `json:"text"`
	OK        bool          `json:"ok"`
	Groups    []Group       `json:"groups,omitempty"`
	Matches   []Span        `json:"matches,omitempty"`
	Pieces    []string      `json:"pieces,omitempty"`
	Elapsed   time.Duration `json:"elapsed_ns"`
	Err       error         `json:"-"`
}
