package domain

import (
	"fmt"
	"strings"
	"time"
)

// Operation names the evaluator action a user ran.
type Operation string

const (
	OpMatch Operation = "match"
	OpFind  Operation = "find"
	OpSplit Operation = "split"
)

// Operations lists every supported operation in display order.
var Operations = []Operation{OpMatch, OpFind, OpSplit}

// ParseOperation converts user input into an Operation.
func ParseOperation(name string) (Operation, error) {
	op := Operation(strings.ToLower(strings.TrimSpace(name)))
	if !op.Valid() {
		return "", fmt.Errorf("%w %q", ErrUnknownOperation, name)
	}
	return op, nil
}

// Valid reports whether o is one of the supported operations.
func (o Operation) Valid() bool {
	switch o {
	case OpMatch, OpFind, OpSplit:
		return true
	}
	return false
}

// Execution is one logged (pattern, string) test. Only the operation of the
// most recent run is kept; Count accumulates across operations.
type Execution struct {
	Time      time.Time `json:"time"`
	Operation Operation `json:"operation"`
	Pattern   string    `json:"pattern"`
	Subject   string    `json:"string"`
	Count     uint32    `json:"count"`
}

// NewExecution stamps a fresh record with a zero count.
func NewExecution(op Operation, pattern, subject string, now time.Time) Execution {
	return Execution{
		Time:      now,
		Operation: op,
		Pattern:   pattern,
		Subject:   subject,
	}
}

// SamePair reports whether the record was run with exactly this pattern and subject.
func (e Execution) SamePair(pattern, subject string) bool {
	return e.Pattern == pattern && e.Subject == subject
}

// Format renders the record the way the history view lists it.
func (e Execution) Format() string {
	return fmt.Sprintf("%d: %s Op: \"%s\" RE: \"%s\" str: \"%s\"",
		e.Count,
		e.Time.Local().Format(TimestampFormat),
		e.Operation,
		e.Pattern,
		e.Subject,
	)
}

// HistoryStats summarizes the execution log.
type HistoryStats struct {
	Records     int
	Runs        int
	ByOperation map[Operation]int
	Busiest     Execution
	Newest      time.Time
}
