package evaluate

import (
	"fmt"
	"strings"
	"time"

	"github.com/doeshing/retest-go/internal/domain"
	"github.com/doeshing/retest-go/internal/ports"
)

const msgFoundNothing = "Found nothing"

// Service runs match, find and split against the configured engine.
// It holds no state between calls.
type Service struct {
	Engine ports.Engine
	Logger ports.Logger
}

// NewService creates an evaluator for engine.
func NewService(engine ports.Engine, logger ports.Logger) *Service {
	return &Service{Engine: engine, Logger: logger}
}

// Evaluate dispatches on op. Compile errors short-circuit before any
// scanning and are reported in the text, never returned.
func (s *Service) Evaluate(op domain.Operation, pattern, subject string) domain.Report {
	start := time.Now()
	rep := domain.Report{Operation: op, Pattern: pattern, Subject: subject}

	if !op.Valid() {
		rep.Err = fmt.Errorf("%w %q", domain.ErrUnknownOperation, op)
		rep.Text = rep.Err.Error()
		return rep
	}

	re, err := s.Engine.Compile(pattern)
	if err != nil {
		rep.Err = &domain.PatternError{Pattern: pattern, Err: err}
		rep.Text = fmt.Sprintf("Error with pattern: %v", err)
	} else {
		switch op {
		case domain.OpMatch:
			s.match(re, &rep)
		case domain.OpFind:
			s.find(re, &rep)
		case domain.OpSplit:
			s.split(re, &rep)
		}
	}

	rep.Elapsed = time.Since(start)
	s.Logger.Debug("pattern evaluated", map[string]interface{}{
		"engine":    s.Engine.Name(),
		"operation": string(op),
		"ok":        rep.OK,
		"elapsed":   rep.Elapsed.String(),
	})
	return rep
}

// Match reports the leftmost match and its capture groups.
func (s *Service) Match(pattern, subject string) domain.Report {
	return s.Evaluate(domain.OpMatch, pattern, subject)
}

// Find reports every non-overlapping match.
func (s *Service) Find(pattern, subject string) domain.Report {
	return s.Evaluate(domain.OpFind, pattern, subject)
}

// Split reports the pieces between matches.
func (s *Service) Split(pattern, subject string) domain.Report {
	return s.Evaluate(domain.OpSplit, pattern, subject)
}

func (s *Service) match(re ports.Matcher, rep *domain.Report) {
	loc, err := re.Submatch(rep.Subject)
	if err != nil {
		runtimeError(rep, err)
		return
	}
	if loc == nil {
		rep.Err = domain.ErrNoMatch
		rep.Text = fmt.Sprintf("String:\n\"%s\"\nDoes not match Pattern:\n\"%s\"", rep.Subject, rep.Pattern)
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Matching: \"%s\"\nAgainst: \"%s\"\n\n", rep.Pattern, rep.Subject)
	for i := 0; i+1 < len(loc); i += 2 {
		g := domain.Group{Index: i / 2, Start: loc[i], End: loc[i+1]}
		if loc[i] < 0 {
			g.Start, g.End = -1, -1
			fmt.Fprintf(&b, "group[%d] = None\n", g.Index)
		} else {
			g.Matched = true
			g.Text = rep.Subject[loc[i]:loc[i+1]]
			fmt.Fprintf(&b, "group[%d] = \"%s\"\n", g.Index, g.Text)
		}
		rep.Groups = append(rep.Groups, g)
	}
	rep.Text = b.String()
	rep.OK = true
}

func (s *Service) find(re ports.Matcher, rep *domain.Report) {
	locs, err := re.MatchAll(rep.Subject)
	if err != nil {
		runtimeError(rep, err)
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Find pattern:\n\"%s\"\nIn:\n\"%s\"\n\n", rep.Pattern, rep.Subject)
	for i, loc := range locs {
		span := domain.Span{Index: i, Text: rep.Subject[loc[0]:loc[1]], Start: loc[0], End: loc[1]}
		rep.Matches = append(rep.Matches, span)
		fmt.Fprintf(&b, "Iteration %d found \"%s\" at [%d,%d)\n", i, span.Text, span.Start, span.End)
	}
	if len(locs) == 0 {
		rep.Err = domain.ErrNoMatch
		b.WriteString(msgFoundNothing)
	} else {
		rep.OK = true
	}
	rep.Text = b.String()
}

func (s *Service) split(re ports.Matcher, rep *domain.Report) {
	locs, err := re.MatchAll(rep.Subject)
	if err != nil {
		runtimeError(rep, err)
		return
	}
	rep.Pieces = SplitAt(rep.Subject, locs)

	var b strings.Builder
	fmt.Fprintf(&b, "Splitting with pattern:\n\"%s\"\nString:\n\"%s\"\n\n", rep.Pattern, rep.Subject)
	for i, piece := range rep.Pieces {
		fmt.Fprintf(&b, "Index %d is \"%s\"\n", i, piece)
	}
	if len(rep.Pieces) == 0 {
		rep.Err = domain.ErrNoMatch
		b.WriteString(msgFoundNothing)
	} else {
		rep.OK = true
	}
	rep.Text = b.String()
}

// SplitAt cuts subject around each match, so n matches yield n+1 pieces,
// empty ones included.
func SplitAt(subject string, locs [][]int) []string {
	pieces := make([]string, 0, len(locs)+1)
	prev := 0
	for _, loc := range locs {
		pieces = append(pieces, subject[prev:loc[0]])
		prev = loc[1]
	}
	return append(pieces, subject[prev:])
}

// runtimeError covers engines that can fail while matching, e.g. a regexp2 timeout.
func runtimeError(rep *domain.Report, err error) {
	rep.Err = err
	rep.Text = fmt.Sprintf("Error evaluating pattern: %v", err)
}
