package engine

import (
	"time"

	"github.com/dlclark/regexp2"

	"github.com/doeshing/retest-go/internal/domain"
	"github.com/doeshing/retest-go/internal/ports"
)

// Regexp2 compiles patterns with the backtracking .NET-style engine, which adds
// lookaround and backreferences at the cost of unbounded run time.
type Regexp2 struct {
	options regexp2.RegexOptions
	timeout time.Duration
}

// NewRegexp2 creates the engine. A zero timeout leaves matches unbounded.
func NewRegexp2(ecmascript bool, timeout time.Duration) *Regexp2 {
	opts := regexp2.None
	if ecmascript {
		opts = regexp2.ECMAScript
	}
	return &Regexp2{options: opts, timeout: timeout}
}

// Name implements ports.Engine.
func (*Regexp2) Name() string {
	return domain.EngineRegexp2
}

// Compile implements ports.Engine.
func (e *Regexp2) Compile(pattern string) (ports.Matcher, error) {
	re, err := regexp2.Compile(pattern, e.options)
	if err != nil {
		return nil, err
	}
	if e.timeout > 0 {
		re.MatchTimeout = e.timeout
	}
	return &regexp2Matcher{re: re}, nil
}

// regexp2 reports positions in runes; offsets converts them back to bytes.
type regexp2Matcher struct {
	re *regexp2.Regexp
}

func (m *regexp2Matcher) String() string {
	return m.re.String()
}

func (m *regexp2Matcher) Submatch(subject string) ([]int, error) {
	match, err := m.re.FindStringMatch(subject)
	if err != nil || match == nil {
		return nil, err
	}
	offs := runeOffsets(subject)
	groups := match.Groups()
	loc := make([]int, 0, 2*len(groups))
	for _, g := range groups {
		if len(g.Captures) == 0 {
			loc = append(loc, -1, -1)
			continue
		}
		loc = append(loc, offs[g.Index], offs[g.Index+g.Length])
	}
	return loc, nil
}

func (m *regexp2Matcher) MatchAll(subject string) ([][]int, error) {
	var offs []int
	var locs [][]int
	match, err := m.re.FindStringMatch(subject)
	for err == nil && match != nil {
		if offs == nil {
			offs = runeOffsets(subject)
		}
		locs = append(locs, []int{offs[match.Index], offs[match.Index+match.Length]})
		match, err = m.re.FindNextMatch(match)
	}
	if err != nil {
		return nil, err
	}
	return locs, nil
}

// runeOffsets maps each rune index of s (as decoded by []rune(s)) to its byte
// offset, with one trailing entry for len(s).
func runeOffsets(s string) []int {
	offs := make([]int, 0, len(s)+1)
	for i := range s {
		offs = append(offs, i)
	}
	return append(offs, len(s))
}

var _ ports.Engine = (*Regexp2)(nil)
