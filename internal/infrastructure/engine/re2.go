package engine

import (
	"regexp"

	"github.com/doeshing/retest-go/internal/domain"
	"github.com/doeshing/retest-go/internal/ports"
)

// RE2 compiles patterns with Go's linear-time regexp package.
type RE2 struct{}

// NewRE2 returns the default engine.
func NewRE2() *RE2 {
	return &RE2{}
}

// Name implements ports.Engine.
func (*RE2) Name() string {
	return domain.EngineRE2
}

// Compile implements ports.Engine.
func (*RE2) Compile(pattern string) (ports.Matcher, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &re2Matcher{re: re}, nil
}

type re2Matcher struct {
	re *regexp.Regexp
}

func (m *re2Matcher) String() string {
	return m.re.String()
}

func (m *re2Matcher) Submatch(subject string) ([]int, error) {
	return m.re.FindStringSubmatchIndex(subject), nil
}

func (m *re2Matcher) MatchAll(subject string) ([][]int, error) {
	return m.re.FindAllStringIndex(subject, -1), nil
}

var _ ports.Engine = (*RE2)(nil)
