package lexer

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrInvalidDelimiters is returned when a delimiter pair
// cannot drive the tokenizer.
var ErrInvalidDelimiters = errors.New("invalid delimiters")

// Delimiter priorities. The catch-all text matcher always
// sits below every delimiter.
const (
	delimiterPriority = 10
	textPriority      = 0
)

// Result is a matcher's verdict on an accumulated
// fragment.
type Result int

const (
	// Mismatch means the fragment can no longer become
	// this token.
	Mismatch Result = iota
	// Partial means more runes may still complete it.
	Partial
	// Match means the fragment is a complete token now.
	Match
)

// String returns the verdict name.
func (r Result) String() string {
	switch r {
	case Mismatch:
		return "Mismatch"
	case Partial:
		return "Partial"
	case Match:
		return "Match"
	default:
		return fmt.Sprintf("Result(%d)", int(r))
	}
}

// Matcher decides, for an accumulated fragment, whether a
// candidate token still matches.
//
// Pattern: Strategy -- the tokenizer never knows the
// concrete delimiter strings.
type Matcher interface {
	Kind() Kind
	Priority() int
	Match(fragment string) Result
}

type literalMatcher struct {
	kind     Kind
	priority int
	literal  string
}

// Literal returns a matcher recognizing exactly literal.
func Literal(kind Kind, priority int, literal string) Matcher {
	return literalMatcher{
		kind:     kind,
		priority: priority,
		literal:  literal,
	}
}

func (m literalMatcher) Kind() Kind { return m.kind }

func (m literalMatcher) Priority() int { return m.priority }

func (m literalMatcher) Match(fragment string) Result {
	switch {
	case len(fragment) == len(m.literal) && fragment == m.literal:
		return Match
	case len(fragment) < len(m.literal) &&
		strings.HasPrefix(m.literal, fragment):
		return Partial
	default:
		return Mismatch
	}
}

type catchAllMatcher struct {
	priority int
}

// CatchAll returns the text matcher. It reports Match for
// any fragment: content not yet identified as a delimiter.
func CatchAll(priority int) Matcher {
	return catchAllMatcher{priority: priority}
}

func (catchAllMatcher) Kind() Kind { return Text }

func (m catchAllMatcher) Priority() int { return m.priority }

func (catchAllMatcher) Match(string) Result { return Match }

// Delimiters is the pair of literals bounding an
// interpolation region.
type Delimiters struct {
	Start string
	End   string
}

// DefaultDelimiters returns the double-brace pair.
func DefaultDelimiters() Delimiters {
	return Delimiters{Start: "{{", End: "}}"}
}

// Validate reports whether the pair can be tokenized
// unambiguously.
func (d Delimiters) Validate() error {
	if d.Start == "" || d.End == "" {
		return fmt.Errorf(
			"%w: start and end must be set, got %q and %q",
			ErrInvalidDelimiters, d.Start, d.End,
		)
	}

	if d.Start == d.End {
		return fmt.Errorf(
			"%w: start and end must differ, both are %q",
			ErrInvalidDelimiters, d.Start,
		)
	}

	if strings.HasPrefix(d.Start, d.End) ||
		strings.HasPrefix(d.End, d.Start) {
		return fmt.Errorf(
			"%w: %q and %q must not prefix each other",
			ErrInvalidDelimiters, d.Start, d.End,
		)
	}

	return nil
}

// MatcherSet is a list of matchers ordered by descending
// priority.
type MatcherSet []Matcher

// NewMatcherSet builds the matchers for one delimiter
// pair plus the catch-all text matcher.
func NewMatcherSet(d Delimiters) (MatcherSet, error) {
	const errCtx = "building matcher set"

	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return NewCustomMatcherSet(
		Literal(DelimStart, delimiterPriority, d.Start),
		Literal(DelimEnd, delimiterPriority, d.End),
		CatchAll(textPriority),
	), nil
}

// NewCustomMatcherSet orders arbitrary matchers by
// descending priority. Matchers of equal priority keep
// their argument order.
func NewCustomMatcherSet(matchers ...Matcher) MatcherSet {
	ms := make(MatcherSet, len(matchers))
	copy(ms, matchers)

	sort.SliceStable(ms, func(i, j int) bool {
		return ms[i].Priority() > ms[j].Priority()
	})

	return ms
}

// DefaultMatchers returns the matcher set for "{{" / "}}".
func DefaultMatchers() MatcherSet {
	ms, err := NewMatcherSet(DefaultDelimiters())
	if err != nil {
		panic(err)
	}

	return ms
}
