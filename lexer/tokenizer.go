package lexer

import (
	"math"
	"unicode/utf8"
)

// candidate is a partial match in progress. Its fragment
// is input[start.Offset:end].
type candidate struct {
	matcher Matcher
	start   Position
	end     int
}

func (c candidate) isText() bool {
	return c.matcher.Kind() == Text
}

// Tokenizer scans template text with a fixed MatcherSet.
// It holds no per-call state and is safe for concurrent
// use.
type Tokenizer struct {
	matchers MatcherSet
}

var defaultTokenizer = New(DefaultMatchers())

// New returns a tokenizer driven by ms. When ms carries no
// catch-all matcher one is appended below every other
// priority, so coverage stays total. Other text matchers
// do not count: a literal text matcher leaves the runes
// around it uncovered.
func New(ms MatcherSet) *Tokenizer {
	lowest := math.MaxInt

	for _, m := range ms {
		if _, ok := m.(catchAllMatcher); ok {
			return &Tokenizer{matchers: ms}
		}

		lowest = min(lowest, m.Priority())
	}

	if lowest == math.MaxInt {
		lowest = textPriority + 1
	}

	extended := make(MatcherSet, 0, len(ms)+1)
	extended = append(extended, ms...)
	extended = append(extended, CatchAll(lowest-1))

	return &Tokenizer{matchers: extended}
}

// Tokenize splits input using the default "{{" / "}}"
// delimiters.
func Tokenize(input string) []RawToken {
	return defaultTokenizer.Tokenize(input)
}

// Tokenize splits input into raw tokens in a single pass.
// The fragments of the result concatenate to input; the
// empty string yields an empty slice.
func (tz *Tokenizer) Tokenize(input string) []RawToken {
	scan := scanner{
		input:    input,
		matchers: tz.matchers,
		tokens:   []RawToken{},
	}

	pos := Position{}

	for pos.Offset < len(input) {
		r, width := utf8.DecodeRuneInString(input[pos.Offset:])
		scan.step(pos, width)
		pos = pos.advance(r, width)
	}

	scan.finish()

	return scan.tokens
}

// scanner carries the state of one Tokenize call.
type scanner struct {
	input    string
	matchers MatcherSet
	live     []candidate
	tokens   []RawToken
}

// step consumes the rune at pos, which occupies width
// bytes.
func (sc *scanner) step(pos Position, width int) {
	end := pos.Offset + width

	var continuing, matching []candidate

	for _, cd := range sc.live {
		cd.end = end

		switch cd.matcher.Match(sc.fragment(cd)) {
		case Partial:
			continuing = append(continuing, cd)
		case Match:
			matching = append(matching, cd)
		case Mismatch:
		}
	}

	if !hasDelimiter(matching) {
		for _, m := range sc.matchers {
			if represented(m, continuing) || represented(m, matching) {
				continue
			}

			cd := candidate{matcher: m, start: pos, end: end}

			switch m.Match(sc.fragment(cd)) {
			case Partial:
				continuing = append(continuing, cd)
			case Match:
				matching = append(matching, cd)
			case Mismatch:
			}
		}
	}

	if hasDelimiter(matching) {
		sc.emit(matching)
		sc.live = sc.live[:0]

		return
	}

	sc.live = mergeByPriority(continuing, matching)
}

// emit flushes the text preceding the winning delimiter,
// then the delimiter itself.
func (sc *scanner) emit(matching []candidate) {
	var (
		winner candidate
		text   *candidate
		found  bool
	)

	for i := range matching {
		cd := matching[i]

		if cd.isText() {
			if text == nil || cd.start.Offset < text.start.Offset {
				text = &matching[i]
			}

			continue
		}

		if !found || beats(cd, winner) {
			winner = cd
			found = true
		}
	}

	if text != nil && winner.start.Offset > text.start.Offset {
		sc.tokens = append(sc.tokens, RawToken{
			Kind:     Text,
			Fragment: sc.input[text.start.Offset:winner.start.Offset],
			Position: text.start,
		})
	}

	sc.tokens = append(sc.tokens, RawToken{
		Kind:     winner.matcher.Kind(),
		Fragment: sc.fragment(winner),
		Position: winner.start,
	})
}

// finish emits the trailing text, which also absorbs any
// delimiter that never completed. The earliest text
// candidate spans the whole gap.
func (sc *scanner) finish() {
	var text *candidate

	for i := range sc.live {
		cd := &sc.live[i]

		if cd.isText() && (text == nil || cd.start.Offset < text.start.Offset) {
			text = cd
		}
	}

	if text == nil {
		return
	}

	sc.tokens = append(sc.tokens, RawToken{
		Kind:     Text,
		Fragment: sc.input[text.start.Offset:],
		Position: text.start,
	})
}

func (sc *scanner) fragment(cd candidate) string {
	return sc.input[cd.start.Offset:cd.end]
}

// beats reports whether a wins over b: higher priority
// first, then the earlier start.
func beats(a, b candidate) bool {
	if a.matcher.Priority() != b.matcher.Priority() {
		return a.matcher.Priority() > b.matcher.Priority()
	}

	return a.start.Offset < b.start.Offset
}

func hasDelimiter(cds []candidate) bool {
	for _, cd := range cds {
		if !cd.isText() {
			return true
		}
	}

	return false
}

func represented(m Matcher, cds []candidate) bool {
	for _, cd := range cds {
		if cd.matcher == m {
			return true
		}
	}

	return false
}

// mergeByPriority merges two candidate lists into one
// ordered by descending priority. The sort is stable so
// older candidates stay ahead of equal-priority ones.
func mergeByPriority(a, b []candidate) []candidate {
	out := make([]candidate, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)

	for i := 1; i < len(out); i++ {
		for j := i; j > 0 &&
			out[j].matcher.Priority() > out[j-1].matcher.Priority(); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}

	return out
}
