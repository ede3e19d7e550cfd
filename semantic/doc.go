// Package semantic validates raw token sequences against the template
// grammar and turns them into semantic tokens.
//
// The grammar is flat: a template is any sequence of TEXT tokens and
// DELIM_START TEXT DELIM_END triples, the latter producing a VARIABLE token
// positioned at its opening delimiter. Analyze walks the sequence once with
// a two-state machine and fails with a *SyntaxError naming the offending
// raw token (or the end of input) and the token kinds it would have
// accepted instead.
package semantic
