// Package lexer splits template text into raw tokens. A MatcherSet holds the
// delimiter matchers (default "{{" and "}}") plus a catch-all text matcher;
// the Tokenizer advances every live match candidate in lockstep, one rune at
// a time, and emits TEXT, DELIM_START and DELIM_END tokens whose fragments
// concatenate back to the input.
//
// Tokenizing never fails: unmatched or partial delimiters degrade to plain
// text. Grammar validation is the job of package semantic.
package lexer
