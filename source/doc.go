// Package source abstracts where template text comes from.
//
// Fetcher is a strategy interface with implementations for the local file
// system (Local, which also reads stdin), GitHub and GitLab repositories
// (sub-packages github and gitlab). FetcherFunc adapts a plain function.
package source
