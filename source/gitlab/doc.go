// Package gitlab implements a source.Fetcher that reads templates from a
// GitLab project through the repository files API. Configure with a Config
// containing the instance URL, project path, optional ref and access token.
package gitlab
