// Package github implements a source.Fetcher that reads templates from a
// GitHub repository (cloud or enterprise) through the contents API.
// Configure with a Config containing the repository owner, name, optional
// ref and an access token. Set EnterpriseHost for GitHub Enterprise
// installations.
package github
