package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	gh "github.com/google/go-github/v68/github"

	"github.com/byte4ever/interpol/source"
)

// Config holds the settings needed to read templates from
// a GitHub repository.
type Config struct {
	// RepoOwner is the GitHub user or organisation
	// that owns the repository.
	RepoOwner string
	// Repo is the repository name (without owner).
	Repo string
	// Ref is the branch, tag or commit to read. Empty
	// means the default branch.
	Ref string
	// AccessToken is a personal access token or
	// GitHub App token used for authentication.
	AccessToken string
	// EnterpriseHost is an optional GitHub Enterprise
	// hostname (e.g. "git.corp.example.com"). Leave
	// empty for github.com.
	EnterpriseHost string
}

// Fetcher reads repository files from GitHub.
//
// Pattern: Strategy -- implements source.Fetcher.
type Fetcher struct {
	client    *gh.Client
	repoOwner string
	repo      string
	ref       string
}

// NewFetcher validates cfg and returns a Fetcher.
func NewFetcher(cfg Config) (*Fetcher, error) {
	const errCtx = "creating github fetcher"

	if cfg.RepoOwner == "" {
		return nil, fmt.Errorf(
			"%s: repo owner must be set", errCtx,
		)
	}

	if cfg.Repo == "" {
		return nil, fmt.Errorf(
			"%s: repo must be set", errCtx,
		)
	}

	if cfg.AccessToken == "" {
		return nil, fmt.Errorf(
			"%s: access token must be set", errCtx,
		)
	}

	client := gh.NewClient(nil).
		WithAuthToken(cfg.AccessToken)

	if cfg.EnterpriseHost != "" {
		baseURL := "https://" +
			cfg.EnterpriseHost + "/api/v3/"
		uploadURL := "https://" +
			cfg.EnterpriseHost + "/api/uploads/"

		var err error

		client, err = client.WithEnterpriseURLs(
			baseURL, uploadURL,
		)
		if err != nil {
			return nil, fmt.Errorf(
				"%s: enterprise urls: %w",
				errCtx, err,
			)
		}
	}

	return &Fetcher{
		client:    client,
		repoOwner: cfg.RepoOwner,
		repo:      cfg.Repo,
		ref:       cfg.Ref,
	}, nil
}

// Fetch returns the decoded content of the file at path.
// Missing files wrap source.ErrNotFound; directories are
// rejected.
func (f *Fetcher) Fetch(
	ctx context.Context,
	path string,
) ([]byte, error) {
	const errCtx = "fetching github file"

	var opts *gh.RepositoryContentGetOptions
	if f.ref != "" {
		opts = &gh.RepositoryContentGetOptions{Ref: f.ref}
	}

	file, dir, resp, err := f.client.Repositories.GetContents(
		ctx, f.repoOwner, f.repo, path, opts,
	)
	if err != nil {
		if resp != nil &&
			resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf(
				"%s: %w: %s/%s/%s",
				errCtx, source.ErrNotFound,
				f.repoOwner, f.repo, path,
			)
		}

		slog.Warn(
			"github contents request failed",
			"repo", f.repoOwner+"/"+f.repo,
			"path", path,
			"error", err,
		)

		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	if file == nil {
		return nil, fmt.Errorf(
			"%s: %s is a directory with %d entries",
			errCtx, path, len(dir),
		)
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, fmt.Errorf(
			"%s: decoding %s: %w", errCtx, path, err,
		)
	}

	slog.Info(
		"fetched template from github",
		"repo", f.repoOwner+"/"+f.repo,
		"path", path,
		"sha", file.GetSHA(),
	)

	return []byte(content), nil
}
