package gitlab

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	gl "gitlab.com/gitlab-org/api/client-go"

	"github.com/byte4ever/interpol/source"
)

// defaultRef is used when Config.Ref is empty; GitLab's
// raw file endpoint resolves it to the default branch.
const defaultRef = "HEAD"

// Config holds the settings needed to read templates from
// a GitLab project.
type Config struct {
	// Host is the base URL of the GitLab instance
	// (e.g. "https://gitlab.com").
	Host string
	// Repo is the full project path
	// (e.g. "org/project").
	Repo string
	// Ref is the branch, tag or commit to read.
	Ref string
	// AccessToken is a personal or project access
	// token used for authentication.
	AccessToken string
}

// Fetcher reads repository files from GitLab.
//
// Pattern: Strategy -- implements source.Fetcher.
type Fetcher struct {
	client *gl.Client
	repo   string
	ref    string
}

// NewFetcher validates cfg and returns a Fetcher.
func NewFetcher(cfg Config) (*Fetcher, error) {
	const errCtx = "creating gitlab fetcher"

	if cfg.AccessToken == "" {
		return nil, fmt.Errorf(
			"%s: access token must be set", errCtx,
		)
	}

	if cfg.Repo == "" {
		return nil, fmt.Errorf(
			"%s: repo must be set", errCtx,
		)
	}

	host := cfg.Host
	if host == "" {
		host = "https://gitlab.com"
	}

	ref := cfg.Ref
	if ref == "" {
		ref = defaultRef
	}

	client, err := gl.NewClient(
		cfg.AccessToken,
		gl.WithBaseURL(host),
	)
	if err != nil {
		return nil, fmt.Errorf(
			"%s: new client: %w", errCtx, err,
		)
	}

	return &Fetcher{
		client: client,
		repo:   cfg.Repo,
		ref:    ref,
	}, nil
}

// Fetch returns the raw content of the file at path.
// Missing files wrap source.ErrNotFound.
func (f *Fetcher) Fetch(
	ctx context.Context,
	path string,
) ([]byte, error) {
	const errCtx = "fetching gitlab file"

	ref := f.ref

	content, resp, err := f.client.RepositoryFiles.GetRawFile(
		f.repo,
		path,
		&gl.GetRawFileOptions{Ref: &ref},
		gl.WithContext(ctx),
	)
	if err != nil {
		if resp != nil &&
			resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf(
				"%s: %w: %s/%s",
				errCtx, source.ErrNotFound, f.repo, path,
			)
		}

		slog.Warn(
			"gitlab raw file request failed",
			"repo", f.repo,
			"path", path,
			"error", err,
		)

		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	slog.Info(
		"fetched template from gitlab",
		"repo", f.repo,
		"path", path,
		"ref", ref,
	)

	return content, nil
}
