// Package gitutil provides a client for working with Git repositories.
package gitutil

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
)

// Client handles cloning repositories.
type Client struct {
	Logger *slog.Logger
}

// NewClient returns a new Client instance.
func NewClient(logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{Logger: logger}
}

// ShallowClone clones a single branch at depth one into path. An empty branch
// clones the remote's HEAD. The token is sent as GitLab's oauth2 basic auth.
func (c *Client) ShallowClone(ctx context.Context, repoURL, branch, path, token string) error {
	if err := validateRepoURL(repoURL); err != nil {
		return err
	}

	opts := &git.CloneOptions{
		URL:          repoURL,
		Depth:        1,
		SingleBranch: true,
		Tags:         git.NoTags,
	}
	if branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(branch)
	}
	if token != "" {
		opts.Auth = basicAuth(token)
	}

	c.Logger.InfoContext(ctx, "cloning repository", "url", repoURL, "branch", branch, "path", path)
	if _, err := git.PlainCloneContext(ctx, path, false, opts); err != nil {
		return fmt.Errorf("git clone of %s failed: %w", repoURL, err)
	}
	return nil
}

func basicAuth(token string) *githttp.BasicAuth {
	return &githttp.BasicAuth{Username: "oauth2", Password: token}
}

// validateRepoURL accepts local paths and http(s) URLs. file:// is intentionally unsupported.
func validateRepoURL(repoURL string) error {
	if !strings.Contains(repoURL, "://") {
		return nil
	}
	if !strings.HasPrefix(repoURL, "https://") && !strings.HasPrefix(repoURL, "http://") {
		return fmt.Errorf("invalid repository URL: %s", repoURL)
	}
	return nil
}
