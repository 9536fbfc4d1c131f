// Package gitlab provides functionality for interacting with the GitLab API.
package gitlab

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	gl "gitlab.com/gitlab-org/api/client-go"

	"github.com/sevigo/mr-warden/internal/config"
	"github.com/sevigo/mr-warden/internal/core"
)

const perPage = 100

// Client defines the set of GitLab operations a review needs: reading
// repository trees and files, reading merge requests, and writing notes and
// approvals back.
//
//go:generate mockgen -destination=../../mocks/mock_gitlab_client.go -package=mocks . Client
type Client interface {
	CurrentUserID(ctx context.Context) (int64, error)
	GetProject(ctx context.Context, pid any) (*core.Repository, error)
	ListTree(ctx context.Context, projectID int64, path, ref string, recursive bool) ([]core.TreeEntry, error)
	GetFileContent(ctx context.Context, projectID int64, path, ref string) (string, error)
	Archive(ctx context.Context, projectID int64, format string) ([]byte, error)
	GetChangeSet(ctx context.Context, projectID, iid int64) (*core.ChangeSet, error)
	GetApprovals(ctx context.Context, projectID, iid int64) (core.ApprovalState, error)
	CreateNote(ctx context.Context, projectID, iid int64, body string) error
	CreateDiscussion(ctx context.Context, projectID, iid int64, body string) error
	Approve(ctx context.Context, projectID, iid int64) error
	Unapprove(ctx context.Context, projectID, iid int64) error
}

type gitLabClient struct {
	client *gl.Client
	logger *slog.Logger
}

// NewGitLabClient wraps the official client-go SDK to provide a focused,
// testable interface for review operations.
func NewGitLabClient(client *gl.Client, logger *slog.Logger) Client {
	return &gitLabClient{client: client, logger: logger}
}

// NewTokenClient creates a client authenticated with a personal or project
// access token against the configured instance.
func NewTokenClient(cfg *config.Config, logger *slog.Logger) (Client, error) {
	httpClient := &http.Client{Timeout: 2 * time.Minute}
	client, err := gl.NewClient(cfg.GitLab.Token,
		gl.WithBaseURL(cfg.GitLab.URL),
		gl.WithHTTPClient(httpClient),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gitlab client: %w", err)
	}
	return NewGitLabClient(client, logger), nil
}

// CurrentUserID returns the id of the user owning the access token.
func (g *gitLabClient) CurrentUserID(ctx context.Context) (int64, error) {
	user, resp, err := g.client.Users.CurrentUser(gl.WithContext(ctx))
	if err != nil {
		g.logger.Error("failed to get current user", "error", err)
		return 0, wrapError("get current user", resp, err)
	}
	return int64(user.ID), nil
}

// GetProject accepts either a numeric id or a "namespace/project" path.
func (g *gitLabClient) GetProject(ctx context.Context, pid any) (*core.Repository, error) {
	project, resp, err := g.client.Projects.GetProject(pid, nil, gl.WithContext(ctx))
	if err != nil {
		g.logger.Error("failed to get project", "project", pid, "error", err)
		return nil, wrapError("get project", resp, err)
	}
	return &core.Repository{
		ID:                int64(project.ID),
		Name:              project.Name,
		PathWithNamespace: project.PathWithNamespace,
		DefaultBranch:     project.DefaultBranch,
		WebURL:            project.WebURL,
		HTTPURLToRepo:     project.HTTPURLToRepo,
	}, nil
}

// ListTree lists the entries beneath path at ref. It handles pagination so the
// returned slice is the complete listing.
func (g *gitLabClient) ListTree(ctx context.Context, projectID int64, path, ref string, recursive bool) ([]core.TreeEntry, error) {
	opts := &gl.ListTreeOptions{
		ListOptions: gl.ListOptions{PerPage: perPage},
		Recursive:   gl.Ptr(recursive),
	}
	if path != "" {
		opts.Path = gl.Ptr(path)
	}
	if ref != "" {
		opts.Ref = gl.Ptr(ref)
	}

	var entries []core.TreeEntry
	for {
		nodes, resp, err := g.client.Repositories.ListTree(projectID, opts, gl.WithContext(ctx))
		if err != nil {
			g.logger.Error("failed to list repository tree", "project", projectID, "path", path, "error", err)
			return nil, wrapError("list tree", resp, err)
		}
		for _, node := range nodes {
			kind := core.KindBlob
			if node.Type == "tree" {
				kind = core.KindTree
			}
			entries = append(entries, core.TreeEntry{Path: node.Path, Kind: kind})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return entries, nil
}

// GetFileContent returns the file's content exactly as the host encodes it
// (base64). Decoding is left to the caller.
func (g *gitLabClient) GetFileContent(ctx context.Context, projectID int64, path, ref string) (string, error) {
	file, resp, err := g.client.RepositoryFiles.GetFile(projectID, path, &gl.GetFileOptions{Ref: gl.Ptr(ref)}, gl.WithContext(ctx))
	if err != nil {
		g.logger.Debug("failed to get file", "project", projectID, "path", path, "ref", ref, "error", err)
		return "", wrapError("get file "+path, resp, err)
	}
	return file.Content, nil
}

// Archive downloads the default branch as an archive in the given format.
func (g *gitLabClient) Archive(ctx context.Context, projectID int64, format string) ([]byte, error) {
	data, resp, err := g.client.Repositories.Archive(projectID, &gl.ArchiveOptions{Format: gl.Ptr(format)}, gl.WithContext(ctx))
	if err != nil {
		g.logger.Error("failed to download repository archive", "project", projectID, "error", err)
		return nil, wrapError("download archive", resp, err)
	}
	return data, nil
}

// rawChangeSet is the serialised form kept on ChangeSet.Raw: the merge request
// metadata with its diffs attached, as the host's changes endpoint returned it.
type rawChangeSet struct {
	*gl.MergeRequest
	Changes []*gl.MergeRequestDiff `json:"changes"`
}

// GetChangeSet reads a merge request together with all of its diffs and commits.
func (g *gitLabClient) GetChangeSet(ctx context.Context, projectID, iid int64) (*core.ChangeSet, error) {
	mr, resp, err := g.client.MergeRequests.GetMergeRequest(projectID, iid, nil, gl.WithContext(ctx))
	if err != nil {
		g.logger.Error("failed to get merge request", "project", projectID, "mr", iid, "error", err)
		return nil, wrapError("get merge request", resp, err)
	}

	diffs, err := g.listDiffs(ctx, projectID, iid)
	if err != nil {
		return nil, err
	}
	commits, err := g.listCommits(ctx, projectID, iid)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(rawChangeSet{MergeRequest: mr, Changes: diffs})
	if err != nil {
		return nil, fmt.Errorf("failed to encode merge request payload: %w", err)
	}

	cs := &core.ChangeSet{
		IID:          int64(mr.IID),
		Title:        mr.Title,
		Description:  mr.Description,
		SourceBranch: mr.SourceBranch,
		TargetBranch: mr.TargetBranch,
		HeadSHA:      mr.SHA,
		WebURL:       mr.WebURL,
		Commits:      commits,
		Raw:          raw,
	}
	for _, d := range diffs {
		cs.Changes = append(cs.Changes, core.Change{
			OldPath:     d.OldPath,
			NewPath:     d.NewPath,
			Diff:        d.Diff,
			NewFile:     d.NewFile,
			RenamedFile: d.RenamedFile,
			DeletedFile: d.DeletedFile,
		})
	}
	return cs, nil
}

func (g *gitLabClient) listDiffs(ctx context.Context, projectID, iid int64) ([]*gl.MergeRequestDiff, error) {
	opts := &gl.ListMergeRequestDiffsOptions{}
	opts.PerPage = perPage

	var all []*gl.MergeRequestDiff
	for {
		diffs, resp, err := g.client.MergeRequests.ListMergeRequestDiffs(projectID, iid, opts, gl.WithContext(ctx))
		if err != nil {
			g.logger.Error("failed to list merge request diffs", "project", projectID, "mr", iid, "error", err)
			return nil, wrapError("list merge request diffs", resp, err)
		}
		all = append(all, diffs...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

func (g *gitLabClient) listCommits(ctx context.Context, projectID, iid int64) ([]core.Commit, error) {
	opts := &gl.GetMergeRequestCommitsOptions{}
	opts.PerPage = perPage

	var all []core.Commit
	for {
		commits, resp, err := g.client.MergeRequests.GetMergeRequestCommits(projectID, iid, opts, gl.WithContext(ctx))
		if err != nil {
			g.logger.Error("failed to list merge request commits", "project", projectID, "mr", iid, "error", err)
			return nil, wrapError("list merge request commits", resp, err)
		}
		for _, c := range commits {
			all = append(all, core.Commit{Title: c.Title, Message: c.Message})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

// GetApprovals reads the live approval state, never a cached one.
func (g *gitLabClient) GetApprovals(ctx context.Context, projectID, iid int64) (core.ApprovalState, error) {
	approvals, resp, err := g.client.MergeRequestApprovals.GetConfiguration(projectID, iid, gl.WithContext(ctx))
	if err != nil {
		g.logger.Error("failed to get merge request approvals", "project", projectID, "mr", iid, "error", err)
		return core.ApprovalState{}, wrapError("get approvals", resp, err)
	}

	state := core.ApprovalState{
		Approved:    approvals.Approved,
		ApproverIDs: make(map[int64]struct{}, len(approvals.ApprovedBy)),
	}
	for _, a := range approvals.ApprovedBy {
		if a == nil || a.User == nil {
			continue
		}
		state.ApproverIDs[int64(a.User.ID)] = struct{}{}
	}
	return state, nil
}

// CreateNote posts a top-level note on the merge request.
func (g *gitLabClient) CreateNote(ctx context.Context, projectID, iid int64, body string) error {
	_, resp, err := g.client.Notes.CreateMergeRequestNote(projectID, iid, &gl.CreateMergeRequestNoteOptions{
		Body: gl.Ptr(body),
	}, gl.WithContext(ctx))
	if err != nil {
		g.logger.Error("failed to create merge request note", "project", projectID, "mr", iid, "error", err)
		return wrapError("create note", resp, err)
	}
	return nil
}

// CreateDiscussion opens a new discussion thread on the merge request.
func (g *gitLabClient) CreateDiscussion(ctx context.Context, projectID, iid int64, body string) error {
	_, resp, err := g.client.Discussions.CreateMergeRequestDiscussion(projectID, iid, &gl.CreateMergeRequestDiscussionOptions{
		Body: gl.Ptr(body),
	}, gl.WithContext(ctx))
	if err != nil {
		g.logger.Error("failed to create merge request discussion", "project", projectID, "mr", iid, "error", err)
		return wrapError("create discussion", resp, err)
	}
	return nil
}

// Approve approves the merge request as the token's user.
func (g *gitLabClient) Approve(ctx context.Context, projectID, iid int64) error {
	_, resp, err := g.client.MergeRequestApprovals.ApproveMergeRequest(projectID, iid, &gl.ApproveMergeRequestOptions{}, gl.WithContext(ctx))
	if err != nil {
		g.logger.Error("failed to approve merge request", "project", projectID, "mr", iid, "error", err)
		return wrapError("approve", resp, err)
	}
	return nil
}

// Unapprove withdraws the token user's approval.
func (g *gitLabClient) Unapprove(ctx context.Context, projectID, iid int64) error {
	resp, err := g.client.MergeRequestApprovals.UnapproveMergeRequest(projectID, iid, gl.WithContext(ctx))
	if err != nil {
		g.logger.Error("failed to unapprove merge request", "project", projectID, "mr", iid, "error", err)
		return wrapError("unapprove", resp, err)
	}
	return nil
}
