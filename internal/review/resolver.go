package review

import (
	"context"
	"log/slog"

	"github.com/sevigo/mr-warden/internal/core"
)

// ChangeSetResolver reads the current content of every file a merge request
// touches.
type ChangeSetResolver struct {
	fetcher *BlobFetcher
	pool    *Pool
	logger  *slog.Logger
}

func NewChangeSetResolver(fetcher *BlobFetcher, pool *Pool, logger *slog.Logger) *ChangeSetResolver {
	return &ChangeSetResolver{fetcher: fetcher, pool: pool, logger: logger}
}

// Resolve fetches each distinct new path at the change set's revision and
// waits for all of them. Failed files are left out of the result.
func (r *ChangeSetResolver) Resolve(ctx context.Context, repo *core.Repository, cs *core.ChangeSet) *PhaseResult {
	ref := cs.Revision(repo.DefaultBranch)
	result := &PhaseResult{Files: core.NewFileContents()}
	batch := r.pool.NewBatch(ctx)

	seen := make(map[string]struct{}, len(cs.Changes))
	for _, c := range cs.Changes {
		if c.NewPath == "" {
			continue
		}
		if _, ok := seen[c.NewPath]; ok {
			continue
		}
		seen[c.NewPath] = struct{}{}
		scheduleFetch(batch, r.fetcher, result.Files, repo, c.NewPath, ref)
	}

	result.Failures = batch.Wait()
	result.logSummary(r.logger, "resolve", "repo", repo.Name, "mr", cs.IID, "ref", ref)
	return result
}
