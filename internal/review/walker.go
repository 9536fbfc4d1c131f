package review

import (
	"context"
	"fmt"
	"log/slog"
	"path"

	"github.com/sevigo/mr-warden/internal/core"
	"github.com/sevigo/mr-warden/internal/gitlab"
)

// TreeWalker reads every file of a repository tree through the host API.
type TreeWalker struct {
	client  gitlab.Client
	fetcher *BlobFetcher
	pool    *Pool
	logger  *slog.Logger
}

func NewTreeWalker(client gitlab.Client, fetcher *BlobFetcher, pool *Pool, logger *slog.Logger) *TreeWalker {
	return &TreeWalker{client: client, fetcher: fetcher, pool: pool, logger: logger}
}

// Walk lists root recursively and fetches every blob into the result.
//
// The host is asked for a flattened listing. A tree entry is listed on its own
// only when the listing carried nothing beneath it, which covers hosts that
// ignore the recursive flag. Directories are expanded through a work queue on
// the calling goroutine; only blob fetches run on the pool.
//
// Failing to list root is returned as an error. Any later listing or fetch
// failure is recorded in the result and the walk continues.
func (w *TreeWalker) Walk(ctx context.Context, repo *core.Repository, ref, root string) (*PhaseResult, error) {
	result := &PhaseResult{Files: core.NewFileContents()}
	batch := w.pool.NewBatch(ctx)

	scheduled := make(map[string]struct{})
	listed := map[string]struct{}{root: {}}
	queue := []string{root}

	for len(queue) > 0 {
		dir := queue[0]
		queue = queue[1:]

		entries, err := w.client.ListTree(ctx, repo.ID, dir, ref, true)
		if err != nil {
			if dir == root {
				return nil, fmt.Errorf("list tree %q of %s: %w", root, repo.Name, err)
			}
			result.Failures = append(result.Failures, fmt.Errorf("list tree %q: %w", dir, err))
			continue
		}

		parents := make(map[string]struct{}, len(entries))
		for _, e := range entries {
			parents[path.Dir(e.Path)] = struct{}{}
		}

		for _, e := range entries {
			switch e.Kind {
			case core.KindBlob:
				if e.Path == "" {
					continue
				}
				if _, ok := scheduled[e.Path]; ok {
					continue
				}
				scheduled[e.Path] = struct{}{}
				scheduleFetch(batch, w.fetcher, result.Files, repo, e.Path, ref)
			case core.KindTree:
				if _, ok := parents[e.Path]; ok {
					continue
				}
				if _, ok := listed[e.Path]; ok {
					continue
				}
				listed[e.Path] = struct{}{}
				queue = append(queue, e.Path)
			}
		}
	}

	result.Failures = append(result.Failures, batch.Wait()...)
	result.logSummary(w.logger, "walk", "repo", repo.Name, "ref", ref)
	return result, nil
}
