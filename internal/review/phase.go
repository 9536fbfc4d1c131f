package review

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sevigo/mr-warden/internal/core"
)

// PhaseResult is the outcome of a fetch phase: every file that was read plus
// the failures of the ones that were not. A non-empty Failures list does not
// invalidate Files.
type PhaseResult struct {
	Files    *core.FileContents
	Failures []error
}

// Err joins the per-file failures, or returns nil when there were none.
func (r *PhaseResult) Err() error {
	return errors.Join(r.Failures...)
}

func (r *PhaseResult) logSummary(logger *slog.Logger, phase string, args ...any) {
	if len(r.Failures) == 0 {
		return
	}
	args = append(args, "phase", phase, "fetched", r.Files.Len(), "failed", len(r.Failures), "error", r.Err())
	logger.Warn("some files could not be fetched", args...)
}

// scheduleFetch submits one fetch task writing into files.
func scheduleFetch(batch *Batch, fetcher *BlobFetcher, files *core.FileContents, repo *core.Repository, path, ref string) {
	batch.Go(func(ctx context.Context) error {
		content, err := fetcher.Fetch(ctx, repo, path, ref)
		if err != nil {
			return err
		}
		files.Set(path, content)
		return nil
	})
}
