package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sevigo/mr-warden/internal/core"
)

// Reviewer runs one full merge request review.
type Reviewer interface {
	Review(ctx context.Context, event *core.MergeRequestEvent) error
}

// ReviewJob is a background job that performs AI-assisted code reviews.
type ReviewJob struct {
	reviewer Reviewer
	logger   *slog.Logger
}

// NewReviewJob creates a new ReviewJob.
func NewReviewJob(reviewer Reviewer, logger *slog.Logger) core.Job {
	if reviewer == nil {
		panic("reviewer cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &ReviewJob{reviewer: reviewer, logger: logger}
}

// Run executes the code review job for a given merge request event.
func (j *ReviewJob) Run(ctx context.Context, event *core.MergeRequestEvent) error {
	if err := validateEvent(event); err != nil {
		return fmt.Errorf("input validation failed: %w", err)
	}

	j.logger.Info("starting review job", "project", event.ProjectName, "mr", event.MRIID)
	if err := j.reviewer.Review(ctx, event); err != nil {
		return fmt.Errorf("review of %s!%d failed: %w", event.ProjectName, event.MRIID, err)
	}
	j.logger.Info("review job completed successfully", "project", event.ProjectName, "mr", event.MRIID)
	return nil
}

func validateEvent(event *core.MergeRequestEvent) error {
	if event == nil {
		return errors.New("event cannot be nil")
	}
	if event.ProjectID <= 0 {
		return fmt.Errorf("project id must be positive, got: %d", event.ProjectID)
	}
	if event.MRIID <= 0 {
		return fmt.Errorf("merge request iid must be positive, got: %d", event.MRIID)
	}
	return nil
}
