// Package core defines the essential interfaces and data structures that form the
// backbone of the application. These components are designed to be abstract,
// allowing for flexible and decoupled implementations of the application's logic.
package core

import (
	"context"
	"errors"
)

// ErrQueueFull is returned by Dispatch when no more jobs can be accepted.
var ErrQueueFull = errors.New("job queue is full, cannot accept new review job")

// JobDispatcher defines the contract for a system that can accept and queue
// background jobs for asynchronous processing. This interface decouples the
// event source (the GitLab webhook handler) from the job execution mechanism.
type JobDispatcher interface {
	// Dispatch accepts a MergeRequestEvent and queues it for processing.
	// It returns ErrQueueFull if the job cannot be queued, providing a
	// mechanism for backpressure.
	Dispatch(ctx context.Context, event *MergeRequestEvent) error
	// Stop closes the queue and waits for in-flight jobs to finish.
	Stop()
}

// Job represents a single, executable unit of work that can be processed by the
// application's job dispatcher.
type Job interface {
	// Run executes the job's logic for one merge request event.
	Run(ctx context.Context, event *MergeRequestEvent) error
}
