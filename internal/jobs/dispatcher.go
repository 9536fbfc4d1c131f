// Package jobs defines background tasks such as automated code reviews.
package jobs

import (
	"context"
	"log/slog"
	"sync"

	"github.com/sevigo/mr-warden/internal/core"
)

const queueSize = 100

// dispatcher implements core.JobDispatcher and manages a pool of worker goroutines
// for processing merge request events as code review jobs.
type dispatcher struct {
	reviewJob  core.Job                     // Job implementation executed by each worker.
	jobQueue   chan *core.MergeRequestEvent // Queue of incoming merge request events.
	maxWorkers int                          // Number of concurrent workers.
	wg         sync.WaitGroup               // Tracks active workers for graceful shutdown.
	logger     *slog.Logger
}

// NewDispatcher initializes a dispatcher with a worker pool.
// If maxWorkers is 0 or negative, it defaults to 1.
func NewDispatcher(reviewJob core.Job, maxWorkers int, logger *slog.Logger) core.JobDispatcher {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	d := &dispatcher{
		reviewJob:  reviewJob,
		maxWorkers: maxWorkers,
		jobQueue:   make(chan *core.MergeRequestEvent, queueSize),
		logger:     logger,
	}
	d.startWorkers()
	return d
}

func (d *dispatcher) startWorkers() {
	for i := range d.maxWorkers {
		d.wg.Add(1)
		go d.startWorker(i)
	}
}

// startWorker processes events from the queue until it's closed.
func (d *dispatcher) startWorker(workerID int) {
	defer d.wg.Done()
	d.logger.Debug("starting review worker", "id", workerID)

	for event := range d.jobQueue {
		d.processEvent(workerID, event)
	}

	d.logger.Debug("shutting down review worker", "id", workerID)
}

func (d *dispatcher) processEvent(workerID int, event *core.MergeRequestEvent) {
	d.logger.Info("worker processing job",
		"worker_id", workerID,
		"project", event.ProjectName,
		"mr", event.MRIID,
	)

	if err := d.reviewJob.Run(context.Background(), event); err != nil {
		d.logger.Error("code review job failed",
			"project", event.ProjectName,
			"mr", event.MRIID,
			"error", err,
		)
	}
}

// Dispatch queues an event for processing by a worker. It never blocks.
func (d *dispatcher) Dispatch(_ context.Context, event *core.MergeRequestEvent) error {
	d.logger.Info("queuing code review job", "project", event.ProjectName, "mr", event.MRIID)

	select {
	case d.jobQueue <- event:
		return nil
	default:
		return core.ErrQueueFull
	}
}

// Stop gracefully shuts down the dispatcher, waiting for all workers to finish.
func (d *dispatcher) Stop() {
	d.logger.Info("stopping dispatcher and waiting for jobs to finish")
	close(d.jobQueue)
	d.wg.Wait()
	d.logger.Info("all review jobs have finished")
}
