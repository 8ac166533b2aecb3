package notify

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const drainTimeout = 10 * time.Second

// Queue decouples notification delivery from the request that committed the
// order. Run must be started for queued jobs to be delivered.
type Queue struct {
	jobs       chan Job
	dispatcher *Dispatcher
	logger     *zap.Logger
}

func NewQueue(dispatcher *Dispatcher, size int, logger *zap.Logger) *Queue {
	if size <= 0 {
		size = 1
	}

	return &Queue{
		jobs:       make(chan Job, size),
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Notify enqueues the job. With a full queue the job is dispatched inline
// rather than dropped.
func (q *Queue) Notify(ctx context.Context, job Job) {
	select {
	case q.jobs <- job:
	default:
		q.logger.Warn("notification queue full, dispatching inline", zap.String("job_id", job.ID))
		q.dispatcher.Dispatch(context.WithoutCancel(ctx), job)
	}
}

// Run delivers jobs until ctx is done, then drains what is still buffered.
func (q *Queue) Run(ctx context.Context) {
	// sends are bounded by the transport timeout, not by ctx
	sendCtx := context.WithoutCancel(ctx)

	for {
		select {
		case job := <-q.jobs:
			q.dispatcher.Dispatch(sendCtx, job)
		case <-ctx.Done():
			q.drain()
			return
		}
	}
}

func (q *Queue) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()

	for {
		select {
		case job := <-q.jobs:
			q.dispatcher.Dispatch(ctx, job)
		default:
			return
		}
	}
}
