package job

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/handiism/tidal-ripper/internal/download"
	"github.com/handiism/tidal-ripper/internal/queue"
)

// ErrAlreadyRunning is returned by Run when the worker loop is already active.
var ErrAlreadyRunning = errors.New("job: worker already running")

// Worker executes submitted jobs one at a time, in submission order.
//
// A failing or panicking job is reported and the worker moves on to the
// next one. A job that has been dequeued runs to completion even if the
// context passed to Run is cancelled.
//
// Example:
//
//	w := job.NewWorker(reporter, logger)
//	go w.Run(ctx)
//	w.Submit(factory.Album(album))
//	...
//	w.Drain(ctx) // wait for everything submitted so far
type Worker struct {
	queue    *queue.Queue[Job]
	reporter download.Reporter
	log      logrus.FieldLogger

	running  atomic.Bool
	inflight atomic.Int64
	pending  sync.WaitGroup

	mu      sync.Mutex
	current Job
}

// NewWorker creates a Worker. A nil logger falls back to the logrus
// standard logger.
func NewWorker(reporter download.Reporter, logger logrus.FieldLogger) *Worker {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Worker{
		queue:    queue.New[Job](),
		reporter: reporter,
		log:      logger,
	}
}

// Submit queues j for execution. It never blocks.
func (w *Worker) Submit(j Job) {
	w.pending.Add(1)
	w.inflight.Add(1)
	w.queue.Enqueue(j)
	w.log.WithField("job_id", j.ID()).WithField("job", j.Describe()).Info("job enqueued")
	w.reporter.Report(download.LevelInfo, "Enqueued "+j.Describe())
}

// Run executes jobs until ctx is cancelled, then returns ctx.Err().
func (w *Worker) Run(ctx context.Context) error {
	if !w.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer w.running.Store(false)

	for {
		j, err := w.queue.Dequeue(ctx)
		if err != nil {
			return err
		}
		w.execute(ctx, j)
	}
}

// Pending returns the jobs waiting to run, next first.
func (w *Worker) Pending() []Job {
	return w.queue.Snapshot()
}

// Current returns the running job, or nil.
func (w *Worker) Current() Job {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// Busy reports whether any submitted job has not finished.
func (w *Worker) Busy() bool {
	return w.inflight.Load() > 0
}

// Drain waits until every job submitted so far has finished, or ctx is done.
func (w *Worker) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		w.pending.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Worker) execute(ctx context.Context, j Job) {
	log := w.log.WithField("job_id", j.ID())
	start := time.Now()

	w.setCurrent(j)
	defer func() {
		w.setCurrent(nil)
		w.inflight.Add(-1)
		w.pending.Done()
	}()

	defer func() {
		if r := recover(); r != nil {
			log.WithField("stack", string(debug.Stack())).Errorf("job panicked: %v", r)
			w.reporter.Report(download.LevelError, download.Diagnostic(fmt.Errorf("%v", r)))
		}
	}()

	if err := j.Execute(context.WithoutCancel(ctx)); err != nil {
		log.WithError(err).
			WithField("kind", download.Classify(err).String()).
			WithField("elapsed", time.Since(start)).
			Error("job failed")
		w.reporter.Report(download.LevelError, download.Diagnostic(err))
		return
	}
	log.WithField("elapsed", time.Since(start)).Info("job finished")
}

func (w *Worker) setCurrent(j Job) {
	w.mu.Lock()
	w.current = j
	w.mu.Unlock()
}
