package eventloop

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

var ErrLoopStopped = errors.New("event loop is stopped")

const queueSize = 64

// Loop runs posted tasks one at a time on a single goroutine.
type Loop struct {
	logger *slog.Logger
	tasks  chan func()
	done   chan struct{}

	stopOnce sync.Once
}

func New(logger *slog.Logger) *Loop {
	return &Loop{
		logger: logger.With("component", "eventloop"),
		tasks:  make(chan func(), queueSize),
		done:   make(chan struct{}),
	}
}

// Run executes tasks until ctx is cancelled.
func (that *Loop) Run(ctx context.Context) {
	defer that.stop()

	for {
		select {
		case <-ctx.Done():
			that.logger.Info("event loop stopped")
			return
		case task := <-that.tasks:
			that.run(task)
		}
	}
}

func (that *Loop) run(task func()) {
	defer func() {
		if err := recover(); err != nil {
			that.logger.Error("task panicked", "error", err)
		}
	}()

	task()
}

func (that *Loop) stop() {
	that.stopOnce.Do(func() {
		close(that.done)
	})
}

// Post queues fn. It fails once the loop has stopped.
func (that *Loop) Post(fn func()) error {
	select {
	case <-that.done:
		return ErrLoopStopped
	default:
	}

	select {
	case that.tasks <- fn:
		return nil
	case <-that.done:
		return ErrLoopStopped
	}
}

// AfterFunc posts fn once delay has elapsed. Work due after the loop stopped is dropped.
func (that *Loop) AfterFunc(delay time.Duration, fn func()) {
	time.AfterFunc(delay, func() {
		if err := that.Post(fn); err != nil {
			that.logger.Debug("scheduled task dropped", "error", err)
		}
	})
}

// Do posts fn and waits until it has run on the loop.
func (that *Loop) Do(ctx context.Context, fn func() error) error {
	result := make(chan error, 1)

	if err := that.Post(func() { result <- fn() }); err != nil {
		return err
	}

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-that.done:
		return ErrLoopStopped
	}
}
