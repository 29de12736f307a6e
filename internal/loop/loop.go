package loop

import (
	"errors"
	"sync"

	"go.uber.org/zap"
)

// ErrStopped is returned by Do once the loop has been stopped.
var ErrStopped = errors.New("event loop stopped")

// Loop runs submitted functions one at a time on a dedicated goroutine. It is
// the single thread every dataset call goes through once more than one
// surface (tray, HTTP) is live.
type Loop struct {
	tasks    chan func()
	stopChan chan struct{}
	wg       sync.WaitGroup
	mu       sync.Mutex
	stopped  bool
	logger   *zap.Logger
}

// New starts a loop.
func New(logger *zap.Logger) *Loop {
	l := &Loop{
		tasks:    make(chan func()),
		stopChan: make(chan struct{}),
		logger:   logger,
	}

	l.wg.Add(1)
	go l.run()

	return l
}

// Do runs fn on the loop and waits for it to return. It must not be called
// from a function that is already running on the loop.
func (l *Loop) Do(fn func()) error {
	done := make(chan struct{})
	task := func() {
		defer close(done)
		fn()
	}

	select {
	case l.tasks <- task:
	case <-l.stopChan:
		return ErrStopped
	}
	<-done
	return nil
}

// Post queues fn without waiting for it.
func (l *Loop) Post(fn func()) {
	go func() {
		if err := l.Do(fn); err != nil {
			l.logger.Debug("Dropped task posted after stop")
		}
	}()
}

// Stop finishes the task in progress and terminates the loop.
func (l *Loop) Stop() {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}
	l.stopped = true
	close(l.stopChan)
	l.mu.Unlock()

	l.wg.Wait()
	l.logger.Info("Event loop stopped")
}

func (l *Loop) run() {
	defer l.wg.Done()

	for {
		select {
		case task := <-l.tasks:
			l.runTask(task)
		case <-l.stopChan:
			return
		}
	}
}

func (l *Loop) runTask(task func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("Event loop task panicked", zap.Any("panic", r))
		}
	}()
	task()
}
