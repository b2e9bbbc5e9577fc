package ledger

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Logger accepts records fire-and-forget and writes them through a
// bounded queue with a single supervised worker. Store failures go to
// the operational log and never propagate to the submitting caller; a
// full queue drops the record with a warning rather than blocking.
type Logger struct {
	store  Store
	queue  chan *Record
	wg     sync.WaitGroup
	logger *log.Logger

	mu      sync.RWMutex
	closed  bool
	dropped atomic.Int64
}

// LoggerOption configures a Logger.
type LoggerOption func(*loggerOptions)

type loggerOptions struct {
	queueSize int
	logger    *log.Logger
}

// WithQueueSize bounds the in-flight record queue.
func WithQueueSize(n int) LoggerOption {
	return func(o *loggerOptions) {
		if n > 0 {
			o.queueSize = n
		}
	}
}

// WithLogger sets the operational logger.
func WithLogger(logger *log.Logger) LoggerOption {
	return func(o *loggerOptions) {
		o.logger = logger
	}
}

// NewLogger creates a Logger over a store and starts its worker.
func NewLogger(store Store, opts ...LoggerOption) *Logger {
	o := &loggerOptions{
		queueSize: 256,
		logger:    log.Default().WithPrefix("ledger"),
	}
	for _, opt := range opts {
		opt(o)
	}

	l := &Logger{
		store:  store,
		queue:  make(chan *Record, o.queueSize),
		logger: o.logger,
	}
	l.wg.Add(1)
	go l.worker()
	return l
}

// Log enqueues a record without blocking. Missing IDs and timestamps
// are filled in here so callers only supply business fields.
func (l *Logger) Log(rec *Record) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		l.dropped.Add(1)
		l.logger.Warn("record dropped, logger closed", "task", rec.TaskType)
		return
	}

	select {
	case l.queue <- rec:
	default:
		l.dropped.Add(1)
		l.logger.Warn("record dropped, queue full", "task", rec.TaskType, "id", rec.ID)
	}
}

// Dropped returns the number of records dropped so far.
func (l *Logger) Dropped() int64 {
	return l.dropped.Load()
}

// Close drains the queue, stops the worker, and closes the store.
func (l *Logger) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	close(l.queue)
	l.mu.Unlock()

	l.wg.Wait()
	return l.store.Close()
}

func (l *Logger) worker() {
	defer l.wg.Done()
	for rec := range l.queue {
		if err := l.store.Append(context.Background(), rec); err != nil {
			// Losing a performance record must never fail the business
			// operation that produced it.
			l.logger.Error("failed to append record", "id", rec.ID, "err", err)
		}
	}
}
