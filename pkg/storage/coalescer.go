package storage

import (
	"log/slog"
	"sync"
	"time"

	"github.com/Chidera261/koraDB/pkg/domain"
)

// WriteFunc performs the physical write of a full record snapshot
type WriteFunc func(records []domain.Record) error

// WriteCoalescer debounces full-document rewrites. Submissions inside one
// window collapse into a single write of the most recent snapshot.
type WriteCoalescer struct {
	mu      sync.Mutex
	writeMu sync.Mutex // serializes physical writes

	window     time.Duration
	syncWrites bool
	write      WriteFunc
	logger     *slog.Logger
	onWrite    func(err error)

	// pending stays readable until it is on disk; submitted and written
	// count snapshots so a flush only clears what it actually wrote.
	pending   []domain.Record
	submitted uint64
	written   uint64
	timer     *time.Timer
	lastErr   error
}

// NewWriteCoalescer creates a coalescer flushing through write after window.
// With syncWrites set, or a zero window, Submit writes inline.
func NewWriteCoalescer(window time.Duration, syncWrites bool, write WriteFunc, logger *slog.Logger) *WriteCoalescer {
	if logger == nil {
		logger = slog.Default()
	}
	return &WriteCoalescer{
		window:     window,
		syncWrites: syncWrites || window <= 0,
		write:      write,
		logger:     logger,
	}
}

// Submit buffers records as the pending snapshot, replacing any earlier one,
// and arms the flush timer if it is not already running. It returns once the
// snapshot is buffered; only synchronous mode reports write errors here.
func (w *WriteCoalescer) Submit(records []domain.Record) error {
	if w.syncWrites {
		w.writeMu.Lock()
		defer w.writeMu.Unlock()
		return w.doWrite(records)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending = records
	w.submitted++
	if w.timer == nil {
		w.timer = time.AfterFunc(w.window, w.fire)
	}
	return nil
}

// fire runs on the timer goroutine. Its error has no caller to return to.
func (w *WriteCoalescer) fire() {
	if err := w.flushPending(); err != nil {
		w.logger.Error("Deferred collection write failed", "err", err)
	}
}

// Flush cancels the timer and writes the pending snapshot immediately
func (w *WriteCoalescer) Flush() error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.mu.Unlock()

	return w.flushPending()
}

func (w *WriteCoalescer) flushPending() error {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()

	w.mu.Lock()
	w.timer = nil
	if w.submitted == w.written {
		w.mu.Unlock()
		return nil
	}
	records := w.pending
	target := w.submitted
	w.mu.Unlock()

	if err := w.doWrite(records); err != nil {
		// Leave the snapshot pending so reads still see it and the next
		// flush retries.
		return err
	}

	w.mu.Lock()
	w.written = target
	if w.submitted == target {
		w.pending = nil
	}
	w.mu.Unlock()
	return nil
}

// doWrite must be called with writeMu held
func (w *WriteCoalescer) doWrite(records []domain.Record) error {
	err := w.write(records)

	w.mu.Lock()
	w.lastErr = err
	onWrite := w.onWrite
	w.mu.Unlock()

	if onWrite != nil {
		onWrite(err)
	}
	return err
}

// Cancel stops the timer and discards the pending snapshot
func (w *WriteCoalescer) Cancel() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.pending = nil
	w.written = w.submitted
}

// Pending returns a copy of the snapshot not yet on disk, if any
func (w *WriteCoalescer) Pending() ([]domain.Record, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.submitted == w.written {
		return nil, false
	}
	return domain.CloneRecords(w.pending), true
}

// Err returns the result of the most recent physical write
func (w *WriteCoalescer) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

// SetOnWrite registers a hook called after every physical write
func (w *WriteCoalescer) SetOnWrite(fn func(err error)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onWrite = fn
}
