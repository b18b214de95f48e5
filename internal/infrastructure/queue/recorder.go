package queue

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/quotemate/gateway/internal/core/domain"
	"github.com/quotemate/gateway/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	insertTimeout  = 5 * time.Second
)

// CallRecorder writes call records to the repository off the request path.
// Records are sharded by builder id so one builder's log stays in order.
type CallRecorder struct {
	workers []chan domain.CallRecord
	repo    ports.CallRepository
	log     zerolog.Logger
	wg      sync.WaitGroup
	onDrop  func()

	mu     sync.RWMutex
	closed bool
}

// NewCallRecorder creates a CallRecorder with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewCallRecorder(numWorkers int, repo ports.CallRepository, log zerolog.Logger) *CallRecorder {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	r := &CallRecorder{
		workers: make([]chan domain.CallRecord, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range r.workers {
		r.workers[i] = make(chan domain.CallRecord, channelBuffer)
	}
	return r
}

// OnDrop registers a hook called whenever a record is dropped because its
// shard is full.
func (r *CallRecorder) OnDrop(fn func()) {
	r.onDrop = fn
}

// Start launches the workers. They run until Close.
func (r *CallRecorder) Start() {
	for i, ch := range r.workers {
		r.wg.Add(1)
		go r.runWorker(i, ch)
	}
}

// Close stops accepting records. Workers write out what is already queued
// and exit; Wait blocks until they have. Call it after the HTTP server has
// shut down so late handlers can still record.
func (r *CallRecorder) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	for _, ch := range r.workers {
		close(ch)
	}
}

func (r *CallRecorder) Wait() {
	r.wg.Wait()
}

// Record queues rec without blocking. The record is dropped and logged when
// its shard is full or the recorder is closed.
func (r *CallRecorder) Record(rec domain.CallRecord) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		r.drop(rec, "call log closed, record dropped")
		return
	}
	select {
	case r.workers[r.shardIndex(rec.BuilderID)] <- rec:
	default:
		r.drop(rec, "call log queue full, record dropped")
	}
}

func (r *CallRecorder) drop(rec domain.CallRecord, msg string) {
	r.log.Warn().Str("call_id", rec.ID).Str("builder_id", rec.BuilderID).Msg(msg)
	if r.onDrop != nil {
		r.onDrop()
	}
}

func (r *CallRecorder) shardIndex(builderID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(builderID))
	return int(h.Sum32() % uint32(len(r.workers)))
}

func (r *CallRecorder) runWorker(id int, ch <-chan domain.CallRecord) {
	defer r.wg.Done()
	for rec := range ch {
		r.insert(id, rec)
	}
}

func (r *CallRecorder) insert(id int, rec domain.CallRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), insertTimeout)
	defer cancel()
	if err := r.repo.Insert(ctx, &rec); err != nil {
		r.log.Error().Err(err).
			Str("call_id", rec.ID).
			Str("builder_id", rec.BuilderID).
			Int("worker_id", id).
			Msg("call log insert failed")
	}
}
