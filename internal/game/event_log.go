package game

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	EventBufferSize    = 1024                   // Circular buffer size
	MaxEventsPerSec    = 2000                   // Global rate limit
	MaxEventsPerSource = 400                    // Per-source rate limit per second
	BatchFlushSize     = 64                     // Events per batch write
	BatchFlushInterval = 250 * time.Millisecond // How often to flush
)

// EventLog is a bounded, rate-limited gameplay journal. Events are buffered
// in a ring and flushed in batches to the logger at debug level, so a tap
// storm never stalls the frame.
type EventLog struct {
	mu     sync.Mutex
	buffer [EventBufferSize]Event
	head   uint64 // next write sequence
	tail   uint64 // next read sequence

	globalLimiter  *rate.Limiter
	sourceLimiters sync.Map // map[string]*rate.Limiter

	log      *zap.Logger
	writerWg sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
	running  atomic.Bool

	droppedCount atomic.Uint64
	totalCount   atomic.Uint64
}

// NewEventLog creates a journal that writes to log (no-op when nil).
func NewEventLog(log *zap.Logger) *EventLog {
	if log == nil {
		log = zap.NewNop()
	}
	return &EventLog{
		globalLimiter: rate.NewLimiter(MaxEventsPerSec, MaxEventsPerSec/10),
		log:           log,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the async writer goroutine
func (el *EventLog) Start() {
	if el.running.Swap(true) {
		return
	}
	el.writerWg.Add(1)
	go el.writerLoop()
}

// Stop flushes pending events and shuts the writer down.
func (el *EventLog) Stop() {
	el.stopOnce.Do(func() {
		el.running.Store(false)
		close(el.stopChan)
		el.writerWg.Wait()
	})
}

// Emit adds an event. Returns false if rate limited or not running.
func (el *EventLog) Emit(event Event) bool {
	if el == nil || !el.running.Load() {
		return false
	}

	if !el.globalLimiter.Allow() {
		el.droppedCount.Add(1)
		return false
	}
	if event.Source != "" && !el.sourceLimiter(event.Source).Allow() {
		el.droppedCount.Add(1)
		return false
	}

	el.mu.Lock()
	if el.head-el.tail >= EventBufferSize {
		// overwrite the oldest entry
		el.tail++
		el.droppedCount.Add(1)
	}
	el.head++
	event.Sequence = el.head
	el.buffer[el.head%EventBufferSize] = event
	el.mu.Unlock()

	el.totalCount.Add(1)
	return true
}

// EmitSimple builds and emits an event in one call.
func (el *EventLog) EmitSimple(eventType EventType, frame uint64, source string, payload interface{}) bool {
	if el == nil || !el.running.Load() {
		return false
	}
	return el.Emit(NewEvent(eventType, frame, source, payload))
}

func (el *EventLog) sourceLimiter(source string) *rate.Limiter {
	if l, ok := el.sourceLimiters.Load(source); ok {
		return l.(*rate.Limiter)
	}
	l, _ := el.sourceLimiters.LoadOrStore(source, rate.NewLimiter(MaxEventsPerSource, MaxEventsPerSource/10))
	return l.(*rate.Limiter)
}

func (el *EventLog) writerLoop() {
	defer el.writerWg.Done()

	ticker := time.NewTicker(BatchFlushInterval)
	defer ticker.Stop()

	batch := make([]Event, 0, BatchFlushSize)
	for {
		select {
		case <-el.stopChan:
			for {
				batch = el.collectBatch(batch[:0])
				if len(batch) == 0 {
					return
				}
				el.flushBatch(batch)
			}
		case <-ticker.C:
			batch = el.collectBatch(batch[:0])
			if len(batch) > 0 {
				el.flushBatch(batch)
			}
		}
	}
}

// collectBatch drains up to BatchFlushSize events from the ring.
func (el *EventLog) collectBatch(batch []Event) []Event {
	el.mu.Lock()
	defer el.mu.Unlock()
	for el.tail < el.head && len(batch) < BatchFlushSize {
		el.tail++
		batch = append(batch, el.buffer[el.tail%EventBufferSize])
	}
	return batch
}

func (el *EventLog) flushBatch(batch []Event) {
	for _, ev := range batch {
		el.log.Debug("journal",
			zap.String("type", ev.Type.String()),
			zap.Uint64("seq", ev.Sequence),
			zap.Uint64("frame", ev.Frame),
			zap.String("source", ev.Source),
			zap.ByteString("payload", ev.Payload),
		)
	}
}

// Pending returns the number of buffered, unflushed events.
func (el *EventLog) Pending() uint64 {
	el.mu.Lock()
	defer el.mu.Unlock()
	return el.head - el.tail
}

// GetStats returns journal counters.
func (el *EventLog) GetStats() map[string]interface{} {
	return map[string]interface{}{
		"total":   el.totalCount.Load(),
		"dropped": el.droppedCount.Load(),
		"pending": el.Pending(),
		"running": el.running.Load(),
	}
}

// GetDroppedCount returns the number of dropped events
func (el *EventLog) GetDroppedCount() uint64 {
	return el.droppedCount.Load()
}

// GetTotalCount returns the number of accepted events
func (el *EventLog) GetTotalCount() uint64 {
	return el.totalCount.Load()
}
