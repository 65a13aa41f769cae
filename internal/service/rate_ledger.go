package service

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// RateLedger decides whether a source may submit again and, if so, records
// the attempt. Implementations must make the check and the record atomic
// per source.
type RateLedger interface {
	CheckAndRecord(ctx context.Context, sourceID string) (bool, error)
}

// Default contact-form limits
const (
	DefaultRateLimit      = 3
	DefaultRateWindow     = time.Hour
	DefaultLedgerCapacity = 1000
)

// MemoryLedger is a process-local sliding-window ledger. State is lost on
// restart and is not shared between replicas; use RedisLedger for that.
type MemoryLedger struct {
	mu       sync.Mutex
	entries  map[string]*list.Element
	order    *list.List // insertion order, front is oldest
	limit    int
	window   time.Duration
	capacity int
	now      func() time.Time
}

type ledgerEntry struct {
	key    string
	stamps []time.Time
}

type LedgerOption func(*MemoryLedger)

func WithLimit(n int) LedgerOption {
	return func(l *MemoryLedger) { l.limit = n }
}

func WithWindow(d time.Duration) LedgerOption {
	return func(l *MemoryLedger) { l.window = d }
}

func WithCapacity(n int) LedgerOption {
	return func(l *MemoryLedger) { l.capacity = n }
}

func WithClock(now func() time.Time) LedgerOption {
	return func(l *MemoryLedger) { l.now = now }
}

func NewMemoryLedger(opts ...LedgerOption) *MemoryLedger {
	l := &MemoryLedger{
		entries:  make(map[string]*list.Element),
		order:    list.New(),
		limit:    DefaultRateLimit,
		window:   DefaultRateWindow,
		capacity: DefaultLedgerCapacity,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// CheckAndRecord implements RateLedger. It never returns an error.
func (l *MemoryLedger) CheckAndRecord(_ context.Context, sourceID string) (bool, error) {
	return l.Allow(sourceID), nil
}

// Allow prunes the source's timestamps to the trailing window and records
// now unless the source already used its quota. Rejected attempts are not
// recorded.
func (l *MemoryLedger) Allow(sourceID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	var entry *ledgerEntry
	if el, ok := l.entries[sourceID]; ok {
		entry = el.Value.(*ledgerEntry)
	}

	var recent []time.Time
	if entry != nil {
		recent = l.prune(entry.stamps, now)
		entry.stamps = recent
	}

	if len(recent) >= l.limit {
		return false
	}

	recent = append(recent, now)
	if entry != nil {
		entry.stamps = recent
	} else {
		l.entries[sourceID] = l.order.PushBack(&ledgerEntry{key: sourceID, stamps: recent})
	}

	if l.order.Len() > l.capacity {
		l.removeElement(l.order.Front())
	}

	return true
}

// Sweep drops every source whose timestamps have all left the window and
// returns how many were removed.
func (l *MemoryLedger) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	removed := 0
	for el := l.order.Front(); el != nil; {
		next := el.Next()
		entry := el.Value.(*ledgerEntry)
		entry.stamps = l.prune(entry.stamps, now)
		if len(entry.stamps) == 0 {
			l.removeElement(el)
			removed++
		}
		el = next
	}
	return removed
}

// Len returns the number of tracked sources
func (l *MemoryLedger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.order.Len()
}

// prune keeps timestamps strictly newer than now-window. It filters in
// place, so callers must store the result back.
func (l *MemoryLedger) prune(stamps []time.Time, now time.Time) []time.Time {
	recent := stamps[:0]
	for _, ts := range stamps {
		if now.Sub(ts) < l.window {
			recent = append(recent, ts)
		}
	}
	return recent
}

func (l *MemoryLedger) removeElement(el *list.Element) {
	entry := l.order.Remove(el).(*ledgerEntry)
	delete(l.entries, entry.key)
}
