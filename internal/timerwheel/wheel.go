// Package timerwheel implements the idle-connection expiry set: an ordered
// collection of (deadline, connection, on_expire) entries supporting insert,
// idempotent remove, earliest-deadline lookup, and bulk sweep.
//
// The pack carries no third-party priority-queue or ordered-set library, so
// this is built on the standard library's container/heap — a min-heap keyed
// by deadline, tie-broken by insertion sequence.
package timerwheel

import "container/heap"

// OnExpire is invoked by Sweep for every entry whose deadline has passed.
type OnExpire func(conn any)

// Handle is a stable reference to a single scheduled entry, returned by Add
// and consumed by Remove. It stays valid after the entry fires or is
// removed; a second Remove on the same Handle is a no-op (spec §4.5
// "remove(conn) is idempotent").
type Handle struct {
	entry *entry
}

type entry struct {
	deadline int64
	seq      uint64
	conn     any
	onExpire OnExpire
	index    int  // position in the heap slice, maintained by container/heap
	removed  bool // true once swept or explicitly removed
}

// Wheel is an ordered expiry set keyed by deadline (milliseconds since an
// arbitrary epoch chosen by the caller). It is not safe for concurrent use;
// the reactor that owns it drives it from a single goroutine per spec §5.
type Wheel struct {
	h       entryHeap
	nextSeq uint64
}

// New returns an empty Wheel.
func New() *Wheel {
	return &Wheel{}
}

// Add inserts a new entry with the given absolute deadline (milliseconds)
// and returns a Handle for later removal. Entries with equal deadlines
// expire in insertion order (spec §4.5 tie-break).
func (w *Wheel) Add(conn any, deadline int64, onExpire OnExpire) *Handle {
	e := &entry{
		deadline: deadline,
		seq:      w.nextSeq,
		conn:     conn,
		onExpire: onExpire,
	}
	w.nextSeq++
	heap.Push(&w.h, e)
	return &Handle{entry: e}
}

// Remove cancels h's entry. Safe to call more than once, and safe to call
// after the entry has already fired via Sweep.
func (w *Wheel) Remove(h *Handle) {
	if h == nil || h.entry == nil || h.entry.removed {
		return
	}
	e := h.entry
	e.removed = true
	heap.Remove(&w.h, e.index)
}

// NextDelayMillis returns the number of milliseconds until the earliest
// deadline, or -1 if the wheel is empty. now is the caller's current clock
// reading in the same units as the deadlines passed to Add; callers that
// only need a readiness-wait bound may pass the last sweep's clock reading.
func (w *Wheel) NextDelayMillis(now int64) int32 {
	if len(w.h) == 0 {
		return -1
	}
	d := w.h[0].deadline - now
	if d < 0 {
		return 0
	}
	return int32(d)
}

// Sweep invokes onExpire for every entry with deadline <= now and removes
// each from the wheel (spec §4.5). Entries are visited in deadline order,
// so it stops at the first remaining deadline greater than now.
func (w *Wheel) Sweep(now int64) {
	for len(w.h) > 0 && w.h[0].deadline <= now {
		e := heap.Pop(&w.h).(*entry)
		e.removed = true
		e.onExpire(e.conn)
	}
}

// Len reports the number of live entries — equivalently, the number of
// connections currently ARMED (spec §8 P5).
func (w *Wheel) Len() int {
	return len(w.h)
}

// entryHeap implements container/heap.Interface, ordered by (deadline, seq)
// so equal deadlines preserve insertion order.
type entryHeap []*entry

func (h entryHeap) Len() int { return len(h) }

func (h entryHeap) Less(i, j int) bool {
	if h[i].deadline != h[j].deadline {
		return h[i].deadline < h[j].deadline
	}
	return h[i].seq < h[j].seq
}

func (h entryHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *entryHeap) Push(x any) {
	e := x.(*entry)
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}
