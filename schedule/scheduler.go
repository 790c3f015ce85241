package schedule

import (
	"container/heap"
	"errors"

	"github.com/quantfold/backtester/event"
)

// ErrEmptyQueue is returned by Pop on a drained scheduler. A correctly
// driven run loop checks IsEmpty first, so hitting this is a pipeline bug.
var ErrEmptyQueue = errors.New("schedule: pop from empty queue")

// Scheduler is a priority queue over events. The total order is
// (logical time, kind precedence, insertion sequence), all ascending.
// Insertion sequence is assigned at Schedule time and only breaks exact
// (time, kind) ties, giving stable FIFO within a class.
//
// Not safe for concurrent use; the kernel is single-threaded by design.
type Scheduler struct {
	items eventHeap
	seq   uint64
}

func New() *Scheduler {
	s := &Scheduler{}
	heap.Init(&s.items)
	return s
}

// Schedule inserts an event. Every event carries a logical time; the
// scheduler never inspects anything else.
func (s *Scheduler) Schedule(ev event.Event) {
	heap.Push(&s.items, item{ev: ev, seq: s.seq})
	s.seq++
}

// Pop removes and returns the globally earliest event.
func (s *Scheduler) Pop() (event.Event, error) {
	if s.items.Len() == 0 {
		return nil, ErrEmptyQueue
	}
	it := heap.Pop(&s.items).(item)
	return it.ev, nil
}

func (s *Scheduler) IsEmpty() bool { return s.items.Len() == 0 }

func (s *Scheduler) Len() int { return s.items.Len() }

type item struct {
	ev  event.Event
	seq uint64
}

type eventHeap []item

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	a, b := h[i], h[j]
	if a.ev.Time() != b.ev.Time() {
		return a.ev.Time() < b.ev.Time()
	}
	if a.ev.Kind() != b.ev.Kind() {
		return a.ev.Kind() < b.ev.Kind()
	}
	return a.seq < b.seq
}

func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x any) { *h = append(*h, x.(item)) }

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	*h = old[:n-1]
	return it
}
