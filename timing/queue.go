package timing

import (
	"container/heap"
	"sync"
)

type eventQueue interface {
	Push(evt ScheduledEvent)
	Pop() *ScheduledEvent
	Peek() *ScheduledEvent
	Len() int
	Clear()
}

type queuedEvent struct {
	ScheduledEvent
	seq uint64
}

// scheduledEventQueue orders events by time and, for equal times, by the
// order they were pushed.
type scheduledEventQueue struct {
	sync.Mutex
	events  scheduledEventHeap
	nextSeq uint64
}

func newScheduledEventQueue() *scheduledEventQueue {
	q := &scheduledEventQueue{}
	q.events = make([]*queuedEvent, 0)
	heap.Init(&q.events)

	return q
}

func (q *scheduledEventQueue) Push(evt ScheduledEvent) {
	q.Lock()
	heap.Push(&q.events, &queuedEvent{ScheduledEvent: evt, seq: q.nextSeq})
	q.nextSeq++
	q.Unlock()
}

func (q *scheduledEventQueue) Pop() *ScheduledEvent {
	q.Lock()
	defer q.Unlock()

	if q.events.Len() == 0 {
		return nil
	}

	return &heap.Pop(&q.events).(*queuedEvent).ScheduledEvent
}

func (q *scheduledEventQueue) Peek() *ScheduledEvent {
	q.Lock()
	defer q.Unlock()

	if q.events.Len() == 0 {
		return nil
	}

	return &q.events[0].ScheduledEvent
}

func (q *scheduledEventQueue) Len() int {
	q.Lock()
	defer q.Unlock()

	return q.events.Len()
}

func (q *scheduledEventQueue) Clear() {
	q.Lock()
	q.events = q.events[:0]
	q.Unlock()
}

type scheduledEventHeap []*queuedEvent

func (h scheduledEventHeap) Len() int { return len(h) }

func (h scheduledEventHeap) Less(i, j int) bool {
	if h[i].Time != h[j].Time {
		return h[i].Time < h[j].Time
	}

	return h[i].seq < h[j].seq
}

func (h scheduledEventHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *scheduledEventHeap) Push(x any) {
	*h = append(*h, x.(*queuedEvent))
}

func (h *scheduledEventHeap) Pop() any {
	old := *h
	n := len(old)
	evt := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]

	return evt
}
