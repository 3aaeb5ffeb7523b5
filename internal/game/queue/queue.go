package queue

import (
	"container/list"
	"errors"
	"runway-simulator/internal/game/plane"
	"sync"
)

// ErrFull is returned when a bounded queue has no room for another plane.
var ErrFull = errors.New("queue full")

// Queue is a FIFO of waiting planes. Every method is a single critical
// section; nothing blocks.
type Queue struct {
	Name string

	mu       sync.Mutex
	planes   *list.List
	capacity int
}

// NewQueue creates a queue. A capacity of 0 means unbounded.
func NewQueue(name string, capacity int) *Queue {
	return &Queue{
		Name:     name,
		planes:   list.New(),
		capacity: capacity,
	}
}

func (q *Queue) Enqueue(p *plane.Plane) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.capacity > 0 && q.planes.Len() >= q.capacity {
		return ErrFull
	}
	q.planes.PushBack(p)
	return nil
}

// Reinsert appends p regardless of capacity. It is for planes that gave up
// their runway slot and must get back in line.
func (q *Queue) Reinsert(p *plane.Plane) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.planes.PushBack(p)
}

// Dequeue removes the head. ok is false on an empty queue.
func (q *Queue) Dequeue() (p *plane.Plane, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	front := q.planes.Front()
	if front == nil {
		return nil, false
	}
	return q.planes.Remove(front).(*plane.Plane), true
}

func (q *Queue) Peek() (p *plane.Plane, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	front := q.planes.Front()
	if front == nil {
		return nil, false
	}
	return front.Value.(*plane.Plane), true
}

func (q *Queue) Count() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.planes.Len()
}

func (q *Queue) IsEmpty() bool {
	return q.Count() == 0
}

// Preview returns up to n planes from the head and the total count.
func (q *Queue) Preview(n int) ([]*plane.Plane, int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	planes := make([]*plane.Plane, 0, min(n, q.planes.Len()))
	for e := q.planes.Front(); e != nil && len(planes) < n; e = e.Next() {
		planes = append(planes, e.Value.(*plane.Plane))
	}
	return planes, q.planes.Len()
}
