package events

import "sync"

type envelope struct {
	kind string
	data []byte
	next *envelope
}

// queue is an unbounded fifo holding events until the consumer drains them.
type queue struct {
	lock sync.Mutex
	head *envelope
	tail *envelope
	size int
}

func newQueue() *queue {
	return &queue{}
}

func (q *queue) push(e *envelope) {
	q.lock.Lock()
	defer q.lock.Unlock()

	if q.tail == nil {
		q.head = e
		q.tail = e
	} else {
		q.tail.next = e
		q.tail = e
	}
	q.size++
}

func (q *queue) pop() *envelope {
	q.lock.Lock()
	defer q.lock.Unlock()

	if q.head == nil {
		return nil
	}
	e := q.head
	q.head = e.next
	if q.head == nil {
		q.tail = nil
	}
	q.size--
	return e
}

func (q *queue) len() int {
	q.lock.Lock()
	defer q.lock.Unlock()

	return q.size
}
