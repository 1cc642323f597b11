package core

import (
	"sync"

	"github.com/automoto/cyberwarfare/shared/combat"
	"github.com/automoto/cyberwarfare/shared/netconfig"
)

// Request is an action for the authority. Sender is the network client id of
// a forwarded request and "" for requests the authority issues itself.
type Request struct {
	Kind      netconfig.RequestKind
	Sender    string
	Sequence  uint32
	Combatant combat.Handle

	Direction  combat.Direction // SwitchWeapon
	AimX, AimY float64          // Aim
	Zoom       bool             // Zoom

	// Join
	Name  string
	Token string
}

// Forwarded reports whether the request came from a remote participant.
func (r Request) Forwarded() bool {
	return r.Sender != ""
}

// RequestQueue stores requests in a fixed-size ring between ticks. It is safe
// for concurrent producers (router callbacks) and a single consumer (the tick).
type RequestQueue struct {
	mu    sync.Mutex
	data  []Request
	head  int
	tail  int
	count int
}

// NewRequestQueue constructs a ring buffer with the provided capacity.
func NewRequestQueue(capacity int) *RequestQueue {
	if capacity < 1 {
		capacity = 1
	}
	return &RequestQueue{data: make([]Request, capacity)}
}

// Push stages a request, returning false if the queue is full.
func (q *RequestQueue) Push(req Request) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.count == len(q.data) {
		return false
	}
	q.data[q.tail] = req
	q.tail = (q.tail + 1) % len(q.data)
	q.count++
	return true
}

// Drain returns all staged requests in arrival order and clears the queue.
func (q *RequestQueue) Drain() []Request {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.count == 0 {
		return nil
	}
	out := make([]Request, q.count)
	for i := 0; i < q.count; i++ {
		out[i] = q.data[(q.head+i)%len(q.data)]
	}
	q.head = 0
	q.tail = 0
	q.count = 0
	return out
}

// Len reports the number of staged requests.
func (q *RequestQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}
