package core

//go:generate go tool mockgen -destination=./mocks/broadcaster_mock.go -package=mocks . Broadcaster

// Outbound is a message the tick produced. To is "" for a broadcast to every
// observer, otherwise the client id it is addressed to.
type Outbound struct {
	To  string
	Msg any
}

// EventQueue collects outbound messages during a tick. It is only touched by
// the tick goroutine.
type EventQueue struct {
	pending []Outbound
}

func (q *EventQueue) Broadcast(msg any) {
	q.pending = append(q.pending, Outbound{Msg: msg})
}

func (q *EventQueue) SendTo(clientID string, msg any) {
	q.pending = append(q.pending, Outbound{To: clientID, Msg: msg})
}

// Drain returns queued messages in emission order and empties the queue.
func (q *EventQueue) Drain() []Outbound {
	out := q.pending
	q.pending = nil
	return out
}

func (q *EventQueue) Len() int {
	return len(q.pending)
}

// Broadcaster delivers drained events to connected observers.
type Broadcaster interface {
	Broadcast(msg any)
	SendTo(clientID string, msg any) error
}

// Dispatch hands every outbound message to b in order. Failed direct sends
// are returned so the caller can log them; they never stop the dispatch.
func Dispatch(events []Outbound, b Broadcaster) []error {
	var errs []error
	for _, ev := range events {
		if ev.To == "" {
			b.Broadcast(ev.Msg)
			continue
		}
		if err := b.SendTo(ev.To, ev.Msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
