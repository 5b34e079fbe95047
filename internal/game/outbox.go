package game

import "sync"

// Outbox queues the events of one game in commit order. Events are pushed
// while the game's lock is held and delivered one at a time by a single
// drainer, so observers never see an older snapshot after a newer one.
type Outbox struct {
	GameID string

	mu       sync.Mutex
	idle     *sync.Cond
	queue    []Event
	draining bool
}

func newOutbox(gameID string) *Outbox {
	o := &Outbox{GameID: gameID}
	o.idle = sync.NewCond(&o.mu)
	return o
}

func (o *Outbox) push(event Event) {
	o.mu.Lock()
	o.queue = append(o.queue, event)
	o.mu.Unlock()
}

// Drain delivers queued events until the queue is empty. A caller that finds
// another drain in progress waits for it, so every event pushed before Drain
// was called has been delivered when it returns.
func (o *Outbox) Drain(deliver func(Event)) {
	o.mu.Lock()
	for o.draining {
		o.idle.Wait()
	}
	o.draining = true

	for len(o.queue) > 0 {
		event := o.queue[0]
		o.queue[0] = Event{}
		o.queue = o.queue[1:]
		o.mu.Unlock()

		deliver(event)

		o.mu.Lock()
	}

	o.draining = false
	o.idle.Broadcast()
	o.mu.Unlock()
}

// Pending counts events not yet handed to a deliver func
func (o *Outbox) Pending() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.queue)
}
