package editor

import "sync"

// queue hands out FIFO turns per key. Callers on the same key run one at a
// time in the order they called acquire; different keys do not wait on each
// other.
type queue struct {
	mu    sync.Mutex
	lanes map[string]*lane
}

type lane struct {
	next    uint64
	serving uint64
	waiting int
	cond    *sync.Cond
}

func newQueue() *queue {
	return &queue{lanes: make(map[string]*lane)}
}

// acquire blocks until it is the caller's turn on key and returns the
// function that ends the turn.
func (q *queue) acquire(key string) func() {
	q.mu.Lock()
	l, ok := q.lanes[key]
	if !ok {
		l = &lane{cond: sync.NewCond(&q.mu)}
		q.lanes[key] = l
	}
	ticket := l.next
	l.next++
	l.waiting++
	for l.serving != ticket {
		l.cond.Wait()
	}
	q.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			q.mu.Lock()
			l.serving++
			l.waiting--
			if l.waiting == 0 {
				delete(q.lanes, key)
			}
			l.cond.Broadcast()
			q.mu.Unlock()
		})
	}
}

// pending reports how many callers hold or wait for a turn on key.
func (q *queue) pending(key string) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	if l, ok := q.lanes[key]; ok {
		return l.waiting
	}
	return 0
}
