package monitor

import "sync"

// mailbox is an unbounded FIFO between the poll loop and one channel reader.
// put never blocks; a goroutine forwards queued snapshots to out.
type mailbox struct {
	mu     sync.Mutex
	queue  []Snapshot
	closed bool

	wake  chan struct{}
	abort chan struct{}
	out   chan Snapshot
}

func newMailbox() *mailbox {
	m := &mailbox{
		wake:  make(chan struct{}, 1),
		abort: make(chan struct{}),
		out:   make(chan Snapshot),
	}
	go m.forward()
	return m
}

func (m *mailbox) put(s Snapshot) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.queue = append(m.queue, s)
	m.mu.Unlock()
	m.signal()
}

// close stops accepting snapshots. With drain, queued snapshots are still
// delivered before out is closed; otherwise they are dropped.
func (m *mailbox) close(drain bool) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.mu.Unlock()

	if !drain {
		close(m.abort)
	}
	m.signal()
}

func (m *mailbox) signal() {
	select {
	case m.wake <- struct{}{}:
	default:
	}
}

func (m *mailbox) forward() {
	defer close(m.out)
	for {
		m.mu.Lock()
		if len(m.queue) == 0 {
			closed := m.closed
			m.mu.Unlock()
			if closed {
				return
			}
			select {
			case <-m.wake:
			case <-m.abort:
				return
			}
			continue
		}
		next := m.queue[0]
		m.queue[0] = Snapshot{}
		m.queue = m.queue[1:]
		m.mu.Unlock()

		select {
		case m.out <- next:
		case <-m.abort:
			return
		}
	}
}
