package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/rileyhilliard/pulse/internal/errors"
	"github.com/rileyhilliard/pulse/internal/logger"
)

// DefaultInterval is the default time between tick boundaries.
const DefaultInterval = 2 * time.Second

// MinInterval is the shortest accepted interval.
const MinInterval = time.Millisecond

// Poller runs the tick loop: assemble a snapshot, store it as latest, then
// deliver it to subscribers. It is Stopped until Start and after Stop.
type Poller struct {
	assembler *Assembler
	interval  time.Duration
	registry  *Registry
	log       logger.Logger

	latestMu sync.Mutex
	latest   *Snapshot

	// seq is touched only by the loop goroutine; runs never overlap.
	seq uint64

	runMu   sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}

	chanMu sync.Mutex
	chans  map[Handle]*mailbox
}

// NewPoller creates a stopped poller. The interval is read once here.
func NewPoller(assembler *Assembler, interval time.Duration, log logger.Logger) (*Poller, error) {
	if interval < MinInterval {
		return nil, errors.New(errors.ErrConfig,
			"update interval must be positive",
			"Set update_interval to a duration such as 2s.")
	}
	log = logger.OrNoop(log)
	return &Poller{
		assembler: assembler,
		interval:  interval,
		registry:  NewRegistry(log),
		log:       log,
		chans:     make(map[Handle]*mailbox),
	}, nil
}

// Interval returns the configured tick interval.
func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Start launches the poll loop. The first tick runs immediately. Calling
// Start while running is a no-op; Start after Stop resumes ticking with the
// sequence counter continuing where it left off.
//
// Cancelling ctx stops the loop after its current tick, like Stop. An
// in-flight probe is never cancelled; probes rely on their own timeouts.
func (p *Poller) Start(ctx context.Context) {
	p.runMu.Lock()
	defer p.runMu.Unlock()

	if p.running && !closed(p.done) {
		return
	}

	p.running = true
	p.stop = make(chan struct{})
	p.done = make(chan struct{})
	go p.loop(ctx, p.stop, p.done)
}

// Stop signals the loop and waits for it to finish its current tick. It is
// safe to call repeatedly or before Start. Channel subscriptions are closed
// once their pending snapshots are drained. Stop must not be called from a
// subscriber, since the loop is waiting on that subscriber.
func (p *Poller) Stop() {
	p.runMu.Lock()
	defer p.runMu.Unlock()

	if !p.running {
		return
	}
	if !closed(p.stop) {
		close(p.stop)
	}
	<-p.done
	p.running = false
}

// Running reports whether the loop is active.
func (p *Poller) Running() bool {
	p.runMu.Lock()
	defer p.runMu.Unlock()
	return p.running && !closed(p.done)
}

// Latest returns a copy of the most recent snapshot, or false before the
// first tick completes.
func (p *Poller) Latest() (Snapshot, bool) {
	p.latestMu.Lock()
	snap := p.latest
	p.latestMu.Unlock()

	if snap == nil {
		return Snapshot{}, false
	}
	return snap.Clone(), true
}

// Subscribe registers fn for every subsequent tick.
func (p *Poller) Subscribe(fn Subscriber) Handle {
	return p.registry.Subscribe(fn)
}

// SubscribeChan returns a channel that receives every subsequent snapshot.
// Buffering is unbounded, so a slow reader neither blocks the loop nor
// misses snapshots. The channel closes on Unsubscribe or when the loop stops.
func (p *Poller) SubscribeChan() (Handle, <-chan Snapshot) {
	mb := newMailbox()

	p.chanMu.Lock()
	defer p.chanMu.Unlock()

	h := p.registry.Subscribe(func(s Snapshot) error {
		mb.put(s)
		return nil
	})
	p.chans[h] = mb
	return h, mb.out
}

// Unsubscribe removes a subscription. For channel subscriptions the channel
// is closed and undelivered snapshots are dropped.
func (p *Poller) Unsubscribe(h Handle) bool {
	ok := p.registry.Unsubscribe(h)

	p.chanMu.Lock()
	mb, isChan := p.chans[h]
	delete(p.chans, h)
	p.chanMu.Unlock()

	if isChan {
		mb.close(false)
	}
	return ok
}

func (p *Poller) loop(ctx context.Context, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer p.closeChans()

	tickCtx := context.WithoutCancel(ctx)
	start := time.Now()

	for {
		p.tick(tickCtx)

		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		default:
		}

		timer := time.NewTimer(time.Until(nextBoundary(start, time.Now(), p.interval)))
		select {
		case <-stop:
			timer.Stop()
			return
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

func (p *Poller) tick(ctx context.Context) {
	snap := p.assembler.Assemble(ctx)
	p.seq++
	snap.Sequence = p.seq

	p.latestMu.Lock()
	p.latest = &snap
	p.latestMu.Unlock()

	if failed := p.registry.Deliver(snap); failed > 0 {
		p.log.Debug("tick %d: %d subscriber(s) failed", snap.Sequence, failed)
	}
}

func (p *Poller) closeChans() {
	p.chanMu.Lock()
	chans := p.chans
	p.chans = make(map[Handle]*mailbox)
	p.chanMu.Unlock()

	for h, mb := range chans {
		p.registry.Unsubscribe(h)
		mb.close(true)
	}
}

// nextBoundary returns the first start+k*interval strictly after now.
// Boundaries missed during a slow tick are skipped, not replayed.
func nextBoundary(start, now time.Time, interval time.Duration) time.Time {
	elapsed := now.Sub(start)
	if elapsed < 0 {
		return start
	}
	k := elapsed/interval + 1
	return start.Add(k * interval)
}

func closed(ch chan struct{}) bool {
	if ch == nil {
		return true
	}
	select {
	case <-ch:
		return true
	default:
		return false
	}
}
