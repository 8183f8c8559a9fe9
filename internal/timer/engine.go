package timer

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/palomera/studyd/internal/model"
)

// CommandSource exposes the single-slot PendingStart queue the engine
// drains. The slot is level-triggered: Pending may return the same command
// on consecutive ticks, and the Pomodoro's timestamp check keeps repeat
// observations harmless.
type CommandSource interface {
	Pending() (model.PendingStart, bool)
	ClearPending()
}

// Engine runs the Pomodoro on a wall-clock tick in its own goroutine and
// publishes phase transitions. Consumers that lag simply miss events; the
// engine never blocks on its output channel.
type Engine struct {
	mu     sync.Mutex
	pom    *Pomodoro
	source CommandSource

	interval time.Duration
	now      func() time.Time

	out     chan PhaseEvent
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	dropped uint64
}

func NewEngine(pom *Pomodoro, source CommandSource, bufferSize int) *Engine {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Engine{
		pom:      pom,
		source:   source,
		interval: time.Second,
		now:      time.Now,
		out:      make(chan PhaseEvent, bufferSize),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// C is the stream of phase transitions.
func (e *Engine) C() <-chan PhaseEvent {
	return e.out
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.started = true
	go e.loop()
}

func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.started || e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	e.mu.Unlock()
	<-e.doneCh
}

func (e *Engine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

// Do runs fn on the Pomodoro under the engine lock. The TUI uses this for
// pause/resume/skip/reset and for reading display state.
func (e *Engine) Do(fn func(*Pomodoro)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.pom)
}

func (e *Engine) loop() {
	defer close(e.doneCh)
	defer close(e.out)

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if ev := e.tick(); ev != nil {
				select {
				case e.out <- *ev:
				default:
					atomic.AddUint64(&e.dropped, 1)
				}
			}
		case <-e.stopCh:
			return
		}
	}
}

func (e *Engine) tick() *PhaseEvent {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	if e.source != nil {
		if cmd, ok := e.source.Pending(); ok {
			if e.pom.ConsumePending(cmd, now) {
				e.source.ClearPending()
			}
		}
	}
	return e.pom.Tick(now)
}
