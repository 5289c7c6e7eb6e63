package app

import (
	"sync"
	"time"
)

// Ticker calls fn once per interval with the generation it was started
// for. Start replaces any running countdown; a callback already in flight
// still carries its old generation and is discarded by the receiver.
type Ticker struct {
	interval time.Duration

	mu   sync.Mutex
	gen  uint64
	stop chan struct{}
}

func NewTicker(interval time.Duration) *Ticker {
	return &Ticker{interval: interval}
}

func (t *Ticker) Start(gen uint64, fn func(gen uint64)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
	stop := make(chan struct{})
	t.stop = stop
	t.gen = gen
	go func() {
		tk := time.NewTicker(t.interval)
		defer tk.Stop()
		for {
			select {
			case <-stop:
				return
			case <-tk.C:
				fn(gen)
			}
		}
	}()
}

// Generation reports what the running countdown was started for.
func (t *Ticker) Generation() (uint64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.gen, t.stop != nil
}

func (t *Ticker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

func (t *Ticker) stopLocked() {
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
}

// delayer schedules the end of a busy window. Only the latest request fires.
type delayer struct {
	mu    sync.Mutex
	timer *time.Timer
}

func (d *delayer) After(delay time.Duration, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(delay, fn)
}

func (d *delayer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
