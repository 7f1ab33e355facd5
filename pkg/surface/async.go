package surface

import (
	"sync"
	"sync/atomic"
)

// Async delivers to its surface on a background goroutine so a slow member
// never holds up the caller. At most one send is in flight; events that
// arrive meanwhile are dropped.
type Async struct {
	surface Surface
	busy    atomic.Bool
	dropped atomic.Uint64
	wg      sync.WaitGroup
}

// NewAsync wraps s
func NewAsync(s Surface) *Async {
	return &Async{surface: s}
}

// Emit starts delivery and returns immediately. Errors from the wrapped
// surface are discarded.
func (a *Async) Emit(event string, payload any) error {
	if !a.busy.CompareAndSwap(false, true) {
		a.dropped.Add(1)
		return nil
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		defer a.busy.Store(false)
		_ = a.surface.Emit(event, payload)
	}()
	return nil
}

// Dropped returns how many events were skipped because a send was in flight.
func (a *Async) Dropped() uint64 {
	return a.dropped.Load()
}

// Wait blocks until the in-flight send, if any, has finished.
func (a *Async) Wait() {
	a.wg.Wait()
}
