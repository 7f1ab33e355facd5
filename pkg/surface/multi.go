package surface

import (
	"errors"

	"github.com/Veraticus/sniffnotify/pkg/interfaces"
)

// Multi fans each event out to every member surface.
type Multi []Surface

// Emit emits to all members and joins their errors
func (m Multi) Emit(event string, payload any) error {
	var errs []error
	for _, s := range m {
		if err := s.Emit(event, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Throttled drops events once its limiter runs out of tokens.
type Throttled struct {
	surface Surface
	limiter interfaces.RateLimiter
}

// NewThrottled wraps s with limiter
func NewThrottled(s Surface, limiter interfaces.RateLimiter) *Throttled {
	return &Throttled{surface: s, limiter: limiter}
}

// Emit forwards the event if the limiter allows it. Dropped events are not
// errors.
func (t *Throttled) Emit(event string, payload any) error {
	if t.limiter != nil && !t.limiter.Allow() {
		return nil
	}
	return t.surface.Emit(event, payload)
}
