package surface

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Console prints one line per event, for running without a front-end.
type Console struct {
	mu  sync.Mutex
	w   io.Writer
	now func() time.Time
}

// NewConsole creates a console surface writing to w
func NewConsole(w io.Writer) *Console {
	return &Console{w: w, now: time.Now}
}

// Emit prints the event
func (c *Console) Emit(event string, payload any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := fmt.Fprintf(c.w, "[%s] %s: %s\n",
		c.now().Format(time.TimeOnly),
		event,
		describe(payload))
	return err
}
