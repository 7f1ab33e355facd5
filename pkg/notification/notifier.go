package notification

import (
	"context"
	"sync/atomic"
	"time"
)

const (
	// DefaultInterval is the time between two deliveries.
	DefaultInterval = 2 * time.Second
	// DefaultSurface is the UI surface messages are addressed to.
	DefaultSurface = "main"
	// DefaultEvent is the event name the front-end listens for.
	DefaultEvent = "longRunningThread"
	// DefaultText is the message carried by each tick.
	DefaultText = "LRT Message"
)

// Config holds the notifier settings. Zero fields take the defaults.
type Config struct {
	Interval time.Duration
	Surface  string
	Event    string
	Text     string
}

// DefaultConfig returns the default notifier configuration
func DefaultConfig() Config {
	return Config{
		Interval: DefaultInterval,
		Surface:  DefaultSurface,
		Event:    DefaultEvent,
		Text:     DefaultText,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Interval <= 0 {
		c.Interval = d.Interval
	}
	if c.Surface == "" {
		c.Surface = d.Surface
	}
	if c.Event == "" {
		c.Event = d.Event
	}
	if c.Text == "" {
		c.Text = d.Text
	}
	return c
}

// Notifier pushes a fresh Message to one surface on a fixed cadence.
type Notifier struct {
	cfg    Config
	target DeliveryTarget
	ticks  atomic.Uint64
}

// New creates a notifier. A nil target behaves like a target whose
// surface never exists.
func New(cfg Config, target DeliveryTarget) *Notifier {
	return &Notifier{
		cfg:    cfg.withDefaults(),
		target: target,
	}
}

// Config returns the effective configuration.
func (n *Notifier) Config() Config {
	return n.cfg
}

// Ticks returns how many deliveries have been attempted.
func (n *Notifier) Ticks() uint64 {
	return n.ticks.Load()
}

// Run delivers one message per interval until ctx is cancelled. It has
// no exit of its own; stopping it is up to the host.
func (n *Notifier) Run(ctx context.Context) {
	ticker := time.NewTicker(n.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n.deliver()
		}
	}
}

// deliver makes one fire-and-forget delivery attempt.
func (n *Notifier) deliver() {
	n.ticks.Add(1)

	if n.target == nil {
		return
	}

	// The error is discarded on purpose: a missing surface and a failed
	// emit are both ignored so the loop keeps its cadence.
	_ = n.target.Emit(n.cfg.Surface, n.cfg.Event, Message{Message: n.cfg.Text})
}
