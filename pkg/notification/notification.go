// Package notification delivers periodic status messages to a UI surface.
package notification

// Message is the payload carried by every tick.
type Message struct {
	Message string `json:"message"`
}

// String returns the message text.
func (m Message) String() string {
	return m.Message
}

// DeliveryTarget routes an event to a named UI surface.
type DeliveryTarget interface {
	Emit(surface, event string, payload any) error
}

// DeliveryTargetFunc adapts a function to DeliveryTarget.
type DeliveryTargetFunc func(surface, event string, payload any) error

// Emit calls f.
func (f DeliveryTargetFunc) Emit(surface, event string, payload any) error {
	return f(surface, event, payload)
}
