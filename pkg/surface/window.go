package surface

import "github.com/Veraticus/sniffnotify/pkg/ipc"

// Window forwards events to a front-end window as ipc.Event frames.
type Window struct {
	label  string
	stream *ipc.Stream
}

// NewWindow creates a window surface labelled label
func NewWindow(label string, stream *ipc.Stream) *Window {
	return &Window{label: label, stream: stream}
}

// Emit writes the event frame to the stream.
func (w *Window) Emit(event string, payload any) error {
	return w.stream.Write(ipc.Event{
		Event:   event,
		Window:  w.label,
		Payload: payload,
	})
}
