package surface

import "github.com/gen2brain/beeep"

// Desktop raises a native desktop notification per event.
type Desktop struct {
	title  string
	notify func(title, message string) error
}

// NewDesktop creates a desktop surface. An empty title uses the event name.
func NewDesktop(title string) *Desktop {
	return &Desktop{
		title: title,
		notify: func(title, message string) error {
			return beeep.Notify(title, message, "")
		},
	}
}

// Emit shows the payload text as a notification
func (d *Desktop) Emit(event string, payload any) error {
	title := d.title
	if title == "" {
		title = event
	}
	return d.notify(title, describe(payload))
}
