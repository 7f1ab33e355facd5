// Package interfaces defines the small interfaces shared across packages.
package interfaces

// RateLimiter limits how often an event may pass.
type RateLimiter interface {
	Allow() bool
	Reset()
}
