// Package testutil provides thread-safe mocks shared by package tests.
package testutil

import (
	"sync"
	"time"

	"github.com/Veraticus/sniffnotify/pkg/interfaces"
)

// Emission is one recorded Emit call.
type Emission struct {
	Event   string
	Payload any
	Time    time.Time
}

// MockSurface is a thread-safe mock surface for testing
type MockSurface struct {
	mu        sync.Mutex
	emissions []Emission
	attempts  []Emission // all attempts, including failed ones
	emitErr   error
	emitDelay time.Duration
}

// NewMockSurface creates a new mock surface
func NewMockSurface() *MockSurface {
	return &MockSurface{}
}

// Emit records the event
func (m *MockSurface) Emit(event string, payload any) error {
	m.mu.Lock()
	delay := m.emitDelay
	m.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	e := Emission{Event: event, Payload: payload, Time: time.Now()}
	m.attempts = append(m.attempts, e)

	if m.emitErr != nil {
		return m.emitErr
	}

	m.emissions = append(m.emissions, e)
	return nil
}

// GetEmissions returns a copy of the successful emissions
func (m *MockSurface) GetEmissions() []Emission {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]Emission, len(m.emissions))
	copy(result, m.emissions)
	return result
}

// GetAttempts returns a copy of every attempt, including failures
func (m *MockSurface) GetAttempts() []Emission {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]Emission, len(m.attempts))
	copy(result, m.attempts)
	return result
}

// SetError sets the error returned by Emit
func (m *MockSurface) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emitErr = err
}

// SetDelay sets a delay before each Emit
func (m *MockSurface) SetDelay(delay time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emitDelay = delay
}

// Clear resets the mock state
func (m *MockSurface) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emissions = nil
	m.attempts = nil
	m.emitErr = nil
	m.emitDelay = 0
}

// MockRateLimiter is a mock implementation of interfaces.RateLimiter
type MockRateLimiter struct {
	mu         sync.Mutex
	allow      bool
	allowCalls int
	resetCalls int
}

var _ interfaces.RateLimiter = (*MockRateLimiter)(nil)

// NewMockRateLimiter creates a limiter that always answers allow
func NewMockRateLimiter(allow bool) *MockRateLimiter {
	return &MockRateLimiter{allow: allow}
}

// Allow implements the RateLimiter interface
func (m *MockRateLimiter) Allow() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.allowCalls++
	return m.allow
}

// Reset implements the RateLimiter interface
func (m *MockRateLimiter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetCalls++
}

// SetAllow changes the answer of Allow
func (m *MockRateLimiter) SetAllow(allow bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.allow = allow
}

// AllowCalls returns how many times Allow was called
func (m *MockRateLimiter) AllowCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.allowCalls
}
