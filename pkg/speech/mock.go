package speech

import (
	"sync"
	"time"
)

// MockEngine implements Engine for testing.
// All methods can be customized via function fields.
type MockEngine struct {
	// SpeakFunc is called when Speak is invoked.
	// If nil, Speak returns nil immediately.
	SpeakFunc func(text string) error

	// StopFunc is called when Stop is invoked.
	StopFunc func()

	// CloseFunc is called when Close is invoked.
	// If nil, returns nil.
	CloseFunc func() error

	// Tracking
	mu    sync.Mutex
	calls []MockCall
}

// MockCall records a method invocation for verification.
type MockCall struct {
	Method string
	Text   string
	Time   time.Time
}

// NewMockEngine creates a mock engine that succeeds instantly.
func NewMockEngine() *MockEngine {
	return &MockEngine{}
}

// EngineWithError returns a mock whose Speak always fails with err.
func EngineWithError(err error) *MockEngine {
	return &MockEngine{
		SpeakFunc: func(text string) error { return err },
	}
}

// Speak calls SpeakFunc and records the call.
func (m *MockEngine) Speak(text string) error {
	m.recordCall("Speak", text)
	if m.SpeakFunc != nil {
		return m.SpeakFunc(text)
	}
	return nil
}

// Stop calls StopFunc and records the call.
func (m *MockEngine) Stop() {
	m.recordCall("Stop", "")
	if m.StopFunc != nil {
		m.StopFunc()
	}
}

// Close calls CloseFunc and records the call.
func (m *MockEngine) Close() error {
	m.recordCall("Close", "")
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// recordCall adds a call to the tracking list.
func (m *MockEngine) recordCall(method, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, MockCall{Method: method, Text: text, Time: time.Now()})
}

// Calls returns all recorded method calls.
func (m *MockEngine) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]MockCall, len(m.calls))
	copy(result, m.calls)
	return result
}

// Spoken returns the texts passed to Speak, in order.
func (m *MockEngine) Spoken() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, c := range m.calls {
		if c.Method == "Speak" {
			out = append(out, c.Text)
		}
	}
	return out
}

// CallCount returns the number of times a method was called.
func (m *MockEngine) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, c := range m.calls {
		if c.Method == method {
			count++
		}
	}
	return count
}

// Reset clears all recorded calls.
func (m *MockEngine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

// Verify MockEngine implements Engine at compile time.
var _ Engine = (*MockEngine)(nil)
