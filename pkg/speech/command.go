package speech

import (
	"fmt"
	"os/exec"
	"runtime"
	"sync"
)

// CommandEngine speaks by shelling out to a system TTS binary per utterance:
// "say" on macOS, "espeak" elsewhere. Stop kills the running process.
type CommandEngine struct {
	binary string
	args   []string

	mu     sync.Mutex
	cmd    *exec.Cmd
	closed bool
}

// NewCommandEngine creates an engine using the platform's default TTS
// binary.
func NewCommandEngine() *CommandEngine {
	if runtime.GOOS == "darwin" {
		return &CommandEngine{binary: "say"}
	}
	// Slightly slower rate for clarity.
	return &CommandEngine{binary: "espeak", args: []string{"-s", "150"}}
}

// NewCommandEngineWith creates an engine running the given binary with the
// given fixed arguments; the utterance text is appended as the last
// argument.
func NewCommandEngineWith(binary string, args ...string) *CommandEngine {
	return &CommandEngine{binary: binary, args: args}
}

// Speak runs the TTS binary and blocks until it exits.
func (e *CommandEngine) Speak(text string) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return WrapError(e.binary, ErrEngineClosed)
	}
	cmd := exec.Command(e.binary, append(e.args, text)...)
	if err := cmd.Start(); err != nil {
		e.mu.Unlock()
		return WrapError(e.binary, fmt.Errorf("start: %w", err))
	}
	e.cmd = cmd
	e.mu.Unlock()

	err := cmd.Wait()

	e.mu.Lock()
	e.cmd = nil
	e.mu.Unlock()

	if err != nil {
		return WrapError(e.binary, err)
	}
	return nil
}

// Stop kills the in-progress utterance, if any.
func (e *CommandEngine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cmd != nil && e.cmd.Process != nil {
		e.cmd.Process.Kill()
	}
}

// Close stops playback and marks the engine closed. Idempotent.
func (e *CommandEngine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.mu.Unlock()

	e.Stop()
	return nil
}

var _ Engine = (*CommandEngine)(nil)
