package detect

import "time"

// The cadence gate is a pair of stateless elapsed-time predicates. The caller
// owns the timestamps and advances them: lastInferenceAt after every
// inference attempt (success or failure), lastSpokenAt only after an
// utterance was actually enqueued. A zero time.Time is the "never happened"
// sentinel, so the first inference and the first utterance are never gated.
//
// There is no drift correction. Each decision compares against the
// instantaneous clock, so under load the achieved rate is at most the
// configured rate, never more.

// ShouldInfer reports whether enough time has passed since the last
// inference attempt to run another one.
func ShouldInfer(now, last time.Time, interval time.Duration) bool {
	if last.IsZero() {
		return true
	}
	return now.Sub(last) >= interval
}

// ShouldSpeak reports whether the speech cooldown has elapsed since the last
// enqueued utterance.
func ShouldSpeak(now, last time.Time, cooldown time.Duration) bool {
	if last.IsZero() {
		return true
	}
	return now.Sub(last) >= cooldown
}

// CooldownRemaining returns how long until ShouldSpeak becomes true again,
// clamped at zero.
func CooldownRemaining(now, last time.Time, cooldown time.Duration) time.Duration {
	if last.IsZero() {
		return 0
	}
	left := cooldown - now.Sub(last)
	if left < 0 {
		return 0
	}
	return left
}
