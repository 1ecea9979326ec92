package domain

import "github.com/jonboulle/clockwork"

// clock stamps results and export file names. Tests freeze it via SetClock.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source. Pass nil to reset to real time. It is not
// synchronized: call it before serving requests, or from tests that do not
// run in parallel.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
