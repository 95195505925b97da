package sentry

import (
	"github.com/oshokin/tripwire/internal/sensor"
)

// journal is a fixed-capacity ring of the most recent events.
type journal struct {
	buf   []sensor.Event
	start int
	size  int
}

func newJournal(capacity int) *journal {
	if capacity <= 0 {
		capacity = 1
	}

	return &journal{buf: make([]sensor.Event, capacity)}
}

// push appends e, overwriting the oldest event when full.
func (j *journal) push(e sensor.Event) {
	if j.size < len(j.buf) {
		j.buf[(j.start+j.size)%len(j.buf)] = e
		j.size++

		return
	}

	j.buf[j.start] = e
	j.start = (j.start + 1) % len(j.buf)
}

// list returns the events oldest first.
func (j *journal) list() []sensor.Event {
	out := make([]sensor.Event, j.size)
	for i := range out {
		out[i] = j.buf[(j.start+i)%len(j.buf)]
	}

	return out
}
