package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSinkBuffersWithoutBlocking(t *testing.T) {
	// A nil DB exercises the fire-and-forget contract: events are accepted
	// and dropped at flush time, with no error surfaced to callers.
	s := NewSink(nil)
	defer s.Stop()

	s.PageView("/pricing", "abc", "x@y.com", true)
	s.Identify("abc", "x@y.com", true)
	s.Reset("abc")

	assert.Equal(t, 3, s.Pending())
}

func TestSinkStopIsIdempotent(t *testing.T) {
	s := NewSink(nil)
	s.PageView("/", "", "", false)
	s.Stop()
	s.Stop()
}
