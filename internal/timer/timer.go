package timer

import (
	"sync/atomic"
	"time"
)

// Resolution is how often the cached time is refreshed. Deadlines of connections don't need
// to be more precise than that.
const Resolution = 500 * time.Millisecond

var millis = new(atomic.Int64)

func init() {
	// store the time synchronously, otherwise deadlines set before the goroutine was
	// scheduled would be in 1970
	millis.Store(time.Now().UnixMilli())

	go func() {
		for {
			time.Sleep(Resolution)
			millis.Store(time.Now().UnixMilli())
		}
	}()
}

// Now returns the cached time, which is at most Resolution behind the actual one.
func Now() time.Time {
	return time.UnixMilli(millis.Load())
}

// Deadline returns the moment d from now. Zero duration means no deadline at all.
func Deadline(d time.Duration) time.Time {
	if d == 0 {
		return time.Time{}
	}

	return Now().Add(d)
}
