package reactive

import (
	"runtime"
	"sync"
)

// trackingContext holds the reactive state for one goroutine: the tracker
// currently recording dependencies and the batching state.
type trackingContext struct {
	// current is what is recording dependency reads right now.
	// nil means reads are plain and create no subscriptions.
	current tracker

	// batchDepth tracks nested Batch calls. When > 0, change
	// notifications queue instead of firing immediately.
	batchDepth int

	// pending accumulates listeners to notify when the outermost batch
	// completes. Deduplicated by ID before notification.
	pending []Listener
}

// trackingContexts stores per-goroutine tracking contexts.
var trackingContexts sync.Map

// goroutineID extracts the current goroutine's ID from the runtime stack.
// Implementation detail; never exposed.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	// The stack begins "goroutine <id> ".
	var id uint64
	for i := 10; i < n; i++ {
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

func getTrackingContext() *trackingContext {
	gid := goroutineID()
	if ctx, ok := trackingContexts.Load(gid); ok {
		return ctx.(*trackingContext)
	}
	ctx := &trackingContext{}
	trackingContexts.Store(gid, ctx)
	return ctx
}

func currentTracker() tracker {
	return getTrackingContext().current
}

func setCurrentTracker(t tracker) tracker {
	ctx := getTrackingContext()
	old := ctx.current
	ctx.current = t
	return old
}

// withTracker runs fn with t recording dependency reads, restoring the
// previous tracker on every exit path including panics.
func withTracker(t tracker, fn func()) {
	old := setCurrentTracker(t)
	defer setCurrentTracker(old)
	fn()
}

// Untracked runs fn without recording signal reads as dependencies.
// For single reads, Peek is more direct.
func Untracked(fn func()) {
	old := setCurrentTracker(nil)
	defer setCurrentTracker(old)
	fn()
}
