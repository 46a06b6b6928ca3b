package kernel

import (
	"runtime/debug"
	"sync"
)

// PanicInfo describes a recovered task panic.
type PanicInfo struct {
	TaskID TaskID
	Value  any
	Stack  []byte
}

var panics struct {
	mu      sync.Mutex
	handler func(PanicInfo)
	fired   bool
}

// InPanicMode reports whether any task has panicked in this process.
func InPanicMode() bool {
	panics.mu.Lock()
	defer panics.mu.Unlock()
	return panics.fired
}

// SetPanicHandler installs the process-wide handler. It runs once, for the
// first panic, and must not panic itself.
func SetPanicHandler(fn func(PanicInfo)) {
	panics.mu.Lock()
	panics.handler = fn
	panics.mu.Unlock()
}

func triggerPanic(info PanicInfo) {
	panics.mu.Lock()
	if panics.fired {
		panics.mu.Unlock()
		return
	}
	panics.fired = true
	fn := panics.handler
	panics.mu.Unlock()

	if fn != nil {
		info.Stack = debug.Stack()
		fn(info)
	}
}
