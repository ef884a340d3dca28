package runtime

import (
	"runtime"
	"sync"
)

// currentInstances maps goroutine ID to the instance currently invoking
// on that goroutine. The ambient pointer is set for the duration of one
// invocation and restored on every exit path, so hook calls can find
// their instance without threading a context object through every call.
var currentInstances sync.Map

// goroutineID extracts the current goroutine's ID from the runtime stack.
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

// MaybeCurrent returns the instance currently invoking, or nil when no
// invocation is active. The nil-tolerant variant exists for dev-mode
// checks; hooks use Current.
func MaybeCurrent() *Instance {
	if v, ok := currentInstances.Load(goroutineID()); ok {
		return v.(*Instance)
	}
	return nil
}

// Current returns the instance currently invoking. It panics with
// ErrNoInstance outside an invocation: a hook called there has no slot
// storage to attach to, and silently ignoring it would hide the bug.
func Current() *Instance {
	if inst := MaybeCurrent(); inst != nil {
		return inst
	}
	panic(ErrNoInstance)
}

func setCurrentInstance(inst *Instance) *Instance {
	gid := goroutineID()
	var old *Instance
	if v, ok := currentInstances.Load(gid); ok {
		old = v.(*Instance)
	}
	if inst == nil {
		currentInstances.Delete(gid)
	} else {
		currentInstances.Store(gid, inst)
	}
	return old
}

// withInstance runs fn with inst as the ambient current instance,
// restoring the previous one on every exit path including panics.
func withInstance(inst *Instance, fn func()) {
	old := setCurrentInstance(inst)
	defer setCurrentInstance(old)
	fn()
}
