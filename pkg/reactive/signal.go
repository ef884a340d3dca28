package reactive

import (
	"fmt"
	"reflect"
	"sync"
)

// signalBase provides type-erased subscriber management, shared by
// Signal[T] and Computed[T].
type signalBase struct {
	id uint64

	subs  []Listener
	subMu sync.RWMutex
}

// subscribe adds a listener, deduplicating by listener ID so reading the
// same cell twice in one computation subscribes once.
func (s *signalBase) subscribe(l Listener) {
	if l == nil {
		return
	}

	s.subMu.Lock()
	defer s.subMu.Unlock()

	lid := l.ID()
	for _, existing := range s.subs {
		if existing.ID() == lid {
			return
		}
	}
	s.subs = append(s.subs, l)
}

func (s *signalBase) unsubscribe(l Listener) {
	if l == nil {
		return
	}

	s.subMu.Lock()
	defer s.subMu.Unlock()

	lid := l.ID()
	for i, existing := range s.subs {
		if existing.ID() == lid {
			s.subs[i] = s.subs[len(s.subs)-1]
			s.subs = s.subs[:len(s.subs)-1]
			return
		}
	}
}

// notifySubscribers notifies every current subscriber against a snapshot,
// so a subscriber that unsubscribes itself mid-notification cannot corrupt
// the iteration and a subscriber that writes further signals does not
// recurse into this pass.
func (s *signalBase) notifySubscribers() {
	s.subMu.RLock()
	subs := make([]Listener, len(s.subs))
	copy(subs, s.subs)
	s.subMu.RUnlock()

	ctx := getTrackingContext()
	if ctx.batchDepth > 0 {
		ctx.pending = append(ctx.pending, subs...)
		return
	}

	for _, sub := range subs {
		sub.MarkDirty()
	}
}

func (s *signalBase) subscriberCount() int {
	s.subMu.RLock()
	defer s.subMu.RUnlock()
	return len(s.subs)
}

// track registers the ambient tracker, if any, as a subscriber and records
// this cell in the tracker's dependency set.
func (s *signalBase) track() {
	if t := currentTracker(); t != nil {
		s.subscribe(t)
		t.addSource(s)
	}
}

// Signal is a reactive value cell. Writes that change the value (by strict
// comparison) schedule the owning component instance, if any, and then
// synchronously notify subscribers. Equal-value writes do nothing.
type Signal[T any] struct {
	base signalBase

	value T
	mu    sync.RWMutex

	// equal overrides the change check. Nil means defaultEquals.
	equal func(T, T) bool

	// schedule marks the owning component instance dirty. Injected by the
	// runtime when the signal is created through a hook; nil otherwise.
	schedule func()
}

// NewSignal creates a signal holding initial.
func NewSignal[T any](initial T) *Signal[T] {
	return &Signal[T]{
		base:  signalBase{id: nextID()},
		value: initial,
	}
}

// Get returns the current value. During a computed recomputation the
// computation is registered as a subscriber of this signal.
func (s *Signal[T]) Get() T {
	s.mu.RLock()
	value := s.value
	s.mu.RUnlock()

	s.base.track()
	return value
}

// Peek returns the current value without creating a dependency.
func (s *Signal[T]) Peek() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set stores value if it differs from the current one, schedules the
// owning instance, and notifies subscribers. An equal write is a no-op.
func (s *Signal[T]) Set(value T) {
	s.mu.Lock()
	changed := !s.equals(s.value, value)
	if changed {
		s.value = value
	}
	s.mu.Unlock()

	if !changed {
		return
	}
	if s.schedule != nil {
		s.schedule()
	}
	s.base.notifySubscribers()
}

// Update atomically derives the new value from the current one.
func (s *Signal[T]) Update(fn func(T) T) {
	s.mu.Lock()
	next := fn(s.value)
	changed := !s.equals(s.value, next)
	if changed {
		s.value = next
	}
	s.mu.Unlock()

	if !changed {
		return
	}
	if s.schedule != nil {
		s.schedule()
	}
	s.base.notifySubscribers()
}

// Subscribe registers fn to receive every new value and returns an
// unsubscribe function.
func (s *Signal[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	l := newFuncListener(func() { fn(s.Peek()) })
	s.base.subscribe(l)
	return func() { s.base.unsubscribe(l) }
}

// Watch registers fn to run after every change. It is the type-erased
// subscription used for host text leaves bound directly to this signal.
func (s *Signal[T]) Watch(fn func()) (cancel func()) {
	l := newFuncListener(fn)
	s.base.subscribe(l)
	return func() { s.base.unsubscribe(l) }
}

// Bind installs the scheduling hook that marks the owning component
// instance dirty on every effective write. The runtime calls this once
// when the signal is created inside a component; later calls replace the
// hook.
func (s *Signal[T]) Bind(schedule func()) {
	s.schedule = schedule
}

// WithEquals configures a custom change check for types where strict
// comparison has the wrong semantics.
func (s *Signal[T]) WithEquals(fn func(T, T) bool) *Signal[T] {
	s.equal = fn
	return s
}

// String renders the current value, making signals usable directly as
// host text leaves.
func (s *Signal[T]) String() string {
	return fmt.Sprint(s.Peek())
}

// ID returns the unique identifier for this signal.
func (s *Signal[T]) ID() uint64 { return s.base.id }

// SubscriberCount reports the current number of subscribers.
func (s *Signal[T]) SubscriberCount() int { return s.base.subscriberCount() }

func (s *Signal[T]) equals(a, b T) bool {
	if s.equal != nil {
		return s.equal(a, b)
	}
	return defaultEquals(a, b)
}

// defaultEquals is strict comparison for the common scalar types, with a
// reflect.DeepEqual fallback for everything else.
func defaultEquals[T any](a, b T) bool {
	switch av := any(a).(type) {
	case int:
		return av == any(b).(int)
	case int8:
		return av == any(b).(int8)
	case int16:
		return av == any(b).(int16)
	case int32:
		return av == any(b).(int32)
	case int64:
		return av == any(b).(int64)
	case uint:
		return av == any(b).(uint)
	case uint8:
		return av == any(b).(uint8)
	case uint16:
		return av == any(b).(uint16)
	case uint32:
		return av == any(b).(uint32)
	case uint64:
		return av == any(b).(uint64)
	case float32:
		return av == any(b).(float32)
	case float64:
		return av == any(b).(float64)
	case string:
		return av == any(b).(string)
	case bool:
		return av == any(b).(bool)
	default:
		return reflect.DeepEqual(a, b)
	}
}

var _ TextCell = (*Signal[int])(nil)
