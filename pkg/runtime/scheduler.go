package runtime

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// scheduler collects instances marked dirty by signal writes and flushes
// them at most once per rendering tick, in insertion order. The dirty set
// has set semantics: no matter how many writes target an instance within
// a tick, it re-renders once.
type scheduler struct {
	rt *Runtime

	mu           sync.Mutex
	dirty        []*Instance
	inSet        map[*Instance]struct{}
	flushPending bool
}

func newScheduler(rt *Runtime) *scheduler {
	return &scheduler{
		rt:    rt,
		inSet: make(map[*Instance]struct{}),
	}
}

// markDirty inserts an instance into the dirty set and requests a flush
// for the next tick. Unmounted instances are ignored.
func (s *scheduler) markDirty(inst *Instance) {
	if inst == nil || !inst.Mounted() {
		return
	}

	s.mu.Lock()
	if _, ok := s.inSet[inst]; ok {
		s.mu.Unlock()
		return
	}
	s.inSet[inst] = struct{}{}
	s.dirty = append(s.dirty, inst)
	inst.dirty.Store(true)
	request := !s.flushPending
	if request {
		s.flushPending = true
	}
	s.mu.Unlock()

	if request {
		s.rt.requestTick()
	}
}

// retract cancels a pending dirty entry. A parent re-render that
// structurally replaces a child component calls this through unmount, so
// the stale child is never re-rendered against props it no longer owns.
func (s *scheduler) retract(inst *Instance) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.inSet[inst]; !ok {
		return
	}
	delete(s.inSet, inst)
	inst.dirty.Store(false)
	for i, d := range s.dirty {
		if d == inst {
			s.dirty = append(s.dirty[:i], s.dirty[i+1:]...)
			return
		}
	}
}

func (s *scheduler) pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushPending
}

// flush snapshots and clears the dirty set, then re-renders each captured
// instance still mounted at flush time. An instance dirtied and unmounted
// before the flush is skipped silently. A panic while re-rendering one
// instance is contained there: the rest of the set still flushes.
func (s *scheduler) flush() {
	s.mu.Lock()
	dirty := s.dirty
	s.dirty = nil
	s.inSet = make(map[*Instance]struct{})
	s.flushPending = false
	s.mu.Unlock()

	if len(dirty) == 0 {
		return
	}

	_, span := s.rt.tracer.Start(context.Background(), "lumen.flush",
		trace.WithAttributes(attribute.Int("lumen.dirty_count", len(dirty))))
	start := time.Now()

	for _, inst := range dirty {
		inst.dirty.Store(false)
		if !inst.Mounted() {
			continue
		}
		s.rt.runIsolated("rerender", func() {
			s.rt.rerenderInstance(inst)
		})
	}

	s.rt.runPendingEffects()

	if m := s.rt.metrics; m != nil {
		m.Flushes.Inc()
		m.FlushDuration.Observe(time.Since(start).Seconds())
	}
	span.SetStatus(codes.Ok, "")
	span.End()

	s.rt.notifyFlush()
}
