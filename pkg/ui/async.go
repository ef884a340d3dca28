package ui

import "sync"

// Deferred is the promise-like result of an asynchronous component: the
// runtime mounts a placeholder immediately and swaps in the real subtree
// when the deferred settles, provided the instance is still live.
//
// A Deferred settles at most once; later Resolve/Reject calls are ignored.
type Deferred struct {
	mu      sync.Mutex
	settled bool
	result  any
	err     error
	conts   []func(any, error)
}

// NewDeferred creates an unsettled deferred.
func NewDeferred() *Deferred {
	return &Deferred{}
}

// Async runs fn on its own goroutine and returns a deferred settled with
// its result.
func Async(fn func() (any, error)) *Deferred {
	d := NewDeferred()
	go func() {
		v, err := fn()
		if err != nil {
			d.Reject(err)
			return
		}
		d.Resolve(v)
	}()
	return d
}

// Resolve settles the deferred with a value.
func (d *Deferred) Resolve(v any) {
	d.settle(v, nil)
}

// Reject settles the deferred with an error.
func (d *Deferred) Reject(err error) {
	d.settle(nil, err)
}

// Settled reports whether the deferred has a result.
func (d *Deferred) Settled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.settled
}

// OnSettle registers a continuation. If the deferred is already settled,
// fn runs immediately on the calling goroutine.
func (d *Deferred) OnSettle(fn func(result any, err error)) {
	d.mu.Lock()
	if d.settled {
		result, err := d.result, d.err
		d.mu.Unlock()
		fn(result, err)
		return
	}
	d.conts = append(d.conts, fn)
	d.mu.Unlock()
}

func (d *Deferred) settle(v any, err error) {
	d.mu.Lock()
	if d.settled {
		d.mu.Unlock()
		return
	}
	d.settled = true
	d.result = v
	d.err = err
	conts := d.conts
	d.conts = nil
	d.mu.Unlock()

	for _, fn := range conts {
		fn(v, err)
	}
}
