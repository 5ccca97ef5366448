// Package resource tracks the load state of one piece of remotely fetched
// data.
package resource

import (
	"context"
	"sync"
)

type Status string

const (
	Idle    Status = "idle"
	Loading Status = "loading"
	Ready   Status = "ready"
	Failed  Status = "failed"
)

// Remote holds the last successfully loaded value of T and the state of the
// most recent load. It is safe for concurrent use.
type Remote[T any] struct {
	mu     sync.Mutex
	status Status
	data   T
	loaded bool
	err    error
	epoch  uint64
}

// Snapshot is a consistent copy of a Remote.
type Snapshot[T any] struct {
	Status Status `json:"status"`
	Data   T      `json:"data"`
	Loaded bool   `json:"-"`
	Err    error  `json:"-"`
}

// Load runs fetch and binds its result. A failure keeps the previous data.
// When Reset or another Load happens while fetch runs, its result is
// dropped and Load reports false.
func (r *Remote[T]) Load(ctx context.Context, fetch func(context.Context) (T, error)) (bool, error) {
	r.mu.Lock()
	r.epoch++
	epoch := r.epoch
	r.status = Loading
	r.err = nil
	r.mu.Unlock()

	data, err := fetch(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.epoch != epoch {
		return false, err
	}
	if err != nil {
		r.status = Failed
		r.err = err
		return true, err
	}
	r.data = data
	r.loaded = true
	r.status = Ready
	return true, nil
}

// Set replaces the data as if it had just been loaded.
func (r *Remote[T]) Set(data T) {
	r.mu.Lock()
	r.epoch++
	r.data = data
	r.loaded = true
	r.status = Ready
	r.err = nil
	r.mu.Unlock()
}

// Update applies fn to the loaded data. It does nothing before the first
// successful load. Loads still in flight were fetched before the change and
// are dropped, so a local edit such as a deletion is never overwritten.
func (r *Remote[T]) Update(fn func(T) T) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.loaded {
		return false
	}
	r.epoch++
	r.data = fn(r.data)
	r.status = Ready
	r.err = nil
	return true
}

// Reset forgets all data and invalidates loads still in flight.
func (r *Remote[T]) Reset() {
	r.mu.Lock()
	r.epoch++
	var zero T
	r.data = zero
	r.loaded = false
	r.status = Idle
	r.err = nil
	r.mu.Unlock()
}

func (r *Remote[T]) Get() (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.data, r.loaded
}

func (r *Remote[T]) Snapshot() Snapshot[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := Snapshot[T]{Status: r.status, Data: r.data, Loaded: r.loaded, Err: r.err}
	if s.Status == "" {
		s.Status = Idle
	}
	return s
}
