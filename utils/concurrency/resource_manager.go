// Package concurrency implements a simple channel based resource manager for concurrent operations.
package concurrency

import (
	"sync"
)

// ResourceManager hands out a fixed set of resources (e.g. one random source
// per worker) to concurrently running tasks, so that no resource is ever used
// by two tasks at the same time. The number of resources bounds the number of
// tasks running in parallel.
type ResourceManager[T any] struct {
	wg        sync.WaitGroup
	resources chan T
	mu        sync.Mutex
	err       error
}

// NewResourceManager instantiates a new [ResourceManager] over the given resources.
func NewResourceManager[T any](resources []T) *ResourceManager[T] {
	ch := make(chan T, len(resources))
	for i := range resources {
		ch <- resources[i]
	}
	return &ResourceManager[T]{
		resources: ch,
	}
}

// Task is a function operating on an exclusively borrowed resource.
type Task[T any] func(resource T) (err error)

// Run waits until a resource is available and runs the [Task] on it in a new
// goroutine. Since Run blocks while every resource is borrowed, at most one
// goroutine per resource exists at any time.
// Once a task has failed, subsequent tasks are skipped.
func (r *ResourceManager[T]) Run(f Task[T]) {

	resource := <-r.resources

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() { r.resources <- resource }()

		if r.failed() {
			return
		}

		if err := f(resource); err != nil {
			r.mu.Lock()
			if r.err == nil {
				r.err = err
			}
			r.mu.Unlock()
		}
	}()
}

func (r *ResourceManager[T]) failed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err != nil
}

// Wait waits until all tasks have returned and returns the first
// encountered error, if any.
func (r *ResourceManager[T]) Wait() (err error) {
	r.wg.Wait()
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}
