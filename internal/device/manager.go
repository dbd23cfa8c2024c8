// Package device runs device-scoped probes concurrently.
package device

import (
	"context"
	"runtime"
	"sync"
)

// TaskFunc represents a function executed for a specific device ID.
type TaskFunc[T any] func(ctx context.Context, deviceID string) (T, error)

// Result contains the outcome of a task for a device.
type Result[T any] struct {
	DeviceID string
	Value    T
	Err      error
}

// Manager controls concurrent execution of device-scoped tasks.
type Manager[T any] struct {
	workerLimit int
}

// Option configures a Manager.
type Option[T any] func(*Manager[T])

// WithWorkerLimit sets the maximum number of concurrent workers.
func WithWorkerLimit[T any](limit int) Option[T] {
	return func(m *Manager[T]) {
		m.workerLimit = limit
	}
}

// NewManager creates a Manager with optional configuration.
func NewManager[T any](opts ...Option[T]) *Manager[T] {
	m := &Manager[T]{
		workerLimit: runtime.NumCPU(),
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.workerLimit <= 0 {
		m.workerLimit = runtime.NumCPU()
	}

	return m
}

// Run executes task for every device ID and returns one result per ID, in
// the order the IDs were given. IDs not started before ctx is done carry
// ctx's error.
func (m *Manager[T]) Run(ctx context.Context, deviceIDs []string, task TaskFunc[T]) []Result[T] {
	results := make([]Result[T], len(deviceIDs))
	if len(deviceIDs) == 0 {
		return results
	}

	workerCount := m.workerLimit
	if workerCount > len(deviceIDs) {
		workerCount = len(deviceIDs)
	}

	idxCh := make(chan int)

	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range idxCh {
				value, err := task(ctx, deviceIDs[idx])
				results[idx] = Result[T]{
					DeviceID: deviceIDs[idx],
					Value:    value,
					Err:      err,
				}
			}
		}()
	}

	next := 0
feed:
	for ; next < len(deviceIDs); next++ {
		select {
		case <-ctx.Done():
			break feed
		case idxCh <- next:
		}
	}
	close(idxCh)
	wg.Wait()

	for ; next < len(deviceIDs); next++ {
		results[next] = Result[T]{DeviceID: deviceIDs[next], Err: ctx.Err()}
	}

	return results
}
