package speech

import (
	"context"
	"net/url"
	"sync/atomic"
)

// TaskState is the lifecycle of one in-flight request.
type TaskState int32

const (
	TaskRunning TaskState = iota
	TaskCompleted
	TaskCancelled
)

func (s TaskState) String() string {
	switch s {
	case TaskRunning:
		return "running"
	case TaskCompleted:
		return "completed"
	case TaskCancelled:
		return "cancelled"
	default:
		return "invalid"
	}
}

// CompletionHandler receives exactly one of data or err.
type CompletionHandler func(data []byte, err error)

// Task is the handle for one AudioData call.
//
// The state leaves TaskRunning exactly once: to TaskCancelled if Cancel wins, to TaskCompleted
// otherwise. Either way the completion handler runs exactly once; after a cancel it receives a
// KindUnknown *Error whose underlying error is context.Canceled.
type Task struct {
	url    *url.URL
	state  atomic.Int32
	cancel context.CancelFunc
	done   chan struct{}
}

func newTask(u *url.URL, cancel context.CancelFunc) *Task {
	return &Task{url: u, cancel: cancel, done: make(chan struct{})}
}

// URL is the request URL, fixed when the task was created.
func (t *Task) URL() *url.URL {
	return t.url
}

func (t *Task) State() TaskState {
	return TaskState(t.state.Load())
}

// Cancel aborts the request if it has not finished. Extra calls do nothing.
func (t *Task) Cancel() {
	if t.state.CompareAndSwap(int32(TaskRunning), int32(TaskCancelled)) {
		t.cancel()
	}
}

// Done is closed after the completion handler has returned.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the completion handler has returned or ctx ends.
func (t *Task) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// complete marks the task finished and reports false if Cancel got there first.
func (t *Task) complete() bool {
	return t.state.CompareAndSwap(int32(TaskRunning), int32(TaskCompleted))
}
