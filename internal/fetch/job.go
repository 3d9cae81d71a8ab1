// Package fetch retrieves assets from a remote mirror or a local directory
// without blocking the caller.
package fetch

import (
	"context"
	"errors"
	"sync/atomic"
)

var (
	// ErrPending is returned by Take before the job has finished.
	ErrPending = errors.New("fetch still pending")
	// ErrConsumed is returned by Take after the result was already taken.
	ErrConsumed = errors.New("fetch result already consumed")
	// ErrOutsideRoot is returned for paths that would escape the source root.
	ErrOutsideRoot = errors.New("path escapes source root")
)

// State is the lifecycle of a job.
type State int

const (
	Pending State = iota
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case Pending:
		return "Pending"
	case Done:
		return "Done"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Job is a single asset retrieval. It is safe to poll from one goroutine
// while the transfer runs on another.
type Job struct {
	path   string
	cancel context.CancelFunc
	done   chan struct{}
	bytes  atomic.Int64
	taken  atomic.Bool

	// written once before done is closed
	file string
	err  error
}

func newJob(path string, cancel context.CancelFunc) *Job {
	return &Job{
		path:   path,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// Path returns the relative path the job was created for.
func (j *Job) Path() string { return j.path }

// IsDone reports whether the job has finished, successfully or not.
func (j *Job) IsDone() bool {
	select {
	case <-j.done:
		return true
	default:
		return false
	}
}

// Done returns a channel closed when the job finishes.
func (j *Job) Done() <-chan struct{} { return j.done }

// State returns the current lifecycle state.
func (j *Job) State() State {
	if !j.IsDone() {
		return Pending
	}
	if j.err != nil {
		return Failed
	}
	return Done
}

// Bytes returns the number of bytes retrieved so far.
func (j *Job) Bytes() int64 { return j.bytes.Load() }

// Take returns the local file or the failure. It succeeds exactly once.
func (j *Job) Take() (string, error) {
	if !j.IsDone() {
		return "", ErrPending
	}
	if !j.taken.CompareAndSwap(false, true) {
		return "", ErrConsumed
	}
	return j.file, j.err
}

// Cancel aborts the transfer. A cancelled job ends Failed with context.Canceled
// and leaves no partial file behind.
func (j *Job) Cancel() { j.cancel() }

func (j *Job) finish(file string, err error) {
	j.file = file
	j.err = err
	j.cancel()
	close(j.done)
}

// countingWriter records transfer progress on the job.
type countingWriter struct {
	job *Job
}

func (w countingWriter) Write(p []byte) (int, error) {
	w.job.bytes.Add(int64(len(p)))
	return len(p), nil
}
