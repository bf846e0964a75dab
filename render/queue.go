// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"context"
	"sync"
)

// Queue executes draw commands. Submit returns false when the queue cannot
// accept work; otherwise cmd runs exactly once and done receives its result.
type Queue interface {
	Submit(cmd func() error, done func(error)) bool
}

// InlineQueue runs commands synchronously on the submitting goroutine.
type InlineQueue struct{}

// Submit implements Queue.
func (InlineQueue) Submit(cmd func() error, done func(error)) bool {
	done(cmd())
	return true
}

// AsyncQueue runs commands in order on one background goroutine, the way a
// GPU command queue completes work after submission returns.
type AsyncQueue struct {
	mu     sync.Mutex
	work   chan job
	stop   chan struct{}
	closed bool
	wg     sync.WaitGroup
}

type job struct {
	cmd  func() error
	done func(error)
}

// NewAsyncQueue starts a queue holding at most depth pending commands.
// It stops accepting work when ctx is done or Close is called.
func NewAsyncQueue(ctx context.Context, depth int) *AsyncQueue {
	q := &AsyncQueue{
		work: make(chan job, max(depth, 1)),
		stop: make(chan struct{}),
	}
	q.wg.Add(1)
	go q.loop()
	go func() {
		select {
		case <-ctx.Done():
			q.Close()
		case <-q.stop:
		}
	}()
	return q
}

func (q *AsyncQueue) loop() {
	defer q.wg.Done()
	for j := range q.work {
		j.done(j.cmd())
	}
}

// Submit implements Queue. It never blocks; a full or closed queue
// rejects the command.
func (q *AsyncQueue) Submit(cmd func() error, done func(error)) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	select {
	case q.work <- job{cmd: cmd, done: done}:
		return true
	default:
		return false
	}
}

// Close stops accepting work and waits for pending commands to finish.
func (q *AsyncQueue) Close() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.work)
		close(q.stop)
	}
	q.mu.Unlock()
	q.wg.Wait()
}
