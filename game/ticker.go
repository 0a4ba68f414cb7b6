/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package game implements the fixed-timestep tick loops, player
// prediction/reconciliation, and per-tick stats described by SPEC_FULL.md
// §4.5-§4.6.
package game

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Ticker is a single runnable driven on a fixed interval. The server tick
// loop runs on it; the client loop does not use it and is stepped through
// ClientLoop.Advance instead.
type Ticker struct {
	interval time.Duration
	fn       func(ctx context.Context, tck *time.Ticker) error

	mu      sync.Mutex
	running atomic.Bool
	cancel  context.CancelFunc
	done    chan struct{}
	start   atomic.Int64 // UnixNano, 0 when stopped
}

// New returns a Ticker that calls fn every interval once started.
func New(interval time.Duration, fn func(ctx context.Context, tck *time.Ticker) error) *Ticker {
	return &Ticker{interval: interval, fn: fn}
}

// Start begins the ticker loop in a background goroutine. Calling Start on
// an already-running ticker is a no-op.
func (t *Ticker) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running.Load() {
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.done = make(chan struct{})
	t.running.Store(true)
	t.start.Store(time.Now().UnixNano())

	go t.loop(runCtx, t.done)
	return nil
}

func (t *Ticker) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	tck := time.NewTicker(t.interval)
	defer tck.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-tck.C:
			_ = t.fn(ctx, tck)
		}
	}
}

// Stop halts the ticker and blocks until its goroutine has exited.
func (t *Ticker) Stop(_ context.Context) error {
	t.mu.Lock()
	if !t.running.Load() {
		t.mu.Unlock()
		return nil
	}
	cancel := t.cancel
	done := t.done
	t.mu.Unlock()

	cancel()
	<-done

	t.running.Store(false)
	t.start.Store(0)
	return nil
}

// IsRunning reports whether the ticker's loop goroutine is active.
func (t *Ticker) IsRunning() bool {
	return t.running.Load()
}

// Uptime returns the duration since Start, or zero if not running.
func (t *Ticker) Uptime() time.Duration {
	s := t.start.Load()
	if s == 0 {
		return 0
	}
	return time.Since(time.Unix(0, s))
}
