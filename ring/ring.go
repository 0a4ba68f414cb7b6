/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
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

// Package ring implements a fixed-capacity single-producer/single-consumer
// queue. It underlies the transport host's event queue and a player's
// input-snapshot history.
//
// Exactly one goroutine may call Push (the producer) and exactly one
// goroutine may call Pop/Peek (the consumer); any other access pattern is
// undefined, per SPEC_FULL.md §4.1.
package ring

import "sync/atomic"

// Ring is a fixed-size SPSC ring buffer of N items. Usable capacity is N-1:
// the ring is full when (write+1) mod N == read, empty when write == read.
type Ring[T any] struct {
	buf   []T
	write atomic.Uint64
	read  atomic.Uint64
}

// New allocates a Ring holding up to capacity-1 usable items.
func New[T any](capacity int) *Ring[T] {
	if capacity < 2 {
		capacity = 2
	}
	return &Ring[T]{buf: make([]T, capacity)}
}

func (r *Ring[T]) next(i uint64) uint64 {
	return (i + 1) % uint64(len(r.buf))
}

// Cap returns N, the number of slots backing the ring (usable capacity is Cap()-1).
func (r *Ring[T]) Cap() int {
	return len(r.buf)
}

// Push enqueues v. Called only by the producer. Returns false if the ring is full.
func (r *Ring[T]) Push(v T) bool {
	w := r.write.Load()
	read := r.read.Load()

	if r.next(w) == read {
		return false
	}

	r.buf[w] = v
	r.write.Store(r.next(w))
	return true
}

// Pop dequeues the head item. Called only by the consumer. Returns false if empty.
func (r *Ring[T]) Pop() (T, bool) {
	var zero T

	read := r.read.Load()
	w := r.write.Load()

	if read == w {
		return zero, false
	}

	v := r.buf[read]
	r.buf[read] = zero
	r.read.Store(r.next(read))
	return v, true
}

// Peek returns the head item without advancing the read index.
func (r *Ring[T]) Peek() (T, bool) {
	var zero T

	read := r.read.Load()
	w := r.write.Load()

	if read == w {
		return zero, false
	}
	return r.buf[read], true
}

// Len returns the number of items currently queued.
func (r *Ring[T]) Len() int {
	w := r.write.Load()
	read := r.read.Load()
	n := len(r.buf)

	if w >= read {
		return int(w - read)
	}
	return n - int(read-w)
}

// IsEmpty reports whether the ring currently has no queued items.
func (r *Ring[T]) IsEmpty() bool {
	return r.read.Load() == r.write.Load()
}

// IsFull reports whether the ring cannot accept another Push.
func (r *Ring[T]) IsFull() bool {
	return r.next(r.write.Load()) == r.read.Load()
}

// Head returns the current read index, exposed for tests and diagnostics.
func (r *Ring[T]) Head() uint64 { return r.read.Load() }

// Tail returns the current write index, exposed for tests and diagnostics.
func (r *Ring[T]) Tail() uint64 { return r.write.Load() }
