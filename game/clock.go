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

package game

import "time"

const (
	// ServerTargetTickrate is the server simulation cadence.
	ServerTargetTickrate = 30
	// ClientTickrate is the client simulation cadence.
	ClientTickrate = 30

	serverTickInterval = time.Second / ServerTargetTickrate
	clientDeltaTime    = 1.0 / float64(ClientTickrate)
)

// Clock hands out a monotonically increasing tick number and the seconds
// elapsed since the previous tick, shared by both tick loops.
type Clock struct {
	tick uint64
	last time.Time
}

// NewClock returns a Clock with its reference instant set to now.
func NewClock() *Clock {
	return &Clock{last: time.Now()}
}

// Advance increments the tick counter and returns (tickNumber, deltaSeconds).
func (c *Clock) Advance() (uint64, float64) {
	now := time.Now()
	dt := now.Sub(c.last).Seconds()
	c.last = now
	c.tick++
	return c.tick, dt
}

// Tick returns the current tick number without advancing the clock.
func (c *Clock) Tick() uint64 {
	return c.tick
}
