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

import (
	"sync"
	"time"

	prmsdk "github.com/prometheus/client_golang/prometheus"

	liblog "github/sabouaram/towerd/logger"
	"github/sabouaram/towerd/network/protocol"
	"github/sabouaram/towerd/network/session"
	libphysics "github/sabouaram/towerd/physics"
	"github/sabouaram/towerd/packet"
)

// ClientLoop runs the client-side fixed-timestep simulation described by
// SPEC_FULL.md §4.5: an accumulator drains zero or more Δt=1/30 steps per
// call to Advance, leaving a render-interpolation alpha. Window/overlay
// updates and camera advancement are external collaborators out of scope
// here; only the simulation steps they would bracket are implemented.
type ClientLoop struct {
	adapter *session.ClientAdapter
	player  *Player
	log     liblog.Logger
	Stats   *TickStats

	accumulator time.Duration
	lastUpdate  time.Time
	tickNum     uint64

	axisMu       sync.Mutex
	axisX, axisY int32
}

// NewClientLoop wires the state-snapshot handler onto d and returns a
// ready ClientLoop. reg may be nil to skip Prometheus registration.
func NewClientLoop(adapter *session.ClientAdapter, d *packet.Dispatcher, player *Player, log liblog.Logger, reg prmsdk.Registerer) *ClientLoop {
	if log == nil {
		log = liblog.Nop()
	}
	cl := &ClientLoop{
		adapter:    adapter,
		player:     player,
		log:        log,
		Stats:      NewTickStats(reg, "client"),
		lastUpdate: time.Now(),
	}
	packet.HandleS2CPlayerStateSnapshot(d, cl.onStateSnapshot)
	return cl
}

// SetAxis records the current input axis pair for the next simulation step.
func (cl *ClientLoop) SetAxis(x, y int32) {
	cl.axisMu.Lock()
	cl.axisX, cl.axisY = x, y
	cl.axisMu.Unlock()
}

// Advance folds elapsed wall-clock time into the accumulator and runs
// every whole Δt=1/30 step it can afford, returning the leftover fraction
// as a render-interpolation alpha in [0, 1).
func (cl *ClientLoop) Advance() float64 {
	now := time.Now()
	cl.accumulator += now.Sub(cl.lastUpdate)
	cl.lastUpdate = now

	dt := time.Duration(float64(time.Second) * clientDeltaTime)
	for cl.accumulator >= dt {
		start := time.Now()
		cl.step()
		cl.accumulator -= dt
		cl.Stats.Record(dt, time.Since(start))
	}
	return cl.accumulator.Seconds() / dt.Seconds()
}

func (cl *ClientLoop) step() {
	cl.axisMu.Lock()
	ax, ay := cl.axisX, cl.axisY
	cl.axisMu.Unlock()

	cl.adapter.NetworkTick()

	cl.tickNum++
	snap, err := cl.player.ApplyInput(cl.tickNum, ax, ay, clientDeltaTime)
	if err != nil {
		cl.log.Warn("input ring full, dropping prediction", liblog.Fields{"tick": cl.tickNum})
		return
	}

	_ = cl.adapter.Send(0, packet.C2SPlayerInputSnapshot{
		Command: packet.InputCommand{TickNumber: snap.TickNumber, AxisX: snap.AxisX, AxisY: snap.AxisY},
	}, protocol.FlagUnreliable)
}

func (cl *ClientLoop) onStateSnapshot(pkt packet.S2CPlayerStateSnapshot, _ packet.Peer) {
	cl.player.Reconcile(pkt.TickNumber, libphysics.Vec2{X: float64(pkt.XPos), Y: float64(pkt.YPos)}, clientDeltaTime)
}
