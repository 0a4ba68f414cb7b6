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
	libphysics "github/sabouaram/towerd/physics"
	libring "github/sabouaram/towerd/ring"
)

const (
	// PlayerSpeed is the movement formula's units-per-second constant.
	PlayerSpeed = 200.0
	// MaxDiversion is the divergence magnitude at or below which the client
	// accepts its prediction unchanged.
	MaxDiversion = 1.5
	// MaxTeleportDistance is the divergence magnitude at or beyond which
	// the client treats its state as irrecoverable and snaps.
	MaxTeleportDistance = 5.0
	// InputRingCapacity is the default usable capacity of a player's
	// input-snapshot history ring.
	InputRingCapacity = 64
)

// InputSnapshot is one entry in a player's input history: the tick it was
// produced for, the raw axis pair, and the position predicted from it.
type InputSnapshot struct {
	TickNumber        uint64
	AxisX, AxisY      int32
	PredictedPosition libphysics.Vec2
}

// Player is a client- or server-side player entity: identity, position,
// and (on the client) a ring of recent input snapshots used to reconcile
// against authoritative server updates.
type Player struct {
	ID            uint32
	DisplayName   string
	Position      libphysics.Vec2
	LastAckedTick uint64
	Dirty         bool

	inputs *libring.Ring[InputSnapshot]
}

// NewPlayer returns a Player at spawn with an empty input ring sized to
// capacity usable entries.
func NewPlayer(id uint32, name string, spawn libphysics.Vec2, capacity int) *Player {
	if capacity <= 0 {
		capacity = InputRingCapacity
	}
	return &Player{
		ID:          id,
		DisplayName: name,
		Position:    spawn,
		inputs:      libring.New[InputSnapshot](capacity + 1),
	}
}

// move applies the shared movement formula: normalize the axis pair,
// scale by PlayerSpeed*dt, and add to pos.
func move(pos libphysics.Vec2, axisX, axisY int32, dt float64) libphysics.Vec2 {
	dir := libphysics.Vec2{X: float64(axisX), Y: float64(axisY)}.Normalized()
	return pos.Add(dir.Scale(PlayerSpeed * dt))
}

// ApplyInput runs the client-side prediction step: moves the player,
// pushes the resulting snapshot into the input ring, and returns it for
// the caller to serialize as c2s_player_input_snapshot.
func (p *Player) ApplyInput(tick uint64, axisX, axisY int32, dt float64) (InputSnapshot, error) {
	p.Position = move(p.Position, axisX, axisY, dt)
	snap := InputSnapshot{TickNumber: tick, AxisX: axisX, AxisY: axisY, PredictedPosition: p.Position}
	if !p.inputs.Push(snap) {
		return snap, libring.CodeRingFull.Error()
	}
	return snap, nil
}

// ApplyServerInput runs the server-side authoritative move for a received
// c2s_player_input_snapshot, recording the acked tick and marking the
// player dirty so the tick loop emits a state snapshot.
func (p *Player) ApplyServerInput(tickNumber uint64, axisX, axisY int32, dt float64) {
	p.Position = move(p.Position, axisX, axisY, dt)
	p.LastAckedTick = tickNumber
	p.Dirty = true
}

// Reconcile applies an s2c_player_state_snapshot ack against the client's
// prediction history, per SPEC_FULL.md §4.6.
func (p *Player) Reconcile(ackedTick uint64, serverPos libphysics.Vec2, dt float64) {
	for {
		head, ok := p.inputs.Peek()
		if !ok || head.TickNumber >= ackedTick {
			break
		}
		p.inputs.Pop()
	}

	head, ok := p.inputs.Peek()
	if !ok || head.TickNumber != ackedTick {
		return
	}
	p.inputs.Pop()
	predicted := head.PredictedPosition

	divergence := serverPos.Sub(predicted)
	d := divergence.Length()

	switch {
	case d <= MaxDiversion:
		return
	case d < MaxTeleportDistance:
		remaining := p.drainAll()
		pos := serverPos
		for i := range remaining {
			pos = move(pos, remaining[i].AxisX, remaining[i].AxisY, dt)
			remaining[i].PredictedPosition = pos
		}
		for _, s := range remaining {
			p.inputs.Push(s)
		}
		p.Position = pos
	default:
		p.drainAll()
		p.Position = serverPos
	}
}

func (p *Player) drainAll() []InputSnapshot {
	var out []InputSnapshot
	for {
		s, ok := p.inputs.Pop()
		if !ok {
			break
		}
		out = append(out, s)
	}
	return out
}

// PendingInputs returns the number of snapshots currently held in the
// input ring, exposed for tests and diagnostics.
func (p *Player) PendingInputs() int {
	return p.inputs.Len()
}
