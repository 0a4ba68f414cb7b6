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
	"context"
	"sync"
	"time"

	prmsdk "github.com/prometheus/client_golang/prometheus"

	libatomic "github/sabouaram/towerd/atomic"
	liblog "github/sabouaram/towerd/logger"
	"github/sabouaram/towerd/network/protocol"
	"github/sabouaram/towerd/network/session"
	libphysics "github/sabouaram/towerd/physics"
	"github/sabouaram/towerd/packet"
)

// WorldBounds is the static playfield size sent to joining players.
type WorldBounds struct {
	L, W int32
}

// StatusSnapshot is the point-in-time status an operator's CLI reads
// across goroutines without taking the tick loop's own lock.
type StatusSnapshot struct {
	Tick         uint64
	TPS          float64
	CPUUse       float64
	PlayerCount  int
}

// ServerLoop runs the authoritative 30Hz tick loop: drain the network
// ring, advance entities, and emit per-dirty-player state snapshots, per
// SPEC_FULL.md §4.5-§4.6.
type ServerLoop struct {
	clock   *Clock
	ticker  *Ticker
	adapter *session.ServerAdapter
	physics *libphysics.Manager
	log     liblog.Logger
	Stats   *TickStats
	Status  libatomic.Value[StatusSnapshot]

	world     WorldBounds
	mu        sync.Mutex
	players   map[uint64]*Player // keyed by Session.SessionID
	nextID    uint32
	towerNum  uint32
	currentDt float64 // this tick's measured Δt, set at the top of tick()
}

// NewServerLoop wires packet handlers onto d and returns a ready ServerLoop.
// reg may be nil to skip Prometheus registration (e.g. in tests).
func NewServerLoop(adapter *session.ServerAdapter, d *packet.Dispatcher, physicsMgr *libphysics.Manager, world WorldBounds, log liblog.Logger, reg prmsdk.Registerer) *ServerLoop {
	if log == nil {
		log = liblog.Nop()
	}
	sl := &ServerLoop{
		clock:   NewClock(),
		adapter: adapter,
		physics: physicsMgr,
		log:     log,
		Stats:   NewTickStats(reg, "server"),
		Status:  libatomic.NewValue[StatusSnapshot](),
		world:   world,
		players: make(map[uint64]*Player),
	}
	sl.ticker = New(serverTickInterval, sl.tick)

	packet.HandleC2SPlayerJoinRequest(d, sl.onJoinRequest)
	packet.HandleC2SPlayerInputSnapshot(d, sl.onInputSnapshot)
	packet.HandleC2STowerBuildRequest(d, sl.onTowerBuildRequest)

	adapter.OnDisconnect = sl.onDisconnect
	return sl
}

// Start begins the tick loop.
func (sl *ServerLoop) Start(ctx context.Context) error {
	return sl.ticker.Start(ctx)
}

// Stop halts the tick loop.
func (sl *ServerLoop) Stop(ctx context.Context) error {
	return sl.ticker.Stop(ctx)
}

func (sl *ServerLoop) tick(_ context.Context, _ *time.Ticker) error {
	start := time.Now()
	tickNum, dt := sl.clock.Advance()
	if dt <= 0 {
		dt = clientDeltaTime
	}
	sl.currentDt = dt

	sl.adapter.NetworkTick()
	if sl.physics != nil {
		sl.physics.Step(dt)
	}
	sl.flushDirtyPlayers()

	work := time.Since(start)
	sl.Stats.Record(serverTickInterval, work)
	if work > serverTickInterval {
		sl.log.Warn("server overloaded", liblog.Fields{
			"tick":    tickNum,
			"overrun": (work - serverTickInterval).String(),
		})
	}

	sl.mu.Lock()
	playerCount := len(sl.players)
	sl.mu.Unlock()
	sl.Status.Store(StatusSnapshot{
		Tick:        tickNum,
		TPS:         sl.Stats.TPS(),
		CPUUse:      sl.Stats.CPUUse(),
		PlayerCount: playerCount,
	})
	return nil
}

func (sl *ServerLoop) flushDirtyPlayers() {
	sl.mu.Lock()
	defer sl.mu.Unlock()

	for sessID, p := range sl.players {
		if !p.Dirty {
			continue
		}
		p.Dirty = false
		_ = sl.adapter.Send(sessID, 0, packet.S2CPlayerStateSnapshot{
			TickNumber: p.LastAckedTick,
			XPos:       float32(p.Position.X),
			YPos:       float32(p.Position.Y),
		}, protocol.FlagUnreliable)
	}
}

func (sl *ServerLoop) onJoinRequest(_ packet.C2SPlayerJoinRequest, peer packet.Peer) {
	sl.mu.Lock()
	sl.nextID++
	id := sl.nextID
	p := NewPlayer(id, "", libphysics.Vec2{}, InputRingCapacity)
	sl.players[peer.PeerID()] = p
	sl.mu.Unlock()

	_ = sl.adapter.Send(peer.PeerID(), 0, packet.S2CPlayerJoinResponse{
		Success:  1,
		PlayerID: id,
		WorldL:   sl.world.L,
		WorldW:   sl.world.W,
		SpawnX:   float32(p.Position.X),
		SpawnY:   float32(p.Position.Y),
	}, protocol.FlagReliable)

	sl.adapter.Broadcast(0, packet.S2CPlayerCreate{
		PlayerID: id,
		SpawnX:   float32(p.Position.X),
		SpawnY:   float32(p.Position.Y),
	}, protocol.FlagReliable)
}

func (sl *ServerLoop) onInputSnapshot(pkt packet.C2SPlayerInputSnapshot, peer packet.Peer) {
	sl.mu.Lock()
	p, ok := sl.players[peer.PeerID()]
	sl.mu.Unlock()
	if !ok {
		return
	}
	p.ApplyServerInput(pkt.Command.TickNumber, pkt.Command.AxisX, pkt.Command.AxisY, sl.currentDt)
}

func (sl *ServerLoop) onTowerBuildRequest(pkt packet.C2STowerBuildRequest, _ packet.Peer) {
	sl.mu.Lock()
	sl.towerNum++
	id := sl.towerNum
	sl.mu.Unlock()

	sl.adapter.Broadcast(0, packet.S2CTowerCreate{
		XPos:          pkt.XPos,
		YPos:          pkt.YPos,
		TowerDefIndex: pkt.TowerDefIndex,
		TowerID:       id,
	}, protocol.FlagReliable)
}

func (sl *ServerLoop) onDisconnect(s *session.Session) {
	sl.mu.Lock()
	delete(sl.players, s.SessionID)
	sl.mu.Unlock()
}
