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

// Package session implements the network adapter layer sitting above a
// host (SPEC_FULL.md §4.4): it classifies host events, walks Receive
// payloads into the packet dispatcher, and maintains per-role session
// bookkeeping (a dense, swap-remove session array on the server; a single
// server peer on the client).
package session

import (
	"net"

	libatomic "github/sabouaram/towerd/atomic"
	"github/sabouaram/towerd/network/host"
	"github/sabouaram/towerd/network/protocol"
	"github/sabouaram/towerd/packet"
)

// Session is one connected client as seen by the server adapter. Handlers
// address a peer by SessionID rather than the host's internal PeerID, per
// SPEC_FULL.md §4.4 ("sending by sessionID writes through the peer
// pointer").
type Session struct {
	SessionID uint64
	peerID    protocol.PeerID
	Addr      *net.UDPAddr

	PlayerID  uint32
	HasPlayer bool
}

// PeerID satisfies packet.Peer.
func (s *Session) PeerID() uint64 { return s.SessionID }

// ServerAdapter maintains the dense session array described by
// SPEC_FULL.md §4.4 and routes host events into a packet.Dispatcher.
type ServerAdapter struct {
	host       *host.Host
	dispatcher *packet.Dispatcher

	sessions      []*Session
	indexBySessID libatomic.MapTyped[uint64, int]
	indexByPeer   libatomic.MapTyped[protocol.PeerID, int]
	nextSessionID uint64
	maxSessions   int

	OnConnect    func(s *Session)
	OnDisconnect func(s *Session)
}

// NewServerAdapter wraps h with session bookkeeping bounded to maxSessions.
func NewServerAdapter(h *host.Host, d *packet.Dispatcher, maxSessions int) *ServerAdapter {
	return &ServerAdapter{
		host:          h,
		dispatcher:    d,
		sessions:      make([]*Session, 0, maxSessions),
		indexBySessID: libatomic.NewMapTyped[uint64, int](),
		indexByPeer:   libatomic.NewMapTyped[protocol.PeerID, int](),
		maxSessions:   maxSessions,
	}
}

// NetworkTick drains the host's event ring, classifying Connect/Disconnect
// events and feeding Receive payloads to the dispatcher.
func (a *ServerAdapter) NetworkTick() {
	for {
		ev, ok := a.host.CheckEvents()
		if !ok {
			return
		}
		switch ev.Type {
		case protocol.EventConnect:
			a.handleConnect(ev)
		case protocol.EventDisconnect:
			a.handleDisconnect(ev)
		case protocol.EventReceive:
			a.handleReceive(ev)
		}
	}
}

func (a *ServerAdapter) handleConnect(ev protocol.Event) {
	if len(a.sessions) >= a.maxSessions {
		a.host.DisconnectLater(ev.Peer, protocol.ReasonNone)
		return
	}

	a.nextSessionID++
	s := &Session{SessionID: a.nextSessionID, peerID: ev.Peer, Addr: ev.Addr}

	a.indexBySessID.Store(s.SessionID, len(a.sessions))
	a.indexByPeer.Store(ev.Peer, len(a.sessions))
	a.sessions = append(a.sessions, s)

	if a.OnConnect != nil {
		a.OnConnect(s)
	}
}

func (a *ServerAdapter) handleDisconnect(ev protocol.Event) {
	idx, ok := a.indexByPeer.Load(ev.Peer)
	if !ok {
		return
	}
	s := a.sessions[idx]

	if a.OnDisconnect != nil {
		a.OnDisconnect(s)
	}

	last := len(a.sessions) - 1
	moved := a.sessions[last]
	a.sessions[idx] = moved
	a.sessions = a.sessions[:last]

	a.indexBySessID.Store(moved.SessionID, idx)
	a.indexByPeer.Store(moved.peerID, idx)
	a.indexBySessID.Delete(s.SessionID)
	a.indexByPeer.Delete(s.peerID)
}

func (a *ServerAdapter) handleReceive(ev protocol.Event) {
	idx, ok := a.indexByPeer.Load(ev.Peer)
	if !ok {
		return
	}
	_ = a.dispatcher.Dispatch(ev.Payload, a.sessions[idx])
}

// Send queues payload to the session addressed by sessionID.
func (a *ServerAdapter) Send(sessionID uint64, channel uint8, pkt packet.Packet, flag protocol.SendFlag) error {
	idx, ok := a.indexBySessID.Load(sessionID)
	if !ok {
		return CodeSessionNotFound.Error()
	}
	return a.host.Send(a.sessions[idx].peerID, channel, packet.Encode(pkt), flag)
}

// Broadcast queues payload to every connected session.
func (a *ServerAdapter) Broadcast(channel uint8, pkt packet.Packet, flag protocol.SendFlag) {
	a.host.Broadcast(channel, packet.Encode(pkt), flag)
}

// Sessions returns the live dense session array; callers must not retain it
// across a NetworkTick call, since swap-remove mutates it in place.
func (a *ServerAdapter) Sessions() []*Session {
	return a.sessions
}
