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

package host

import (
	"context"
	"net"
	"time"

	liblog "github/sabouaram/towerd/logger"
	"github/sabouaram/towerd/network/protocol"
)

type rawDatagram struct {
	addr *net.UDPAddr
	data []byte
}

// readLoop owns the socket reads. It polls with short deadlines so it can
// observe ctx cancellation instead of blocking forever in ReadFromUDP.
func (h *Host) readLoop(ctx context.Context, out chan<- rawDatagram) error {
	buf := make([]byte, 65536)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		_ = h.conn.SetReadDeadline(time.Now().Add(servicePollInterval))
		n, addr, err := h.conn.ReadFromUDP(buf)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			return nil
		}

		if h.inLimiter != nil {
			_ = h.inLimiter.WaitN(ctx, n)
		}

		data := append([]byte(nil), buf[:n]...)
		select {
		case out <- rawDatagram{addr: addr, data: data}:
		case <-ctx.Done():
			return nil
		default:
			// SPEC_FULL.md §4.8: a single short yield-retry before dropping.
			time.Sleep(100 * time.Microsecond)
			select {
			case out <- rawDatagram{addr: addr, data: data}:
			case <-ctx.Done():
				return nil
			default:
				h.log.Warn("dropped inbound datagram, worker busy", nil)
			}
		}
	}
}

// worker is the background service loop described by SPEC_FULL.md §4.2: it
// services the socket every 100ms, translates transport activity into
// events on the host's SPSC ring, and drives the shutdown state machine.
func (h *Host) worker(ctx context.Context, rawCh <-chan rawDatagram) {
	ticker := time.NewTicker(servicePollInterval)
	defer ticker.Stop()

	for {
		select {
		case dg, ok := <-rawCh:
			if !ok {
				h.cancel()
				return
			}
			h.handleDatagram(dg.addr, dg.data)
		case <-ticker.C:
			if h.serviceTick() {
				h.cancel()
				return
			}
		}
	}
}

func (h *Host) serviceTick() (shouldStop bool) {
	now := time.Now()

	switch State(h.state.Load()) {
	case StateShutdownRequested:
		h.state.Store(uint32(StateShuttingDown))
		h.shutdownStart = now
		h.disconnectAllPeers()
	case StateShuttingDown:
		if h.peerCount() == 0 || now.Sub(h.shutdownStart) > shutdownDeadline {
			return true
		}
	}

	h.resendDuePeers(now)
	return false
}

func (h *Host) disconnectAllPeers() {
	h.peersMu.RLock()
	ids := make([]protocol.PeerID, 0, len(h.peers))
	for id := range h.peers {
		ids = append(ids, id)
	}
	h.peersMu.RUnlock()

	for _, id := range ids {
		h.DisconnectLater(id, protocol.ReasonShutdown)
	}
}

func (h *Host) peerCount() int {
	h.peersMu.RLock()
	defer h.peersMu.RUnlock()
	return len(h.peers)
}

func (h *Host) resendDuePeers(now time.Time) {
	h.peersMu.RLock()
	peers := make([]*Peer, 0, len(h.peers))
	for _, p := range h.peers {
		peers = append(peers, p)
	}
	h.peersMu.RUnlock()

	for _, p := range peers {
		resend, timedOut := p.duePending(now)
		for _, wire := range resend {
			_, _ = h.conn.WriteToUDP(wire, p.addr)
		}
		if timedOut {
			h.removePeer(p, protocol.ReasonTimeout)
		}
	}
}

func (h *Host) removePeer(p *Peer, reason protocol.DisconnectReason) {
	h.peersMu.Lock()
	if _, ok := h.peers[p.id]; !ok {
		h.peersMu.Unlock()
		return
	}
	delete(h.peers, p.id)
	delete(h.byAddr, p.addr.String())
	h.peersMu.Unlock()
	h.slots.Release(1)

	h.pushEvent(protocol.Event{Type: protocol.EventDisconnect, Peer: p.id, Addr: p.addr, UserData: uint32(reason)})
}

// pushEvent enqueues ev onto the host's event ring, giving the producer a
// single short retry before dropping per SPEC_FULL.md §4.8.
func (h *Host) pushEvent(ev protocol.Event) {
	if h.events.Push(ev) {
		return
	}
	time.Sleep(100 * time.Microsecond)
	if h.events.Push(ev) {
		return
	}
	ev.Payload = nil
	h.log.Warn("dropped event: ring full", liblog.Fields{"type": ev.Type.String()})
}

func (h *Host) handleDatagram(addr *net.UDPAddr, data []byte) {
	env, ok := decodeEnvelope(data)
	if !ok {
		return
	}

	switch env.kind {
	case envConnect:
		h.handleConnect(addr, env)
	case envConnectAck:
		h.handleConnectAck(env)
	case envAck:
		if p := h.peerByAddr(addr); p != nil {
			p.ack(env.seq)
		}
	case envDisconnect:
		if p := h.peerByAddr(addr); p != nil {
			h.removePeer(p, protocol.DisconnectReason(env.reason))
		}
	case envData:
		h.handleData(addr, env)
	}
}

func (h *Host) peerByAddr(addr *net.UDPAddr) *Peer {
	h.peersMu.RLock()
	defer h.peersMu.RUnlock()
	if h.cfg.Role == RoleClient {
		return h.serverPeer
	}
	return h.byAddr[addr.String()]
}

func (h *Host) handleConnect(addr *net.UDPAddr, env envelope) {
	if h.cfg.Role != RoleServer {
		return
	}

	if p := h.peerByAddr(addr); p != nil {
		ack := encodeEnvelope(envelope{kind: envConnectAck, peerID: uint64(p.id)})
		_, _ = h.conn.WriteToUDP(ack, addr)
		return
	}

	if !h.slots.TryAcquire(1) {
		full := encodeEnvelope(envelope{kind: envDisconnect, reason: uint32(protocol.ReasonServerFull)})
		_, _ = h.conn.WriteToUDP(full, addr)
		return
	}

	id := protocol.PeerID(h.nextPeerID.Add(1))
	p := newPeer(id, addr)
	p.userData = env.userData

	h.peersMu.Lock()
	h.peers[id] = p
	h.byAddr[addr.String()] = p
	h.peersMu.Unlock()

	ack := encodeEnvelope(envelope{kind: envConnectAck, peerID: uint64(id)})
	_, _ = h.conn.WriteToUDP(ack, addr)

	h.pushEvent(protocol.Event{Type: protocol.EventConnect, Peer: id, Addr: addr, UserData: env.userData})
}

func (h *Host) handleConnectAck(env envelope) {
	if h.cfg.Role != RoleClient {
		return
	}

	h.peersMu.Lock()
	if h.serverPeer == nil {
		h.peersMu.Unlock()
		return
	}
	alreadyConnected := h.serverPeer.id != 0
	id := protocol.PeerID(env.peerID)
	if !alreadyConnected {
		h.serverPeer.id = id
		h.peers[id] = h.serverPeer
		h.byAddr[h.serverPeer.addr.String()] = h.serverPeer
	}
	addr := h.serverPeer.addr
	h.peersMu.Unlock()

	if alreadyConnected {
		return
	}

	h.pushEvent(protocol.Event{Type: protocol.EventConnect, Peer: id, Addr: addr})

	select {
	case h.connectResult <- nil:
	default:
	}
}

func (h *Host) handleData(addr *net.UDPAddr, env envelope) {
	p := h.peerByAddr(addr)
	if p == nil {
		return
	}

	if env.reliable {
		ack := encodeEnvelope(envelope{kind: envAck, seq: env.seq})
		_, _ = h.conn.WriteToUDP(ack, addr)

		if p.seen(env.seq) {
			return
		}
	}

	h.pushEvent(protocol.Event{
		Type:      protocol.EventReceive,
		Peer:      p.id,
		Addr:      addr,
		ChannelID: env.channel,
		Payload:   env.payload,
	})
}
