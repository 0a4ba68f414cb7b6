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
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	liblog "github/sabouaram/towerd/logger"
	"github/sabouaram/towerd/network/protocol"
	"github/sabouaram/towerd/ring"
)

// Host owns a UDP socket and a background worker goroutine that services
// it, translating transport activity into events pushed onto a lock-free
// SPSC ring for the game thread to drain (SPEC_FULL.md §4.2).
type Host struct {
	cfg Config
	log liblog.Logger

	conn *net.UDPConn

	state         atomic.Uint32
	stateMu       sync.Mutex
	shutdownStart time.Time

	events *ring.Ring[protocol.Event]

	peersMu    sync.RWMutex
	peers      map[protocol.PeerID]*Peer
	byAddr     map[string]*Peer
	nextPeerID atomic.Uint64
	slots      *semaphore.Weighted

	inLimiter  *rate.Limiter
	outLimiter *rate.Limiter

	group    *errgroup.Group
	groupCtx context.Context
	cancel   context.CancelFunc

	connectOnce   sync.Once
	connectResult chan error
	serverPeer    *Peer // client-side: the single peer representing the server
}

func bandwidthLimiter(bytesPerSec uint32) *rate.Limiter {
	if bytesPerSec == 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(bytesPerSec), int(bytesPerSec))
}

// Create binds (server) or prepares (client) a UDP socket and starts the
// worker goroutine in the RUNNING state. It does not, for a client, wait
// for a Connect event — that is ClientConnect's job.
func Create(cfg Config, log liblog.Logger) (*Host, error) {
	if log == nil {
		log = liblog.Nop()
	}

	var (
		conn *net.UDPConn
		err  error
	)

	lc := net.ListenConfig{Control: controlReuseAddr}

	switch cfg.Role {
	case RoleServer:
		if cfg.BindAddr == "" || cfg.PeerCount <= 0 {
			return nil, CodeConfigInvalid.Error()
		}
		var pc net.PacketConn
		pc, err = lc.ListenPacket(context.Background(), "udp", cfg.BindAddr)
		if err != nil {
			return nil, CodeTransportError.Error(err)
		}
		conn = pc.(*net.UDPConn)
	case RoleClient:
		if cfg.ConnectAddr == "" {
			return nil, CodeConfigInvalid.Error()
		}
		var pc net.PacketConn
		pc, err = lc.ListenPacket(context.Background(), "udp", ":0")
		if err != nil {
			return nil, CodeTransportError.Error(err)
		}
		conn = pc.(*net.UDPConn)
	default:
		return nil, CodeConfigInvalid.Error()
	}

	peerCount := cfg.PeerCount
	if cfg.Role == RoleClient {
		peerCount = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(ctx)

	h := &Host{
		cfg:           cfg,
		log:           log.WithField("component", "network.host"),
		conn:          conn,
		events:        ring.New[protocol.Event](eventRingCapacity),
		peers:         make(map[protocol.PeerID]*Peer),
		byAddr:        make(map[string]*Peer),
		slots:         semaphore.NewWeighted(int64(peerCount)),
		inLimiter:     bandwidthLimiter(cfg.IncomingBandwidth),
		outLimiter:    bandwidthLimiter(cfg.OutgoingBandwidth),
		group:         g,
		groupCtx:      gctx,
		cancel:        cancel,
		connectResult: make(chan error, 1),
	}
	h.state.Store(uint32(StateRunning))

	rawCh := make(chan rawDatagram, 256)
	g.Go(func() error {
		return h.readLoop(gctx, rawCh)
	})
	g.Go(func() error {
		h.worker(gctx, rawCh)
		return nil
	})

	return h, nil
}

func (h *Host) State() State {
	return State(h.state.Load())
}

// LocalAddr returns the address this host's socket is bound to, useful
// when BindAddr used an ephemeral port (":0").
func (h *Host) LocalAddr() string {
	return h.conn.LocalAddr().String()
}

// ClientConnect blocks until the server reports a Connect event or the
// configured connect timeout elapses. Fails if already connected, if this
// host is not a client, or on timeout.
func (h *Host) ClientConnect() error {
	if h.cfg.Role != RoleClient {
		return CodeNotClient.Error()
	}

	var alreadyTried bool
	h.connectOnce.Do(func() {
		alreadyTried = true
		addr, err := net.ResolveUDPAddr("udp", h.cfg.ConnectAddr)
		if err != nil {
			h.connectResult <- CodeConfigInvalid.Error(err)
			return
		}
		h.peersMu.Lock()
		h.serverPeer = newPeer(0, addr)
		h.peersMu.Unlock()

		pkt := encodeEnvelope(envelope{kind: envConnect, userData: 0})
		_, _ = h.conn.WriteToUDP(pkt, addr)
	})
	if !alreadyTried {
		return CodeAlreadyConnected.Error()
	}

	select {
	case err := <-h.connectResult:
		return err
	case <-time.After(h.cfg.connectTimeout()):
		return CodeTimeout.Error()
	}
}

// CheckEvents is non-blocking: it pops one event from the ring if present.
func (h *Host) CheckEvents() (protocol.Event, bool) {
	return h.events.Pop()
}

// Send queues payload for delivery to peer with the given flag and channel.
// On success the host owns payload; on failure the caller still owns it.
func (h *Host) Send(peerID protocol.PeerID, channel uint8, payload []byte, flag protocol.SendFlag) error {
	p := h.lookupPeer(peerID)
	if p == nil {
		return CodeTransportError.Error()
	}
	return h.sendTo(p, channel, payload, flag)
}

// Broadcast queues payload for delivery to every connected peer.
func (h *Host) Broadcast(channel uint8, payload []byte, flag protocol.SendFlag) {
	h.peersMu.RLock()
	targets := make([]*Peer, 0, len(h.peers))
	for _, p := range h.peers {
		targets = append(targets, p)
	}
	h.peersMu.RUnlock()

	for _, p := range targets {
		_ = h.sendTo(p, channel, append([]byte(nil), payload...), flag)
	}
}

func (h *Host) sendTo(p *Peer, channel uint8, payload []byte, flag protocol.SendFlag) error {
	reliable := flagToEnvelope(flag)
	env := envelope{kind: envData, reliable: reliable, channel: channel, payload: payload}
	if reliable {
		env.seq = p.nextSequence()
	}
	wire := encodeEnvelope(env)

	if h.outLimiter != nil {
		_ = h.outLimiter.WaitN(h.groupCtx, len(wire))
	}

	if _, err := h.conn.WriteToUDP(wire, p.addr); err != nil {
		return CodeTransportError.Error(err)
	}
	if reliable {
		p.trackReliable(env.seq, wire)
	}
	return nil
}

// Flush is a no-op here: every Send already writes straight to the socket,
// there is no user-space send queue to drain. Kept to satisfy the
// operation named in SPEC_FULL.md §4.2.
func (h *Host) Flush() {}

// Compress installs a codec on the wire; this implementation carries
// plaintext only (SPEC_FULL.md §1 Non-goals: no encryption, and no
// compression codec appears anywhere in the example pack to wire in), so
// Compress is accepted but has no effect, matching the documented
// implementer's-choice allowance in SPEC_FULL.md §4.2.
func (h *Host) Compress(_ any) {}

// DisconnectLater requests a graceful disconnect: any already-queued bytes
// are still delivered, then a disconnect envelope with data is sent.
func (h *Host) DisconnectLater(peerID protocol.PeerID, reason protocol.DisconnectReason) {
	p := h.lookupPeer(peerID)
	if p == nil {
		return
	}
	wire := encodeEnvelope(envelope{kind: envDisconnect, reason: uint32(reason)})
	_, _ = h.conn.WriteToUDP(wire, p.addr)
}

func (h *Host) lookupPeer(id protocol.PeerID) *Peer {
	h.peersMu.RLock()
	defer h.peersMu.RUnlock()
	if h.cfg.Role == RoleClient {
		return h.serverPeer
	}
	return h.peers[id]
}

// Destroy requests shutdown and joins the worker, per SPEC_FULL.md §4.2's
// state machine; it blocks until the worker reaches STOPPED or the 15s
// shutdown deadline elapses.
func (h *Host) Destroy() error {
	h.stateMu.Lock()
	if State(h.state.Load()) == StateRunning {
		h.state.Store(uint32(StateShutdownRequested))
	}
	h.stateMu.Unlock()

	// worker() transitions SHUTDOWN_REQUESTED->SHUTTING_DOWN itself on its next service
	// tick, drains peers or the 15s deadline, then calls h.cancel(); wait
	// for that here rather than forcing an immediate stop.
	_ = h.group.Wait()
	_ = h.conn.Close()
	h.state.Store(uint32(StateStopped))
	return nil
}
