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
	"net"
	"sync"
	"time"

	"github/sabouaram/towerd/network/protocol"
)

type pendingReliable struct {
	data     []byte
	sentAt   time.Time
	retries  int
}

// Peer is one connected remote endpoint. Its user-data slot holds the
// 32-bit datum carried by the connect envelope: on a server host the worker
// thread sets it once, before the peer is added to the host's peer maps,
// and nothing writes it afterwards; a client host leaves it 0. No session
// or other game-thread context is stored on the peer.
type Peer struct {
	id       protocol.PeerID
	addr     *net.UDPAddr
	userData uint32

	mu       sync.Mutex
	nextSeq  uint32
	pending  map[uint32]*pendingReliable
	lastSeen map[uint32]struct{} // de-dupes retransmitted reliable datagrams

	disconnecting bool
}

// PeerID satisfies packet.Peer so handlers registered on a packet.Dispatcher
// can address the peer that sent them a packet without this package
// importing the packet package.
func (p *Peer) PeerID() uint64 { return uint64(p.id) }

// Addr returns the peer's remote UDP address.
func (p *Peer) Addr() *net.UDPAddr { return p.addr }

// UserData returns the 32-bit datum attached to this peer's Connect event.
func (p *Peer) UserData() uint32 { return p.userData }

func newPeer(id protocol.PeerID, addr *net.UDPAddr) *Peer {
	return &Peer{
		id:       id,
		addr:     addr,
		pending:  make(map[uint32]*pendingReliable),
		lastSeen: make(map[uint32]struct{}),
	}
}

func (p *Peer) nextSequence() uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextSeq++
	return p.nextSeq
}

func (p *Peer) trackReliable(seq uint32, data []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pending[seq] = &pendingReliable{data: data, sentAt: time.Now()}
}

func (p *Peer) ack(seq uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.pending, seq)
}

func (p *Peer) seen(seq uint32) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.lastSeen[seq]; ok {
		return true
	}
	p.lastSeen[seq] = struct{}{}
	return false
}

func (p *Peer) pendingCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending)
}

// duePending returns a snapshot of pending envelopes whose resend deadline
// has elapsed, incrementing their retry counters; an entry whose counter
// exceeds reliableMaxRetries is not resent (it stays in the pending map)
// and sets timedOut, signaling the peer is unreachable.
func (p *Peer) duePending(now time.Time) (resend [][]byte, timedOut bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for seq, pr := range p.pending {
		if now.Sub(pr.sentAt) < reliableResendInterval {
			continue
		}
		pr.retries++
		if pr.retries > reliableMaxRetries {
			timedOut = true
			continue
		}
		pr.sentAt = now
		resend = append(resend, pr.data)
		_ = seq
	}
	return resend, timedOut
}
