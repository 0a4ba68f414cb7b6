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

package session

import (
	"sync/atomic"

	"github/sabouaram/towerd/network/host"
	"github/sabouaram/towerd/network/protocol"
	"github/sabouaram/towerd/packet"
)

// serverPeer is the client adapter's sole remote peer; it satisfies
// packet.Peer so the same Dispatcher.Dispatch call works on both sides.
type serverPeer struct{}

func (serverPeer) PeerID() uint64 { return 0 }

// ClientAdapter is the client-side network adapter: one server peer, a
// connected flag, and send routines that refuse to queue while
// disconnected, per SPEC_FULL.md §4.4.
type ClientAdapter struct {
	host       *host.Host
	dispatcher *packet.Dispatcher
	connected  atomic.Bool

	OnConnect    func()
	OnDisconnect func()
}

// NewClientAdapter wraps a client-role host.
func NewClientAdapter(h *host.Host, d *packet.Dispatcher) *ClientAdapter {
	return &ClientAdapter{host: h, dispatcher: d}
}

// Connect blocks until the underlying host reports a Connect event or its
// connect timeout elapses.
func (a *ClientAdapter) Connect() error {
	if err := a.host.ClientConnect(); err != nil {
		return err
	}
	a.connected.Store(true)
	if a.OnConnect != nil {
		a.OnConnect()
	}
	return nil
}

// Connected reports whether the adapter currently believes it is connected.
func (a *ClientAdapter) Connected() bool {
	return a.connected.Load()
}

// NetworkTick drains the host's event ring, feeding Receive payloads to the
// dispatcher and tracking Disconnect as a loss of connection.
func (a *ClientAdapter) NetworkTick() {
	for {
		ev, ok := a.host.CheckEvents()
		if !ok {
			return
		}
		switch ev.Type {
		case protocol.EventDisconnect:
			a.connected.Store(false)
			if a.OnDisconnect != nil {
				a.OnDisconnect()
			}
		case protocol.EventReceive:
			_ = a.dispatcher.Dispatch(ev.Payload, serverPeer{})
		}
	}
}

// Send queues a packet to the server. It refuses while disconnected.
func (a *ClientAdapter) Send(channel uint8, pkt packet.Packet, flag protocol.SendFlag) error {
	if !a.connected.Load() {
		return CodeClientDisconnected.Error()
	}
	return a.host.Send(0, channel, packet.Encode(pkt), flag)
}
