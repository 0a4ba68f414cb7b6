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

// Package protocol declares the wire-adjacent types shared between the
// transport host and the network adapters sitting above it: the event
// union pushed through the host's SPSC ring (SPEC_FULL.md §4.2) and the
// send flags a packet can be queued with (SPEC_FULL.md §4.4).
package protocol

import "net"

// EventType tags the kind of transport event a host reports.
type EventType uint8

const (
	EventNone EventType = iota
	EventConnect
	EventDisconnect
	EventReceive
)

func (t EventType) String() string {
	switch t {
	case EventConnect:
		return "connect"
	case EventDisconnect:
		return "disconnect"
	case EventReceive:
		return "receive"
	default:
		return "none"
	}
}

// PeerID uniquely identifies a peer for the lifetime of its connection.
type PeerID uint64

// Event is the tagged union a host worker pushes onto its event ring:
// Connect/Disconnect carry the peer and its 32-bit user datum, Receive
// additionally carries a channel id and an owned payload.
type Event struct {
	Type      EventType
	Peer      PeerID
	Addr      *net.UDPAddr
	UserData  uint32
	ChannelID uint8
	Payload   []byte
}

// SendFlag selects a packet's delivery guarantee on the wire.
type SendFlag uint8

const (
	// FlagReliable marks data for acknowledgement and retransmission until
	// acked; the receiver drops duplicates. Reliable data is handed up in
	// arrival order: out-of-order arrivals are not reordered. The flag works
	// on whichever channel the caller passes.
	FlagReliable SendFlag = iota
	// FlagUnreliable is fire-and-forget, may arrive out of order or not at all.
	FlagUnreliable
	// FlagUnsequenced is delivered at most once, no ordering guarantee, no retransmit.
	FlagUnsequenced
)

// DisconnectReason is the 32-bit user datum attached to a graceful disconnect.
type DisconnectReason uint32

const (
	ReasonNone       DisconnectReason = 0
	ReasonServerFull DisconnectReason = 1
	ReasonShutdown   DisconnectReason = 2
	ReasonTimeout    DisconnectReason = 3
)
