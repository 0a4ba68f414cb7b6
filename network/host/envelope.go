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
	"encoding/binary"

	"github/sabouaram/towerd/network/protocol"
)

// envelope kinds, framed ahead of every datagram this host sends so the
// receiver can tell a data packet from a control (ack/disconnect) message
// and reassemble reliable delivery guarantees on top of plain UDP.
type envelopeKind uint8

const (
	envData envelopeKind = iota
	envAck
	envDisconnect
	envConnect
	envConnectAck
)

// envelope is the host's own wire framing, underneath the game's packet
// schema (SPEC_FULL.md §4.3). Data: kind(1) reliable(1) [seq(4) if
// reliable] channel(1) payload(...). Ack: kind(1) seq(4). Disconnect:
// kind(1) reason(4). Connect: kind(1) userData(4). ConnectAck: kind(1)
// peerID(8).
type envelope struct {
	kind     envelopeKind
	reliable bool
	seq      uint32
	channel  uint8
	reason   uint32
	userData uint32
	peerID   uint64
	payload  []byte
}

func encodeEnvelope(e envelope) []byte {
	switch e.kind {
	case envAck:
		buf := make([]byte, 1+4)
		buf[0] = byte(envAck)
		binary.BigEndian.PutUint32(buf[1:], e.seq)
		return buf
	case envDisconnect:
		buf := make([]byte, 1+4)
		buf[0] = byte(envDisconnect)
		binary.BigEndian.PutUint32(buf[1:], e.reason)
		return buf
	case envConnect:
		buf := make([]byte, 1+4)
		buf[0] = byte(envConnect)
		binary.BigEndian.PutUint32(buf[1:], e.userData)
		return buf
	case envConnectAck:
		buf := make([]byte, 1+8)
		buf[0] = byte(envConnectAck)
		binary.BigEndian.PutUint64(buf[1:], e.peerID)
		return buf
	default:
		hdr := 1 + 1 + 1 // kind + reliability tag + channel
		if e.reliable {
			hdr += 4
		}
		buf := make([]byte, hdr+len(e.payload))
		off := 0
		buf[off] = byte(envData)
		off++
		if e.reliable {
			buf[off] = 1
			off++
			binary.BigEndian.PutUint32(buf[off:], e.seq)
			off += 4
		} else {
			buf[off] = 0
			off++
		}
		buf[off] = e.channel
		off++
		copy(buf[off:], e.payload)
		return buf
	}
}

func decodeEnvelope(buf []byte) (envelope, bool) {
	if len(buf) < 1 {
		return envelope{}, false
	}
	switch envelopeKind(buf[0]) {
	case envAck:
		if len(buf) < 5 {
			return envelope{}, false
		}
		return envelope{kind: envAck, seq: binary.BigEndian.Uint32(buf[1:5])}, true
	case envDisconnect:
		if len(buf) < 5 {
			return envelope{}, false
		}
		return envelope{kind: envDisconnect, reason: binary.BigEndian.Uint32(buf[1:5])}, true
	case envConnect:
		if len(buf) < 5 {
			return envelope{}, false
		}
		return envelope{kind: envConnect, userData: binary.BigEndian.Uint32(buf[1:5])}, true
	case envConnectAck:
		if len(buf) < 9 {
			return envelope{}, false
		}
		return envelope{kind: envConnectAck, peerID: binary.BigEndian.Uint64(buf[1:9])}, true
	case envData:
		if len(buf) < 2 {
			return envelope{}, false
		}
		off := 1
		reliable := buf[off] == 1
		off++
		var seq uint32
		if reliable {
			if len(buf) < off+4+1 {
				return envelope{}, false
			}
			seq = binary.BigEndian.Uint32(buf[off:])
			off += 4
		}
		if len(buf) < off+1 {
			return envelope{}, false
		}
		channel := buf[off]
		off++
		payload := append([]byte(nil), buf[off:]...)
		return envelope{kind: envData, reliable: reliable, seq: seq, channel: channel, payload: payload}, true
	default:
		return envelope{}, false
	}
}

func flagToEnvelope(flag protocol.SendFlag) bool {
	return flag == protocol.FlagReliable
}
