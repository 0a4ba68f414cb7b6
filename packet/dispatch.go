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

package packet

// Peer is the minimal identity a dispatched handler needs. It is satisfied
// structurally by network/session peer types without this package importing
// the transport layer.
type Peer interface {
	PeerID() uint64
}

// sizeFn reports the wire size (excluding the id byte) of the packet
// beginning at buf[off], without fully decoding it. This is the size_fn
// artifact: it lets the dispatcher skip packets it has no handler for.
type sizeFn func(buf []byte, off int) (int, error)

// dispatchFn deserializes the packet body at buf[*off:], advances *off past
// it, and invokes the registered handler. This is the dispatch_fn artifact.
type dispatchFn func(buf []byte, off *int, peer Peer) error

var sizeTable [PacketCount]sizeFn

func init() {
	sizeTable[IDC2SPlayerJoinRequest] = func(buf []byte, off int) (int, error) { return 0, nil }
	sizeTable[IDS2CPlayerJoinResponse] = fixedSize(S2CPlayerJoinResponse{}.WireSize())
	sizeTable[IDC2SPlayerInputSnapshot] = fixedSize(inputCommandWireSize)
	sizeTable[IDS2CPlayerStateSnapshot] = fixedSize(S2CPlayerStateSnapshot{}.WireSize())
	sizeTable[IDS2CPlayerCreate] = fixedSize(S2CPlayerCreate{}.WireSize())
	sizeTable[IDC2STowerBuildRequest] = fixedSize(C2STowerBuildRequest{}.WireSize())
	sizeTable[IDS2CTowerCreate] = fixedSize(S2CTowerCreate{}.WireSize())
}

func fixedSize(n int) sizeFn {
	return func(buf []byte, off int) (int, error) {
		if off+n > len(buf) {
			return 0, ErrShortBuffer
		}
		return n, nil
	}
}

// Dispatcher routes decoded datagrams to registered per-packet-id handlers.
// One Dispatcher is built per side (client or server); it is safe for
// concurrent Dispatch calls as long as registration (Handle*) happens
// before any Dispatch call, matching the teacher's build-then-freeze style.
type Dispatcher struct {
	handlers [PacketCount]dispatchFn
	onUnhandled func(id PacketID)
}

// NewDispatcher returns a Dispatcher with no handlers registered.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// OnUnhandled sets a callback invoked when a well-formed but unregistered
// packet id is encountered. Handler-less ids are skipped via size_fn rather
// than treated as protocol errors.
func (d *Dispatcher) OnUnhandled(fn func(id PacketID)) {
	d.onUnhandled = fn
}

func (d *Dispatcher) handle(id PacketID, fn dispatchFn) {
	d.handlers[id] = fn
}

// Dispatch walks datagram, reading one id byte at a time, invoking the
// registered handler for each recognized packet, and advancing past each
// packet by its handler-reported (or size_fn-reported) wire size. An id
// byte ≥ PacketCount is a protocol error: the remainder of the datagram is
// discarded and CodeProtocolError returned.
func (d *Dispatcher) Dispatch(datagram []byte, peer Peer) error {
	off := 0
	for off < len(datagram) {
		id := PacketID(datagram[off])
		off++

		if !id.Valid() {
			return CodeProtocolError.Error()
		}

		if fn := d.handlers[id]; fn != nil {
			if err := fn(datagram, &off, peer); err != nil {
				return err
			}
			continue
		}

		n, err := sizeTable[id](datagram, off)
		if err != nil {
			return err
		}
		if d.onUnhandled != nil {
			d.onUnhandled(id)
		}
		off += n
	}
	return nil
}

// Encode serializes pkt into a freshly allocated buffer: one id byte
// followed by pkt.Serialize's output. This is the send_fn artifact, keyed
// implicitly by pkt.ID() rather than by an explicit table, since every
// Packet already carries its own id and wire size.
func Encode(pkt Packet) []byte {
	buf := make([]byte, 1+pkt.WireSize())
	off := 0
	WriteU8(buf, &off, uint8(pkt.ID()))
	pkt.Serialize(buf, &off)
	return buf
}

// HandleC2SPlayerJoinRequest registers fn for IDC2SPlayerJoinRequest.
func HandleC2SPlayerJoinRequest(d *Dispatcher, fn func(pkt C2SPlayerJoinRequest, peer Peer)) {
	d.handle(IDC2SPlayerJoinRequest, func(buf []byte, off *int, peer Peer) error {
		pkt, err := deserializeC2SPlayerJoinRequest(buf, off)
		if err != nil {
			return err
		}
		fn(pkt, peer)
		return nil
	})
}

// HandleS2CPlayerJoinResponse registers fn for IDS2CPlayerJoinResponse.
func HandleS2CPlayerJoinResponse(d *Dispatcher, fn func(pkt S2CPlayerJoinResponse, peer Peer)) {
	d.handle(IDS2CPlayerJoinResponse, func(buf []byte, off *int, peer Peer) error {
		pkt, err := deserializeS2CPlayerJoinResponse(buf, off)
		if err != nil {
			return err
		}
		fn(pkt, peer)
		return nil
	})
}

// HandleC2SPlayerInputSnapshot registers fn for IDC2SPlayerInputSnapshot.
func HandleC2SPlayerInputSnapshot(d *Dispatcher, fn func(pkt C2SPlayerInputSnapshot, peer Peer)) {
	d.handle(IDC2SPlayerInputSnapshot, func(buf []byte, off *int, peer Peer) error {
		pkt, err := deserializeC2SPlayerInputSnapshot(buf, off)
		if err != nil {
			return err
		}
		fn(pkt, peer)
		return nil
	})
}

// HandleS2CPlayerStateSnapshot registers fn for IDS2CPlayerStateSnapshot.
func HandleS2CPlayerStateSnapshot(d *Dispatcher, fn func(pkt S2CPlayerStateSnapshot, peer Peer)) {
	d.handle(IDS2CPlayerStateSnapshot, func(buf []byte, off *int, peer Peer) error {
		pkt, err := deserializeS2CPlayerStateSnapshot(buf, off)
		if err != nil {
			return err
		}
		fn(pkt, peer)
		return nil
	})
}

// HandleS2CPlayerCreate registers fn for IDS2CPlayerCreate.
func HandleS2CPlayerCreate(d *Dispatcher, fn func(pkt S2CPlayerCreate, peer Peer)) {
	d.handle(IDS2CPlayerCreate, func(buf []byte, off *int, peer Peer) error {
		pkt, err := deserializeS2CPlayerCreate(buf, off)
		if err != nil {
			return err
		}
		fn(pkt, peer)
		return nil
	})
}

// HandleC2STowerBuildRequest registers fn for IDC2STowerBuildRequest.
func HandleC2STowerBuildRequest(d *Dispatcher, fn func(pkt C2STowerBuildRequest, peer Peer)) {
	d.handle(IDC2STowerBuildRequest, func(buf []byte, off *int, peer Peer) error {
		pkt, err := deserializeC2STowerBuildRequest(buf, off)
		if err != nil {
			return err
		}
		fn(pkt, peer)
		return nil
	})
}

// HandleS2CTowerCreate registers fn for IDS2CTowerCreate.
func HandleS2CTowerCreate(d *Dispatcher, fn func(pkt S2CTowerCreate, peer Peer)) {
	d.handle(IDS2CTowerCreate, func(buf []byte, off *int, peer Peer) error {
		pkt, err := deserializeS2CTowerCreate(buf, off)
		if err != nil {
			return err
		}
		fn(pkt, peer)
		return nil
	})
}
