package packet_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	libpacket "github/sabouaram/towerd/packet"
)

var _ = Describe("codec", func() {
	It("round-trips c2s_player_input_snapshot to the exact wire bytes", func() {
		pkt := libpacket.C2SPlayerInputSnapshot{
			Command: libpacket.InputCommand{
				TickNumber: 0x0102030405060708,
				AxisX:      -1,
				AxisY:      1,
			},
		}

		wire := libpacket.Encode(pkt)
		Expect(wire).To(HaveLen(17))
		Expect(wire).To(Equal([]byte{
			byte(libpacket.IDC2SPlayerInputSnapshot),
			0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08,
			0xFF, 0xFF, 0xFF, 0xFF,
			0x00, 0x00, 0x00, 0x01,
		}))

		var decoded libpacket.C2SPlayerInputSnapshot
		var received libpacket.Peer
		d := libpacket.NewDispatcher()
		libpacket.HandleC2SPlayerInputSnapshot(d, func(p libpacket.C2SPlayerInputSnapshot, peer libpacket.Peer) {
			decoded = p
			received = peer
		})

		Expect(d.Dispatch(wire, fakePeer(7))).To(Succeed())
		Expect(decoded).To(Equal(pkt))
		Expect(received.PeerID()).To(Equal(uint64(7)))
	})
})

var _ = Describe("Dispatcher", func() {
	It("walks a datagram of concatenated packets, invoking each handler exactly once in order", func() {
		joinReq := libpacket.C2SPlayerJoinRequest{}
		input := libpacket.C2SPlayerInputSnapshot{
			Command: libpacket.InputCommand{TickNumber: 0x0102030405060708, AxisX: -1, AxisY: 1},
		}

		datagram := append(libpacket.Encode(joinReq), libpacket.Encode(input)...)

		var order []string
		var gotInput libpacket.C2SPlayerInputSnapshot

		d := libpacket.NewDispatcher()
		libpacket.HandleC2SPlayerJoinRequest(d, func(p libpacket.C2SPlayerJoinRequest, peer libpacket.Peer) {
			order = append(order, "join_request")
		})
		libpacket.HandleC2SPlayerInputSnapshot(d, func(p libpacket.C2SPlayerInputSnapshot, peer libpacket.Peer) {
			order = append(order, "input_snapshot")
			gotInput = p
		})

		Expect(d.Dispatch(datagram, fakePeer(1))).To(Succeed())
		Expect(order).To(Equal([]string{"join_request", "input_snapshot"}))
		Expect(gotInput).To(Equal(input))
	})

	It("rejects an id at or beyond PacketCount as a protocol error", func() {
		d := libpacket.NewDispatcher()
		err := d.Dispatch([]byte{byte(libpacket.PacketCount)}, fakePeer(1))
		Expect(err).To(HaveOccurred())
	})

	It("skips a well-formed fixed-size packet with no registered handler", func() {
		create := libpacket.S2CPlayerCreate{PlayerID: 5, SpawnX: 1, SpawnY: 2}
		tail := libpacket.C2SPlayerJoinRequest{}
		datagram := append(libpacket.Encode(create), libpacket.Encode(tail)...)

		var sawTail bool
		d := libpacket.NewDispatcher()
		libpacket.HandleC2SPlayerJoinRequest(d, func(p libpacket.C2SPlayerJoinRequest, peer libpacket.Peer) {
			sawTail = true
		})

		Expect(d.Dispatch(datagram, fakePeer(1))).To(Succeed())
		Expect(sawTail).To(BeTrue())
	})
})

type fakePeer uint64

func (p fakePeer) PeerID() uint64 { return uint64(p) }
