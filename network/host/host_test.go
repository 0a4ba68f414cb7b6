package host_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	liblog "github/sabouaram/towerd/logger"
	libhost "github/sabouaram/towerd/network/host"
	"github/sabouaram/towerd/network/protocol"
)

func waitForEvent(h *libhost.Host, want protocol.EventType, timeout time.Duration) (protocol.Event, bool) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if ev, ok := h.CheckEvents(); ok {
			if ev.Type == want {
				return ev, true
			}
			continue
		}
		time.Sleep(time.Millisecond)
	}
	return protocol.Event{}, false
}

var _ = Describe("Host", func() {
	It("connects a client to a server on 127.0.0.1 and exchanges a reliable payload", func() {
		server, err := libhost.Create(libhost.Config{
			Role:      libhost.RoleServer,
			BindAddr:  "127.0.0.1:0",
			PeerCount: 4,
		}, liblog.Nop())
		Expect(err).ToNot(HaveOccurred())
		defer server.Destroy()

		// The server bound an ephemeral port; LocalAddr reports it so the
		// client can dial it.
		client, err := libhost.Create(libhost.Config{
			Role:           libhost.RoleClient,
			ConnectAddr:    server.LocalAddr(),
			ConnectTimeout: time.Second,
		}, liblog.Nop())
		Expect(err).ToNot(HaveOccurred())
		defer client.Destroy()

		Expect(client.ClientConnect()).To(Succeed())

		connectEv, sawServerConnect := waitForEvent(server, protocol.EventConnect, time.Second)
		Expect(sawServerConnect).To(BeTrue())
		serverPeer := connectEv.Peer

		payload := []byte{100, 200, 0, 0, 1}
		Expect(client.Send(0, 0, payload, protocol.FlagReliable)).To(Succeed())

		var got protocol.Event
		Eventually(func() bool {
			ev, ok := server.CheckEvents()
			if ok && ev.Type == protocol.EventReceive {
				got = ev
				return true
			}
			return false
		}, time.Second, 10*time.Millisecond).Should(BeTrue())

		Expect(got.Peer).To(Equal(serverPeer))
		Expect(got.Payload).To(Equal(payload))
	})
})
