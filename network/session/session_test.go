package session_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	liblog "github/sabouaram/towerd/logger"
	libhost "github/sabouaram/towerd/network/host"
	"github/sabouaram/towerd/network/protocol"
	libsession "github/sabouaram/towerd/network/session"
	libpacket "github/sabouaram/towerd/packet"
)

var _ = Describe("ServerAdapter and ClientAdapter", func() {
	It("delivers c2s_tower_build_request from client to server with exact field values", func() {
		server, err := libhost.Create(libhost.Config{
			Role:      libhost.RoleServer,
			BindAddr:  "127.0.0.1:0",
			PeerCount: 4,
		}, liblog.Nop())
		Expect(err).ToNot(HaveOccurred())
		defer server.Destroy()

		client, err := libhost.Create(libhost.Config{
			Role:           libhost.RoleClient,
			ConnectAddr:    server.LocalAddr(),
			ConnectTimeout: time.Second,
		}, liblog.Nop())
		Expect(err).ToNot(HaveOccurred())
		defer client.Destroy()

		serverDispatch := libpacket.NewDispatcher()
		var got libpacket.C2STowerBuildRequest
		gotCh := make(chan struct{}, 1)
		libpacket.HandleC2STowerBuildRequest(serverDispatch, func(p libpacket.C2STowerBuildRequest, peer libpacket.Peer) {
			got = p
			gotCh <- struct{}{}
		})
		serverAdapter := libsession.NewServerAdapter(server, serverDispatch, 4)

		clientDispatch := libpacket.NewDispatcher()
		clientAdapter := libsession.NewClientAdapter(client, clientDispatch)

		Expect(clientAdapter.Connect()).To(Succeed())

		Eventually(func() int {
			serverAdapter.NetworkTick()
			return len(serverAdapter.Sessions())
		}, time.Second, 10*time.Millisecond).Should(Equal(1))

		req := libpacket.C2STowerBuildRequest{XPos: 100, YPos: 200, TowerDefIndex: 0}
		Expect(clientAdapter.Send(0, req, protocol.FlagReliable)).To(Succeed())

		Eventually(func() bool {
			serverAdapter.NetworkTick()
			select {
			case <-gotCh:
				return true
			default:
				return false
			}
		}, time.Second, 10*time.Millisecond).Should(BeTrue())

		Expect(got).To(Equal(req))
	})

	It("refuses to send while the client adapter is not yet connected", func() {
		client, err := libhost.Create(libhost.Config{
			Role:           libhost.RoleClient,
			ConnectAddr:    "127.0.0.1:1", // unreachable, never connects
			ConnectTimeout: 10 * time.Millisecond,
		}, liblog.Nop())
		Expect(err).ToNot(HaveOccurred())
		defer client.Destroy()

		clientAdapter := libsession.NewClientAdapter(client, libpacket.NewDispatcher())
		err = clientAdapter.Send(0, libpacket.C2SPlayerJoinRequest{}, protocol.FlagReliable)
		Expect(err).To(HaveOccurred())
	})
})
