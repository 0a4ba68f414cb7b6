package game_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	. "github/sabouaram/towerd/game"
	liblog "github/sabouaram/towerd/logger"
	libhost "github/sabouaram/towerd/network/host"
	libsession "github/sabouaram/towerd/network/session"
	libpacket "github/sabouaram/towerd/packet"
	libphysics "github/sabouaram/towerd/physics"
)

var _ = Describe("ServerLoop and ClientLoop", func() {
	It("joins a player and reconciles a straight-line move end to end", func() {
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
		serverAdapter := libsession.NewServerAdapter(server, serverDispatch, 4)
		serverLoop := NewServerLoop(serverAdapter, serverDispatch, nil, WorldBounds{L: 1000, W: 1000}, liblog.Nop(), nil)

		clientDispatch := libpacket.NewDispatcher()
		clientAdapter := libsession.NewClientAdapter(client, clientDispatch)
		localPlayer := NewPlayer(0, "", libphysics.Vec2{}, 0)
		clientLoop := NewClientLoop(clientAdapter, clientDispatch, localPlayer, liblog.Nop(), nil)

		Expect(clientAdapter.Connect()).To(Succeed())
		Eventually(func() int {
			serverAdapter.NetworkTick()
			return len(serverAdapter.Sessions())
		}, time.Second, 10*time.Millisecond).Should(Equal(1))

		Expect(clientAdapter.Send(0, libpacket.C2SPlayerJoinRequest{}, 0)).To(Succeed())

		ctx := context.Background()
		Expect(serverLoop.Start(ctx)).To(Succeed())
		defer serverLoop.Stop(ctx)

		clientLoop.SetAxis(1, 0)
		Eventually(func() float64 {
			clientLoop.Advance()
			clientAdapter.NetworkTick()
			return localPlayer.Position.X
		}, 2*time.Second, 20*time.Millisecond).Should(BeNumerically(">", 0))
	})
})
