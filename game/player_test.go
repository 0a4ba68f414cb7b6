package game_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	. "github/sabouaram/towerd/game"
	libphysics "github/sabouaram/towerd/physics"
)

const dt = 1.0 / 30.0

var _ = Describe("Player prediction and reconciliation", func() {
	It("accepts an agreeing server ack with no correction (Scenario D)", func() {
		p := NewPlayer(1, "", libphysics.Vec2{}, 0)

		snap1, err := p.ApplyInput(1, 1, 0, dt)
		Expect(err).ToNot(HaveOccurred())
		Expect(snap1.PredictedPosition.X).To(BeNumerically("~", 6.6667, 1e-3))

		_, err = p.ApplyInput(2, 1, 0, dt)
		Expect(err).ToNot(HaveOccurred())
		snap3, err := p.ApplyInput(3, 1, 0, dt)
		Expect(err).ToNot(HaveOccurred())
		Expect(snap3.PredictedPosition.X).To(BeNumerically("~", 20, 1e-3))

		Expect(p.PendingInputs()).To(Equal(3))

		p.Reconcile(1, libphysics.Vec2{X: 6.6667, Y: 0}, dt)

		Expect(p.Position.X).To(BeNumerically("~", 6.6667, 1e-3))
		Expect(p.Position.Y).To(BeNumerically("~", 0, 1e-3))
		Expect(p.PendingInputs()).To(Equal(2))
	})

	It("replays remaining snapshots after a correctable divergence (Scenario E)", func() {
		p := NewPlayer(1, "", libphysics.Vec2{}, 0)

		_, _ = p.ApplyInput(1, 1, 0, dt)
		_, _ = p.ApplyInput(2, 1, 0, dt)
		_, _ = p.ApplyInput(3, 1, 0, dt)

		p.Reconcile(1, libphysics.Vec2{X: 6.6667, Y: 2.0}, dt)

		Expect(p.Position.X).To(BeNumerically("~", 20, 1e-3))
		Expect(p.Position.Y).To(BeNumerically("~", 2.0, 1e-3))
		Expect(p.PendingInputs()).To(Equal(2))
	})

	It("converges to the server position given identical inputs (Testable Property #10)", func() {
		p := NewPlayer(1, "", libphysics.Vec2{}, 0)

		serverPos := libphysics.Vec2{}
		var lastTick uint64
		for tick := uint64(1); tick <= 5; tick++ {
			_, err := p.ApplyInput(tick, 1, 1, dt)
			Expect(err).ToNot(HaveOccurred())
			serverPos = moveReference(serverPos, 1, 1, dt)
			lastTick = tick
		}

		p.Reconcile(lastTick, serverPos, dt)
		Expect(p.Position.X).To(BeNumerically("~", serverPos.X, 1e-3))
		Expect(p.Position.Y).To(BeNumerically("~", serverPos.Y, 1e-3))
	})

	It("snaps and clears the ring once divergence reaches the teleport boundary (Testable Property #11)", func() {
		p := NewPlayer(1, "", libphysics.Vec2{}, 0)

		_, _ = p.ApplyInput(1, 1, 0, dt)
		_, _ = p.ApplyInput(2, 1, 0, dt)

		serverPos := libphysics.Vec2{X: 6.6667, Y: 5.0}
		p.Reconcile(1, serverPos, dt)

		Expect(p.Position).To(Equal(serverPos))
		Expect(p.PendingInputs()).To(Equal(0))
	})

	It("returns without reconciling when the ack references an unknown tick", func() {
		p := NewPlayer(1, "", libphysics.Vec2{}, 0)
		_, _ = p.ApplyInput(5, 1, 0, dt)

		p.Reconcile(99, libphysics.Vec2{X: 100, Y: 100}, dt)

		Expect(p.Position).To(Equal(libphysics.Vec2{}))
		Expect(p.PendingInputs()).To(Equal(1))
	})
})

func moveReference(pos libphysics.Vec2, axisX, axisY int32, dt float64) libphysics.Vec2 {
	dir := libphysics.Vec2{X: float64(axisX), Y: float64(axisY)}.Normalized()
	return pos.Add(dir.Scale(PlayerSpeed * dt))
}
