package physics_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	. "github/sabouaram/towerd/physics"
)

var _ = Describe("Manager.Step", func() {
	It("reports no contact while two 10x10 bodies are still apart, then one once they close", func() {
		mgr := NewManager(2)

		a, err := mgr.Create(0, Vec2{X: -5, Y: -5}, Vec2{X: 5, Y: 5}, 1)
		Expect(err).ToNot(HaveOccurred())
		a.Position = Vec2{X: 0, Y: 0}

		b, err := mgr.Create(1, Vec2{X: -5, Y: -5}, Vec2{X: 5, Y: 5}, 1)
		Expect(err).ToNot(HaveOccurred())
		b.Position = Vec2{X: 25, Y: 0}
		b.Velocity = Vec2{X: -10, Y: 0}

		contacts := mgr.Step(1)
		Expect(contacts).To(BeEmpty())

		contacts = mgr.Step(1)
		Expect(contacts).To(HaveLen(1))
		Expect(contacts[0].Penetration).To(BeNumerically(">", 0))
	})

	It("returns CodePhysicsCapacity once the manager is full", func() {
		mgr := NewManager(1)
		_, err := mgr.Create(1, Vec2{X: -1, Y: -1}, Vec2{X: 1, Y: 1}, 1)
		Expect(err).ToNot(HaveOccurred())

		_, err = mgr.Create(1, Vec2{X: -1, Y: -1}, Vec2{X: 1, Y: 1}, 1)
		Expect(err).To(HaveOccurred())
	})

	It("frees a slot for reuse", func() {
		mgr := NewManager(1)
		a, err := mgr.Create(1, Vec2{X: -1, Y: -1}, Vec2{X: 1, Y: 1}, 1)
		Expect(err).ToNot(HaveOccurred())

		mgr.Free(a)
		_, err = mgr.Create(1, Vec2{X: -1, Y: -1}, Vec2{X: 1, Y: 1}, 1)
		Expect(err).ToNot(HaveOccurred())
	})
})

var _ = Describe("Collide", func() {
	It("is symmetric: swapping arguments negates the normal but keeps penetration and point", func() {
		a := NewBody(1, 1, Vec2{X: -5, Y: -5}, Vec2{X: 5, Y: 5}, 1)
		a.RefreshWorldAABB()

		b := NewBody(2, 1, Vec2{X: -5, Y: -5}, Vec2{X: 5, Y: 5}, 1)
		b.Position = Vec2{X: 6, Y: 0}
		b.RefreshWorldAABB()

		forward, ok := Collide(a, b)
		Expect(ok).To(BeTrue())

		backward, ok := Collide(b, a)
		Expect(ok).To(BeTrue())

		Expect(backward.Normal).To(Equal(Vec2{X: -forward.Normal.X, Y: -forward.Normal.Y}))
		Expect(backward.Penetration).To(Equal(forward.Penetration))
		Expect(backward.Point).To(Equal(forward.Point))
	})

	It("reports no collision for non-overlapping AABBs", func() {
		a := NewBody(1, 1, Vec2{X: -1, Y: -1}, Vec2{X: 1, Y: 1}, 1)
		a.RefreshWorldAABB()

		b := NewBody(2, 1, Vec2{X: -1, Y: -1}, Vec2{X: 1, Y: 1}, 1)
		b.Position = Vec2{X: 10, Y: 10}
		b.RefreshWorldAABB()

		_, ok := Collide(a, b)
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("Resolve", func() {
	It("eliminates approaching relative velocity after the solver iterations", func() {
		a := NewBody(1, 0, Vec2{X: -5, Y: -5}, Vec2{X: 5, Y: 5}, 1)
		a.RefreshWorldAABB()

		b := NewBody(2, 1, Vec2{X: -5, Y: -5}, Vec2{X: 5, Y: 5}, 1)
		b.Position = Vec2{X: 6, Y: 0}
		b.Velocity = Vec2{X: -10, Y: 0}
		b.RefreshWorldAABB()

		contact, ok := Collide(a, b)
		Expect(ok).To(BeTrue())

		Resolve([]Contact{contact})

		relVel := b.Velocity.Sub(a.Velocity)
		Expect(relVel.Dot(contact.Normal)).To(BeNumerically(">=", -1e-9))
	})
})
