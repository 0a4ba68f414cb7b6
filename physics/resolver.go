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

package physics

const (
	solverIterations = 15
	friction         = 0.4
	restitution      = 0.0
	slop             = 0.01
	percentCorrect   = 0.8
)

// Resolve runs the iterative impulse solver: solverIterations passes of
// velocity resolution with Coulomb friction, followed by one positional
// correction pass to push remaining penetration out with a slop
// tolerance, per SPEC_FULL.md §4.7.
func Resolve(contacts []Contact) {
	for i := 0; i < solverIterations; i++ {
		for _, c := range contacts {
			resolveVelocity(c)
		}
	}
	for _, c := range contacts {
		correctPosition(c)
	}
}

func resolveVelocity(c Contact) {
	invMassSum := c.A.InvMass + c.B.InvMass
	if invMassSum == 0 {
		return
	}

	relVel := c.B.Velocity.Sub(c.A.Velocity)
	velAlongNormal := relVel.Dot(c.Normal)
	if velAlongNormal > 0 {
		return
	}

	j := -(1 + restitution) * velAlongNormal / invMassSum
	impulse := c.Normal.Scale(j)
	c.A.Velocity = c.A.Velocity.Sub(impulse.Scale(c.A.InvMass))
	c.B.Velocity = c.B.Velocity.Add(impulse.Scale(c.B.InvMass))

	relVel = c.B.Velocity.Sub(c.A.Velocity)
	tangent := relVel.Sub(c.Normal.Scale(relVel.Dot(c.Normal))).Normalized()
	if tangent == (Vec2{}) {
		return
	}

	jt := -relVel.Dot(tangent) / invMassSum
	maxFriction := friction * j
	if jt > maxFriction {
		jt = maxFriction
	} else if jt < -maxFriction {
		jt = -maxFriction
	}

	frictionImpulse := tangent.Scale(jt)
	c.A.Velocity = c.A.Velocity.Sub(frictionImpulse.Scale(c.A.InvMass))
	c.B.Velocity = c.B.Velocity.Add(frictionImpulse.Scale(c.B.InvMass))
}

func correctPosition(c Contact) {
	invMassSum := c.A.InvMass + c.B.InvMass
	if invMassSum == 0 {
		return
	}

	depth := c.Penetration - slop
	if depth <= 0 {
		return
	}

	correction := c.Normal.Scale(depth / invMassSum * percentCorrect)
	c.A.Position = c.A.Position.Sub(correction.Scale(c.A.InvMass))
	c.B.Position = c.B.Position.Add(correction.Scale(c.B.InvMass))
}
