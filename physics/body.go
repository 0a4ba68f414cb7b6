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

import "github.com/bits-and-blooms/bitset"

// axis indexes into a Body's per-axis SAP endpoint bookkeeping.
type axis int

const (
	axisX axis = 0
	axisY axis = 1
	numAxes = 2
)

// Body is one physics entity: position, velocity, accumulated force, mass,
// a local AABB, a derived world AABB, SAP endpoint indices on both axes,
// and a layer bitmask, per SPEC_FULL.md §3.
type Body struct {
	ID     uint32
	InUse  bool

	Position Vec2
	Velocity Vec2
	Force    Vec2

	Mass    float64
	InvMass float64 // 0 for static/infinite-mass bodies

	LocalMin, LocalMax Vec2
	WorldMin, WorldMax Vec2

	Layers *bitset.BitSet

	// sapEndpoint[axis][0]=min index, [axis][1]=max index into that axis's
	// endpoint arrays; maintained as an opaque cookie by the SAP broad-phase.
	sapEndpoint [numAxes][2]int
}

// NewBody returns a Body with the given mass (0 = static) and local AABB.
func NewBody(id uint32, mass float64, localMin, localMax Vec2, layers uint) *Body {
	invMass := 0.0
	if mass > 0 {
		invMass = 1 / mass
	}
	b := &Body{
		ID:       id,
		InUse:    true,
		Mass:     mass,
		InvMass:  invMass,
		LocalMin: localMin,
		LocalMax: localMax,
		Layers:   bitset.New(32),
	}
	for i := uint(0); i < 32; i++ {
		if layers&(1<<i) != 0 {
			b.Layers.Set(i)
		}
	}
	return b
}

// RefreshWorldAABB recomputes WorldMin/WorldMax from Position and the local AABB.
func (b *Body) RefreshWorldAABB() {
	b.WorldMin = b.Position.Add(b.LocalMin)
	b.WorldMax = b.Position.Add(b.LocalMax)
}

// Integrate applies one semi-implicit Euler step: velocity += (force *
// invMass) * dt; position += velocity * dt; then clears the force
// accumulator, per SPEC_FULL.md §4.7 step 1.
func (b *Body) Integrate(dt float64) {
	if b.InvMass > 0 {
		b.Velocity = b.Velocity.Add(b.Force.Scale(b.InvMass * dt))
	}
	b.Position = b.Position.Add(b.Velocity.Scale(dt))
	b.Force = Vec2{}
}

// SharesLayer reports whether a and b have any layer bit in common.
func SharesLayer(a, b *Body) bool {
	return a.Layers.IntersectionCardinality(b.Layers) > 0
}
