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

// Contact is a confirmed overlap between two bodies: the separating axis
// normal (pointing from A toward B), the penetration depth along that
// axis, and the contact point (the overlap rectangle's center).
type Contact struct {
	A, B        *Body
	Normal      Vec2
	Penetration float64
	Point       Vec2
}

// Collide performs the AABB narrow-phase test between a and b. It is
// symmetric: Collide(b, a) reports the same penetration and contact
// point with a negated normal.
func Collide(a, b *Body) (Contact, bool) {
	overlapMinX := max64(a.WorldMin.X, b.WorldMin.X)
	overlapMaxX := min64(a.WorldMax.X, b.WorldMax.X)
	overlapMinY := max64(a.WorldMin.Y, b.WorldMin.Y)
	overlapMaxY := min64(a.WorldMax.Y, b.WorldMax.Y)

	xOverlap := overlapMaxX - overlapMinX
	yOverlap := overlapMaxY - overlapMinY
	if xOverlap <= 0 || yOverlap <= 0 {
		return Contact{}, false
	}

	point := Vec2{X: (overlapMinX + overlapMaxX) / 2, Y: (overlapMinY + overlapMaxY) / 2}

	var normal Vec2
	var penetration float64
	if xOverlap < yOverlap {
		penetration = xOverlap
		normal = Vec2{X: 1, Y: 0}
		if a.WorldMax.X > b.WorldMax.X {
			normal = Vec2{X: -1, Y: 0}
		}
	} else {
		penetration = yOverlap
		normal = Vec2{X: 0, Y: 1}
		if a.WorldMax.Y > b.WorldMax.Y {
			normal = Vec2{X: 0, Y: -1}
		}
	}

	return Contact{A: a, B: b, Normal: normal, Penetration: penetration, Point: point}, true
}

func max64(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func min64(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
