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

// Manager owns a fixed-capacity dense array of Body entities with in-use
// flags, per SPEC_FULL.md §3: external code holds borrowed references
// whose lifetime does not exceed the manager's.
type Manager struct {
	bodies   []*Body
	free     []uint32
	nextID   uint32
	capacity int
	sap      *SAP
}

// NewManager allocates a Manager with room for exactly capacity bodies and
// a SAP broad-phase sized to match.
func NewManager(capacity int) *Manager {
	m := &Manager{
		bodies:   make([]*Body, capacity),
		capacity: capacity,
		sap:      NewSAP(capacity),
	}
	return m
}

// Create allocates a new Body, reusing a freed slot if one is available.
func (m *Manager) Create(mass float64, localMin, localMax Vec2, layers uint) (*Body, error) {
	var idx int
	if n := len(m.free); n > 0 {
		idx = int(m.free[n-1])
		m.free = m.free[:n-1]
	} else {
		idx = -1
		for i, b := range m.bodies {
			if b == nil {
				idx = i
				break
			}
		}
		if idx == -1 {
			return nil, CodePhysicsCapacity.Error()
		}
	}

	m.nextID++
	b := NewBody(m.nextID, mass, localMin, localMax, layers)
	m.bodies[idx] = b
	m.sap.Insert(b)
	return b, nil
}

// Free releases b's slot; the manager zeroes it so iteration never sees a
// stale body at that index.
func (m *Manager) Free(b *Body) {
	for i, cur := range m.bodies {
		if cur == b {
			m.sap.Remove(b)
			m.bodies[i] = nil
			b.InUse = false
			m.free = append(m.free, uint32(i))
			return
		}
	}
}

// Each iterates the in-use subset of the dense array in index order.
func (m *Manager) Each(fn func(b *Body)) {
	for _, b := range m.bodies {
		if b != nil {
			fn(b)
		}
	}
}

// Step advances every body by one tick: integrate, refresh world AABBs,
// broad-phase, narrow-phase, and resolve, per SPEC_FULL.md §4.7.
func (m *Manager) Step(dt float64) []Contact {
	m.Each(func(b *Body) {
		b.Integrate(dt)
		b.RefreshWorldAABB()
	})

	m.sap.Resort()
	pairs := m.sap.Sweep()

	contacts := make([]Contact, 0, len(pairs))
	for _, pr := range pairs {
		if c, ok := Collide(pr.A, pr.B); ok {
			contacts = append(contacts, c)
		}
	}

	Resolve(contacts)
	return contacts
}
