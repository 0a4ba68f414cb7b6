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

import "sort"

// endpoint is one entry in a per-axis sorted array: a value, the body it
// belongs to, and whether it is that body's min or max endpoint.
type endpoint struct {
	value float64
	body  *Body
	isMin bool
}

// Pair is a candidate pair emitted by the broad-phase sweep.
type Pair struct {
	A, B *Body
}

// SAP is the Sweep-and-Prune broad-phase: per axis, three parallel facts
// (endpoint value, body pointer, isMin flag) kept as a sorted array,
// updated incrementally via insertion sort across ticks (SPEC_FULL.md §4.7).
type SAP struct {
	endpoints [numAxes][]*endpoint
}

// NewSAP preallocates endpoint arrays sized for capacityHint bodies.
func NewSAP(capacityHint int) *SAP {
	return &SAP{
		endpoints: [numAxes][]*endpoint{
			make([]*endpoint, 0, capacityHint*2),
			make([]*endpoint, 0, capacityHint*2),
		},
	}
}

func axisMinMax(a axis, b *Body) (min, max float64) {
	if a == axisX {
		return b.WorldMin.X, b.WorldMax.X
	}
	return b.WorldMin.Y, b.WorldMax.Y
}

func (s *SAP) setIndex(ep *endpoint, a axis, i int) {
	mm := 0
	if !ep.isMin {
		mm = 1
	}
	ep.body.sapEndpoint[a][mm] = i
}

// Insert places b's min/max endpoints on both axes via binary search,
// shifting the arrays to make room and re-pointing every affected body's
// stored indices.
func (s *SAP) Insert(b *Body) {
	b.RefreshWorldAABB()
	for _, a := range [numAxes]axis{axisX, axisY} {
		min, max := axisMinMax(a, b)
		s.insertEndpoint(a, &endpoint{value: min, body: b, isMin: true})
		s.insertEndpoint(a, &endpoint{value: max, body: b, isMin: false})
	}
}

func (s *SAP) insertEndpoint(a axis, ep *endpoint) {
	arr := s.endpoints[a]
	idx := sort.Search(len(arr), func(i int) bool { return arr[i].value >= ep.value })
	arr = append(arr, nil)
	copy(arr[idx+1:], arr[idx:])
	arr[idx] = ep
	s.endpoints[a] = arr
	for i := idx; i < len(arr); i++ {
		s.setIndex(arr[i], a, i)
	}
}

// Remove deletes both of b's endpoints on both axes.
func (s *SAP) Remove(b *Body) {
	for _, a := range [numAxes]axis{axisX, axisY} {
		minIdx, maxIdx := b.sapEndpoint[a][0], b.sapEndpoint[a][1]
		if minIdx < maxIdx {
			s.removeAt(a, maxIdx)
			s.removeAt(a, minIdx)
		} else {
			s.removeAt(a, minIdx)
			s.removeAt(a, maxIdx)
		}
	}
}

func (s *SAP) removeAt(a axis, idx int) {
	arr := s.endpoints[a]
	arr = append(arr[:idx], arr[idx+1:]...)
	s.endpoints[a] = arr
	for i := idx; i < len(arr); i++ {
		s.setIndex(arr[i], a, i)
	}
}

// Resort refreshes every endpoint's cached value from its body's current
// world AABB, then re-sorts each axis with insertion sort, exploiting the
// near-sorted order left by the previous tick (temporal coherence).
func (s *SAP) Resort() {
	for _, a := range [numAxes]axis{axisX, axisY} {
		s.refreshValues(a)
		s.resortAxis(a)
	}
}

func (s *SAP) refreshValues(a axis) {
	for _, ep := range s.endpoints[a] {
		min, max := axisMinMax(a, ep.body)
		if ep.isMin {
			ep.value = min
		} else {
			ep.value = max
		}
	}
}

func (s *SAP) resortAxis(a axis) {
	arr := s.endpoints[a]
	for i := 1; i < len(arr); i++ {
		for j := i; j > 0 && arr[j-1].value > arr[j].value; j-- {
			arr[j-1], arr[j] = arr[j], arr[j-1]
			s.setIndex(arr[j-1], a, j-1)
			s.setIndex(arr[j], a, j)
		}
	}
	s.endpoints[a] = arr
}

// Sweep walks the X-axis endpoint array, emitting a candidate pair per min
// endpoint against every body currently in the active set, filtered by
// layer and Y-overlap; it never emits from the Y axis, so no
// deduplication pass is needed (SPEC_FULL.md §9 Open Questions).
func (s *SAP) Sweep() []Pair {
	var pairs []Pair
	active := make(map[*Body]struct{})

	for _, ep := range s.endpoints[axisX] {
		b := ep.body
		if ep.isMin {
			for other := range active {
				if SharesLayer(b, other) && yOverlap(b, other) {
					pairs = append(pairs, Pair{A: other, B: b})
				}
			}
			active[b] = struct{}{}
		} else {
			delete(active, b)
		}
	}
	return pairs
}

func yOverlap(a, b *Body) bool {
	return a.WorldMin.Y <= b.WorldMax.Y && b.WorldMin.Y <= a.WorldMax.Y
}
