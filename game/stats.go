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

package game

import (
	"sync"
	"time"

	prmsdk "github.com/prometheus/client_golang/prometheus"
)

const statsWindowSize = 20

// TickStats is a rolling 20-entry window over ticks-per-second and the
// fraction of each tick's budget spent doing work, per SPEC_FULL.md §4.5.
// Both are exported as Prometheus gauges for external scraping.
type TickStats struct {
	mu        sync.Mutex
	tpsWindow [statsWindowSize]float64
	cpuWindow [statsWindowSize]float64
	idx       int
	filled    int

	tpsGauge prmsdk.Gauge
	cpuGauge prmsdk.Gauge
}

// NewTickStats builds a TickStats and, if reg is non-nil, registers its
// gauges under the given role ("server" or "client").
func NewTickStats(reg prmsdk.Registerer, role string) *TickStats {
	s := &TickStats{
		tpsGauge: prmsdk.NewGauge(prmsdk.GaugeOpts{
			Namespace: "towerd",
			Subsystem: role,
			Name:      "tps",
			Help:      "rolling 20-tick average of ticks executed per second",
		}),
		cpuGauge: prmsdk.NewGauge(prmsdk.GaugeOpts{
			Namespace: "towerd",
			Subsystem: role,
			Name:      "cpu_use_fraction",
			Help:      "rolling 20-tick average fraction of the tick budget spent working",
		}),
	}
	if reg != nil {
		reg.MustRegister(s.tpsGauge, s.cpuGauge)
	}
	return s
}

// Record folds one tick's wall-clock duration and work duration into the
// rolling windows and updates the exported gauges.
func (s *TickStats) Record(tickDuration, workDuration time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var tps float64
	if tickDuration > 0 {
		tps = 1 / tickDuration.Seconds()
	}
	var cpu float64
	if tickDuration > 0 {
		cpu = workDuration.Seconds() / tickDuration.Seconds()
	}

	slot := s.idx % statsWindowSize
	s.tpsWindow[slot] = tps
	s.cpuWindow[slot] = cpu
	s.idx++
	if s.filled < statsWindowSize {
		s.filled++
	}

	s.tpsGauge.Set(s.average(s.tpsWindow[:]))
	s.cpuGauge.Set(s.average(s.cpuWindow[:]))
}

func (s *TickStats) average(w []float64) float64 {
	if s.filled == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < s.filled; i++ {
		sum += w[i]
	}
	return sum / float64(s.filled)
}

// TPS returns the current rolling-window average.
func (s *TickStats) TPS() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.average(s.tpsWindow[:])
}

// CPUUse returns the current rolling-window average CPU-use fraction.
func (s *TickStats) CPUUse() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.average(s.cpuWindow[:])
}
