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

// Package host implements the reliable-UDP transport described by
// SPEC_FULL.md §4.2: a host owns a socket and a background worker thread
// that services it, translating transport activity into events pushed
// onto a lock-free SPSC ring consumed by the game thread.
package host

import "time"

// Role distinguishes a server host (binds, accepts many peers) from a
// client host (connects to exactly one peer).
type Role uint8

const (
	RoleServer Role = iota
	RoleClient
)

const (
	// servicePollInterval is how often the worker services the socket.
	servicePollInterval = 100 * time.Millisecond
	// shutdownDeadline bounds how long destroy() waits for peers to drain.
	shutdownDeadline = 15 * time.Second
	// defaultConnectTimeout is used when Config.ConnectTimeout is zero.
	defaultConnectTimeout = 5 * time.Second
	// reliableResendInterval is how long a reliable envelope waits for an
	// ack before it is retransmitted.
	reliableResendInterval = 200 * time.Millisecond
	// reliableMaxRetries bounds retransmission of one reliable envelope
	// before the peer is treated as unreachable and disconnected.
	reliableMaxRetries = 20
	// eventRingCapacity sizes the host's SPSC event ring (usable = N-1).
	eventRingCapacity = 1024
)

// Config enumerates the options needed to create a Host, per SPEC_FULL.md
// §4.2's "Configuration" list.
type Config struct {
	Role Role

	// BindAddr is used when Role == RoleServer ("host:port", host may be empty).
	BindAddr string
	// ConnectAddr is used when Role == RoleClient.
	ConnectAddr string

	// PeerCount bounds concurrent peers: ignored (treated as 1) for clients.
	PeerCount int
	// ChannelLimit is the number of logical channels per peer.
	ChannelLimit int

	// IncomingBandwidth/OutgoingBandwidth cap traffic in bytes/sec; 0 = unlimited.
	IncomingBandwidth uint32
	OutgoingBandwidth uint32

	// ConnectTimeout bounds ClientConnect; defaults to 5s if zero.
	ConnectTimeout time.Duration
}

func (c Config) connectTimeout() time.Duration {
	if c.ConnectTimeout <= 0 {
		return defaultConnectTimeout
	}
	return c.ConnectTimeout
}
