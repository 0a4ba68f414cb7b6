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

// Package packet implements the wire codec and dispatch table described by
// SPEC_FULL.md §4.3. The schema is written by hand: schema.go declares the
// packet id enum and one struct per packet with its serializer and
// deserializer; dispatch.go holds the size_fn table, the per-Dispatcher
// dispatch_fn handlers, and Encode in the send_fn role. Adding a packet
// touches both files. Primitives are big-endian,
// two's-complement signed, IEEE 754 for floats; composites are concatenated
// field-wise in declaration order with no padding and no self-describing
// tags on the wire.
package packet

import (
	"encoding/binary"
	"math"
)

// ErrShortBuffer is returned by Read* helpers when buf[*off:] is too small
// to hold the requested primitive.
var ErrShortBuffer = CodeShortBuffer.Error()

func WriteU8(buf []byte, off *int, v uint8) {
	buf[*off] = v
	*off++
}

func WriteI8(buf []byte, off *int, v int8) {
	WriteU8(buf, off, uint8(v))
}

func WriteU16(buf []byte, off *int, v uint16) {
	binary.BigEndian.PutUint16(buf[*off:], v)
	*off += 2
}

func WriteI16(buf []byte, off *int, v int16) {
	WriteU16(buf, off, uint16(v))
}

func WriteU32(buf []byte, off *int, v uint32) {
	binary.BigEndian.PutUint32(buf[*off:], v)
	*off += 4
}

func WriteI32(buf []byte, off *int, v int32) {
	WriteU32(buf, off, uint32(v))
}

func WriteU64(buf []byte, off *int, v uint64) {
	binary.BigEndian.PutUint64(buf[*off:], v)
	*off += 8
}

func WriteI64(buf []byte, off *int, v int64) {
	WriteU64(buf, off, uint64(v))
}

func WriteF32(buf []byte, off *int, v float32) {
	WriteU32(buf, off, math.Float32bits(v))
}

func WriteF64(buf []byte, off *int, v float64) {
	WriteU64(buf, off, math.Float64bits(v))
}

func ReadU8(buf []byte, off *int) (uint8, error) {
	if *off+1 > len(buf) {
		return 0, ErrShortBuffer
	}
	v := buf[*off]
	*off++
	return v, nil
}

func ReadI8(buf []byte, off *int) (int8, error) {
	v, err := ReadU8(buf, off)
	return int8(v), err
}

func ReadU16(buf []byte, off *int) (uint16, error) {
	if *off+2 > len(buf) {
		return 0, ErrShortBuffer
	}
	v := binary.BigEndian.Uint16(buf[*off:])
	*off += 2
	return v, nil
}

func ReadI16(buf []byte, off *int) (int16, error) {
	v, err := ReadU16(buf, off)
	return int16(v), err
}

func ReadU32(buf []byte, off *int) (uint32, error) {
	if *off+4 > len(buf) {
		return 0, ErrShortBuffer
	}
	v := binary.BigEndian.Uint32(buf[*off:])
	*off += 4
	return v, nil
}

func ReadI32(buf []byte, off *int) (int32, error) {
	v, err := ReadU32(buf, off)
	return int32(v), err
}

func ReadU64(buf []byte, off *int) (uint64, error) {
	if *off+8 > len(buf) {
		return 0, ErrShortBuffer
	}
	v := binary.BigEndian.Uint64(buf[*off:])
	*off += 8
	return v, nil
}

func ReadI64(buf []byte, off *int) (int64, error) {
	v, err := ReadU64(buf, off)
	return int64(v), err
}

func ReadF32(buf []byte, off *int) (float32, error) {
	v, err := ReadU32(buf, off)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

func ReadF64(buf []byte, off *int) (float64, error) {
	v, err := ReadU64(buf, off)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}
