/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
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

package errors

import (
	"sort"
	"strconv"
)

// CodeError is a numeric classification of an error, one per kind named in
// SPEC_FULL.md §7. Package code ranges (see modules.go) keep codes from
// different packages from colliding, the same convention the teacher
// library uses.
type CodeError uint16

const (
	UnknownError   CodeError = 0
	UnknownMessage           = "unknown error"
)

// Message is a function type that produces a message for a CodeError. Each
// consuming package registers one of these against its own MinPkgXxx floor.
type Message func(code CodeError) (message string)

// idMsgFct maps a package's floor code to the message function that
// package registered for its own code range.
var idMsgFct = make(map[CodeError]Message)

// RegisterIdFctMessage associates fct with every code at or above minCode,
// up to (but not including) the next registered floor. Consuming packages
// call this once from their own init(), mirroring the teacher's
// errors.RegisterIdFctMessage convention.
func RegisterIdFctMessage(minCode CodeError, fct Message) {
	if idMsgFct == nil {
		idMsgFct = make(map[CodeError]Message)
	}
	idMsgFct[minCode] = fct
}

// ExistInMapMessage reports whether code resolves to a non-empty message
// through a registered package floor.
func ExistInMapMessage(code CodeError) bool {
	if f, ok := idMsgFct[floorFor(code)]; ok {
		return f(code) != ""
	}
	return false
}

func floorFor(code CodeError) CodeError {
	var floors []int
	for k := range idMsgFct {
		floors = append(floors, int(k))
	}
	sort.Ints(floors)

	var res CodeError
	for _, k := range floors {
		if CodeError(k) <= code {
			res = CodeError(k)
		}
	}
	return res
}

// Message returns the registered message for this code, or UnknownMessage.
func (c CodeError) Message() string {
	if c == UnknownError {
		return UnknownMessage
	}
	if f, ok := idMsgFct[floorFor(c)]; ok {
		if m := f(c); m != "" {
			return m
		}
	}
	return UnknownMessage
}

// Error builds a new Error carrying this code, with an optional parent chain.
func (c CodeError) Error(parent ...error) Error {
	return New(c, c.Message(), parent...)
}

func (c CodeError) Uint16() uint16 {
	return uint16(c)
}

func (c CodeError) String() string {
	return strconv.Itoa(int(c))
}
