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

// Package errors provides the error taxonomy shared by every public
// constructor and lifecycle operation in the engine: config validation,
// host create/destroy/connect, session allocation, and protocol dispatch.
//
// Every error carries a numeric CodeError (§7 of SPEC_FULL.md maps one
// code per error kind), an optional parent chain, and the call site that
// raised it, and is compatible with errors.Is / errors.As.
package errors

import (
	"strings"
)

// FuncMap is called once per error in a hierarchy by Error.Map; returning
// false stops the walk early.
type FuncMap func(e error) bool

// Error extends the standard error with a numeric code and parent chaining.
type Error interface {
	error

	Code() CodeError
	IsCode(code CodeError) bool
	HasCode(code CodeError) bool

	Add(parent ...error)
	HasParent() bool
	Parents() []error

	Is(err error) bool
	Map(fct FuncMap) bool

	Trace() string
}

type ers struct {
	code   CodeError
	msg    string
	parent []error
	trace  string
}

// New builds an Error from a code, a message, and an optional parent chain.
func New(code CodeError, message string, parent ...error) Error {
	e := &ers{
		code:  code,
		msg:   message,
		trace: traceCaller(),
	}
	e.Add(parent...)
	return e
}

func (e *ers) Error() string {
	if e.msg == "" {
		return UnknownMessage
	}
	return e.msg
}

func (e *ers) Code() CodeError {
	return e.code
}

func (e *ers) IsCode(code CodeError) bool {
	return e.code == code
}

func (e *ers) HasCode(code CodeError) bool {
	if e.IsCode(code) {
		return true
	}
	for _, p := range e.parent {
		if pe, ok := p.(Error); ok && pe.HasCode(code) {
			return true
		}
	}
	return false
}

func (e *ers) Add(parent ...error) {
	for _, p := range parent {
		if p != nil {
			e.parent = append(e.parent, p)
		}
	}
}

func (e *ers) HasParent() bool {
	return len(e.parent) > 0
}

func (e *ers) Parents() []error {
	return e.parent
}

func (e *ers) Unwrap() []error {
	return e.parent
}

func (e *ers) Is(err error) bool {
	if err == nil {
		return false
	}
	if oe, ok := err.(*ers); ok {
		return strings.EqualFold(e.msg, oe.msg) && e.code == oe.code
	}
	return strings.EqualFold(e.Error(), err.Error())
}

func (e *ers) Map(fct FuncMap) bool {
	if !fct(e) {
		return false
	}
	for _, p := range e.parent {
		if !fct(p) {
			return false
		}
	}
	return true
}

func (e *ers) Trace() string {
	return e.trace
}
