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

package logger

import (
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// Logger is a structured, leveled logger. It is safe for concurrent use by
// the transport worker thread and the game thread at once.
type Logger interface {
	SetLevel(l Level)
	Level() Level

	Debug(msg string, fields Fields)
	Info(msg string, fields Fields)
	Warn(msg string, fields Fields)
	Error(msg string, fields Fields)

	WithField(key string, val interface{}) Logger
}

// Fields is a set of structured key/value pairs attached to one log entry.
type Fields map[string]interface{}

type lgr struct {
	mu    sync.Mutex
	entry *logrus.Entry
	level atomic.Uint32
}

// New returns a Logger writing to w (os.Stderr if nil) at the given level.
func New(level Level, w io.Writer) Logger {
	if w == nil {
		w = os.Stderr
	}

	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	l.SetLevel(level.logrus())

	o := &lgr{entry: logrus.NewEntry(l)}
	o.level.Store(uint32(level))
	return o
}

func (o *lgr) SetLevel(l Level) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.level.Store(uint32(l))
	o.entry.Logger.SetLevel(l.logrus())
}

func (o *lgr) Level() Level {
	return Level(o.level.Load())
}

func (o *lgr) WithField(key string, val interface{}) Logger {
	return &lgr{entry: o.entry.WithField(key, val), level: o.level}
}

func (o *lgr) log(level logrus.Level, msg string, fields Fields) {
	if fields == nil {
		o.entry.Log(level, msg)
		return
	}
	o.entry.WithFields(logrus.Fields(fields)).Log(level, msg)
}

func (o *lgr) Debug(msg string, fields Fields) { o.log(logrus.DebugLevel, msg, fields) }
func (o *lgr) Info(msg string, fields Fields)  { o.log(logrus.InfoLevel, msg, fields) }
func (o *lgr) Warn(msg string, fields Fields)  { o.log(logrus.WarnLevel, msg, fields) }
func (o *lgr) Error(msg string, fields Fields) { o.log(logrus.ErrorLevel, msg, fields) }

// nopLogger discards everything; used as the zero-value default so callers
// never need a nil check.
type nopLogger struct{}

func (nopLogger) SetLevel(Level)                 {}
func (nopLogger) Level() Level                   { return InfoLevel }
func (nopLogger) Debug(string, Fields)            {}
func (nopLogger) Info(string, Fields)             {}
func (nopLogger) Warn(string, Fields)             {}
func (nopLogger) Error(string, Fields)            {}
func (n nopLogger) WithField(string, interface{}) Logger { return n }

// Nop returns a Logger that discards every record.
func Nop() Logger { return nopLogger{} }
