/***********************************************************************************************************************
 *
 *   MIT License
 *
 *   Copyright (c) 2025 Nicolas JUHEL
 *
 *   Permission is hereby granted, free of charge, to any person obtaining a copy
 *   of this software and associated documentation files (the "Software"), to deal
 *   in the Software without restriction, including without limitation the rights
 *   to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 *   copies of the Software, and to permit persons to whom the Software is
 *   furnished to do so, subject to the following conditions:
 *
 *   The above copyright notice and this permission notice shall be included in all
 *   copies or substantial portions of the Software.
 *
 *   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 *   AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 *   LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 *   OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 *   SOFTWARE.
 *
 *
 **********************************************************************************************************************/

// Package logger wraps logrus with the Level/Fields vocabulary the core uses,
// so call sites never import logrus directly.
package logger

import (
	"io"
	"os"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// Logger is the structured logger handed to every core component.
type Logger interface {
	WithFields(f Fields) Logger
	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(msg string, err error)
	SetLevel(lvl Level)
}

type lgr struct {
	entry *logrus.Entry
	lvl   *atomic.Int32
}

// New builds a Logger writing formatted lines to w at the given level.
func New(w io.Writer, lvl Level) Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(lvl.logrus())
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		DisableColors:   w != os.Stdout && w != os.Stderr,
		QuoteEmptyFields: true,
	})

	a := &atomic.Int32{}
	a.Store(int32(lvl))

	return &lgr{entry: logrus.NewEntry(l), lvl: a}
}

func (l *lgr) WithFields(f Fields) Logger {
	return &lgr{entry: l.entry.WithFields(f.logrus()), lvl: l.lvl}
}

func (l *lgr) Debug(msg string) { l.entry.Debug(msg) }
func (l *lgr) Info(msg string)  { l.entry.Info(msg) }
func (l *lgr) Warn(msg string)  { l.entry.Warn(msg) }

func (l *lgr) Error(msg string, err error) {
	if err != nil {
		l.entry.WithError(err).Error(msg)
		return
	}
	l.entry.Error(msg)
}

// SetLevel changes the underlying logrus logger's level at runtime; used by
// config's fsnotify-driven reload (see config.Watch).
func (l *lgr) SetLevel(lvl Level) {
	l.lvl.Store(int32(lvl))
	l.entry.Logger.SetLevel(lvl.logrus())
}

// Nop returns a Logger that discards everything, used in tests that don't
// care about log output.
func Nop() Logger {
	return New(io.Discard, ErrorLevel)
}
