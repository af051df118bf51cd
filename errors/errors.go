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

// Package errors provides a small error type carrying a numeric CodeError
// alongside an optional parent, used across the core so callers can branch
// on failure class without string-matching messages.
package errors

import (
	"errors"
	"fmt"
)

// Error extends the standard error with a numeric code and an optional
// wrapped parent, compatible with errors.Is/errors.As via Unwrap.
type Error interface {
	error
	Code() CodeError
	IsCode(code CodeError) bool
	Unwrap() error
}

type ers struct {
	code   CodeError
	msg    string
	parent error
}

// New builds an Error with the given code and message and no parent.
func New(code CodeError, msg string) Error {
	return &ers{code: code, msg: msg}
}

// Wrap builds an Error with the given code and message, wrapping parent.
// A nil parent is equivalent to New.
func Wrap(code CodeError, msg string, parent error) Error {
	return &ers{code: code, msg: msg, parent: parent}
}

func (e *ers) Error() string {
	if e.parent == nil {
		return e.msg
	}
	return fmt.Sprintf("%s: %s", e.msg, e.parent.Error())
}

func (e *ers) Code() CodeError {
	return e.code
}

func (e *ers) IsCode(code CodeError) bool {
	return e.code == code
}

func (e *ers) Unwrap() error {
	return e.parent
}

// Is reports whether err is an Error carrying the given code, checking the
// whole Unwrap chain.
func Is(err error, code CodeError) bool {
	var e Error
	for err != nil {
		if errors.As(err, &e) {
			if e.IsCode(code) {
				return true
			}
			err = e.Unwrap()
			continue
		}
		return false
	}
	return false
}
