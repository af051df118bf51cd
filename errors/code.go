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

// CodeError is a small numeric classification for errors raised by the core,
// in the spirit of an HTTP status code: it lets a caller branch on the class
// of failure without string-matching a message.
type CodeError uint16

const (
	// CodeUnknown is the zero value: no specific classification.
	CodeUnknown CodeError = iota

	// CodeProtocol marks a malformed byte stream the decoder cannot parse.
	// Fatal for the connection that produced it.
	CodeProtocol

	// CodeUnknownCommand marks a command name the engine does not recognize.
	CodeUnknownCommand

	// CodeArity marks a command invoked with the wrong number of arguments.
	CodeArity

	// CodeEmptyCommand marks an empty array submitted as a command.
	CodeEmptyCommand

	// CodeWrongType marks a value that does not match the shape a command
	// expects (e.g. INCR on a non-numeric string, or a key that holds the
	// wrong store kind).
	CodeWrongType

	// CodeIO marks a read, write or flush failure on a connection's stream.
	CodeIO

	// CodeChannelClosed marks the engine's request channel having no more
	// consumers (engine gone) or no more producers (shutdown signal).
	CodeChannelClosed

	// CodeConfig marks a configuration load or validation failure.
	CodeConfig
)

// RespKind returns the RESP error-kind token a code surfaces as on the wire.
// Codes that never reach the wire (I/O, channel, config) return "".
func (c CodeError) RespKind() string {
	switch c {
	case CodeEmptyCommand:
		return "todo"
	case CodeArity, CodeUnknownCommand:
		return "Error"
	case CodeWrongType:
		return "WRONG_TYPE"
	default:
		return ""
	}
}

func (c CodeError) String() string {
	switch c {
	case CodeProtocol:
		return "protocol"
	case CodeUnknownCommand:
		return "unknown_command"
	case CodeArity:
		return "arity"
	case CodeEmptyCommand:
		return "empty_command"
	case CodeWrongType:
		return "wrong_type"
	case CodeIO:
		return "io"
	case CodeChannelClosed:
		return "channel_closed"
	case CodeConfig:
		return "config"
	default:
		return "unknown"
	}
}
