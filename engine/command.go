package engine

import (
	"strconv"

	rerr "github.com/sabouaram/rdiskv/errors"
	"github.com/sabouaram/rdiskv/resp"
)

// commandError builds a resp.ErrorFrame whose kind token comes from code's
// RespKind, routing command errors through the same ambient error taxonomy
// the rest of the core uses, per code's numeric classification.
func commandError(code rerr.CodeError, msg string) resp.ErrorFrame {
	return resp.ErrorFrame{Kind: code.RespKind(), Message: rerr.New(code, msg).Error()}
}

var (
	errEmptyCommand   = commandError(rerr.CodeEmptyCommand, "empty command")
	errArity          = commandError(rerr.CodeArity, "too many arguments")
	errUnknownCommand = commandError(rerr.CodeUnknownCommand, "too many arguments")
)

// executeBundle runs every frame in b against s in order and returns a reply
// bundle of the same shape. now is the wall clock, computed once per bundle
// so every command in a pipeline observes the same instant.
func executeBundle(s *store, b resp.Bundle, now int64) resp.Bundle {
	frames := resp.Frames(b)
	replies := make([]resp.Frame, len(frames))
	for i, f := range frames {
		replies[i] = execute(s, f, now)
	}
	return resp.NewBundle(replies)
}

// execute resolves and runs a single command frame. A non-Array frame is
// treated as a one-element array, matching the inline-command fallback.
func execute(s *store, req resp.Frame, now int64) resp.Frame {
	args, ok := req.(resp.Array)
	if !ok {
		args = resp.Array{req}
	}

	switch len(args) {
	case 0:
		return errEmptyCommand
	case 1:
		name, ok := text(args[0])
		if !ok {
			return errArity
		}
		switch name {
		case "PING":
			return resp.SimpleString("PONG")
		case "COMMAND":
			return resp.SimpleString("OK")
		default:
			return errUnknownCommand
		}
	case 2:
		name, ok := text(args[0])
		key, kok := text(args[1])
		if !ok || !kok {
			return errArity
		}
		switch name {
		case "GET":
			v, found := s.get(key, now)
			if !found {
				return resp.Null{}
			}
			return resp.BulkString(v)
		case "INCR":
			return execIncr(s, key, now)
		case "LPOP":
			v, found := s.lpop(key)
			if !found {
				return resp.Null{}
			}
			return resp.BulkString(v)
		case "RPOP":
			v, found := s.rpop(key)
			if !found {
				return resp.Null{}
			}
			return resp.BulkString(v)
		default:
			return errUnknownCommand
		}
	case 3:
		name, ok := text(args[0])
		key, kok := text(args[1])
		value, vok := text(args[2])
		if !ok || !kok || !vok {
			return errArity
		}
		switch name {
		case "SET":
			s.set(key, []byte(value))
			return resp.SimpleString("OK")
		case "LPUSH":
			s.lpush(key, []byte(value))
			return resp.SimpleString("OK")
		case "RPUSH":
			s.rpush(key, []byte(value))
			return resp.SimpleString("OK")
		default:
			return errUnknownCommand
		}
	default:
		return errArity
	}
}

func execIncr(s *store, key string, now int64) resp.Frame {
	val, found, err := s.incr(key, now)
	if !found {
		return resp.Null{}
	}
	if err != nil {
		return commandError(rerr.CodeWrongType, err.Error())
	}
	return resp.SimpleString(strconv.FormatInt(val, 10))
}

// commandName extracts the label used for the commands-processed metric: the
// first element's text value, or "" when the request has no resolvable name
// (empty array, or a first element that isn't text).
func commandName(req resp.Frame) string {
	args, ok := req.(resp.Array)
	if !ok {
		args = resp.Array{req}
	}
	if len(args) == 0 {
		return ""
	}
	name, ok := text(args[0])
	if !ok {
		return ""
	}
	return name
}

func text(f resp.Frame) (string, bool) {
	b, ok := resp.Text(f)
	if !ok {
		return "", false
	}
	return string(b), true
}
