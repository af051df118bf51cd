package engine

import (
	"testing"

	"github.com/sabouaram/rdiskv/resp"
)

func TestExecutePing(t *testing.T) {
	s := newStore()
	got := execute(s, resp.Array{resp.BulkString("PING")}, 0)
	if got != resp.SimpleString("PONG") {
		t.Fatalf("got %#v", got)
	}
}

func TestExecuteCommandStub(t *testing.T) {
	s := newStore()
	got := execute(s, resp.Array{resp.BulkString("COMMAND")}, 0)
	if got != resp.SimpleString("OK") {
		t.Fatalf("got %#v", got)
	}
}

func TestExecuteSetThenGet(t *testing.T) {
	s := newStore()
	got := execute(s, resp.Array{resp.BulkString("SET"), resp.BulkString("x"), resp.BulkString("1")}, 0)
	if got != resp.SimpleString("OK") {
		t.Fatalf("set = %#v", got)
	}

	got = execute(s, resp.Array{resp.BulkString("GET"), resp.BulkString("x")}, 0)
	bs, ok := got.(resp.BulkString)
	if !ok || string(bs) != "1" {
		t.Fatalf("get = %#v", got)
	}
}

func TestExecuteGetAbsentIsNull(t *testing.T) {
	s := newStore()
	got := execute(s, resp.Array{resp.BulkString("GET"), resp.BulkString("z")}, 0)
	if _, ok := got.(resp.Null); !ok {
		t.Fatalf("got %#v", got)
	}
}

func TestExecuteIncrWrongType(t *testing.T) {
	s := newStore()
	execute(s, resp.Array{resp.BulkString("SET"), resp.BulkString("x"), resp.BulkString("abc")}, 0)
	got := execute(s, resp.Array{resp.BulkString("INCR"), resp.BulkString("x")}, 0)
	ef, ok := got.(resp.ErrorFrame)
	if !ok || ef.Kind != "WRONG_TYPE" {
		t.Fatalf("got %#v", got)
	}
}

func TestExecuteListRoundTrip(t *testing.T) {
	s := newStore()
	execute(s, resp.Array{resp.BulkString("LPUSH"), resp.BulkString("L"), resp.BulkString("a")}, 0)
	execute(s, resp.Array{resp.BulkString("RPUSH"), resp.BulkString("L"), resp.BulkString("b")}, 0)

	got := execute(s, resp.Array{resp.BulkString("LPOP"), resp.BulkString("L")}, 0)
	if bs, ok := got.(resp.BulkString); !ok || string(bs) != "a" {
		t.Fatalf("lpop = %#v", got)
	}
	got = execute(s, resp.Array{resp.BulkString("RPOP"), resp.BulkString("L")}, 0)
	if bs, ok := got.(resp.BulkString); !ok || string(bs) != "b" {
		t.Fatalf("rpop = %#v", got)
	}
}

func TestExecuteEmptyCommand(t *testing.T) {
	s := newStore()
	got := execute(s, resp.Array{}, 0)
	ef, ok := got.(resp.ErrorFrame)
	if !ok || ef.Kind != "todo" || ef.Message != "empty command" {
		t.Fatalf("got %#v", got)
	}
}

func TestExecuteUnknownAndOverArityShareErrorKind(t *testing.T) {
	s := newStore()
	unknown := execute(s, resp.Array{resp.BulkString("NOPE")}, 0)
	overArity := execute(s, resp.Array{
		resp.BulkString("GET"), resp.BulkString("a"), resp.BulkString("b"), resp.BulkString("c"),
	}, 0)

	for _, got := range []resp.Frame{unknown, overArity} {
		ef, ok := got.(resp.ErrorFrame)
		if !ok || ef.Kind != "Error" || ef.Message != "too many arguments" {
			t.Fatalf("got %#v", got)
		}
	}
}

func TestExecuteNonArrayTreatedAsOneElementArray(t *testing.T) {
	s := newStore()
	got := execute(s, resp.SimpleString("PING"), 0)
	if got != resp.SimpleString("PONG") {
		t.Fatalf("got %#v", got)
	}
}

func TestExecuteBundlePipelineShapeMatches(t *testing.T) {
	s := newStore()
	b := resp.NewBundle([]resp.Frame{
		resp.Array{resp.BulkString("PING")},
		resp.Array{resp.BulkString("PING")},
		resp.Array{resp.BulkString("PING")},
	})

	reply := executeBundle(s, b, 0)
	pipe, ok := reply.(resp.Pipeline)
	if !ok || len(pipe.Frames) != 3 {
		t.Fatalf("got %#v", reply)
	}
	for _, f := range pipe.Frames {
		if f != resp.SimpleString("PONG") {
			t.Fatalf("unexpected reply frame %#v", f)
		}
	}
}
