package resp

import (
	"bufio"
	"fmt"
	"strconv"
)

// Encode serializes f into w. It never flushes — flushing is the session's
// responsibility, so that a batch of replies shares one flush.
func Encode(w *bufio.Writer, f Frame) error {
	switch v := f.(type) {
	case SimpleString:
		return encodeSimple(w, byte(TypeSimpleString), string(v))
	case ErrorFrame:
		if _, err := w.WriteString("-" + v.Kind + " " + v.Message + crlf); err != nil {
			return err
		}
		return nil
	case Integer:
		return encodeSimple(w, byte(TypeInteger), strconv.FormatInt(int64(v), 10))
	case BulkString:
		if err := w.WriteByte(byte(TypeBulkString)); err != nil {
			return err
		}
		if _, err := w.WriteString(strconv.Itoa(len(v)) + crlf); err != nil {
			return err
		}
		if _, err := w.Write(v); err != nil {
			return err
		}
		if _, err := w.WriteString(crlf); err != nil {
			return err
		}
		return nil
	case Array:
		if err := w.WriteByte(byte(TypeArray)); err != nil {
			return err
		}
		if _, err := w.WriteString(strconv.Itoa(len(v)) + crlf); err != nil {
			return err
		}
		for _, el := range v {
			if err := Encode(w, el); err != nil {
				return err
			}
		}
		return nil
	case Null:
		_, err := w.WriteString("$-1" + crlf)
		return err
	default:
		return fmt.Errorf("resp: encode: unsupported frame type %T", f)
	}
}

func encodeSimple(w *bufio.Writer, tag byte, body string) error {
	if err := w.WriteByte(tag); err != nil {
		return err
	}
	_, err := w.WriteString(body + crlf)
	return err
}
