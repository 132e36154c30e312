package query

import (
	"bufio"
	"errors"
	"io"

	"github.com/protoquery/pbquery/codec"
)

// RunStream evaluates the expression over a stream of encoded records:
// it repeatedly fills the reader's buffer, evaluates the buffered
// bytes, and discards the prefix of complete records that the pass
// consumed. Records larger than the reader's buffer cannot be framed;
// when a pass over a full buffer consumes nothing, the stream is
// abandoned without error, mirroring end of input.
//
// The callback contract is the same as for Run: returning false stops
// the stream.
func RunStream(r *bufio.Reader, e *Expr, callback Callback) error {
	stopped := false
	wrapped := func(rec codec.Record) bool {
		if !callback(rec) {
			stopped = true
			return false
		}
		return true
	}
	for !stopped {
		// top up the buffer so a record split across reads gets framed
		// once its remainder arrives
		buf, err := r.Peek(r.Size())
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		if len(buf) == 0 {
			return nil
		}
		n, err := e.Run(buf, wrapped)
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		if _, err := r.Discard(n); err != nil {
			return err
		}
	}
	return nil
}
