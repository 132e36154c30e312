package query

import (
	"io"

	"github.com/protoquery/pbquery/codec"
)

// Callback receives each record matched by an expression and reports
// whether evaluation should continue. Returning false stops the whole
// query: no further records are visited at any level. The record
// aliases the evaluated buffer and must not be retained after the
// callback returns.
type Callback func(rec codec.Record) bool

// Run evaluates the expression over an encoded message and delivers
// every match, in wire order, to the callback. It returns the number
// of bytes of complete records framed out of the top level of the
// buffer, which is how a streaming caller knows how far to advance: a
// trailing incomplete record is not counted and not an error.
//
// Evaluation stops early if the callback returns false or if the
// buffer is malformed; in the latter case the error is returned and
// the callback is not invoked for anything past the malformed point.
func (e *Expr) Run(buf []byte, callback Callback) (int, error) {
	n, _, err := e.run(buf, 0, callback)
	return n, err
}

func (e *Expr) run(buf []byte, depth int, callback Callback) (consumed int, keepGoing bool, err error) {
	targetTag := e.path[depth]
	step := e.filters[depth]
	last := depth == len(e.path)-1

	b := codec.NewBuffer(buf)
	var nth uint32 // occurrences of the target tag, for index filters
	keepGoing = true
	for keepGoing {
		rec, err := b.DecodeRecord()
		if err == io.EOF {
			break
		}
		if err != nil {
			return consumed, keepGoing, err
		}
		consumed += len(rec.Bytes)
		if rec.Tag != targetTag {
			continue
		}
		match, err := step.matches(rec, &nth)
		if err != nil {
			return consumed, keepGoing, err
		}
		if !match {
			continue
		}
		if last {
			keepGoing = callback(rec)
		} else {
			_, keepGoing, err = e.run(rec.Contents, depth+1, callback)
			if err != nil {
				return consumed, keepGoing, err
			}
		}
	}
	return consumed, keepGoing, nil
}
