// Package query compiles parsed path expressions against a message
// descriptor and evaluates them over encoded messages.
//
// Compilation resolves every field name in the path to its tag number
// and specializes each bracketed filter to the scalar category of the
// field it tests, so evaluation needs no descriptor at all: it walks
// the raw wire format, comparing tag numbers and coercing payloads
// only where a filter demands it.
package query

import (
	"github.com/protoquery/pbquery/codec"
	"github.com/protoquery/pbquery/desc"
)

// Expr is a compiled path expression. It is immutable once compiled
// and may be evaluated concurrently over any number of buffers.
type Expr struct {
	path     []int32
	filters  []filter
	exprType desc.Type
}

// Type returns the scalar category of the field the path terminates
// at. Expressions ending on an embedded message have type
// desc.TypeMessage.
func (e *Expr) Type() desc.Type {
	return e.exprType
}

// String renders the tag-number path, mostly for debugging.
func (e *Expr) String() string {
	var sb []byte
	for i, tag := range e.path {
		if i > 0 {
			sb = append(sb, '.')
		}
		sb = appendInt(sb, tag)
	}
	return string(sb)
}

func appendInt(b []byte, v int32) []byte {
	if v >= 10 {
		b = appendInt(b, v/10)
	}
	return append(b, byte('0'+v%10))
}

// atom is a literal operand of a compiled comparison. Each literal kind
// knows how to coerce a record and compare it against itself.
type atom interface {
	matchesRecord(rec codec.Record) (bool, error)
}

type intAtom int32

func (a intAtom) matchesRecord(rec codec.Record) (bool, error) {
	v, err := rec.AsInt()
	if err != nil {
		return false, err
	}
	return v == int32(a), nil
}

type floatAtom float64

func (a floatAtom) matchesRecord(rec codec.Record) (bool, error) {
	v, err := rec.AsFloat()
	if err != nil {
		return false, err
	}
	// IEEE equality: a NaN literal never matches
	return v == float64(a), nil
}

type strAtom string

func (a strAtom) matchesRecord(rec codec.Record) (bool, error) {
	v, err := rec.AsString()
	if err != nil {
		return false, err
	}
	return v == string(a), nil
}

// ref locates the record a predicate operand refers to, relative to
// the candidate record the filter is being applied to.
type ref interface {
	resolve(rec codec.Record) (codec.Record, bool, error)
}

// atRef is the @ self-reference: it resolves to the candidate itself.
type atRef struct{}

func (atRef) resolve(rec codec.Record) (codec.Record, bool, error) {
	return rec, true, nil
}

// subRef is a nested compiled expression, evaluated over the
// candidate's payload; it resolves to the first match.
type subRef struct {
	expr *Expr
}

func (r subRef) resolve(rec codec.Record) (codec.Record, bool, error) {
	var found codec.Record
	ok := false
	_, err := r.expr.Run(rec.Contents, func(m codec.Record) bool {
		found, ok = m, true
		return false
	})
	return found, ok, err
}

// filter is a compiled per-step predicate. The nth counter counts the
// records at the current level whose tag matched the step; only index
// filters consult it.
type filter interface {
	matches(rec codec.Record, nth *uint32) (bool, error)
}

type trueFilter struct{}

func (trueFilter) matches(codec.Record, *uint32) (bool, error) {
	return true, nil
}

type eqFilter struct {
	atom   atom
	ref    ref
	invert bool
}

func (f eqFilter) matches(rec codec.Record, _ *uint32) (bool, error) {
	sub, ok, err := f.ref.resolve(rec)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	eq, err := f.atom.matchesRecord(sub)
	if err != nil {
		return false, err
	}
	return eq != f.invert, nil
}

type inIntFilter struct {
	ref ref
	set map[int32]struct{}
}

func (f inIntFilter) matches(rec codec.Record, _ *uint32) (bool, error) {
	sub, ok, err := f.ref.resolve(rec)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	v, err := sub.AsInt()
	if err != nil {
		return false, err
	}
	_, in := f.set[v]
	return in, nil
}

type inStrFilter struct {
	ref ref
	set map[string]struct{}
}

func (f inStrFilter) matches(rec codec.Record, _ *uint32) (bool, error) {
	sub, ok, err := f.ref.resolve(rec)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	v, err := sub.AsString()
	if err != nil {
		return false, err
	}
	_, in := f.set[v]
	return in, nil
}

type idxFilter struct {
	index uint32
}

func (f idxFilter) matches(_ codec.Record, nth *uint32) (bool, error) {
	n := *nth
	*nth++
	return n == f.index, nil
}
