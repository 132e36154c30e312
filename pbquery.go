// Package pbquery implements a path-expression query language over
// encoded protobuf messages, in the way XPath queries XML documents.
// An expression such as
//
//	entity.vehicle[trip.route_id = '12'].position.latitude
//
// is compiled against a message descriptor and then evaluated over raw
// message bytes, delivering every sub-message or scalar reachable
// along the path whose bracketed predicates hold.
//
// This package is the front door: Compile runs the parsing and
// type-checking pipeline. Evaluation lives on the compiled expression;
// see the query package. Descriptors can come from anywhere that
// satisfies the small contract in the desc package; the descload
// package provides the usual sources.
package pbquery

import (
	"github.com/protoquery/pbquery/desc"
	"github.com/protoquery/pbquery/parser"
	"github.com/protoquery/pbquery/query"
)

// Compile parses the expression and type-checks it against the
// descriptor of the root message type. The returned expression is
// immutable and may be reused, concurrently, across any number of
// buffers.
func Compile(expr string, root desc.MessageDescriptor) (*query.Expr, error) {
	raw, err := parser.Parse(expr)
	if err != nil {
		return nil, err
	}
	return query.Compile(raw, root)
}
