package query

import (
	"errors"
	"fmt"

	"github.com/protoquery/pbquery/desc"
	"github.com/protoquery/pbquery/parser"
)

// Compilation errors. Compilation is atomic: on error no expression is
// returned and nothing is partially compiled.
var (
	ErrNoSuchField      = errors.New("No such field")
	ErrNotAMessage      = errors.New("Not a message")
	ErrExpectedPath     = errors.New("Expected path, found atom")
	ErrExpectedAtom     = errors.New("Expected atom, found path")
	ErrTwoPaths         = errors.New("comparing two paths is not supported")
	ErrTypeMismatch     = errors.New("type mismatch")
	ErrConstantFalse    = errors.New("Constant folding produced false")
	ErrIntListExpected  = errors.New("Expected a list of literal ints")
	ErrStrListExpected  = errors.New("Expected a list of literal strings")
	ErrInUnsupported    = errors.New("Operator 'in' only supports ints or strings")
	ErrBadIndex         = errors.New("bad index")
	ErrUnmatchedFields  = errors.New("Could not match some fields")
	ErrEmptyPath        = errors.New("Empty path")
	ErrRxNotImplemented = errors.New("not implemented")
)

// Compile type-checks a parsed path against the descriptor of the root
// message and resolves it to a compiled expression: field names become
// tag numbers and each filter is specialized to the scalar category of
// the field it applies to.
//
// The path descends through message-typed fields; a field of scalar
// type must be the last step. Message descriptors may be cyclic; the
// walk is bounded by the length of the path.
func Compile(path parser.Path, root desc.MessageDescriptor) (*Expr, error) {
	message := root
	var tags []int32
	var filters []filter
	var types []desc.Type
	for _, part := range path {
		field := message.FieldByName(part.Field)
		if field == nil {
			return nil, ErrNoSuchField
		}

		f, err := compileFilter(part.Filter, field)
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)

		tags = append(tags, field.Number())
		types = append(types, field.Type())
		md := field.Message()
		if md == nil {
			break
		}
		message = md
	}

	if len(tags) != len(path) {
		// the path kept going after a scalar field
		return nil, ErrUnmatchedFields
	}
	if len(types) == 0 {
		return nil, ErrEmptyPath
	}
	return &Expr{path: tags, filters: filters, exprType: types[len(types)-1]}, nil
}

// compilePathOperand resolves a path-valued operand against the field
// the enclosing filter applies to. @ refers to that field itself; a
// nested path is compiled as a sub-expression rooted at the field's
// message type.
func compilePathOperand(item parser.Item, context desc.FieldDescriptor) (ref, desc.Type, error) {
	switch item := item.(type) {
	case parser.AtItem:
		return atRef{}, context.Type(), nil
	case parser.PathItem:
		md := context.Message()
		if md == nil {
			return nil, 0, ErrNotAMessage
		}
		sub, err := Compile(item.Path, md)
		if err != nil {
			return nil, 0, err
		}
		return subRef{expr: sub}, sub.exprType, nil
	default:
		return nil, 0, ErrExpectedPath
	}
}

func compileAtom(item parser.Item) (atom, error) {
	switch item := item.(type) {
	case parser.IntItem:
		return intAtom(item.Value), nil
	case parser.FloatItem:
		return floatAtom(item.Value), nil
	case parser.StrItem:
		return strAtom(item.Value), nil
	default:
		return nil, ErrExpectedAtom
	}
}

func compileEq(lhs, rhs parser.Item, invert bool, context desc.FieldDescriptor) (filter, error) {
	if parser.IsAtom(lhs) && parser.IsAtom(rhs) {
		return constantFold(lhs, rhs, invert)
	}
	rawPath, rawAtom := lhs, rhs
	if !parser.IsPath(lhs) {
		rawPath, rawAtom = rhs, lhs
	}

	a, err := compileAtom(rawAtom)
	if err != nil {
		return nil, ErrTwoPaths
	}

	r, pathType, err := compilePathOperand(rawPath, context)
	if err != nil {
		return nil, err
	}
	ok := false
	switch a.(type) {
	case intAtom:
		ok = pathType.IsInteger()
	case floatAtom:
		ok = pathType.IsFloating()
	case strAtom:
		ok = pathType.IsString()
	}
	if !ok {
		return nil, ErrTypeMismatch
	}

	return eqFilter{atom: a, ref: r, invert: invert}, nil
}

// constantFold eliminates a comparison of two literals at compile
// time. Literals of different kinds compare unequal. A comparison that
// would accept every record becomes the true filter; one that would
// reject every record is a compile error.
func constantFold(lhs, rhs parser.Item, invert bool) (filter, error) {
	val := false
	switch l := lhs.(type) {
	case parser.IntItem:
		r, ok := rhs.(parser.IntItem)
		val = ok && l.Value == r.Value
	case parser.FloatItem:
		r, ok := rhs.(parser.FloatItem)
		val = ok && l.Value == r.Value
	case parser.StrItem:
		r, ok := rhs.(parser.StrItem)
		val = ok && l.Value == r.Value
	}
	if val != invert {
		return trueFilter{}, nil
	}
	return nil, ErrConstantFalse
}

func compileIntList(list []parser.Item) (map[int32]struct{}, error) {
	set := make(map[int32]struct{}, len(list))
	for _, item := range list {
		i, ok := item.(parser.IntItem)
		if !ok {
			return nil, ErrIntListExpected
		}
		set[i.Value] = struct{}{}
	}
	return set, nil
}

func compileStrList(list []parser.Item) (map[string]struct{}, error) {
	set := make(map[string]struct{}, len(list))
	for _, item := range list {
		s, ok := item.(parser.StrItem)
		if !ok {
			return nil, ErrStrListExpected
		}
		set[s.Value] = struct{}{}
	}
	return set, nil
}

func compileIn(rawItem parser.Item, list []parser.Item, context desc.FieldDescriptor) (filter, error) {
	r, pathType, err := compilePathOperand(rawItem, context)
	if err != nil {
		return nil, err
	}
	switch {
	case pathType.IsInteger():
		set, err := compileIntList(list)
		if err != nil {
			return nil, err
		}
		return inIntFilter{ref: r, set: set}, nil
	case pathType.IsString():
		set, err := compileStrList(list)
		if err != nil {
			return nil, err
		}
		return inStrFilter{ref: r, set: set}, nil
	default:
		return nil, ErrInUnsupported
	}
}

func compileFilter(raw parser.Filter, context desc.FieldDescriptor) (filter, error) {
	switch raw := raw.(type) {
	case parser.TrueFilter:
		return trueFilter{}, nil
	case parser.EqFilter:
		return compileEq(raw.LHS, raw.RHS, raw.Invert, context)
	case parser.RxFilter:
		return nil, ErrRxNotImplemented
	case parser.InFilter:
		return compileIn(raw.Item, raw.List, context)
	case parser.IdxFilter:
		if context.Label() != desc.LabelRepeated || raw.Index < 0 {
			return nil, ErrBadIndex
		}
		return idxFilter{index: uint32(raw.Index)}, nil
	default:
		return nil, fmt.Errorf("unknown filter %T", raw)
	}
}
