package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// Item is one operand of a filter expression: a literal scalar, the
// @ self-reference, a parenthesized list, or a nested path.
type Item interface {
	fmt.Stringer
	isItem()
}

// AtItem is the @ self-reference: the record the filter is applied to.
type AtItem struct{}

// IntItem is an integer literal.
type IntItem struct {
	Value int32
}

// FloatItem is a floating-point literal.
type FloatItem struct {
	Value float64
}

// StrItem is a quoted string literal.
type StrItem struct {
	Value string
}

// ListItem is a parenthesized, comma-separated list of items.
type ListItem struct {
	Items []Item
}

// PathItem is a nested path, resolved relative to the message the
// enclosing filter applies to.
type PathItem struct {
	Path Path
}

func (AtItem) isItem()    {}
func (IntItem) isItem()   {}
func (FloatItem) isItem() {}
func (StrItem) isItem()   {}
func (ListItem) isItem()  {}
func (PathItem) isItem()  {}

// IsAtom reports whether the item is a literal scalar.
func IsAtom(item Item) bool {
	switch item.(type) {
	case IntItem, FloatItem, StrItem:
		return true
	}
	return false
}

// IsPath reports whether the item references a record: a nested path or
// the @ self-reference.
func IsPath(item Item) bool {
	switch item.(type) {
	case AtItem, PathItem:
		return true
	}
	return false
}

// Filter is the bracketed constraint attached to a path step.
type Filter interface {
	fmt.Stringer
	isFilter()
}

// TrueFilter is the constraint of a step with no brackets; it accepts
// every record.
type TrueFilter struct{}

// EqFilter is an equality (or, with Invert, inequality) comparison.
type EqFilter struct {
	LHS, RHS Item
	Invert   bool
}

// RxFilter is a regular-expression match. The operators ~ and !~ are
// reserved in the grammar; compilation rejects them.
type RxFilter struct {
	LHS, RHS Item
	Invert   bool
}

// InFilter is a membership test of an item against a literal list.
type InFilter struct {
	Item Item
	List []Item
}

// IdxFilter selects a single occurrence of a repeated field by
// zero-based index. It is written as a bare integer literal.
type IdxFilter struct {
	Index int32
}

func (TrueFilter) isFilter() {}
func (EqFilter) isFilter()   {}
func (RxFilter) isFilter()   {}
func (InFilter) isFilter()   {}
func (IdxFilter) isFilter()  {}

// PathPart is one step of a path: a field name and the filter applied
// to records of that field.
type PathPart struct {
	Field  string
	Filter Filter
}

// Path is an ordered sequence of steps through nested message fields.
type Path []PathPart

func (AtItem) String() string { return "@" }

func (i IntItem) String() string { return strconv.FormatInt(int64(i.Value), 10) }

func (f FloatItem) String() string {
	s := strconv.FormatFloat(f.Value, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		// keep the literal recognizably floating so it reads back as one
		s += "."
	}
	return s
}

func (s StrItem) String() string {
	var sb strings.Builder
	sb.WriteByte('\'')
	for _, r := range s.Value {
		if r == '\'' || r == '\\' {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	sb.WriteByte('\'')
	return sb.String()
}

func (l ListItem) String() string {
	parts := make([]string, len(l.Items))
	for i, item := range l.Items {
		parts[i] = item.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (p PathItem) String() string { return p.Path.String() }

func (TrueFilter) String() string { return "" }

func (f EqFilter) String() string {
	op := "="
	if f.Invert {
		op = "!="
	}
	return fmt.Sprintf("%s %s %s", f.LHS, op, f.RHS)
}

func (f RxFilter) String() string {
	op := "~"
	if f.Invert {
		op = "!~"
	}
	return fmt.Sprintf("%s %s %s", f.LHS, op, f.RHS)
}

func (f InFilter) String() string {
	return fmt.Sprintf("%s in %s", f.Item, ListItem{Items: f.List})
}

func (f IdxFilter) String() string { return strconv.FormatInt(int64(f.Index), 10) }

// String renders the path in the grammar's canonical form: parsing the
// result yields a structurally equal tree.
func (p Path) String() string {
	var sb strings.Builder
	for i, part := range p {
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(part.Field)
		if _, ok := part.Filter.(TrueFilter); !ok {
			sb.WriteByte('[')
			sb.WriteString(part.Filter.String())
			sb.WriteByte(']')
		}
	}
	return sb.String()
}
