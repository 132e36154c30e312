// Package parser parses the path-expression language into a raw syntax
// tree. The grammar is a dotted field path where each step may carry a
// bracketed filter:
//
//	path    := ident ( '[' expr ']' )? ( '.' path )?
//	expr    := item (op item)?
//	item    := '@' | number | string | '(' list ')' | path
//	list    := item (',' item)* | ε
//	op      := '==' | '=' | '!=' | '~' | '!~' | 'in'
//
// A bare integer inside brackets selects a repeated-field occurrence by
// index. The tree produced here is untyped; field names are bound to
// tag numbers by the query package, which compiles the tree against a
// message descriptor.
package parser

import (
	"errors"
	"strconv"
	"strings"
	"unicode"
)

// Parse errors. Parsing stops at the first error; the input is never
// partially consumed from the caller's point of view.
var (
	ErrExpectedIdentifier  = errors.New("Expected identifier")
	ErrNotANumber          = errors.New("Not a number")
	ErrNoQuotes            = errors.New("No quotes?")
	ErrNoTrailingDelimiter = errors.New("No trailing delimiter?")
	ErrEndOfInput          = errors.New("End of input")
	ErrOpEndOfInput        = errors.New("Expected operator, got end of input")
	ErrInvalidOperator     = errors.New("Invalid operator")
	ErrBadList             = errors.New("Could not parse list")
	ErrBadFilter           = errors.New("Could not parse filter")
	ErrNoClosingBracket    = errors.New("couldn't find trailing ]")
	ErrInRequiresList      = errors.New("right hand of 'in' must be a list")
	ErrTrailingGarbage     = errors.New("Trailing garbage after string")
)

// Parse parses a complete path expression. Anything but whitespace left
// over after the path is an error. The returned path may be empty (for
// blank input); compilation rejects empty paths.
func Parse(input string) (Path, error) {
	path, tail, err := parsePath(input)
	if err != nil {
		return nil, err
	}
	if trimLeft(tail) != "" {
		return nil, ErrTrailingGarbage
	}
	return path, nil
}

func trimLeft(s string) string {
	return strings.TrimLeftFunc(s, unicode.IsSpace)
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentContinue(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func ident(input string) (string, string, error) {
	if input == "" || !isIdentStart(input[0]) {
		return "", input, ErrExpectedIdentifier
	}
	i := 1
	for i < len(input) && isIdentContinue(input[i]) {
		i++
	}
	return input[:i], input[i:], nil
}

// scanInt scans an optional sign followed by decimal digits, returning
// the number of bytes a C strtol would consume, which is zero when no
// digits follow the sign.
func scanInt(input string) int {
	i := 0
	if i < len(input) && (input[i] == '+' || input[i] == '-') {
		i++
	}
	start := i
	for i < len(input) && input[i] >= '0' && input[i] <= '9' {
		i++
	}
	if i == start {
		return 0
	}
	return i
}

// scanFloat scans an optional sign, decimal digits, and an optional
// fractional part, returning the number of bytes a C strtod would
// consume for a literal of that form. Exponents, hex, inf, and nan are
// not scanned. A lone sign or dot consumes nothing.
func scanFloat(input string) int {
	i := 0
	if i < len(input) && (input[i] == '+' || input[i] == '-') {
		i++
	}
	digits := 0
	for i < len(input) && input[i] >= '0' && input[i] <= '9' {
		i++
		digits++
	}
	if i < len(input) && input[i] == '.' {
		i++
		for i < len(input) && input[i] >= '0' && input[i] <= '9' {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0
	}
	return i
}

// parseNum scans a numeric literal. The literal is an integer when the
// integer and floating scans consume the same number of bytes and
// floating otherwise, so "42." and "42.goat" are float-prefix cases.
func parseNum(input string) (Item, string, error) {
	intLen := scanInt(input)
	floatLen := scanFloat(input)
	if floatLen == 0 {
		return nil, input, ErrNotANumber
	}
	if intLen == floatLen {
		// literals beyond the int64 range saturate, like strtol; the
		// result is then truncated to 32 bits
		v, _ := strconv.ParseInt(input[:intLen], 10, 64)
		return IntItem{Value: int32(v)}, input[intLen:], nil
	}
	v, _ := strconv.ParseFloat(input[:floatLen], 64)
	return FloatItem{Value: v}, input[floatLen:], nil
}

// parseQuoted parses a single- or double-quoted string. A backslash
// escapes the next character, whatever it is, including the delimiter
// and backslash itself.
func parseQuoted(input string) (string, string, error) {
	delim := input[0]
	if delim != '\'' && delim != '"' {
		return "", input, ErrNoQuotes
	}
	var sb strings.Builder
	escape := false
	for i, c := range input[1:] {
		if !escape {
			if c == rune(delim) {
				return sb.String(), input[i+2:], nil
			}
			if c == '\\' {
				escape = true
				continue
			}
		} else {
			escape = false
		}
		sb.WriteRune(c)
	}
	return "", input, ErrNoTrailingDelimiter
}

func parseList(input string) ([]Item, string, error) {
	tail := input
	var items []Item
	for {
		tail = trimLeft(tail)
		item, t, err := parseItem(tail)
		if err != nil {
			break
		}
		items = append(items, item)
		tail = trimLeft(t)
		if !strings.HasPrefix(tail, ",") {
			break
		}
		tail = tail[1:]
	}
	return items, tail, nil
}

func parseItem(input string) (Item, string, error) {
	if input == "" {
		return nil, input, ErrEndOfInput
	}
	switch c := input[0]; {
	case c == '@':
		return AtItem{}, input[1:], nil
	case c == '\'' || c == '"':
		s, tail, err := parseQuoted(input)
		if err != nil {
			return nil, input, err
		}
		return StrItem{Value: s}, tail, nil
	case c >= '0' && c <= '9' || c == '-' || c == '+':
		return parseNum(input)
	case c == '(':
		items, tail, err := parseList(input[1:])
		if err != nil {
			return nil, input, err
		}
		tail = trimLeft(tail)
		if !strings.HasPrefix(tail, ")") {
			return nil, input, ErrBadList
		}
		return ListItem{Items: items}, tail[1:], nil
	default:
		path, tail, err := parsePath(input)
		if err != nil {
			return nil, input, err
		}
		if len(path) == 0 {
			return nil, input, ErrExpectedIdentifier
		}
		return PathItem{Path: path}, tail, nil
	}
}

type op int

const (
	opEq op = iota
	opNotEq
	opRx
	opNotRx
	opIn
)

func parseOp(input string) (op, string, error) {
	if len(input) < 2 {
		return 0, input, ErrOpEndOfInput
	}
	switch {
	case input[0] == '=' && input[1] == '=':
		return opEq, input[2:], nil
	case input[0] == '=':
		return opEq, input[1:], nil
	case input[0] == '~':
		return opRx, input[1:], nil
	case input[0] == '!' && input[1] == '=':
		return opNotEq, input[2:], nil
	case input[0] == '!' && input[1] == '~':
		return opNotRx, input[2:], nil
	case input[0] == 'i' && input[1] == 'n':
		return opIn, input[2:], nil
	default:
		return 0, input, ErrInvalidOperator
	}
}

// parseExpr parses the inside of a bracketed filter: either a binary
// comparison or a bare integer index.
func parseExpr(input string) (Filter, string, error) {
	tail := trimLeft(input)
	left, tail, err := parseItem(tail)
	if err != nil {
		return nil, input, err
	}
	tail = trimLeft(tail)
	if o, t, err := parseOp(tail); err == nil {
		t = trimLeft(t)
		right, t, err := parseItem(t)
		if err != nil {
			return nil, input, err
		}
		var f Filter
		switch o {
		case opEq:
			f = EqFilter{LHS: left, RHS: right}
		case opNotEq:
			f = EqFilter{LHS: left, RHS: right, Invert: true}
		case opRx:
			f = RxFilter{LHS: left, RHS: right}
		case opNotRx:
			f = RxFilter{LHS: left, RHS: right, Invert: true}
		case opIn:
			list, ok := right.(ListItem)
			if !ok {
				return nil, input, ErrInRequiresList
			}
			f = InFilter{Item: left, List: list.Items}
		}
		return f, t, nil
	}
	if idx, ok := left.(IntItem); ok {
		return IdxFilter{Index: idx.Value}, tail, nil
	}
	return nil, input, ErrBadFilter
}

func parsePath(input string) (Path, string, error) {
	tail := input
	var parts Path
	for {
		id, t, err := ident(tail)
		if err != nil {
			break
		}
		tail = t
		var filter Filter = TrueFilter{}
		if strings.HasPrefix(tail, "[") {
			f, t, err := parseExpr(tail[1:])
			if err != nil {
				return nil, input, err
			}
			if !strings.HasPrefix(t, "]") {
				return nil, input, ErrNoClosingBracket
			}
			filter = f
			tail = t[1:]
		}
		parts = append(parts, PathPart{Field: id, Filter: filter})
		if !strings.HasPrefix(tail, ".") {
			break
		}
		tail = tail[1:]
	}
	return parts, tail, nil
}
