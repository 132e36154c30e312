// Package desc defines the minimal schema contract that expression
// compilation is checked against: message descriptors that resolve
// fields by name, and field descriptors that expose a tag number, a
// label, and a scalar category.
//
// The interfaces are deliberately small so that any descriptor source
// can back them. The Wrap function adapts the protobuf runtime's
// reflection descriptors; see the descload package for ways to obtain
// those.
package desc

// Label indicates whether a field is required, optional, or repeated.
type Label int

const (
	LabelOptional Label = iota + 1
	LabelRequired
	LabelRepeated
)

// String returns the label's name, lower-cased as in proto source.
func (l Label) String() string {
	switch l {
	case LabelOptional:
		return "optional"
	case LabelRequired:
		return "required"
	case LabelRepeated:
		return "repeated"
	default:
		return "unknown"
	}
}

// Type is the scalar category of a field: the declared protobuf type,
// which determines both the field's wire framing and which literal
// kinds may be compared against it.
type Type int

const (
	TypeInt32 Type = iota + 1
	TypeSint32
	TypeSfixed32
	TypeUint32
	TypeFixed32
	TypeInt64
	TypeSint64
	TypeSfixed64
	TypeUint64
	TypeFixed64
	TypeFloat
	TypeDouble
	TypeBool
	TypeEnum
	TypeString
	TypeBytes
	TypeMessage
)

// IsInteger reports whether the type is one of the fixed or variable
// integer encodings. Note that bool and enum fields are not counted,
// so integer literals cannot be compared against them.
func (t Type) IsInteger() bool {
	switch t {
	case TypeInt32, TypeSint32, TypeSfixed32, TypeUint32, TypeFixed32,
		TypeInt64, TypeSint64, TypeSfixed64, TypeUint64, TypeFixed64:
		return true
	default:
		return false
	}
}

// IsFloating reports whether the type is float or double.
func (t Type) IsFloating() bool {
	return t == TypeFloat || t == TypeDouble
}

// IsString reports whether the type is string or bytes.
func (t Type) IsString() bool {
	return t == TypeString || t == TypeBytes
}

// IsMessage reports whether the type is an embedded message.
func (t Type) IsMessage() bool {
	return t == TypeMessage
}

// String returns the type's name as written in proto source.
func (t Type) String() string {
	switch t {
	case TypeInt32:
		return "int32"
	case TypeSint32:
		return "sint32"
	case TypeSfixed32:
		return "sfixed32"
	case TypeUint32:
		return "uint32"
	case TypeFixed32:
		return "fixed32"
	case TypeInt64:
		return "int64"
	case TypeSint64:
		return "sint64"
	case TypeSfixed64:
		return "sfixed64"
	case TypeUint64:
		return "uint64"
	case TypeFixed64:
		return "fixed64"
	case TypeFloat:
		return "float"
	case TypeDouble:
		return "double"
	case TypeBool:
		return "bool"
	case TypeEnum:
		return "enum"
	case TypeString:
		return "string"
	case TypeBytes:
		return "bytes"
	case TypeMessage:
		return "message"
	default:
		return "unknown"
	}
}

// MessageDescriptor describes a message type well enough to resolve a
// path step: it maps a field name to that field's descriptor.
type MessageDescriptor interface {
	// FieldByName returns the descriptor of the named field, or nil if
	// the message has no such field.
	FieldByName(name string) FieldDescriptor
}

// FieldDescriptor describes a single field of a message.
type FieldDescriptor interface {
	// Number is the field's tag number as declared in the schema.
	Number() int32
	// Label reports the field's cardinality.
	Label() Label
	// Type is the field's scalar category.
	Type() Type
	// Message returns the descriptor of the field's message type, or
	// nil if the field is not message-typed.
	Message() MessageDescriptor
}
