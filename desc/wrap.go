package desc

import (
	"google.golang.org/protobuf/reflect/protoreflect"
)

// Wrap adapts a protobuf runtime message descriptor to the
// MessageDescriptor contract. Group-typed and map-typed fields are
// surfaced as message fields (a map field's message is its
// implicit map-entry type, which is how such fields appear on the
// wire). Wrapping is cheap; descriptors are not copied.
func Wrap(md protoreflect.MessageDescriptor) MessageDescriptor {
	if md == nil {
		return nil
	}
	return wrappedMessage{md}
}

type wrappedMessage struct {
	md protoreflect.MessageDescriptor
}

func (w wrappedMessage) FieldByName(name string) FieldDescriptor {
	fd := w.md.Fields().ByName(protoreflect.Name(name))
	if fd == nil {
		return nil
	}
	return wrappedField{fd}
}

type wrappedField struct {
	fd protoreflect.FieldDescriptor
}

func (w wrappedField) Number() int32 {
	return int32(w.fd.Number())
}

func (w wrappedField) Label() Label {
	switch w.fd.Cardinality() {
	case protoreflect.Required:
		return LabelRequired
	case protoreflect.Repeated:
		return LabelRepeated
	default:
		return LabelOptional
	}
}

func (w wrappedField) Type() Type {
	switch w.fd.Kind() {
	case protoreflect.Int32Kind:
		return TypeInt32
	case protoreflect.Sint32Kind:
		return TypeSint32
	case protoreflect.Sfixed32Kind:
		return TypeSfixed32
	case protoreflect.Uint32Kind:
		return TypeUint32
	case protoreflect.Fixed32Kind:
		return TypeFixed32
	case protoreflect.Int64Kind:
		return TypeInt64
	case protoreflect.Sint64Kind:
		return TypeSint64
	case protoreflect.Sfixed64Kind:
		return TypeSfixed64
	case protoreflect.Uint64Kind:
		return TypeUint64
	case protoreflect.Fixed64Kind:
		return TypeFixed64
	case protoreflect.FloatKind:
		return TypeFloat
	case protoreflect.DoubleKind:
		return TypeDouble
	case protoreflect.BoolKind:
		return TypeBool
	case protoreflect.EnumKind:
		return TypeEnum
	case protoreflect.StringKind:
		return TypeString
	case protoreflect.BytesKind:
		return TypeBytes
	case protoreflect.MessageKind, protoreflect.GroupKind:
		return TypeMessage
	default:
		return 0
	}
}

func (w wrappedField) Message() MessageDescriptor {
	if md := w.fd.Message(); md != nil {
		return Wrap(md)
	}
	return nil
}
