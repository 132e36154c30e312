package codec

import (
	"errors"
	"fmt"
	"io"
	"math"
	"unicode/utf8"
)

// WireType identifies the framing of a single record in the protobuf
// binary format: the low three bits of each record's tag word.
type WireType int8

const (
	// WireVarint is a base-128 varint payload.
	WireVarint WireType = 0
	// WireFixed64 is an 8-byte little-endian payload.
	WireFixed64 WireType = 1
	// WireLengthPrefixed is a varint length followed by that many bytes.
	// Strings, bytes, and embedded messages use this framing.
	WireLengthPrefixed WireType = 2
	// WireFixed32 is a 4-byte little-endian payload.
	WireFixed32 WireType = 5
)

// String returns the name of the wire type as used in the protobuf
// documentation.
func (wt WireType) String() string {
	switch wt {
	case WireVarint:
		return "varint"
	case WireFixed64:
		return "fixed64"
	case WireLengthPrefixed:
		return "length-prefixed"
	case WireFixed32:
		return "fixed32"
	default:
		return fmt.Sprintf("wiretype(%d)", int8(wt))
	}
}

// A Record is a single tag/value pair framed out of an encoded message.
// Its slices alias the input buffer: a Record owns nothing and must not
// be retained past the lifetime of the bytes it was decoded from.
type Record struct {
	// Contents is the record's payload: the varint bytes for
	// WireVarint, the fixed-width bytes for WireFixed32/WireFixed64,
	// and the bytes after the length prefix for WireLengthPrefixed.
	Contents []byte
	// Tag is the field number from the record's tag word.
	Tag int32
	// WireType is the record's framing.
	WireType WireType
	// Bytes spans the whole record: tag word, any length prefix, and
	// payload.
	Bytes []byte
}

// DecodeRecord frames the next record out of the buffer. It returns
// io.EOF when the buffer is exhausted and also when the remaining bytes
// are too short to hold a complete record, in which case the buffer is
// left positioned at the start of the incomplete record. Records are
// never partially consumed. A tag word with an unsupported wire-type
// selector is an error, not end of input.
func (cb *Buffer) DecodeRecord() (Record, error) {
	start := cb.index
	if cb.EOF() {
		return Record{}, io.EOF
	}
	tag, wireType, err := cb.DecodeTagAndWireType()
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			cb.index = start
			err = io.EOF
		}
		return Record{}, err
	}

	var contents []byte
	switch wireType {
	case WireVarint:
		vstart := cb.index
		_, err = cb.DecodeVarint()
		contents = cb.buf[vstart:cb.index]
	case WireFixed64:
		if err = cb.Skip(8); err == nil {
			contents = cb.buf[cb.index-8 : cb.index : cb.index]
		}
	case WireFixed32:
		if err = cb.Skip(4); err == nil {
			contents = cb.buf[cb.index-4 : cb.index : cb.index]
		}
	case WireLengthPrefixed:
		contents, err = cb.DecodeRawBytes()
	}
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			cb.index = start
			err = io.EOF
		}
		return Record{}, err
	}

	return Record{
		Contents: contents,
		Tag:      tag,
		WireType: wireType,
		Bytes:    cb.buf[start:cb.index],
	}, nil
}

// AsInt interprets the record's payload as a signed 32-bit integer.
// Only varint records can be read this way; wider varints are narrowed.
func (r Record) AsInt() (int32, error) {
	if r.WireType != WireVarint {
		return 0, fmt.Errorf("proto: cannot read %v record as int", r.WireType)
	}
	v, err := NewBuffer(r.Contents).DecodeVarint()
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}

// AsFloat interprets the record's payload as a floating-point value:
// an IEEE-754 single for fixed32 records, widened to a double, or an
// IEEE-754 double for fixed64 records.
func (r Record) AsFloat() (float64, error) {
	switch r.WireType {
	case WireFixed32:
		v, err := NewBuffer(r.Contents).DecodeFixed32()
		if err != nil {
			return 0, err
		}
		return float64(math.Float32frombits(uint32(v))), nil
	case WireFixed64:
		v, err := NewBuffer(r.Contents).DecodeFixed64()
		if err != nil {
			return 0, err
		}
		return math.Float64frombits(v), nil
	default:
		return 0, fmt.Errorf("proto: cannot read %v record as float", r.WireType)
	}
}

// AsString interprets the record's payload as UTF-8 text. Payloads that
// are not valid UTF-8 are a decode error.
func (r Record) AsString() (string, error) {
	if r.WireType != WireLengthPrefixed {
		return "", fmt.Errorf("proto: cannot read %v record as string", r.WireType)
	}
	if !utf8.Valid(r.Contents) {
		return "", fmt.Errorf("proto: field %d is not valid UTF-8", r.Tag)
	}
	return string(r.Contents), nil
}
