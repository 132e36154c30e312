package desc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protoquery/pbquery/desc"
	"github.com/protoquery/pbquery/internal/prototest"
)

const wrapTestSchema = `
syntax = "proto2";
package test;

message Scalars {
  required int32 i32 = 1;
  optional sint32 s32 = 2;
  optional sfixed32 sf32 = 3;
  optional uint32 u32 = 4;
  optional fixed32 f32 = 5;
  optional int64 i64 = 6;
  optional sint64 s64 = 7;
  optional sfixed64 sf64 = 8;
  optional uint64 u64 = 9;
  optional fixed64 f64 = 10;
  optional float f = 11;
  optional double d = 12;
  optional bool b = 13;
  optional Color c = 14;
  optional string s = 15;
  optional bytes by = 16;
  repeated Scalars rec = 17;
}

enum Color {
  RED = 0;
}
`

func TestWrap(t *testing.T) {
	fd := prototest.CompileSource(t, wrapTestSchema)
	md := desc.Wrap(prototest.MessageDescriptor(t, fd, "Scalars"))

	testCases := []struct {
		name   string
		number int32
		typ    desc.Type
	}{
		{"i32", 1, desc.TypeInt32},
		{"s32", 2, desc.TypeSint32},
		{"sf32", 3, desc.TypeSfixed32},
		{"u32", 4, desc.TypeUint32},
		{"f32", 5, desc.TypeFixed32},
		{"i64", 6, desc.TypeInt64},
		{"s64", 7, desc.TypeSint64},
		{"sf64", 8, desc.TypeSfixed64},
		{"u64", 9, desc.TypeUint64},
		{"f64", 10, desc.TypeFixed64},
		{"f", 11, desc.TypeFloat},
		{"d", 12, desc.TypeDouble},
		{"b", 13, desc.TypeBool},
		{"c", 14, desc.TypeEnum},
		{"s", 15, desc.TypeString},
		{"by", 16, desc.TypeBytes},
		{"rec", 17, desc.TypeMessage},
	}
	for _, tc := range testCases {
		f := md.FieldByName(tc.name)
		require.NotNil(t, f, "field %s", tc.name)
		assert.Equal(t, tc.number, f.Number(), "field %s", tc.name)
		assert.Equal(t, tc.typ, f.Type(), "field %s", tc.name)
		if tc.typ == desc.TypeMessage {
			assert.NotNil(t, f.Message())
		} else {
			assert.Nil(t, f.Message())
		}
	}

	assert.Nil(t, md.FieldByName("missing"))

	assert.Equal(t, desc.LabelRequired, md.FieldByName("i32").Label())
	assert.Equal(t, desc.LabelOptional, md.FieldByName("s").Label())
	assert.Equal(t, desc.LabelRepeated, md.FieldByName("rec").Label())

	// the message graph is cyclic; wrapping stays lazy
	inner := md.FieldByName("rec").Message()
	require.NotNil(t, inner)
	assert.NotNil(t, inner.FieldByName("rec"))
}

func TestTypeCategories(t *testing.T) {
	ints := []desc.Type{
		desc.TypeInt32, desc.TypeSint32, desc.TypeSfixed32, desc.TypeUint32,
		desc.TypeFixed32, desc.TypeInt64, desc.TypeSint64, desc.TypeSfixed64,
		desc.TypeUint64, desc.TypeFixed64,
	}
	for _, typ := range ints {
		assert.True(t, typ.IsInteger(), "%v", typ)
		assert.False(t, typ.IsFloating() || typ.IsString() || typ.IsMessage(), "%v", typ)
	}

	// bool and enum are deliberately outside every comparable category
	for _, typ := range []desc.Type{desc.TypeBool, desc.TypeEnum} {
		assert.False(t, typ.IsInteger() || typ.IsFloating() || typ.IsString() || typ.IsMessage(), "%v", typ)
	}

	assert.True(t, desc.TypeFloat.IsFloating())
	assert.True(t, desc.TypeDouble.IsFloating())
	assert.True(t, desc.TypeString.IsString())
	assert.True(t, desc.TypeBytes.IsString())
	assert.True(t, desc.TypeMessage.IsMessage())
}
