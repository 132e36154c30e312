package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protoquery/pbquery/desc"
	"github.com/protoquery/pbquery/internal/prototest"
	"github.com/protoquery/pbquery/parser"
)

const compileTestSchema = `
syntax = "proto3";
package test;

message Feed {
  repeated Entity entity = 1;
  string name = 2;
  double ratio = 3;
  bool flag = 4;
  Color color = 5;
  Node tree = 6;
}

message Entity {
  string id = 1;
  int32 value = 2;
  repeated int64 nums = 3;
  float score = 4;
}

message Node {
  Node child = 1;
  string label = 2;
}

enum Color {
  COLOR_UNSPECIFIED = 0;
  COLOR_RED = 1;
}
`

func compileTestRoot(t *testing.T) desc.MessageDescriptor {
	t.Helper()
	fd := prototest.CompileSource(t, compileTestSchema)
	return desc.Wrap(prototest.MessageDescriptor(t, fd, "Feed"))
}

func mustCompile(t *testing.T, root desc.MessageDescriptor, expr string) *Expr {
	t.Helper()
	raw, err := parser.Parse(expr)
	require.NoError(t, err)
	compiled, err := Compile(raw, root)
	require.NoError(t, err, "compiling %q", expr)
	return compiled
}

func TestCompileInvariants(t *testing.T) {
	root := compileTestRoot(t)
	for _, in := range []string{
		"entity",
		"entity.id",
		"entity[0].value",
		"entity[id = 'b'].value",
		"entity[value != 7]",
		"name[@ = 'x']",
		"entity[nums[0] = 3].id",
		"entity[id in ('a', 'b')].score",
		"entity[value in (1, 2, 3)]",
		"tree.child.child.label",
	} {
		e := mustCompile(t, root, in)
		assert.Equal(t, len(e.path), len(e.filters), "expression %q", in)
		assert.NotEmpty(t, e.path, "expression %q", in)
	}
}

func TestCompileTypes(t *testing.T) {
	root := compileTestRoot(t)
	testCases := []struct {
		expr string
		tags []int32
		typ  desc.Type
	}{
		{"entity", []int32{1}, desc.TypeMessage},
		{"entity.id", []int32{1, 1}, desc.TypeString},
		{"entity.value", []int32{1, 2}, desc.TypeInt32},
		{"entity.nums", []int32{1, 3}, desc.TypeInt64},
		{"entity.score", []int32{1, 4}, desc.TypeFloat},
		{"ratio", []int32{3}, desc.TypeDouble},
		{"tree.child.label", []int32{6, 1, 2}, desc.TypeString},
	}
	for _, tc := range testCases {
		e := mustCompile(t, root, tc.expr)
		assert.Equal(t, tc.tags, e.path, "expression %q", tc.expr)
		assert.Equal(t, tc.typ, e.Type(), "expression %q", tc.expr)
	}
}

func TestCompileErrors(t *testing.T) {
	root := compileTestRoot(t)
	testCases := []struct {
		expr string
		err  error
	}{
		{"nope", ErrNoSuchField},
		{"entity[nope = 3]", ErrNoSuchField},
		{"name.value", ErrUnmatchedFields},
		{"", ErrEmptyPath},
		{"entity[id = 3]", ErrTypeMismatch},
		{"entity[score = 3]", ErrTypeMismatch},
		{"entity[value = 'x']", ErrTypeMismatch},
		{"entity[@ = 'x'].id", ErrTypeMismatch},
		{"color[@ = 1]", ErrTypeMismatch},
		{"flag[@ = 1]", ErrTypeMismatch},
		{"entity[id = value]", ErrTwoPaths},
		{"entity[id ~ 'x.*']", ErrRxNotImplemented},
		{"entity[id !~ 'x.*']", ErrRxNotImplemented},
		{"entity[id in (1, 2)]", ErrStrListExpected},
		{"entity[value in ('a')]", ErrIntListExpected},
		{"flag[@ in (1)]", ErrInUnsupported},
		{"entity[@ in (1)]", ErrInUnsupported},
		{"name[0]", ErrBadIndex},
		{"entity[-1]", ErrBadIndex},
		{"name[id = 'x']", ErrNotAMessage},
		{"entity[3 = 4]", ErrConstantFalse},
		{"entity[3 != 3]", ErrConstantFalse},
		{"entity['a' = 3]", ErrConstantFalse},
	}
	for _, tc := range testCases {
		raw, err := parser.Parse(tc.expr)
		require.NoError(t, err, "parsing %q", tc.expr)
		_, err = Compile(raw, root)
		assert.ErrorIs(t, err, tc.err, "compiling %q", tc.expr)
	}
}

func TestCompileConstantFolding(t *testing.T) {
	root := compileTestRoot(t)
	for _, in := range []string{
		"entity[3 = 3]",
		"entity[3 != 4]",
		"entity['a' = 'a']",
		"entity['a' != 3]",
		"entity[3. = 3.]",
	} {
		e := mustCompile(t, root, in)
		assert.Equal(t, trueFilter{}, e.filters[0], "expression %q", in)
	}
}

func TestCompileDedupsLists(t *testing.T) {
	root := compileTestRoot(t)

	e := mustCompile(t, root, "entity[id in ('a', 'b', 'a')]")
	in, ok := e.filters[0].(inStrFilter)
	require.True(t, ok)
	assert.Len(t, in.set, 2)

	e = mustCompile(t, root, "entity[value in (1, 2, 1, 1)]")
	iin, ok := e.filters[0].(inIntFilter)
	require.True(t, ok)
	assert.Len(t, iin.set, 2)
}

func TestCompileEqAtomOnEitherSide(t *testing.T) {
	root := compileTestRoot(t)
	left := mustCompile(t, root, "entity['b' = id].value")
	right := mustCompile(t, root, "entity[id = 'b'].value")
	assert.Equal(t, left.filters[0], right.filters[0])
}

func TestCompileIndexOnRepeatedLeaf(t *testing.T) {
	root := compileTestRoot(t)
	e := mustCompile(t, root, "entity.nums[2]")
	assert.Equal(t, idxFilter{index: 2}, e.filters[1])
}
