// Package prototest compiles inline proto sources and builds encoded
// payloads for tests.
package prototest

import (
	"context"
	"testing"

	"github.com/bufbuild/protocompile"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
)

// CompileSource compiles a single in-memory .proto source, named
// test.proto, and returns its file descriptor.
func CompileSource(t *testing.T, source string) protoreflect.FileDescriptor {
	t.Helper()
	compiler := protocompile.Compiler{
		Resolver: protocompile.WithStandardImports(&protocompile.SourceResolver{
			Accessor: protocompile.SourceAccessorFromMap(map[string]string{
				"test.proto": source,
			}),
		}),
	}
	files, err := compiler.Compile(context.Background(), "test.proto")
	require.NoError(t, err)
	return files[0]
}

// MessageDescriptor finds the named message in the given file.
func MessageDescriptor(t *testing.T, fd protoreflect.FileDescriptor, name protoreflect.Name) protoreflect.MessageDescriptor {
	t.Helper()
	md := fd.Messages().ByName(name)
	require.NotNil(t, md, "message %s not found in %s", name, fd.Path())
	return md
}

// Marshal builds a dynamic message of the given type from text format
// and returns its wire encoding.
func Marshal(t *testing.T, md protoreflect.MessageDescriptor, textpb string) []byte {
	t.Helper()
	msg := dynamicpb.NewMessage(md)
	require.NoError(t, prototext.Unmarshal([]byte(textpb), msg))
	b, err := proto.Marshal(msg)
	require.NoError(t, err)
	return b
}
