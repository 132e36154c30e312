// Package descload obtains message descriptors for query compilation.
//
// Three sources are supported: compiled descriptor-set files (the
// output of protoc --descriptor_set_out or buf build), .proto sources
// compiled on the fly, and gRPC server reflection. All of them produce
// protobuf runtime descriptors, which Message adapts to the contract
// the compiler consumes.
package descload

import (
	"fmt"
	"os"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/protoquery/pbquery/desc"
)

// Protoset loads a compiled FileDescriptorSet from the file at the
// given path and returns the files it describes. The set must be
// self-contained: every import of every file present in the set.
func Protoset(path string) (*protoregistry.Files, error) {
	bb, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var fds descriptorpb.FileDescriptorSet
	if err := proto.Unmarshal(bb, &fds); err != nil {
		return nil, fmt.Errorf("%s is not a file descriptor set: %w", path, err)
	}
	return protodesc.NewFiles(&fds)
}

// Message resolves a fully-qualified message name against the given
// files and adapts its descriptor for query compilation.
func Message(files *protoregistry.Files, name protoreflect.FullName) (desc.MessageDescriptor, error) {
	d, err := files.FindDescriptorByName(name)
	if err != nil {
		return nil, err
	}
	md, ok := d.(protoreflect.MessageDescriptor)
	if !ok {
		return nil, fmt.Errorf("%s is a %T, not a message", name, d)
	}
	return desc.Wrap(md), nil
}
