package descload

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	refv1 "google.golang.org/grpc/reflection/grpc_reflection_v1"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/protoquery/pbquery/desc"
)

// Remote fetches the descriptor of the named message from a server
// exposing the v1 gRPC reflection service, along with the transitive
// closure of files it needs. Servers that only speak the deprecated
// v1alpha reflection API are not supported.
func Remote(ctx context.Context, cc grpc.ClientConnInterface, symbol protoreflect.FullName) (desc.MessageDescriptor, error) {
	client := refv1.NewServerReflectionClient(cc)
	stream, err := client.ServerReflectionInfo(ctx)
	if err != nil {
		return nil, err
	}
	err = stream.Send(&refv1.ServerReflectionRequest{
		MessageRequest: &refv1.ServerReflectionRequest_FileContainingSymbol{
			FileContainingSymbol: string(symbol),
		},
	})
	if err != nil {
		return nil, err
	}
	resp, err := stream.Recv()
	_ = stream.CloseSend()
	if err != nil {
		return nil, err
	}

	var fds descriptorpb.FileDescriptorSet
	switch r := resp.MessageResponse.(type) {
	case *refv1.ServerReflectionResponse_FileDescriptorResponse:
		// servers may repeat a file in the response; the registry
		// rejects duplicates
		seen := map[string]struct{}{}
		for _, bb := range r.FileDescriptorResponse.FileDescriptorProto {
			var fdp descriptorpb.FileDescriptorProto
			if err := proto.Unmarshal(bb, &fdp); err != nil {
				return nil, fmt.Errorf("server sent an unparseable file descriptor: %w", err)
			}
			if _, ok := seen[fdp.GetName()]; ok {
				continue
			}
			seen[fdp.GetName()] = struct{}{}
			fds.File = append(fds.File, &fdp)
		}
	case *refv1.ServerReflectionResponse_ErrorResponse:
		return nil, fmt.Errorf("server could not resolve %s: %s (%s)",
			symbol, r.ErrorResponse.GetErrorMessage(), codes.Code(r.ErrorResponse.GetErrorCode()))
	default:
		return nil, fmt.Errorf("unexpected reflection response %T", resp.MessageResponse)
	}

	files, err := protodesc.NewFiles(&fds)
	if err != nil {
		return nil, err
	}
	return Message(files, symbol)
}
