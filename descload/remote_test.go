package descload_test

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/test/bufconn"

	"github.com/protoquery/pbquery/descload"
)

func reflectionClient(t *testing.T) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	reflection.Register(srv)
	go func() {
		_ = srv.Serve(lis)
	}()
	t.Cleanup(srv.Stop)

	cc, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = cc.Close() })
	return cc
}

func TestRemote(t *testing.T) {
	cc := reflectionClient(t)

	// the reflection service's own request type is always resolvable
	// on a server that exposes reflection
	md, err := descload.Remote(context.Background(), cc, "grpc.reflection.v1.ServerReflectionRequest")
	require.NoError(t, err)
	host := md.FieldByName("host")
	require.NotNil(t, host)
	assert.Equal(t, int32(1), host.Number())
}

func TestRemoteUnknownSymbol(t *testing.T) {
	cc := reflectionClient(t)

	_, err := descload.Remote(context.Background(), cc, "no.such.Message")
	assert.Error(t, err)
}
