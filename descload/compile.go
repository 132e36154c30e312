package descload

import (
	"context"

	"github.com/bufbuild/protocompile"
	"google.golang.org/protobuf/reflect/protoregistry"
)

// Compile compiles the named .proto files, resolving imports against
// the given import paths (and the well-known imports), and returns the
// compiled files.
func Compile(ctx context.Context, importPaths []string, filenames ...string) (*protoregistry.Files, error) {
	compiler := protocompile.Compiler{
		Resolver: protocompile.WithStandardImports(&protocompile.SourceResolver{
			ImportPaths: importPaths,
		}),
	}
	compiled, err := compiler.Compile(ctx, filenames...)
	if err != nil {
		return nil, err
	}
	var files protoregistry.Files
	for _, fd := range compiled {
		if err := files.RegisterFile(fd); err != nil {
			return nil, err
		}
	}
	return &files, nil
}
