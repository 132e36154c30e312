// Command pbq evaluates a path expression over encoded protobuf
// messages read from a file or stdin and prints each match.
//
// The schema can come from a compiled descriptor set, from .proto
// sources, or from a gRPC server exposing reflection:
//
//	pbq -protoset feed.protoset -message transit_realtime.FeedMessage \
//	    -in feed.bin 'entity.vehicle[trip.route_id = "12"].position.latitude'
//
//	pbq -proto feed.proto -I protos -message transit_realtime.FeedMessage ...
//
//	pbq -server localhost:8443 -message transit_realtime.FeedMessage ...
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/protoquery/pbquery"
	"github.com/protoquery/pbquery/codec"
	"github.com/protoquery/pbquery/desc"
	"github.com/protoquery/pbquery/descload"
	"github.com/protoquery/pbquery/query"
)

var (
	protoset    = flag.String("protoset", "", "compiled descriptor set file")
	protoFile   = flag.String("proto", "", ".proto source file to compile")
	importPaths = flag.String("I", ".", "comma-separated import paths for -proto")
	server      = flag.String("server", "", "gRPC server to fetch the schema from via reflection")
	message     = flag.String("message", "", "fully-qualified name of the root message type")
	input       = flag.String("in", "", "file of encoded messages to query (default stdin)")
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("pbq: ")
	flag.Parse()
	if flag.NArg() != 1 || *message == "" {
		fmt.Fprintln(os.Stderr, "usage: pbq [-protoset file | -proto file [-I paths] | -server addr] -message name [-in file] expression")
		flag.PrintDefaults()
		os.Exit(2)
	}

	root, err := loadRoot()
	if err != nil {
		log.Fatal(err)
	}
	expr, err := pbquery.Compile(flag.Arg(0), root)
	if err != nil {
		log.Fatalf("compiling %q: %v", flag.Arg(0), err)
	}

	in := os.Stdin
	if *input != "" {
		in, err = os.Open(*input)
		if err != nil {
			log.Fatal(err)
		}
		defer in.Close()
	}

	err = query.RunStream(bufio.NewReaderSize(in, 1<<20), expr, func(rec codec.Record) bool {
		fmt.Println(format(rec, expr.Type()))
		return true
	})
	if err != nil {
		log.Fatal(err)
	}
}

func loadRoot() (desc.MessageDescriptor, error) {
	name := protoreflect.FullName(*message)
	switch {
	case *protoset != "":
		files, err := descload.Protoset(*protoset)
		if err != nil {
			return nil, err
		}
		return descload.Message(files, name)
	case *protoFile != "":
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		files, err := descload.Compile(ctx, strings.Split(*importPaths, ","), *protoFile)
		if err != nil {
			return nil, err
		}
		return descload.Message(files, name)
	case *server != "":
		cc, err := grpc.NewClient(*server, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			return nil, err
		}
		defer cc.Close()
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		return descload.Remote(ctx, cc, name)
	default:
		return nil, fmt.Errorf("one of -protoset, -proto, or -server is required")
	}
}

// format renders a matched record using the compiled expression's
// result type where it helps; anything unrenderable falls back to hex.
func format(rec codec.Record, t desc.Type) string {
	prefix := fmt.Sprintf("%d\t%v\t", rec.Tag, rec.WireType)
	switch {
	case t.IsInteger() || t == desc.TypeBool || t == desc.TypeEnum:
		if v, err := rec.AsInt(); err == nil {
			return prefix + fmt.Sprintf("%d", v)
		}
	case t.IsFloating():
		if v, err := rec.AsFloat(); err == nil {
			return prefix + fmt.Sprintf("%g", v)
		}
	case t.IsString():
		if v, err := rec.AsString(); err == nil {
			return prefix + fmt.Sprintf("%q", v)
		}
	}
	return prefix + fmt.Sprintf("%x", rec.Contents)
}
