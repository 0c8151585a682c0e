package plusvaliav1

import (
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
)

// FileName is the proto file the service descriptor is registered under
const FileName = "plusvalia/v1/plusvalia.proto"

// File_plusvalia_v1_plusvalia_proto describes the service for server
// reflection, so tools such as grpcurl can describe it without a .proto file.
var File_plusvalia_v1_plusvalia_proto protoreflect.FileDescriptor

func init() {
	fd, err := protodesc.NewFile(fileDescriptorProto(), protoregistry.GlobalFiles)
	if err != nil {
		panic("plusvaliav1: invalid service descriptor: " + err.Error())
	}
	if err := protoregistry.GlobalFiles.RegisterFile(fd); err != nil {
		panic("plusvaliav1: " + err.Error())
	}
	File_plusvalia_v1_plusvalia_proto = fd
}

func fileDescriptorProto() *descriptorpb.FileDescriptorProto {
	method := func(name, input string) *descriptorpb.MethodDescriptorProto {
		return &descriptorpb.MethodDescriptorProto{
			Name:       proto.String(name),
			InputType:  proto.String(input),
			OutputType: proto.String(".google.protobuf.Struct"),
		}
	}

	return &descriptorpb.FileDescriptorProto{
		Name:    proto.String(FileName),
		Package: proto.String("plusvalia.v1"),
		Syntax:  proto.String("proto3"),
		Dependency: []string{
			"google/protobuf/empty.proto",
			"google/protobuf/struct.proto",
		},
		Service: []*descriptorpb.ServiceDescriptorProto{
			{
				Name: proto.String("PlusvaliaService"),
				Method: []*descriptorpb.MethodDescriptorProto{
					method("Calculate", ".google.protobuf.Struct"),
					method("ListMunicipalities", ".google.protobuf.Empty"),
					method("GetMunicipality", ".google.protobuf.Struct"),
				},
			},
		},
		Options: &descriptorpb.FileOptions{
			GoPackage: proto.String("github.com/simaogato/plusvalia-backend/internal/adapter/grpc/plusvalia/v1;plusvaliav1"),
		},
	}
}
