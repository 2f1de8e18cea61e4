// Package backend hands a compiled internal/ir.Module off to an external
// consumer over gRPC (spec §5's "Backend handoff") and publishes a
// session's diagnostics to a sink the same way. There is no teacher
// analogue for a compiler backend (funxy's internal/backend picks between
// its own tree-walk and VM *execution* backends, a different concern); the
// dynamic, descriptor-driven message construction below is instead
// grounded on the teacher's grpc/proto builtins
// (internal/evaluator/builtins_grpc.go), which load a .proto file with
// jhump/protoreflect's protoparse, build dynamic.Message values against
// its descriptors, and register a grpc.ServiceDesc by hand rather than
// against generated .pb.go stubs — exactly the shape a compiler backend
// that must stay decoupled from any one consumer's generated code needs.
package backend

import (
	"fmt"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
)

// schemaSource is the handoff protocol, embedded rather than read from
// disk so a latticec binary never depends on a co-located .proto file at
// runtime (mirroring the teacher's grpcLoadProto, but sourced from a
// string instead of a path on disk).
const schemaSource = `
syntax = "proto3";
package latticec.backend;

message Diagnostic {
  string severity = 1;
  string code = 2;
  string message = 3;
  int32 file_id = 4;
  int32 start_byte = 5;
  int32 end_byte = 6;
}

message ModuleEnvelope {
  string session_id = 1;
  string module_name = 2;
  string ir_text = 3;
}

message DiagnosticBatch {
  string session_id = 1;
  repeated Diagnostic diagnostics = 2;
}

message Ack {
  bool ok = 1;
  string message = 2;
}

service BackendHandoff {
  rpc Emit(ModuleEnvelope) returns (Ack);
}

service DiagnosticSink {
  rpc Publish(DiagnosticBatch) returns (Ack);
}
`

const schemaFileName = "latticec/backend.proto"

// Schema holds the parsed descriptors the handoff and sink servers and
// clients build dynamic.Message values against.
type Schema struct {
	File *desc.FileDescriptor

	ModuleEnvelope  *desc.MessageDescriptor
	Diagnostic      *desc.MessageDescriptor
	DiagnosticBatch *desc.MessageDescriptor
	Ack             *desc.MessageDescriptor

	BackendHandoff *desc.ServiceDescriptor
	DiagnosticSink *desc.ServiceDescriptor
}

// LoadSchema parses schemaSource the same way the teacher's grpcLoadProto
// parses a user-supplied .proto file: via protoparse.Parser, just with an
// in-memory Accessor standing in for the filesystem.
func LoadSchema() (*Schema, error) {
	parser := protoparse.Parser{
		Accessor: protoparse.FileContentsFromMap(map[string]string{
			schemaFileName: schemaSource,
		}),
	}
	fds, err := parser.ParseFiles(schemaFileName)
	if err != nil {
		return nil, fmt.Errorf("backend: parsing handoff schema: %w", err)
	}
	if len(fds) == 0 {
		return nil, fmt.Errorf("backend: handoff schema produced no file descriptor")
	}
	fd := fds[0]

	s := &Schema{
		File:            fd,
		ModuleEnvelope:  fd.FindMessage("latticec.backend.ModuleEnvelope"),
		Diagnostic:      fd.FindMessage("latticec.backend.Diagnostic"),
		DiagnosticBatch: fd.FindMessage("latticec.backend.DiagnosticBatch"),
		Ack:             fd.FindMessage("latticec.backend.Ack"),
		BackendHandoff:  fd.FindService("latticec.backend.BackendHandoff"),
		DiagnosticSink:  fd.FindService("latticec.backend.DiagnosticSink"),
	}
	for name, md := range map[string]*desc.MessageDescriptor{
		"ModuleEnvelope": s.ModuleEnvelope, "Diagnostic": s.Diagnostic,
		"DiagnosticBatch": s.DiagnosticBatch, "Ack": s.Ack,
	} {
		if md == nil {
			return nil, fmt.Errorf("backend: message %s missing from parsed schema", name)
		}
	}
	if s.BackendHandoff == nil || s.DiagnosticSink == nil {
		return nil, fmt.Errorf("backend: a service is missing from the parsed schema")
	}
	return s, nil
}
