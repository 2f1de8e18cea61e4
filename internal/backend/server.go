package backend

import (
	"context"
	"net"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"
)

// HandoffHandler receives one compiled module. The server returns its Ack
// to the RPC caller; a nil error with Ack.OK == false still reaches the
// caller as a normal response (the handoff was received but rejected),
// while a non-nil error becomes a gRPC status error.
type HandoffHandler func(ctx context.Context, envelope ModuleEnvelope) (Ack, error)

// SinkHandler receives one batch of diagnostics.
type SinkHandler func(ctx context.Context, batch DiagnosticBatch) (Ack, error)

// Server hosts the BackendHandoff and DiagnosticSink services against a
// hand-built grpc.ServiceDesc, the same registration shape the teacher's
// builtinGrpcRegister constructs for a user-supplied proto service: no
// generated .pb.go stub, just the parsed ServiceDescriptor plus a
// MethodDesc whose Handler decodes into a dynamic.Message.
type Server struct {
	schema *Schema
	server *grpc.Server
}

// NewServer wires handoff and sink into a fresh grpc.Server registered
// against the two services in the handoff schema.
func NewServer(schema *Schema, handoff HandoffHandler, sink SinkHandler) *Server {
	s := &Server{schema: schema, server: grpc.NewServer()}

	s.server.RegisterService(serviceDesc(schema.BackendHandoff), &handoffImpl{schema: schema, handle: handoff})
	s.server.RegisterService(serviceDesc(schema.DiagnosticSink), &sinkImpl{schema: schema, handle: sink})

	return s
}

// Serve blocks accepting connections on addr until the listener errors or
// the server is stopped.
func (s *Server) Serve(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.server.Serve(lis)
}

// Stop gracefully drains in-flight RPCs before returning.
func (s *Server) Stop() { s.server.GracefulStop() }

type handoffImpl struct {
	schema *Schema
	handle HandoffHandler
}

type sinkImpl struct {
	schema *Schema
	handle SinkHandler
}

// serviceDesc builds the grpc.ServiceDesc for sd, one unary MethodDesc per
// method in the descriptor, each decoding its request into a
// dynamic.Message built against that method's own input type — the same
// per-method loop builtinGrpcRegister runs over sd.GetMethods().
func serviceDesc(sd *desc.ServiceDescriptor) *grpc.ServiceDesc {
	svcDesc := &grpc.ServiceDesc{
		ServiceName: sd.GetFullyQualifiedName(),
		HandlerType: (*interface{})(nil),
		Metadata:    sd.GetFile().GetName(),
	}
	for _, method := range sd.GetMethods() {
		md := method
		svcDesc.Methods = append(svcDesc.Methods, grpc.MethodDesc{
			MethodName: md.GetName(),
			Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpc.UnaryServerInterceptor) (interface{}, error) {
				reqMsg := dynamic.NewMessage(md.GetInputType())
				if err := dec(reqMsg); err != nil {
					return nil, err
				}
				switch h := srv.(type) {
				case *handoffImpl:
					ack, err := h.handle(ctx, h.schema.fromDynamicEnvelope(reqMsg))
					if err != nil {
						return nil, err
					}
					return h.schema.toDynamicAck(ack), nil
				case *sinkImpl:
					ack, err := h.handle(ctx, h.schema.fromDynamicBatch(reqMsg))
					if err != nil {
						return nil, err
					}
					return h.schema.toDynamicAck(ack), nil
				default:
					panic("backend: unknown service handler type")
				}
			},
		})
	}
	return svcDesc
}
