package backend

import (
	"context"
	"fmt"

	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Client invokes the handoff and sink RPCs against a remote Server,
// grounded on the teacher's grpcConnect/grpcInvoke pair: a plain
// insecure.NewCredentials() dial (the handoff is meant to run on a
// trusted local/sidecar link, same assumption the teacher's builtin
// makes) followed by Conn.Invoke against a dynamic.Message built from the
// loaded schema instead of a generated client stub.
type Client struct {
	schema *Schema
	conn   *grpc.ClientConn
}

// Dial connects to a Server at target.
func Dial(schema *Schema, target string) (*Client, error) {
	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("backend: dialing %s: %w", target, err)
	}
	return &Client{schema: schema, conn: conn}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error { return c.conn.Close() }

// Emit hands envelope off to the remote BackendHandoff service.
func (c *Client) Emit(ctx context.Context, envelope ModuleEnvelope) (Ack, error) {
	reqMsg := c.schema.toDynamicEnvelope(envelope)
	respMsg := dynamic.NewMessage(c.schema.Ack)

	method := rpcPath(c.schema.BackendHandoff.GetFullyQualifiedName(), "Emit")
	if err := c.conn.Invoke(ctx, method, reqMsg, respMsg); err != nil {
		return Ack{}, fmt.Errorf("backend: Emit RPC failed: %w", err)
	}
	return c.schema.fromDynamicAck(respMsg), nil
}

// Publish hands batch off to the remote DiagnosticSink service.
func (c *Client) Publish(ctx context.Context, batch DiagnosticBatch) (Ack, error) {
	reqMsg := c.schema.toDynamicBatch(batch)
	respMsg := dynamic.NewMessage(c.schema.Ack)

	method := rpcPath(c.schema.DiagnosticSink.GetFullyQualifiedName(), "Publish")
	if err := c.conn.Invoke(ctx, method, reqMsg, respMsg); err != nil {
		return Ack{}, fmt.Errorf("backend: Publish RPC failed: %w", err)
	}
	return c.schema.fromDynamicAck(respMsg), nil
}

func rpcPath(serviceFullName, method string) string {
	return "/" + serviceFullName + "/" + method
}
