package backend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSchemaExposesAllDescriptors(t *testing.T) {
	schema, err := LoadSchema()
	require.NoError(t, err)

	assert.NotNil(t, schema.ModuleEnvelope)
	assert.NotNil(t, schema.Diagnostic)
	assert.NotNil(t, schema.DiagnosticBatch)
	assert.NotNil(t, schema.Ack)
	assert.NotNil(t, schema.BackendHandoff)
	assert.NotNil(t, schema.DiagnosticSink)

	assert.Equal(t, "latticec.backend.ModuleEnvelope", schema.ModuleEnvelope.GetFullyQualifiedName())
	assert.Equal(t, "latticec.backend.BackendHandoff", schema.BackendHandoff.GetFullyQualifiedName())
}

func TestDiagnosticRoundTripsThroughDynamicMessage(t *testing.T) {
	schema, err := LoadSchema()
	require.NoError(t, err)

	want := Diag{
		Severity:  "error",
		Code:      "E0042",
		Message:   "mismatched types",
		FileID:    3,
		StartByte: 10,
		EndByte:   20,
	}

	msg := schema.toDynamicDiagnostic(want)
	got := schema.fromDynamicDiagnostic(msg)

	assert.Equal(t, want, got)
}

func TestModuleEnvelopeRoundTripsThroughDynamicMessage(t *testing.T) {
	schema, err := LoadSchema()
	require.NoError(t, err)

	want := ModuleEnvelope{
		SessionID:  "sess-1",
		ModuleName: "main",
		IRText:     "fn main() {\n  ret\n}\n",
	}

	msg := schema.toDynamicEnvelope(want)
	got := schema.fromDynamicEnvelope(msg)

	assert.Equal(t, want, got)
}

func TestDiagnosticBatchRoundTripsRepeatedField(t *testing.T) {
	schema, err := LoadSchema()
	require.NoError(t, err)

	want := DiagnosticBatch{
		SessionID: "sess-2",
		Diagnostics: []Diag{
			{Severity: "error", Code: "E0001", Message: "first", FileID: 1, StartByte: 0, EndByte: 5},
			{Severity: "warning", Code: "W0002", Message: "second", FileID: 1, StartByte: 6, EndByte: 9},
		},
	}

	msg := schema.toDynamicBatch(want)
	got := schema.fromDynamicBatch(msg)

	assert.Equal(t, want, got)
}

func TestAckRoundTripsThroughDynamicMessage(t *testing.T) {
	schema, err := LoadSchema()
	require.NoError(t, err)

	want := Ack{OK: true, Message: "accepted"}

	msg := schema.toDynamicAck(want)
	got := schema.fromDynamicAck(msg)

	assert.Equal(t, want, got)
}

func TestServiceDescBuildsOneMethodPerDescriptorMethod(t *testing.T) {
	schema, err := LoadSchema()
	require.NoError(t, err)

	handoffDesc := serviceDesc(schema.BackendHandoff)
	assert.Equal(t, "latticec.backend.BackendHandoff", handoffDesc.ServiceName)
	require.Len(t, handoffDesc.Methods, 1)
	assert.Equal(t, "Emit", handoffDesc.Methods[0].MethodName)

	sinkDesc := serviceDesc(schema.DiagnosticSink)
	require.Len(t, sinkDesc.Methods, 1)
	assert.Equal(t, "Publish", sinkDesc.Methods[0].MethodName)
}

func TestNewServerRegistersBothServices(t *testing.T) {
	schema, err := LoadSchema()
	require.NoError(t, err)

	srv := NewServer(schema,
		func(_ context.Context, _ ModuleEnvelope) (Ack, error) { return Ack{OK: true}, nil },
		func(_ context.Context, _ DiagnosticBatch) (Ack, error) { return Ack{OK: true}, nil },
	)
	assert.NotNil(t, srv)
}
