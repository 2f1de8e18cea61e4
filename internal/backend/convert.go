package backend

import (
	"github.com/jhump/protoreflect/dynamic"

	"github.com/latticelang/latticec/internal/diagnostics"
)

// Diag is the plain-Go shape a Diagnostic dynamic.Message round-trips
// through; Session.Diags.Sorted() diagnostics are converted to this
// before crossing the gRPC boundary.
type Diag struct {
	Severity  string
	Code      string
	Message   string
	FileID    int32
	StartByte int32
	EndByte   int32
}

// FromDiagnostic converts one collected diagnostic to the wire shape.
func FromDiagnostic(d *diagnostics.Diagnostic) Diag {
	return Diag{
		Severity:  d.Severity.String(),
		Code:      string(d.Code),
		Message:   d.Message,
		FileID:    int32(d.PrimarySpan.FileID),
		StartByte: int32(d.PrimarySpan.StartByte),
		EndByte:   int32(d.PrimarySpan.EndByte),
	}
}

// toDynamicDiagnostic builds a Diagnostic dynamic.Message from d, the way
// the teacher's objectToDynamicMessage populates a message field by field
// via its descriptor rather than a generated setter.
func (s *Schema) toDynamicDiagnostic(d Diag) *dynamic.Message {
	msg := dynamic.NewMessage(s.Diagnostic)
	msg.SetFieldByName("severity", d.Severity)
	msg.SetFieldByName("code", d.Code)
	msg.SetFieldByName("message", d.Message)
	msg.SetFieldByName("file_id", d.FileID)
	msg.SetFieldByName("start_byte", d.StartByte)
	msg.SetFieldByName("end_byte", d.EndByte)
	return msg
}

func (s *Schema) fromDynamicDiagnostic(msg *dynamic.Message) Diag {
	return Diag{
		Severity:  msg.GetFieldByName("severity").(string),
		Code:      msg.GetFieldByName("code").(string),
		Message:   msg.GetFieldByName("message").(string),
		FileID:    msg.GetFieldByName("file_id").(int32),
		StartByte: msg.GetFieldByName("start_byte").(int32),
		EndByte:   msg.GetFieldByName("end_byte").(int32),
	}
}

// ModuleEnvelope is the plain-Go shape of a handoff payload: a session's
// identity (spec §5's session_id correlation), the module's name, and its
// rendered IR text (internal/prettyprinter.DumpModule's output).
type ModuleEnvelope struct {
	SessionID  string
	ModuleName string
	IRText     string
}

func (s *Schema) toDynamicEnvelope(e ModuleEnvelope) *dynamic.Message {
	msg := dynamic.NewMessage(s.ModuleEnvelope)
	msg.SetFieldByName("session_id", e.SessionID)
	msg.SetFieldByName("module_name", e.ModuleName)
	msg.SetFieldByName("ir_text", e.IRText)
	return msg
}

func (s *Schema) fromDynamicEnvelope(msg *dynamic.Message) ModuleEnvelope {
	return ModuleEnvelope{
		SessionID:  msg.GetFieldByName("session_id").(string),
		ModuleName: msg.GetFieldByName("module_name").(string),
		IRText:     msg.GetFieldByName("ir_text").(string),
	}
}

// DiagnosticBatch is the plain-Go shape of a sink publish payload.
type DiagnosticBatch struct {
	SessionID   string
	Diagnostics []Diag
}

func (s *Schema) toDynamicBatch(b DiagnosticBatch) *dynamic.Message {
	msg := dynamic.NewMessage(s.DiagnosticBatch)
	msg.SetFieldByName("session_id", b.SessionID)
	for _, d := range b.Diagnostics {
		msg.AddRepeatedFieldByName("diagnostics", s.toDynamicDiagnostic(d))
	}
	return msg
}

func (s *Schema) fromDynamicBatch(msg *dynamic.Message) DiagnosticBatch {
	b := DiagnosticBatch{SessionID: msg.GetFieldByName("session_id").(string)}
	raw := msg.GetRepeatedFieldByName("diagnostics")
	for _, item := range raw.([]interface{}) {
		b.Diagnostics = append(b.Diagnostics, s.fromDynamicDiagnostic(item.(*dynamic.Message)))
	}
	return b
}

// Ack is the plain-Go shape of every RPC's response.
type Ack struct {
	OK      bool
	Message string
}

func (s *Schema) toDynamicAck(a Ack) *dynamic.Message {
	msg := dynamic.NewMessage(s.Ack)
	msg.SetFieldByName("ok", a.OK)
	msg.SetFieldByName("message", a.Message)
	return msg
}

func (s *Schema) fromDynamicAck(msg *dynamic.Message) Ack {
	return Ack{
		OK:      msg.GetFieldByName("ok").(bool),
		Message: msg.GetFieldByName("message").(string),
	}
}
