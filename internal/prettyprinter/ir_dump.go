// Package prettyprinter renders compiler-internal data structures as
// human-readable text: the resolved/inferred AST for `-emit=ast` and the
// SSA module for `-emit=ir` (spec §6). It replaces the teacher's
// CodePrinter, which reconstructed Funxy *source* from an AST (complete
// with operator-precedence and right-associativity tables for a
// round-trippable pretty-print); a debug dump has no such round-trip
// requirement, so the operator-precedence machinery is dropped and this
// package keeps only the teacher's buffer/indent bookkeeping idiom.
package prettyprinter

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/latticelang/latticec/internal/ir"
)

// printer accumulates indented text, mirroring the teacher's CodePrinter's
// bytes.Buffer-plus-indent-level bookkeeping.
type printer struct {
	buf    bytes.Buffer
	indent int
}

func (p *printer) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("    ")
	}
}

func (p *printer) line(format string, args ...any) {
	p.writeIndent()
	fmt.Fprintf(&p.buf, format, args...)
	p.buf.WriteByte('\n')
}

// DumpModule renders every function in mod as SSA-style text: one line
// per block label, one per instruction (`%N = op type operands...`), and
// one per terminator.
func DumpModule(mod *ir.Module) string {
	p := &printer{}
	if mod.Name != "" {
		p.line("module %s", mod.Name)
	}
	for i, fn := range mod.Functions {
		if i > 0 {
			p.buf.WriteByte('\n')
		}
		p.dumpFunction(fn)
	}
	return p.buf.String()
}

func (p *printer) dumpFunction(fn *ir.Function) {
	params := make([]string, len(fn.Params))
	for i, param := range fn.Params {
		params[i] = fmt.Sprintf("%s: %s", param.Nm, typeString(param.Ty))
	}
	p.line("fn %s(%s) -> %s {", fn.Name, joinComma(params), typeString(fn.ReturnType))
	p.indent++
	for _, b := range fn.Blocks {
		p.dumpBlock(b)
	}
	p.indent--
	p.line("}")
}

func (p *printer) dumpBlock(b *ir.BasicBlock) {
	p.indent--
	p.line("%s:", b.Label)
	p.indent++
	for _, instr := range b.Instrs {
		p.dumpInstruction(instr)
	}
	p.dumpTerminator(b.Term)
}

func (p *printer) dumpInstruction(instr *ir.Instruction) {
	if instr.Op == ir.OpPhi {
		edges := make([]string, len(instr.PhiEdges))
		for i, e := range instr.PhiEdges {
			edges[i] = fmt.Sprintf("[%s: %s]", e.Pred.Label, valueString(e.Value))
		}
		p.line("%s = phi %s %s", instr.Name(), typeString(instr.Ty), joinComma(edges))
		return
	}

	operands := make([]string, len(instr.Operands))
	for i, op := range instr.Operands {
		operands[i] = valueString(op)
	}
	switch instr.Op {
	case ir.OpGEP, ir.OpExtractValue, ir.OpInsertValue:
		p.line("%s = %s %s %s, %d", instr.Name(), instr.Op, typeString(instr.Ty), joinComma(operands), instr.FieldIndex)
	case ir.OpCall:
		target := instr.CalleeName
		if target == "" {
			target = "<indirect>"
		}
		p.line("%s = call %s @%s(%s)", instr.Name(), typeString(instr.Ty), target, joinComma(operands))
	default:
		p.line("%s = %s %s %s", instr.Name(), instr.Op, typeString(instr.Ty), joinComma(operands))
	}
}

func (p *printer) dumpTerminator(term ir.Terminator) {
	switch t := term.(type) {
	case ir.Jump:
		p.line("jump %s", t.Target.Label)
	case ir.Branch:
		p.line("branch %s, %s, %s", valueString(t.Cond), t.Then.Label, t.Else.Label)
	case ir.Switch:
		cases := make([]string, len(t.Cases))
		for i, c := range t.Cases {
			cases[i] = fmt.Sprintf("%d: %s", c.Const, c.Target.Label)
		}
		p.line("switch %s [%s] default %s", valueString(t.Value), joinComma(cases), t.Default.Label)
	case ir.Return:
		if t.Value == nil {
			p.line("return")
		} else {
			p.line("return %s", valueString(t.Value))
		}
	case ir.Unreachable:
		p.line("unreachable")
	default:
		p.line("<unknown terminator>")
	}
}

func valueString(v ir.Value) string {
	if v == nil {
		return "<nil>"
	}
	if c, ok := v.(*ir.Const); ok {
		return fmt.Sprintf("%v", c.Val)
	}
	return v.Name()
}

func typeString(t ir.Type) string {
	if t == nil {
		return "()"
	}
	return t.String()
}

func joinComma(parts []string) string {
	var b bytes.Buffer
	for i, p := range parts {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p)
	}
	return b.String()
}

// sortedKeys is used by DumpDiagnostics to print severity groups in a
// stable order.
func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
