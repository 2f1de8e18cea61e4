package prettyprinter

import (
	"fmt"

	"github.com/latticelang/latticec/internal/ast"
	"github.com/latticelang/latticec/internal/token"
)

// DumpFile renders file's item tree as indented text (`-emit=ast`). It
// covers every item and statement kind and the expression kinds common
// enough to matter for debugging a failed lowering; an expression kind
// this dumper doesn't special-case falls back to its Go type name rather
// than growing this file to one branch per node in the full grammar.
func DumpFile(file *ast.File) string {
	p := &printer{}
	p.line("file %s", file.Name)
	p.indent++
	for _, item := range file.Items {
		p.dumpItem(item)
	}
	p.indent--
	return p.buf.String()
}

func (p *printer) dumpItem(item ast.Item) {
	switch it := item.(type) {
	case *ast.FnItem:
		params := make([]string, len(it.Params))
		for i, param := range it.Params {
			params[i] = patternString(param.Pattern)
		}
		p.line("fn %s(%s)", it.Name.Value, joinComma(params))
		if it.Body != nil {
			p.indent++
			p.dumpBlock(it.Body)
			p.indent--
		}
	case *ast.StructItem:
		p.line("struct %s", it.Name.Value)
	case *ast.EnumItem:
		p.line("enum %s", it.Name.Value)
	case *ast.TraitItem:
		p.line("trait %s", it.Name.Value)
	case *ast.ImplItem:
		p.line("impl")
	case *ast.UseItem:
		p.line("use")
	case *ast.ConstItem:
		p.line("const %s", it.Name.Value)
	case *ast.StaticItem:
		p.line("static %s", it.Name.Value)
	case *ast.TypeAliasItem:
		p.line("type %s", it.Name.Value)
	case *ast.ModItem:
		p.line("mod %s", it.Name.Value)
	default:
		p.line("<item %T>", item)
	}
}

func (p *printer) dumpBlock(b *ast.BlockExpr) {
	p.line("block {")
	p.indent++
	for _, stmt := range b.Statements {
		p.dumpStmt(stmt)
	}
	if b.Tail != nil {
		p.line("tail %s", exprString(b.Tail))
	}
	p.indent--
	p.line("}")
}

func (p *printer) dumpStmt(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		init := "<none>"
		if s.Init != nil {
			init = exprString(s.Init)
		}
		p.line("let %s = %s", patternString(s.Pattern), init)
	case *ast.ExprStmt:
		p.line("expr %s", exprString(s.Expr))
	case *ast.ReturnStmt:
		if s.Value == nil {
			p.line("return")
		} else {
			p.line("return %s", exprString(s.Value))
		}
	case *ast.BreakStmt:
		p.line("break")
	case *ast.ContinueStmt:
		p.line("continue")
	case *ast.ItemStmt:
		p.dumpItem(s.Item)
	default:
		p.line("<stmt %T>", stmt)
	}
}

// exprString renders an expression in a single line, recursing into
// operands; unrecognized kinds fall back to their Go type name.
func exprString(e ast.Expression) string {
	switch ex := e.(type) {
	case *ast.IntLiteral:
		return fmt.Sprintf("%d", ex.Value)
	case *ast.FloatLiteral:
		return fmt.Sprintf("%g", ex.Value)
	case *ast.StringLiteral:
		return fmt.Sprintf("%q", ex.Value)
	case *ast.BoolLiteral:
		return fmt.Sprintf("%t", ex.Value)
	case *ast.Identifier:
		return ex.Value
	case *ast.PathExpr:
		out := ""
		for i, seg := range ex.Segments {
			if i > 0 {
				out += "::"
			}
			out += seg.Value
		}
		return out
	case *ast.UnaryExpr:
		return fmt.Sprintf("(%s %s)", tokenString(ex.Op), exprString(ex.Operand))
	case *ast.BinaryExpr:
		return fmt.Sprintf("(%s %s %s)", exprString(ex.Left), tokenString(ex.Op), exprString(ex.Right))
	case *ast.AssignExpr:
		return fmt.Sprintf("(%s %s= %s)", exprString(ex.Target), tokenString(ex.Op), exprString(ex.Value))
	case *ast.CallExpr:
		args := make([]string, len(ex.Args))
		for i, a := range ex.Args {
			args[i] = exprString(a)
		}
		return fmt.Sprintf("%s(%s)", exprString(ex.Callee), joinComma(args))
	case *ast.IfExpr:
		if ex.Else != nil {
			return fmt.Sprintf("if %s { ... } else %s", exprString(ex.Condition), exprString(ex.Else))
		}
		return fmt.Sprintf("if %s { ... }", exprString(ex.Condition))
	case *ast.BlockExpr:
		return "{ ... }"
	case *ast.RefExpr:
		return fmt.Sprintf("&%s", exprString(ex.Operand))
	case *ast.DerefExpr:
		return fmt.Sprintf("*%s", exprString(ex.Operand))
	default:
		return fmt.Sprintf("<%T>", e)
	}
}

func tokenString(t token.Type) string {
	return fmt.Sprintf("%v", t)
}

func patternString(pat ast.Pattern) string {
	switch pt := pat.(type) {
	case *ast.IdentPattern:
		if pt.Mutable {
			return "mut " + pt.Name
		}
		return pt.Name
	case *ast.WildcardPattern:
		return "_"
	default:
		return fmt.Sprintf("<%T>", pat)
	}
}
