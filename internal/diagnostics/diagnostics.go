// Package diagnostics implements the error model shared by every compiler
// phase: a structured diagnostic record, "did-you-mean" suggestions, and a
// session-wide collector. See spec §4.9 and §6 (diagnostic sink contract).
package diagnostics

import (
	"fmt"
	"sort"

	"github.com/latticelang/latticec/internal/source"
	"github.com/latticelang/latticec/internal/token"
)

// Severity classifies a diagnostic per spec §6.
type Severity int

const (
	Error Severity = iota
	Warning
	Note
	Help
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Note:
		return "note"
	case Help:
		return "help"
	default:
		return "unknown"
	}
}

// Code is a stable machine-readable diagnostic code, "Ennnn" per spec §4.9.
// latticec uses one letter per phase (L lexer, P parser, R resolver, T type,
// B borrow, M lifetime ("region"), I internal) followed by three digits,
// matching the teacher's ErrP0xx/ErrA0xx idiom (internal/parser,
// internal/analyzer) with phase letters renamed onto spec §7's taxonomy.
type Code string

const (
	// Lexer errors (spec §7: invalid character, unterminated literal, numeric overflow).
	ErrL001 Code = "L001" // invalid character
	ErrL002 Code = "L002" // unterminated string literal
	ErrL003 Code = "L003" // unterminated block comment
	ErrL004 Code = "L004" // numeric literal overflow (saturated, error)
	ErrL005 Code = "L005" // invalid escape sequence
	ErrL006 Code = "L006" // unterminated character literal

	// Parser errors.
	ErrP001 Code = "P001" // unexpected token
	ErrP002 Code = "P002" // unbalanced delimiter
	ErrP003 Code = "P003" // recursion limit exceeded
	ErrP004 Code = "P004" // invalid assignment target
	ErrP005 Code = "P005" // invalid compound-assignment target
	ErrP006 Code = "P006" // expected item/statement

	// Resolver (symbol table / scope) errors.
	ErrR001 Code = "R001" // duplicate definition in scope
	ErrR002 Code = "R002" // undefined name
	ErrR003 Code = "R003" // visibility violation

	// Type errors.
	ErrT001 Code = "T001" // type mismatch
	ErrT002 Code = "T002" // occurs check failure (infinite type)
	ErrT003 Code = "T003" // unresolved type variable after defaulting
	ErrT004 Code = "T004" // arity mismatch

	// Borrow errors.
	ErrB001 Code = "B001" // conflicting borrows
	ErrB002 Code = "B002" // use after move
	ErrB003 Code = "B003" // use while mutably borrowed

	// Lifetime errors.
	ErrM001 Code = "M001" // outlives violation
	ErrM002 Code = "M002" // unresolvable lifetime cycle

	// Internal errors (not user-caused; abort with bug-report request).
	ErrI001 Code = "I001" // IR validator failure
	ErrI002 Code = "I002" // dataflow non-convergence

	// Analyzer extension-boundary diagnostics (spec §9).
	ErrA900 Code = "A900" // async/await not yet supported
	ErrA901 Code = "A901" // unimplemented trait bound
	ErrA902 Code = "A902" // macro expansion not supported by the core
)

// Suggestion is a machine-applicable fix: replace the text at Span with
// Replacement.
type Suggestion struct {
	Span        source.Span
	Replacement string
}

// SecondarySpan labels an auxiliary span referenced by a diagnostic, e.g.
// "immutable borrow occurs here".
type SecondarySpan struct {
	Span  source.Span
	Label string
}

// Diagnostic is the structured record defined by spec §6's diagnostic sink
// contract.
type Diagnostic struct {
	Code           Code
	Severity       Severity
	Message        string
	PrimarySpan    source.Span
	SecondarySpans []SecondarySpan
	HelpNotes      []string
	Suggestions    []Suggestion
}

func (d *Diagnostic) WithSecondary(span source.Span, label string) *Diagnostic {
	d.SecondarySpans = append(d.SecondarySpans, SecondarySpan{Span: span, Label: label})
	return d
}

func (d *Diagnostic) WithHelp(note string) *Diagnostic {
	d.HelpNotes = append(d.HelpNotes, note)
	return d
}

func (d *Diagnostic) WithSuggestion(span source.Span, replacement string) *Diagnostic {
	d.Suggestions = append(d.Suggestions, Suggestion{Span: span, Replacement: replacement})
	return d
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s", d.Code, d.Message)
}

// New builds an Error-severity diagnostic anchored at tok.
func New(code Code, tok token.Token, format string, args ...any) *Diagnostic {
	return &Diagnostic{
		Code:        code,
		Severity:    Error,
		Message:     fmt.Sprintf(format, args...),
		PrimarySpan: tok.Span,
	}
}

// NewAt builds an Error-severity diagnostic anchored at an explicit span,
// for phases past tokenization (type errors, borrow errors, ...).
func NewAt(code Code, span source.Span, format string, args ...any) *Diagnostic {
	return &Diagnostic{
		Code:        code,
		Severity:    Error,
		Message:     fmt.Sprintf(format, args...),
		PrimarySpan: span,
	}
}

// NewWarning builds a Warning-severity diagnostic, e.g. constant-fold
// overflow (spec §4.8).
func NewWarning(code Code, span source.Span, format string, args ...any) *Diagnostic {
	return &Diagnostic{
		Code:        code,
		Severity:    Warning,
		Message:     fmt.Sprintf(format, args...),
		PrimarySpan: span,
	}
}

// Collector accumulates diagnostics for one compile session and orders them
// for reporting. Diagnostics are reported in source-position order, ties
// broken by insertion order (spec §5 Ordering guarantees).
type Collector struct {
	maxErrors         int
	diags             []*Diagnostic
	errorCount        int
	warnCount         int
	warningsAsErrors  bool
	maxErrorsExceeded bool
}

// NewCollector creates a Collector honoring spec §6's max_errors option
// (0 means "use the default of 100").
func NewCollector(maxErrors int, warningsAsErrors bool) *Collector {
	if maxErrors <= 0 {
		maxErrors = 100
	}
	return &Collector{maxErrors: maxErrors, warningsAsErrors: warningsAsErrors}
}

// Add records a diagnostic, unless the error budget (max_errors) has
// already been exhausted, in which case it is silently dropped — the
// collector "stops accepting errors after this count" per spec §6.
func (c *Collector) Add(d *Diagnostic) {
	if d == nil {
		return
	}
	if d.Severity == Error {
		if c.errorCount >= c.maxErrors {
			c.maxErrorsExceeded = true
			return
		}
		c.errorCount++
	} else if d.Severity == Warning {
		c.warnCount++
	}
	c.diags = append(c.diags, d)
}

// AddAll records every diagnostic in ds.
func (c *Collector) AddAll(ds []*Diagnostic) {
	for _, d := range ds {
		c.Add(d)
	}
}

// HasErrors reports whether any error-severity diagnostic (or a warning
// under warnings-as-errors) was recorded.
func (c *Collector) HasErrors() bool {
	if c.errorCount > 0 {
		return true
	}
	return c.warningsAsErrors && c.warnCount > 0
}

// ErrorCount / WarningCount report the raw counts for the session summary
// ("N errors, M warnings" per spec §7).
func (c *Collector) ErrorCount() int   { return c.errorCount }
func (c *Collector) WarningCount() int { return c.warnCount }

// MaxErrorsExceeded reports whether the collector stopped accepting errors.
func (c *Collector) MaxErrorsExceeded() bool { return c.maxErrorsExceeded }

// Sorted returns all collected diagnostics ordered by primary span position
// (file, then byte offset), ties broken by insertion order — this ordering
// is what makes two compilations of identical input byte-identical in their
// diagnostic output (spec §8 property 8).
func (c *Collector) Sorted() []*Diagnostic {
	out := make([]*Diagnostic, len(c.diags))
	copy(out, c.diags)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].PrimarySpan, out[j].PrimarySpan
		if a.FileID != b.FileID {
			return a.FileID < b.FileID
		}
		return a.StartByte < b.StartByte
	})
	return out
}

// Summary renders the "N errors, M warnings" session summary (spec §7).
func (c *Collector) Summary() string {
	return fmt.Sprintf("%d error(s), %d warning(s)", c.errorCount, c.warnCount)
}
