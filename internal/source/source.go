// Package source holds file contents and maps byte offsets to line/column
// positions. Every span an AST node, IR instruction, loan, or lifetime
// carries resolves through a Map entry.
package source

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Position is a resolved, human-facing (line, column) pair. Both are
// 1-based, matching the teacher's lexer line/column bookkeeping.
type Position struct {
	Line   int
	Column int
}

// File is one immutable SourceMap entry: a loaded file's content plus the
// byte offsets of every line start, computed once at load time.
type File struct {
	ID         int
	Name       string
	Content    string
	lineStarts []int
}

func newFile(id int, name, content string) *File {
	content = stripBOM(content)
	f := &File{ID: id, Name: name, Content: content}
	f.lineStarts = []int{0}
	for i, b := range []byte(content) {
		if b == '\n' {
			f.lineStarts = append(f.lineStarts, i+1)
		}
	}
	return f
}

func stripBOM(s string) string {
	const bom = "﻿"
	return strings.TrimPrefix(s, bom)
}

// Position resolves a byte offset to a (line, column) pair. Column is a
// rune count from the start of the line, 1-based.
func (f *File) Position(byteOffset int) Position {
	if byteOffset < 0 {
		byteOffset = 0
	}
	if byteOffset > len(f.Content) {
		byteOffset = len(f.Content)
	}
	// Binary search for the line containing byteOffset.
	lo, hi := 0, len(f.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if f.lineStarts[mid] <= byteOffset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	lineStart := f.lineStarts[lo]
	col := utf8.RuneCountInString(f.Content[lineStart:byteOffset]) + 1
	return Position{Line: lo + 1, Column: col}
}

// Text returns the source text covered by a Span in this file.
func (f *File) Text(s Span) string {
	if s.StartByte < 0 || s.EndByte > len(f.Content) || s.StartByte > s.EndByte {
		return ""
	}
	return f.Content[s.StartByte:s.EndByte]
}

// Span identifies a byte range within one Map entry. Every AST node, IR
// instruction, loan, and lifetime carries one.
type Span struct {
	FileID    int
	StartByte int
	EndByte   int
}

// Cover returns the smallest span containing both a and b. Satisfies the
// parser-span-containment invariant when applied to a node's children.
func (a Span) Cover(b Span) Span {
	if a.FileID != b.FileID {
		return a
	}
	start, end := a.StartByte, a.EndByte
	if b.StartByte < start {
		start = b.StartByte
	}
	if b.EndByte > end {
		end = b.EndByte
	}
	return Span{FileID: a.FileID, StartByte: start, EndByte: end}
}

// Contains reports whether a fully contains b (used to check the
// span-containment invariant in tests).
func (a Span) Contains(b Span) bool {
	return a.FileID == b.FileID && a.StartByte <= b.StartByte && b.EndByte <= a.EndByte
}

// Map is the immutable, shareable registry of loaded files. It may be
// shared by reference across compile sessions (spec §5); it is never
// mutated once files are loaded for a session's lifetime — Add appends a
// fresh entry rather than rewriting an existing one.
type Map struct {
	ID    string
	files []*File
}

// NewMap creates an empty SourceMap with a fresh session-correlation ID.
func NewMap() *Map {
	return &Map{ID: uuid.NewString()}
}

// Add registers file content and returns its immutable File entry.
func (m *Map) Add(name, content string) *File {
	f := newFile(len(m.files), name, content)
	m.files = append(m.files, f)
	return f
}

// File looks up a previously-added file by its FileID.
func (m *Map) File(id int) (*File, bool) {
	if id < 0 || id >= len(m.files) {
		return nil, false
	}
	return m.files[id], true
}

// Position resolves a Span's start to a human-facing position, or reports
// an error if the span's file is not a live SourceMap entry.
func (m *Map) Position(s Span) (Position, error) {
	f, ok := m.File(s.FileID)
	if !ok {
		return Position{}, fmt.Errorf("source: span refers to unknown file id %d", s.FileID)
	}
	return f.Position(s.StartByte), nil
}

// Text resolves a Span to its covering source text.
func (m *Map) Text(s Span) string {
	f, ok := m.File(s.FileID)
	if !ok {
		return ""
	}
	return f.Text(s)
}
