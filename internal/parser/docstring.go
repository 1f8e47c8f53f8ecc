package parser

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// nodeKind is the closed set of syntax-tree node kinds the docstring walk
// cares about. Everything else is kindOther and only gets recursed into.
type nodeKind int

const (
	kindOther nodeKind = iota
	kindModule
	kindFunctionDef
	kindClassDef
	kindAsyncFunctionDef
)

func classifyNode(n *sitter.Node) nodeKind {
	switch n.Type() {
	case "module":
		return kindModule
	case "class_definition":
		return kindClassDef
	case "function_definition":
		// The async keyword shows up as a plain child token of the
		// definition node, there is no separate node type for it.
		for i := 0; i < int(n.ChildCount()); i++ {
			if n.Child(i).Type() == "async" {
				return kindAsyncFunctionDef
			}
		}
		return kindFunctionDef
	}
	return kindOther
}

// docRecord is one entry of the tree-walk output: the docstring attached to
// a section target line. HasDoc false marks a definition that has no
// docstring but must still start a section of its own.
type docRecord struct {
	Text   string
	HasDoc bool
}

// docIndex collects the first-pass results: docstring records keyed by
// target line, and the set of lines physically occupied by docstring
// literals so the line scanner does not re-ingest them.
type docIndex struct {
	records map[int]docRecord
	skip    map[int]bool
}

// extractDocstrings walks the parsed tree and returns the docstring records
// and skip-line set for the second pass. It fails if two docstrings resolve
// to the same target line, which only happens on degenerate input.
func extractDocstrings(root *sitter.Node, src []byte) (*docIndex, error) {
	idx := &docIndex{
		records: make(map[int]docRecord),
		skip:    make(map[int]bool),
	}
	if err := idx.walk(root, src, 0); err != nil {
		return nil, err
	}
	return idx, nil
}

func (x *docIndex) walk(n *sitter.Node, src []byte, decorators int) error {
	// A decorated definition wraps its decorators and the definition in one
	// node. Unwrap it here so the definition kinds below see the decorator
	// count that offsets their target line.
	if n.Type() == "decorated_definition" {
		def := n.ChildByFieldName("definition")
		if def == nil {
			return nil
		}
		count := 0
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if n.NamedChild(i).Type() == "decorator" {
				count++
			}
		}
		return x.walk(def, src, count)
	}

	switch classifyNode(n) {
	case kindModule:
		if str := leadingString(n); str != nil {
			if err := x.recordModuleDoc(str, src); err != nil {
				return err
			}
		}
		return x.walkChildren(n, src)

	case kindFunctionDef, kindAsyncFunctionDef, kindClassDef:
		// The target line is the definition line minus its decorator count,
		// so decorators belong to the section the definition starts.
		target := int(n.StartPoint().Row) - decorators
		body := n.ChildByFieldName("body")
		var str *sitter.Node
		if body != nil {
			str = leadingString(body)
		}
		if err := x.recordDefDoc(target, str, src); err != nil {
			return err
		}
		if body != nil {
			return x.walkChildren(body, src)
		}
		return nil
	}

	return x.walkChildren(n, src)
}

func (x *docIndex) walkChildren(n *sitter.Node, src []byte) error {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if err := x.walk(n.NamedChild(i), src, 0); err != nil {
			return err
		}
	}
	return nil
}

// recordModuleDoc records a module docstring. The target line is derived
// from the literal's end line and its value line count: multi-line literals
// start valueLineCount lines above their end, single-line literals target
// their own line.
func (x *docIndex) recordModuleDoc(str *sitter.Node, src []byte) error {
	end := int(str.EndPoint().Row)
	value := stringValue(str.Content(src))
	text := strings.TrimSpace(cleandoc(value))
	if text == "" {
		return nil
	}

	target := end
	if count := valueLineCount(value); count > 1 {
		target = end - count
	}
	if target < 0 {
		target = 0
	}
	if err := x.recordDoc(target, text); err != nil {
		return err
	}
	x.markSkipped(target, end)
	return nil
}

// recordDefDoc records the docstring of a function or class definition at
// the given target line, or an empty marker when the definition has none.
// The literal's physical span is added to the skip-line set.
func (x *docIndex) recordDefDoc(target int, str *sitter.Node, src []byte) error {
	var text string
	if str != nil {
		text = strings.TrimSpace(cleandoc(stringValue(str.Content(src))))
	}
	if text == "" {
		// A definition with an absent (or blank) docstring still forces a
		// section boundary at its target line.
		if _, ok := x.records[target]; !ok {
			x.records[target] = docRecord{}
		}
		return nil
	}

	if err := x.recordDoc(target, text); err != nil {
		return err
	}
	end := int(str.EndPoint().Row)
	count := valueLineCount(stringValue(str.Content(src)))
	if count < 1 {
		count = 1
	}
	x.markSkipped(end-(count-1), end)
	return nil
}

func (x *docIndex) recordDoc(target int, text string) error {
	if existing, ok := x.records[target]; ok && (existing.HasDoc || existing.Text != "") {
		return fmt.Errorf("%w: line %d", ErrDocConflict, target)
	}
	x.records[target] = docRecord{Text: text, HasDoc: true}
	return nil
}

func (x *docIndex) markSkipped(start, end int) {
	for i := start; i <= end; i++ {
		if i >= 0 {
			x.skip[i] = true
		}
	}
}

// leadingString returns the string node of the container's leading
// string-literal statement, or nil. Comments are not statements and are
// skipped; any other leading statement means there is no docstring, even if
// a string literal appears later in the same body.
func leadingString(container *sitter.Node) *sitter.Node {
	for i := 0; i < int(container.NamedChildCount()); i++ {
		child := container.NamedChild(i)
		if child.Type() == "comment" {
			continue
		}
		if child.Type() != "expression_statement" || child.NamedChildCount() == 0 {
			return nil
		}
		if str := child.NamedChild(0); str.Type() == "string" {
			return str
		}
		return nil
	}
	return nil
}

// stringValue strips the quote delimiters (and any literal prefix such as r
// or b) from the raw text of a string node. Escape sequences are left as
// written; documentation text does not need them decoded.
func stringValue(raw string) string {
	s := raw
	i := 0
	for i < len(s) && i < 2 {
		switch s[i] {
		case 'r', 'R', 'b', 'B', 'u', 'U', 'f', 'F':
			i++
			continue
		}
		break
	}
	s = s[i:]
	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if len(s) >= 2*len(q) && strings.HasPrefix(s, q) && strings.HasSuffix(s, q) {
			return s[len(q) : len(s)-len(q)]
		}
	}
	return s
}

// valueLineCount counts the lines of a string value the way Python's
// splitlines does: a trailing newline does not open an extra line.
func valueLineCount(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}

// cleandoc normalizes docstring indentation: the first line is taken as-is
// (left-trimmed) and the common leading whitespace of the remaining lines is
// removed, then surrounding blank lines are dropped.
func cleandoc(doc string) string {
	lines := strings.Split(strings.ReplaceAll(doc, "\t", "        "), "\n")

	margin := -1
	for _, line := range lines[1:] {
		trimmed := strings.TrimLeft(line, " ")
		if trimmed == "" {
			continue
		}
		indent := len(line) - len(trimmed)
		if margin < 0 || indent < margin {
			margin = indent
		}
	}

	lines[0] = strings.TrimLeft(lines[0], " ")
	if margin > 0 {
		for i := 1; i < len(lines); i++ {
			if len(lines[i]) >= margin {
				lines[i] = lines[i][margin:]
			} else {
				lines[i] = strings.TrimLeft(lines[i], " ")
			}
		}
	}

	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}
