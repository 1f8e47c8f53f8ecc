package parser

import (
	"context"
	"errors"
	"fmt"
	"os"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

var (
	// ErrSyntax means the source could not be parsed into a syntax tree.
	// No partial results are produced for such a file.
	ErrSyntax = errors.New("source contains syntax errors")

	// ErrDocConflict means two docstrings resolved to the same target line.
	// This indicates degenerate input and is treated as a defect, never
	// silently resolved by picking one.
	ErrDocConflict = errors.New("conflicting documentation records")
)

// Parser turns annotated source text into an ordered section table, pairing
// each contiguous block of code with the documentation that precedes or
// decorates it. Parsing happens in two passes: a syntax-tree walk that
// locates docstrings, then a line-by-line scan that groups the remaining
// code and comment lines.
type Parser struct {
	lang *sitter.Language
}

// New creates a parser for the given language.
func New(lang string) (*Parser, error) {
	switch lang {
	case "python":
		return &Parser{lang: python.GetLanguage()}, nil
	default:
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}
}

// Parse builds the section table for a single file's source text.
func (p *Parser) Parse(ctx context.Context, src []byte) (*SectionTable, error) {
	tsp := sitter.NewParser()
	tsp.SetLanguage(p.lang)
	tree, err := tsp.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse failed: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil || root.HasError() {
		return nil, ErrSyntax
	}

	// First pass: collect docstrings and the lines they occupy.
	idx, err := extractDocstrings(root, src)
	if err != nil {
		return nil, err
	}

	// Seed the table with the docstring records. A definition without a
	// docstring contributes an empty fragment, which still marks the line
	// as a section start; the renderer filters empty fragments out.
	table := NewSectionTable()
	for line, rec := range idx.records {
		sec := table.At(line)
		sec.Docs = append(sec.Docs, rec.Text)
	}

	// Second pass: file every remaining line into its section, then move
	// trailing decorator lines to the section they annotate.
	scanLines(string(src), table, idx.skip)
	relocateDecorators(table)

	return table, nil
}

// ParseFile reads and parses a single source file.
func (p *Parser) ParseFile(ctx context.Context, path string) (*SectionTable, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	table, err := p.Parse(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}
