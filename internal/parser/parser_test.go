package parser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseSource(t *testing.T, src string) *SectionTable {
	t.Helper()
	p, err := New("python")
	require.NoError(t, err)
	table, err := p.Parse(context.Background(), []byte(src))
	require.NoError(t, err)
	return table
}

func TestNew_UnsupportedLanguage(t *testing.T) {
	_, err := New("fortran")
	assert.Error(t, err)
}

func TestParse_SyntaxError(t *testing.T) {
	p, err := New("python")
	require.NoError(t, err)

	_, err = p.Parse(context.Background(), []byte("def f(:\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSyntax)
}

func TestParse_DocstringFunction(t *testing.T) {
	table := parseSource(t, "def f():\n    \"\"\"doc\"\"\"\n    pass\n")

	sections := table.Ordered()
	require.Len(t, sections, 1)
	assert.Equal(t, 0, sections[0].Line)
	assert.Equal(t, []string{"doc"}, sections[0].Docs)
	assert.Equal(t, []string{"def f():", "    pass"}, sections[0].Code)
}

func TestParse_CommentSection(t *testing.T) {
	table := parseSource(t, "# comment\nx = 1\n")

	sections := table.Ordered()
	require.Len(t, sections, 1)
	assert.Equal(t, []string{"comment"}, sections[0].Docs)
	assert.Equal(t, []string{"x = 1"}, sections[0].Code)
}

func TestParse_ModuleDocstring(t *testing.T) {
	src := "\"\"\"Module doc.\n\nMore.\n\"\"\"\n\nimport os\n"
	table := parseSource(t, src)

	require.True(t, table.Has(0), "module docstring should target its start line")
	sections := table.Ordered()
	require.Len(t, sections, 2)

	t.Run("docstring section", func(t *testing.T) {
		assert.Equal(t, 0, sections[0].Line)
		assert.Equal(t, []string{"Module doc.\n\nMore."}, sections[0].Docs)
		assert.Empty(t, sections[0].Code, "docstring lines must not reappear as code")
	})

	t.Run("code section", func(t *testing.T) {
		assert.Equal(t, 5, sections[1].Line)
		assert.Equal(t, []string{"import os"}, sections[1].Code)
	})
}

func TestParse_UndocumentedDefStartsSection(t *testing.T) {
	src := "x = 1\n\ndef f():\n    pass\n"
	table := parseSource(t, src)

	sections := table.Ordered()
	require.Len(t, sections, 2)
	assert.Equal(t, 0, sections[0].Line)
	assert.Equal(t, 2, sections[1].Line)
	assert.Equal(t, []string{"def f():", "    pass"}, sections[1].Code)
	// The boundary marker is an empty fragment; the renderer filters it.
	assert.Equal(t, []string{""}, sections[1].Docs)
}

func TestParse_CommentBeforeDocumentedDef(t *testing.T) {
	src := "# helper\ndef f():\n    \"\"\"doc\"\"\"\n    return 1\n"
	table := parseSource(t, src)

	sections := table.Ordered()
	require.Len(t, sections, 1)
	assert.Equal(t, []string{"helper", "doc"}, sections[0].Docs,
		"preceding comment must come before the docstring")
	assert.Equal(t, []string{"def f():", "    return 1"}, sections[0].Code)
}

func TestParse_DecoratorWithoutPriorSection(t *testing.T) {
	src := "@deco\ndef f():\n    pass\n\n\ndef g():\n    pass\n"
	table := parseSource(t, src)

	sections := table.Ordered()
	require.Len(t, sections, 2)

	t.Run("decorator stays with its definition", func(t *testing.T) {
		assert.Equal(t, 0, sections[0].Line)
		assert.Equal(t, "@deco", sections[0].Code[0])
	})

	t.Run("second def opens a fresh section", func(t *testing.T) {
		assert.Equal(t, 5, sections[1].Line)
		assert.Equal(t, []string{"def g():", "    pass"}, sections[1].Code)
	})
}

func TestParse_FiltersShebangAndEncoding(t *testing.T) {
	src := "#!/usr/bin/env python\n# -*- coding: utf-8 -*-\nx = 1\n"
	table := parseSource(t, src)

	sections := table.Ordered()
	require.Len(t, sections, 1)
	assert.Equal(t, 2, sections[0].Line)
	assert.Equal(t, []string{"x = 1"}, sections[0].Code)
	for _, sec := range sections {
		for _, doc := range sec.Docs {
			assert.NotContains(t, doc, "coding")
		}
	}
}

func TestParse_ClassWithMethod(t *testing.T) {
	src := "class C:\n" +
		"    \"\"\"Class C.\"\"\"\n" +
		"\n" +
		"    def m(self):\n" +
		"        \"\"\"Method.\"\"\"\n" +
		"        return 1\n"
	table := parseSource(t, src)

	sections := table.Ordered()
	require.Len(t, sections, 2)

	assert.Equal(t, 0, sections[0].Line)
	assert.Equal(t, []string{"Class C."}, sections[0].Docs)
	assert.Equal(t, []string{"class C:", ""}, sections[0].Code)

	assert.Equal(t, 3, sections[1].Line)
	assert.Equal(t, []string{"Method."}, sections[1].Docs)
	assert.Equal(t, []string{"    def m(self):", "        return 1"}, sections[1].Code)
}

func TestParse_AsyncFunction(t *testing.T) {
	src := "async def fetch():\n    \"\"\"Fetch.\"\"\"\n    return 1\n"
	table := parseSource(t, src)

	sections := table.Ordered()
	require.Len(t, sections, 1)
	assert.Equal(t, []string{"Fetch."}, sections[0].Docs)
	assert.Equal(t, []string{"async def fetch():", "    return 1"}, sections[0].Code)
}

func TestParse_OnlyLeadingLiteralIsDocstring(t *testing.T) {
	src := "def f():\n    x = 1\n    \"\"\"not a docstring\"\"\"\n    return x\n"
	table := parseSource(t, src)

	sections := table.Ordered()
	require.Len(t, sections, 1)
	assert.Equal(t, []string{""}, sections[0].Docs,
		"a literal that is not the leading statement must not become documentation")
	assert.Contains(t, sections[0].Code, "    \"\"\"not a docstring\"\"\"")
}

func TestParse_MultilineDecoratorRelocation(t *testing.T) {
	src := "x = 1\n@wraps(\n    f)\ndef g():\n    pass\n"
	table := parseSource(t, src)

	sections := table.Ordered()
	require.Len(t, sections, 2)
	assert.Equal(t, []string{"x = 1"}, sections[0].Code,
		"trailing decorator line must leave the preceding section")
	assert.Equal(t, []string{"@wraps(", "    f)", "def g():", "    pass"}, sections[1].Code)
}

func TestParseFile_Fixture(t *testing.T) {
	p, err := New("python")
	require.NoError(t, err)

	table, err := p.ParseFile(context.Background(), "testdata/sample.py")
	require.NoError(t, err)

	sections := table.Ordered()
	require.Len(t, sections, 4)

	t.Run("module docstring", func(t *testing.T) {
		assert.Equal(t, 1, sections[0].Line)
		assert.Equal(t, []string{"Utilities for text layout."}, sections[0].Docs)
		assert.Empty(t, sections[0].Code)
	})

	t.Run("imports", func(t *testing.T) {
		assert.Equal(t, 3, sections[1].Line)
		assert.Equal(t, "import textwrap", sections[1].Code[0])
	})

	t.Run("documented def", func(t *testing.T) {
		assert.Equal(t, 6, sections[2].Line)
		assert.Equal(t, []string{"Wrap text to the given width."}, sections[2].Docs)
		assert.Equal(t, "def wrap(text, width=72):", sections[2].Code[0])
	})

	t.Run("comment before undocumented def", func(t *testing.T) {
		assert.Equal(t, 12, sections[3].Line)
		assert.Equal(t, []string{"The module entry point.", ""}, sections[3].Docs)
		assert.Equal(t, []string{"def main():", "    print(wrap(\"hello\"))"}, sections[3].Code)
	})
}

func TestParseFile_Missing(t *testing.T) {
	p, err := New("python")
	require.NoError(t, err)

	_, err = p.ParseFile(context.Background(), "testdata/nope.py")
	assert.Error(t, err)
}

// Concatenating every section's code in key order must reconstruct the
// original non-skipped, non-filtered lines in order, with nothing duplicated
// or dropped beyond leading blanks and filtered lines.
func TestParse_ReconstructsSource(t *testing.T) {
	src := "#!/usr/bin/env python\n" +
		"\"\"\"Module.\"\"\"\n" +
		"\n" +
		"import os\n" +
		"\n" +
		"# A helper.\n" +
		"@deco\n" +
		"def f(a, b):\n" +
		"    \"\"\"Adds things.\n" +
		"    Slowly.\n" +
		"    \"\"\"\n" +
		"    return a + b\n" +
		"\n" +
		"class C:\n" +
		"    def m(self):\n" +
		"        return f(1, 2)\n"
	table := parseSource(t, src)

	var got []string
	for _, sec := range table.Ordered() {
		got = append(got, sec.Code...)
	}

	want := []string{
		"import os",
		"",
		"@deco",
		"def f(a, b):",
		"    return a + b",
		"",
		"class C:",
		"    def m(self):",
		"        return f(1, 2)",
	}
	assert.Equal(t, want, got)
}
