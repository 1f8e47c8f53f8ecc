package render

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	htmlfmt "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// StylesheetName is the file the generator copies next to the rendered
// HTML pages.
const StylesheetName = "sidedoc.css"

var htmlFormatter = htmlfmt.New(htmlfmt.WithClasses(true))

// highlightHTML runs code through the syntax highlighter. Empty or
// whitespace-only code produces no output at all.
func highlightHTML(code string) (string, error) {
	if strings.TrimSpace(code) == "" {
		return "", nil
	}

	lexer := lexers.Get("python")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	it, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("highlight: %w", err)
	}

	var buf bytes.Buffer
	if err := htmlFormatter.Format(&buf, highlightStyle(), it); err != nil {
		return "", fmt.Errorf("highlight: %w", err)
	}
	return buf.String(), nil
}

func highlightStyle() *chroma.Style {
	if s := styles.Get("github"); s != nil {
		return s
	}
	return styles.Fallback
}

// WriteStylesheet writes the page stylesheet, base layout plus the
// highlighter's class definitions, into the output directory.
func WriteStylesheet(dir string) error {
	var buf bytes.Buffer
	buf.Write(baseCSS)
	buf.WriteString("\n")
	if err := htmlFormatter.WriteCSS(&buf, highlightStyle()); err != nil {
		return fmt.Errorf("stylesheet: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, StylesheetName), buf.Bytes(), 0644)
}
