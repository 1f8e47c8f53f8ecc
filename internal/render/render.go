package render

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	htmltemplate "html/template"
	"strings"
	"time"

	"github.com/yuin/goldmark"

	"sidedoc/internal/parser"
)

// Format selects the markup dialect used for documentation text.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatAsciiDoc Format = "asciidoc"
)

// ErrBackendUnavailable means the requested markup processor is not wired
// in. It is only surfaced when that backend was explicitly asked for.
var ErrBackendUnavailable = errors.New("rendering backend unavailable")

// Options configures a Renderer.
type Options struct {
	// Format is the markup dialect for docs. Defaults to markdown.
	Format Format
	// EscapeHTML sanitizes documentation text before markup processing, for
	// sources whose comments embed raw HTML fragments.
	EscapeHTML bool
	// SingleFile emits one .md or .adoc file with demarcated code blocks
	// instead of a highlighted HTML page.
	SingleFile bool
}

// Renderer turns a parsed section sequence into a finished document: docs
// run through the markup processor, code through the syntax highlighter.
type Renderer struct {
	opts Options
	md   goldmark.Markdown
}

// New creates a renderer. AsciiDoc is only available in single-file mode;
// there is no AsciiDoc-to-HTML processor wired in, so requesting one is an
// error.
func New(opts Options) (*Renderer, error) {
	if opts.Format == "" {
		opts.Format = FormatMarkdown
	}
	switch opts.Format {
	case FormatMarkdown, FormatAsciiDoc:
	default:
		return nil, fmt.Errorf("unsupported format: %s", opts.Format)
	}
	if opts.Format == FormatAsciiDoc && !opts.SingleFile {
		return nil, fmt.Errorf("%w: asciidoc output requires single-file mode", ErrBackendUnavailable)
	}
	return &Renderer{opts: opts, md: goldmark.New()}, nil
}

// Extension returns the output file extension for the configured mode.
func (r *Renderer) Extension() string {
	if !r.opts.SingleFile {
		return "html"
	}
	if r.opts.Format == FormatAsciiDoc {
		return "adoc"
	}
	return "md"
}

// NeedsStylesheet reports whether the output directory should receive the
// stylesheet alongside the rendered documents.
func (r *Renderer) NeedsStylesheet() bool {
	return !r.opts.SingleFile
}

// RenderPage renders one parsed file into its final document body.
func (r *Renderer) RenderPage(title string, sections []parser.NumberedSection) (string, error) {
	if r.opts.SingleFile {
		return r.renderSingleFile(sections), nil
	}
	return r.renderHTML(title, sections)
}

func (r *Renderer) renderHTML(title string, sections []parser.NumberedSection) (string, error) {
	page := pageData{
		Title:      title,
		Stylesheet: StylesheetName,
		Date:       time.Now().UTC().Format("02 Jan 2006"),
	}
	for _, sec := range sections {
		docsHTML, err := r.renderDocs(sec.Docs)
		if err != nil {
			return "", err
		}
		codeHTML, err := highlightHTML(joinCode(sec.Code))
		if err != nil {
			return "", err
		}
		page.Sections = append(page.Sections, renderedSection{
			Num:      sec.Line,
			DocsHTML: htmltemplate.HTML(docsHTML),
			CodeHTML: htmltemplate.HTML(codeHTML),
		})
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, page); err != nil {
		return "", fmt.Errorf("template: %w", err)
	}
	return buf.String(), nil
}

// renderSingleFile welds docs and demarcated code blocks into one markup
// document, with no markup processing or highlighting applied.
func (r *Renderer) renderSingleFile(sections []parser.NumberedSection) string {
	var parts []string
	for _, sec := range sections {
		docs := joinDocs(sec.Docs)
		if r.opts.EscapeHTML {
			docs = html.EscapeString(docs)
		}
		parts = append(parts, docs, "\n", r.codeBlock(joinCode(sec.Code)))
	}
	return strings.Join(parts, "\n")
}

// renderDocs joins a section's docs and runs them through the markup
// processor. Empty fragments (undocumented-definition markers) are dropped
// before joining.
func (r *Renderer) renderDocs(docs []string) (string, error) {
	text := joinDocs(docs)
	if r.opts.EscapeHTML {
		text = html.EscapeString(text)
	}
	if text == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(text), &buf); err != nil {
		return "", fmt.Errorf("markdown: %w", err)
	}
	return buf.String(), nil
}

func (r *Renderer) codeBlock(code string) string {
	if strings.TrimSpace(code) == "" {
		return ""
	}
	if r.opts.Format == FormatAsciiDoc {
		return fmt.Sprintf("\n[source,python]\n----\n%s\n----\n", code)
	}
	return fmt.Sprintf("```python\n%s\n```\n", code)
}

// joinDocs joins documentation fragments with a blank-line separator,
// filtering out empty entries.
func joinDocs(docs []string) string {
	kept := make([]string, 0, len(docs))
	for _, d := range docs {
		if d != "" {
			kept = append(kept, d)
		}
	}
	return strings.Join(kept, "\n\n")
}

func joinCode(code []string) string {
	return strings.Join(code, "\n")
}
