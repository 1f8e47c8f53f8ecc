package generator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"sidedoc/internal/parser"
	"sidedoc/internal/render"
	"sidedoc/internal/storage"
)

// Generator orchestrates documentation output for a batch of source files:
// parse each file into sections, render the sections, and write the result
// next to a shared stylesheet. A failure in one file never aborts the rest.
type Generator struct {
	parser   *parser.Parser
	renderer *render.Renderer
	cache    storage.RenderCache
	force    bool
}

// Result reports the outcome for a single input file.
type Result struct {
	Input   string
	Output  string
	Skipped bool
	Err     error
}

// New creates a generator. The cache may be nil, in which case every file is
// rendered unconditionally. Force bypasses the cache without disabling the
// recording of fresh hashes.
func New(p *parser.Parser, r *render.Renderer, cache storage.RenderCache, force bool) *Generator {
	return &Generator{parser: p, renderer: r, cache: cache, force: force}
}

// Document renders every input file into outputDir and returns one Result
// per input, in input order.
func (g *Generator) Document(ctx context.Context, inputs []string, outputDir string) ([]Result, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	if g.renderer.NeedsStylesheet() {
		if err := render.WriteStylesheet(outputDir); err != nil {
			return nil, fmt.Errorf("failed to write stylesheet: %w", err)
		}
	}

	results := make([]Result, 0, len(inputs))
	for _, input := range inputs {
		results = append(results, g.documentFile(ctx, input, outputDir))
	}
	return results, nil
}

func (g *Generator) documentFile(ctx context.Context, input, outputDir string) Result {
	res := Result{Input: input}

	src, err := os.ReadFile(input)
	if err != nil {
		res.Err = fmt.Errorf("failed to read file: %w", err)
		return res
	}
	hash := contentHash(src)

	res.Output = OutputPath(input, outputDir, g.renderer.Extension())

	if g.cache != nil && !g.force {
		last, err := g.cache.LastHash(ctx, input)
		if err != nil {
			res.Err = fmt.Errorf("cache lookup failed: %w", err)
			return res
		}
		if last == hash {
			res.Skipped = true
			return res
		}
	}

	table, err := g.parser.Parse(ctx, src)
	if err != nil {
		res.Err = err
		return res
	}

	body, err := g.renderer.RenderPage(filepath.Base(input), table.Ordered())
	if err != nil {
		res.Err = err
		return res
	}

	if err := os.WriteFile(res.Output, []byte(body), 0644); err != nil {
		res.Err = fmt.Errorf("failed to write output: %w", err)
		return res
	}

	if g.cache != nil {
		if err := g.cache.Record(ctx, input, hash, res.Output); err != nil {
			res.Err = fmt.Errorf("cache record failed: %w", err)
			return res
		}
	}
	return res
}

// OutputPath maps a source path to its destination inside outputDir: the
// base name with the source extension replaced by the renderer's.
func OutputPath(input, outputDir, ext string) string {
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outputDir, base+"."+ext)
}

func contentHash(src []byte) string {
	sum := sha256.Sum256(src)
	return hex.EncodeToString(sum[:])
}
