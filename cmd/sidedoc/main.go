package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"sidedoc/internal/config"
	"sidedoc/internal/crawler"
	"sidedoc/internal/generator"
	"sidedoc/internal/git"
	"sidedoc/internal/parser"
	"sidedoc/internal/render"
	"sidedoc/internal/storage"

	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "sidedoc",
		Short: "Literate-style documentation generator for Python sources",
	}
	dbPath     string
	configPath string

	outputDir  string
	asciidoc   bool
	escapeHTML bool
	singleFile bool
	force      bool

	baseRef string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Path to the render cache database (SQLite)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "sidedoc.yaml", "Path to the config file")

	generateCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory for generated documentation")
	generateCmd.Flags().BoolVarP(&asciidoc, "asciidoc", "a", false, "Emit AsciiDoc instead of Markdown (single-file mode only)")
	generateCmd.Flags().BoolVarP(&escapeHTML, "escape-html", "e", false, "Escape raw HTML found in documentation text")
	generateCmd.Flags().BoolVarP(&singleFile, "single-file", "s", false, "Emit one markup file per source instead of an HTML page")
	generateCmd.Flags().BoolVarP(&force, "force", "f", false, "Re-render files even when the cache says they are unchanged")

	updateCmd.Flags().StringVar(&baseRef, "ref", "HEAD", "Git ref to diff against when detecting changes")
	updateCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory for generated documentation")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(updateCmd)
}

// loadConfig loads the config file and applies command-line overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if outputDir != "" {
		cfg.Output.Dir = outputDir
	}
	if asciidoc {
		cfg.Output.Format = "asciidoc"
	}
	if cmd.Flags().Changed("escape-html") {
		cfg.Output.EscapeHTML = escapeHTML
	}
	if cmd.Flags().Changed("single-file") {
		cfg.Output.SingleFile = singleFile
	}
	if dbPath != "" {
		cfg.Cache.Path = dbPath
	}
	return cfg, nil
}

func newRenderer(cfg *config.Config) (*render.Renderer, error) {
	return render.New(render.Options{
		Format:     render.Format(cfg.Output.Format),
		EscapeHTML: cfg.Output.EscapeHTML,
		SingleFile: cfg.Output.SingleFile,
	})
}

// collectInputs expands command arguments into a list of Python source
// files. Directories are crawled; files are taken as-is.
func collectInputs(args []string, ignore []string) ([]string, error) {
	var inputs []string
	cr := crawler.NewCrawler(ignore...)
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", arg, err)
		}
		if info.IsDir() {
			if err := cr.Scan(arg, func(path string) {
				inputs = append(inputs, path)
			}); err != nil {
				return nil, fmt.Errorf("failed to scan %s: %w", arg, err)
			}
			continue
		}
		inputs = append(inputs, arg)
	}
	return inputs, nil
}

func reportResults(results []generator.Result) (failed int) {
	for _, res := range results {
		switch {
		case res.Err != nil:
			fmt.Printf("⚠️  %s: %v\n", res.Input, res.Err)
			failed++
		case res.Skipped:
			fmt.Printf("⏭️  %s (unchanged)\n", res.Input)
		default:
			fmt.Printf("✅ %s -> %s\n", res.Input, res.Output)
		}
	}
	return failed
}

var generateCmd = &cobra.Command{
	Use:   "generate [paths...]",
	Short: "Generate documentation for Python files or directories",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		cfg, err := loadConfig(cmd)
		if err != nil {
			log.Fatalf("Config error: %v", err)
		}

		inputs, err := collectInputs(args, cfg.Project.Ignore)
		if err != nil {
			log.Fatalf("Failed to collect inputs: %v", err)
		}
		if len(inputs) == 0 {
			fmt.Println("✅ No Python files found.")
			return
		}

		p, err := parser.New("python")
		if err != nil {
			log.Fatalf("Failed to create parser: %v", err)
		}
		r, err := newRenderer(cfg)
		if err != nil {
			log.Fatalf("Failed to create renderer: %v", err)
		}

		store, err := storage.NewSQLiteStore(cfg.Cache.Path)
		if err != nil {
			log.Fatalf("Failed to open render cache: %v", err)
		}
		defer store.Close()

		fmt.Printf("🚀 Documenting %d files...\n", len(inputs))
		start := time.Now()

		gen := generator.New(p, r, store, force)
		results, err := gen.Document(ctx, inputs, cfg.Output.Dir)
		if err != nil {
			log.Fatalf("Generation failed: %v", err)
		}

		failed := reportResults(results)
		fmt.Printf("🎉 Done in %v. Output: %s\n", time.Since(start), cfg.Output.Dir)
		if failed > 0 {
			fmt.Printf("⚠️  %d of %d files failed.\n", failed, len(results))
			os.Exit(1)
		}
	},
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Re-render only the Python files git reports as changed",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		cfg, err := loadConfig(cmd)
		if err != nil {
			log.Fatalf("Config error: %v", err)
		}

		changes, err := git.ChangedFiles(baseRef)
		if err != nil {
			log.Fatalf("Failed to get git changes: %v", err)
		}

		store, err := storage.NewSQLiteStore(cfg.Cache.Path)
		if err != nil {
			log.Fatalf("Failed to open render cache: %v", err)
		}
		defer store.Close()

		var inputs []string
		for _, change := range changes {
			if !strings.HasSuffix(change.Path, ".py") {
				continue
			}
			if change.Deleted() {
				if err := store.Forget(ctx, change.Path); err != nil {
					log.Printf("⚠️  Failed to prune cache entry for %s: %v", change.Path, err)
				}
				continue
			}
			inputs = append(inputs, change.Path)
		}

		if len(inputs) == 0 {
			fmt.Println("✅ No changed Python files.")
			return
		}
		fmt.Printf("📝 Detected %d changed files.\n", len(inputs))

		p, err := parser.New("python")
		if err != nil {
			log.Fatalf("Failed to create parser: %v", err)
		}
		r, err := newRenderer(cfg)
		if err != nil {
			log.Fatalf("Failed to create renderer: %v", err)
		}

		gen := generator.New(p, r, store, false)
		results, err := gen.Document(ctx, inputs, cfg.Output.Dir)
		if err != nil {
			log.Fatalf("Update failed: %v", err)
		}

		failed := reportResults(results)
		if failed > 0 {
			fmt.Printf("⚠️  %d of %d files failed.\n", failed, len(results))
			os.Exit(1)
		}
		fmt.Printf("✅ Documentation updated in '%s'.\n", cfg.Output.Dir)
	},
}
