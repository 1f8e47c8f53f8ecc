package config

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Project struct {
		Root   string   `yaml:"root"`
		Ignore []string `yaml:"ignore"`
	} `yaml:"project"`
	Output struct {
		Dir        string `yaml:"dir"`
		Format     string `yaml:"format"` // markdown or asciidoc
		SingleFile bool   `yaml:"single_file"`
		EscapeHTML bool   `yaml:"escape_html"`
	} `yaml:"output"`
	Cache struct {
		Path string `yaml:"path"`
	} `yaml:"cache"`
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	var cfg Config
	cfg.Project.Root = "."
	cfg.Output.Dir = "docs"
	cfg.Output.Format = "markdown"
	cfg.Cache.Path = "sidedoc.db"
	return &cfg
}

func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := Default()

	// 2. Load YAML config if present
	file, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	// 3. Override with Environment Variables if present
	if dir := os.Getenv("SIDEDOC_OUTPUT_DIR"); dir != "" {
		cfg.Output.Dir = dir
	}
	if format := os.Getenv("SIDEDOC_FORMAT"); format != "" {
		cfg.Output.Format = format
	}
	if db := os.Getenv("SIDEDOC_DB"); db != "" {
		cfg.Cache.Path = db
	}

	return cfg, nil
}
