package crawler

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// Crawler scans a directory tree for Python source files.
type Crawler struct {
	ignored []string
}

// NewCrawler creates a crawler. Extra directory names to skip can be given
// on top of the built-in ignores.
func NewCrawler(extraIgnored ...string) *Crawler {
	ignored := []string{".git", "__pycache__", "venv", ".venv", "node_modules"}
	return &Crawler{ignored: append(ignored, extraIgnored...)}
}

// Scan walks the root directory and streams every Python file path through
// the callback.
func (c *Crawler) Scan(root string, onFile func(path string)) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			for _, ign := range c.ignored {
				if d.Name() == ign {
					return filepath.SkipDir
				}
			}
			return nil
		}

		if !strings.HasSuffix(d.Name(), ".py") {
			return nil
		}

		onFile(path)
		return nil
	})
}
