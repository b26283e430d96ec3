package scanner

import (
	"fmt"
	"io/fs"
	"iter"
	"path/filepath"
	"strings"
	"time"

	"github.com/penwyp/go-claude-timeline/internal/util"
)

// FileScanner discovers session log files below a root directory
type FileScanner struct {
	baseDir string
	ext     string
}

// NewFileScanner creates a new FileScanner instance
func NewFileScanner(baseDir string) *FileScanner {
	return &FileScanner{
		baseDir: baseDir,
		ext:     ".jsonl",
	}
}

// BaseDir returns the corpus root
func (s *FileScanner) BaseDir() string {
	return s.baseDir
}

// Files yields every log file under the root in lexical walk order.
// Entries that cannot be read are skipped, and a missing root yields nothing.
func (s *FileScanner) Files() iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(s.baseDir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				util.LogDebug(fmt.Sprintf("Skip entry (error): %s - %v", path, err))
				if d != nil && d.IsDir() && path != s.baseDir {
					return filepath.SkipDir
				}
				return nil
			}

			if d.IsDir() || !d.Type().IsRegular() {
				return nil
			}

			if !strings.EqualFold(filepath.Ext(path), s.ext) {
				return nil
			}

			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

// Scan collects all log file paths
func (s *FileScanner) Scan() []string {
	start := time.Now()
	files := make([]string, 0)
	for path := range s.Files() {
		files = append(files, path)
	}

	util.LogDebug(fmt.Sprintf("File scan completed: duration %v, found %d JSONL files in %s",
		time.Since(start), len(files), s.baseDir))

	return files
}
