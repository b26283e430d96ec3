// Package project turns a session's working directory into a display label.
package project

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/penwyp/go-claude-timeline/internal/core/model"
)

// NameLookup returns a repository name for a directory, or "" if it has none.
type NameLookup func(directory string) string

var (
	urlLinePattern = regexp.MustCompile(`^\s*url\s*=\s*(.+?)\s*$`)
	sshURLPattern  = regexp.MustCompile(`^(?:[^/:@]+@)?[^/:]+:(?:.*/)?([^/]+?)(?:\.git)?/?$`)
	httpURLPattern = regexp.MustCompile(`^[a-z+]+://.*/([^/]+?)(?:\.git)?/?$`)
)

// RepositoryName reads the remote URL from the git configuration of directory
// and returns the repository part of it. Worktrees, where .git is a file that
// points at the real git dir, are followed to their common directory.
func RepositoryName(directory string) string {
	if directory == "" {
		return ""
	}

	configFile := gitConfigPath(filepath.Join(directory, ".git"))
	if configFile == "" {
		return ""
	}

	file, err := os.Open(configFile)
	if err != nil {
		return ""
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		match := urlLinePattern.FindStringSubmatch(scanner.Text())
		if match == nil {
			continue
		}
		if name := repoNameFromURL(match[1]); name != "" {
			return name
		}
	}
	return ""
}

func gitConfigPath(gitPath string) string {
	info, err := os.Stat(gitPath)
	if err != nil {
		return ""
	}
	if info.IsDir() {
		return filepath.Join(gitPath, "config")
	}

	content, err := os.ReadFile(gitPath)
	if err != nil {
		return ""
	}
	gitDir, ok := strings.CutPrefix(strings.TrimSpace(string(content)), "gitdir: ")
	if !ok {
		return ""
	}
	if !filepath.IsAbs(gitDir) {
		gitDir = filepath.Join(filepath.Dir(gitPath), gitDir)
	}

	if common, err := os.ReadFile(filepath.Join(gitDir, "commondir")); err == nil {
		commonDir := strings.TrimSpace(string(common))
		if !filepath.IsAbs(commonDir) {
			commonDir = filepath.Join(gitDir, commonDir)
		}
		return filepath.Join(commonDir, "config")
	}
	return filepath.Join(gitDir, "config")
}

func repoNameFromURL(url string) string {
	url = strings.TrimSpace(url)
	if strings.Contains(url, "://") {
		if m := httpURLPattern.FindStringSubmatch(url); m != nil {
			return m[1]
		}
		return ""
	}
	if m := sshURLPattern.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	return ""
}

// Label resolves the display name of a directory: the repository name if
// lookup finds one, otherwise the last path segment, otherwise "unknown".
func Label(directory string, lookup NameLookup) string {
	if lookup != nil {
		if name := lookup(directory); name != "" {
			return name
		}
	}

	trimmed := strings.TrimRight(directory, "/")
	if trimmed == "" {
		return model.UnknownProject
	}
	base := filepath.Base(trimmed)
	if base == "." || base == "/" || base == "" {
		return model.UnknownProject
	}
	return base
}

// Resolver memoises labels for the lifetime of one query.
type Resolver struct {
	lookup NameLookup
	mu     sync.Mutex
	labels map[string]string
}

// NewResolver creates a Resolver backed by lookup. A nil lookup uses RepositoryName.
func NewResolver(lookup NameLookup) *Resolver {
	if lookup == nil {
		lookup = RepositoryName
	}
	return &Resolver{
		lookup: lookup,
		labels: make(map[string]string),
	}
}

// Resolve returns the label for directory.
func (r *Resolver) Resolve(directory string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if label, ok := r.labels[directory]; ok {
		return label
	}
	label := Label(directory, r.lookup)
	r.labels[directory] = label
	return label
}
