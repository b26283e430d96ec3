package parser

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"

	"github.com/penwyp/go-claude-timeline/internal/core/model"
	"github.com/penwyp/go-claude-timeline/internal/util"
)

const maxPreviewRunes = 100

// ParseLine decodes a single JSONL record into a SessionEvent.
//
// A record that is not valid JSON, or does not have the shape of a log entry,
// returns an error. A well-formed record without a usable timestamp returns
// (nil, nil) and is simply dropped by callers.
func ParseLine(line []byte, loc *time.Location) (*model.SessionEvent, error) {
	var entry model.LogEntry
	if err := sonic.Unmarshal(line, &entry); err != nil {
		return nil, err
	}
	return eventFromEntry(&entry, loc), nil
}

func eventFromEntry(entry *model.LogEntry, loc *time.Location) *model.SessionEvent {
	if entry.Timestamp == nil {
		return nil
	}
	ts, err := parseTimestamp(*entry.Timestamp)
	if err != nil {
		return nil
	}
	if loc != nil {
		ts = ts.In(loc)
	}

	event := &model.SessionEvent{
		Timestamp:   ts,
		SessionID:   deref(entry.SessionId),
		Directory:   deref(entry.Cwd),
		UUID:        deref(entry.Uuid),
		MessageType: resolveRole(entry),
	}

	if entry.Message != nil {
		event.ContentPreview = previewContent(entry.Message.Content.PlainText())
		if event.MessageType == model.RoleAssistant && entry.Message.Usage != nil {
			event.InputTokens = nonNegative(entry.Message.Usage.InputTokens)
			event.OutputTokens = nonNegative(entry.Message.Usage.OutputTokens)
		}
	}

	return event
}

// parseTimestamp accepts RFC3339 with or without fractional seconds. Go's
// layout already reads a trailing "Z" as +00:00.
func parseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, strings.TrimSpace(s))
}

func resolveRole(entry *model.LogEntry) string {
	if entry.Message != nil && entry.Message.Role != nil {
		return *entry.Message.Role
	}
	if entry.Type != nil {
		return *entry.Type
	}
	return model.RoleUnknown
}

// previewContent keeps the first maxPreviewRunes characters, marks the cut
// with "..." and flattens newlines.
func previewContent(content string) string {
	count := 0
	for i := range content {
		if count == maxPreviewRunes {
			content = content[:i] + "..."
			break
		}
		count++
	}
	return strings.ReplaceAll(content, "\n", " ")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nonNegative(n *int) int {
	if n == nil || *n < 0 {
		return 0
	}
	return *n
}

// ParseFile reads a JSONL file and returns every event it yields.
//
// Blank lines are skipped. The first structurally invalid line aborts the file,
// except for an unterminated final line, which is treated as a write still in
// progress and ignored.
func ParseFile(path string, loc *time.Location) ([]model.SessionEvent, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return parseReader(file, loc)
}

func parseReader(r io.Reader, loc *time.Location) ([]model.SessionEvent, error) {
	reader := bufio.NewReaderSize(r, 64*1024)
	events := make([]model.SessionEvent, 0)

	for lineNum := 1; ; lineNum++ {
		line, readErr := reader.ReadBytes('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, fmt.Errorf("failed to read line %d: %w", lineNum, readErr)
		}
		atEOF := readErr != nil
		terminated := len(line) > 0 && line[len(line)-1] == '\n'

		trimmed := bytes.TrimSpace(line)
		if len(trimmed) > 0 {
			event, err := ParseLine(trimmed, loc)
			switch {
			case err != nil && atEOF && !terminated:
				util.LogDebug(fmt.Sprintf("Skip partial trailing line %d: %v", lineNum, err))
			case err != nil:
				return nil, fmt.Errorf("failed to parse JSON on line %d: %w", lineNum, err)
			case event != nil:
				events = append(events, *event)
			}
		}

		if atEOF {
			return events, nil
		}
	}
}

// Parser parses log files, remembering results for files whose identity
// (mtime, size, inode) has not changed since the last parse.
type Parser struct {
	concurrency int
	location    *time.Location
	mu          sync.Mutex
	cache       map[string]cachedFile
}

type cachedFile struct {
	info   util.FileInfo
	events []model.SessionEvent
}

// ParseResult represents the result of parsing a single file.
type ParseResult struct {
	File   string
	Events []model.SessionEvent
	Error  error
}

// NewParser creates a new Parser instance.
func NewParser(concurrency int, loc *time.Location) *Parser {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Parser{
		concurrency: concurrency,
		location:    loc,
		cache:       make(map[string]cachedFile),
	}
}

// ParseFile parses one file, serving unchanged files from the cache. The
// returned slice is shared with the cache and must not be modified.
func (p *Parser) ParseFile(path string) ([]model.SessionEvent, error) {
	info, infoErr := util.GetFileInfo(path)

	if infoErr == nil {
		p.mu.Lock()
		cached, ok := p.cache[path]
		p.mu.Unlock()
		if ok && cached.info == *info {
			return cached.events, nil
		}
	}

	util.LogDebug(fmt.Sprintf("Start parsing file: %s", path))
	events, err := ParseFile(path, p.location)
	if err != nil {
		p.mu.Lock()
		delete(p.cache, path)
		p.mu.Unlock()
		return nil, err
	}

	if infoErr == nil {
		p.mu.Lock()
		p.cache[path] = cachedFile{info: *info, events: events}
		p.mu.Unlock()
	}

	return events, nil
}

// ParseFiles parses files with a bounded worker pool. Results are returned in
// the same order as files.
func (p *Parser) ParseFiles(files []string) []ParseResult {
	start := time.Now()
	results := make([]ParseResult, len(files))
	var wg sync.WaitGroup

	util.LogDebug(fmt.Sprintf("Start parsing %d files, concurrency: %d", len(files), p.concurrency))

	semaphore := make(chan struct{}, p.concurrency)

	for i, file := range files {
		wg.Add(1)
		go func(idx int, f string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			events, err := p.ParseFile(f)
			if err != nil {
				util.LogDebug(fmt.Sprintf("File parsing failed: %s - %v", f, err))
			}
			results[idx] = ParseResult{File: f, Events: events, Error: err}
		}(i, file)
	}

	wg.Wait()
	util.LogDebug(fmt.Sprintf("Parsing finished, total duration: %v", time.Since(start)))

	return results
}

// Forget drops cached results for files that no longer exist in the corpus.
func (p *Parser) Forget(keep []string) {
	live := make(map[string]struct{}, len(keep))
	for _, f := range keep {
		live[f] = struct{}{}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for path := range p.cache {
		if _, ok := live[path]; !ok {
			delete(p.cache, path)
		}
	}
}
