// Package fixtures writes Claude Code style JSONL corpora for tests.
package fixtures

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bytedance/sonic"
)

// JSONLEntry represents a single JSONL log entry in Claude Code format
type JSONLEntry struct {
	Timestamp string   `json:"timestamp"`
	Type      string   `json:"type,omitempty"`
	Uuid      string   `json:"uuid,omitempty"`
	SessionId string   `json:"sessionId,omitempty"`
	Cwd       string   `json:"cwd,omitempty"`
	Message   *Message `json:"message,omitempty"`
}

// Message represents the message structure in Claude Code logs
type Message struct {
	Role    string `json:"role,omitempty"`
	Content any    `json:"content,omitempty"`
	Usage   *Usage `json:"usage,omitempty"`
}

// Usage represents token usage in Claude Code logs
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// TextBlock is a "text" element of a block-list content
type TextBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// TestDataGenerator writes session files below a projects root
type TestDataGenerator struct {
	baseDir string
	seq     int
}

// NewTestDataGenerator creates a new test data generator
func NewTestDataGenerator(baseDir string) *TestDataGenerator {
	return &TestDataGenerator{baseDir: baseDir}
}

// BaseDir returns the projects root
func (g *TestDataGenerator) BaseDir() string {
	return g.baseDir
}

// UserEntry builds a user turn
func (g *TestDataGenerator) UserEntry(sessionID, cwd string, ts time.Time, text string) JSONLEntry {
	g.seq++
	return JSONLEntry{
		Timestamp: ts.UTC().Format(time.RFC3339Nano),
		Type:      "user",
		Uuid:      fmt.Sprintf("uuid-%d", g.seq),
		SessionId: sessionID,
		Cwd:       cwd,
		Message:   &Message{Role: "user", Content: text},
	}
}

// AssistantEntry builds an assistant turn carrying token usage
func (g *TestDataGenerator) AssistantEntry(sessionID, cwd string, ts time.Time, input, output int) JSONLEntry {
	g.seq++
	return JSONLEntry{
		Timestamp: ts.UTC().Format(time.RFC3339Nano),
		Type:      "assistant",
		Uuid:      fmt.Sprintf("uuid-%d", g.seq),
		SessionId: sessionID,
		Cwd:       cwd,
		Message: &Message{
			Role:    "assistant",
			Content: []TextBlock{{Type: "text", Text: "response"}},
			Usage:   &Usage{InputTokens: input, OutputTokens: output},
		},
	}
}

// WriteSession writes entries to <baseDir>/<projectDir>/<name>.jsonl
func (g *TestDataGenerator) WriteSession(projectDir, name string, entries []JSONLEntry) (string, error) {
	dir := filepath.Join(g.baseDir, projectDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	var data []byte
	for _, e := range entries {
		line, err := sonic.Marshal(e)
		if err != nil {
			return "", err
		}
		data = append(data, line...)
		data = append(data, '\n')
	}

	path := filepath.Join(dir, name+".jsonl")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// WriteRaw writes raw content to <baseDir>/<projectDir>/<name>.jsonl
func (g *TestDataGenerator) WriteRaw(projectDir, name, content string) (string, error) {
	dir := filepath.Join(g.baseDir, projectDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name+".jsonl")
	return path, os.WriteFile(path, []byte(content), 0644)
}

// GenerateSimpleSession writes a short user/assistant exchange starting at startTime
func (g *TestDataGenerator) GenerateSimpleSession(projectName, cwd string, startTime time.Time) (string, error) {
	sessionID := "session-" + projectName
	entries := []JSONLEntry{
		g.UserEntry(sessionID, cwd, startTime, "Test user message"),
		g.AssistantEntry(sessionID, cwd, startTime.Add(30*time.Second), 100, 50),
		g.UserEntry(sessionID, cwd, startTime.Add(time.Minute), "Follow up"),
		g.AssistantEntry(sessionID, cwd, startTime.Add(90*time.Second), 75, 25),
	}
	return g.WriteSession(projectName, sessionID, entries)
}
