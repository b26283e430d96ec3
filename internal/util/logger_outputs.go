package util

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
)

// formatEntry renders one line without the trailing newline.
func formatEntry(entry LogEntry, format LogFormat) (string, error) {
	if format == FormatJSON {
		data, err := sonic.ConfigStd.Marshal(entry)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] %s", entry.Timestamp.Format("2006/01/02 15:04:05"), entry.Level, entry.Message)

	keys := make([]string, 0, len(entry.Fields))
	for k := range entry.Fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, entry.Fields[k])
	}
	return b.String(), nil
}

// WriterOutput writes logs to an io.Writer such as stderr
type WriterOutput struct {
	mu     sync.Mutex
	writer io.Writer
	format LogFormat
}

// NewWriterOutput creates a new writer output
func NewWriterOutput(writer io.Writer, format LogFormat) *WriterOutput {
	return &WriterOutput{writer: writer, format: format}
}

// Write writes a log entry
func (w *WriterOutput) Write(entry LogEntry) error {
	line, err := formatEntry(entry, w.format)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	_, err = fmt.Fprintln(w.writer, line)
	return err
}

// Close is a no-op; the writer is owned by the caller.
func (w *WriterOutput) Close() error {
	return nil
}

// FileOutput appends logs to a file
type FileOutput struct {
	*WriterOutput
	file *os.File
}

// NewFileOutput opens path for appending
func NewFileOutput(path string, format LogFormat) (*FileOutput, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return &FileOutput{WriterOutput: NewWriterOutput(file, format), file: file}, nil
}

// Close closes the file
func (f *FileOutput) Close() error {
	return f.file.Close()
}
