package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createFiles(t *testing.T, root string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		fullPath := filepath.Join(root, p)
		require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0755))
		require.NoError(t, os.WriteFile(fullPath, []byte("content"), 0644))
	}
}

func TestNewFileScanner(t *testing.T) {
	scanner := NewFileScanner("/tmp/test")

	assert.NotNil(t, scanner)
	assert.Equal(t, "/tmp/test", scanner.BaseDir())
	assert.Equal(t, ".jsonl", scanner.ext)
}

func TestFileScannerScanEmptyDirectory(t *testing.T) {
	scanner := NewFileScanner(t.TempDir())

	files := scanner.Scan()

	assert.NotNil(t, files)
	assert.Empty(t, files, "Empty directory should return no files")
}

func TestFileScannerScanNonExistentDirectory(t *testing.T) {
	scanner := NewFileScanner("/path/that/does/not/exist")

	files := scanner.Scan()

	assert.Empty(t, files, "Missing root is an empty corpus, not an error")
}

func TestFileScannerScanMixedFileTypes(t *testing.T) {
	tempDir := t.TempDir()
	scanner := NewFileScanner(tempDir)

	fileTypes := []struct {
		name    string
		isJSONL bool
	}{
		{"session.jsonl", true},
		{"config.json", false},
		{"data.csv", false},
		{"backup.jsonl.bak", false},
		{"test.JSONL", true},
		{"file.jsonl.old", false},
		{"subdir/nested.jsonl", true},
		{"subdir/deeper/again.jsonl", true},
	}

	var expected []string
	for _, f := range fileTypes {
		createFiles(t, tempDir, f.name)
		if f.isJSONL {
			expected = append(expected, filepath.Join(tempDir, f.name))
		}
	}

	files := scanner.Scan()

	assert.ElementsMatch(t, expected, files)
	for _, file := range files {
		assert.True(t, strings.HasSuffix(strings.ToLower(file), ".jsonl"))
	}
}

func TestFileScannerFilesIsDeterministic(t *testing.T) {
	tempDir := t.TempDir()
	createFiles(t, tempDir, "b/2.jsonl", "a/1.jsonl", "c.jsonl", "a/0.jsonl")

	first := NewFileScanner(tempDir).Scan()
	second := NewFileScanner(tempDir).Scan()

	assert.Equal(t, first, second)
	assert.Equal(t, []string{
		filepath.Join(tempDir, "a/0.jsonl"),
		filepath.Join(tempDir, "a/1.jsonl"),
		filepath.Join(tempDir, "b/2.jsonl"),
		filepath.Join(tempDir, "c.jsonl"),
	}, first)
}

func TestFileScannerFilesStopsEarly(t *testing.T) {
	tempDir := t.TempDir()
	for i := 0; i < 10; i++ {
		createFiles(t, tempDir, fmt.Sprintf("s%02d.jsonl", i))
	}

	var seen []string
	for path := range NewFileScanner(tempDir).Files() {
		seen = append(seen, path)
		if len(seen) == 3 {
			break
		}
	}

	assert.Len(t, seen, 3)
}

func TestFileScannerSkipsUnreadableDirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}

	tempDir := t.TempDir()
	createFiles(t, tempDir, "test.jsonl", "restricted/hidden.jsonl")

	restrictedDir := filepath.Join(tempDir, "restricted")
	require.NoError(t, os.Chmod(restrictedDir, 0000))
	defer os.Chmod(restrictedDir, 0755)

	files := NewFileScanner(tempDir).Scan()

	assert.Contains(t, files, filepath.Join(tempDir, "test.jsonl"))
	assert.NotContains(t, files, filepath.Join(tempDir, "restricted/hidden.jsonl"))
}
