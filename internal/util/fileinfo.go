package util

import (
	"fmt"
	"os"
	"syscall"
)

// FileInfo identifies a particular version of a file on disk. Two values are
// equal only if the file was neither rewritten nor appended to in between.
type FileInfo struct {
	ModTime int64  // Modification time in nanoseconds
	Size    int64  // File size in bytes
	Inode   uint64 // Inode number, changes when the file is replaced
}

// GetFileInfo retrieves the identity of the file at filepath.
// Supported on Linux and macOS.
func GetFileInfo(filepath string) (*FileInfo, error) {
	stat, err := os.Stat(filepath)
	if err != nil {
		return nil, err
	}

	sysStat, ok := stat.Sys().(*syscall.Stat_t)
	if !ok {
		return nil, fmt.Errorf("failed to get file system information: %s", filepath)
	}

	return &FileInfo{
		ModTime: stat.ModTime().UnixNano(),
		Size:    stat.Size(),
		Inode:   uint64(sysStat.Ino),
	}, nil
}
