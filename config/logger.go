package config

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
)

const (
	maxLogSize  = 10 * 1024 * 1024 // 10MB
	maxLogFiles = 3                // Keep 3 backup files
	LogFileName = "batodl.log"
)

// RotatingFile is an append-only log file that rolls over to .1, .2, .3
// once it reaches its size limit.
type RotatingFile struct {
	mu      sync.Mutex
	path    string
	file    *os.File
	size    int64
	maxSize int64
	backups int
}

// OpenRotatingFile opens path for appending, rotating first if it is already
// over the limit.
func OpenRotatingFile(path string, maxSize int64, backups int) (*RotatingFile, error) {
	r := &RotatingFile{path: path, maxSize: maxSize, backups: backups}

	if info, err := os.Stat(path); err == nil {
		r.size = info.Size()
		if r.size >= maxSize {
			if err := r.rotate(); err != nil {
				return nil, fmt.Errorf("failed to rotate logs: %w", err)
			}
		}
	}

	if err := r.open(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *RotatingFile) open() error {
	file, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	r.file = file
	return nil
}

// Write appends p and rotates afterwards when the limit is crossed.
func (r *RotatingFile) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		return 0, os.ErrClosed
	}

	n, err := r.file.Write(p)
	r.size += int64(n)
	if err != nil {
		return n, err
	}

	if r.size >= r.maxSize {
		if err := r.rotate(); err != nil {
			return n, err
		}
		if err := r.open(); err != nil {
			return n, err
		}
	}
	return n, nil
}

// Close closes the underlying file.
func (r *RotatingFile) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// rotate shifts path.N to path.N+1, dropping the oldest, and moves the live
// file to path.1 (caller must hold lock).
func (r *RotatingFile) rotate() error {
	if r.file != nil {
		r.file.Close()
		r.file = nil
	}

	os.Remove(fmt.Sprintf("%s.%d", r.path, r.backups))
	for i := r.backups - 1; i >= 1; i-- {
		os.Rename(fmt.Sprintf("%s.%d", r.path, i), fmt.Sprintf("%s.%d", r.path, i+1))
	}

	if err := os.Rename(r.path, r.path+".1"); err != nil && !os.IsNotExist(err) {
		return err
	}
	r.size = 0
	return nil
}

var (
	logFile  *RotatingFile
	logMutex sync.Mutex
)

// LogPath is the log file location inside configDir.
func LogPath(configDir string) string {
	return filepath.Join(configDir, LogFileName)
}

// InitLogger sends the standard logger to batodl.log in configDir. With
// verbose the console keeps receiving it as well.
func InitLogger(configDir string, verbose bool) error {
	logMutex.Lock()
	defer logMutex.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}

	file, err := OpenRotatingFile(LogPath(configDir), maxLogSize, maxLogFiles)
	if err != nil {
		return err
	}
	logFile = file

	var out io.Writer = file
	if verbose {
		out = io.MultiWriter(os.Stderr, file)
	}
	log.SetOutput(out)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	log.Printf("=== batodl %s logger initialized (%s) ===", Version, LogPath(configDir))
	return nil
}

// CloseLogger restores console logging and closes the log file.
func CloseLogger() {
	logMutex.Lock()
	defer logMutex.Unlock()

	log.SetOutput(os.Stderr)
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}
