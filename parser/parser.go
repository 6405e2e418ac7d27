package parser

import (
	"os"
	"path/filepath"
	"strings"
)

// LocalImageList returns the image files directly inside rootDir in natural order.
func LocalImageList(rootDir string) ([]string, error) {
	expandedPath, err := ExpandPath(rootDir)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(expandedPath)
	if err != nil {
		return nil, err
	}

	fileList := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !IsImageFile(entry.Name()) {
			continue
		}
		fileList = append(fileList, entry.Name())
	}

	SortNatural(fileList)

	paths := make([]string, len(fileList))
	for i, name := range fileList {
		paths[i] = filepath.Join(expandedPath, name)
	}
	return paths, nil
}

// ExpandPath expands ~ to the user's home directory, or returns the path as-is
func ExpandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if path == "~" {
			return homeDir, nil
		}
		return filepath.Join(homeDir, path[2:]), nil
	}
	return path, nil
}
