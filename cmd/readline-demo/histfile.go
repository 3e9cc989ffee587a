package main

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// One entry per line; continuation breaks and backslashes are escaped
var (
	histEscaper   = strings.NewReplacer(`\`, `\\`, "\n", `\n`)
	histUnescaper = strings.NewReplacer(`\\`, `\`, `\n`, "\n")
)

// loadHistory reads entries oldest first. A missing file is an empty history.
func loadHistory(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var entries []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		entries = append(entries, histUnescaper.Replace(line))
	}
	return entries, nil
}

// saveHistory writes entries, replacing the file
func saveHistory(path string, entries []string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(histEscaper.Replace(e))
		sb.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(sb.String()), 0600)
}
