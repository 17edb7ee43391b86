package script

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/simplifiedchinese"
)

// Loader reads script files from a base directory and caches the parsed
// ScriptData so repeated RunScript calls to the same file share one parsed
// copy. A cache entry is invalidated when the file's mtime changes.
//
// Legacy script files shipped with the original game are GB2312-encoded;
// files that are not valid UTF-8 are decoded as GB18030 (a superset of
// GB2312) before parsing.
type Loader struct {
	baseDir string
	logger  *slog.Logger
	cache   map[string]*cacheEntry
}

type cacheEntry struct {
	data    *ScriptData
	modTime time.Time
}

// NewLoader creates a loader rooted at baseDir.
func NewLoader(baseDir string, logger *slog.Logger) *Loader {
	if baseDir == "" {
		baseDir = "./data/scripts"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		baseDir: baseDir,
		logger:  logger,
		cache:   make(map[string]*cacheEntry),
	}
}

// Load returns the parsed script for a file name relative to the base
// directory, parsing at most once per file version.
func (l *Loader) Load(fileName string) (*ScriptData, error) {
	path := filepath.Join(l.baseDir, fileName)

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("script %s: %w", fileName, err)
	}

	if entry, ok := l.cache[fileName]; ok && entry.modTime.Equal(info.ModTime()) {
		return entry.data, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("script %s: %w", fileName, err)
	}

	text, err := DecodeText(raw)
	if err != nil {
		return nil, fmt.Errorf("script %s: %w", fileName, err)
	}

	data, err := Parse(text, fileName)
	if err != nil {
		return nil, err
	}

	l.cache[fileName] = &cacheEntry{data: data, modTime: info.ModTime()}
	l.logger.Debug("Parsed script", "file", fileName, "codes", len(data.Codes), "labels", len(data.Labels))
	return data, nil
}

// Invalidate drops a single cache entry, or the whole cache when fileName
// is empty.
func (l *Loader) Invalidate(fileName string) {
	if fileName == "" {
		l.cache = make(map[string]*cacheEntry)
		return
	}
	delete(l.cache, fileName)
}

// DecodeText converts raw script file bytes to UTF-8. UTF-8 input (with
// or without a BOM) passes through; anything else is treated as GB18030.
// The loader and the validator share this so both see identical text.
func DecodeText(raw []byte) (string, error) {
	if len(raw) >= 3 && raw[0] == 0xEF && raw[1] == 0xBB && raw[2] == 0xBF {
		raw = raw[3:]
	}
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	decoded, err := simplifiedchinese.GB18030.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("decode GB18030: %w", err)
	}
	return string(decoded), nil
}
