// Package pack fits file contents into a fixed character budget for one outbound request.
//
// Files are considered in the given order. Each one is included whole, included as a
// line-limited prefix with a truncation marker, or skipped. The budget is a hard
// ceiling on the summed length of everything included, counted in characters
// (runes), and nothing in this package returns an error: unreadable files are
// carried as inline error text instead.
package pack

import (
	"os"
	"path/filepath"
	"unicode/utf8"

	"go.uber.org/zap"
)

const (
	// DefaultBudget is the character budget used when none is configured.
	DefaultBudget = 100000
	// MinChunk is the smallest remaining budget worth a truncated entry.
	MinChunk = 1000
	// CharsPerLine estimates line length when converting remaining budget into a line count.
	CharsPerLine = 80
	// TruncationMarker is appended to every truncated entry.
	TruncationMarker = "\n... [truncated]"
)

// Entry is one packed file.
type Entry struct {
	Path      string // Path as given by the caller.
	Content   string // Full content, truncated prefix plus marker, or inline error text.
	Truncated bool
}

// Result is the packed content of one request, in packing order.
type Result struct {
	Entries []Entry
	Total   int // Cumulative character count charged against the budget.
}

// Paths returns the packed paths in order.
func (r Result) Paths() []string {
	paths := make([]string, len(r.Entries))
	for i, e := range r.Entries {
		paths[i] = e.Path
	}
	return paths
}

// Packer holds the settings for packing. It keeps no state between calls.
type Packer struct {
	root   string
	budget int
	logger *zap.Logger
}

// New creates a Packer. Relative paths are resolved against root (the working
// directory when root is empty). A non-positive budget means DefaultBudget.
func New(root string, budget int, logger *zap.Logger) *Packer {
	if budget <= 0 {
		budget = DefaultBudget
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Packer{root: root, budget: budget, logger: logger}
}

// Budget returns the character budget.
func (p *Packer) Budget() int {
	return p.budget
}

// Pack folds files into a Result.
func (p *Packer) Pack(files []string) Result {
	var res Result

	for i, path := range files {
		// Total never exceeds the budget, so reaching it means exhausted: nothing more is added.
		if res.Total >= p.budget {
			p.logger.Debug("Budget exhausted, dropping remaining files",
				zap.Int("dropped", len(files)-i),
				zap.Int("budget", p.budget))
			break
		}

		full := p.resolve(path)
		info, err := os.Stat(full)
		if err != nil || info.IsDir() {
			p.logger.Debug("Skipping missing path or directory", zap.String("file", path))
			continue
		}

		content := readContent(full, path, p.logger)
		size := utf8.RuneCountInString(content)
		if res.Total+size <= p.budget {
			res.Entries = append(res.Entries, Entry{Path: path, Content: content})
			res.Total += size
			continue
		}

		remaining := p.budget - res.Total
		if remaining <= MinChunk {
			p.logger.Debug("Skipping file, remaining budget too small",
				zap.String("file", path),
				zap.Int("sizeChars", size),
				zap.Int("remaining", remaining))
			continue
		}

		lines := remaining / CharsPerLine
		prefix := readLines(full, path, lines, p.logger)
		res.Entries = append(res.Entries, Entry{
			Path:      path,
			Content:   clip(prefix, remaining-utf8.RuneCountInString(TruncationMarker)) + TruncationMarker,
			Truncated: true,
		})
		res.Total = p.budget
		p.logger.Debug("Included truncated file",
			zap.String("file", path),
			zap.Int("sizeChars", size),
			zap.Int("lines", lines))
	}

	p.logger.Debug("Packed files",
		zap.Int("candidates", len(files)),
		zap.Int("packed", len(res.Entries)),
		zap.Int("totalChars", res.Total))
	return res
}

func (p *Packer) resolve(path string) string {
	if p.root == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.root, path)
}

// clip cuts s to at most n runes. The line-count estimate can overshoot the
// remaining budget on files with long lines.
func clip(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
