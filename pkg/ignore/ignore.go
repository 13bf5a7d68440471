// Package ignore matches repository paths against gitignore-style patterns
// read from a .phiignore file.
package ignore

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// FileName is the per-repository ignore file looked up in the repository root.
const FileName = ".phiignore"

// Pattern is one compiled line of an ignore file.
type Pattern struct {
	Regexp *regexp.Regexp // Compiled expression matched against slash-separated paths.
	Negate bool           // Line started with '!'.
	Line   string         // Original pattern line.
	LineNo int            // Line number in the source (1-based).
}

// Matcher is an ordered set of patterns. Later patterns override earlier ones.
type Matcher struct {
	patterns []*Pattern
	logger   *zap.Logger
}

// New creates an empty Matcher.
func New(logger *zap.Logger) *Matcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Matcher{logger: logger}
}

// Load reads root/.phiignore. A missing file yields an empty Matcher.
func Load(root string, logger *zap.Logger) (*Matcher, error) {
	m := New(logger)
	path := filepath.Join(root, FileName)
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			m.logger.Debug("No ignore file found", zap.String("filePath", path))
			return m, nil
		}
		return nil, err
	}

	m.Compile(strings.Split(string(content), "\n")...)
	m.logger.Debug("Compiled ignore file", zap.String("filePath", path), zap.Int("patternCount", m.Len()))
	return m, nil
}

// Compile adds pattern lines. Blank lines and comments are skipped.
func (m *Matcher) Compile(lines ...string) {
	for i, line := range lines {
		re, negate, ok := parseLine(line)
		if !ok {
			continue
		}
		m.patterns = append(m.patterns, &Pattern{
			Regexp: re,
			Negate: negate,
			Line:   line,
			LineNo: i + 1,
		})
	}
}

// Len returns the number of compiled patterns.
func (m *Matcher) Len() int {
	if m == nil {
		return 0
	}
	return len(m.patterns)
}

// Match reports whether path is ignored. A nil Matcher ignores nothing.
func (m *Matcher) Match(path string) bool {
	if m == nil {
		return false
	}
	path = filepath.ToSlash(path)

	matched := false
	for _, p := range m.patterns {
		if p.Regexp.MatchString(path) {
			matched = !p.Negate
		}
	}
	return matched
}

// parseLine turns one ignore line into an anchored expression.
func parseLine(line string) (*regexp.Regexp, bool, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return nil, false, false
	}

	negate := false
	if strings.HasPrefix(trimmed, "!") {
		negate = true
		trimmed = trimmed[1:]
	}
	if strings.HasPrefix(trimmed, `\#`) || strings.HasPrefix(trimmed, `\!`) {
		trimmed = trimmed[1:]
	}

	rooted := strings.HasPrefix(trimmed, "/")
	trimmed = strings.TrimPrefix(trimmed, "/")
	dirOnly := strings.HasSuffix(trimmed, "/")
	trimmed = strings.TrimSuffix(trimmed, "/")
	if trimmed == "" {
		return nil, false, false
	}

	var expr strings.Builder
	if rooted || strings.Contains(trimmed, "/") {
		expr.WriteString("^")
	} else {
		expr.WriteString("^(?:.*/)?")
	}
	expr.WriteString(globToRegex(trimmed))
	if dirOnly {
		expr.WriteString("/.*$")
	} else {
		expr.WriteString("(?:/.*)?$")
	}

	re, err := regexp.Compile(expr.String())
	if err != nil {
		return nil, false, false
	}
	return re, negate, true
}

// globToRegex converts '*', '**' and '?' wildcards and quotes everything else.
func globToRegex(glob string) string {
	var b strings.Builder
	for i := 0; i < len(glob); i++ {
		c := glob[i]
		switch {
		case c == '*' && i+1 < len(glob) && glob[i+1] == '*':
			i++
			if i+1 < len(glob) && glob[i+1] == '/' {
				i++
				b.WriteString("(?:.*/)?")
			} else {
				b.WriteString(".*")
			}
		case c == '*':
			b.WriteString("[^/]*")
		case c == '?':
			b.WriteString("[^/]")
		default:
			// Wildcards are ASCII, so scanning bytes never splits a multi-byte rune.
			j := i + 1
			for j < len(glob) && glob[j] != '*' && glob[j] != '?' {
				j++
			}
			b.WriteString(regexp.QuoteMeta(glob[i:j]))
			i = j - 1
		}
	}
	return b.String()
}
