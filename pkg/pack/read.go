package pack

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"phihelper/pkg/apperr"

	"go.uber.org/zap"
)

var errNotUTF8 = errors.New("content is not valid UTF-8")

// readContent returns the whole file, or the inline error text when it cannot be read.
func readContent(fullPath, displayPath string, logger *zap.Logger) string {
	data, err := os.ReadFile(fullPath)
	if err == nil && !utf8.Valid(data) {
		err = errNotUTF8
	}
	if err != nil {
		readErr := apperr.FileRead(displayPath, err)
		logger.Warn("Failed to read file", zap.String("file", displayPath), zap.Error(readErr))
		return readErr.Error()
	}
	return string(data)
}

// readLines returns at most n lines of the file with their line endings.
// A file shorter than n lines yields whatever lines it has.
func readLines(fullPath, displayPath string, n int, logger *zap.Logger) string {
	f, err := os.Open(fullPath)
	if err != nil {
		readErr := apperr.FileRead(displayPath, err)
		logger.Warn("Failed to open file for truncated read", zap.String("file", displayPath), zap.Error(readErr))
		return readErr.Error()
	}
	defer f.Close()

	var b strings.Builder
	r := bufio.NewReader(f)
	for i := 0; i < n; i++ {
		line, err := r.ReadString('\n')
		b.WriteString(line)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				logger.Warn("Truncated read stopped early",
					zap.String("file", displayPath),
					zap.Int("linesRead", i),
					zap.Error(err))
			}
			break
		}
	}

	out := b.String()
	if !utf8.ValidString(out) {
		return strings.ToValidUTF8(out, "�")
	}
	return out
}
