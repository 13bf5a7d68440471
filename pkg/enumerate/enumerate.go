// Package enumerate lists the tracked files of a repository that are candidates for packing.
package enumerate

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"phihelper/pkg/apperr"
	"phihelper/pkg/ignore"

	"go.uber.org/zap"
)

// Lister lists tracked files under a repository root, one repository-relative path per entry.
type Lister interface {
	ListFiles(ctx context.Context, root string) ([]string, error)
}

// GitLister lists files with `git ls-files`.
type GitLister struct{}

// ListFiles runs `git ls-files` in root and splits its output into lines.
// Quoting is turned off so non-ASCII paths come back verbatim.
func (GitLister) ListFiles(ctx context.Context, root string) ([]string, error) {
	cmd := exec.CommandContext(ctx, "git", "-c", "core.quotePath=false", "ls-files")
	cmd.Dir = root
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}

	var files []string
	for _, line := range strings.Split(string(out), "\n") {
		if line = strings.TrimRight(line, "\r"); line != "" {
			files = append(files, line)
		}
	}
	return files, nil
}

// Options controls a single enumeration.
type Options struct {
	Root   string          // Repository root.
	Rules  Rules           // Exclusion rules; use DefaultRules() for the built-in set.
	Ignore *ignore.Matcher // Optional .phiignore patterns; nil ignores nothing.
	Filter string          // Keep only paths containing this substring; empty keeps all.
}

// Enumerator produces the ordered candidate file list.
type Enumerator struct {
	lister Lister
	logger *zap.Logger
}

// New creates an Enumerator. A nil lister defaults to GitLister.
func New(lister Lister, logger *zap.Logger) *Enumerator {
	if lister == nil {
		lister = GitLister{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enumerator{lister: lister, logger: logger}
}

// Files returns the tracked files under opts.Root in listing order, minus
// excluded paths, narrowed by opts.Filter. A listing failure is logged and
// yields an empty list.
func (e *Enumerator) Files(ctx context.Context, opts Options) []string {
	all, err := e.lister.ListFiles(ctx, opts.Root)
	if err != nil {
		e.logger.Error("Failed to list repository files",
			zap.String("root", opts.Root),
			zap.Error(apperr.Enumeration("git ls-files failed", err)))
		return []string{}
	}

	files := make([]string, 0, len(all))
	for _, f := range all {
		if opts.Rules.Excludes(f) || opts.Ignore.Match(f) {
			continue
		}
		if opts.Filter != "" && !strings.Contains(f, opts.Filter) {
			continue
		}
		files = append(files, f)
	}

	e.logger.Debug("Enumerated repository files",
		zap.String("root", opts.Root),
		zap.Int("listed", len(all)),
		zap.Int("kept", len(files)),
		zap.String("filter", opts.Filter))
	return files
}
