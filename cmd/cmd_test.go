package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"phihelper/pkg/apperr"
	"phihelper/pkg/config"
	"phihelper/pkg/llm"
	"phihelper/pkg/prompt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeClient struct {
	reply    string
	err      error
	requests []llm.Request
}

func (f *fakeClient) Complete(_ context.Context, req llm.Request) (string, error) {
	f.requests = append(f.requests, req)
	return f.reply, f.err
}

type fakeLister struct {
	files []string
	err   error
}

func (f fakeLister) ListFiles(context.Context, string) ([]string, error) {
	return f.files, f.err
}

type harness struct {
	app    *app
	client *fakeClient
	repo   string
	out    bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{client: &fakeClient{reply: "model answer"}, repo: t.TempDir()}

	cfgPath := filepath.Join(t.TempDir(), "config.json")
	cfg := config.Default()
	cfg.APIKey = "sk-test"
	cfg.RepositoryPath = h.repo
	require.NoError(t, config.Save(cfgPath, cfg))

	h.app = newApp(zap.NewNop())
	h.app.configPath = cfgPath
	h.app.newClient = func(config.Config, *zap.Logger) (llm.Client, error) { return h.client, nil }
	return h
}

func (h *harness) write(t *testing.T, name, content string) {
	t.Helper()
	full := filepath.Join(h.repo, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func (h *harness) run(args ...string) error {
	root := newRootCmd(h.app)
	root.SetArgs(append(args, "--config", h.app.configPath))
	root.SetOut(&h.out)
	root.SetErr(&h.out)
	root.SetIn(strings.NewReader(""))
	return root.ExecuteContext(context.Background())
}

func TestAnalyze_EnumeratesAndFilters(t *testing.T) {
	h := newHarness(t)
	h.write(t, "src/planner.rs", "fn plan() {}")
	h.write(t, "src/memory.rs", "fn remember() {}")
	h.write(t, "node_modules/planner/index.js", "x")
	h.app.lister = fakeLister{files: []string{"src/planner.rs", "src/memory.rs", "node_modules/planner/index.js"}}

	require.NoError(t, h.run("analyze", "How does planning work?", "--filter", "planner"))

	assert.Contains(t, h.out.String(), "Analyzing 1 files with query: How does planning work?")
	assert.Contains(t, h.out.String(), "--- RESULT ---")
	assert.Contains(t, h.out.String(), "model answer")

	require.Len(t, h.client.requests, 1)
	req := h.client.requests[0]
	assert.Equal(t, prompt.System, req.System)
	assert.Equal(t, "phi-3", req.Model)
	assert.Contains(t, req.User, "Query: How does planning work?")
	assert.Contains(t, req.User, "--- src/planner.rs ---\nfn plan() {}\n")
	assert.NotContains(t, req.User, "memory.rs")
	assert.NotContains(t, req.User, "node_modules")
}

func TestAnalyze_ListingFailureStillAsks(t *testing.T) {
	h := newHarness(t)
	h.app.lister = fakeLister{err: errors.New("not a git repository")}

	require.NoError(t, h.run("analyze", "anything?"))

	assert.Contains(t, h.out.String(), "Analyzing 0 files")
	require.Len(t, h.client.requests, 1)
	assert.Equal(t, "Query: anything?\n\nCode files:\n", h.client.requests[0].User)
}

func TestAnalyze_ExplicitFilesRelativeToRepoPath(t *testing.T) {
	h := newHarness(t)
	h.write(t, "a.rs", "A")
	h.app.lister = fakeLister{err: errors.New("must not be called")}

	require.NoError(t, h.run("analyze", "q", "--files", "a.rs,missing.rs", "--repo-path", h.repo))

	assert.Contains(t, h.out.String(), "Analyzing 2 files")
	require.Len(t, h.client.requests, 1)
	assert.Contains(t, h.client.requests[0].User, "--- a.rs ---\nA\n")
	assert.NotContains(t, h.client.requests[0].User, "missing.rs")
}

func TestAnalyze_BudgetFlag(t *testing.T) {
	h := newHarness(t)
	h.write(t, "a.rs", strings.Repeat("a", 60))
	h.write(t, "b.rs", strings.Repeat("b", 60))
	h.app.lister = fakeLister{files: []string{"a.rs", "b.rs"}}

	require.NoError(t, h.run("analyze", "q", "--budget", "100"))

	user := h.client.requests[0].User
	assert.Contains(t, user, "--- a.rs ---")
	assert.NotContains(t, user, "--- b.rs ---")
}

func TestAnalyze_APIErrorIsPrintedNotReturned(t *testing.T) {
	h := newHarness(t)
	h.app.lister = fakeLister{}
	h.client.err = errors.New("connection refused")

	require.NoError(t, h.run("analyze", "q"))

	assert.Contains(t, h.out.String(), "Error calling API: connection refused")
}

func TestDocs_WritesOutputFile(t *testing.T) {
	h := newHarness(t)
	h.write(t, "lib.rs", "pub fn f() {}")
	output := filepath.Join(t.TempDir(), "DOCS.md")
	require.NoError(t, os.WriteFile(output, []byte("old content that is longer"), 0o644))

	require.NoError(t, h.run("docs", "--files", "lib.rs", "--repo-path", h.repo, "--output", output))

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "model answer", string(data))
	assert.Contains(t, h.out.String(), "Documentation written to "+output)
	assert.Contains(t, h.client.requests[0].User, "Query: "+prompt.DocsQuery)
}

func TestDocs_PrintsWithoutOutput(t *testing.T) {
	h := newHarness(t)
	h.write(t, "lib.rs", "pub fn f() {}")

	require.NoError(t, h.run("docs", "--files", "lib.rs", "--repo-path", h.repo))

	assert.Contains(t, h.out.String(), "Generating documentation for 1 files")
	assert.Contains(t, h.out.String(), "--- DOCUMENTATION ---")
}

func TestDocs_RequiresFiles(t *testing.T) {
	h := newHarness(t)

	err := h.run("docs")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one file")
	assert.Empty(t, h.client.requests)
}

func TestSuggest(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(h.repo, "main.rs")
	require.NoError(t, os.WriteFile(path, []byte("fn main() {}"), 0o644))

	require.NoError(t, h.run("suggest", "--files", path))

	assert.Contains(t, h.out.String(), "Analyzing 1 files for suggestions")
	assert.Contains(t, h.out.String(), "--- SUGGESTIONS ---")
	assert.Contains(t, h.client.requests[0].User, "Query: "+prompt.SuggestQuery)
}

func TestSuggest_FilesFlagRequired(t *testing.T) {
	h := newHarness(t)

	err := h.run("suggest")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "files")
}

func TestMissingConfigIsFatal(t *testing.T) {
	h := newHarness(t)
	h.app.configPath = filepath.Join(t.TempDir(), "new", "config.json")

	err := h.run("analyze", "q")
	require.Error(t, err)
	assert.True(t, apperr.IsFatal(err))
	assert.FileExists(t, h.app.configPath)
	assert.Empty(t, h.client.requests)
}

func TestInvalidConfigIsFatal(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, config.Save(h.app.configPath, config.Default()))

	err := h.run("suggest", "--files", "x.rs")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindConfig))
}

func TestSetup_SavesEditedConfig(t *testing.T) {
	h := newHarness(t)
	h.app.configPath = filepath.Join(t.TempDir(), "config.json")

	root := newRootCmd(h.app)
	root.SetArgs([]string{"setup", "--config", h.app.configPath})
	root.SetOut(&h.out)
	root.SetIn(strings.NewReader("openai\nsk-new-key\ngpt-4o\n0.1\n1000\n/work/repo\n"))
	require.NoError(t, root.Execute())

	cfg, err := config.Load(h.app.configPath)
	require.NoError(t, err)
	assert.Equal(t, "sk-new-key", cfg.APIKey)
	assert.Equal(t, "gpt-4o", cfg.Model)
	assert.Equal(t, 0.1, cfg.Temperature)
	assert.Equal(t, 1000, cfg.MaxTokens)
	assert.Equal(t, "/work/repo", cfg.RepositoryPath)
	assert.Contains(t, h.out.String(), "Configuration saved to "+h.app.configPath)
}

func TestSetup_MasksExistingKey(t *testing.T) {
	h := newHarness(t)

	root := newRootCmd(h.app)
	root.SetArgs([]string{"setup", "--config", h.app.configPath})
	root.SetOut(&h.out)
	root.SetIn(strings.NewReader(""))
	require.NoError(t, root.Execute())

	assert.NotContains(t, h.out.String(), "sk-test")
	assert.Contains(t, h.out.String(), "sk-t...")
}

func TestVersion(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run("version", "--short"))
	assert.Equal(t, "dev\n", h.out.String())

	h.out.Reset()
	require.NoError(t, h.run("version"))
	assert.Contains(t, h.out.String(), "azure api-version 2023-12-01-preview")
}

func TestTokenCounter_CachedAndBounded(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	first := h.app.tokenCounter(ctx)
	require.NotNil(t, first)
	assert.False(t, first.Exact())
	assert.Same(t, first, h.app.tokenCounter(context.Background()))
}

func TestRepoRoot(t *testing.T) {
	assert.Equal(t, "/flag", repoRoot("/flag", config.Config{RepositoryPath: "/cfg"}))
	assert.Equal(t, "/cfg", repoRoot("", config.Config{RepositoryPath: "/cfg"}))

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, wd, repoRoot("", config.Config{}))
}
