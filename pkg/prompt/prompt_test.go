package prompt

import (
	"testing"

	"phihelper/pkg/pack"

	"github.com/stretchr/testify/assert"
)

func TestUser(t *testing.T) {
	packed := pack.Result{Entries: []pack.Entry{
		{Path: "src/lib.rs", Content: "pub mod a;"},
		{Path: "src/a.rs", Content: "fn a() {}" + pack.TruncationMarker, Truncated: true},
	}}

	got := User("What does a do?", packed)

	want := "Query: What does a do?\n\nCode files:\n" +
		"\n--- src/lib.rs ---\npub mod a;\n" +
		"\n--- src/a.rs ---\nfn a() {}\n... [truncated]\n"
	assert.Equal(t, want, got)
}

func TestUser_NoFiles(t *testing.T) {
	assert.Equal(t, "Query: q\n\nCode files:\n", User("q", pack.Result{}))
}

func TestCannedQueries(t *testing.T) {
	assert.Contains(t, DocsQuery, "Format as Markdown.")
	assert.Contains(t, SuggestQuery, "Potential bugs or edge cases")
	assert.Contains(t, System, "helpful AI coding assistant")
}
