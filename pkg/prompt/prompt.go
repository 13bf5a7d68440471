// Package prompt holds the fixed prompt texts and assembles the user message.
package prompt

import (
	"strings"

	"phihelper/pkg/pack"
)

// System is the system message sent with every request.
const System = `
You are Phi-3, a helpful AI coding assistant working with a Rust codebase for WasmAgentTrainer project.
Analyze the provided code files and answer the query concisely and accurately.
The project involves WebAssembly agent training and execution in a Rust environment.

When providing code examples, use idiomatic Rust when applicable.
Keep explanations clear, focused, and technically precise.
`

// DocsQuery is the query used by the docs command.
const DocsQuery = "Generate comprehensive documentation for these files. Include:\n" +
	"1. Overall purpose of each module/file\n" +
	"2. Main functions and their behavior\n" +
	"3. Data structures and their fields\n" +
	"4. Any important patterns or design decisions\n" +
	"Format as Markdown."

// SuggestQuery is the query used by the suggest command.
const SuggestQuery = "Suggest improvements for this code. Look for:\n" +
	"1. Potential bugs or edge cases\n" +
	"2. Performance optimizations\n" +
	"3. Better Rust idioms or patterns\n" +
	"4. Improved error handling\n" +
	"Provide specific code examples where possible."

// User builds the user message: the query followed by every packed file under a path header.
func User(query string, packed pack.Result) string {
	var b strings.Builder
	b.WriteString("Query: ")
	b.WriteString(query)
	b.WriteString("\n\nCode files:\n")
	for _, e := range packed.Entries {
		b.WriteString("\n--- ")
		b.WriteString(e.Path)
		b.WriteString(" ---\n")
		b.WriteString(e.Content)
		b.WriteString("\n")
	}
	return b.String()
}
