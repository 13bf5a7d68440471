// Package tokens estimates how many model tokens a prompt will use.
package tokens

import (
	"context"
	"fmt"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

// Encoding is the BPE encoding used for estimates.
const Encoding = "cl100k_base"

// charsPerToken is the fallback ratio when no encoding is available.
const charsPerToken = 4

// Counter counts tokens. The zero value falls back to a character heuristic.
type Counter struct {
	enc *tiktoken.Tiktoken
}

// NewCounter loads the cl100k_base encoding. tiktoken may need to fetch the
// encoding on first use, so callers that cannot tolerate that should use the zero Counter.
func NewCounter() (*Counter, error) {
	enc, err := tiktoken.GetEncoding(Encoding)
	if err != nil {
		return &Counter{}, fmt.Errorf("failed to load %s encoding: %w", Encoding, err)
	}
	return &Counter{enc: enc}, nil
}

// NewCounterContext is NewCounter bounded by ctx. When ctx ends first the
// heuristic Counter is returned and the load finishes in the background.
func NewCounterContext(ctx context.Context) (*Counter, error) {
	if err := ctx.Err(); err != nil {
		return &Counter{}, fmt.Errorf("failed to load %s encoding: %w", Encoding, err)
	}

	type loaded struct {
		counter *Counter
		err     error
	}
	done := make(chan loaded, 1)
	go func() {
		c, err := NewCounter()
		done <- loaded{c, err}
	}()

	select {
	case l := <-done:
		return l.counter, l.err
	case <-ctx.Done():
		return &Counter{}, fmt.Errorf("failed to load %s encoding: %w", Encoding, ctx.Err())
	}
}

// Count returns the token count of text.
func (c *Counter) Count(text string) int {
	if c == nil || c.enc == nil {
		return (len([]rune(text)) + charsPerToken - 1) / charsPerToken
	}
	return len(c.enc.Encode(text, nil, nil))
}

// Exact reports whether Count uses a real encoding.
func (c *Counter) Exact() bool {
	return c != nil && c.enc != nil
}
