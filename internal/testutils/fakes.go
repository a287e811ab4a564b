// Package testutils provides fakes for the domain interfaces.
package testutils

import (
	"context"
	"sync"

	"paperqa/internal/domain"
)

// FakeEmbedder returns vectors from a lookup table keyed by text.
// Texts missing from the table, or listed in Fail, are unavailable.
type FakeEmbedder struct {
	Vectors map[string][]float32
	Fail    map[string]bool

	mu    sync.Mutex
	Calls []EmbedCall
}

// EmbedCall records one Embed invocation.
type EmbedCall struct {
	Text string
	Role domain.Role
}

func (f *FakeEmbedder) Name() string { return "fake" }

func (f *FakeEmbedder) Embed(_ context.Context, text string, role domain.Role) ([]float32, error) {
	f.mu.Lock()
	f.Calls = append(f.Calls, EmbedCall{Text: text, Role: role})
	f.mu.Unlock()
	if f.Fail[text] {
		return nil, domain.ErrEmbeddingUnavailable
	}
	v, ok := f.Vectors[text]
	if !ok {
		return nil, domain.ErrEmbeddingUnavailable
	}
	return v, nil
}

// CallCount returns how many Embed calls were made with role.
func (f *FakeEmbedder) CallCount(role domain.Role) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.Calls {
		if c.Role == role {
			n++
		}
	}
	return n
}

// FakeGenerator returns Text or Err and records the prompts it saw.
type FakeGenerator struct {
	Text string
	Err  error

	mu      sync.Mutex
	Prompts []string
}

func (f *FakeGenerator) Name() string { return "fake" }

func (f *FakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.Prompts = append(f.Prompts, prompt)
	f.mu.Unlock()
	if f.Err != nil {
		return "", f.Err
	}
	return f.Text, nil
}

// PromptCount returns the number of Generate calls.
func (f *FakeGenerator) PromptCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Prompts)
}
