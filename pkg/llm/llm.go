// Package llm wraps the chat and embedding providers behind small interfaces
// so the chat service does not depend on a vendor SDK.
package llm

import (
	"context"
	"errors"
	"time"

	"github.com/pgvector/pgvector-go"

	"yoplan/pkg/metrics"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrEmptyResponse is returned when the provider answered without content.
var ErrEmptyResponse = errors.New("llm returned no content")

type Message struct {
	Role    string
	Content string
}

// ChatClient answers a conversation. history ends with the user turn being answered.
type ChatClient interface {
	Provider() string
	Complete(ctx context.Context, system string, history []Message) (string, error)
	// Stream calls onChunk for every content delta in order. Returning an
	// error from onChunk stops the stream.
	Stream(ctx context.Context, system string, history []Message, onChunk func(string) error) error
}

type Embedder interface {
	Embed(ctx context.Context, text string) (pgvector.Vector, error)
}

func observe(provider string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.LLMCalls.WithLabelValues(provider, status).Inc()
	metrics.LLMDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())
}
