package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/pgvector/pgvector-go"
	openai "github.com/sashabaranov/go-openai"
)

const (
	DefaultOpenAIModel    = openai.GPT4oMini
	DefaultEmbeddingModel = openai.SmallEmbedding3
	chatTemperature       = 0.7
	chatMaxTokens         = 1000
)

type OpenAIClient struct {
	client         *openai.Client
	model          string
	embeddingModel openai.EmbeddingModel
}

// NewOpenAIClient builds a client. baseURL is only set in tests and for
// compatible gateways.
func NewOpenAIClient(apiKey, model, embeddingModel, baseURL string) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = DefaultOpenAIModel
	}
	em := openai.EmbeddingModel(embeddingModel)
	if embeddingModel == "" {
		em = DefaultEmbeddingModel
	}
	return &OpenAIClient{
		client:         openai.NewClientWithConfig(cfg),
		model:          model,
		embeddingModel: em,
	}
}

func (c *OpenAIClient) Provider() string { return "openai" }

func (c *OpenAIClient) request(system string, history []Message) openai.ChatCompletionRequest {
	msgs := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	if system != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: system})
	}
	for _, m := range history {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		msgs = append(msgs, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    msgs,
		Temperature: chatTemperature,
		MaxTokens:   chatMaxTokens,
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, system string, history []Message) (reply string, err error) {
	defer func(start time.Time) { observe(c.Provider(), start, err) }(time.Now())

	resp, err := c.client.CreateChatCompletion(ctx, c.request(system, history))
	if err != nil {
		return "", fmt.Errorf("openai chat: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *OpenAIClient) Stream(ctx context.Context, system string, history []Message, onChunk func(string) error) (err error) {
	defer func(start time.Time) { observe(c.Provider(), start, err) }(time.Now())

	req := c.request(system, history)
	req.Stream = true
	stream, err := c.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return fmt.Errorf("openai stream: %w", err)
	}
	defer stream.Close()

	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("openai stream: %w", err)
		}
		if len(resp.Choices) == 0 {
			continue
		}
		if delta := resp.Choices[0].Delta.Content; delta != "" {
			if err := onChunk(delta); err != nil {
				return err
			}
		}
	}
}

func (c *OpenAIClient) Embed(ctx context.Context, text string) (pgvector.Vector, error) {
	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: c.embeddingModel,
	})
	if err != nil {
		return pgvector.Vector{}, fmt.Errorf("openai embedding: %w", err)
	}
	if len(resp.Data) == 0 {
		return pgvector.Vector{}, ErrEmptyResponse
	}
	return pgvector.NewVector(resp.Data[0].Embedding), nil
}
