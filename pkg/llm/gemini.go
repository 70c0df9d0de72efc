package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

const DefaultGeminiModel = "gemini-1.5-flash"

type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if model == "" {
		model = DefaultGeminiModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{client: client, model: model}, nil
}

func (c *GeminiClient) Provider() string { return "gemini" }

func (c *GeminiClient) Close() error { return c.client.Close() }

// session prepares a chat whose history is everything but the last turn,
// which is returned separately as the message to send.
func (c *GeminiClient) session(system string, history []Message) (*genai.ChatSession, genai.Text, error) {
	if len(history) == 0 {
		return nil, "", errors.New("gemini: empty conversation")
	}
	m := c.client.GenerativeModel(c.model)
	m.SetTemperature(chatTemperature)
	m.SetMaxOutputTokens(chatMaxTokens)
	if system != "" {
		m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}

	cs := m.StartChat()
	for _, msg := range history[:len(history)-1] {
		role := "user"
		if msg.Role == RoleAssistant {
			role = "model"
		}
		cs.History = append(cs.History, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(msg.Content)}})
	}
	return cs, genai.Text(history[len(history)-1].Content), nil
}

func (c *GeminiClient) Complete(ctx context.Context, system string, history []Message) (reply string, err error) {
	defer func(start time.Time) { observe(c.Provider(), start, err) }(time.Now())

	cs, msg, err := c.session(system, history)
	if err != nil {
		return "", err
	}
	resp, err := cs.SendMessage(ctx, msg)
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	text := responseText(resp)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func (c *GeminiClient) Stream(ctx context.Context, system string, history []Message, onChunk func(string) error) (err error) {
	defer func(start time.Time) { observe(c.Provider(), start, err) }(time.Now())

	cs, msg, err := c.session(system, history)
	if err != nil {
		return err
	}
	iter := cs.SendMessageStream(ctx, msg)
	for {
		resp, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("gemini stream: %w", err)
		}
		if text := responseText(resp); text != "" {
			if err := onChunk(text); err != nil {
				return err
			}
		}
	}
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String()
}
