package llm

import (
	"context"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"
)

// TextGenerator is the scoring-engine contract used by the analysis usecases.
type TextGenerator interface {
	GenerateJSON(ctx context.Context, systemPrompt string, userPayload string) (string, error)
}

// Transcriber converts a recorded audio clip into plain text.
type Transcriber interface {
	Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error)
}

type OpenAIClient struct {
	APIKey   string
	BaseURL  string
	Model    string
	STTModel string
	Language string
	client   *openai.Client
}

func NewOpenAIClient(apiKey, model, sttModel, baseURL, language string) *OpenAIClient {
	if model == "" {
		model = "gpt-4.1"
	}
	if sttModel == "" {
		sttModel = openai.Whisper1
	}
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if language == "" {
		language = "ko"
	}

	config := openai.DefaultConfig(apiKey)
	config.BaseURL = baseURL

	return &OpenAIClient{
		APIKey:   apiKey,
		Model:    model,
		STTModel: sttModel,
		BaseURL:  baseURL,
		Language: language,
		client:   openai.NewClientWithConfig(config),
	}
}

// GenerateJSON sends one system+user exchange and asks the model for a JSON
// object. The caller owns parsing; the raw content string is returned as-is.
func (c *OpenAIClient) GenerateJSON(ctx context.Context, systemPrompt string, userPayload string) (string, error) {
	if c.client == nil {
		return "", fmt.Errorf("client not initialized")
	}

	resp, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: c.Model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: systemPrompt,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: userPayload,
				},
			},
			Temperature: 0.1,
			TopP:        0.95,
			MaxTokens:   2048 * 4,
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
		},
	)
	if err != nil {
		return "", fmt.Errorf("openai generate error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}

	text := resp.Choices[0].Message.Content
	if text == "" {
		return "", fmt.Errorf("openai returned empty response")
	}

	return text, nil
}

// Prepare is the cold-start handshake of the transcription engine. The remote
// side holds no per-utterance state, so this only verifies the client is
// usable before the recorder transitions out of idle.
func (c *OpenAIClient) Prepare(ctx context.Context) error {
	if c.client == nil {
		return fmt.Errorf("client not initialized")
	}
	if c.APIKey == "" {
		return fmt.Errorf("transcription engine has no api key")
	}
	return ctx.Err()
}

// Transcribe sends the buffered audio clip to Whisper and returns the
// recognized text. Empty text is a valid result, not an error.
func (c *OpenAIClient) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	if c.client == nil {
		return "", fmt.Errorf("client not initialized")
	}

	resp, err := c.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.STTModel,
		FilePath: filename,
		Reader:   audio,
		Language: c.Language,
	})
	if err != nil {
		return "", fmt.Errorf("openai transcription error: %w", err)
	}

	return resp.Text, nil
}
