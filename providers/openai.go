package providers

import (
	"context"
	"errors"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAICompatClient targets any OpenAI-compatible server (LM-Studio,
// vLLM, text-generation-webui) at a caller-supplied base URL.
type OpenAICompatClient struct {
	client *openai.Client
}

// NewOpenAICompatClient creates a client for the given base URL, which
// must include the /v1 suffix (e.g. http://localhost:1234/v1). apiKey
// may be empty for local servers that skip auth.
func NewOpenAICompatClient(baseURL, apiKey string) *OpenAICompatClient {
	if apiKey == "" {
		apiKey = "not-needed"
	}
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = strings.TrimSuffix(baseURL, "/")
	return &OpenAICompatClient{client: openai.NewClientWithConfig(cfg)}
}

func (c *OpenAICompatClient) Source() Source { return SourceOpenAICompatible }

// ListModels queries the server's /models endpoint.
func (c *OpenAICompatClient) ListModels(ctx context.Context) ([]string, error) {
	list, err := c.client.ListModels(ctx)
	if err != nil {
		return nil, wrapTransportErr(err)
	}
	models := make([]string, 0, len(list.Models))
	for _, m := range list.Models {
		models = append(models, m.ID)
	}
	return models, nil
}

// Generate runs one chat completion. Token counts come from the usage
// block when the server reports one.
func (c *OpenAICompatClient) Generate(ctx context.Context, model, prompt string) (GenerateResult, error) {
	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return GenerateResult{}, wrapTransportErr(err)
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return GenerateResult{}, &GenerationError{Model: model, Message: "generation timed out"}
		}
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return GenerateResult{}, &GenerationError{Model: model, Message: apiErr.Message}
		}
		return GenerateResult{}, wrapTransportErr(err)
	}

	if len(resp.Choices) == 0 {
		return GenerateResult{}, &GenerationError{Model: model, Message: "server returned no choices"}
	}

	return GenerateResult{
		Response:        resp.Choices[0].Message.Content,
		TokensGenerated: resp.Usage.CompletionTokens,
		DurationSeconds: time.Since(start).Seconds(),
	}, nil
}
