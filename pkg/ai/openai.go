package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/johnquangdev/meeting-ai/pkg/config"
)

// OpenAIClient is a minimal client for OpenAI chat completion calls
type OpenAIClient struct {
	apiKey  string
	baseURL string
	models  []string
	client  *http.Client
}

// NewOpenAIClient creates an OpenAI client using values from the provided
// config. Pass a nil config to fall back to environment variables.
func NewOpenAIClient(cfg *config.OpenAIConfig) *OpenAIClient {
	var apiKey string
	if cfg != nil {
		apiKey = cfg.APIKey
	}
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}

	base := "https://api.openai.com"
	if cfg != nil && cfg.BaseURL != "" {
		base = cfg.BaseURL
	}

	models := []string{"gpt-4o-mini"}
	if cfg != nil && cfg.Model != "" {
		models = append([]string{cfg.Model}, cfg.FallbackModels...)
	}

	httpClient := &http.Client{Timeout: defaultClientTimeout}
	if cfg != nil && cfg.Timeout > 0 {
		httpClient.Timeout = cfg.Timeout
	}

	return &OpenAIClient{
		apiKey:  apiKey,
		baseURL: strings.TrimSuffix(base, "/"),
		models:  models,
		client:  httpClient,
	}
}

// Name implements Generator.
func (c *OpenAIClient) Name() string { return "openai" }

// Models implements Generator.
func (c *OpenAIClient) Models() []string { return c.models }

// ChatRequest is the shape for chat completion requests
type ChatRequest struct {
	Model       string      `json:"model,omitempty"`
	Messages    interface{} `json:"messages,omitempty"`
	Temperature float64     `json:"temperature,omitempty"`
	MaxTokens   int         `json:"max_tokens,omitempty"`
}

// ChatResponse is a minimal response shape
type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate sends the prompt to OpenAI and returns the assistant content.
// Failures come back as *ProviderError so the gateway can classify them.
func (c *OpenAIClient) Generate(ctx context.Context, model, prompt string, maxTokens int) (string, error) {
	reqBody := ChatRequest{
		Model:       model,
		Messages:    []map[string]string{{"role": "user", "content": prompt}},
		Temperature: 0.3,
		MaxTokens:   maxTokens,
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	endpoint := c.baseURL + "/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &ProviderError{
			Provider: c.Name(), Model: model,
			Kind: FailureTransient, Message: err.Error(),
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", &ProviderError{
			Provider: c.Name(), Model: model,
			StatusCode: resp.StatusCode,
			Kind:       ClassifyStatus(resp.StatusCode),
			Message:    readErrorBody(resp.Body),
		}
	}

	var cr ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", &ProviderError{
			Provider: c.Name(), Model: model,
			Kind: FailureTransient, Message: fmt.Sprintf("invalid response body: %v", err),
		}
	}
	if len(cr.Choices) == 0 || strings.TrimSpace(cr.Choices[0].Message.Content) == "" {
		return "", &ProviderError{
			Provider: c.Name(), Model: model,
			Kind: FailureTransient, Message: "empty completion",
		}
	}
	return cr.Choices[0].Message.Content, nil
}

// readErrorBody returns a short snippet of an error response for diagnostics.
func readErrorBody(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, 512))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}
