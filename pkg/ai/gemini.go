package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/johnquangdev/meeting-ai/pkg/config"
)

// GeminiClient is a minimal client for the Gemini generateContent API
type GeminiClient struct {
	apiKey  string
	baseURL string
	models  []string
	client  *http.Client
}

// NewGeminiClient creates a Gemini client using values from the provided
// config. Pass a nil config to fall back to environment variables.
func NewGeminiClient(cfg *config.GeminiConfig) *GeminiClient {
	var apiKey string
	if cfg != nil {
		apiKey = cfg.APIKey
	}
	if apiKey == "" {
		apiKey = os.Getenv("GOOGLE_API_KEY")
	}

	base := "https://generativelanguage.googleapis.com"
	if cfg != nil && cfg.BaseURL != "" {
		base = cfg.BaseURL
	}

	models := []string{"gemini-2.0-flash"}
	if cfg != nil && cfg.Model != "" {
		models = append([]string{cfg.Model}, cfg.FallbackModels...)
	}

	httpClient := &http.Client{Timeout: defaultClientTimeout}
	if cfg != nil && cfg.Timeout > 0 {
		httpClient.Timeout = cfg.Timeout
	}

	return &GeminiClient{
		apiKey:  apiKey,
		baseURL: strings.TrimSuffix(base, "/"),
		models:  models,
		client:  httpClient,
	}
}

// Name implements Generator.
func (c *GeminiClient) Name() string { return "gemini" }

// Models implements Generator.
func (c *GeminiClient) Models() []string { return c.models }

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig geminiGenConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate sends the prompt to Gemini and returns the candidate text.
// Failures come back as *ProviderError so the gateway can classify them.
func (c *GeminiClient) Generate(ctx context.Context, model, prompt string, maxTokens int) (string, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenConfig{
			Temperature:     0.3,
			MaxOutputTokens: maxTokens,
		},
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, model)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("x-goog-api-key", c.apiKey)
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

	var gr geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return "", &ProviderError{
			Provider: c.Name(), Model: model,
			Kind: FailureTransient, Message: fmt.Sprintf("invalid response body: %v", err),
		}
	}
	if len(gr.Candidates) == 0 {
		return "", &ProviderError{
			Provider: c.Name(), Model: model,
			Kind: FailureTransient, Message: "empty completion",
		}
	}

	var sb strings.Builder
	for _, p := range gr.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", &ProviderError{
			Provider: c.Name(), Model: model,
			Kind: FailureTransient, Message: "empty completion",
		}
	}
	return text, nil
}
