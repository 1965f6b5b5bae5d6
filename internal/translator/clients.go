package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const maxTokens = 512

// Default API endpoints. Tests point clients at an httptest server instead.
const (
	AnthropicBaseURL = "https://api.anthropic.com"
	OpenAIBaseURL    = "https://api.openai.com"
	GroqBaseURL      = "https://api.groq.com/openai"
	GeminiBaseURL    = "https://generativelanguage.googleapis.com"

	anthropicVersion = "2023-06-01"
)

// Completer sends one system prompt and user text to a model and returns its reply.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, text string) (string, error)
}

var defaultHTTPClient = &http.Client{Timeout: 60 * time.Second}

// NewClient builds the API client for a registry provider.
func NewClient(p Provider, apiKey string) (Completer, error) {
	switch p.Key {
	case "anthropic":
		return &AnthropicClient{APIKey: apiKey, Model: p.Model, BaseURL: AnthropicBaseURL}, nil
	case "openai":
		return &ChatClient{APIKey: apiKey, Model: p.Model, BaseURL: OpenAIBaseURL, Label: "OpenAI"}, nil
	case "groq":
		// Groq speaks the OpenAI chat completions protocol.
		return &ChatClient{APIKey: apiKey, Model: p.Model, BaseURL: GroqBaseURL, Label: "Groq"}, nil
	case "google":
		return &GeminiClient{APIKey: apiKey, Model: p.Model, BaseURL: GeminiBaseURL}, nil
	default:
		return nil, fmt.Errorf("unknown provider %q", p.Key)
	}
}

// ChatMessage is one message in the OpenAI and Anthropic chat formats.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// AnthropicClient calls the Anthropic messages API.
type AnthropicClient struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

type anthropicRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	System    string        `json:"system"`
	Messages  []ChatMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Complete implements Completer.
func (c *AnthropicClient) Complete(ctx context.Context, systemPrompt, text string) (string, error) {
	if c.APIKey == "" {
		return "", fmt.Errorf("Anthropic API key not configured")
	}

	reqBody := anthropicRequest{
		Model:     c.Model,
		MaxTokens: maxTokens,
		System:    systemPrompt,
		Messages:  []ChatMessage{{Role: "user", Content: text}},
	}
	headers := map[string]string{
		"x-api-key":         c.APIKey,
		"anthropic-version": anthropicVersion,
	}

	var resp anthropicResponse
	if err := postJSON(ctx, c.HTTPClient, "Anthropic", c.BaseURL+"/v1/messages", headers, reqBody, &resp); err != nil {
		return "", err
	}

	for _, block := range resp.Content {
		if block.Type == "text" || block.Type == "" {
			return strings.TrimSpace(block.Text), nil
		}
	}
	return "", fmt.Errorf("no response from Anthropic")
}

// ChatClient calls an OpenAI-compatible chat completions API.
type ChatClient struct {
	APIKey     string
	Model      string
	BaseURL    string
	Label      string
	HTTPClient *http.Client
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []ChatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message ChatMessage `json:"message"`
	} `json:"choices"`
}

// Complete implements Completer.
func (c *ChatClient) Complete(ctx context.Context, systemPrompt, text string) (string, error) {
	if c.APIKey == "" {
		return "", fmt.Errorf("%s API key not configured", c.Label)
	}

	reqBody := chatRequest{
		Model: c.Model,
		Messages: []ChatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: text},
		},
		MaxTokens: maxTokens,
	}
	headers := map[string]string{"Authorization": "Bearer " + c.APIKey}

	var resp chatResponse
	if err := postJSON(ctx, c.HTTPClient, c.Label, c.BaseURL+"/v1/chat/completions", headers, reqBody, &resp); err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from %s", c.Label)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// GeminiClient calls the Google generateContent API.
type GeminiClient struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig struct {
		MaxOutputTokens int `json:"maxOutputTokens"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Complete implements Completer. Gemini takes the instruction inline with the text.
func (c *GeminiClient) Complete(ctx context.Context, systemPrompt, text string) (string, error) {
	if c.APIKey == "" {
		return "", fmt.Errorf("Google API key not configured")
	}

	prompt := systemPrompt + "\n\nText to translate:\n" + text
	var reqBody geminiRequest
	reqBody.Contents = []geminiContent{{Parts: []geminiPart{{Text: prompt}}}}
	reqBody.GenerationConfig.MaxOutputTokens = maxTokens

	// The key travels in a header so transport errors, which quote the URL, never carry it.
	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.BaseURL, url.PathEscape(c.Model))
	headers := map[string]string{"x-goog-api-key": c.APIKey}

	var resp geminiResponse
	if err := postJSON(ctx, c.HTTPClient, "Gemini", endpoint, headers, reqBody, &resp); err != nil {
		return "", err
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from Gemini")
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return strings.TrimSpace(sb.String()), nil
}

func postJSON(ctx context.Context, client *http.Client, label, endpoint string, headers map[string]string, in, out interface{}) error {
	if client == nil {
		client = defaultHTTPClient
	}

	jsonData, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s API: %w", label, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s API error (status %d): %s", label, resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
