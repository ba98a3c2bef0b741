package interpreter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/ayusman/mudra/internal/detector"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"
	defaultGeminiModel   = "gemini-2.5-flash"
)

// APIError is a non-success reply from a provider. Its text carries the
// HTTP code and the provider status, e.g. "429 RESOURCE_EXHAUSTED".
type APIError struct {
	Provider   string
	StatusCode int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	status := e.Status
	if status == "" {
		status = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s api error: %d %s: %s", e.Provider, e.StatusCode, status, e.Message)
}

// Gemini calls the Gemini generateContent endpoint.
type Gemini struct {
	http    *http.Client
	apiKey  string
	baseURL string
	model   string
}

type geminiRequest struct {
	Contents          []geminiContent `json:"contents"`
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *geminiError `json:"error,omitempty"`
}

type geminiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// NewGemini creates a Gemini interpreter. A nil client uses http.DefaultClient.
func NewGemini(cfg Config, client *http.Client) *Gemini {
	if client == nil {
		client = http.DefaultClient
	}
	g := &Gemini{
		http:    client,
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
	}
	if g.baseURL == "" {
		g.baseURL = defaultGeminiBaseURL
	}
	if g.model == "" {
		g.model = defaultGeminiModel
	}
	return g
}

// Interpret implements Interpreter.
func (g *Gemini) Interpret(ctx context.Context, hands []detector.HandLandmarks, sentence string) (string, error) {
	if len(hands) == 0 {
		return sentence, nil
	}

	msg, err := BuildUserMessage(hands, sentence)
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(geminiRequest{
		Contents:          []geminiContent{{Role: "user", Parts: []geminiPart{{Text: msg}}}},
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: SystemPrompt}}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s:generateContent?key=%s", g.baseURL, g.model, url.QueryEscape(g.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var out geminiResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		if resp.StatusCode != http.StatusOK {
			return "", &APIError{Provider: ProviderGemini, StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
		}
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	if out.Error != nil || resp.StatusCode != http.StatusOK {
		apiErr := &APIError{Provider: ProviderGemini, StatusCode: resp.StatusCode}
		if out.Error != nil {
			apiErr.Status = out.Error.Status
			apiErr.Message = out.Error.Message
			if out.Error.Code != 0 {
				apiErr.StatusCode = out.Error.Code
			}
		}
		return "", apiErr
	}

	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini: no candidates returned")
	}

	var text strings.Builder
	for _, part := range out.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}
	return strings.TrimSpace(text.String()), nil
}
