package interpreter

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/ayusman/mudra/internal/detector"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAI calls the chat completions API through the official SDK.
type OpenAI struct {
	client openai.Client
	model  string
}

// NewOpenAI creates an OpenAI interpreter. Extra request options are applied
// after the ones derived from cfg.
func NewOpenAI(cfg Config, opts ...option.RequestOption) *OpenAI {
	clientOpts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		clientOpts = append(clientOpts, option.WithRequestTimeout(cfg.Timeout))
	}
	clientOpts = append(clientOpts, opts...)

	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}

	return &OpenAI{
		client: openai.NewClient(clientOpts...),
		model:  model,
	}
}

// Interpret implements Interpreter.
func (o *OpenAI) Interpret(ctx context.Context, hands []detector.HandLandmarks, sentence string) (string, error) {
	if len(hands) == 0 {
		return sentence, nil
	}

	msg, err := BuildUserMessage(hands, sentence)
	if err != nil {
		return "", err
	}

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(SystemPrompt),
			openai.UserMessage(msg),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: no choices returned")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
