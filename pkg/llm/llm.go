// Package llm sends a system and user prompt to a hosted chat-completion API
// and returns the text of the first choice.
package llm

import (
	"context"
	"errors"
	"fmt"

	"phihelper/pkg/apperr"
	"phihelper/pkg/config"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// AzureAPIVersion is the api-version sent to Azure OpenAI deployments.
const AzureAPIVersion = "2023-12-01-preview"

var errNoChoices = errors.New("response contained no choices")

// Request is one chat-completion call.
type Request struct {
	System      string
	User        string
	Model       string
	Temperature float64
	MaxTokens   int
}

// NewRequest fills the model settings of a Request from cfg.
func NewRequest(cfg config.Config, system, user string) Request {
	return Request{
		System:      system,
		User:        user,
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	}
}

// Client is the remote chat-completion collaborator.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// OpenAIClient talks to OpenAI or an Azure OpenAI deployment.
type OpenAIClient struct {
	client *openai.Client
	logger *zap.Logger
}

// New creates a client for cfg.APIType. A missing key or Azure endpoint is a config error.
func New(cfg config.Config, logger *zap.Logger) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, apperr.Config("api_key is not set", nil)
	}

	var clientCfg openai.ClientConfig
	switch cfg.APIType {
	case config.APITypeAzure:
		if cfg.AzureEndpoint == "" {
			return nil, apperr.Config("Azure endpoint not specified in config", nil)
		}
		clientCfg = openai.DefaultAzureConfig(cfg.APIKey, cfg.AzureEndpoint)
		clientCfg.APIVersion = AzureAPIVersion
	case config.APITypeOpenAI, "":
		clientCfg = openai.DefaultConfig(cfg.APIKey)
	default:
		return nil, apperr.Config(fmt.Sprintf("unsupported api_type %q", cfg.APIType), nil)
	}

	return newWithClientConfig(clientCfg, logger), nil
}

func newWithClientConfig(clientCfg openai.ClientConfig, logger *zap.Logger) *OpenAIClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OpenAIClient{client: openai.NewClientWithConfig(clientCfg), logger: logger}
}

// Complete sends req and returns the first choice's message content.
func (c *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	c.logger.Debug("Sending chat completion",
		zap.String("model", req.Model),
		zap.Int("maxTokens", req.MaxTokens),
		zap.Int("userChars", len(req.User)))

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
		Temperature: float32(req.Temperature),
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errNoChoices
	}

	c.logger.Debug("Received chat completion",
		zap.String("finishReason", string(resp.Choices[0].FinishReason)),
		zap.Int("totalTokens", resp.Usage.TotalTokens))
	return resp.Choices[0].Message.Content, nil
}

// Ask calls c and never fails: an API error comes back as its inline error text.
func Ask(ctx context.Context, c Client, req Request, logger *zap.Logger) string {
	text, err := c.Complete(ctx, req)
	if err != nil {
		callErr := apperr.RemoteCall(err)
		if logger != nil {
			logger.Error("Chat completion failed", zap.String("model", req.Model), zap.Error(callErr))
		}
		return callErr.Error()
	}
	return text
}
