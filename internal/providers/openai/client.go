package openai

import (
	"context"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float32
}

type Client struct {
	client *goopenai.Client
	cfg    Config
	log    *zap.Logger
}

func NewClient(cfg Config, log *zap.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}

	clientConfig := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	if cfg.Model == "" {
		cfg.Model = goopenai.GPT4
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 2000
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.3
	}

	return &Client{
		client: goopenai.NewClientWithConfig(clientConfig),
		cfg:    cfg,
		log:    log.Named("providers.openai"),
	}, nil
}

// AnalyzeBill submits the analysis prompt with the fixed system role and
// returns the completion text verbatim. Transport and API errors surface to
// the caller; the response body is never inspected here.
func (c *Client) AnalyzeBill(ctx context.Context, billText string) (string, error) {
	if strings.TrimSpace(billText) == "" {
		return "", ErrEmptyBillText
	}

	resp, err := c.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: systemRole},
			{Role: goopenai.ChatMessageRoleUser, Content: renderPrompt(billText)},
		},
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	})
	if err != nil {
		c.log.Warn("model call failed", zap.Error(err))
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	return resp.Choices[0].Message.Content, nil
}
