package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/mahdieldaw/strata/internal/model"
)

// OpenAIProvider implements the Provider interface for OpenAI models
type OpenAIProvider struct {
	client  *openai.Client
	limiter *rate.Limiter
	config  Config
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(config Config) (*OpenAIProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	rps := config.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}

	return &OpenAIProvider{
		client:  openai.NewClientWithConfig(clientConfig),
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		config:  config,
	}, nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// IsAvailable checks if the provider is properly configured
func (p *OpenAIProvider) IsAvailable(ctx context.Context) bool {
	_, err := p.client.ListModels(ctx)
	return err == nil
}

// Audit runs the shadow pass using OpenAI's Chat Completions API
func (p *OpenAIProvider) Audit(ctx context.Context, req AuditRequest) (*model.ShadowAudit, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	modelName := req.Model
	if modelName == "" {
		modelName = p.config.Model
	}
	if modelName == "" {
		modelName = openai.GPT4oMini
	}

	maxTokens := p.config.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1000
	}

	timeout := time.Duration(p.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	chatReq := openai.ChatCompletionRequest{
		Model: modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You audit claim indexes for coverage gaps. Answer with JSON only.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: BuildAuditPrompt(req),
			},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.1, // The audit wants recall, not creativity
	}

	resp, err := p.client.CreateChatCompletion(ctxWithTimeout, chatReq)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	statements, err := ParseAuditResponse(resp.Choices[0].Message.Content, req.MaxStatements)
	if err != nil {
		return nil, err
	}

	return &model.ShadowAudit{
		Provider:            p.Name(),
		Model:               modelName,
		UnindexedStatements: statements,
	}, nil
}
