package reply

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/liut/chatbot/pkg/models/chat"
)

const (
	dftSystemMsg = "You are a helpful assistant. Answer with a short, clear explanation."
	dftTimeout   = time.Second * 30
)

// OpenAIConfig ...
type OpenAIConfig struct {
	APIKey       string
	BaseURL      string
	Model        string
	SystemPrompt string
	MaxTokens    int
	Temperature  float32
	Timeout      time.Duration
}

// OpenAI replies with an OpenAI compatible chat completion
type OpenAI struct {
	oc  *openai.Client
	cfg OpenAIConfig

	fallback Replier
}

var _ Replier = (*OpenAI)(nil)

// NewOpenAIClient ...
func NewOpenAIClient(cfg OpenAIConfig) *openai.Client {
	occ := openai.DefaultConfig(cfg.APIKey)
	if len(cfg.BaseURL) > 0 {
		occ.BaseURL = cfg.BaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = dftTimeout
	}
	occ.HTTPClient = &http.Client{
		Timeout:   timeout,
		Transport: &http.Transport{Proxy: http.ProxyFromEnvironment},
	}
	return openai.NewClientWithConfig(occ)
}

// NewOpenAI ...
func NewOpenAI(cfg OpenAIConfig) *OpenAI {
	if len(cfg.Model) == 0 {
		cfg.Model = openai.GPT4oMini
	}
	if len(cfg.SystemPrompt) == 0 {
		cfg.SystemPrompt = dftSystemMsg
	}
	return &OpenAI{oc: NewOpenAIClient(cfg), cfg: cfg, fallback: Rules{}}
}

// Messages builds the completion messages: system, history, then the new message
func (o *OpenAI) Messages(message string, history chat.Messages) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: o.cfg.SystemPrompt,
	})
	for _, m := range history {
		role := openai.ChatMessageRoleUser
		if m.Role == chat.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: message,
	})
}

// Reply implements Replier
func (o *OpenAI) Reply(ctx context.Context, message string, history chat.Messages) (string, error) {
	ccr := openai.ChatCompletionRequest{
		Model:       o.cfg.Model,
		Messages:    o.Messages(message, history),
		MaxTokens:   o.cfg.MaxTokens,
		Temperature: o.cfg.Temperature,
	}
	res, err := o.oc.CreateChatCompletion(ctx, ccr)
	if err != nil {
		logger().Infow("chat completion fail", "model", o.cfg.Model, "err", err)
		return "", err
	}
	var text string
	if len(res.Choices) > 0 {
		logger().Infow("chat completion", "model", res.Model, "finish", res.Choices[0].FinishReason,
			"tokens", res.Usage.TotalTokens)
		text = strings.TrimSpace(res.Choices[0].Message.Content)
	}
	if len(text) == 0 {
		logger().Infow("empty completion, fallback to rules", "model", o.cfg.Model, "choices", len(res.Choices))
		return o.fallback.Reply(ctx, message, history)
	}
	return text, nil
}
