package drafter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// systemPrompt fixes the drafting rules for the 说明书摘要: one paragraph,
// no numbering, at most 300 characters.
const systemPrompt = "你是一名专利代理人，负责撰写中国发明专利申请的说明书摘要。" +
	"摘要应当写明发明名称、所属技术领域、要解决的技术问题、主要技术方案和有益效果，" +
	"以一个自然段呈现，不分条、不编号，不使用商业性宣传用语，全文不超过300字。只输出摘要正文。"

const (
	defaultModel      = anthropic.ModelClaudeSonnet4_20250514
	maxResponseTokens = 1024
)

// LLMCaller is the seam between the drafter and the model API.
type LLMCaller interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// messageAPI matches the Messages service of the anthropic client so tests
// can substitute a fake.
type messageAPI interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

var newMessageAPI = func(apiKey string) messageAPI {
	c := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &c.Messages
}

// AnthropicCaller implements LLMCaller against the Anthropic messages API.
type AnthropicCaller struct {
	messages messageAPI
	model    anthropic.Model
}

// NewAnthropicCallerFromEnv builds a caller from ANTHROPIC_API_KEY. The
// model defaults to a pinned version; ANTHROPIC_MODEL overrides it.
func NewAnthropicCallerFromEnv() (*AnthropicCaller, error) {
	apiKey := strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY"))
	if apiKey == "" {
		return nil, errors.New("ANTHROPIC_API_KEY not configured")
	}
	model := defaultModel
	if m := strings.TrimSpace(os.Getenv("ANTHROPIC_MODEL")); m != "" {
		model = anthropic.Model(m)
	}
	return &AnthropicCaller{messages: newMessageAPI(apiKey), model: model}, nil
}

func (a *AnthropicCaller) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := a.messages.New(ctx, anthropic.MessageNewParams{
		Model:       a.model,
		MaxTokens:   maxResponseTokens,
		System:      []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(prompt))},
		Temperature: anthropic.Float(0),
	})
	if err != nil {
		return "", fmt.Errorf("anthropic message: %w", err)
	}
	var out strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			out.WriteString(block.Text)
		}
	}
	return out.String(), nil
}
