package oracle

import (
	"context"
	"errors"
	"slices"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/nao1215/deedscan/internal/model"
)

// DefaultAnthropicModel is used when no model is configured.
const DefaultAnthropicModel = string(anthropic.ModelClaudeSonnet4_20250514)

// anthropicMaxTokens bounds the answer; only a label is expected.
const anthropicMaxTokens = 32

// ErrMissingAPIKey is returned when no Anthropic API key is configured.
var ErrMissingAPIKey = errors.New("anthropic API key not configured")

// AnthropicMessager is the subset of the Anthropic client used here.
type AnthropicMessager interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// Anthropic classifies through the Anthropic Messages API.
type Anthropic struct {
	messages AnthropicMessager
	model    string
	labels   []string
}

// NewAnthropic creates an Anthropic oracle with the given API key.
func NewAnthropic(apiKey, modelName string, labels []string) (*Anthropic, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	c := anthropic.NewClient(option.WithAPIKey(apiKey))
	return NewAnthropicWithMessager(&c.Messages, modelName, labels), nil
}

// NewAnthropicWithMessager creates an Anthropic oracle over messages.
func NewAnthropicWithMessager(messages AnthropicMessager, modelName string, labels []string) *Anthropic {
	if modelName == "" {
		modelName = DefaultAnthropicModel
	}
	if len(labels) == 0 {
		labels = model.DefaultLabels()
	}
	return &Anthropic{
		messages: messages,
		model:    modelName,
		labels:   slices.Clone(labels),
	}
}

// ModelName returns the configured model.
func (a *Anthropic) ModelName() string { return a.model }

// Classify implements classify.Oracle.
func (a *Anthropic) Classify(ctx context.Context, text string) (string, error) {
	resp, err := a.messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(a.model),
		MaxTokens:   anthropicMaxTokens,
		System:      []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(Prompt(text, a.labels)))},
		Temperature: anthropic.Float(0),
	})
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, b := range resp.Content {
		if b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	return sb.String(), nil
}
