// Package anthropic implements the upstream responder on the Anthropic API.
// The model is instructed to embed a machine-readable lead_data block in its
// replies; the provider strips that block and surfaces it as structured tags.
package anthropic

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/tidwall/gjson"

	leadModels "leadgate/internal/domain/models/lead"
	leadSvc "leadgate/internal/domain/services/lead"
)

const (
	tagOpen  = "<lead_data>"
	tagClose = "</lead_data>"
)

const systemPrompt = `You are a friendly property-intake assistant for a real
estate agency. Greet the visitor, collect their first name and phone number,
then walk through the intake questions one at a time: desired location, budget
range, bedroom count, property type, purchase or rental purpose, and
timeframe. Answer property questions the visitor asks along the way. Reply in
the visitor's language.

After every reply, append a machine-readable block of everything learned so
far, in exactly this form:

<lead_data>{"first_name":"...","phone":"...","location":"...","budget":"...",
"bedrooms":"...","property_type":"...","purpose":"...","timeframe":"...",
"intake_complete":"true"}</lead_data>

Include only fields you actually know. Set "intake_complete" to "true" once
every intake question is answered, or "declined_selection" to "true" if the
visitor does not want to continue. The block is stripped before display;
never mention it.`

// Provider implements the Responder interface using Anthropic models.
type Provider struct {
	client *anthropic.Client
	model  string
	logger *slog.Logger
}

// NewProvider creates an Anthropic-backed responder.
func NewProvider(apiKey, model string, logger *slog.Logger) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	return &Provider{
		client: &client,
		model:  model,
		logger: logger,
	}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "anthropic"
}

// Generate produces the assistant reply plus structured tags for one turn.
func (p *Provider) Generate(ctx context.Context, req *leadSvc.ResponderRequest) (*leadSvc.ResponderResponse, error) {
	messages, err := convertTranscript(req.Transcript)
	if err != nil {
		return nil, fmt.Errorf("convert transcript: %w", err)
	}

	message, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		Messages:  messages,
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{
				Type: "text",
				Text: systemPrompt + "\n\nThe visitor's language is: " + req.Language + ".",
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic API call failed: %w", err)
	}

	var reply strings.Builder
	for _, content := range message.Content {
		if content.Type == "text" {
			reply.WriteString(content.Text)
		}
	}

	text, tags := extractLeadData(reply.String())
	if len(tags) > 0 {
		p.logger.Debug("responder returned structured tags",
			"session_id", req.SessionID,
			"fields", len(tags),
		)
	}

	return &leadSvc.ResponderResponse{
		Reply:    text,
		Tags:     tags,
		Language: req.Language,
	}, nil
}

// convertTranscript maps the session transcript to Anthropic message params.
func convertTranscript(transcript leadModels.Transcript) ([]anthropic.MessageParam, error) {
	result := make([]anthropic.MessageParam, 0, len(transcript))

	for i, turn := range transcript {
		block := anthropic.NewTextBlock(turn.Text)
		switch turn.Role {
		case leadModels.RoleUser:
			result = append(result, anthropic.NewUserMessage(block))
		case leadModels.RoleAssistant:
			result = append(result, anthropic.NewAssistantMessage(block))
		default:
			return nil, fmt.Errorf("turn %d: unsupported role %q", i, turn.Role)
		}
	}

	return result, nil
}

// extractLeadData strips the lead_data block from the reply and parses it
// into flat string tags. A malformed block is dropped silently; the fallback
// extractor covers the miss.
func extractLeadData(reply string) (string, map[string]string) {
	start := strings.Index(reply, tagOpen)
	if start < 0 {
		return strings.TrimSpace(reply), nil
	}
	end := strings.Index(reply[start:], tagClose)
	if end < 0 {
		// Unterminated block: drop everything from the opening tag.
		return strings.TrimSpace(reply[:start]), nil
	}

	raw := reply[start+len(tagOpen) : start+end]
	text := strings.TrimSpace(reply[:start] + reply[start+end+len(tagClose):])

	parsed := gjson.Parse(raw)
	if !parsed.IsObject() {
		return text, nil
	}

	tags := make(map[string]string)
	parsed.ForEach(func(key, value gjson.Result) bool {
		if v := strings.TrimSpace(value.String()); v != "" {
			tags[key.String()] = v
		}
		return true
	})

	return text, tags
}
