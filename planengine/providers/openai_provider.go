package providers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/AzielCF/az-planner/config"
	"github.com/AzielCF/az-planner/planengine/domain"
	pkgError "github.com/AzielCF/az-planner/pkg/error"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/sirupsen/logrus"
)

// OpenAIProvider is the adapter for the OpenAI API. Research runs as a plain
// completion (no live search) and images come from the images endpoint.
type OpenAIProvider struct {
	apiKey string
}

func NewOpenAIProvider(apiKey string) *OpenAIProvider {
	return &OpenAIProvider{apiKey: apiKey}
}

func (p *OpenAIProvider) Research(ctx context.Context, prompt string) (string, error) {
	return p.complete(ctx, prompt, nil)
}

func (p *OpenAIProvider) Complete(ctx context.Context, prompt string, schema *domain.Schema) (string, error) {
	return p.complete(ctx, prompt, schema)
}

func (p *OpenAIProvider) complete(ctx context.Context, prompt string, schema *domain.Schema) (string, error) {
	client := openai.NewClient(
		option.WithAPIKey(p.apiKey),
	)

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(config.AITextModel),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	}

	if schema != nil {
		// OpenAI strict mode rejects top-level arrays; wrap them in an
		// object and unwrap below.
		wrapped, topLevelArray := wrapArraySchema(schema)
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   "structured_output",
					Schema: toJSONSchema(wrapped),
					Strict: openai.Bool(true),
				},
			},
		}
		completion, err := client.Chat.Completions.New(ctx, params)
		if err != nil {
			return "", err
		}
		text := completionText(completion)
		if text == "" {
			return "", pkgError.EmptyResponseError("completion call returned no text")
		}
		if topLevelArray {
			text = unwrapArrayPayload(text)
		}
		return text, nil
	}

	completion, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	text := completionText(completion)
	if text == "" {
		return "", pkgError.EmptyResponseError("completion call returned no text")
	}
	return text, nil
}

func (p *OpenAIProvider) GenerateImage(ctx context.Context, directive string, refs [][]byte) ([]byte, error) {
	client := openai.NewClient(
		option.WithAPIKey(p.apiKey),
	)

	if len(refs) > 0 {
		// The images endpoint used here takes no style references; the
		// directive already carries the tone.
		logrus.Debug("[IMAGE] openai provider ignores reference media")
	}

	res, err := client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt: directive,
		Model:  openai.ImageModelGPTImage1,
	})
	if err != nil {
		return nil, err
	}
	if res == nil || len(res.Data) == 0 {
		return nil, pkgError.EmptyResponseError("image call returned no data")
	}
	if res.Data[0].B64JSON == "" {
		return nil, pkgError.EmptyResponseError("image call returned no inline payload")
	}
	return base64.StdEncoding.DecodeString(res.Data[0].B64JSON)
}

func completionText(completion *openai.ChatCompletion) string {
	if completion == nil || len(completion.Choices) == 0 {
		return ""
	}
	return strings.TrimSpace(completion.Choices[0].Message.Content)
}

// wrapArraySchema lifts a top-level array schema into {"items": [...]}.
func wrapArraySchema(s *domain.Schema) (*domain.Schema, bool) {
	if s == nil || s.Type != "array" {
		return s, false
	}
	return &domain.Schema{
		Type:       "object",
		Properties: map[string]*domain.Schema{"items": s},
		Required:   []string{"items"},
	}, true
}

// unwrapArrayPayload undoes wrapArraySchema on the model's response. On any
// surprise it returns the raw text and lets schema validation downstream
// report the shape error.
func unwrapArrayPayload(text string) string {
	var wrapper struct {
		Items json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal([]byte(text), &wrapper); err != nil || len(wrapper.Items) == 0 {
		return text
	}
	return string(wrapper.Items)
}

func toJSONSchema(s *domain.Schema) map[string]any {
	if s == nil {
		return nil
	}
	out := map[string]any{"type": s.Type}
	if s.Description != "" {
		out["description"] = s.Description
	}
	if len(s.Enum) > 0 {
		out["enum"] = s.Enum
	}
	if s.Items != nil {
		out["items"] = toJSONSchema(s.Items)
	}
	if len(s.Properties) > 0 {
		props := make(map[string]any, len(s.Properties))
		for name, prop := range s.Properties {
			props[name] = toJSONSchema(prop)
		}
		out["properties"] = props
		out["additionalProperties"] = false
	}
	if len(s.Required) > 0 {
		out["required"] = s.Required
	}
	return out
}
