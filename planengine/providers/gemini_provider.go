package providers

import (
	"context"
	"strings"

	"github.com/AzielCF/az-planner/config"
	"github.com/AzielCF/az-planner/planengine/domain"
	pkgError "github.com/AzielCF/az-planner/pkg/error"
	"github.com/sirupsen/logrus"
	"google.golang.org/genai"
)

// GeminiProvider is the adapter for the Gemini API. It is the default
// provider: the research call can be grounded with Google Search and the
// image model returns inline bytes.
type GeminiProvider struct {
	apiKey string
}

func NewGeminiProvider(apiKey string) *GeminiProvider {
	return &GeminiProvider{apiKey: apiKey}
}

func (p *GeminiProvider) client(ctx context.Context) (*genai.Client, error) {
	return genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  p.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
}

func (p *GeminiProvider) Research(ctx context.Context, prompt string) (string, error) {
	client, err := p.client(ctx)
	if err != nil {
		return "", err
	}

	var genConfig *genai.GenerateContentConfig
	if config.AISearchEnabled {
		genConfig = &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
		}
	}

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}
	result, err := client.Models.GenerateContent(ctx, config.AITextModel, contents, genConfig)
	if err != nil {
		return "", err
	}
	text := ""
	if result != nil {
		text = strings.TrimSpace(result.Text())
	}
	if text == "" {
		return "", pkgError.EmptyResponseError("research call returned no text")
	}
	return text, nil
}

func (p *GeminiProvider) Complete(ctx context.Context, prompt string, schema *domain.Schema) (string, error) {
	client, err := p.client(ctx)
	if err != nil {
		return "", err
	}

	var genConfig *genai.GenerateContentConfig
	if schema != nil {
		genConfig = &genai.GenerateContentConfig{
			ResponseMIMEType:   "application/json",
			ResponseJsonSchema: toGeminiSchema(schema),
		}
	}

	model := config.AITextModel
	if schema != nil && schema.Type == "array" {
		// Plan generation is the heavy call; it goes to the larger model.
		model = config.AIPlanModel
	}

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}
	result, err := client.Models.GenerateContent(ctx, model, contents, genConfig)
	if err != nil {
		return "", err
	}
	text := ""
	if result != nil {
		text = strings.TrimSpace(result.Text())
	}
	if text == "" {
		return "", pkgError.EmptyResponseError("completion call returned no text")
	}
	return text, nil
}

func (p *GeminiProvider) GenerateImage(ctx context.Context, directive string, refs [][]byte) ([]byte, error) {
	client, err := p.client(ctx)
	if err != nil {
		return nil, err
	}

	parts := []*genai.Part{{Text: directive}}
	for _, ref := range refs {
		if len(ref) == 0 {
			continue
		}
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{MIMEType: sniffImageMIME(ref), Data: ref},
		})
	}
	contents := []*genai.Content{{Role: genai.RoleUser, Parts: parts}}

	genConfig := &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
	}
	result, err := client.Models.GenerateContent(ctx, config.AIImageModel, contents, genConfig)
	if err != nil {
		return nil, err
	}
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return nil, pkgError.EmptyResponseError("image call returned no candidates")
	}
	for _, part := range result.Candidates[0].Content.Parts {
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return part.InlineData.Data, nil
		}
	}
	logrus.Debug("[IMAGE] gemini returned a candidate without inline image data")
	return nil, pkgError.EmptyResponseError("image call returned no image data")
}

func toGeminiSchema(s *domain.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:        genai.Type(strings.ToUpper(s.Type)),
		Description: s.Description,
		Required:    s.Required,
		Enum:        s.Enum,
		Items:       toGeminiSchema(s.Items),
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGeminiSchema(prop)
		}
	}
	return out
}

func sniffImageMIME(data []byte) string {
	if len(data) >= 8 && string(data[:8]) == "\x89PNG\r\n\x1a\n" {
		return "image/png"
	}
	if len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF {
		return "image/jpeg"
	}
	if len(data) >= 12 && string(data[:4]) == "RIFF" && string(data[8:12]) == "WEBP" {
		return "image/webp"
	}
	return "image/png"
}
