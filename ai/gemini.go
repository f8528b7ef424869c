package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/yeremiapane/paradise-cafe/models"
	"google.golang.org/genai"
)

const (
	DefaultTextModel  = "gemini-3-flash-preview"
	DefaultImageModel = "gemini-2.5-flash-image"
)

// Gemini talks to the Gemini API through the genai SDK.
type Gemini struct {
	client     *genai.Client
	textModel  string
	imageModel string
}

func NewGemini(ctx context.Context, apiKey, textModel, imageModel string) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("missing GEMINI_API_KEY")
	}
	if textModel == "" {
		textModel = DefaultTextModel
	}
	if imageModel == "" {
		imageModel = DefaultImageModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &Gemini{client: client, textModel: textModel, imageModel: imageModel}, nil
}

var suggestionSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"itemId": {Type: genai.TypeString},
			"reason": {Type: genai.TypeString},
		},
		Required: []string{"itemId", "reason"},
	},
}

var detailsSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"description":    {Type: genai.TypeString},
		"suggestedPrice": {Type: genai.TypeNumber},
		"isVegetarian":   {Type: genai.TypeBoolean},
		"isSpicy":        {Type: genai.TypeBoolean},
	},
	Required: []string{"description", "suggestedPrice", "isVegetarian", "isSpicy"},
}

func (g *Gemini) Suggest(ctx context.Context, query string, menu []models.MenuProjection) ([]Suggestion, error) {
	prompt, err := buildSuggestPrompt(query, menu)
	if err != nil {
		return nil, err
	}

	text, err := g.generateJSON(ctx, prompt, suggestionSchema)
	if err != nil {
		return nil, err
	}

	var out []Suggestion
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil, fmt.Errorf("invalid suggestion JSON: %w", err)
	}
	return out, nil
}

func (g *Gemini) ItemDetails(ctx context.Context, name string, category models.Category) (*ItemDetails, error) {
	text, err := g.generateJSON(ctx, buildDetailsPrompt(name, category), detailsSchema)
	if err != nil {
		return nil, err
	}

	var out ItemDetails
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil, fmt.Errorf("invalid item details JSON: %w", err)
	}
	return &out, nil
}

func (g *Gemini) ItemImage(ctx context.Context, name, description string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.imageModel, genai.Text(buildImagePrompt(name, description)), nil)
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
			continue
		}
		mime := part.InlineData.MIMEType
		if mime == "" {
			mime = "image/png"
		}
		return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(part.InlineData.Data), nil
	}
	return "", nil
}

func (g *Gemini) generateJSON(ctx context.Context, prompt string, schema *genai.Schema) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.textModel, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	})
	if err != nil {
		return "", err
	}

	text := stripFences(resp.Text())
	if text == "" {
		return "", errors.New("empty gemini response")
	}
	if !json.Valid([]byte(text)) {
		return "", errors.New("gemini returned non-json output")
	}
	return text, nil
}
