package gateway

import (
	"context"
	"errors"

	"google.golang.org/genai"
)

const (
	defaultGeminiTextModel  = "gemini-2.5-flash"
	defaultGeminiImageModel = "gemini-2.5-flash-image"
)

// GeminiGateway implements Gateway on the Gemini API via the genai SDK.
type GeminiGateway struct {
	client     *genai.Client
	textModel  string
	imageModel string
}

var _ Gateway = (*GeminiGateway)(nil)

func NewGeminiGateway(ctx context.Context, cfg Settings) (*GeminiGateway, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini api key missing; set model.api_key or the model.api_key_env variable")
	}
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, err
	}

	g := &GeminiGateway{
		client:     client,
		textModel:  cfg.TextModel,
		imageModel: cfg.ImageModel,
	}
	if g.textModel == "" {
		g.textModel = defaultGeminiTextModel
	}
	if g.imageModel == "" {
		g.imageModel = defaultGeminiImageModel
	}
	return g, nil
}

func (g *GeminiGateway) CompleteText(ctx context.Context, prompt Prompt, useTools bool) (string, error) {
	parts := []*genai.Part{genai.NewPartFromText(prompt.Text)}
	for _, a := range prompt.Attachments {
		parts = append(parts, genai.NewPartFromBytes(a.Data, a.MIMEType))
	}

	system := prompt.System
	if system == "" {
		system = QuotationInstruction
	}
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
	}
	// Grounding and a JSON response MIME type cannot be combined on this API.
	if useTools {
		cfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	} else {
		cfg.ResponseMIMEType = "application/json"
	}

	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	resp, err := g.client.Models.GenerateContent(ctx, g.textModel, contents, cfg)
	if err != nil {
		return "", wrapGeminiError(err)
	}
	return resp.Text(), nil
}

func (g *GeminiGateway) SynthesizeImage(ctx context.Context, prompt string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.imageModel, genai.Text(prompt), cfg)
	if err != nil {
		return "", wrapGeminiError(err)
	}

	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
				continue
			}
			mimeType := part.InlineData.MIMEType
			if mimeType == "" {
				mimeType = "image/png"
			}
			return dataURI(mimeType, part.InlineData.Data), nil
		}
	}
	return "", nil
}

func wrapGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &BackendError{Provider: "gemini", StatusCode: apiErr.Code, Status: apiErr.Status, Message: apiErr.Message, Err: err}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return &BackendError{Provider: "gemini", StatusCode: apiErrPtr.Code, Status: apiErrPtr.Status, Message: apiErrPtr.Message, Err: err}
	}
	return err
}
