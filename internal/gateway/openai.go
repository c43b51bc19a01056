package gateway

import (
	"context"
	"errors"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

const (
	defaultOpenAITextModel  = "gpt-4o"
	defaultOpenAIImageModel = "gpt-image-1"
)

// OpenAIGateway implements Gateway on an OpenAI-compatible endpoint. Chat
// completions have no search grounding, so useTools only decides whether JSON
// mode is requested.
type OpenAIGateway struct {
	client     openai.Client
	textModel  string
	imageModel string
}

var _ Gateway = (*OpenAIGateway)(nil)

func NewOpenAIGateway(cfg Settings) (*OpenAIGateway, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai api key missing; set model.api_key or the model.api_key_env variable")
	}
	// Retries belong to the resilience policy, not the SDK.
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey), option.WithMaxRetries(0)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	o := &OpenAIGateway{
		client:     openai.NewClient(opts...),
		textModel:  cfg.TextModel,
		imageModel: cfg.ImageModel,
	}
	if o.textModel == "" {
		o.textModel = defaultOpenAITextModel
	}
	if o.imageModel == "" {
		o.imageModel = defaultOpenAIImageModel
	}
	return o, nil
}

func (o *OpenAIGateway) CompleteText(ctx context.Context, prompt Prompt, useTools bool) (string, error) {
	parts := []openai.ChatCompletionContentPartUnionParam{openai.TextContentPart(prompt.Text)}
	for _, a := range prompt.Attachments {
		uri := dataURI(a.MIMEType, a.Data)
		if strings.HasPrefix(a.MIMEType, "image/") {
			parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: uri}))
			continue
		}
		parts = append(parts, openai.FileContentPart(openai.ChatCompletionContentPartFileFileParam{
			Filename: openai.String(a.Name),
			FileData: openai.String(uri),
		}))
	}

	system := prompt.System
	if system == "" {
		system = QuotationInstruction
	}
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.textModel),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(parts),
		},
	}
	if !useTools {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", wrapOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

func (o *OpenAIGateway) SynthesizeImage(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt: prompt,
		Model:  openai.ImageModel(o.imageModel),
		N:      openai.Int(1),
	})
	if err != nil {
		return "", wrapOpenAIError(err)
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return "", nil
	}
	return "data:image/png;base64," + resp.Data[0].B64JSON, nil
}

func wrapOpenAIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) && apiErr != nil {
		return &BackendError{Provider: "openai", StatusCode: apiErr.StatusCode, Status: apiErr.Code, Message: apiErr.Message, Err: err}
	}
	return err
}
