package gateway

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/Domenick1991/travelquote/internal/domain"
)

// Gateway abstracts the generative backend so providers can be swapped or mocked.
type Gateway interface {
	// CompleteText sends the prompt under the quotation system instruction and
	// returns the raw response text. With useTools the backend may ground its
	// answer on web search; JSON shape is then only enforced by the instruction.
	CompleteText(ctx context.Context, prompt Prompt, useTools bool) (string, error)
	// SynthesizeImage returns a data URI, or "" when the backend produced no image.
	SynthesizeImage(ctx context.Context, prompt string) (string, error)
}

// Prompt is one multimodal request: the user's notes plus inline files.
type Prompt struct {
	System      string
	Text        string
	Attachments []domain.Attachment
}

// Settings is the provider-neutral configuration handed to constructors.
type Settings struct {
	Provider   string
	APIKey     string
	BaseURL    string
	TextModel  string
	ImageModel string
}

func dataURI(mimeType string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}
