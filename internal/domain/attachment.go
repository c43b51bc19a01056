package domain

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Attachment is an uploaded file forwarded to the model inline.
type Attachment struct {
	Name     string `json:"name"`
	MIMEType string `json:"mime_type"`
	Data     []byte `json:"data"`
}

// DecodeAttachment accepts either raw base64 or a full data URI. Only images
// and PDFs are accepted.
func DecodeAttachment(name, mimeType, payload string) (Attachment, error) {
	payload = strings.TrimSpace(payload)
	if strings.HasPrefix(payload, "data:") {
		header, body, ok := strings.Cut(payload, ",")
		if !ok {
			return Attachment{}, fmt.Errorf("%w: %s: malformed data uri", ErrInvalidAttachment, name)
		}
		if mimeType == "" {
			mimeType = strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
		}
		payload = body
	}

	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if !strings.HasPrefix(mimeType, "image/") && mimeType != "application/pdf" {
		return Attachment{}, fmt.Errorf("%w: %s: unsupported type %q", ErrInvalidAttachment, name, mimeType)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Attachment{}, fmt.Errorf("%w: %s: %v", ErrInvalidAttachment, name, err)
	}
	if len(data) == 0 {
		return Attachment{}, fmt.Errorf("%w: %s: empty payload", ErrInvalidAttachment, name)
	}

	return Attachment{Name: name, MIMEType: mimeType, Data: data}, nil
}
