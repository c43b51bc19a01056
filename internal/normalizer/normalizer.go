// Package normalizer turns raw model text into a validated quotation.
package normalizer

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/Domenick1991/travelquote/internal/domain"
)

var (
	fencedBlock     = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*\\n?(.*?)\\s*```")
	closedLastArray = regexp.MustCompile(`\]\s*\}$`)
)

// StripCodeFence returns the interior of the first fenced code block, or the
// trimmed text when there is none.
func StripCodeFence(raw string) string {
	text := strings.TrimSpace(raw)
	if m := fencedBlock.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return text
}

// RepairTruncation closes the one truncation shape the model is known to
// produce: the final travelTips array losing its "]" before the closing brace.
//
// It assumes the object's last member is an array, which holds for the
// field order fixed in gateway.QuotationInstruction. A trailing scalar field
// would be corrupted by this repair. Any other malformation is left alone so
// that parsing fails loudly.
func RepairTruncation(text string) string {
	if !strings.HasSuffix(text, "}") || closedLastArray.MatchString(text) {
		return text
	}
	return text[:len(text)-1] + "] }"
}

// Clean applies fence stripping and the truncation repair.
func Clean(raw string) string {
	return RepairTruncation(StripCodeFence(raw))
}

// Parse cleans raw, decodes it and validates the result. Every failure is
// reported as domain.ErrInvalidOutput.
func Parse(raw string) (*domain.Quotation, error) {
	text := Clean(raw)
	if text == "" {
		return nil, fmt.Errorf("%w: empty response", domain.ErrInvalidOutput)
	}

	var q domain.Quotation
	if err := json.Unmarshal([]byte(text), &q); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidOutput, err)
	}
	if err := Validate(&q); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidOutput, err)
	}
	return &q, nil
}
