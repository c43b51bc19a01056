package normalizer

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/Domenick1991/travelquote/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the struct tags on the quotation graph and that itinerary
// days run 1, 2, 3 ... without gaps.
func Validate(q *domain.Quotation) error {
	if err := validate.Struct(q); err != nil {
		return err
	}
	for i, day := range q.Itinerary {
		if day.Day != i+1 {
			return fmt.Errorf("itinerary day %d found at position %d", day.Day, i+1)
		}
	}
	return nil
}
