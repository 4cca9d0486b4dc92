package validation

import (
	"github.com/go-playground/validator/v10"

	"github.com/flicklog/movies-api/internal/domain"
)

// OptionsValidator checks listing options before any query executes.
type OptionsValidator struct {
	validate *validator.Validate
}

func NewOptionsValidator() *OptionsValidator {
	return &OptionsValidator{validate: newValidate()}
}

// Validate returns nil or a *domain.ValidationError.
func (ov *OptionsValidator) Validate(options domain.GetAllMoviesOptions) error {
	failures := structFailures(ov.validate.Struct(options), optionsMessages)
	if len(failures) > 0 {
		return &domain.ValidationError{Failures: failures}
	}
	return nil
}

func optionsMessages(fe validator.FieldError) string {
	switch fe.Field() {
	case "Year":
		return "year of release cannot be in the future"
	case "SortField":
		return "you can only sort by 'title' or 'yearofrelease'"
	case "Page":
		return "page must be a positive number"
	case "PageSize":
		return "page size must be between 1 and 25"
	default:
		return "invalid value"
	}
}
