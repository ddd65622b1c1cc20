package authoring

import (
	"strings"
	"unicode/utf8"

	"lingo/models/course"
)

// MinDescriptionLength is the shortest description a version can be published with.
const MinDescriptionLength = 20

// ValidationError is one failed item of a checklist.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidateReadiness runs the publish checklist on v and returns every failing rule. The
// lessons linked to v must be loaded.
func ValidateReadiness(v *course.CourseVersion) []ValidationError {
	errs := []ValidationError{}

	if v.Price == nil {
		errs = append(errs, ValidationError{Field: "price", Message: "Price must be set, use 0 for a free course!"})
	}
	if utf8.RuneCountInString(strings.TrimSpace(v.Description)) < MinDescriptionLength {
		errs = append(errs, ValidationError{Field: "description", Message: "Description must be at least 20 characters long!"})
	}
	if strings.TrimSpace(v.ThumbnailURL) == "" {
		errs = append(errs, ValidationError{Field: "thumbnailUrl", Message: "Thumbnail is required!"})
	}
	if len(v.Lessons) == 0 {
		errs = append(errs, ValidationError{Field: "lessons", Message: "At least one lesson is required!"})
	}
	return errs
}
