// Package schemas validates incoming post and tag-filter payloads, the way
// the public API guards its inputs. The admin panel goes through form
// coercion instead and does not use these.
package schemas

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/J5Chen/Climate-Stories-Map/internal/models"
)

// FieldErrors maps an offending field to its message. It is the 400 body
// payload for validation failures.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for field, msg := range fe {
		parts = append(parts, field+": "+msg)
	}
	return strings.Join(parts, "; ")
}

// PostInput is the submission payload of the create/update endpoints.
// Status defaults to pending and optionalTags to an empty list.
type PostInput struct {
	Title        string          `json:"title" validate:"required"`
	Content      ContentInput    `json:"content" validate:"required"`
	Location     models.Location `json:"location" validate:"required"`
	Tag          string          `json:"tag" validate:"required,oneof=Positive Neutral Negative"`
	OptionalTags []string        `json:"optionalTags"`
	CaptchaToken string          `json:"captchaToken" validate:"required"`
	Status       string          `json:"status" validate:"omitempty,oneof=pending approved"`
}

// ContentInput mirrors the nested content sub-object of a post.
type ContentInput struct {
	Description string  `json:"description" validate:"required"`
	Image       *string `json:"image"`
}

// TagFilter validates the query parameters of the listing endpoint.
type TagFilter struct {
	Tag          string   `json:"tag" validate:"omitempty,oneof=Positive Neutral Negative"`
	OptionalTags []string `json:"optionalTags"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields under their wire names, not Go names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// LoadPost parses and validates a raw JSON post payload, applying defaults.
// On failure it returns FieldErrors naming every offending field.
func LoadPost(raw []byte) (*PostInput, error) {
	var in PostInput
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, FieldErrors{"postData": "invalid JSON payload"}
	}
	if err := validate.Struct(&in); err != nil {
		return nil, toFieldErrors(err)
	}
	if in.OptionalTags == nil {
		in.OptionalTags = []string{}
	}
	if in.Status == "" {
		in.Status = models.StatusPending
	}
	return &in, nil
}

// LoadTagFilter validates the listing endpoint's tag filters.
func LoadTagFilter(tag string, optionalTags []string) (*TagFilter, error) {
	f := TagFilter{Tag: tag, OptionalTags: optionalTags}
	if err := validate.Struct(&f); err != nil {
		return nil, toFieldErrors(err)
	}
	if f.OptionalTags == nil {
		f.OptionalTags = []string{}
	}
	return &f, nil
}

func toFieldErrors(err error) FieldErrors {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return FieldErrors{"_": err.Error()}
	}
	fe := make(FieldErrors, len(verrs))
	for _, v := range verrs {
		// Strip the root struct name from the namespace: "content.description".
		field := v.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		fe[field] = messageFor(v)
	}
	return fe
}

func messageFor(v validator.FieldError) string {
	switch v.Tag() {
	case "required":
		return "Missing data for required field."
	case "oneof":
		return fmt.Sprintf("Must be one of: %s.", strings.ReplaceAll(v.Param(), " ", ", "))
	default:
		return "Invalid value."
	}
}
