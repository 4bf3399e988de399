package sanitize

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidInput is wrapped by every validation failure.
var ErrInvalidInput = errors.New("invalid input")

// ValidationError lists the offending fields keyed by their json name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, e.Fields[name])
	}
	return fmt.Sprintf("%s: %s", ErrInvalidInput, strings.Join(parts, " "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

type PostInput struct {
	Title      string `json:"title" validate:"required,max=200"`
	Content    string `json:"content" validate:"required,max=5000"`
	CategoryID string `json:"categoryId" validate:"required,categoryid"`
	AuthorName string `json:"authorName"`
	ImageURL   string `json:"imageUrl" validate:"omitempty,max=2048,httpurl"`
}

type CommentInput struct {
	Content    string `json:"content" validate:"required,max=5000"`
	AuthorName string `json:"authorName"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("categoryid", func(fl validator.FieldLevel) bool {
		return CategoryID(fl.Field().String())
	})
	_ = v.RegisterValidation("httpurl", func(fl validator.FieldLevel) bool {
		u, err := url.Parse(fl.Field().String())
		if err != nil || u.Host == "" {
			return false
		}
		return u.Scheme == "http" || u.Scheme == "https"
	})
	return v
}

var errorMessages = map[string]string{
	"required":   "The field '%s' is required.",
	"max":        "The field '%s' must be no longer than %s characters.",
	"categoryid": "The field '%s' must contain only letters, digits, hyphens and underscores (max 50).",
	"httpurl":    "The field '%s' must be an http or https URL.",
}

func parseMessage(e validator.FieldError) string {
	msg, ok := errorMessages[e.Tag()]
	if !ok {
		return fmt.Sprintf("Field '%s' is invalid: %s", e.Field(), e.Tag())
	}
	if strings.Count(msg, "%s") == 2 {
		return fmt.Sprintf(msg, e.Field(), e.Param())
	}
	return fmt.Sprintf(msg, e.Field())
}

func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	fields := make(map[string]string, len(fieldErrs))
	for _, e := range fieldErrs {
		fields[e.Field()] = parseMessage(e)
	}
	return &ValidationError{Fields: fields}
}

func emptyAfterCleaning(field string) error {
	return &ValidationError{Fields: map[string]string{
		field: fmt.Sprintf("The field '%s' has no text content.", field),
	}}
}

// Post validates in and returns the cleaned copy to store.
func Post(in PostInput) (PostInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	in.CategoryID = strings.TrimSpace(in.CategoryID)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	if err := validateStruct(&in); err != nil {
		return PostInput{}, err
	}

	out := PostInput{
		Title:      Text(in.Title, MaxTitleLength),
		Content:    Text(in.Content, MaxContentLength),
		CategoryID: in.CategoryID,
		AuthorName: AuthorName(in.AuthorName),
		ImageURL:   in.ImageURL,
	}
	if out.Title == "" {
		return PostInput{}, emptyAfterCleaning("title")
	}
	if out.Content == "" {
		return PostInput{}, emptyAfterCleaning("content")
	}
	return out, nil
}

// Comment validates in and returns the cleaned copy to store.
func Comment(in CommentInput) (CommentInput, error) {
	in.Content = strings.TrimSpace(in.Content)
	if err := validateStruct(&in); err != nil {
		return CommentInput{}, err
	}

	out := CommentInput{
		Content:    Text(in.Content, MaxContentLength),
		AuthorName: AuthorName(in.AuthorName),
	}
	if out.Content == "" {
		return CommentInput{}, emptyAfterCleaning("content")
	}
	return out, nil
}
