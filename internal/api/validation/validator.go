package validation

import (
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nathantheresa/portfolio/internal/api/dto/common"
	"github.com/nathantheresa/portfolio/internal/api/dto/v1/contact"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// New returns a validator that reads `binding` tags, reports json field
// names, and has the custom validators registered.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName("binding")
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	RegisterValidators(v)
	return v
}

// RegisterValidators registers custom validators
func RegisterValidators(v *validator.Validate) {
	v.RegisterValidation("email", validateEmail)
	v.RegisterValidation("url", validateURL)
}

// validateEmail checks if the email is valid
func validateEmail(fl validator.FieldLevel) bool {
	return emailRegex.MatchString(fl.Field().String())
}

// validateURL checks if the URL is valid
func validateURL(fl validator.FieldLevel) bool {
	urlStr := fl.Field().String()
	if urlStr == "" {
		return true // Allow empty URLs
	}
	u, err := url.ParseRequestURI(urlStr)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https")
}

// fieldLabels maps json field names to the label used in messages
var fieldLabels = map[string]string{
	"name":        "Name",
	"email":       "Email",
	"message":     "Message",
	"title":       "Title",
	"content":     "Content",
	"excerpt":     "Excerpt",
	"cover_image": "Cover image",
}

func label(field string) string {
	if l, ok := fieldLabels[field]; ok {
		return l
	}
	return field
}

// messageFor turns a validator failure into a form-friendly message
func messageFor(e validator.FieldError) string {
	l := label(e.Field())
	switch e.Tag() {
	case "required":
		return "Required"
	case "min":
		if e.Kind() != reflect.String {
			return fmt.Sprintf("%s must be at least %s", l, e.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters", l, e.Param())
	case "max":
		if e.Kind() != reflect.String {
			return fmt.Sprintf("%s must be at most %s", l, e.Param())
		}
		return fmt.Sprintf("%s must be less than %s characters", l, e.Param())
	case "email":
		return "Invalid email address"
	case "url":
		return fmt.Sprintf("%s must be a valid URL", l)
	default:
		return fmt.Sprintf("%s is invalid", l)
	}
}

// FormatValidationError formats validation errors into per-field issues
func FormatValidationError(err error) []common.ValidationError {
	var issues []common.ValidationError
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			issues = append(issues, common.ValidationError{
				Field:   e.Field(),
				Message: messageFor(e),
			})
		}
	}
	return issues
}

// ContactResult is the outcome of parsing an untyped contact payload:
// either Submission is set, or Issues lists every failing field.
type ContactResult struct {
	Submission *contact.ContactRequest
	Issues     []common.ValidationError
}

// OK reports whether the payload passed validation
func (r ContactResult) OK() bool {
	return r.Submission != nil
}

var contactFields = []string{"name", "email", "message"}

// ParseContact validates an untyped payload against the contact form
// constraints. Strings are trimmed before the length checks.
func ParseContact(v *validator.Validate, raw map[string]interface{}) ContactResult {
	req := &contact.ContactRequest{}
	targets := map[string]*string{
		"name":    &req.Name,
		"email":   &req.Email,
		"message": &req.Message,
	}

	byField := make(map[string]common.ValidationError)
	for _, field := range contactFields {
		value, present := raw[field]
		if !present || value == nil {
			byField[field] = common.ValidationError{Field: field, Message: "Required"}
			continue
		}
		s, ok := value.(string)
		if !ok {
			byField[field] = common.ValidationError{
				Field:   field,
				Message: fmt.Sprintf("Expected string, received %s", jsonKind(value)),
			}
			continue
		}
		*targets[field] = strings.TrimSpace(s)
	}

	if err := v.Struct(req); err != nil {
		for _, issue := range FormatValidationError(err) {
			if _, seen := byField[issue.Field]; !seen {
				byField[issue.Field] = issue
			}
		}
	}

	if len(byField) == 0 {
		return ContactResult{Submission: req}
	}

	issues := make([]common.ValidationError, 0, len(byField))
	for _, field := range contactFields {
		if issue, ok := byField[field]; ok {
			issues = append(issues, issue)
		}
	}
	return ContactResult{Issues: issues}
}

func jsonKind(v interface{}) string {
	switch v.(type) {
	case float64:
		return "number"
	case bool:
		return "boolean"
	case []interface{}:
		return "array"
	case map[string]interface{}:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
