package internaltypes

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
)

// Fatal error kinds. Every one of them ends the run with a non-zero exit.
var (
	ErrConfigurationFormat   = errors.New("configuration format error")
	ErrInvalidSearchCriteria = errors.New("invalid search criteria")
	ErrInvalidAuthCriteria   = errors.New("invalid auth criteria")
	ErrAuthentication        = errors.New("authentication failed")
	ErrProviderQuery         = errors.New("provider query failed")
)

// FieldError names the configuration field and the offending values that
// failed validation. errors.Is matches it against its Kind.
type FieldError struct {
	Kind   error
	Field  string
	Values []string
	Hint   string
}

func (e *FieldError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v: %s", e.Kind, e.Field)
	if len(e.Values) > 0 {
		quoted := make([]string, len(e.Values))
		for i, v := range e.Values {
			quoted[i] = fmt.Sprintf("%q", v)
		}
		fmt.Fprintf(&b, " [%s]", strings.Join(quoted, ", "))
	}
	if e.Hint != "" {
		b.WriteString(": ")
		b.WriteString(e.Hint)
	}
	return b.String()
}

func (e *FieldError) Unwrap() error { return e.Kind }

func NewFieldError(kind error, field, hint string, values ...string) *FieldError {
	return &FieldError{Kind: kind, Field: field, Values: values, Hint: hint}
}
