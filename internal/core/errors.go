package core

import (
	"errors"
	"fmt"
)

// Sentinel errors for the identity directory.
var (
	// ErrInvalidCredentials is returned by Login for an unknown email,
	// a wrong credential, or an inactive account. The message is the
	// same in all three cases so callers cannot probe which emails
	// exist.
	ErrInvalidCredentials = errors.New("invalid email or credential")

	// ErrDuplicateEmail is returned by Register when the email is
	// already taken.
	ErrDuplicateEmail = errors.New("email is already registered")

	// ErrNotFound is reserved. Catalog and query lookups deliberately
	// degrade to zero-value results for missing tables instead of
	// returning it; it exists so a future durable backend can surface
	// genuine lookup failures without inventing a new taxonomy.
	ErrNotFound = errors.New("not found")
)

// ForbiddenError is returned when a caller lacks permission on a schema.
// The message is identical whether or not the schema exists, so denied
// callers cannot enumerate schemas by probing.
type ForbiddenError struct {
	Schema string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("access to schema %q denied", e.Schema)
}

// FilterReason classifies why filter text was rejected.
type FilterReason string

const (
	// ReasonCommentPattern: the text contained ";", "--", or "/*".
	ReasonCommentPattern FilterReason = "comment_pattern"
	// ReasonForbiddenKeyword: the text contained a mutation keyword as
	// a whole word.
	ReasonForbiddenKeyword FilterReason = "forbidden_keyword"
)

// FilterError is returned when filter text fails validation. It is
// always recoverable client-side; the caller can edit and resubmit.
type FilterError struct {
	Reason   FilterReason
	Fragment string // the offending substring or keyword
}

func (e *FilterError) Error() string {
	switch e.Reason {
	case ReasonCommentPattern:
		return fmt.Sprintf("filter contains disallowed pattern %q", e.Fragment)
	case ReasonForbiddenKeyword:
		return fmt.Sprintf("filter contains disallowed keyword %q", e.Fragment)
	default:
		return "filter rejected"
	}
}

// IsForbidden reports whether err is a permission denial.
func IsForbidden(err error) bool {
	var fe *ForbiddenError
	return errors.As(err, &fe)
}
