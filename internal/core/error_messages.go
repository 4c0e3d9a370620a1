package core

// error_messages.go maps domain errors to user-friendly messages with
// stable codes for support reference. When users encounter errors they
// can quote the code for faster diagnosis.
//
// Error codes:
//
//	AUTH001 - Invalid credentials: email or credential is wrong, or the
//	          account is inactive.
//	AUTH002 - Duplicate email: an account with this email already exists.
//	PERM001 - Forbidden: the caller's group has no sufficient grant on
//	          the schema. Identical for existing and nonexistent schemas.
//	FLT001  - Filter rejected: comment pattern (";", "--", "/*").
//	FLT002  - Filter rejected: forbidden keyword as a whole word.
//	ERR000  - Fallback for unrecognized errors.

import "errors"

// UserMessage is a user-facing error with a support code and a suggested
// next step.
type UserMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
}

var defaultMessage = UserMessage{
	Code:    "ERR000",
	Message: "An unexpected error occurred",
	Action:  "Please try again; contact support with the error code if it persists",
}

// MapError translates a domain error into a UserMessage. Unrecognized
// errors map to the generic ERR000 fallback; the technical detail should
// be logged server-side, never shown to the client.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return UserMessage{
			Code:    "AUTH001",
			Message: "Invalid email or credential",
			Action:  "Check your email and credential and try again",
		}
	case errors.Is(err, ErrDuplicateEmail):
		return UserMessage{
			Code:    "AUTH002",
			Message: "An account with this email already exists",
			Action:  "Log in instead, or use a different email",
		}
	}

	var forbidden *ForbiddenError
	if errors.As(err, &forbidden) {
		return UserMessage{
			Code:    "PERM001",
			Message: "You do not have access to this schema",
			Action:  "Ask an administrator to grant your group access",
		}
	}

	var filter *FilterError
	if errors.As(err, &filter) {
		msg := UserMessage{
			Code:    "FLT001",
			Message: "Filter text contains a disallowed pattern",
			Action:  "Remove comment markers and semicolons from the filter",
		}
		if filter.Reason == ReasonForbiddenKeyword {
			msg.Code = "FLT002"
			msg.Message = "Filter text contains a disallowed keyword"
			msg.Action = "Remove SQL mutation keywords from the filter"
		}
		return msg
	}

	return defaultMessage
}
