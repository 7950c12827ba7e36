package chat

import "errors"

// errors shared by the backend client and the widget
var (
	ErrEmptyQuestion = errors.New("question cannot be empty")
	ErrForbidden     = errors.New("history is only available for registered users")
	ErrMalformed     = errors.New("malformed response")
)
