package models

import "fmt"

// ErrorTitle is the heading shown above every surfaced error.
const ErrorTitle = "An error has occurred!"

// LoadError reports a failed read of the catalog or of the user's selection.
// Message is safe to show to the user; Err keeps the underlying cause.
type LoadError struct {
	Source  string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("load %s: %s", e.Source, e.Message)
	}
	return fmt.Sprintf("load %s: %s: %v", e.Source, e.Message, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// UpdateError reports a failed persistence of the selection after a select or
// remove. Message is safe to show to the user.
type UpdateError struct {
	Op      string
	PlaceID string
	Message string
	Err     error
}

func (e *UpdateError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %s", e.Op, e.PlaceID, e.Message)
	}
	return fmt.Sprintf("%s %s: %s: %v", e.Op, e.PlaceID, e.Message, e.Err)
}

func (e *UpdateError) Unwrap() error { return e.Err }
