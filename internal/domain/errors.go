package domain

import "errors"

// Error taxonomy shared by the widget state models. Callers match with
// errors.Is; the models wrap these with context.
var (
	// ErrOutOfRange is returned when a navigation target is outside the
	// slide range and looping is off.
	ErrOutOfRange = errors.New("index out of range")

	// ErrInvalidIndex is returned when a select or highlight references a
	// disabled or non-existent option.
	ErrInvalidIndex = errors.New("invalid option index")

	// ErrConfig is returned for invalid configuration.
	ErrConfig = errors.New("invalid configuration")

	// ErrClosed is returned by operations on an unmounted widget.
	ErrClosed = errors.New("widget closed")
)
