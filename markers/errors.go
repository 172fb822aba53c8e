package markers

import "errors"

var (
	ErrDimensionNotFound = errors.New("dimension not found")
	ErrMarkerNotFound    = errors.New("marker not found")
)

// Input validation errors. Their text is shown to the user as-is.
var (
	ErrEmptyLabel      = errors.New("please enter a marker label")
	ErrLabelTooLong    = errors.New("marker label is too long")
	ErrInvalidColor    = errors.New("text color must be a hex color like #cccccc")
	ErrUnknownCategory = errors.New("unknown marker category")
)
