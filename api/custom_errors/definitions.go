package custom_errors

import "errors"

var (
	ErrNotFound  = errors.New("resource not found")
	ErrNoSurveys = errors.New("no surveys configured")
)
