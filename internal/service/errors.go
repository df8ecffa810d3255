package service

import "errors"

var (
	// ErrInvalidInput is returned when a request fails validation
	ErrInvalidInput = errors.New("invalid input")
	// ErrTechnologyNotFound is returned for an unknown technology id
	ErrTechnologyNotFound = errors.New("technology not found")
	// ErrTemplateNotFound is returned for an unknown template id
	ErrTemplateNotFound = errors.New("template not found")
)
