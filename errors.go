package fiberswaggerui

import "errors"

var (
	// ErrInvalidConfiguration is returned when a viewer configuration fails validation
	ErrInvalidConfiguration = errors.New("invalid viewer configuration")
	// ErrMissingField is returned by the loader when a required key is absent
	ErrMissingField = errors.New("missing viewer configuration field")
	// ErrUnknownInterceptor is returned for an interceptor name with no registration
	ErrUnknownInterceptor = errors.New("unknown request interceptor")
	// ErrDiscoveryPathMismatch means the server answered for a different discovery route
	ErrDiscoveryPathMismatch = errors.New("discovery endpoint path mismatch")
	// ErrDuplicateGroup is returned when an API group name is registered twice
	ErrDuplicateGroup = errors.New("api group already registered")
	// ErrDocumentNotFound is returned when no document is registered for a group
	ErrDocumentNotFound = errors.New("api document not found")
)
