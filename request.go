package fiberswaggerui

import (
	"fmt"
	"net/http"
)

// CredentialMode mirrors the fetch API credentials setting
type CredentialMode string

const (
	CredentialsOmit       CredentialMode = "omit"
	CredentialsSameOrigin CredentialMode = "same-origin"
	CredentialsInclude    CredentialMode = "include"
)

// Valid reports whether m is one of the known modes
func (m CredentialMode) Valid() bool {
	switch m {
	case CredentialsOmit, CredentialsSameOrigin, CredentialsInclude:
		return true
	}
	return false
}

// RequestDescriptor describes one outgoing request issued by the viewer
type RequestDescriptor struct {
	URL         string         `json:"url"`
	Method      string         `json:"method,omitempty"`
	Headers     http.Header    `json:"headers,omitempty"`
	Credentials CredentialMode `json:"credentials,omitempty"`
	Body        []byte         `json:"body,omitempty"`
}

// RequestInterceptorFunc adjusts a request before it is dispatched
type RequestInterceptorFunc func(req RequestDescriptor) RequestDescriptor

// Interceptor pairs the Go hook with the script the viewer runs in the browser.
// Both must describe the same mutation.
type Interceptor struct {
	Name   string                 `validate:"required"`
	Apply  RequestInterceptorFunc `validate:"required"`
	Script string                 `validate:"required"`
}

// IncludeCredentialsName is the registered name of the include-credentials interceptor
const IncludeCredentialsName = "include-credentials"

const includeCredentialsScript = `(req) => {
      req.credentials = 'include';
      return req;
    }`

// IncludeCredentials forces cookies and auth state onto every request, including
// cross-origin ones. No other field is touched.
func IncludeCredentials(req RequestDescriptor) RequestDescriptor {
	req.Credentials = CredentialsInclude
	return req
}

// IncludeCredentialsInterceptor returns the default interceptor
func IncludeCredentialsInterceptor() Interceptor {
	return Interceptor{
		Name:   IncludeCredentialsName,
		Apply:  IncludeCredentials,
		Script: includeCredentialsScript,
	}
}

var interceptors = map[string]func() Interceptor{
	IncludeCredentialsName: IncludeCredentialsInterceptor,
}

// LookupInterceptor resolves an interceptor by its registered name
func LookupInterceptor(name string) (Interceptor, error) {
	build, ok := interceptors[name]
	if !ok {
		return Interceptor{}, fmt.Errorf("%w: %q", ErrUnknownInterceptor, name)
	}
	return build(), nil
}
