package fiberswaggerui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// InterceptingTransport runs every outgoing request through a request-mutation
// hook and then enforces the credential mode the hook chose.
type InterceptingTransport struct {
	Base        http.RoundTripper
	Interceptor RequestInterceptorFunc
	// Origin is the scheme://host of the page hosting the viewer
	Origin string
	Jar    http.CookieJar
}

// RoundTrip implements http.RoundTripper
func (t *InterceptingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	desc, err := describeRequest(req)
	if err != nil {
		return nil, err
	}
	if t.Interceptor != nil {
		desc = t.Interceptor(desc)
	}

	out, err := t.buildRequest(req, desc)
	if err != nil {
		return nil, err
	}

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	resp, err := base.RoundTrip(out)
	if err != nil {
		return nil, err
	}
	if t.Jar != nil && t.sendsCredentials(desc.Credentials, out.URL) {
		if cookies := resp.Cookies(); len(cookies) > 0 {
			t.Jar.SetCookies(out.URL, cookies)
		}
	}
	return resp, nil
}

func describeRequest(req *http.Request) (RequestDescriptor, error) {
	desc := RequestDescriptor{
		URL:         req.URL.String(),
		Method:      req.Method,
		Headers:     req.Header.Clone(),
		Credentials: CredentialsSameOrigin,
	}
	if req.Body != nil && req.Body != http.NoBody {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return RequestDescriptor{}, fmt.Errorf("failed to read request body: %w", err)
		}
		_ = req.Body.Close()
		desc.Body = body
	}
	return desc, nil
}

func (t *InterceptingTransport) buildRequest(orig *http.Request, desc RequestDescriptor) (*http.Request, error) {
	if !desc.Credentials.Valid() {
		return nil, fmt.Errorf("interceptor returned unknown credential mode %q", desc.Credentials)
	}

	var body io.Reader
	if desc.Body != nil {
		body = bytes.NewReader(desc.Body)
	}
	out, err := http.NewRequestWithContext(orig.Context(), desc.Method, desc.URL, body)
	if err != nil {
		return nil, fmt.Errorf("interceptor produced an invalid request: %w", err)
	}
	if desc.Headers != nil {
		out.Header = desc.Headers.Clone()
	}

	if t.sendsCredentials(desc.Credentials, out.URL) {
		if t.Jar != nil {
			for _, cookie := range t.Jar.Cookies(out.URL) {
				out.AddCookie(cookie)
			}
		}
	} else {
		out.Header.Del("Cookie")
	}
	return out, nil
}

// sendsCredentials reports whether cookies go out with a request to target.
// As with fetch, the mode governs cookies only. An Authorization header set
// by the caller is always sent.
func (t *InterceptingTransport) sendsCredentials(mode CredentialMode, target *url.URL) bool {
	switch mode {
	case CredentialsInclude:
		return true
	case CredentialsSameOrigin:
		return t.Origin == "" || sameOrigin(t.Origin, target)
	}
	return false
}

func sameOrigin(origin string, target *url.URL) bool {
	o, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(o.Scheme, target.Scheme) && strings.EqualFold(o.Host, target.Host)
}

// ViewerClient fetches the discovery document and API documents the way the viewer does
type ViewerClient struct {
	baseURL *url.URL
	config  ViewerConfiguration
	http    *http.Client
	logger  *slog.Logger
}

// NewViewerClient creates a client for the server at baseURL. Every request
// goes through the configuration's interceptor.
func NewViewerClient(baseURL string, config ViewerConfiguration, jar http.CookieJar, logger *slog.Logger) (*ViewerClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: scheme and host required", baseURL)
	}
	if logger == nil {
		logger = slog.Default()
	}

	transport := &InterceptingTransport{
		Interceptor: config.RequestInterceptor().Apply,
		Origin:      u.Scheme + "://" + u.Host,
		Jar:         jar,
	}
	return &ViewerClient{
		baseURL: u,
		config:  config,
		http:    &http.Client{Transport: transport},
		logger:  logger,
	}, nil
}

// WithTransport replaces the base transport under the interceptor
func (vc *ViewerClient) WithTransport(base http.RoundTripper) *ViewerClient {
	if t, ok := vc.http.Transport.(*InterceptingTransport); ok {
		t.Base = base
	}
	return vc
}

// Discover fetches the discovery document. It fails when the server does not
// acknowledge the configured discovery path.
func (vc *ViewerClient) Discover(ctx context.Context) (SwaggerConfig, error) {
	var sc SwaggerConfig
	body, err := vc.get(ctx, vc.config.ConfigURL())
	if err != nil {
		return sc, err
	}
	if err := json.Unmarshal(body, &sc); err != nil {
		return sc, fmt.Errorf("failed to decode discovery document: %w", err)
	}
	if sc.ConfigURL != "" && sc.ConfigURL != vc.config.ConfigURL() {
		return sc, fmt.Errorf("%w: requested %s, server reports %s", ErrDiscoveryPathMismatch, vc.config.ConfigURL(), sc.ConfigURL)
	}
	vc.logger.Debug("discovery document fetched", "groups", len(sc.Groups()))
	return sc, nil
}

// FetchDocuments loads and validates every document advertised by sc, in order
func (vc *ViewerClient) FetchDocuments(ctx context.Context, sc SwaggerConfig) ([]*Document, error) {
	groups := sc.Groups()
	docs := make([]*Document, 0, len(groups))
	for _, group := range groups {
		body, err := vc.get(ctx, group.URL)
		if err != nil {
			return docs, fmt.Errorf("group %s: %w", group.Name, err)
		}
		doc, err := ParseDocument(ctx, body)
		if err != nil {
			return docs, fmt.Errorf("group %s: %w", group.Name, err)
		}
		doc.Name = group.Name
		docs = append(docs, doc)
	}
	return docs, nil
}

func (vc *ViewerClient) get(ctx context.Context, ref string) ([]byte, error) {
	target, err := vc.baseURL.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", ref, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json,*/*")

	resp, err := vc.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", target, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", target, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: unexpected status %d", target, resp.StatusCode)
	}
	return body, nil
}
