package fiberswaggerui

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// recorder captures the requests that reach the network
type recorder struct {
	requests  []*http.Request
	bodies    []string
	setCookie string
}

func (r *recorder) RoundTrip(req *http.Request) (*http.Response, error) {
	body := ""
	if req.Body != nil {
		b, _ := io.ReadAll(req.Body)
		body = string(b)
	}
	r.requests = append(r.requests, req)
	r.bodies = append(r.bodies, body)

	resp := &http.Response{
		StatusCode: 200,
		Header:     make(http.Header),
		Body:       io.NopCloser(strings.NewReader("{}")),
		Request:    req,
	}
	if r.setCookie != "" {
		resp.Header.Set("Set-Cookie", r.setCookie)
	}
	return resp, nil
}

func newJar(t *testing.T, rawURL string, cookies ...*http.Cookie) http.CookieJar {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	jar.SetCookies(u, cookies)
	return jar
}

func TestInterceptingTransport_IncludeSendsCookiesCrossOrigin(t *testing.T) {
	rec := &recorder{}
	jar := newJar(t, "https://other-origin/", &http.Cookie{Name: "session", Value: "s1"})
	client := &http.Client{Transport: &InterceptingTransport{
		Base:        rec,
		Interceptor: IncludeCredentials,
		Origin:      "http://localhost:8080",
		Jar:         jar,
	}}

	req, err := http.NewRequest("GET", "https://other-origin/api", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer abc")
	_, err = client.Do(req)
	require.NoError(t, err)

	require.Len(t, rec.requests, 1)
	sent := rec.requests[0]
	assert.Equal(t, "https://other-origin/api", sent.URL.String())
	assert.Equal(t, "Bearer abc", sent.Header.Get("Authorization"))
	cookie, err := sent.Cookie("session")
	require.NoError(t, err)
	assert.Equal(t, "s1", cookie.Value)
}

func TestInterceptingTransport_DefaultModeIsSameOrigin(t *testing.T) {
	rec := &recorder{}
	jar := newJar(t, "https://other-origin/", &http.Cookie{Name: "session", Value: "s1"})
	client := &http.Client{Transport: &InterceptingTransport{
		Base:   rec,
		Origin: "http://localhost:8080",
		Jar:    jar,
	}}

	req, err := http.NewRequest("GET", "https://other-origin/api", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer abc")
	_, err = client.Do(req)
	require.NoError(t, err)

	sent := rec.requests[0]
	assert.Equal(t, "Bearer abc", sent.Header.Get("Authorization"))
	assert.Empty(t, sent.Header.Get("Cookie"))
}

func TestInterceptingTransport_OmitStripsCookies(t *testing.T) {
	rec := &recorder{}
	omit := func(req RequestDescriptor) RequestDescriptor {
		req.Credentials = CredentialsOmit
		return req
	}
	client := &http.Client{Transport: &InterceptingTransport{Base: rec, Interceptor: omit, Origin: "http://localhost:8080"}}

	req, err := http.NewRequest("GET", "http://localhost:8080/v3/api-docs", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer abc")
	req.Header.Set("Cookie", "session=s1")
	_, err = client.Do(req)
	require.NoError(t, err)

	sent := rec.requests[0]
	assert.Equal(t, "Bearer abc", sent.Header.Get("Authorization"), "caller-set headers are not credentials")
	assert.Empty(t, sent.Header.Get("Cookie"))
}

func TestInterceptingTransport_KeepsMethodAndBody(t *testing.T) {
	rec := &recorder{}
	client := &http.Client{Transport: &InterceptingTransport{Base: rec, Interceptor: IncludeCredentials}}

	req, err := http.NewRequest("POST", "https://api.example.com/orders", strings.NewReader(`{"productIds":[1]}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	_, err = client.Do(req)
	require.NoError(t, err)

	sent := rec.requests[0]
	assert.Equal(t, "POST", sent.Method)
	assert.Equal(t, "application/json", sent.Header.Get("Content-Type"))
	assert.Equal(t, `{"productIds":[1]}`, rec.bodies[0])
}

func TestInterceptingTransport_KeepsRepeatedHeaders(t *testing.T) {
	rec := &recorder{}
	client := &http.Client{Transport: &InterceptingTransport{Base: rec, Interceptor: IncludeCredentials}}

	req, err := http.NewRequest("GET", "https://api.example.com/orders", nil)
	require.NoError(t, err)
	req.Header.Add("X-Multi", "a")
	req.Header.Add("X-Multi", "b")
	req.Header.Add("Accept", "application/json")
	req.Header.Add("Accept", "application/yaml")
	_, err = client.Do(req)
	require.NoError(t, err)

	sent := rec.requests[0]
	assert.Equal(t, []string{"a", "b"}, sent.Header.Values("X-Multi"))
	assert.Equal(t, []string{"application/json", "application/yaml"}, sent.Header.Values("Accept"))
	assert.Equal(t, []string{"a", "b"}, req.Header.Values("X-Multi"), "original request is left untouched")
}

func TestInterceptingTransport_StoresCookies(t *testing.T) {
	rec := &recorder{setCookie: "session=fresh; Path=/"}
	jar := newJar(t, "https://other-origin/")
	client := &http.Client{Transport: &InterceptingTransport{Base: rec, Interceptor: IncludeCredentials, Origin: "http://localhost:8080", Jar: jar}}

	req, err := http.NewRequest("GET", "https://other-origin/login", nil)
	require.NoError(t, err)
	_, err = client.Do(req)
	require.NoError(t, err)

	u, _ := url.Parse("https://other-origin/api")
	cookies := jar.Cookies(u)
	require.Len(t, cookies, 1)
	assert.Equal(t, "fresh", cookies[0].Value)
}

func TestInterceptingTransport_RejectsUnknownMode(t *testing.T) {
	bad := func(req RequestDescriptor) RequestDescriptor {
		req.Credentials = "cors"
		return req
	}
	client := &http.Client{Transport: &InterceptingTransport{Base: &recorder{}, Interceptor: bad}}

	_, err := client.Get("https://api.example.com/")
	assert.Error(t, err)
}

// fiberTransport dispatches requests to an in-process fiber app
func fiberTransport(app *fiber.App, seen *[]*http.Request) http.RoundTripper {
	return roundTripFunc(func(r *http.Request) (*http.Response, error) {
		if seen != nil {
			*seen = append(*seen, r)
		}
		return app.Test(r, -1)
	})
}

func TestViewerClient_DiscoverAndFetch(t *testing.T) {
	app, docs := newDocsApp(t)
	ctx := context.Background()
	require.NoError(t, docs.AddDocument(ctx, "store", []byte(storeDocumentYAML)))
	require.NoError(t, docs.AddDocument(ctx, "admin", []byte(adminDocumentJSON)))
	docs.SetupDocs()

	jar := newJar(t, "http://localhost:8080/", &http.Cookie{Name: "session", Value: "s1"})
	client, err := NewViewerClient("http://localhost:8080", DefaultViewerConfiguration(), jar, nil)
	require.NoError(t, err)

	var seen []*http.Request
	client.WithTransport(fiberTransport(app, &seen))

	sc, err := client.Discover(ctx)
	require.NoError(t, err)
	assert.Equal(t, DiscoveryPath, sc.ConfigURL)
	require.Len(t, sc.Groups(), 2)

	documents, err := client.FetchDocuments(ctx, sc)
	require.NoError(t, err)
	require.Len(t, documents, 2)
	assert.Equal(t, "store", documents[0].Name)
	assert.Equal(t, "Online Store API", documents[0].Title)
	assert.Equal(t, "admin", documents[1].Name)
	assert.Equal(t, "Store Admin API", documents[1].Title)

	require.Len(t, seen, 3)
	assert.Equal(t, "/v3/api-docs/swagger-config", seen[0].URL.Path)
	for _, r := range seen {
		cookie, err := r.Cookie("session")
		require.NoError(t, err, r.URL.Path)
		assert.Equal(t, "s1", cookie.Value)
	}
}

func TestViewerClient_DiscoveryPathMismatch(t *testing.T) {
	app := fiber.New()
	app.Get(DiscoveryPath, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"configUrl": "/api-docs/swagger-config", "url": "/api-docs"})
	})

	client, err := NewViewerClient("http://localhost:8080", DefaultViewerConfiguration(), nil, nil)
	require.NoError(t, err)
	client.WithTransport(fiberTransport(app, nil))

	_, err = client.Discover(context.Background())
	assert.True(t, errors.Is(err, ErrDiscoveryPathMismatch))
}

func TestViewerClient_DiscoveryUnavailable(t *testing.T) {
	client, err := NewViewerClient("http://localhost:8080", DefaultViewerConfiguration(), nil, nil)
	require.NoError(t, err)
	client.WithTransport(fiberTransport(fiber.New(), nil))

	_, err = client.Discover(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestNewViewerClient_InvalidBaseURL(t *testing.T) {
	_, err := NewViewerClient("localhost:8080", DefaultViewerConfiguration(), nil, nil)
	assert.Error(t, err)

	_, err = NewViewerClient("/relative", DefaultViewerConfiguration(), nil, nil)
	assert.Error(t, err)
}
