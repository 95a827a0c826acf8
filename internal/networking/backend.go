package networking

import (
	"fmt"
	"net/url"

	"github.com/goccy/go-json"
)

// Backend is a versioned service root, e.g. https://www.pt.bfs.admin.ch/v1
type Backend struct {
	BaseURL *url.URL
	Version string
}

func NewBackend(rawURL, version string) (Backend, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Backend{}, fmt.Errorf("invalid backend url %q: %w", rawURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return Backend{}, fmt.Errorf("invalid backend url %q: missing scheme or host", rawURL)
	}
	// JoinPath keeps a relative path relative, which would break the request line
	if u.Path == "" {
		u.Path = "/"
	}
	return Backend{BaseURL: u, Version: version}, nil
}

// VersionedURL returns the base URL with the version appended as a path segment
func (b Backend) VersionedURL() *url.URL {
	if b.Version == "" {
		return cloneURL(b.BaseURL)
	}
	return b.BaseURL.JoinPath(b.Version)
}

type endpointOptions struct {
	method  Method
	headers map[string]string
	query   url.Values
	body    any
}

type EndpointOption func(*endpointOptions)

func WithMethod(m Method) EndpointOption {
	return func(o *endpointOptions) {
		o.method = m
	}
}

func WithHeaders(h map[string]string) EndpointOption {
	return func(o *endpointOptions) {
		o.headers = h
	}
}

// WithQuery sets query parameters; they are serialised sorted by key
func WithQuery(q map[string]string) EndpointOption {
	return func(o *endpointOptions) {
		o.query = make(url.Values, len(q))
		for k, v := range q {
			o.query.Set(k, v)
		}
	}
}

// WithJSONBody sets a body that is JSON encoded when the endpoint is created.
// If encoding fails the endpoint has no body.
func WithJSONBody(v any) EndpointOption {
	return func(o *endpointOptions) {
		o.body = v
	}
}

// Endpoint describes a call to path below the versioned URL. GET is the default method.
func (b Backend) Endpoint(path string, opts ...EndpointOption) Endpoint {
	o := endpointOptions{method: MethodGet}
	for _, opt := range opts {
		opt(&o)
	}

	u := b.VersionedURL().JoinPath(path)
	if len(o.query) > 0 {
		u.RawQuery = o.query.Encode()
	}

	var body []byte
	if o.body != nil {
		if data, err := json.Marshal(o.body); err == nil {
			body = data
		}
	}

	return Endpoint{
		Method:  o.method,
		URL:     u,
		Headers: o.headers,
		Body:    body,
	}
}
