package networking

import (
	"bytes"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultTimeout is used by Build when no timeout is given
const DefaultTimeout = 30 * time.Second

// Request is a ready-to-send HTTP request together with the timeout the
// transport should apply when issuing it.
type Request struct {
	*http.Request
	Timeout time.Duration
}

// Build turns the endpoint into a request with DefaultTimeout.
func Build(e Endpoint) *Request {
	return BuildWithTimeout(e, DefaultTimeout)
}

// BuildWithTimeout turns the endpoint into a request. It performs no I/O and
// never fails; a negative timeout is treated as zero.
//
// Headers are applied with Header.Set, one call per entry, so keys are stored
// in canonical form ("accept" becomes "Accept"). Every endpoint header reads
// back unchanged through Header.Get, which canonicalises too. A nil Body leaves
// the request body unset, while a non-nil empty Body becomes http.NoBody.
func BuildWithTimeout(e Endpoint, timeout time.Duration) *Request {
	if timeout < 0 {
		timeout = 0
	}

	u := cloneURL(e.URL)
	req := &http.Request{
		Method:     string(e.Method),
		URL:        u,
		Proto:      "HTTP/1.1",
		ProtoMajor: 1,
		ProtoMinor: 1,
		// net/http refuses to send a request with a nil header map
		Header: make(http.Header),
	}
	if u != nil {
		req.Host = u.Host
	}

	for k, v := range e.Headers {
		req.Header.Set(k, v)
	}

	if e.Body != nil {
		setBody(req, e.Body)
	}

	return &Request{Request: req, Timeout: timeout}
}

func setBody(req *http.Request, body []byte) {
	if len(body) == 0 {
		req.Body = http.NoBody
		req.GetBody = func() (io.ReadCloser, error) { return http.NoBody, nil }
		return
	}

	buf := bytes.Clone(body)
	req.ContentLength = int64(len(buf))
	req.Body = io.NopCloser(bytes.NewReader(buf))
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(buf)), nil
	}
}

// cloneURL copies u so the request never aliases the endpoint's URL
func cloneURL(u *url.URL) *url.URL {
	if u == nil {
		return nil
	}
	u2 := *u
	if u.User != nil {
		u2.User = new(url.Userinfo)
		*u2.User = *u.User
	}
	return &u2
}
