package networking

import (
	"net/http"
	"net/url"
)

type Method string

const (
	MethodGet    Method = http.MethodGet
	MethodPost   Method = http.MethodPost
	MethodPut    Method = http.MethodPut
	MethodDelete Method = http.MethodDelete
)

// Endpoint is a declarative description of an outbound call. Headers and Body
// are optional: nil means absent, which is different from empty for Body.
type Endpoint struct {
	Method  Method
	URL     *url.URL
	Headers map[string]string
	Body    []byte
}
