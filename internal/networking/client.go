package networking

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/xeipuuv/gojsonschema"
)

// Response is a fully read HTTP response
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Client issues built requests and reports failures using the
// TransportError / StatusError / ParseError taxonomy.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stdout, nil))
	}
	return &Client{
		httpClient: httpClient,
		logger:     logger,
	}
}

// Do sends the request, honouring req.Timeout. On a non-2xx status both the
// response and a *StatusError are returned.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	r := req.Request.WithContext(ctx)
	// Use a fresh body so the same Request can be sent more than once
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, &TransportError{Err: fmt.Errorf("failed to rewind request body: %w", err)}
		}
		r.Body = body
	}

	start := time.Now()
	resp, err := c.httpClient.Do(r)
	if err != nil {
		c.logger.Error("request failed", "method", r.Method, "url", requestURL(r), "error", err)
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("failed to read response body", "method", r.Method, "url", requestURL(r), "error", err)
		return nil, &TransportError{Err: err}
	}

	c.logger.Debug("http exchange",
		"method", r.Method,
		"url", requestURL(r),
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	out := &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return out, &StatusError{StatusCode: resp.StatusCode}
	}

	return out, nil
}

// DoJSON sends the request and decodes a successful response body into out
func (c *Client) DoJSON(ctx context.Context, req *Request, out any) (*Response, error) {
	return c.DoValidatedJSON(ctx, req, nil, out)
}

// DoValidatedJSON is DoJSON with the body checked against schema first. A nil
// schema skips validation.
func (c *Client) DoValidatedJSON(ctx context.Context, req *Request, schema gojsonschema.JSONLoader, out any) (*Response, error) {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return resp, err
	}

	if schema != nil {
		if err := validateBody(schema, resp.Body); err != nil {
			return resp, &ParseError{Err: err}
		}
	}

	if err := json.Unmarshal(resp.Body, out); err != nil {
		return resp, &ParseError{Err: err}
	}

	return resp, nil
}

func validateBody(schema gojsonschema.JSONLoader, body []byte) error {
	result, err := gojsonschema.Validate(schema, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("could not validate response body: %w", err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, verr := range result.Errors() {
			errs[i] = verr.String()
		}
		return errors.New("response body failed JSON validation: " + strings.Join(errs, "; "))
	}
	return nil
}

// requestURL is safe to log for requests built from an endpoint without a URL
func requestURL(r *http.Request) string {
	if r.URL == nil {
		return ""
	}
	return r.URL.String()
}
