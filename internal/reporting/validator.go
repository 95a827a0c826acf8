package reporting

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/jwtly10/go-nextstep/internal/networking"
)

// ErrInvalidToken is returned when the backend does not know the covidcode
var ErrInvalidToken = errors.New("invalid covidcode")

// DateLayout is the format of the keydate and onset claims
const DateLayout = "2006-01-02"

// Result is a successful code exchange
type Result struct {
	Token string
	Date  time.Time
}

type authorizationResponse struct {
	AccessToken string `json:"accessToken"`
}

type tokenClaims struct {
	KeyDate string `json:"keydate"`
	Onset   string `json:"onset"`
}

type CodeValidator struct {
	backends *networking.Backends
	client   *networking.Client
	timeout  time.Duration
	logger   *slog.Logger
}

func NewCodeValidator(backends *networking.Backends, client *networking.Client, timeout time.Duration, logger *slog.Logger) *CodeValidator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stdout, nil))
	}
	return &CodeValidator{
		backends: backends,
		client:   client,
		timeout:  timeout,
		logger:   logger,
	}
}

// SendCodeRequest exchanges a covidcode for an upload token and the date of
// symptom onset. Fake requests are sent with fake=1 and must be discarded by
// the backend.
func (v *CodeValidator) SendCodeRequest(ctx context.Context, code string, fake bool) (Result, error) {
	auth := networking.AuthorizationRequest{AuthorizationCode: code}
	if fake {
		auth.Fake = 1
	}

	req := networking.BuildWithTimeout(v.backends.OnsetEndpoint(auth), v.timeout)

	var body authorizationResponse
	if _, err := v.client.DoJSON(ctx, req, &body); err != nil {
		if status, ok := networking.StatusCode(err); ok && status == http.StatusNotFound {
			v.logger.Info("covidcode rejected by backend", "fake", fake)
			return Result{}, ErrInvalidToken
		}
		v.logger.Error("failed to send code request", "error", err, "code", networking.ErrorCode(err))
		return Result{}, fmt.Errorf("failed to send code request: %w", err)
	}

	claims, err := decodeClaims(body.AccessToken)
	if err != nil {
		return Result{}, &networking.ParseError{Err: err}
	}

	dateString := claims.KeyDate
	if dateString == "" {
		dateString = claims.Onset
	}
	if dateString == "" {
		return Result{}, &networking.ParseError{Err: errors.New("token has neither keydate nor onset")}
	}

	date, err := time.Parse(DateLayout, dateString)
	if err != nil {
		return Result{}, &networking.ParseError{Err: fmt.Errorf("invalid onset date %q: %w", dateString, err)}
	}

	return Result{Token: body.AccessToken, Date: date}, nil
}

// decodeClaims reads the payload segment of a JWT. The signature is not verified.
func decodeClaims(token string) (*tokenClaims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("token has %d segments, want 3", len(parts))
	}

	payload, err := decodeSegment(parts[1])
	if err != nil {
		return nil, fmt.Errorf("failed to decode token payload: %w", err)
	}

	var claims tokenClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, fmt.Errorf("failed to parse token payload: %w", err)
	}
	return &claims, nil
}

// decodeSegment accepts url-safe and standard base64, padded or not
func decodeSegment(seg string) ([]byte, error) {
	seg = strings.NewReplacer("-", "+", "_", "/").Replace(seg)
	if m := len(seg) % 4; m != 0 {
		seg += strings.Repeat("=", 4-m)
	}
	return base64.StdEncoding.DecodeString(seg)
}
