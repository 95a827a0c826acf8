package networking

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatusErrorKeepsCode(t *testing.T) {
	for _, code := range []int{0, 300, 400, 404, 418, 500, 503, 999, -1} {
		t.Run(fmt.Sprint(code), func(t *testing.T) {
			var err error = &StatusError{StatusCode: code}

			got, ok := StatusCode(err)
			require.True(t, ok)
			require.Equal(t, code, got)

			// Still found when wrapped by a caller
			got, ok = StatusCode(fmt.Errorf("failed to load config: %w", err))
			require.True(t, ok)
			require.Equal(t, code, got)
		})
	}
}

func TestStatusErrorRanges(t *testing.T) {
	require.True(t, (&StatusError{StatusCode: 404}).IsClientError())
	require.False(t, (&StatusError{StatusCode: 404}).IsServerError())
	require.True(t, (&StatusError{StatusCode: 502}).IsServerError())
	require.False(t, (&StatusError{StatusCode: 502}).IsClientError())
	require.False(t, (&StatusError{StatusCode: 302}).IsClientError())
}

func TestClassify(t *testing.T) {
	cause := errors.New("connection refused")

	tests := []struct {
		name     string
		err      error
		wantKind Kind
		wantCode string
	}{
		{name: "transport", err: &TransportError{Err: cause}, wantKind: KindTransport, wantCode: "NET"},
		{name: "status", err: &StatusError{StatusCode: 404}, wantKind: KindStatus, wantCode: "ST404"},
		{name: "parse", err: &ParseError{}, wantKind: KindParse, wantCode: "PARSE"},
		{name: "wrapped parse", err: fmt.Errorf("loading: %w", &ParseError{Err: cause}), wantKind: KindParse, wantCode: "PARSE"},
		{name: "foreign error", err: cause, wantKind: KindUnknown, wantCode: "UNKNOWN"},
		{name: "nil", err: nil, wantKind: KindUnknown, wantCode: "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.wantKind, Classify(tt.err))
			require.Equal(t, tt.wantCode, ErrorCode(tt.err))
		})
	}
}

func TestTransportErrorUnwraps(t *testing.T) {
	cause := errors.New("dial tcp: no route to host")
	err := &TransportError{Err: cause}

	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "no route to host")
	require.Equal(t, "network error", (&TransportError{}).Error())
}
