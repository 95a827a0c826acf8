package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestWithLogging(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	handler := WithLogging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}), logger)

	tests := []struct {
		name      string
		requestID string
		keep      bool
	}{
		{name: "keeps a valid request id", requestID: uuid.NewString(), keep: true},
		{name: "replaces an invalid request id", requestID: "not-a-uuid", keep: false},
		{name: "generates a missing request id", requestID: "", keep: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs.Reset()
			req := httptest.NewRequest(http.MethodGet, "/about", nil)
			if tt.requestID != "" {
				req.Header.Set(RequestIDHeader, tt.requestID)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			got := rec.Header().Get(RequestIDHeader)
			_, err := uuid.Parse(got)
			require.NoError(t, err)
			if tt.keep {
				require.Equal(t, tt.requestID, got)
			} else {
				require.NotEqual(t, tt.requestID, got)
			}

			require.Equal(t, http.StatusTeapot, rec.Code)
			require.Contains(t, logs.String(), "status=418")
			require.Contains(t, logs.String(), "request_id="+got)
		})
	}
}
