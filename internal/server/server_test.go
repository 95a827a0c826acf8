package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/jwtly10/go-nextstep/internal/about"
	"github.com/jwtly10/go-nextstep/internal/config"
	"github.com/jwtly10/go-nextstep/internal/country"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	info := about.NewInfo(&config.AppConfig{
		Environment: config.EnvironmentProd,
		Version:     "1.0.0",
		BuildNumber: "1",
	}, time.Now())
	page, err := about.NewPage(info, nil)
	require.NoError(t, err)

	ts := httptest.NewServer(NewServer(page, country.NewHelper(nil), nil))
	t.Cleanup(ts.Close)
	return ts
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestAbout(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/about?lang=it")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "it", resp.Header.Get("Content-Language"))

	resp, err = http.Post(ts.URL+"/about", "text/plain", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestCountries(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name       string
		path       string
		lang       string
		wantStatus int
		wantName   string
	}{
		{name: "german by default", path: "/countries/ch", wantStatus: http.StatusOK, wantName: "Schweiz"},
		{name: "accept language", path: "/countries/CH", lang: "en-US", wantStatus: http.StatusOK, wantName: "Switzerland"},
		{name: "unknown code", path: "/countries/chx", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, ts.URL+tt.path, nil)
			require.NoError(t, err)
			if tt.lang != "" {
				req.Header.Set("Accept-Language", tt.lang)
			}

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			require.Equal(t, tt.wantStatus, resp.StatusCode)
			require.Equal(t, "application/json", resp.Header.Get("Content-Type"))

			if tt.wantName == "" {
				return
			}

			var body countryResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			require.Equal(t, "CH", body.Code)
			require.Equal(t, tt.wantName, body.Name)
			require.NotEmpty(t, body.Badge)
		})
	}
}
