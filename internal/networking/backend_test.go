package networking

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/jwtly10/go-nextstep/internal/config"
	"github.com/stretchr/testify/require"
)

func TestNewBackendRejectsBadURLs(t *testing.T) {
	for _, raw := range []string{"", "not a url", "/relative/path", "://missing"} {
		_, err := NewBackend(raw, "v1")
		require.Error(t, err, raw)
	}
}

func TestBackendVersionedURL(t *testing.T) {
	b, err := NewBackend("https://www.pt.bfs.admin.ch", "v1")
	require.NoError(t, err)
	require.Equal(t, "https://www.pt.bfs.admin.ch/v1", b.VersionedURL().String())

	b, err = NewBackend("https://www.pt.bfs.admin.ch/", "")
	require.NoError(t, err)
	require.Equal(t, "https://www.pt.bfs.admin.ch/", b.VersionedURL().String())
}

func TestBackendEndpointSortsQuery(t *testing.T) {
	b, err := NewBackend("https://www.pt.bfs.admin.ch", "v1")
	require.NoError(t, err)

	e := b.Endpoint("config", WithQuery(map[string]string{
		"osversion":  "linux",
		"appversion": "go-1.0.0",
		"buildnr":    "go-1",
	}))

	require.Equal(t, MethodGet, e.Method)
	require.Equal(t, "https://www.pt.bfs.admin.ch/v1/config?appversion=go-1.0.0&buildnr=go-1&osversion=linux", e.URL.String())
	require.Nil(t, e.Headers)
	require.Nil(t, e.Body)
}

func TestBackendEndpointUnencodableBodyIsAbsent(t *testing.T) {
	b, err := NewBackend("http://localhost", "")
	require.NoError(t, err)

	e := b.Endpoint("x", WithMethod(MethodPost), WithJSONBody(map[string]any{"ch": make(chan int)}))
	require.Nil(t, e.Body)
}

func TestCatalogueEndpoints(t *testing.T) {
	backends, err := NewBackends(&config.AppConfig{Environment: config.EnvironmentProd})
	require.NoError(t, err)

	onset := backends.OnsetEndpoint(AuthorizationRequest{AuthorizationCode: "123456789012", Fake: 1})
	require.Equal(t, MethodPost, onset.Method)
	require.Equal(t, "https://codegen-service.bag.admin.ch/v2/onset", onset.URL.String())
	require.Equal(t, map[string]string{"accept": "*/*", "Content-Type": "application/json"}, onset.Headers)

	var body AuthorizationRequest
	require.NoError(t, json.Unmarshal(onset.Body, &body))
	require.Equal(t, "123456789012", body.AuthorizationCode)
	require.Equal(t, 1, body.Fake)

	stats := backends.StatisticsEndpoint()
	require.Equal(t, MethodGet, stats.Method)
	require.Equal(t, "https://www.pt.bfs.admin.ch/v1/statistics", stats.URL.String())

	cfg := backends.ConfigEndpoint("go-1.0.0", "linux", "go-7")
	require.Equal(t, "https://www.pt.bfs.admin.ch/v1/config?appversion=go-1.0.0&buildnr=go-7&osversion=linux", cfg.URL.String())
}
