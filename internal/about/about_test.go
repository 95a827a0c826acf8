package about

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jwtly10/go-nextstep/internal/config"
	"github.com/jwtly10/go-nextstep/internal/country"
	"github.com/stretchr/testify/require"
)

func newTestPage(t *testing.T) *Page {
	t.Helper()
	info := NewInfo(&config.AppConfig{
		Environment: config.EnvironmentAbnahme,
		Version:     "2.1.0",
		BuildNumber: "77",
	}, time.Date(2020, 6, 25, 0, 0, 0, 0, time.UTC))

	p, err := NewPage(info, nil)
	require.NoError(t, err)
	return p
}

func TestNewInfo(t *testing.T) {
	released := time.Date(2020, 6, 25, 0, 0, 0, 0, time.UTC)

	info := NewInfo(&config.AppConfig{Environment: config.EnvironmentProd, Version: "1.0.0", BuildNumber: "5"}, released)
	require.Equal(t, "5", info.Build)
	require.Equal(t, "25.06.2020", info.ReleaseDate)

	info = NewInfo(&config.AppConfig{Environment: config.EnvironmentDev, Version: "1.0.0", BuildNumber: "5"}, released)
	require.Equal(t, "5-dev", info.Build)
}

func TestRenderPerLanguage(t *testing.T) {
	p := newTestPage(t)

	tests := []struct {
		lang  country.Language
		title string
	}{
		{lang: country.German, title: "<title>Impressum</title>"},
		{lang: country.English, title: "<title>Legal notice</title>"},
		{lang: country.French, title: "<title>Mentions légales</title>"},
		{lang: country.Italian, title: "<title>Colophon</title>"},
		{lang: country.Language("rm"), title: "<title>Impressum</title>"},
	}

	for _, tt := range tests {
		t.Run(string(tt.lang), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, p.Render(&buf, DocumentImpressum, tt.lang))
			require.Contains(t, buf.String(), tt.title)
			require.Contains(t, buf.String(), "2.1.0 (77-abnahme)")
			require.Contains(t, buf.String(), "25.06.2020")
		})
	}

	require.Error(t, p.Render(&bytes.Buffer{}, "missing", country.German))
}

func TestHandler(t *testing.T) {
	p := newTestPage(t)

	tests := []struct {
		name           string
		doc            string
		query          string
		acceptLanguage string
		wantStatus     int
		wantLanguage   string
	}{
		{name: "default german", doc: DocumentImpressum, wantStatus: http.StatusOK, wantLanguage: "de"},
		{name: "query parameter", doc: DocumentImpressum, query: "?lang=fr", acceptLanguage: "it", wantStatus: http.StatusOK, wantLanguage: "fr"},
		{name: "accept language", doc: DocumentImpressum, acceptLanguage: "es;q=0.9, en-GB;q=0.8", wantStatus: http.StatusOK, wantLanguage: "en"},
		{name: "unknown document", doc: "nope", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/about"+tt.query, nil)
			if tt.acceptLanguage != "" {
				req.Header.Set("Accept-Language", tt.acceptLanguage)
			}
			rec := httptest.NewRecorder()

			p.Handler(tt.doc).ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantLanguage != "" {
				require.Equal(t, tt.wantLanguage, rec.Header().Get("Content-Language"))
				require.Contains(t, rec.Header().Get("Content-Type"), "text/html")
			}
		})
	}
}
