package cli

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gookit/color"
	"github.com/jwtly10/go-nextstep/internal/config"
	"github.com/jwtly10/go-nextstep/internal/country"
	"github.com/jwtly10/go-nextstep/internal/proto"
	"github.com/jwtly10/go-nextstep/internal/reporting"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"
)

const validCode = "123456789012"

func testToken() string {
	payload := base64.RawURLEncoding.EncodeToString([]byte(`{"onset":"2020-06-02"}`))
	return "eyJhbGciOiJSUzI1NiJ9." + payload + ".c2ln"
}

func newBackendServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/config", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"forceUpdate": true, "infoBox": null, "iOSGaenSdkConfig": {"lowerThreshold": 53, "higherThreshold": 60, "factorLow": 1.0, "factorHigh": 0.5, "triggerThreshold": 15}}`))
	})
	mux.HandleFunc("/v1/statistics", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"lastUpdated": "2020-11-20", "totalActiveUsers": 1912345, "totalCovidcodesEntered": 43210, "history": []}`))
	})
	mux.HandleFunc("/v2/onset", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), validCode) {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"accessToken":"` + testToken() + `"}`))
	})
	mux.Handle("/push", websocket.Handler(func(ws *websocket.Conn) {
		websocket.JSON.Send(ws, proto.Message{
			Type:    proto.MessageTypeAlert,
			Payload: proto.AlertPayload{Title: "Neue Info", Body: "Bitte App öffnen"},
		})
	}))

	return httptest.NewServer(mux)
}

func setupApp(t *testing.T) (*App, *bytes.Buffer, func()) {
	t.Helper()
	color.Enable = false

	ts := newBackendServer(t)
	cfg := &config.Config{
		App: config.AppConfig{
			Environment:    config.EnvironmentDev,
			Version:        "1.0.0",
			BuildNumber:    "1",
			RequestTimeout: 5 * time.Second,
			ConfigURL:      ts.URL,
			CodegenURL:     ts.URL,
			PushURL:        "ws" + strings.TrimPrefix(ts.URL, "http") + "/push",
			LogLevel:       "debug",
		},
		Database: config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "cli.db")},
	}

	var out bytes.Buffer
	a, err := NewApp(cfg, &out, nil)
	require.NoError(t, err)

	return a, &out, func() {
		a.Close()
		ts.Close()
	}
}

func TestShowConfig(t *testing.T) {
	a, out, cleanup := setupApp(t)
	defer cleanup()

	require.NoError(t, a.ShowConfig(context.Background(), false))
	require.Contains(t, out.String(), "force update: true")
	require.Contains(t, out.String(), "A new version is required")
	require.Contains(t, out.String(), "53/60 dB")

	// The force update notice is shown once per version
	out.Reset()
	require.NoError(t, a.ShowConfig(context.Background(), false))
	require.NotContains(t, out.String(), "A new version is required")
}

func TestOnset(t *testing.T) {
	a, out, cleanup := setupApp(t)
	defer cleanup()

	require.NoError(t, a.Onset(context.Background(), "1234 5678 9012", false))
	require.Contains(t, out.String(), "covidcode accepted")
	require.Contains(t, out.String(), "onset: 2020-06-02")

	infected, err := a.user.DidMarkAsInfected()
	require.NoError(t, err)
	require.True(t, infected)

	out.Reset()
	err = a.Onset(context.Background(), "000000000000", false)
	require.ErrorIs(t, err, reporting.ErrInvalidToken)
	require.Contains(t, out.String(), "invalid covidcode")
}

func TestFakeOnsetDoesNotMarkInfected(t *testing.T) {
	a, _, cleanup := setupApp(t)
	defer cleanup()

	require.NoError(t, a.Onset(context.Background(), validCode, true))

	infected, err := a.user.DidMarkAsInfected()
	require.NoError(t, err)
	require.False(t, infected)
}

func TestShowStats(t *testing.T) {
	a, out, cleanup := setupApp(t)
	defer cleanup()

	require.NoError(t, a.ShowStats(context.Background()))
	require.Contains(t, out.String(), "active apps: 1 912 345")
	require.Contains(t, out.String(), "covidcodes entered: 43 210")
	require.NotContains(t, out.String(), "new infections")
}

func TestPrefs(t *testing.T) {
	a, out, cleanup := setupApp(t)
	defer cleanup()

	require.NoError(t, a.SetOnboarding(true))
	require.Contains(t, out.String(), "hasCompletedOnboarding")

	completed, err := a.user.HasCompletedUpdateBoardingGermany()
	require.NoError(t, err)
	require.True(t, completed)
}

func TestShowCountry(t *testing.T) {
	a, out, cleanup := setupApp(t)
	defer cleanup()

	require.NoError(t, a.ShowCountry("ch", country.French))
	require.Equal(t, "[CH] Suisse (CH)\n", out.String())

	require.Error(t, a.ShowCountry("zzz", country.German))
}

func TestListen(t *testing.T) {
	a, out, cleanup := setupApp(t)
	defer cleanup()

	// The test server sends one alert and hangs up
	require.Error(t, a.Listen(context.Background()))
	require.Contains(t, out.String(), "Neue Info: Bitte App öffnen")
	require.Contains(t, out.String(), "lost connection to push server")

	pushed, ok, err := a.user.LastPushed()
	require.NoError(t, err)
	require.True(t, ok)
	require.False(t, pushed.IsZero())
}
