package remoteconfig

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/jwtly10/go-nextstep/internal/networking"
	"github.com/jwtly10/go-nextstep/internal/preferences"
	"github.com/xeipuuv/gojsonschema"
)

const (
	ForegroundValidity = 12 * time.Hour
	BackgroundValidity = 6 * time.Hour
)

const (
	keyConfig                    = "config"
	keyLastConfigLoad            = "lastConfigLoad"
	keyLastConfigURL             = "lastConfigURL"
	keyPresentedConfigForVersion = "presentedConfigForVersion"
)

//go:embed schema.json
var schemaJSON string

// Versions identify this client to the config backend
type Versions struct {
	App   string
	OS    string
	Build string
}

func NewVersions(appVersion, buildNumber string) Versions {
	return Versions{
		App:   "go-" + appVersion,
		OS:    runtime.GOOS,
		Build: "go-" + buildNumber,
	}
}

// ChangeHandler is called after a freshly loaded config has been stored
type ChangeHandler func(cfg *Response)

type Manager struct {
	backends *networking.Backends
	client   *networking.Client
	store    *preferences.Store
	versions Versions
	timeout  time.Duration
	schema   gojsonschema.JSONLoader
	logger   *slog.Logger

	mu       sync.Mutex
	onChange ChangeHandler

	now func() time.Time
}

func NewManager(backends *networking.Backends, client *networking.Client, store *preferences.Store, versions Versions, timeout time.Duration, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stdout, nil))
	}
	return &Manager{
		backends: backends,
		client:   client,
		store:    store,
		versions: versions,
		timeout:  timeout,
		schema:   gojsonschema.NewStringLoader(schemaJSON),
		logger:   logger,
		now:      time.Now,
	}
}

// OnChange sets the single subscriber notified after each successful load
func (m *Manager) OnChange(fn ChangeHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = fn
}

// Load returns the current config. The cached config is returned without a
// network call unless the config URL changed or the cache is older than the
// foreground/background validity interval.
func (m *Manager) Load(ctx context.Context, background bool) (*Response, error) {
	req := networking.BuildWithTimeout(
		m.backends.ConfigEndpoint(m.versions.App, m.versions.OS, m.versions.Build),
		m.timeout,
	)
	url := req.URL.String()

	should, err := m.shouldLoad(background, url)
	if err != nil {
		return nil, err
	}
	if !should {
		cached, ok, err := m.Cached()
		if err != nil {
			return nil, err
		}
		if ok {
			m.logger.Info("skipping config load request and returning from cache", "url", url)
			return cached, nil
		}
	}

	m.logger.Info("loading config", "url", url, "background", background)

	var cfg Response
	if _, err := m.client.DoValidatedJSON(ctx, req, m.schema, &cfg); err != nil {
		m.logger.Error("failed to load config", "error", err, "code", networking.ErrorCode(err))
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := m.store.Set(keyConfig, &cfg); err != nil {
		return nil, err
	}
	if err := m.store.SetTime(keyLastConfigLoad, m.now()); err != nil {
		return nil, err
	}
	if err := m.store.SetString(keyLastConfigURL, url); err != nil {
		return nil, err
	}

	m.mu.Lock()
	handler := m.onChange
	m.mu.Unlock()
	if handler != nil {
		handler(&cfg)
	}

	return &cfg, nil
}

// Cached returns the last stored config, if any
func (m *Manager) Cached() (*Response, bool, error) {
	var cfg Response
	if err := m.store.Get(keyConfig, &cfg); err != nil {
		if errors.Is(err, preferences.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &cfg, true, nil
}

func (m *Manager) shouldLoad(background bool, url string) (bool, error) {
	// A changed URL means the app or OS version changed
	lastURL, ok, err := m.store.String(keyLastConfigURL)
	if err != nil {
		return false, err
	}
	if ok && lastURL != url {
		return true, nil
	}

	lastLoad, ok, err := m.store.Time(keyLastConfigLoad)
	if err != nil {
		return false, err
	}
	if !ok {
		return true, nil
	}

	validity := ForegroundValidity
	if background {
		validity = BackgroundValidity
	}
	return m.now().Sub(lastLoad) > validity, nil
}

// ForceUpdateNotice reports whether a force update should be announced for
// cfg. It returns true at most once per app version.
func (m *Manager) ForceUpdateNotice(cfg *Response) (bool, error) {
	if cfg == nil || !cfg.ForceUpdate {
		return false, nil
	}

	presented, _, err := m.store.String(keyPresentedConfigForVersion)
	if err != nil {
		return false, err
	}
	if presented == m.versions.App {
		return false, nil
	}

	if err := m.store.SetString(keyPresentedConfigForVersion, m.versions.App); err != nil {
		return false, err
	}
	return true, nil
}
