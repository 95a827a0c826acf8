package cli

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

	"github.com/jwtly10/go-nextstep/internal/config"
	"github.com/jwtly10/go-nextstep/internal/country"
	"github.com/jwtly10/go-nextstep/internal/db"
	"github.com/jwtly10/go-nextstep/internal/networking"
	"github.com/jwtly10/go-nextstep/internal/preferences"
	"github.com/jwtly10/go-nextstep/internal/push"
	"github.com/jwtly10/go-nextstep/internal/remoteconfig"
	"github.com/jwtly10/go-nextstep/internal/reporting"
	"github.com/jwtly10/go-nextstep/internal/statistics"
)

// App wires the client side services for a single CLI invocation
type App struct {
	cfg *config.Config
	db  *db.Database

	user      *preferences.UserStorage
	configs   *remoteconfig.Manager
	validator *reporting.CodeValidator
	stats     *statistics.Loader
	countries *country.Helper

	out    io.Writer
	logger *slog.Logger
}

func NewApp(cfg *config.Config, out io.Writer, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stdout, nil))
	}

	d, err := db.Initialize(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	backends, err := networking.NewBackends(&cfg.App)
	if err != nil {
		d.Close()
		return nil, err
	}

	client := networking.NewClient(&http.Client{}, logger)
	store := preferences.NewStore(d)
	timeout := cfg.App.RequestTimeout

	a := &App{
		cfg:       cfg,
		db:        d,
		user:      preferences.NewUserStorage(store),
		configs:   remoteconfig.NewManager(backends, client, store, remoteconfig.NewVersions(cfg.App.Version, cfg.App.BuildNumber), timeout, logger),
		validator: reporting.NewCodeValidator(backends, client, timeout, logger),
		stats:     statistics.NewLoader(backends, client, timeout, logger),
		countries: country.NewHelper(nil),
		out:       out,
		logger:    logger,
	}

	a.user.OnOnboardingChanged(func(completed bool) {
		a.logger.Info("onboarding state changed", "completed", completed)
	})

	return a, nil
}

func (a *App) Close() error {
	return a.db.Close()
}

// ShowConfig loads the remote config, from cache when still valid
func (a *App) ShowConfig(ctx context.Context, background bool) error {
	cfg, err := a.configs.Load(ctx, background)
	if err != nil {
		return fmt.Errorf("%w (code %s)", err, networking.ErrorCode(err))
	}

	showUpdate, err := a.configs.ForceUpdateNotice(cfg)
	if err != nil {
		return err
	}

	fmt.Fprint(a.out, renderConfig(cfg, a.language(), showUpdate))
	return nil
}

// Onset exchanges a covidcode for an upload token
func (a *App) Onset(ctx context.Context, code string, fake bool) error {
	code = strings.ReplaceAll(code, " ", "")
	res, err := a.validator.SendCodeRequest(ctx, code, fake)
	if errors.Is(err, reporting.ErrInvalidToken) {
		fmt.Fprint(a.out, renderInvalidCode())
		return err
	}
	if err != nil {
		return fmt.Errorf("%w (code %s)", err, networking.ErrorCode(err))
	}

	if !fake {
		if err := a.user.SetDidMarkAsInfected(true); err != nil {
			return err
		}
	}

	fmt.Fprint(a.out, renderOnset(res, fake))
	return nil
}

func (a *App) ShowStats(ctx context.Context) error {
	resp, err := a.stats.Get(ctx)
	if err != nil {
		return fmt.Errorf("%w (code %s)", err, networking.ErrorCode(err))
	}
	fmt.Fprint(a.out, renderStats(resp))
	return nil
}

func (a *App) ShowPrefs() error {
	summary, err := a.user.Summary()
	if err != nil {
		return err
	}
	fmt.Fprint(a.out, renderPrefs(summary))
	return nil
}

func (a *App) SetOnboarding(completed bool) error {
	if err := a.user.SetHasCompletedOnboarding(completed); err != nil {
		return err
	}
	return a.ShowPrefs()
}

func (a *App) ShowCountry(code string, lang country.Language) error {
	c, ok := a.countries.Lookup(code, lang)
	if !ok {
		return fmt.Errorf("unknown country code: %s", code)
	}
	fmt.Fprint(a.out, renderCountry(c))
	return nil
}

// Listen handles push messages until ctx is cancelled. A silent push
// triggers a background config load.
func (a *App) Listen(ctx context.Context) error {
	wsConfig, err := a.cfg.App.NewPushConfig()
	if err != nil {
		return err
	}

	listener := push.NewListener(wsConfig, a.user, func(ctx context.Context) error {
		_, err := a.configs.Load(ctx, true)
		return err
	}, func(ev push.Event) {
		fmt.Fprint(a.out, renderEvent(ev))
	}, a.logger)

	fmt.Fprint(a.out, renderListening(a.cfg.App.PushURL))
	return listener.Run(ctx)
}

func (a *App) language() country.Language {
	return country.CurrentLanguage([]string{os.Getenv("LANG")})
}

func formatTime(t time.Time) string {
	return t.Local().Format("02.01.2006 15:04")
}
