package cli

import (
	"errors"
	"os"

	"github.com/jwtly10/go-nextstep/internal/config"
	"github.com/jwtly10/go-nextstep/internal/country"
	"github.com/urfave/cli/v2"
)

const (
	flagBackground = "background"
	flagFake       = "fake"
	flagLang       = "lang"
)

// NewCommand builds the nextstep command line application
func NewCommand(version string) *cli.App {
	app := cli.NewApp()
	app.Name = "nextstep"
	app.Usage = "Talk to the SwissCovid backends from the terminal"
	app.Version = version
	app.Commands = []*cli.Command{
		{
			Name:  "config",
			Usage: "Load the app config",
			Description: "Uses the cached config while it is valid (12h, or 6h " +
				"with --background).",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:    flagBackground,
					Aliases: []string{"b"},
					Usage:   "Apply the background validity interval",
				},
			},
			Action: withApp(func(c *cli.Context, a *App) error {
				return a.ShowConfig(c.Context, c.Bool(flagBackground))
			}),
		},
		{
			Name:      "onset",
			Usage:     "Exchange a covidcode for an upload token",
			ArgsUsage: "COVIDCODE",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  flagFake,
					Usage: "Send a dummy request the backend discards",
				},
			},
			Action: withApp(func(c *cli.Context, a *App) error {
				if c.Args().Len() != 1 {
					return errors.New("onset requires one argument")
				}
				return a.Onset(c.Context, c.Args().First(), c.Bool(flagFake))
			}),
		},
		{
			Name:  "stats",
			Usage: "Show the public statistics",
			Action: withApp(func(c *cli.Context, a *App) error {
				return a.ShowStats(c.Context)
			}),
		},
		{
			Name:  "prefs",
			Usage: "Show and change stored preferences",
			Action: withApp(func(c *cli.Context, a *App) error {
				return a.ShowPrefs()
			}),
			Subcommands: []*cli.Command{
				{
					Name:  "show",
					Usage: "Show stored preferences",
					Action: withApp(func(c *cli.Context, a *App) error {
						return a.ShowPrefs()
					}),
				},
				{
					Name:  "onboard",
					Usage: "Mark onboarding as completed",
					Action: withApp(func(c *cli.Context, a *App) error {
						return a.SetOnboarding(true)
					}),
				},
				{
					Name:  "reset-onboarding",
					Usage: "Mark onboarding as not completed",
					Action: withApp(func(c *cli.Context, a *App) error {
						return a.SetOnboarding(false)
					}),
				},
			},
		},
		{
			Name:      "country",
			Usage:     "Look up a country by its two letter code",
			ArgsUsage: "CODE",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    flagLang,
					Aliases: []string{"l"},
					Usage:   "Display language (de, fr, it, en)",
				},
			},
			Action: withApp(func(c *cli.Context, a *App) error {
				if c.Args().Len() != 1 {
					return errors.New("country requires one argument")
				}
				lang := a.language()
				if c.String(flagLang) != "" {
					l, ok := country.ParseLanguage(c.String(flagLang))
					if !ok {
						return errors.New("unsupported language: " + c.String(flagLang))
					}
					lang = l
				}
				return a.ShowCountry(c.Args().First(), lang)
			}),
		},
		{
			Name:  "listen",
			Usage: "Listen for push messages",
			Action: withApp(func(c *cli.Context, a *App) error {
				return a.Listen(c.Context)
			}),
		},
	}
	return app
}

// withApp loads the config, opens the app for the duration of the action and
// closes it afterwards
func withApp(action func(c *cli.Context, a *App) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		logger, err := SetupLogger(cfg.App.Level(), c.App.Version)
		if err != nil {
			return err
		}

		a, err := NewApp(cfg, os.Stdout, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		return action(c, a)
	}
}
