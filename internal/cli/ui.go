package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gookit/color"
	"github.com/jwtly10/go-nextstep/internal/country"
	"github.com/jwtly10/go-nextstep/internal/push"
	"github.com/jwtly10/go-nextstep/internal/remoteconfig"
	"github.com/jwtly10/go-nextstep/internal/reporting"
	"github.com/jwtly10/go-nextstep/internal/statistics"
)

const divider = "──────────────────────────────────────────\n"

func renderConfig(cfg *remoteconfig.Response, lang country.Language, showUpdate bool) string {
	var b strings.Builder

	b.WriteString(color.Bold.Sprint("⚙️  CONFIG\n"))
	b.WriteString(divider)
	b.WriteString(fmt.Sprintf("   force update: %t\n", cfg.ForceUpdate))

	if showUpdate {
		b.WriteString(color.Yellow.Sprint("   ! A new version is required, please update\n"))
	}

	if box, ok := cfg.InfoBoxFor(string(lang)); ok {
		b.WriteString(fmt.Sprintf("   info: %s\n", box.Title))
		b.WriteString(fmt.Sprintf("         %s\n", box.Msg))
		if box.URL != "" {
			b.WriteString(fmt.Sprintf("         %s\n", box.URL))
		}
	}

	if sdk := cfg.SDKConfig; sdk != nil {
		b.WriteString(fmt.Sprintf("   thresholds: %d/%d dB • factors %.2f/%.2f • trigger %d min\n",
			sdk.LowerThreshold,
			sdk.HigherThreshold,
			sdk.FactorLow,
			sdk.FactorHigh,
			sdk.TriggerThreshold))
	}

	return b.String()
}

func renderOnset(res reporting.Result, fake bool) string {
	var b strings.Builder
	status := color.Green.Sprint("✓")
	if fake {
		status = color.Gray.Sprint("✓ (fake)")
	}
	b.WriteString(fmt.Sprintf("%s covidcode accepted\n", status))
	b.WriteString(fmt.Sprintf("   onset: %s\n", res.Date.Format(reporting.DateLayout)))
	return b.String()
}

func renderInvalidCode() string {
	return color.Red.Sprint("✗ invalid covidcode") + "\n"
}

func renderStats(resp *statistics.Response) string {
	var b strings.Builder

	b.WriteString(color.Bold.Sprint("📊 STATISTICS\n"))
	b.WriteString(divider)
	b.WriteString(fmt.Sprintf("   last updated: %s\n", resp.LastUpdated.Format(statistics.DateLayout)))
	if resp.TotalActiveUsers != nil {
		b.WriteString(fmt.Sprintf("   active apps: %s\n", statistics.FormatCount(resp.TotalActiveUsers)))
	}
	if v := resp.CovidCodes(); v != "" {
		b.WriteString(fmt.Sprintf("   covidcodes entered: %s\n", v))
	}
	if v := resp.CovidCodesAfter0to2d(); v != "" {
		b.WriteString(fmt.Sprintf("   entered within 0-2 days: %s\n", v))
	}
	if v := resp.NewInfectionsAverage(); v != "" {
		b.WriteString(fmt.Sprintf("   new infections (7 day avg): %s", v))
		if rel := resp.NewInfectionsRelative(); rel != "" {
			b.WriteString(fmt.Sprintf(" (%s)", rel))
		}
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("   history: %d days\n", len(resp.History)))

	return b.String()
}

func renderPrefs(summary map[string]string) string {
	var b strings.Builder

	b.WriteString(color.Bold.Sprint("🔧 PREFERENCES\n"))
	b.WriteString(divider)

	keys := make([]string, 0, len(summary))
	for k := range summary {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		b.WriteString(fmt.Sprintf("   %-36s %s\n", k, summary[k]))
	}
	return b.String()
}

func renderCountry(c country.Country) string {
	icon := c.Icon.Asset
	if c.Icon.Generated() {
		icon = "[" + c.Code + "]"
	}
	return fmt.Sprintf("%s %s (%s)\n", icon, color.Bold.Sprint(c.Name), c.Code)
}

func renderListening(url string) string {
	return color.Bold.Sprint("📡 LISTENING ") + url + "\nPress Ctrl+C to quit\n"
}

func renderEvent(ev push.Event) string {
	switch p := ev.Payload.(type) {
	case push.SyncEvent:
		if p.Error != "" {
			return fmt.Sprintf("   [%s] sync %s %s\n", formatTime(p.Timestamp), color.Red.Sprint("✗"), p.Error)
		}
		return fmt.Sprintf("   [%s] sync %s %dms\n", formatTime(p.Timestamp), color.Green.Sprint("✓"), p.Duration.Milliseconds())
	case push.AlertEvent:
		return fmt.Sprintf("   [%s] %s %s: %s\n", formatTime(p.Timestamp), color.Yellow.Sprint("!"), p.Title, p.Body)
	case push.ErrorEvent:
		return fmt.Sprintf("   [%s] %s %s\n", formatTime(p.Timestamp), color.Red.Sprint("✗"), p.Error)
	default:
		return ""
	}
}
