package statistics

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jwtly10/go-nextstep/internal/networking"
)

// DateLayout is the date format used throughout the statistics payload
const DateLayout = "2006-01-02"

// Date is a calendar day encoded as yyyy-MM-dd
type Date struct {
	time.Time
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(d.Format(DateLayout))), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// Response is the public statistics document. Optional figures are nil when
// the backend has no value for them.
type Response struct {
	LastUpdated Date `json:"lastUpdated"`

	TotalActiveUsers *int `json:"totalActiveUsers"`

	TotalCovidcodesEntered *int `json:"totalCovidcodesEntered"`
	// Share in [0, 1]
	CovidcodesEntered0to2dPrevWeek *float64 `json:"covidcodesEntered0to2dPrevWeek"`

	NewInfectionsSevenDayAvg *int `json:"newInfectionsSevenDayAvg"`
	// Relative change in [-1, inf)
	NewInfectionsSevenDayAvgRelPrevWeek *float64 `json:"newInfectionsSevenDayAvgRelPrevWeek"`

	History []Entry `json:"history"`
}

type Entry struct {
	Date                         Date `json:"date"`
	NewInfections                *int `json:"newInfections"`
	NewInfectionsSevenDayAverage *int `json:"newInfectionsSevenDayAverage"`
	CovidcodesEntered            *int `json:"covidcodesEntered"`
}

func (r *Response) CovidCodes() string {
	return FormatCount(r.TotalCovidcodesEntered)
}

func (r *Response) CovidCodesAfter0to2d() string {
	return FormatPercent(r.CovidcodesEntered0to2dPrevWeek, false)
}

func (r *Response) NewInfectionsAverage() string {
	return FormatCount(r.NewInfectionsSevenDayAvg)
}

func (r *Response) NewInfectionsRelative() string {
	return FormatPercent(r.NewInfectionsSevenDayAvgRelPrevWeek, true)
}

// FormatCount groups thousands with a space, e.g. 1 234 567. nil yields "".
func FormatCount(n *int) string {
	if n == nil {
		return ""
	}
	digits := strconv.Itoa(*n)
	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}

	var b strings.Builder
	for i, c := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(c)
	}
	return sign + b.String()
}

// FormatPercent renders a ratio as a whole percentage. signed adds a leading +
// to positive values. nil yields "".
func FormatPercent(v *float64, signed bool) string {
	if v == nil {
		return ""
	}
	pct := int(math.Round(*v * 100))
	if signed && pct > 0 {
		return fmt.Sprintf("+%d%%", pct)
	}
	return fmt.Sprintf("%d%%", pct)
}

type Loader struct {
	backends *networking.Backends
	client   *networking.Client
	timeout  time.Duration
	logger   *slog.Logger
}

func NewLoader(backends *networking.Backends, client *networking.Client, timeout time.Duration, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stdout, nil))
	}
	return &Loader{
		backends: backends,
		client:   client,
		timeout:  timeout,
		logger:   logger,
	}
}

// Get fetches the current statistics
func (l *Loader) Get(ctx context.Context) (*Response, error) {
	req := networking.BuildWithTimeout(l.backends.StatisticsEndpoint(), l.timeout)

	var resp Response
	if _, err := l.client.DoJSON(ctx, req, &resp); err != nil {
		l.logger.Error("failed to load statistics", "error", err, "code", networking.ErrorCode(err))
		return nil, fmt.Errorf("failed to load statistics: %w", err)
	}
	return &resp, nil
}
