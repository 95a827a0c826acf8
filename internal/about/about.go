package about

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jwtly10/go-nextstep/internal/config"
	"github.com/jwtly10/go-nextstep/internal/country"
	"golang.org/x/text/language"
)

//go:embed templates/*/*.html
var templatesFS embed.FS

const (
	// DocumentImpressum is the legal notice shown on the about screen
	DocumentImpressum = "impressum"

	defaultContactEmail = "info@bag.admin.ch"
)

// Info is rendered into every document
type Info struct {
	AppVersion   string
	Build        string
	ReleaseDate  string
	ContactEmail string
}

// NewInfo derives the page info from the app config. Non production builds
// carry the environment in the build string.
func NewInfo(cfg *config.AppConfig, released time.Time) Info {
	build := cfg.BuildNumber
	if cfg.Environment != config.EnvironmentProd {
		build = fmt.Sprintf("%s-%s", build, cfg.Environment)
	}
	return Info{
		AppVersion:   cfg.Version,
		Build:        build,
		ReleaseDate:  released.Format("02.01.2006"),
		ContactEmail: defaultContactEmail,
	}
}

type Page struct {
	info      Info
	templates map[country.Language]map[string]*template.Template
	logger    *slog.Logger
}

func NewPage(info Info, logger *slog.Logger) (*Page, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stdout, nil))
	}

	p := &Page{
		info:      info,
		templates: make(map[country.Language]map[string]*template.Template),
		logger:    logger,
	}

	for _, lang := range []country.Language{country.German, country.English, country.French, country.Italian} {
		t, err := template.ParseFS(templatesFS, fmt.Sprintf("templates/%s/*.html", lang))
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s templates: %w", lang, err)
		}
		docs := make(map[string]*template.Template)
		for _, tmpl := range t.Templates() {
			docs[strings.TrimSuffix(tmpl.Name(), ".html")] = tmpl
		}
		p.templates[lang] = docs
	}

	return p, nil
}

// Render writes document in lang, falling back to German when the language
// has no such document.
func (p *Page) Render(w io.Writer, doc string, lang country.Language) error {
	tmpl, ok := p.templates[lang][doc]
	if !ok {
		tmpl, ok = p.templates[country.German][doc]
	}
	if !ok {
		return fmt.Errorf("unknown document: %s", doc)
	}
	return tmpl.Execute(w, p.info)
}

// HasDocument reports whether doc exists in German, the fallback language
func (p *Page) HasDocument(doc string) bool {
	_, ok := p.templates[country.German][doc]
	return ok
}

// Handler serves doc. The language comes from the lang query parameter, then
// the Accept-Language header.
func (p *Page) Handler(doc string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !p.HasDocument(doc) {
			http.NotFound(w, r)
			return
		}

		lang := RequestLanguage(r)

		var buf bytes.Buffer
		if err := p.Render(&buf, doc, lang); err != nil {
			p.logger.Error("Failed to render page", "document", doc, "lang", lang, "error", err)
			http.Error(w, "Failed to render page", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Content-Language", string(lang))
		w.Write(buf.Bytes())
	}
}

// RequestLanguage picks the UI language for r
func RequestLanguage(r *http.Request) country.Language {
	if l, ok := country.ParseLanguage(r.URL.Query().Get("lang")); ok {
		return l
	}

	tags, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language"))
	if err != nil {
		return country.German
	}
	preferred := make([]string, len(tags))
	for i, t := range tags {
		preferred[i] = t.String()
	}
	return country.CurrentLanguage(preferred)
}
