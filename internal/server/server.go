package server

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/jwtly10/go-nextstep/internal/about"
	"github.com/jwtly10/go-nextstep/internal/country"
	"github.com/jwtly10/go-nextstep/internal/server/middleware"
)

// Server serves the about page and the country lookup over HTTP
type Server struct {
	router    *mux.Router
	handler   http.Handler
	page      *about.Page
	countries *country.Helper
	logger    *slog.Logger
}

type countryResponse struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Asset string `json:"asset,omitempty"`
	Badge string `json:"badge,omitempty"`
	Label string `json:"label"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewServer(page *about.Page, countries *country.Helper, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stdout, nil))
	}

	s := &Server{
		router:    mux.NewRouter(),
		page:      page,
		countries: countries,
		logger:    logger,
	}
	s.routes()
	s.handler = middleware.WithLogging(s.router, logger)
	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/about", s.page.Handler(about.DocumentImpressum)).Methods(http.MethodGet)
	s.router.HandleFunc("/countries/{code}", s.handleCountry).Methods(http.MethodGet)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (s *Server) handleCountry(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	lang := about.RequestLanguage(r)

	c, ok := s.countries.Lookup(code, lang)
	if !ok {
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown country code: " + code})
		return
	}

	w.Header().Set("Content-Language", string(lang))
	s.writeJSON(w, http.StatusOK, countryResponse{
		Code:  c.Code,
		Name:  c.Name,
		Asset: c.Icon.Asset,
		Badge: c.Icon.Badge,
		Label: c.Icon.Label,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("failed to encode response", "error", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(b)
}
