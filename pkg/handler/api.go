// Package handler exposes the simulation over HTTP.
//
// Every route below /api except register and login requires a Bearer token.
// Session routes operate on the caller's in-memory controller held by a
// session.Registry; the store only sees explicit draft saves, completed
// simulations and account changes.
package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/AccelByte/extend-khetscore-simulation/pkg/catalog"
	"github.com/AccelByte/extend-khetscore-simulation/pkg/farmer"
	"github.com/AccelByte/extend-khetscore-simulation/pkg/scoring"
	"github.com/AccelByte/extend-khetscore-simulation/pkg/service"
	"github.com/AccelByte/extend-khetscore-simulation/pkg/session"
	"github.com/AccelByte/extend-khetscore-simulation/pkg/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const defaultSearchLimit = 20

// Config configures the API.
type Config struct {
	JWTSecret      []byte
	TokenTTL       time.Duration
	AllowedOrigins []string
}

// Dependencies are the collaborators the API serves.
type Dependencies struct {
	Users       service.UserRepository
	Simulations service.SimulationRepository
	Drafts      service.DraftRepository
	Farmers     *farmer.Directory
	Catalog     *catalog.Catalog
	Engine      *scoring.Engine
	Sessions    *session.Registry
	Health      *store.HealthChecker
}

// API holds the HTTP handlers.
type API struct {
	Dependencies
	cfg Config
}

// New creates the API. TokenTTL defaults to 24h.
func New(deps Dependencies, cfg Config) *API {
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	if deps.Sessions == nil {
		deps.Sessions = session.NewRegistry()
	}
	return &API{Dependencies: deps, cfg: cfg}
}

// Routes wires middlewares and endpoints.
func (a *API) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(traceRequest)
	if len(a.cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   a.cfg.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/healthz", a.handleHealth)

	r.Route("/api", func(api chi.Router) {
		api.Post("/auth/register", a.handleRegister)
		api.Post("/auth/login", a.handleLogin)

		api.Group(func(pr chi.Router) {
			pr.Use(a.authenticate)

			pr.Post("/auth/logout", a.handleLogout)
			pr.Get("/me", a.handleMe)
			pr.Get("/catalog", a.handleCatalog)

			pr.Get("/farmers", a.handleSearchFarmers)
			pr.Get("/farmers/{id}", a.handleGetFarmer)

			pr.Get("/draft", a.handleGetDraft)
			pr.Delete("/draft", a.handleDiscardDraft)

			pr.Route("/session", func(sr chi.Router) {
				sr.Post("/", a.handleStartSession)
				sr.Get("/", a.handleGetSession)
				sr.Post("/resume", a.handleResumeSession)
				sr.Post("/begin", a.handleBegin)
				sr.Put("/practices", a.handleSelectPractices)
				sr.Post("/practices/{id}/toggle", a.handleTogglePractice)
				sr.Post("/practices/submit", a.handleSubmitPractices)
				sr.Post("/acknowledge", a.handleAcknowledge)
				sr.Put("/likelihood", a.handleSetLikelihood)
				sr.Post("/likelihood/submit", a.handleSubmitLikelihood)
				sr.Post("/back", a.handleBack)
				sr.Post("/draft", a.handleSaveDraft)
				sr.Post("/save", a.handleSaveSimulation)
				sr.Get("/export", a.handleExportSession)
			})

			pr.Route("/simulations", func(sr chi.Router) {
				sr.Get("/", a.handleListSimulations)
				sr.Get("/export", a.handleExportSimulations)
				sr.Get("/stats", a.handleSimulationStats)
				sr.Get("/{id}", a.handleGetSimulation)
				sr.Get("/{id}/export", a.handleExportSimulation)
			})
		})
	})

	return r
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  service.User `json:"user"`
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := a.Users.Register(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	a.respondWithToken(w, r, http.StatusCreated, user)
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := a.Users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	a.respondWithToken(w, r, http.StatusOK, user)
}

func (a *API) respondWithToken(w http.ResponseWriter, r *http.Request, status int, user service.User) {
	token, err := signToken(a.cfg.JWTSecret, user.Username, a.cfg.TokenTTL)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, status, authResponse{Token: token, User: user})
}

func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	username := usernameFrom(r)
	a.dropSession(username)

	persisted := logPersistence(r, a.Users.Logout(r.Context(), username))
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true, "persisted": persisted})
}

func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := a.Users.Get(r.Context(), usernameFrom(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user.Public())
}

type catalogResponse struct {
	Practices     []catalog.Practice      `json:"practices"`
	Categories    []catalog.CategoryGroup `json:"categories"`
	WeatherShocks []catalog.WeatherShock  `json:"weatherShocks"`
	Likelihoods   []session.Likelihood    `json:"likelihoods"`
	MinPractices  int                     `json:"minPractices"`
	Seasons       int                     `json:"seasons"`
}

func (a *API) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalogResponse{
		Practices:     a.Catalog.Practices(),
		Categories:    a.Catalog.Categories(),
		WeatherShocks: a.Catalog.Shocks(),
		Likelihoods:   session.Likelihoods,
		MinPractices:  scoring.MinPractices,
		Seasons:       session.Seasons,
	})
}

func (a *API) handleSearchFarmers(w http.ResponseWriter, r *http.Request) {
	limit := defaultSearchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid limit"})
			return
		}
		limit = n
	}

	var farmers []farmer.Farmer
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		farmers = a.Farmers.Search(q, limit)
	} else {
		farmers = a.Farmers.All()
		if len(farmers) > limit {
			farmers = farmers[:limit]
		}
	}
	if farmers == nil {
		farmers = []farmer.Farmer{}
	}
	writeJSON(w, http.StatusOK, farmers)
}

func (a *API) handleGetFarmer(w http.ResponseWriter, r *http.Request) {
	f, err := a.Farmers.Lookup(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	if a.Health == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}
	if err := a.Health.Check(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
