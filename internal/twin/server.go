package twin

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/unifiedui/admin-console/internal/domain/models"
	"github.com/unifiedui/admin-console/internal/services/adminapi"
)

// Config holds the twin configuration.
type Config struct {
	AdminEmail    string
	AdminPassword string
	// BasePath is prepended to every admin API endpoint, e.g. "/api".
	BasePath  string
	Endpoints adminapi.Endpoints
	TokenTTL  time.Duration
	Secret    []byte
	Logger    *zerolog.Logger
}

// Server is the fake admin API.
type Server struct {
	Store  *MemoryStore
	Faults *FaultRegistry

	cfg      Config
	issuer   *TokenIssuer
	router   *chi.Mux
	logger   zerolog.Logger
	mu       sync.Mutex
	requests map[string]int
}

// NewServer creates a twin and mounts its routes.
func NewServer(cfg *Config) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil, fmt.Errorf("admin credentials are required")
	}

	c := *cfg
	if c.Endpoints == (adminapi.Endpoints{}) {
		c.Endpoints = adminapi.DefaultEndpoints()
	}
	c.BasePath = strings.TrimRight(c.BasePath, "/")

	issuer, err := NewTokenIssuer(c.Secret, c.TokenTTL)
	if err != nil {
		return nil, err
	}

	logger := log.Logger
	if c.Logger != nil {
		logger = *c.Logger
	}

	s := &Server{
		Store:    NewMemoryStore(),
		Faults:   NewFaultRegistry(),
		cfg:      c,
		issuer:   issuer,
		router:   chi.NewRouter(),
		logger:   logger.With().Str("component", "admin-twin").Logger(),
		requests: make(map[string]int),
	}
	s.routes()

	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Requests returns how many requests hit path, faults included.
func (s *Server) Requests(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[s.cfg.BasePath+path]
}

// TotalRequests returns the number of admin API requests received.
func (s *Server) TotalRequests() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, n := range s.requests {
		total += n
	}
	return total
}

// IssueToken mints a valid admin token without a login request.
func (s *Server) IssueToken() (string, error) {
	return s.issuer.Issue(s.cfg.AdminEmail)
}

func (s *Server) routes() {
	r := s.router
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)

	r.Route("/_twin", func(r chi.Router) {
		r.Get("/state", s.handleSnapshot)
		r.Post("/state", s.handleLoadState)
		r.Post("/faults", s.handleSetFault)
		r.Delete("/faults", s.handleClearFaults)
	})

	e := s.cfg.Endpoints
	r.Group(func(r chi.Router) {
		r.Use(s.recordRequest)
		r.Use(s.faultInjection)

		r.Post(s.path(e.Login), s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)
			r.Post(s.path(e.UserIDByEmail), s.handleLookup)
			r.Get(s.path(e.UserFeatures), s.handleGetFeatures)
			r.Post(s.path(e.Subscription), s.handleSubscription)
			r.Put(s.path(e.TokenBalance), s.handleTokenBalance)
			r.Put(s.path(e.UpdateFeatures), s.handleUpdateFeatures)
		})
	})
}

func (s *Server) path(endpoint string) string {
	return s.cfg.BasePath + endpoint
}

func (s *Server) recordRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests[r.URL.Path]++
		s.mu.Unlock()

		s.logger.Debug().Str("method", r.Method).Str("path", r.URL.Path).Msg("admin api request")
		next.ServeHTTP(w, r)
	})
}

func (s *Server) faultInjection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fault, ok := s.Faults.Check(r.URL.Path); ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(fault.StatusCode)
			if fault.Body != "" {
				fmt.Fprint(w, fault.Body)
			} else {
				fmt.Fprintf(w, `{"message":"injected fault","code":%d}`, fault.StatusCode)
			}
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		token := strings.TrimPrefix(auth, "Bearer ")
		if auth == "" || token == auth || token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		if _, err := s.issuer.Verify(token); err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body loginBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !strings.EqualFold(body.Email, s.cfg.AdminEmail) || body.Password != s.cfg.AdminPassword {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := s.issuer.Issue(body.Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"accessToken": token})
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Unknown emails answer 200 with an empty id, like the real API.
	id, _ := s.Store.FindByEmail(body.Email)
	writeJSON(w, http.StatusOK, id)
}

func (s *Server) handleGetFeatures(w http.ResponseWriter, r *http.Request) {
	user, ok := s.Store.Get(r.URL.Query().Get("UserId"))
	if !ok {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, user.Features)
}

func (s *Server) handleSubscription(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID    string `json:"userId"`
		ProductID string `json:"productId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ProductID == "" {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !s.Store.GrantSubscription(body.UserID, body.ProductID) {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "granted"})
}

func (s *Server) handleTokenBalance(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID string `json:"userId"`
		Amount int    `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !s.Store.SetTokenBalance(body.UserID, body.Amount) {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"balance": body.Amount})
}

func (s *Server) handleUpdateFeatures(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID   string                         `json:"userId"`
		Features map[string]models.FeatureValue `json:"features"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !s.Store.MergeFeatures(body.UserID, body.Features) {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Seed{Users: s.Store.Snapshot()})
}

func (s *Server) handleLoadState(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.Store.LoadState(raw); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded"})
}

func (s *Server) handleSetFault(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Path string `json:"path"`
		Fault
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Path == "" || body.StatusCode == 0 {
		writeError(w, http.StatusBadRequest, "path and status_code are required")
		return
	}
	s.Faults.Set(body.Path, body.Fault)
	writeJSON(w, http.StatusOK, map[string]string{"status": "fault set"})
}

func (s *Server) handleClearFaults(w http.ResponseWriter, r *http.Request) {
	s.Faults.Clear()
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"message": message, "code": status})
}
