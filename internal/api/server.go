// Package api provides the HTTP API server implementation.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/stash-tracker/internal/logging"
	"github.com/stash-tracker/internal/service"
)

// Service interfaces for dependency injection and testing

// AccountServiceInterface defines the interface for account lifecycle operations
type AccountServiceInterface interface {
	GetAccount(ctx context.Context, name string) (*service.AccountModel, error)
	GetConnection(ctx context.Context, accountName string) (*service.ConnectionModel, error)
	AddAccount(ctx context.Context, model *service.AccountModel) (*service.AccountModel, error)
	EditAccount(ctx context.Context, model *service.AccountModel) (*service.AccountModel, error)
	RemoveAccount(ctx context.Context, name string) (*service.AccountModel, error)
}

// ProfileServiceInterface defines the interface for profile lifecycle operations
type ProfileServiceInterface interface {
	ProfileExists(ctx context.Context, accountName string, model service.SnapshotProfileModel) (*service.SnapshotProfileModel, error)
	GetProfile(ctx context.Context, clientID string) (*service.SnapshotProfileModel, error)
	GetActiveProfileWithSnapshots(ctx context.Context, accountClientID string) (*service.SnapshotProfileModel, error)
	GetProfileWithSnapshots(ctx context.Context, clientID string) (*service.SnapshotProfileModel, error)
	GetAllProfiles(ctx context.Context, accountClientID string) ([]service.SnapshotProfileModel, error)
	AddProfile(ctx context.Context, accountName string, model service.SnapshotProfileModel) (*service.SnapshotProfileModel, error)
	EditProfile(ctx context.Context, accountName string, model service.SnapshotProfileModel) (*service.SnapshotProfileModel, error)
	RemoveProfile(ctx context.Context, accountName, clientID string) (*service.SnapshotProfileModel, error)
	RemoveAllProfiles(ctx context.Context, accountClientID string) error
	ChangeActiveProfile(ctx context.Context, accountName, clientID string) (*service.SnapshotProfileModel, error)
	AddSnapshot(ctx context.Context, profileClientID string, model service.SnapshotModel) (*service.SnapshotModel, error)
}

// Server represents the HTTP API server.
type Server struct {
	router         *mux.Router
	httpServer     *http.Server
	accountService AccountServiceInterface
	profileService ProfileServiceInterface
	config         *ServerConfig
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Host              string
	Port              string
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	RequestsPerSecond int
	Burst             int
}

// NewServer creates a new API server instance.
func NewServer(
	config *ServerConfig,
	accountService AccountServiceInterface,
	profileService ProfileServiceInterface,
) *Server {
	s := &Server{
		router:         mux.NewRouter(),
		accountService: accountService,
		profileService: profileService,
		config:         config,
	}

	s.setupRouter()

	return s
}

// setupRouter configures the router with middleware and routes
func (s *Server) setupRouter() {
	rateLimiter := NewRateLimiter(s.config.RequestsPerSecond, s.config.Burst)

	// Set up middleware (order matters!)
	s.router.Use(LoggingMiddleware)
	s.router.Use(RecoveryMiddleware)
	s.router.Use(CORSMiddleware)
	s.router.Use(RateLimitMiddleware(rateLimiter))
	s.router.Use(CompressionMiddleware)

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%s", s.config.Host, s.config.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check endpoint
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")

	api := s.router.PathPrefix("/api").Subrouter()

	// Account endpoints (keyed by account name)
	api.HandleFunc("/accounts", s.handleAddAccount).Methods("POST")
	api.HandleFunc("/accounts/{name}", s.handleGetAccount).Methods("GET")
	api.HandleFunc("/accounts/{name}", s.handleEditAccount).Methods("PUT")
	api.HandleFunc("/accounts/{name}", s.handleRemoveAccount).Methods("DELETE")
	api.HandleFunc("/accounts/{name}/connection", s.handleGetConnection).Methods("GET")

	// Profile endpoints scoped by account name
	api.HandleFunc("/accounts/{name}/profiles", s.handleAddProfile).Methods("POST")
	api.HandleFunc("/accounts/{name}/profiles/exists", s.handleProfileExists).Methods("POST")
	api.HandleFunc("/accounts/{name}/profiles/{clientId}", s.handleEditProfile).Methods("PUT")
	api.HandleFunc("/accounts/{name}/profiles/{clientId}", s.handleRemoveProfile).Methods("DELETE")
	api.HandleFunc("/accounts/{name}/profiles/{clientId}/activate", s.handleChangeActiveProfile).Methods("POST")

	// Profile endpoints keyed by client identifiers
	api.HandleFunc("/profiles/{clientId}", s.handleGetProfile).Methods("GET")
	api.HandleFunc("/profiles/{clientId}/snapshots", s.handleGetProfileWithSnapshots).Methods("GET")
	api.HandleFunc("/profiles/{clientId}/snapshots", s.handleAddSnapshot).Methods("POST")
	api.HandleFunc("/by-id/{accountClientId}/profiles", s.handleGetAllProfiles).Methods("GET")
	api.HandleFunc("/by-id/{accountClientId}/profiles", s.handleRemoveAllProfiles).Methods("DELETE")
	api.HandleFunc("/by-id/{accountClientId}/profiles/active", s.handleGetActiveProfile).Methods("GET")
}

// handleHealth handles health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "stash-tracker",
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	logging.GetGlobalLogger().Infof("Starting API server on %s", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	logging.GetGlobalLogger().Info("Shutting down API server...")
	return s.httpServer.Shutdown(ctx)
}
