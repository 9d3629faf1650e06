package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ncseq/seqserver/internal/api/handler"
	apimiddleware "github.com/ncseq/seqserver/internal/api/middleware"
	"github.com/ncseq/seqserver/internal/middleware"
	"github.com/ncseq/seqserver/internal/services/coordinator"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger      *slog.Logger
	Coordinator *coordinator.Controller
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	sessionHandler := handler.NewSessionHandler(cfg.Coordinator)

	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := apimiddleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Session routes
	api.HandleFunc("/sessions", sessionHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/sessions", sessionHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{code}", sessionHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{code}/join", sessionHandler.Join).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{code}/start", sessionHandler.Start).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{code}/wait", sessionHandler.Wait).Methods(http.MethodGet)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
