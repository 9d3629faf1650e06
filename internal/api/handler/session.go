package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/ncseq/seqserver/internal/api/apierr"
	"github.com/ncseq/seqserver/internal/api/request"
	"github.com/ncseq/seqserver/internal/api/response"
	"github.com/ncseq/seqserver/internal/model"
	"github.com/ncseq/seqserver/internal/services/coordinator"
)

// MaxWaitTimeout caps the client-requested long-poll duration
const MaxWaitTimeout = 10 * time.Minute

// SessionHandler handles session-related endpoints
type SessionHandler struct {
	coordinator *coordinator.Controller
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(c *coordinator.Controller) *SessionHandler {
	return &SessionHandler{coordinator: c}
}

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	result, err := h.coordinator.CreateSession(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.CreateSessionFromResult(result))
}

// Join handles POST /api/v1/sessions/{code}/join
func (h *SessionHandler) Join(w http.ResponseWriter, r *http.Request) {
	code := model.GameCode(mux.Vars(r)["code"])

	var req request.JoinSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Allow empty body for an anonymous join
		req = request.JoinSessionRequest{}
	}

	result, err := h.coordinator.JoinSession(r.Context(), code, req.Name)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.JoinFromResult(result))
}

// Start handles POST /api/v1/sessions/{code}/start
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	code := model.GameCode(mux.Vars(r)["code"])

	token, err := bearerToken(r)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	snapshot, err := h.coordinator.StartSession(r.Context(), code, token)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SnapshotFromModel(snapshot))
}

// Wait handles GET /api/v1/sessions/{code}/wait
// The request completes once the session starts (immediately if it already
// has), or fails with WAIT_TIMEOUT when the wait deadline passes.
func (h *SessionHandler) Wait(w http.ResponseWriter, r *http.Request) {
	code := model.GameCode(mux.Vars(r)["code"])

	token, err := bearerToken(r)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	ctx := r.Context()
	if raw := r.URL.Query().Get("timeout"); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil || timeout <= 0 {
			apierr.WriteError(w, apierr.NewInvalidRequestError("timeout must be a positive duration"))
			return
		}
		if timeout > MaxWaitTimeout {
			timeout = MaxWaitTimeout
		}
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	snapshot, err := h.coordinator.WaitForStart(ctx, code, token)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SnapshotFromModel(snapshot))
}

// Get handles GET /api/v1/sessions/{code}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := model.GameCode(mux.Vars(r)["code"])

	token, err := bearerToken(r)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	snapshot, err := h.coordinator.GetSnapshot(r.Context(), code, token)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SnapshotFromModel(snapshot))
}

// List handles GET /api/v1/sessions
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.coordinator.ListSessions(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionListFromModels(records))
}

// bearerToken extracts the uint32 capability token from the request's
// Authorization header
func bearerToken(r *http.Request) (model.Token, error) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return 0, apierr.NewUnauthorizedError()
	}

	raw := strings.TrimPrefix(authHeader, "Bearer ")
	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, apierr.NewInvalidRequestError("token must be a decimal uint32")
	}
	return model.Token(value), nil
}
