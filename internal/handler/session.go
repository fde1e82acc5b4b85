package handler

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	leadSvc "leadgate/internal/domain/services/lead"
	"leadgate/internal/httputil"
)

// SessionHandler handles widget session HTTP requests.
// Handlers only communicate with services, never repositories.
type SessionHandler struct {
	sessions leadSvc.SessionService
	logger   *slog.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions leadSvc.SessionService, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// HealthCheck reports service liveness
// GET /health
func (h *SessionHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// OpenSession creates a new widget session
// POST /api/sessions
func (h *SessionHandler) OpenSession(w http.ResponseWriter, r *http.Request) {
	var req leadSvc.OpenSessionRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.SiteID = httputil.GetSiteID(r)

	session, err := h.sessions.Open(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, session)
}

// GetSession retrieves a session snapshot
// GET /api/sessions/{id}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDParam(w, r)
	if !ok {
		return
	}

	session, err := h.sessions.Get(r.Context(), sessionID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, session)
}

// SubmitTurn processes one inbound user message and returns the reply
// POST /api/sessions/{id}/turns
func (h *SessionHandler) SubmitTurn(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDParam(w, r)
	if !ok {
		return
	}

	var req leadSvc.TurnRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.SessionID = sessionID

	response, err := h.sessions.SubmitTurn(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, response)
}

// CloseSession handles the visitor dismissing the widget
// POST /api/sessions/{id}/close
func (h *SessionHandler) CloseSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDParam(w, r)
	if !ok {
		return
	}

	if err := h.sessions.Close(r.Context(), sessionID); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Beacon handles abrupt page teardown via navigator.sendBeacon
// POST /api/sessions/{id}/beacon
//
// Always responds 204 immediately: the sender is tearing down and will never
// read the response, and an unknown session is not worth reporting.
func (h *SessionHandler) Beacon(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if _, err := uuid.Parse(sessionID); err == nil {
		if err := h.sessions.Terminate(r.Context(), sessionID); err != nil {
			h.logger.Debug("beacon for unknown session", "session_id", sessionID)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

// sessionIDParam extracts and validates the session ID path parameter.
func sessionIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	sessionID, ok := PathParam(w, r, "id", "Session ID")
	if !ok {
		return "", false
	}

	if _, err := uuid.Parse(sessionID); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid session ID format")
		return "", false
	}

	return sessionID, true
}
