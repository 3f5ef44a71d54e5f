package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/jigoor/internal/common"
	"github.com/ternarybob/jigoor/internal/session"
)

// SessionCookieName holds the browser's session id
const SessionCookieName = "jigoor_session"

type tagRequest struct {
	Key    string `json:"key"`
	Value  string `json:"value"`
	Remove string `json:"remove"`
}

type submitRequest struct {
	Input string `json:"input"`
}

type dataSourceRequest struct {
	Source string `json:"source"`
	Count  string `json:"count"`
}

// SessionHandler serves the per-browser state endpoints. Searches and news requests
// are answered immediately; their results arrive over the websocket.
type SessionHandler struct {
	ctx       context.Context
	logger    arbor.ILogger
	store     *session.Store
	presenter Presenter
}

// NewSessionHandler creates the handler. ctx bounds the background fetches and is
// cancelled on shutdown.
func NewSessionHandler(ctx context.Context, store *session.Store, presenter Presenter, logger arbor.ILogger) *SessionHandler {
	return &SessionHandler{
		ctx:       ctx,
		logger:    logger,
		store:     store,
		presenter: presenter,
	}
}

func sessionIDFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// session resolves the caller's session, issuing a new cookie when it is unknown
func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) *session.Session {
	sess, created := h.store.GetOrCreate(sessionIDFromRequest(r))
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookieName,
			Value:    sess.ID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return sess
}

// GetSessionHandler returns the caller's current state
func (h *SessionHandler) GetSessionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	sess := h.session(w, r)
	WriteJSON(w, http.StatusOK, h.presenter.View(sess.Snapshot()))
}

// TagsHandler applies a key press from the tag input, or removes a tag
func (h *SessionHandler) TagsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req tagRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sess := h.session(w, r)

	if req.Remove != "" {
		WriteJSON(w, http.StatusOK, h.presenter.View(sess.RemoveTag(req.Remove)))
		return
	}

	state, submit := sess.HandleKey(req.Key, req.Value)
	if submit {
		h.startSearch(w, sess, state.Input)
		return
	}
	WriteJSON(w, http.StatusOK, h.presenter.View(state))
}

// SubmitHandler starts a search for the session's tags plus any pending input
func (h *SessionHandler) SubmitHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req submitRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	h.startSearch(w, h.session(w, r), req.Input)
}

func (h *SessionHandler) startSearch(w http.ResponseWriter, sess *session.Session, pending string) {
	ticket, state, err := sess.StartSearch(pending)
	if errors.Is(err, session.ErrNoTags) {
		WriteJSON(w, http.StatusBadRequest, h.presenter.View(state))
		return
	}

	h.logger.Info().
		Str("session", sess.ID).
		Strs("tags", ticket.Tags).
		Str("data_source", string(ticket.DataSource)).
		Msg("Search started")

	common.SafeGo(h.logger, "search", func() {
		sess.RunSearch(h.ctx, ticket)
	})

	WriteJSON(w, http.StatusAccepted, h.presenter.View(state))
}

// NewsHandler handles POST /api/signals/{id}/news
func (h *SessionHandler) NewsHandler(w http.ResponseWriter, r *http.Request) {
	signalID, ok := newsSignalID(r.URL.Path)
	if !ok {
		WriteError(w, http.StatusNotFound, "Not Found")
		return
	}
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	sess := h.session(w, r)
	ticket, state, err := sess.BeginNews(signalID)
	switch {
	case errors.Is(err, session.ErrNewsInFlight):
		WriteError(w, http.StatusConflict, "A news analysis is already in progress.")
		return
	case errors.Is(err, session.ErrSignalNotFound):
		WriteError(w, http.StatusNotFound, "Signal not found")
		return
	}

	h.logger.Info().
		Str("session", sess.ID).
		Str("asset", ticket.AssetName).
		Msg("News analysis started")

	common.SafeGo(h.logger, "news", func() {
		sess.RunNews(h.ctx, ticket)
	})

	WriteJSON(w, http.StatusAccepted, h.presenter.View(state))
}

// newsSignalID extracts {id} from /api/signals/{id}/news
func newsSignalID(path string) (string, bool) {
	rest := strings.TrimPrefix(path, "/api/signals/")
	if rest == path || !strings.HasSuffix(rest, "/news") {
		return "", false
	}
	id := strings.TrimSuffix(rest, "/news")
	if id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}

// DataSourceHandler switches the data source and signal count
func (h *SessionHandler) DataSourceHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req dataSourceRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sess := h.session(w, r)
	state, err := sess.SetDataSource(session.DataSource(req.Source), session.ClampSignalCount(req.Count))
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, h.presenter.View(state))
}

// ConfigErrorHandler answers every API call when the application is misconfigured
func ConfigErrorHandler(message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":  "error",
			"error":   ConfigErrorTitle,
			"details": message,
		})
	}
}
