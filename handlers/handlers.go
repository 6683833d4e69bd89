package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"

	"leavedesk/auth"
	"leavedesk/config"
	"leavedesk/database"
	"leavedesk/leave"
	"leavedesk/models"
)

type contextKey int

const userContextKey contextKey = iota

// Handler holds the HTTP surface. The cookie store signs the cookie that
// carries the opaque session token; the token itself is resolved through
// the Authenticator.
type Handler struct {
	cfg     *config.Config
	auth    *auth.Authenticator
	engine  *leave.Engine
	cookies *sessions.CookieStore
}

func NewHandler(cfg *config.Config, authenticator *auth.Authenticator, engine *leave.Engine) *Handler {
	cookies := sessions.NewCookieStore([]byte(cfg.Session.SecretKey))
	cookies.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   cfg.Session.MaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	return &Handler{
		cfg:     cfg,
		auth:    authenticator,
		engine:  engine,
		cookies: cookies,
	}
}

// Routes builds the route table. Everything below the first three routes
// goes through the authentication gateway.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", h.HealthHandler)
	mux.HandleFunc("POST /register", h.RegisterHandler)
	mux.HandleFunc("POST /login", h.LoginHandler)
	mux.HandleFunc("GET /logout", h.LogoutHandler)

	mux.HandleFunc("GET /leave-requests", h.AuthMiddleware(h.ListLeaveRequestsHandler))
	mux.HandleFunc("POST /submit-leave-request", h.AuthMiddleware(h.SubmitLeaveRequestHandler))
	mux.HandleFunc("POST /approve-leave/{id}", h.AuthMiddleware(h.ApproveLeaveHandler))
	mux.HandleFunc("DELETE /delete-leave-request/{id}", h.AuthMiddleware(h.DeleteLeaveRequestHandler))

	return mux
}

// --- User Handlers ---

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")

	if username == "" || password == "" {
		writeErrorMessage(w, http.StatusBadRequest, "Username and password are required.")
		return
	}

	user, err := h.auth.Register(username, password)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message":  "User registered successfully.",
		"username": user.Username,
	})
}

func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")

	token, err := h.auth.Login(username, password)
	if err != nil {
		h.writeError(w, err)
		return
	}

	session, _ := h.cookies.Get(r, h.cfg.Session.Name)
	session.Values["token"] = token
	if err := session.Save(r, w); err != nil {
		logrus.Errorf("Failed to save session cookie: %v", err)
		writeErrorMessage(w, http.StatusInternalServerError, "Could not establish session.")
		return
	}

	http.Redirect(w, r, "/leave-requests", http.StatusSeeOther)
}

func (h *Handler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	session, _ := h.cookies.Get(r, h.cfg.Session.Name)
	if token, ok := session.Values["token"].(string); ok {
		h.auth.Logout(token)
	}
	session.Options.MaxAge = -1
	session.Save(r, w)

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// --- Leave Handlers ---

func (h *Handler) ListLeaveRequestsHandler(w http.ResponseWriter, r *http.Request) {
	views, err := h.engine.ListAll()
	if err != nil {
		h.writeError(w, err)
		return
	}
	if views == nil {
		views = []models.LeaveRequestView{}
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handler) SubmitLeaveRequestHandler(w http.ResponseWriter, r *http.Request) {
	caller := currentUser(r)

	date, err := time.Parse("2006-01-02", r.FormValue("date"))
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid date format. Use YYYY-MM-DD.")
		return
	}
	reason := r.FormValue("reason")

	req, err := h.engine.Submit(caller.ID, date, reason)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Leave request submitted successfully.",
		"request": req,
	})
}

func (h *Handler) ApproveLeaveHandler(w http.ResponseWriter, r *http.Request) {
	caller := currentUser(r)

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid leave request ID.")
		return
	}

	if err := h.engine.Approve(caller, id); err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Leave request approved."})
}

func (h *Handler) DeleteLeaveRequestHandler(w http.ResponseWriter, r *http.Request) {
	caller := currentUser(r)

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid leave request ID.")
		return
	}

	if err := h.engine.Delete(caller, id); err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Leave request deleted."})
}

// --- Middleware ---

// AuthMiddleware resolves the caller from the session cookie before the
// wrapped handler runs. Unauthenticated requests never reach business
// logic. Authorization (403) is decided later, inside the policy engine.
func (h *Handler) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := h.cookies.Get(r, h.cfg.Session.Name)
		token, _ := session.Values["token"].(string)

		user, err := h.auth.CurrentUser(token)
		if err != nil {
			h.writeError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// currentUser returns the caller placed in the context by AuthMiddleware.
func currentUser(r *http.Request) *models.User {
	user, _ := r.Context().Value(userContextKey).(*models.User)
	return user
}

// --- Responses ---

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeErrorMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeError maps each domain error to its fixed status code. Every core
// operation returns exactly one of these kinds; anything else is a server
// fault.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrUnauthenticated),
		errors.Is(err, auth.ErrInvalidCredentials):
		writeErrorMessage(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, leave.ErrNotAuthorized):
		writeErrorMessage(w, http.StatusForbidden, err.Error())
	case errors.Is(err, leave.ErrNotFound):
		writeErrorMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, database.ErrDuplicateUsername),
		errors.Is(err, database.ErrDuplicateDate),
		errors.Is(err, leave.ErrQuotaExceeded),
		errors.Is(err, leave.ErrTooFarInAdvance),
		errors.Is(err, leave.ErrPastDate):
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
	default:
		logrus.Errorf("Unhandled error: %v", err)
		writeErrorMessage(w, http.StatusInternalServerError, "Internal server error.")
	}
}
