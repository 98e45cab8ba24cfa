package auth

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/comprebem/comprebem/internal/platform/httpx"
	"github.com/comprebem/comprebem/internal/shared"
)

// Handler exposes the sign-in/sign-out/session endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	sessions *shared.SessionManager
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, sessions *shared.SessionManager) *Handler {
	return &Handler{logger: logger, service: service, sessions: sessions}
}

// MountRoutes registers auth routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.login)
	r.Post("/logout", h.logout)
	r.Get("/session", h.session)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Entrar", "invalid request body")
		return
	}

	user, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		httpx.Problem(w, http.StatusUnauthorized, "Entrar", "email ou senha incorretos")
		return
	}

	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		httpx.Problem(w, http.StatusInternalServerError, "Entrar", "session unavailable")
		return
	}
	sess.SetUser(strconv.FormatInt(user.ID, 10))
	sess.Set("email", user.Email)

	expiresAt := time.Now().Add(h.sessions.TTL())
	if err := h.service.RegisterSession(r.Context(), sess.ID, user.ID, expiresAt, r.RemoteAddr, r.UserAgent()); err != nil {
		h.logger.Warn("register session", slog.Any("error", err))
	}
	h.sessions.NotifySignIn(r.Context(), sess)

	httpx.JSON(w, http.StatusOK, sessionResponse{
		UserID: strconv.FormatInt(user.ID, 10),
		Email:  user.Email,
	})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess != nil {
		if err := h.service.RemoveSession(r.Context(), sess.ID); err != nil {
			h.logger.Warn("remove session", slog.Any("error", err))
		}
		h.sessions.Destroy(sess)
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil || sess.User() == "" {
		httpx.Problem(w, http.StatusUnauthorized, "Sessão", "no active session")
		return
	}
	httpx.JSON(w, http.StatusOK, sessionResponse{
		UserID: sess.User(),
		Email:  sess.Get("email"),
	})
}
