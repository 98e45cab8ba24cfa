package dashboard

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/comprebem/comprebem/internal/platform/httpx"
)

// Handler serves the dashboard summary.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers dashboard routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.summary)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.logger.Error("dashboard summary", slog.Any("error", err))
		httpx.RespondError(w, "Carregar painel", err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}
