package clients

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/comprebem/comprebem/internal/export"
	"github.com/comprebem/comprebem/internal/platform/httpx"
)

// Handler manages client endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	pdf     *export.PDFExporter
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, pdf *export.PDFExporter) *Handler {
	return &Handler{logger: logger, service: service, pdf: pdf}
}

// MountRoutes registers client routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.show)
	r.Post("/", h.create)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.deactivate)
	r.Get("/export.csv", h.exportCSV)
	r.Get("/export.pdf", h.exportPDF)
}

func filterFromQuery(r *http.Request) ListFilter {
	filter := ListFilter{
		SortBy:  r.URL.Query().Get("sort_by"),
		SortDir: r.URL.Query().Get("sort_dir"),
	}
	// Listings default to active rows only; ?active=all lifts the filter so
	// deactivated clients stay reachable for historical lookups.
	switch r.URL.Query().Get("active") {
	case "all":
	case "false":
		v := false
		filter.Active = &v
	default:
		v := true
		filter.Active = &v
	}
	if search := r.URL.Query().Get("search"); search != "" {
		filter.Search = &search
	}
	return filter
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.List(r.Context(), filterFromQuery(r))
	if err != nil {
		h.logger.Error("list clients", slog.Any("error", err))
		httpx.RespondError(w, "Carregar clientes", err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Carregar cliente", "invalid id")
		return
	}
	client, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Carregar cliente", err.Error())
			return
		}
		httpx.RespondError(w, "Carregar cliente", err)
		return
	}
	httpx.JSON(w, http.StatusOK, client)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateClientRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Adicionar cliente", "invalid request body")
		return
	}
	client, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.logger.Error("create client", slog.Any("error", err))
		httpx.Problem(w, http.StatusBadRequest, "Adicionar cliente", err.Error())
		return
	}
	httpx.JSON(w, http.StatusCreated, client)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Atualizar cliente", "invalid id")
		return
	}
	var req UpdateClientRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Atualizar cliente", "invalid request body")
		return
	}
	client, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Atualizar cliente", err.Error())
			return
		}
		httpx.Problem(w, http.StatusBadRequest, "Atualizar cliente", err.Error())
		return
	}
	httpx.JSON(w, http.StatusOK, client)
}

func (h *Handler) deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Desativar cliente", "invalid id")
		return
	}
	if err := h.service.Deactivate(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Desativar cliente", err.Error())
			return
		}
		httpx.RespondError(w, "Desativar cliente", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}

var exportColumns = []string{"ID", "Nome", "CPF/CNPJ", "Email", "Telefone"}

func exportRows(list []Client) [][]string {
	rows := make([][]string, 0, len(list))
	for _, c := range list {
		taxID, phone := "", ""
		if c.TaxID != nil {
			taxID = *c.TaxID
		}
		if c.Phone != nil {
			phone = *c.Phone
		}
		rows = append(rows, []string{
			strconv.FormatInt(c.ID, 10), c.Name, taxID, c.Email, phone,
		})
	}
	return rows
}

func (h *Handler) exportCSV(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context(), filterFromQuery(r))
	if err != nil {
		httpx.RespondError(w, "Exportar clientes", err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="clientes.csv"`)
	if err := export.WriteTabular(w, exportColumns, exportRows(list)); err != nil {
		h.logger.Error("export clients csv", slog.Any("error", err))
	}
}

func (h *Handler) exportPDF(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context(), filterFromQuery(r))
	if err != nil {
		httpx.RespondError(w, "Exportar clientes", err)
		return
	}
	data, err := h.pdf.RenderTable(r.Context(), "Clientes", exportColumns, exportRows(list))
	if err != nil {
		h.logger.Error("export clients pdf", slog.Any("error", err))
		httpx.RespondError(w, "Exportar clientes", err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="clientes.pdf"`)
	_, _ = w.Write(data)
}
