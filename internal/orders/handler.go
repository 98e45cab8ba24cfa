package orders

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/comprebem/comprebem/internal/clients"
	"github.com/comprebem/comprebem/internal/export"
	"github.com/comprebem/comprebem/internal/platform/httpx"
	"github.com/comprebem/comprebem/internal/products"
)

// Handler manages order endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	pdf     *export.PDFExporter
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, pdf *export.PDFExporter) *Handler {
	return &Handler{logger: logger, service: service, pdf: pdf}
}

// MountRoutes registers order routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.show)
	r.Post("/", h.create)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.remove)
	r.Get("/export.csv", h.exportCSV)
	r.Get("/export.pdf", h.exportPDF)
}

func filterFromQuery(r *http.Request) ListFilter {
	filter := ListFilter{
		SortBy:  r.URL.Query().Get("sort_by"),
		SortDir: r.URL.Query().Get("sort_dir"),
	}
	if raw := r.URL.Query().Get("client_id"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filter.ClientID = &id
		}
	}
	return filter
}

// composeStatus maps a composition failure to the HTTP status the
// caller can act on. Reference failures and rule violations are the
// caller's fault; anything else is ours.
func composeStatus(err error) int {
	var vErr *ValidationError
	switch {
	case errors.As(err, &vErr),
		errors.Is(err, clients.ErrNotFound),
		errors.Is(err, products.ErrNotFound):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.List(r.Context(), filterFromQuery(r))
	if err != nil {
		h.logger.Error("list orders", slog.Any("error", err))
		httpx.RespondError(w, "Carregar pedidos", err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Carregar pedido", "invalid id")
		return
	}
	order, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Carregar pedido", err.Error())
			return
		}
		httpx.RespondError(w, "Carregar pedido", err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Registrar pedido", "invalid request body")
		return
	}
	order, err := h.service.Create(r.Context(), req)
	if err != nil {
		status := composeStatus(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("create order", slog.Any("error", err))
		}
		httpx.Problem(w, status, "Registrar pedido", err.Error())
		return
	}
	httpx.JSON(w, http.StatusCreated, order)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Atualizar pedido", "invalid id")
		return
	}
	var req UpdateOrderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Atualizar pedido", "invalid request body")
		return
	}
	order, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Atualizar pedido", err.Error())
			return
		}
		status := composeStatus(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("update order", slog.Any("error", err))
		}
		httpx.Problem(w, status, "Atualizar pedido", err.Error())
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Excluir pedido", "invalid id")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Excluir pedido", err.Error())
			return
		}
		httpx.RespondError(w, "Excluir pedido", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

var exportColumns = []string{"ID", "Cliente", "Data", "Produtos", "Total"}

// lineSummary renders "Name (qty)" entries joined by "; ", the same
// shape the on-screen order list shows.
func lineSummary(lines []OrderLine) string {
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		name := ProductRemovedLabel
		if line.ProductName != nil {
			name = *line.ProductName
		}
		parts = append(parts, name+" ("+strconv.FormatInt(line.Quantity, 10)+")")
	}
	return strings.Join(parts, "; ")
}

func exportRows(list []Order) [][]string {
	rows := make([][]string, 0, len(list))
	for _, o := range list {
		client := ClientRemovedLabel
		if o.ClientName != nil {
			client = *o.ClientName
		}
		rows = append(rows, []string{
			strconv.FormatInt(o.ID, 10),
			client,
			export.FormatDate(o.OrderDate),
			lineSummary(o.Lines),
			export.FormatBRL(o.TotalAmount),
		})
	}
	return rows
}

func (h *Handler) exportCSV(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context(), filterFromQuery(r))
	if err != nil {
		httpx.RespondError(w, "Exportar pedidos", err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="pedidos.csv"`)
	if err := export.WriteTabular(w, exportColumns, exportRows(list)); err != nil {
		h.logger.Error("export orders csv", slog.Any("error", err))
	}
}

func (h *Handler) exportPDF(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context(), filterFromQuery(r))
	if err != nil {
		httpx.RespondError(w, "Exportar pedidos", err)
		return
	}
	data, err := h.pdf.RenderTable(r.Context(), "Pedidos", exportColumns, exportRows(list))
	if err != nil {
		h.logger.Error("export orders pdf", slog.Any("error", err))
		httpx.RespondError(w, "Exportar pedidos", err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="pedidos.pdf"`)
	_, _ = w.Write(data)
}
