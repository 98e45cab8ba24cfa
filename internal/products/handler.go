package products

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/comprebem/comprebem/internal/export"
	"github.com/comprebem/comprebem/internal/platform/httpx"
)

// Handler manages product endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	pdf     *export.PDFExporter
	now     func() time.Time
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, pdf *export.PDFExporter) *Handler {
	return &Handler{logger: logger, service: service, pdf: pdf, now: time.Now}
}

// MountRoutes registers product routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.show)
	r.Post("/", h.create)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.deactivate)
	r.Get("/export.csv", h.exportCSV)
	r.Get("/export.pdf", h.exportPDF)
}

// productView decorates a product with its validity display text.
type productView struct {
	Product
	Validity string `json:"validity"`
}

func (h *Handler) views(list []Product) []productView {
	today := h.now()
	views := make([]productView, 0, len(list))
	for _, p := range list {
		views = append(views, productView{
			Product:  p,
			Validity: Validity(p.ExpirationDate, today).Text,
		})
	}
	return views
}

func filterFromQuery(r *http.Request) ListFilter {
	filter := ListFilter{
		SortBy:  r.URL.Query().Get("sort_by"),
		SortDir: r.URL.Query().Get("sort_dir"),
	}
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
		h.logger.Error("list products", slog.Any("error", err))
		httpx.RespondError(w, "Carregar produtos", err)
		return
	}
	httpx.JSON(w, http.StatusOK, h.views(result))
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Carregar produto", "invalid id")
		return
	}
	product, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Carregar produto", err.Error())
			return
		}
		httpx.RespondError(w, "Carregar produto", err)
		return
	}
	httpx.JSON(w, http.StatusOK, productView{
		Product:  *product,
		Validity: Validity(product.ExpirationDate, h.now()).Text,
	})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Adicionar produto", "invalid request body")
		return
	}
	product, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.logger.Error("create product", slog.Any("error", err))
		httpx.Problem(w, http.StatusBadRequest, "Adicionar produto", err.Error())
		return
	}
	httpx.JSON(w, http.StatusCreated, product)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Atualizar produto", "invalid id")
		return
	}
	var req UpdateProductRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Atualizar produto", "invalid request body")
		return
	}
	product, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Atualizar produto", err.Error())
			return
		}
		httpx.Problem(w, http.StatusBadRequest, "Atualizar produto", err.Error())
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

func (h *Handler) deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Desativar produto", "invalid id")
		return
	}
	if err := h.service.Deactivate(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Desativar produto", err.Error())
			return
		}
		httpx.RespondError(w, "Desativar produto", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}

var exportColumns = []string{"ID", "Nome", "Preço", "Estoque", "Validade"}

func (h *Handler) exportRows(list []Product) [][]string {
	today := h.now()
	rows := make([][]string, 0, len(list))
	for _, p := range list {
		rows = append(rows, []string{
			strconv.FormatInt(p.ID, 10),
			p.Name,
			export.FormatBRL(p.UnitPrice),
			strconv.FormatInt(p.StockQuantity, 10),
			Validity(p.ExpirationDate, today).Text,
		})
	}
	return rows
}

func (h *Handler) exportCSV(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context(), filterFromQuery(r))
	if err != nil {
		httpx.RespondError(w, "Exportar produtos", err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="produtos.csv"`)
	if err := export.WriteTabular(w, exportColumns, h.exportRows(list)); err != nil {
		h.logger.Error("export products csv", slog.Any("error", err))
	}
}

func (h *Handler) exportPDF(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context(), filterFromQuery(r))
	if err != nil {
		httpx.RespondError(w, "Exportar produtos", err)
		return
	}
	data, err := h.pdf.RenderTable(r.Context(), "Produtos", exportColumns, h.exportRows(list))
	if err != nil {
		h.logger.Error("export products pdf", slog.Any("error", err))
		httpx.RespondError(w, "Exportar produtos", err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="produtos.pdf"`)
	_, _ = w.Write(data)
}
