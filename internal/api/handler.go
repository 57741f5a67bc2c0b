package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"tailorder-be/internal/catalog"
	"tailorder-be/internal/export"
	"tailorder-be/internal/invoice"
	"tailorder-be/internal/metrics"
	"tailorder-be/internal/order"
	"tailorder-be/internal/stats"
	"tailorder-be/internal/utils"
)

// Handler owns the JSON surface of the backend. Routes are registered
// with method patterns on the stdlib mux; middleware is layered in
// cmd/server.
type Handler struct {
	orders   order.Service
	catalog  catalog.Service
	stats    stats.Service
	exporter *export.Exporter
	biz      invoice.BusinessInfo
	now      func() time.Time
}

func NewHandler(
	orders order.Service,
	cat catalog.Service,
	st stats.Service,
	exporter *export.Exporter,
	biz invoice.BusinessInfo,
	now func() time.Time,
) *Handler {
	if now == nil {
		now = time.Now
	}
	return &Handler{
		orders:   orders,
		catalog:  cat,
		stats:    st,
		exporter: exporter,
		biz:      biz,
		now:      now,
	}
}

func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", h.health)
	mux.Handle("GET /metrics", metrics.Handler())

	mux.HandleFunc("GET /orders", h.listOrders)
	mux.HandleFunc("POST /orders", h.createOrder)
	mux.HandleFunc("GET /orders/export/csv", h.exportCSV)
	mux.HandleFunc("GET /orders/{id}", h.getOrder)
	mux.HandleFunc("PUT /orders/{id}", h.updateOrder)
	mux.HandleFunc("DELETE /orders/{id}", h.deleteOrder)
	mux.HandleFunc("PATCH /orders/{id}/status", h.setOrderStatus)
	mux.HandleFunc("GET /orders/{id}/invoice", h.invoicePreview)
	mux.HandleFunc("GET /orders/{id}/pdf", h.exportPDF)
	mux.HandleFunc("GET /orders/{id}/jpeg", h.exportJPEG)

	mux.HandleFunc("GET /companies", h.listCompanies)
	mux.HandleFunc("POST /companies", h.createCompany)
	mux.HandleFunc("PUT /companies/{id}", h.updateCompany)
	mux.HandleFunc("DELETE /companies/{id}", h.deleteCompany)

	mux.HandleFunc("GET /products", h.listProducts)
	mux.HandleFunc("POST /products", h.createProduct)
	mux.HandleFunc("GET /products/{id}", h.getProduct)
	mux.HandleFunc("PUT /products/{id}", h.updateProduct)
	mux.HandleFunc("DELETE /products/{id}", h.deleteProduct)

	mux.HandleFunc("GET /stats", h.overview)

	return mux
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decode reads the request body into dst, rejecting unknown fields.
func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// writeOrderError maps domain errors onto HTTP statuses. Validation
// failures carry every violation so the form can show all of them at
// once.
func writeOrderError(w http.ResponseWriter, err error) {
	if v, ok := order.AsValidation(err); ok {
		utils.WriteJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  "validation failed",
			"fields": v.Messages(),
		})
		return
	}

	switch {
	case errors.Is(err, order.ErrOrderNotFound):
		utils.WriteJSONError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, order.ErrInvalidStatus):
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
	default:
		utils.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
	}
}

func writeCatalogError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrCompanyNotFound),
		errors.Is(err, catalog.ErrProductNotFound):
		utils.WriteJSONError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, catalog.ErrNameRequired),
		errors.Is(err, catalog.ErrInvalidPrice):
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
	default:
		utils.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
	}
}
