package api

import (
	"bytes"
	"net/http"

	"tailorder-be/internal/export"
	"tailorder-be/internal/logger"
	"tailorder-be/internal/metrics"
	"tailorder-be/internal/order"
	"tailorder-be/internal/utils"

	"go.uber.org/zap"
)

// listFilterFrom reads the optional query filters. Empty parameters
// mean "no filter", never "match empty".
func listFilterFrom(r *http.Request) *order.ListFilter {
	q := r.URL.Query()
	filter := &order.ListFilter{}

	if v := q.Get("status"); v != "" {
		s := order.Status(v)
		filter.Status = &s
	}
	if v := q.Get("month"); v != "" {
		filter.Month = &v
	}
	if v := q.Get("search"); v != "" {
		filter.Search = &v
	}
	return filter
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context(), listFilterFrom(r))
	if err != nil {
		writeOrderError(w, err)
		return
	}
	if orders == nil {
		orders = []*order.Order{}
	}
	utils.WriteJSON(w, http.StatusOK, orders)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	o, err := h.orders.Get(logger.WithOrderID(r.Context(), id), id)
	if err != nil {
		writeOrderError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, o)
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var form order.Form
	if err := decode(r, &form); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	o, err := h.orders.Create(r.Context(), form)
	if err != nil {
		writeOrderError(w, err)
		return
	}

	metrics.RecordOrderOperation("create")
	utils.WriteJSON(w, http.StatusCreated, o)
}

func (h *Handler) updateOrder(w http.ResponseWriter, r *http.Request) {
	var form order.Form
	if err := decode(r, &form); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	id := r.PathValue("id")
	o, err := h.orders.Update(logger.WithOrderID(r.Context(), id), id, form)
	if err != nil {
		writeOrderError(w, err)
		return
	}

	metrics.RecordOrderOperation("update")
	utils.WriteJSON(w, http.StatusOK, o)
}

func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.orders.Delete(logger.WithOrderID(r.Context(), id), id); err != nil {
		writeOrderError(w, err)
		return
	}

	metrics.RecordOrderOperation("delete")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) setOrderStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status order.Status `json:"status"`
	}
	if err := decode(r, &body); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	id := r.PathValue("id")
	if err := h.orders.SetStatus(logger.WithOrderID(r.Context(), id), id, body.Status); err != nil {
		writeOrderError(w, err)
		return
	}

	metrics.RecordOrderOperation("set_status")
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": string(body.Status)})
}

func (h *Handler) exportCSV(w http.ResponseWriter, r *http.Request) {
	track := metrics.TrackExport("csv")

	orders, err := h.orders.List(r.Context(), listFilterFrom(r))
	if err != nil {
		track(err)
		writeOrderError(w, err)
		return
	}

	// Serialize fully before touching the response so a failure never
	// leaves a truncated 200 behind.
	var buf bytes.Buffer
	err = export.WriteOrdersCSV(&buf, orders)
	track(err)
	if err != nil {
		logger.FromCtx(r.Context()).Error("csv export failed", zap.Error(err))
		utils.WriteJSONError(w, "export failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	if r.URL.Query().Get("mode") == "download" {
		w.Header().Set("Content-Disposition", `attachment; filename="orders.csv"`)
	}
	_, _ = buf.WriteTo(w)
}
