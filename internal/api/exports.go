package api

import (
	"fmt"
	"net/http"
	"strconv"

	"tailorder-be/internal/invoice"
	"tailorder-be/internal/logger"
	"tailorder-be/internal/metrics"
	"tailorder-be/internal/utils"
)

// invoicePreview renders the invoice as a standalone HTML page the
// dashboard embeds for on-screen review.
func (h *Handler) invoicePreview(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	o, err := h.orders.Get(logger.WithOrderID(r.Context(), id), id)
	if err != nil {
		writeOrderError(w, err)
		return
	}

	doc := invoice.BuildDocument(o, h.biz, h.now)
	html, err := invoice.RenderHTML(doc)
	if err != nil {
		utils.WriteJSONError(w, "failed to render invoice", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, html)
}

func (h *Handler) exportPDF(w http.ResponseWriter, r *http.Request) {
	h.exportDocument(w, r, "pdf")
}

func (h *Handler) exportJPEG(w http.ResponseWriter, r *http.Request) {
	h.exportDocument(w, r, "jpeg")
}

// exportDocument runs the shared rasterize-then-encode path. The
// document is fully rendered in memory before the first byte is
// written, so a failed render never leaks a partial response.
func (h *Handler) exportDocument(w http.ResponseWriter, r *http.Request, format string) {
	if !h.exporter.Available() {
		utils.WriteJSONError(w, "document rendering unavailable", http.StatusServiceUnavailable)
		return
	}

	id := r.PathValue("id")
	o, err := h.orders.Get(logger.WithOrderID(r.Context(), id), id)
	if err != nil {
		writeOrderError(w, err)
		return
	}

	track := metrics.TrackExport(format)

	var (
		data        []byte
		name        string
		contentType string
	)
	switch format {
	case "pdf":
		data, name, err = h.exporter.PDF(o)
		contentType = "application/pdf"
	default:
		data, name, err = h.exporter.JPEG(o)
		contentType = "image/jpeg"
	}
	track(err)
	if err != nil {
		utils.WriteJSONError(w, fmt.Sprintf("export failed: %v", err), http.StatusInternalServerError)
		return
	}

	disposition := "inline"
	if r.URL.Query().Get("mode") == "download" {
		disposition = "attachment"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, name))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
	_, _ = w.Write(data)
}

func (h *Handler) overview(w http.ResponseWriter, r *http.Request) {
	months := 12
	if v := r.URL.Query().Get("months"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			utils.WriteJSONError(w, "months must be a number", http.StatusBadRequest)
			return
		}
		months = n
	}

	result, err := h.stats.Overview(r.Context(), months)
	if err != nil {
		utils.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}
