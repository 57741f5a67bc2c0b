package export

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"time"

	"tailorder-be/internal/invoice"
	"tailorder-be/internal/logger"
	"tailorder-be/internal/order"
	"tailorder-be/internal/utils"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"
)

// A4 portrait in points.
const (
	pdfPageWidthPt  = 595.28
	pdfPageHeightPt = 841.89

	jpegQuality = 90
)

// Exporter converts orders into downloadable artifacts. Both adapters
// share one raster path: compute the document, draw it onto a scoped
// render target, capture, encode.
type Exporter struct {
	biz      invoice.BusinessInfo
	now      func() time.Time
	logoPath string
}

func NewExporter(biz invoice.BusinessInfo, now func() time.Time) *Exporter {
	if now == nil {
		now = time.Now
	}
	return &Exporter{biz: biz, now: now, logoPath: biz.LogoPath}
}

// Available reports whether export is possible; callers gate the
// export UI on it.
func (e *Exporter) Available() bool {
	return Available()
}

// rasterize draws the order's invoice and returns it JPEG-encoded.
// The render target is released on every path, including failures,
// and nothing is returned on failure.
func (e *Exporter) rasterize(o *order.Order) ([]byte, *invoice.Document, error) {
	r, err := getRasterizer()
	if err != nil {
		return nil, nil, err
	}

	doc := invoice.BuildDocument(o, e.biz, e.now)

	target := acquireTarget()
	defer target.Release()

	if err := drawDocument(target, doc, r, loadLogo(e.logoPath)); err != nil {
		return nil, nil, fmt.Errorf("draw invoice: %w", err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, target.Image(), &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, nil, fmt.Errorf("encode invoice raster: %w", err)
	}

	return buf.Bytes(), doc, nil
}

// JPEG renders the order as a single raster image, the recommended
// format for very long orders where one PDF page gets too dense.
func (e *Exporter) JPEG(o *order.Order) ([]byte, string, error) {
	data, doc, err := e.rasterize(o)
	if err != nil {
		logger.L().Error("jpeg export failed",
			zap.String("order_id", o.ID), zap.Error(err))
		return nil, "", err
	}

	name := utils.SanitizeFilename(doc.CustomerName) + "_estimate.jpg"
	return data, name, nil
}

// PDF embeds the rendered raster into a single-page portrait A4
// document. The page carries the image, not vector text; visual
// fidelity over text-selectability.
func (e *Exporter) PDF(o *order.Order) ([]byte, string, error) {
	data, doc, err := e.rasterize(o)
	if err != nil {
		logger.L().Error("pdf export failed",
			zap.String("order_id", o.ID), zap.Error(err))
		return nil, "", err
	}

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	opts := gofpdf.ImageOptions{ImageType: "JPG"}
	pdf.RegisterImageOptionsReader("invoice", opts, bytes.NewReader(data))
	pdf.ImageOptions("invoice", 0, 0, pdfPageWidthPt, pdfPageHeightPt, false, opts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		logger.L().Error("pdf export failed",
			zap.String("order_id", o.ID), zap.Error(err))
		return nil, "", fmt.Errorf("assemble pdf: %w", err)
	}

	name := utils.SanitizeFilename(doc.CustomerName) + "_invoice.pdf"
	return buf.Bytes(), name, nil
}
