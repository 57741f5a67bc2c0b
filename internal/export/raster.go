package export

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/png"
	"os"
	"sync"

	"tailorder-be/internal/invoice"
	"tailorder-be/internal/logger"
	"tailorder-be/internal/utils"

	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	_ "golang.org/x/image/webp"
)

// A4 at 96 DPI, rendered at 2x for print-quality rasters.
const (
	pageWidthPx  = 794
	pageHeightPx = 1123
	renderScale  = 2

	canvasWidth  = pageWidthPx * renderScale
	canvasHeight = pageHeightPx * renderScale

	marginPx = 40 * renderScale
)

var ErrRasterUnavailable = errors.New("rasterizer unavailable")

// rasterizer holds the parsed fonts shared by every render. It is
// resolved lazily on first use so non-export paths never pay for it.
type rasterizer struct {
	regular *opentype.Font
	bold    *opentype.Font
}

var (
	rasterOnce sync.Once
	raster     *rasterizer
	rasterErr  error
)

func getRasterizer() (*rasterizer, error) {
	rasterOnce.Do(func() {
		regular, err := opentype.Parse(goregular.TTF)
		if err != nil {
			rasterErr = fmt.Errorf("parse regular font: %w", err)
			return
		}
		bold, err := opentype.Parse(gobold.TTF)
		if err != nil {
			rasterErr = fmt.Errorf("parse bold font: %w", err)
			return
		}
		raster = &rasterizer{regular: regular, bold: bold}
	})

	if rasterErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrRasterUnavailable, rasterErr)
	}
	return raster, nil
}

// Available reports whether the rasterizer can render; export UI
// should be gated on it.
func Available() bool {
	_, err := getRasterizer()
	return err == nil
}

var canvasPool = sync.Pool{
	New: func() any {
		return image.NewRGBA(image.Rect(0, 0, canvasWidth, canvasHeight))
	},
}

// renderTarget is a disposable off-screen canvas. Acquire it, draw,
// capture, and release; Release must run on every exit path so the
// backing buffer returns to the pool exactly once.
type renderTarget struct {
	img      *image.RGBA
	released bool
}

func acquireTarget() *renderTarget {
	img := canvasPool.Get().(*image.RGBA)
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	return &renderTarget{img: img}
}

func (t *renderTarget) Release() {
	if t.released {
		return
	}
	t.released = true
	canvasPool.Put(t.img)
}

func (t *renderTarget) Image() image.Image {
	return t.img
}

func (r *rasterizer) face(f *opentype.Font, sizePx int) (font.Face, error) {
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(sizePx),
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// loadLogo reads the configured logo, tolerating png and webp. A
// broken or missing logo degrades to no logo rather than failing the
// export.
func loadLogo(path string) image.Image {
	if path == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		logger.L().Warn("invoice logo unreadable, rendering without it",
			zap.String("path", path), zap.Error(err))
		return nil
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		logger.L().Warn("invoice logo undecodable, rendering without it",
			zap.String("path", path), zap.Error(err))
		return nil
	}
	return img
}

type pen struct {
	img  *image.RGBA
	face font.Face
	col  color.Color
}

func (p *pen) text(x, y int, s string) {
	d := &font.Drawer{
		Dst:  p.img,
		Src:  image.NewUniform(p.col),
		Face: p.face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

func (p *pen) textRight(right, y int, s string) {
	w := font.MeasureString(p.face, s).Ceil()
	p.text(right-w, y, s)
}

func (p *pen) textCenter(left, rightEdge, y int, s string) {
	w := font.MeasureString(p.face, s).Ceil()
	p.text(left+(rightEdge-left-w)/2, y, s)
}

func fillRect(img *image.RGBA, x0, y0, x1, y1 int, c color.Color) {
	draw.Draw(img, image.Rect(x0, y0, x1, y1), image.NewUniform(c), image.Point{}, draw.Src)
}

func hline(img *image.RGBA, x0, x1, y, thickness int, c color.Color) {
	fillRect(img, x0, y, x1, y+thickness, c)
}

func vline(img *image.RGBA, x, y0, y1, thickness int, c color.Color) {
	fillRect(img, x, y0, x+thickness, y1, c)
}

var (
	inkColor    = color.RGBA{0x22, 0x22, 0x22, 0xff}
	gridColor   = color.RGBA{0x88, 0x88, 0x88, 0xff}
	shadeColor  = color.RGBA{0xf0, 0xf0, 0xf0, 0xff}
	mutedColor  = color.RGBA{0x44, 0x44, 0x44, 0xff}
	logoBoxSize = 56 * renderScale
)

// Table column layout as fractions of the content width.
var columnWidths = []float64{0.05, 0.29, 0.10, 0.10, 0.08, 0.14, 0.14, 0.10}

var columnTitles = []string{"#", "Item", "Size", "Color", "Qty", "Unit Price", "Amount", "Remarks"}

// drawDocument paints the full invoice onto the target. Layout mirrors
// the HTML renderer: same tiers, same row order, same summary block.
func drawDocument(t *renderTarget, doc *invoice.Document, r *rasterizer, logo image.Image) error {
	img := t.img

	bodyPx := doc.Layout.FontSizePx * renderScale
	rowPad := doc.Layout.RowPaddingPx * renderScale

	titleFace, err := r.face(r.bold, 24*renderScale)
	if err != nil {
		return fmt.Errorf("title face: %w", err)
	}
	smallFace, err := r.face(r.regular, 11*renderScale)
	if err != nil {
		return fmt.Errorf("small face: %w", err)
	}
	bodyFace, err := r.face(r.regular, bodyPx)
	if err != nil {
		return fmt.Errorf("body face: %w", err)
	}
	bodyBoldFace, err := r.face(r.bold, bodyPx)
	if err != nil {
		return fmt.Errorf("body bold face: %w", err)
	}

	title := &pen{img: img, face: titleFace, col: inkColor}
	small := &pen{img: img, face: smallFace, col: mutedColor}
	body := &pen{img: img, face: bodyFace, col: inkColor}
	bodyBold := &pen{img: img, face: bodyBoldFace, col: inkColor}

	left := marginPx
	right := canvasWidth - marginPx
	y := marginPx + 24*renderScale

	// Header: logo + title on the left, business identity on the right.
	titleX := left
	if logo != nil {
		dst := image.Rect(left, marginPx, left+logoBoxSize, marginPx+logoBoxSize)
		draw.Draw(img, dst, resizeToBox(logo, logoBoxSize), image.Point{}, draw.Over)
		titleX += logoBoxSize + 12*renderScale
	}
	title.text(titleX, y, "ORDER INVOICE")

	bizY := marginPx + 14*renderScale
	for _, line := range businessLines(doc.Business) {
		small.textRight(right, bizY, line)
		bizY += 15 * renderScale
	}
	if bizY < y {
		bizY = y
	}

	y = bizY + 10*renderScale
	hline(img, left, right, y, 2*renderScale, inkColor)
	y += 22 * renderScale

	// Order metadata block.
	meta := []string{
		fmt.Sprintf("Order %s (issued %s)", doc.OrderID, doc.IssuedOn),
		customerLine(doc),
	}
	if doc.Address != "" {
		meta = append(meta, "Ship to: "+doc.Address)
	}
	if doc.PaymentMethod != "" {
		meta = append(meta, "Payment: "+doc.PaymentMethod)
	}
	meta = append(meta, "Order date: "+doc.OrderDate)

	for _, line := range meta {
		body.text(left, y, line)
		y += bodyPx + 6*renderScale
	}
	y += 8 * renderScale

	// Table.
	contentWidth := right - left
	colX := make([]int, len(columnWidths)+1)
	colX[0] = left
	for i, wfrac := range columnWidths {
		colX[i+1] = colX[i] + int(float64(contentWidth)*wfrac)
	}
	colX[len(colX)-1] = right

	rowH := bodyPx + 2*rowPad + 4*renderScale
	baseline := func(top int) int { return top + rowH - rowPad - 4*renderScale }

	// Header row.
	fillRect(img, left, y, right, y+rowH, shadeColor)
	hline(img, left, right, y, renderScale, gridColor)
	for i, name := range columnTitles {
		bodyBold.textCenter(colX[i], colX[i+1], baseline(y), name)
	}
	y += rowH

	for i, row := range doc.Rows {
		hline(img, left, right, y, renderScale, gridColor)

		body.textCenter(colX[0], colX[1], baseline(y), fmt.Sprintf("%d", i+1))
		body.textCenter(colX[1], colX[2], baseline(y), row.Label)
		body.textCenter(colX[2], colX[3], baseline(y), row.Size)
		body.textCenter(colX[3], colX[4], baseline(y), row.Color)
		body.textCenter(colX[4], colX[5], baseline(y), fmt.Sprintf("%d", row.Quantity))
		body.textRight(colX[6]-6*renderScale, baseline(y), utils.FormatMoney(row.UnitPrice))
		body.textRight(colX[7]-6*renderScale, baseline(y), utils.FormatMoney(row.Total))
		body.textCenter(colX[7], colX[8], baseline(y), row.Remarks)

		y += rowH
	}
	hline(img, left, right, y, renderScale, gridColor)

	tableTop := y - rowH*(len(doc.Rows)+1)
	for _, x := range colX {
		vline(img, x, tableTop, y, renderScale, gridColor)
	}
	y += 18 * renderScale

	// Summary block, right-aligned like the HTML footer table.
	summary := []struct {
		label string
		value string
		bold  bool
	}{
		{"Total quantity", fmt.Sprintf("%d EA", doc.TotalQuantity), false},
		{"Supply amount", utils.FormatMoney(doc.GrandTotal), false},
		{"VAT (10%)", utils.FormatMoney(doc.VAT), false},
		{"Total incl. VAT", utils.FormatMoney(doc.TotalWithVAT), true},
	}
	labelRight := right - 160*renderScale
	for _, s := range summary {
		p := body
		if s.bold {
			p = bodyBold
		}
		p.textRight(labelRight, y, s.label)
		p.textRight(right, y, s.value)
		y += bodyPx + 8*renderScale
	}

	// Footer: bank details and the fixed legal text.
	y = canvasHeight - marginPx - 40*renderScale
	hline(img, left, right, y, renderScale, gridColor)
	y += 16 * renderScale
	if doc.Business.BankName != "" {
		line := "Bank transfer: " + doc.Business.BankName + " " + doc.Business.BankAccount
		if doc.Business.Owner != "" {
			line += " (" + doc.Business.Owner + ")"
		}
		small.text(left, y, line)
		y += 15 * renderScale
	}
	if doc.Business.Footer != "" {
		small.text(left, y, doc.Business.Footer)
	}

	return nil
}

func businessLines(b invoice.BusinessInfo) []string {
	lines := []string{b.Name}
	if b.Owner != "" {
		lines = append(lines, "Owner: "+b.Owner)
	}
	if b.RegNo != "" {
		lines = append(lines, "Reg. No. "+b.RegNo)
	}
	if b.Phone != "" {
		lines = append(lines, "Tel. "+b.Phone)
	}
	if b.Address != "" {
		lines = append(lines, b.Address)
	}
	return lines
}

func customerLine(doc *invoice.Document) string {
	if doc.Phone != "" {
		return "Customer: " + doc.CustomerName + " / " + doc.Phone
	}
	return "Customer: " + doc.CustomerName
}

// resizeToBox nearest-neighbor scales the logo into a square box.
func resizeToBox(src image.Image, box int) image.Image {
	b := src.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return image.NewRGBA(image.Rect(0, 0, box, box))
	}

	dst := image.NewRGBA(image.Rect(0, 0, box, box))
	for y := 0; y < box; y++ {
		for x := 0; x < box; x++ {
			sx := b.Min.X + x*b.Dx()/box
			sy := b.Min.Y + y*b.Dy()/box
			dst.Set(x, y, src.At(sx, sy))
		}
	}
	return dst
}
