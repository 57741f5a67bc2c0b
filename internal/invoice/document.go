package invoice

import (
	"math"
	"time"

	"tailorder-be/internal/config"
	"tailorder-be/internal/order"
)

// VATRate is the value-added tax applied on top of the grand total.
const VATRate = 0.10

// BusinessInfo is the static identity block printed on every invoice.
type BusinessInfo struct {
	Name        string
	Owner       string
	RegNo       string
	Phone       string
	Address     string
	BankName    string
	BankAccount string
	Footer      string
	LogoPath    string
}

func BusinessFromConfig(cfg *config.Config) BusinessInfo {
	return BusinessInfo{
		Name:        cfg.BusinessName,
		Owner:       cfg.BusinessOwner,
		RegNo:       cfg.BusinessRegNo,
		Phone:       cfg.BusinessPhone,
		Address:     cfg.BusinessAddress,
		BankName:    cfg.BusinessBankName,
		BankAccount: cfg.BusinessBankAcct,
		Footer:      cfg.BusinessFooter,
		LogoPath:    cfg.LogoPath,
	}
}

// Layout is one density tier: row padding and font size shrink
// together as the item count grows so the invoice stays on one page.
type Layout struct {
	RowPaddingPx int
	FontSizePx   int
}

var layoutTiers = []struct {
	maxItems int
	layout   Layout
}{
	{10, Layout{RowPaddingPx: 8, FontSizePx: 13}},
	{15, Layout{RowPaddingPx: 4, FontSizePx: 12}},
	{20, Layout{RowPaddingPx: 3, FontSizePx: 11}},
	{25, Layout{RowPaddingPx: 2, FontSizePx: 10}},
}

var densestLayout = Layout{RowPaddingPx: 1, FontSizePx: 9}

// LayoutFor picks the density tier for an item count. Counts sitting
// exactly on a threshold take the roomier tier.
func LayoutFor(itemCount int) Layout {
	for _, tier := range layoutTiers {
		if itemCount <= tier.maxItems {
			return tier.layout
		}
	}
	return densestLayout
}

// Row is one printed table line. Shipping marks the synthetic line
// appended for a paid shipping fee; it renders like a product row.
type Row struct {
	Label     string
	Size      string
	Color     string
	Quantity  int
	UnitPrice int64
	Total     int64
	Remarks   string
	Shipping  bool
}

// Document is the fully computed view model of one invoice. Building
// it twice from the same order and clock yields identical values.
type Document struct {
	OrderID       string
	CustomerName  string
	Phone         string
	Address       string
	PaymentMethod string
	OrderDate     string
	IssuedOn      string

	Rows      []Row
	ItemCount int
	Layout    Layout

	TotalQuantity int
	ItemsTotal    int64
	ShippingFee   int64
	GrandTotal    int64
	VAT           int64
	TotalWithVAT  int64

	Business BusinessInfo
}

// BuildDocument recomputes every display value from the order. The
// injected clock stamps the issue date; it is the only non-pure input.
func BuildDocument(o *order.Order, biz BusinessInfo, now func() time.Time) *Document {
	if now == nil {
		now = time.Now
	}

	itemsTotal := o.ItemsTotal()
	grand := itemsTotal + o.ShippingFee
	vat := int64(math.Round(float64(grand) * VATRate))

	doc := &Document{
		OrderID:       o.ID,
		CustomerName:  o.CustomerName,
		Phone:         o.Phone,
		Address:       o.Address,
		PaymentMethod: o.PaymentMethod,
		OrderDate:     o.OrderDate,
		IssuedOn:      now().Format("2006-01-02"),

		ItemCount: len(o.Items),
		Layout:    LayoutFor(len(o.Items)),

		TotalQuantity: o.TotalQuantity(),
		ItemsTotal:    itemsTotal,
		ShippingFee:   o.ShippingFee,
		GrandTotal:    grand,
		VAT:           vat,
		TotalWithVAT:  grand + vat,

		Business: biz,
	}

	// Rows keep the order's insertion order; nothing is re-sorted.
	doc.Rows = make([]Row, 0, len(o.Items)+1)
	for _, it := range o.Items {
		remarks := "-"
		if it.Remarks != nil && *it.Remarks != "" {
			remarks = *it.Remarks
		}
		doc.Rows = append(doc.Rows, Row{
			Label:     it.ProductName,
			Size:      it.Size,
			Color:     it.Color,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice(),
			Total:     it.Total(),
			Remarks:   remarks,
		})
	}

	if o.ShippingFee > 0 {
		doc.Rows = append(doc.Rows, Row{
			Label:     "Shipping",
			Size:      "-",
			Color:     "-",
			Quantity:  1,
			UnitPrice: o.ShippingFee,
			Total:     o.ShippingFee,
			Remarks:   "-",
			Shipping:  true,
		})
	}

	return doc
}
