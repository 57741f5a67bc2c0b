package pricing

// Per-unit surcharges from the shop's fixed price list. Extra-large
// printing and design work are quoted per order instead, so those
// carry their own price on the item.
const (
	SmallPrintUnitPrice int64 = 1500
	LargePrintUnitPrice int64 = 3000
)

// Item carries the raw fee components of one order line. All
// quantities and prices may arrive unvalidated from form input;
// negative values are clamped to zero before they contribute.
type Item struct {
	Price    int64
	Quantity int

	SmallPrintQty int
	LargePrintQty int

	XLPrintQty   int
	XLPrintPrice int64

	DesignQty   int
	DesignPrice int64
}

func clampQty(n int) int64 {
	if n < 0 {
		return 0
	}
	return int64(n)
}

func clampPrice(n int64) int64 {
	if n < 0 {
		return 0
	}
	return n
}

// UnitPrice is the per-piece price: base garment price plus printing
// and design surcharges. Quoted surcharges (extra-large print, design
// work) contribute only when both their quantity and their price are
// positive; otherwise they contribute nothing rather than failing.
func UnitPrice(it Item) int64 {
	base := clampPrice(it.Price)

	printing := clampQty(it.SmallPrintQty)*SmallPrintUnitPrice +
		clampQty(it.LargePrintQty)*LargePrintUnitPrice
	if it.XLPrintQty > 0 && it.XLPrintPrice > 0 {
		printing += int64(it.XLPrintQty) * it.XLPrintPrice
	}

	var design int64
	if it.DesignQty > 0 && it.DesignPrice > 0 {
		design = int64(it.DesignQty) * it.DesignPrice
	}

	return base + printing + design
}

// ItemTotal is the line total: unit price times quantity.
func ItemTotal(it Item) int64 {
	return UnitPrice(it) * clampQty(it.Quantity)
}

// OrderTotal sums line totals. The shipping fee is tracked on the
// order itself and added by the caller, never here.
func OrderTotal(items []Item) int64 {
	var total int64
	for _, it := range items {
		total += ItemTotal(it)
	}
	return total
}

// TotalQuantity sums item quantities, clamping negatives to zero.
func TotalQuantity(items []Item) int {
	var total int64
	for _, it := range items {
		total += clampQty(it.Quantity)
	}
	return int(total)
}
