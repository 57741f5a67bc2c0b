package order

import (
	"time"

	"tailorder-be/internal/pricing"
)

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusShipped    Status = "SHIPPED"
	StatusDelivered  Status = "DELIVERED"
	StatusCancelled  Status = "CANCELLED"

	// Kept for records imported from the old three-state workflow.
	StatusCompleted Status = "COMPLETED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped,
		StatusDelivered, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

type ShippingMode string

const (
	ShippingAuto   ShippingMode = "AUTO"
	ShippingManual ShippingMode = "MANUAL"
)

// OrderItem is one product line of an order. ProductID optionally
// references the catalog; ProductName is a snapshot taken at order
// time so later catalog edits never rewrite old invoices.
type OrderItem struct {
	ID          string  `json:"id"`
	OrderID     string  `json:"order_id"`
	ProductID   *string `json:"product_id,omitempty"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Size        string  `json:"size"`
	Color       string  `json:"color"`
	Price       int64   `json:"price"`

	SmallPrintQty int   `json:"small_print_qty"`
	LargePrintQty int   `json:"large_print_qty"`
	XLPrintQty    int   `json:"xl_print_qty"`
	XLPrintPrice  int64 `json:"xl_print_price"`
	DesignQty     int   `json:"design_qty"`
	DesignPrice   int64 `json:"design_price"`

	Remarks *string `json:"remarks,omitempty"`
}

func (it *OrderItem) PricingItem() pricing.Item {
	return pricing.Item{
		Price:         it.Price,
		Quantity:      it.Quantity,
		SmallPrintQty: it.SmallPrintQty,
		LargePrintQty: it.LargePrintQty,
		XLPrintQty:    it.XLPrintQty,
		XLPrintPrice:  it.XLPrintPrice,
		DesignQty:     it.DesignQty,
		DesignPrice:   it.DesignPrice,
	}
}

func (it *OrderItem) UnitPrice() int64 {
	return pricing.UnitPrice(it.PricingItem())
}

func (it *OrderItem) Total() int64 {
	return pricing.ItemTotal(it.PricingItem())
}

// Order aggregates items plus customer and shipping metadata.
// ID format is YYMM-NNN, assigned by the store inside the insert
// transaction. TotalPrice is derived but persisted for fast listing.
type Order struct {
	ID            string       `json:"id"`
	CustomerName  string       `json:"customer_name"`
	Phone         string       `json:"phone"`
	Address       string       `json:"address"`
	OrderDate     string       `json:"order_date"` // ISO date, YYYY-MM-DD
	PaymentMethod string       `json:"payment_method"`
	Status        Status       `json:"status"`
	ShippingMode  ShippingMode `json:"shipping_mode"`
	ShippingFee   int64        `json:"shipping_fee"`
	TotalPrice    int64        `json:"total_price"`
	Items         []*OrderItem `json:"items"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

func (o *Order) pricingItems() []pricing.Item {
	items := make([]pricing.Item, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, it.PricingItem())
	}
	return items
}

// ItemsTotal is the order total before shipping.
func (o *Order) ItemsTotal() int64 {
	return pricing.OrderTotal(o.pricingItems())
}

// TotalQuantity sums item quantities across the order.
func (o *Order) TotalQuantity() int {
	return pricing.TotalQuantity(o.pricingItems())
}

// Recalculate refreshes the derived fields: the shipping fee when the
// order is in auto mode, and the persisted total. Called on every save.
func (o *Order) Recalculate() {
	itemsTotal := o.ItemsTotal()
	o.ShippingFee = ShippingFeeFor(itemsTotal, o.ShippingMode, o.ShippingFee)
	o.TotalPrice = itemsTotal + o.ShippingFee
}
