package order

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// MaxOrderTotal bounds total_price; anything above it is a
	// validation failure, not an overflow concern of the pricing engine.
	MaxOrderTotal int64 = 999_999_999

	// MaxItemPrice bounds the base unit price of a single line.
	MaxItemPrice int64 = 10_000_000

	// Orders below this item total pay a flat shipping fee in auto mode.
	freeShippingThreshold int64 = 100_000
	flatShippingFee       int64 = 3_500
)

var phonePattern = regexp.MustCompile(`^[0-9+\-() ]{8,20}$`)

// AutoShippingFee is the auto-mode fee: flat fee below the free
// shipping threshold, free at or above it. An empty order ships
// nothing, so it is also free.
func AutoShippingFee(itemsTotal int64) int64 {
	if itemsTotal > 0 && itemsTotal < freeShippingThreshold {
		return flatShippingFee
	}
	return 0
}

// ShippingFeeFor resolves the effective fee from the mode. Manual mode
// keeps the operator's value untouched.
func ShippingFeeFor(itemsTotal int64, mode ShippingMode, manual int64) int64 {
	if mode == ShippingManual {
		return manual
	}
	return AutoShippingFee(itemsTotal)
}

// IDPrefix returns the year-month prefix of order ids, e.g. "2608".
func IDPrefix(now time.Time) string {
	return now.Format("0601")
}

// FormatID builds a display id from a prefix and sequence: "2608-001".
func FormatID(prefix string, seq int) string {
	return fmt.Sprintf("%s-%03d", prefix, seq)
}

// NextSequence scans ids carrying the given month prefix and returns
// max sequence + 1. Ids in other formats are ignored.
func NextSequence(ids []string, prefix string) int {
	max := 0
	for _, id := range ids {
		rest, ok := strings.CutPrefix(id, prefix+"-")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(rest)
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return max + 1
}

// FormItem is one submitted order line.
type FormItem struct {
	ProductID   *string `json:"product_id"`
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

	Remarks *string `json:"remarks"`
}

// Form is raw order input. Pointer fields distinguish "absent" from
// zero so edits can be partial; a nil Items slice means the submission
// omitted items entirely and the existing lines are kept.
type Form struct {
	CustomerName  *string       `json:"customer_name"`
	Phone         *string       `json:"phone"`
	Address       *string       `json:"address"`
	OrderDate     *string       `json:"order_date"`
	PaymentMethod *string       `json:"payment_method"`
	Status        *Status       `json:"status"`
	ShippingMode  *ShippingMode `json:"shipping_mode"`
	ShippingFee   *int64        `json:"shipping_fee"`
	Items         []FormItem    `json:"items"`
}

// Builder turns raw form state into a valid, persistable Order.
type Builder struct {
	now func() time.Time
}

func NewBuilder(now func() time.Time) *Builder {
	if now == nil {
		now = time.Now
	}
	return &Builder{now: now}
}

// Build assembles a new order from a full submission. The id is left
// empty; the store assigns it inside the insert transaction.
func (b *Builder) Build(form Form) (*Order, error) {
	o := &Order{
		Status:       StatusPending,
		ShippingMode: ShippingAuto,
		OrderDate:    b.now().Format("2006-01-02"),
	}
	b.apply(o, form)

	if o.Status == "" {
		o.Status = StatusPending
	}

	o.Recalculate()
	if errs := validate(o); len(errs) > 0 {
		return nil, errs
	}
	return o, nil
}

// Merge overlays a partial submission on an existing order. Items and
// totals are always recomputed from the submitted lines; previous
// lines survive only when the submission carried no items field.
func (b *Builder) Merge(existing *Order, form Form) (*Order, error) {
	o := *existing
	o.Items = existing.Items
	b.apply(&o, form)

	o.Recalculate()
	if errs := validate(&o); len(errs) > 0 {
		return nil, errs
	}
	return &o, nil
}

func (b *Builder) apply(o *Order, form Form) {
	if form.CustomerName != nil {
		o.CustomerName = strings.TrimSpace(*form.CustomerName)
	}
	if form.Phone != nil {
		o.Phone = strings.TrimSpace(*form.Phone)
	}
	if form.Address != nil {
		o.Address = strings.TrimSpace(*form.Address)
	}
	if form.OrderDate != nil {
		o.OrderDate = *form.OrderDate
	}
	if form.PaymentMethod != nil {
		o.PaymentMethod = *form.PaymentMethod
	}
	if form.Status != nil {
		o.Status = *form.Status
	}
	if form.ShippingMode != nil {
		o.ShippingMode = *form.ShippingMode
	}
	if form.ShippingFee != nil {
		o.ShippingFee = *form.ShippingFee
	}
	if form.Items != nil {
		items := make([]*OrderItem, 0, len(form.Items))
		for _, fi := range form.Items {
			items = append(items, &OrderItem{
				OrderID:       o.ID,
				ProductID:     fi.ProductID,
				ProductName:   strings.TrimSpace(fi.ProductName),
				Quantity:      fi.Quantity,
				Size:          strings.TrimSpace(fi.Size),
				Color:         strings.TrimSpace(fi.Color),
				Price:         fi.Price,
				SmallPrintQty: fi.SmallPrintQty,
				LargePrintQty: fi.LargePrintQty,
				XLPrintQty:    fi.XLPrintQty,
				XLPrintPrice:  fi.XLPrintPrice,
				DesignQty:     fi.DesignQty,
				DesignPrice:   fi.DesignPrice,
				Remarks:       fi.Remarks,
			})
		}
		o.Items = items
	}
}

// validate collects every violation; it never stops at the first.
func validate(o *Order) ValidationErrors {
	var errs ValidationErrors
	add := func(field, msg string) {
		errs = append(errs, FieldError{Field: field, Message: msg})
	}

	if o.CustomerName == "" {
		add("customer_name", "customer name is required")
	} else if len([]rune(o.CustomerName)) > 50 {
		add("customer_name", "customer name must be 50 characters or fewer")
	}

	if o.Phone != "" {
		if len(o.Phone) > 20 || !phonePattern.MatchString(o.Phone) {
			add("phone", "phone must be 8-20 characters of digits, spaces, +, -, ( and )")
		}
	}

	if len([]rune(o.Address)) > 255 {
		add("address", "address must be 255 characters or fewer")
	}

	if !o.Status.Valid() {
		add("status", "unknown order status")
	}

	if len(o.Items) == 0 {
		add("items", "at least one item is required")
	}
	for i, it := range o.Items {
		field := func(name string) string {
			return fmt.Sprintf("items[%d].%s", i, name)
		}

		if it.ProductName == "" {
			add(field("product_name"), "product name is required")
		} else if len([]rune(it.ProductName)) > 100 {
			add(field("product_name"), "product name must be 100 characters or fewer")
		}
		if it.Size == "" {
			add(field("size"), "size is required")
		} else if len([]rune(it.Size)) > 20 {
			add(field("size"), "size must be 20 characters or fewer")
		}
		if it.Color == "" {
			add(field("color"), "color is required")
		} else if len([]rune(it.Color)) > 30 {
			add(field("color"), "color must be 30 characters or fewer")
		}
		if it.Quantity < 1 || it.Quantity > 9999 {
			add(field("quantity"), "quantity must be between 1 and 9999")
		}
		if it.Price <= 0 || it.Price > MaxItemPrice {
			add(field("price"), "price must be positive and at most 10,000,000")
		}
		if it.SmallPrintQty < 0 || it.SmallPrintQty > 9999 {
			add(field("small_print_qty"), "print quantity must be between 0 and 9999")
		}
		if it.LargePrintQty < 0 || it.LargePrintQty > 9999 {
			add(field("large_print_qty"), "print quantity must be between 0 and 9999")
		}
		if it.XLPrintQty > 0 && it.XLPrintPrice <= 0 {
			add(field("xl_print_price"), "extra-large print price is required when its quantity is set")
		}
		if it.DesignQty > 0 && it.DesignPrice <= 0 {
			add(field("design_price"), "design price is required when its quantity is set")
		}
	}

	if o.ShippingFee < 0 {
		add("shipping_fee", "shipping fee must not be negative")
	}
	if o.TotalPrice <= 0 {
		add("total_price", "order total must be positive")
	} else if o.TotalPrice > MaxOrderTotal {
		add("total_price", "order total must be at most 999,999,999")
	}

	return errs
}
