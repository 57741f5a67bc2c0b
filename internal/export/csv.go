package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"tailorder-be/internal/order"
	"tailorder-be/internal/utils"
)

var csvHeader = []string{
	"order_id", "customer", "phone", "order_date", "payment_method",
	"status", "total_price",
	"product", "size", "color", "quantity", "unit_price", "item_total",
}

// WriteOrdersCSV emits one row per order item. Order-level fields
// appear only on each order's first item row and stay blank on the
// rest, matching the spreadsheet format the shop has always used.
func WriteOrdersCSV(w io.Writer, orders []*order.Order) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, o := range orders {
		for i, it := range o.Items {
			record := make([]string, 0, len(csvHeader))

			if i == 0 {
				record = append(record,
					o.ID, o.CustomerName, o.Phone, o.OrderDate, o.PaymentMethod,
					string(o.Status), utils.FormatMoney(o.TotalPrice),
				)
			} else {
				record = append(record, "", "", "", "", "", "", "")
			}

			record = append(record,
				it.ProductName, it.Size, it.Color,
				fmt.Sprintf("%d", it.Quantity),
				utils.FormatMoney(it.UnitPrice()),
				utils.FormatMoney(it.Total()),
			)

			if err := cw.Write(record); err != nil {
				return fmt.Errorf("write csv row: %w", err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
