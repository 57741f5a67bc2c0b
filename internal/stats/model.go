package stats

// MonthlySummary aggregates revenue and order volume for one calendar month.
type MonthlySummary struct {
	Month      string `json:"month"` // "2026-08"
	OrderCount int    `json:"order_count"`
	ItemCount  int    `json:"item_count"`
	Revenue    int64  `json:"revenue"`
}

// StatusCount is one slice of the status breakdown.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// Overview is the dashboard payload.
type Overview struct {
	Monthly  []*MonthlySummary `json:"monthly"`
	Statuses []*StatusCount    `json:"statuses"`
}
