package catalog

// Company is a supplier whose garments appear in the catalog.
type Company struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Product is a catalog garment. DefaultPrice seeds the base unit price
// when an order line references the product; WholesalePrice is the
// optional bulk quote. CompanyName is joined on read.
type Product struct {
	ID             string `json:"id"`
	CompanyID      string `json:"company_id"`
	CompanyName    string `json:"company_name"`
	Name           string `json:"name"`
	DefaultPrice   int64  `json:"default_price"`
	WholesalePrice *int64 `json:"wholesale_price,omitempty"`
}

type NewCompany struct {
	Name string `json:"name"`
}

type NewProduct struct {
	CompanyID      string `json:"company_id"`
	Name           string `json:"name"`
	DefaultPrice   int64  `json:"default_price"`
	WholesalePrice *int64 `json:"wholesale_price"`
}
