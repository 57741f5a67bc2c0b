package catalog

import (
	cmap "github.com/orcaman/concurrent-map/v2"
)

const (
	companiesKey   = "companies"
	allProductsKey = "all"
)

// Cache is a read-through cache over catalog listings. Every write to
// a company or product invalidates the affected entries before the
// next read, so readers never see a stale join.
type Cache struct {
	companies cmap.ConcurrentMap[string, []*Company]
	products  cmap.ConcurrentMap[string, []*Product]
}

func NewCache() *Cache {
	return &Cache{
		companies: cmap.New[[]*Company](),
		products:  cmap.New[[]*Product](),
	}
}

func productKey(companyID *string) string {
	if companyID == nil {
		return allProductsKey
	}
	return *companyID
}

func (c *Cache) GetCompanies() ([]*Company, bool) {
	return c.companies.Get(companiesKey)
}

func (c *Cache) SetCompanies(v []*Company) {
	c.companies.Set(companiesKey, v)
}

func (c *Cache) GetProducts(companyID *string) ([]*Product, bool) {
	return c.products.Get(productKey(companyID))
}

func (c *Cache) SetProducts(companyID *string, v []*Product) {
	c.products.Set(productKey(companyID), v)
}

// InvalidateProducts drops every product listing. Product entries are
// keyed per company and the "all" listing overlaps them, so a single
// write clears the lot rather than chasing key dependencies.
func (c *Cache) InvalidateProducts() {
	c.products.Clear()
}

// InvalidateAll drops company and product listings. Company renames
// change the joined company_name on products, so both go.
func (c *Cache) InvalidateAll() {
	c.companies.Clear()
	c.products.Clear()
}
