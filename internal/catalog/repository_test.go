package catalog

import (
	"context"
	"errors"
	"testing"

	"tailorder-be/internal/utils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_Companies(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("List", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, name FROM companies").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
				AddRow("co-1", "Acme Textiles").
				AddRow("co-2", "Budget Garments"))

		companies, err := repo.ListCompanies(context.Background())
		require.NoError(t, err)
		require.Len(t, companies, 2)
		assert.Equal(t, "Acme Textiles", companies[0].Name)
	})

	t.Run("Create", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO companies").
			WithArgs(sqlmock.AnyArg(), "Acme Textiles").
			WillReturnResult(sqlmock.NewResult(0, 1))

		c, err := repo.CreateCompany(context.Background(), NewCompany{Name: "Acme Textiles"})
		require.NoError(t, err)
		assert.NotEmpty(t, c.ID)
	})

	t.Run("Update missing company", func(t *testing.T) {
		mock.ExpectExec("UPDATE companies SET name").
			WillReturnResult(sqlmock.NewResult(0, 0))

		_, err := repo.UpdateCompany(context.Background(), "co-x", NewCompany{Name: "Renamed"})
		assert.ErrorIs(t, err, ErrCompanyNotFound)
	})

	t.Run("Delete cascades to products", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM products WHERE company_id = \\$1").
			WithArgs("co-1").
			WillReturnResult(sqlmock.NewResult(0, 4))
		mock.ExpectExec("DELETE FROM companies WHERE id = \\$1").
			WithArgs("co-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.DeleteCompany(context.Background(), "co-1")
		assert.NoError(t, err)
	})
}

func TestRepository_Products(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	productRows := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{
			"id", "company_id", "name", "name", "default_price", "wholesale_price",
		})
	}

	t.Run("List all joined with company name", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM products p").
			WillReturnRows(productRows().
				AddRow("pr-1", "co-1", "Acme Textiles", "Hoodie", 10000, 8000).
				AddRow("pr-2", "co-1", "Acme Textiles", "Cap", 8000, nil))

		products, err := repo.ListProducts(context.Background(), nil)
		require.NoError(t, err)
		require.Len(t, products, 2)
		assert.Equal(t, "Acme Textiles", products[0].CompanyName)
		assert.Equal(t, int64(8000), *products[0].WholesalePrice)
		assert.Nil(t, products[1].WholesalePrice)
	})

	t.Run("List filtered by company", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM products p(.+)WHERE p.company_id = \\$1").
			WithArgs("co-1").
			WillReturnRows(productRows())

		_, err := repo.ListProducts(context.Background(), utils.StrPtr("co-1"))
		assert.NoError(t, err)
	})

	t.Run("Get missing product", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM products p").
			WithArgs("pr-x").
			WillReturnRows(productRows())

		_, err := repo.GetProduct(context.Background(), "pr-x")
		assert.ErrorIs(t, err, ErrProductNotFound)
	})

	t.Run("Create", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO products").
			WillReturnResult(sqlmock.NewResult(0, 1))

		p, err := repo.CreateProduct(context.Background(), NewProduct{
			CompanyID:    "co-1",
			Name:         "Hoodie",
			DefaultPrice: 10000,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, p.ID)
	})

	t.Run("Delete error", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM products WHERE id").
			WillReturnError(errors.New("db error"))

		err := repo.DeleteProduct(context.Background(), "pr-1")
		assert.Error(t, err)
	})
}
