package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

type Repository interface {
	ListCompanies(ctx context.Context) ([]*Company, error)
	CreateCompany(ctx context.Context, input NewCompany) (*Company, error)
	UpdateCompany(ctx context.Context, id string, input NewCompany) (*Company, error)
	DeleteCompany(ctx context.Context, id string) error

	ListProducts(ctx context.Context, companyID *string) ([]*Product, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	CreateProduct(ctx context.Context, input NewProduct) (*Product, error)
	UpdateProduct(ctx context.Context, id string, input NewProduct) (*Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListCompanies(ctx context.Context) ([]*Company, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name FROM companies ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	var companies []*Company
	for rows.Next() {
		var c Company
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		companies = append(companies, &c)
	}
	return companies, rows.Err()
}

func (r *repository) CreateCompany(ctx context.Context, input NewCompany) (*Company, error) {
	c := &Company{ID: uuid.New().String(), Name: input.Name}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO companies (id, name) VALUES ($1, $2)`,
		c.ID, c.Name,
	)
	if err != nil {
		return nil, fmt.Errorf("insert company: %w", err)
	}
	return c, nil
}

func (r *repository) UpdateCompany(ctx context.Context, id string, input NewCompany) (*Company, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE companies SET name = $1 WHERE id = $2`,
		input.Name, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update company: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrCompanyNotFound
	}
	return &Company{ID: id, Name: input.Name}, nil
}

func (r *repository) DeleteCompany(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Company owns its products; they go first.
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM products WHERE company_id = $1`, id,
	); err != nil {
		return fmt.Errorf("delete company products: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete company: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrCompanyNotFound
	}

	return tx.Commit()
}

const productColumns = `p.id, p.company_id, c.name, p.name, p.default_price, p.wholesale_price`

func (r *repository) ListProducts(ctx context.Context, companyID *string) ([]*Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products p
		JOIN companies c ON c.id = p.company_id
	`
	var args []any
	if companyID != nil {
		query += ` WHERE p.company_id = $1`
		args = append(args, *companyID)
	}
	query += ` ORDER BY c.name, p.name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		var p Product
		err := rows.Scan(&p.ID, &p.CompanyID, &p.CompanyName,
			&p.Name, &p.DefaultPrice, &p.WholesalePrice)
		if err != nil {
			return nil, err
		}
		products = append(products, &p)
	}
	return products, rows.Err()
}

func (r *repository) GetProduct(ctx context.Context, id string) (*Product, error) {
	var p Product
	err := r.db.QueryRowContext(ctx, `
		SELECT `+productColumns+`
		FROM products p
		JOIN companies c ON c.id = p.company_id
		WHERE p.id = $1
	`, id).Scan(&p.ID, &p.CompanyID, &p.CompanyName,
		&p.Name, &p.DefaultPrice, &p.WholesalePrice)

	if err == sql.ErrNoRows {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

func (r *repository) CreateProduct(ctx context.Context, input NewProduct) (*Product, error) {
	p := &Product{
		ID:             uuid.New().String(),
		CompanyID:      input.CompanyID,
		Name:           input.Name,
		DefaultPrice:   input.DefaultPrice,
		WholesalePrice: input.WholesalePrice,
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products (id, company_id, name, default_price, wholesale_price)
		VALUES ($1, $2, $3, $4, $5)
	`, p.ID, p.CompanyID, p.Name, p.DefaultPrice, p.WholesalePrice)
	if err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}
	return p, nil
}

func (r *repository) UpdateProduct(ctx context.Context, id string, input NewProduct) (*Product, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET company_id = $1, name = $2, default_price = $3, wholesale_price = $4
		WHERE id = $5
	`, input.CompanyID, input.Name, input.DefaultPrice, input.WholesalePrice, id)
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrProductNotFound
	}

	return &Product{
		ID:             id,
		CompanyID:      input.CompanyID,
		Name:           input.Name,
		DefaultPrice:   input.DefaultPrice,
		WholesalePrice: input.WholesalePrice,
	}, nil
}

func (r *repository) DeleteProduct(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrProductNotFound
	}
	return nil
}
