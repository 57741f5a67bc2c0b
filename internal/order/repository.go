package order

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"tailorder-be/internal/logger"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// ListFilter narrows order listings. All fields are optional.
type ListFilter struct {
	Status *Status
	Month  *string // id prefix, e.g. "2608"
	Search *string // matched against customer name
}

type Repository interface {
	List(ctx context.Context, filter *ListFilter) ([]*Order, error)
	GetByID(ctx context.Context, id string) (*Order, error)

	// Create inserts the order row then its item rows in one
	// transaction, assigning the next YYMM-NNN id for the month of
	// the given reference time.
	Create(ctx context.Context, o *Order, now time.Time) error

	// Replace updates the order row, deletes all item rows and
	// reinserts the submitted ones, falling back to per-item inserts
	// when the bulk insert fails.
	Replace(ctx context.Context, o *Order) error

	Delete(ctx context.Context, id string) error
	SetStatus(ctx context.Context, id string, status Status) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const orderColumns = `id, customer_name, phone, address, order_date, payment_method,
		status, shipping_mode, shipping_fee, total_price, created_at, updated_at`

const itemColumns = `i.id, i.order_id, i.product_id,
		COALESCE(p.name, i.product_name) AS product_name,
		i.quantity, i.size, i.color, i.price,
		i.small_print_qty, i.large_print_qty,
		i.xl_print_qty, i.xl_print_price,
		i.design_qty, i.design_price, i.remarks`

func scanOrder(row interface{ Scan(...any) error }) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.CustomerName, &o.Phone, &o.Address, &o.OrderDate,
		&o.PaymentMethod, &o.Status, &o.ShippingMode, &o.ShippingFee,
		&o.TotalPrice, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) List(ctx context.Context, filter *ListFilter) ([]*Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders`

	var conds []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter != nil {
		if filter.Status != nil {
			conds = append(conds, "status = "+arg(*filter.Status))
		}
		if filter.Month != nil {
			conds = append(conds, "id LIKE "+arg(*filter.Month+"-%"))
		}
		if filter.Search != nil {
			conds = append(conds, "customer_name ILIKE "+arg("%"+*filter.Search+"%"))
		}
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []*Order
	byID := make(map[string]*Order)
	var ids []string

	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
		byID[o.ID] = o
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	items, err := r.itemsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		if o, ok := byID[it.OrderID]; ok {
			o.Items = append(o.Items, it)
		}
	}

	return orders, nil
}

// itemsFor loads items for the given order ids in insertion order.
// Product rows are joined so renamed products show their current name
// when still linked, with the stored snapshot as fallback.
func (r *repository) itemsFor(ctx context.Context, orderIDs []string) ([]*OrderItem, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM order_items i
		LEFT JOIN products p ON p.id = i.product_id
		WHERE i.order_id = ANY($1)
		ORDER BY i.order_id, i.position
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(orderIDs))
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	var items []*OrderItem
	for rows.Next() {
		var it OrderItem
		err := rows.Scan(
			&it.ID, &it.OrderID, &it.ProductID, &it.ProductName,
			&it.Quantity, &it.Size, &it.Color, &it.Price,
			&it.SmallPrintQty, &it.LargePrintQty,
			&it.XLPrintQty, &it.XLPrintPrice,
			&it.DesignQty, &it.DesignPrice, &it.Remarks,
		)
		if err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

func (r *repository) GetByID(ctx context.Context, id string) (*Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	o, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}

	items, err := r.itemsFor(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	o.Items = items

	return o, nil
}

func (r *repository) Create(ctx context.Context, o *Order, now time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Serialize id assignment per month with an advisory lock. A row
	// lock cannot cover a month that has no rows yet, and a blocked
	// reader would not see the winner's insert anyway. The lock is
	// released at commit or rollback.
	prefix := IDPrefix(now)
	if _, err := tx.ExecContext(ctx,
		`SELECT pg_advisory_xact_lock(hashtext($1))`, prefix,
	); err != nil {
		return fmt.Errorf("lock id sequence: %w", err)
	}

	rows, err := tx.QueryContext(ctx,
		`SELECT id FROM orders WHERE id LIKE $1`,
		prefix+"-%",
	)
	if err != nil {
		return fmt.Errorf("scan existing ids: %w", err)
	}

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	o.ID = FormatID(prefix, NextSequence(ids, prefix))
	o.CreatedAt = now
	o.UpdatedAt = now

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (
			id, customer_name, phone, address, order_date, payment_method,
			status, shipping_mode, shipping_fee, total_price, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		o.ID, o.CustomerName, o.Phone, o.Address, o.OrderDate, o.PaymentMethod,
		o.Status, o.ShippingMode, o.ShippingFee, o.TotalPrice, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	if err := insertItems(ctx, tx, o); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *repository) Replace(ctx context.Context, o *Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	o.UpdatedAt = time.Now()

	res, err := tx.ExecContext(ctx, `
		UPDATE orders SET
			customer_name = $1, phone = $2, address = $3, order_date = $4,
			payment_method = $5, status = $6, shipping_mode = $7,
			shipping_fee = $8, total_price = $9, updated_at = $10
		WHERE id = $11
	`,
		o.CustomerName, o.Phone, o.Address, o.OrderDate,
		o.PaymentMethod, o.Status, o.ShippingMode,
		o.ShippingFee, o.TotalPrice, o.UpdatedAt, o.ID,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrOrderNotFound
	}

	// Items are replaced wholesale: delete first, then reinsert, so
	// the foreign key is never violated mid-transaction.
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM order_items WHERE order_id = $1`, o.ID,
	); err != nil {
		return fmt.Errorf("delete order items: %w", err)
	}

	// A failed statement aborts the whole transaction, so the bulk
	// insert runs under a savepoint the fallback can roll back to.
	if _, err := tx.ExecContext(ctx, `SAVEPOINT bulk_items`); err != nil {
		return fmt.Errorf("savepoint items: %w", err)
	}
	if err := bulkInsertItems(ctx, tx, o); err != nil {
		logger.FromCtx(ctx).Warn("bulk item insert failed, retrying per item",
			zap.String("order_id", o.ID),
			zap.Error(err),
		)
		if _, err := tx.ExecContext(ctx, `ROLLBACK TO SAVEPOINT bulk_items`); err != nil {
			return fmt.Errorf("rollback to savepoint: %w", err)
		}
		if err := insertItems(ctx, tx, o); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// insertItems writes item rows one by one, assigning ids and positions.
func insertItems(ctx context.Context, tx *sql.Tx, o *Order) error {
	for pos, it := range o.Items {
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		it.OrderID = o.ID

		_, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (
				id, order_id, product_id, product_name, quantity, size, color, price,
				small_print_qty, large_print_qty, xl_print_qty, xl_print_price,
				design_qty, design_price, remarks, position
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
		`,
			it.ID, it.OrderID, it.ProductID, it.ProductName, it.Quantity,
			it.Size, it.Color, it.Price,
			it.SmallPrintQty, it.LargePrintQty, it.XLPrintQty, it.XLPrintPrice,
			it.DesignQty, it.DesignPrice, it.Remarks, pos,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

// bulkInsertItems writes all item rows in a single multi-row insert.
func bulkInsertItems(ctx context.Context, tx *sql.Tx, o *Order) error {
	if len(o.Items) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO order_items (
		id, order_id, product_id, product_name, quantity, size, color, price,
		small_print_qty, large_print_qty, xl_print_qty, xl_print_price,
		design_qty, design_price, remarks, position
	) VALUES `)

	args := make([]any, 0, len(o.Items)*16)
	for pos, it := range o.Items {
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		it.OrderID = o.ID

		if pos > 0 {
			sb.WriteString(",")
		}
		base := pos * 16
		sb.WriteString("(")
		for j := 1; j <= 16; j++ {
			if j > 1 {
				sb.WriteString(",")
			}
			fmt.Fprintf(&sb, "$%d", base+j)
		}
		sb.WriteString(")")

		args = append(args,
			it.ID, it.OrderID, it.ProductID, it.ProductName, it.Quantity,
			it.Size, it.Color, it.Price,
			it.SmallPrintQty, it.LargePrintQty, it.XLPrintQty, it.XLPrintPrice,
			it.DesignQty, it.DesignPrice, it.Remarks, pos,
		)
	}

	_, err := tx.ExecContext(ctx, sb.String(), args...)
	return err
}

func (r *repository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Items go first to respect the foreign key.
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM order_items WHERE order_id = $1`, id,
	); err != nil {
		return fmt.Errorf("delete order items: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrOrderNotFound
	}

	return tx.Commit()
}

func (r *repository) SetStatus(ctx context.Context, id string, status Status) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("set order status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrOrderNotFound
	}
	return nil
}
