package stats

import (
	"context"
	"database/sql"
	"fmt"
)

type Repository interface {
	MonthlySummaries(ctx context.Context, months int) ([]*MonthlySummary, error)
	StatusBreakdown(ctx context.Context) ([]*StatusCount, error)
}

type statsRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &statsRepository{db: db}
}

const monthlyQuery = `
	SELECT left(o.order_date, 7) AS month,
	       COUNT(*) AS order_count,
	       COALESCE(SUM(it.qty), 0) AS item_count,
	       COALESCE(SUM(o.total_price), 0) AS revenue
	FROM orders o
	LEFT JOIN (
		SELECT order_id, SUM(quantity) AS qty
		FROM order_items
		GROUP BY order_id
	) it ON it.order_id = o.id
	GROUP BY 1
	ORDER BY 1 DESC
	LIMIT $1`

func (r *statsRepository) MonthlySummaries(ctx context.Context, months int) ([]*MonthlySummary, error) {
	if months <= 0 {
		months = 12
	}

	rows, err := r.db.QueryContext(ctx, monthlyQuery, months)
	if err != nil {
		return nil, fmt.Errorf("query monthly summaries: %w", err)
	}
	defer rows.Close()

	var out []*MonthlySummary
	for rows.Next() {
		var m MonthlySummary
		if err := rows.Scan(&m.Month, &m.OrderCount, &m.ItemCount, &m.Revenue); err != nil {
			return nil, fmt.Errorf("scan monthly summary: %w", err)
		}
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate monthly summaries: %w", err)
	}
	return out, nil
}

const statusQuery = `
	SELECT status, COUNT(*)
	FROM orders
	GROUP BY status
	ORDER BY COUNT(*) DESC, status`

func (r *statsRepository) StatusBreakdown(ctx context.Context) ([]*StatusCount, error) {
	rows, err := r.db.QueryContext(ctx, statusQuery)
	if err != nil {
		return nil, fmt.Errorf("query status breakdown: %w", err)
	}
	defer rows.Close()

	var out []*StatusCount
	for rows.Next() {
		var s StatusCount
		if err := rows.Scan(&s.Status, &s.Count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		out = append(out, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status breakdown: %w", err)
	}
	return out, nil
}
