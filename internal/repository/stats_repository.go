package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// StatsRepo runs the aggregate queries behind the back-office dashboard.
// Revenue is not summed in SQL: the rows carry the pieces (nightly
// price, dates, amenity totals) and the caller folds them with exact
// decimals, the same arithmetic the quote engine uses.
type StatsRepo struct {
	db *sql.DB
}

// NewStatsRepo returns a StatsRepo bound to the given database.
func NewStatsRepo(db *sql.DB) *StatsRepo { return &StatsRepo{db: db} }

// StatusCount is one row of the reservations-by-status aggregate.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// CategoryCount is one row of the reservations-by-category aggregate.
type CategoryCount struct {
	CategoryID   uint64 `json:"category_id"`
	CategoryName string `json:"category_name"`
	Count        int    `json:"count"`
}

// ConfirmedStay carries the price inputs of one confirmed reservation.
type ConfirmedStay struct {
	DateFrom       time.Time
	DateTo         time.Time
	NightlyPrice   decimal.Decimal
	AmenitiesTotal decimal.Decimal
}

// CountByStatus groups reservations by lifecycle state.
func (r *StatsRepo) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM reservations GROUP BY status ORDER BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]StatusCount, 0)
	for rows.Next() {
		var c StatusCount
		if err := rows.Scan(&c.Status, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CountByCategory groups reservations by room category.
func (r *StatsRepo) CountByCategory(ctx context.Context) ([]CategoryCount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT c.id, c.name, COUNT(r.id)
		 FROM categories c
		 LEFT JOIN reservations r ON r.category_id = c.id
		 GROUP BY c.id, c.name
		 ORDER BY c.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]CategoryCount, 0)
	for rows.Next() {
		var c CategoryCount
		if err := rows.Scan(&c.CategoryID, &c.CategoryName, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ConfirmedStays returns the price inputs of every CONFIRMED reservation
// in [from, to).  The amenity total per reservation is summed in SQL
// over DECIMAL columns, so no float ever touches the money.
func (r *StatsRepo) ConfirmedStays(ctx context.Context, from, to time.Time) ([]ConfirmedStay, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT r.date_from, r.date_to, c.price,
		        COALESCE((SELECT SUM(a.price * ra.quantity)
		                  FROM reservation_amenities ra
		                  JOIN amenities a ON a.id = ra.amenity_id
		                  WHERE ra.reservation_id = r.id), 0)
		 FROM reservations r
		 JOIN categories c ON c.id = r.category_id
		 WHERE r.status = 'CONFIRMED' AND r.date_from < ? AND r.date_to > ?`,
		to.Format(dateLayout), from.Format(dateLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ConfirmedStay, 0)
	for rows.Next() {
		var s ConfirmedStay
		if err := rows.Scan(&s.DateFrom, &s.DateTo, &s.NightlyPrice, &s.AmenitiesTotal); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// CountUnits returns the number of bookable rooms, the denominator of
// the occupancy rate.
func (r *StatsRepo) CountUnits(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM units`).Scan(&n)
	return n, err
}
