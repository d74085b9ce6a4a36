package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/FranBistrovic/QuantumHotel/internal/model"
)

// CategoryRepo provides CRUD operations for room categories.  Categories
// are the unit of pricing and availability: every physical unit and
// every reservation references one.  All timestamps are stored in UTC.
type CategoryRepo struct {
	db *sql.DB
}

// NewCategoryRepo returns a CategoryRepo bound to the given database.
func NewCategoryRepo(db *sql.DB) *CategoryRepo { return &CategoryRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions
// that span several repositories.
func (r *CategoryRepo) DB() *sql.DB { return r.db }

const categoryColumns = `id, name, units_number, capacity, twin_beds, price, check_in, check_out, image_path, created_at, updated_at`

func scanCategory(row interface{ Scan(...any) error }) (*model.Category, error) {
	var c model.Category
	var image sql.NullString
	if err := row.Scan(&c.ID, &c.Name, &c.UnitsNumber, &c.Capacity, &c.TwinBeds,
		&c.Price, &c.CheckIn, &c.CheckOut, &image, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if image.Valid {
		p := image.String
		c.ImagePath = &p
	}
	return &c, nil
}

// Create inserts a new category and populates the generated ID plus the
// database defaults on the provided record.
func (r *CategoryRepo) Create(ctx context.Context, c *model.Category) error {
	const q = `INSERT INTO categories (name, units_number, capacity, twin_beds, price, check_in, check_out, image_path)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, c.Name, c.UnitsNumber, c.Capacity, c.TwinBeds,
		c.Price, c.CheckIn, c.CheckOut, c.ImagePath)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)

	got, err := r.GetByID(ctx, c.ID)
	if err != nil {
		return err
	}
	*c = *got
	return nil
}

// GetByID returns one category or ErrCategoryNotFound.
func (r *CategoryRepo) GetByID(ctx context.Context, id uint64) (*model.Category, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id)
	c, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return c, nil
}

// List returns all categories ordered by price then name, the same
// deterministic order the availability search uses.
func (r *CategoryRepo) List(ctx context.Context) ([]model.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY price, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// Update applies the mutable fields of c to the stored row.  Returns
// ErrCategoryNotFound when no row matches.
func (r *CategoryRepo) Update(ctx context.Context, c *model.Category) error {
	const q = `UPDATE categories
	           SET name = ?, units_number = ?, capacity = ?, twin_beds = ?, price = ?, check_in = ?, check_out = ?, image_path = ?
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, c.Name, c.UnitsNumber, c.Capacity, c.TwinBeds,
		c.Price, c.CheckIn, c.CheckOut, c.ImagePath, c.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// distinguish "gone" from "unchanged"
		if _, err := r.GetByID(ctx, c.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a category.  A category referenced by units or
// reservations cannot be deleted; that referential constraint belongs to
// the persistence layer, so the check happens here and returns
// ErrConflict.
func (r *CategoryRepo) Delete(ctx context.Context, id uint64) error {
	var refs int
	const check = `SELECT (SELECT COUNT(*) FROM units WHERE category_id = ?) +
	                      (SELECT COUNT(*) FROM reservations WHERE category_id = ?)`
	if err := r.db.QueryRowContext(ctx, check, id, id).Scan(&refs); err != nil {
		return err
	}
	if refs > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// SetImagePath stores the uploaded image reference for a category.
func (r *CategoryRepo) SetImagePath(ctx context.Context, id uint64, path string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE categories SET image_path = ? WHERE id = ?`, path, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
