package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/FranBistrovic/QuantumHotel/internal/model"
)

// UnitRepo provides CRUD operations for physical rooms.  Units always
// belong to a category; creating one against a missing category fails
// with ErrCategoryNotFound so handlers can return 404 instead of a bare
// foreign-key error.
type UnitRepo struct {
	db *sql.DB
}

// NewUnitRepo returns a UnitRepo bound to the given database.
func NewUnitRepo(db *sql.DB) *UnitRepo { return &UnitRepo{db: db} }

const unitColumns = `id, room_number, floor, is_cleaned, under_maintenance, category_id, created_at, updated_at`

func scanUnit(row interface{ Scan(...any) error }) (*model.Unit, error) {
	var u model.Unit
	if err := row.Scan(&u.ID, &u.RoomNumber, &u.Floor, &u.IsCleaned,
		&u.UnderMaintenance, &u.CategoryID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new unit after verifying the owning category exists.
func (r *UnitRepo) Create(ctx context.Context, u *model.Unit) error {
	var exists bool
	if err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM categories WHERE id = ?)`, u.CategoryID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrCategoryNotFound
	}
	const q = `INSERT INTO units (room_number, floor, is_cleaned, under_maintenance, category_id)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, u.RoomNumber, u.Floor, u.IsCleaned, u.UnderMaintenance, u.CategoryID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)

	got, err := r.GetByID(ctx, u.ID)
	if err != nil {
		return err
	}
	*u = *got
	return nil
}

// GetByID returns one unit or ErrUnitNotFound.
func (r *UnitRepo) GetByID(ctx context.Context, id uint64) (*model.Unit, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+unitColumns+` FROM units WHERE id = ?`, id)
	u, err := scanUnit(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUnitNotFound
		}
		return nil, err
	}
	return u, nil
}

// List returns all units ordered by room number.
func (r *UnitRepo) List(ctx context.Context) ([]model.Unit, error) {
	return r.list(ctx, `SELECT `+unitColumns+` FROM units ORDER BY room_number`)
}

// ListByCategory returns the units of one category ordered by room number.
func (r *UnitRepo) ListByCategory(ctx context.Context, categoryID uint64) ([]model.Unit, error) {
	return r.list(ctx, `SELECT `+unitColumns+` FROM units WHERE category_id = ? ORDER BY room_number`, categoryID)
}

func (r *UnitRepo) list(ctx context.Context, q string, args ...any) ([]model.Unit, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Unit
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

// Update applies the mutable fields of u (room number, floor, flags,
// category) to the stored row.
func (r *UnitRepo) Update(ctx context.Context, u *model.Unit) error {
	const q = `UPDATE units
	           SET room_number = ?, floor = ?, is_cleaned = ?, under_maintenance = ?, category_id = ?
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, u.RoomNumber, u.Floor, u.IsCleaned, u.UnderMaintenance, u.CategoryID, u.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, u.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a unit unless reservations reference it, in which case
// ErrConflict is returned.
func (r *UnitRepo) Delete(ctx context.Context, id uint64) error {
	var refs int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reservations WHERE unit_id = ?`, id).Scan(&refs); err != nil {
		return err
	}
	if refs > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM units WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUnitNotFound
	}
	return nil
}
