package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/FranBistrovic/QuantumHotel/internal/model"
)

// AmenityRepo provides CRUD operations for the add-on catalog.  The
// catalog is what ComputePrice resolves amenity unit prices against.
type AmenityRepo struct {
	db *sql.DB
}

// NewAmenityRepo returns an AmenityRepo bound to the given database.
func NewAmenityRepo(db *sql.DB) *AmenityRepo { return &AmenityRepo{db: db} }

const amenityColumns = `id, name, price, description, created_at, updated_at`

func scanAmenity(row interface{ Scan(...any) error }) (*model.Amenity, error) {
	var a model.Amenity
	if err := row.Scan(&a.ID, &a.Name, &a.Price, &a.Description, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts a new amenity and populates the generated ID.
func (r *AmenityRepo) Create(ctx context.Context, a *model.Amenity) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO amenities (name, price, description) VALUES (?, ?, ?)`,
		a.Name, a.Price, a.Description)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)

	got, err := r.GetByID(ctx, a.ID)
	if err != nil {
		return err
	}
	*a = *got
	return nil
}

// GetByID returns one amenity or ErrAmenityNotFound.
func (r *AmenityRepo) GetByID(ctx context.Context, id uint64) (*model.Amenity, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+amenityColumns+` FROM amenities WHERE id = ?`, id)
	a, err := scanAmenity(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAmenityNotFound
		}
		return nil, err
	}
	return a, nil
}

// List returns the whole catalog ordered by name.
func (r *AmenityRepo) List(ctx context.Context) ([]model.Amenity, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+amenityColumns+` FROM amenities ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Amenity
	for rows.Next() {
		a, err := scanAmenity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// Update applies name, price and description to the stored row.
func (r *AmenityRepo) Update(ctx context.Context, a *model.Amenity) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE amenities SET name = ?, price = ?, description = ? WHERE id = ?`,
		a.Name, a.Price, a.Description, a.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, a.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes an amenity unless reservations still select it.
func (r *AmenityRepo) Delete(ctx context.Context, id uint64) error {
	var refs int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reservation_amenities WHERE amenity_id = ?`, id).Scan(&refs); err != nil {
		return err
	}
	if refs > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM amenities WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAmenityNotFound
	}
	return nil
}
