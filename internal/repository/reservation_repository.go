package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/FranBistrovic/QuantumHotel/internal/model"
)

// ReservationRepo provides persistence for reservations and their
// amenity selections.  Multi-step operations (create, patch, status
// transitions) expose *Tx variants so handlers can re-check availability
// inside the same transaction that writes the row; that is the
// serializable-per-unit policy the engine relies on.  Dates are DATE
// columns read back as UTC midnights.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle for transaction control.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

const dateLayout = "2006-01-02"

// CreateTx inserts a new reservation and its amenity rows within the
// scope of an existing transaction.  It populates the generated ID and
// CreatedAt on the provided record.  The caller must commit or rollback.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	const q = `INSERT INTO reservations (user_id, category_id, unit_id, date_from, date_to, status)
	           VALUES (?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q, res.UserID, res.CategoryID, res.UnitID,
		res.DateFrom.Format(dateLayout), res.DateTo.Format(dateLayout), res.Status)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)

	if err := r.insertAmenitiesTx(ctx, tx, res.ID, res.Amenities); err != nil {
		return err
	}

	return tx.QueryRowContext(ctx,
		`SELECT created_at FROM reservations WHERE id = ?`, res.ID).Scan(&res.CreatedAt)
}

// insertAmenitiesTx bulk-inserts reservation_amenities rows.  An empty
// selection list is a no-op.
func (r *ReservationRepo) insertAmenitiesTx(ctx context.Context, tx *sql.Tx, reservationID uint64, sels []model.AmenitySelection) error {
	if len(sels) == 0 {
		return nil
	}
	query := `INSERT INTO reservation_amenities (reservation_id, amenity_id, quantity) VALUES `
	args := make([]any, 0, len(sels)*3)
	for i, s := range sels {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?)"
		args = append(args, reservationID, s.AmenityID, s.Quantity)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

const reservationColumns = `id, user_id, category_id, unit_id, date_from, date_to, status, created_at, processed_at, processed_by`

func scanReservation(row interface{ Scan(...any) error }) (*model.Reservation, error) {
	var res model.Reservation
	var unitID sql.NullInt64
	var processedAt sql.NullTime
	var processedBy sql.NullInt64
	if err := row.Scan(&res.ID, &res.UserID, &res.CategoryID, &unitID,
		&res.DateFrom, &res.DateTo, &res.Status, &res.CreatedAt, &processedAt, &processedBy); err != nil {
		return nil, err
	}
	if unitID.Valid {
		v := uint64(unitID.Int64)
		res.UnitID = &v
	}
	if processedAt.Valid {
		t := processedAt.Time
		res.ProcessedAt = &t
	}
	if processedBy.Valid {
		v := uint64(processedBy.Int64)
		res.ProcessedBy = &v
	}
	return &res, nil
}

// GetByID returns one reservation with its amenity selections, or
// ErrReservationNotFound.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE id = ?`, id)
	res, err := scanReservation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	res.Amenities, err = r.selections(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// GetForUpdateTx loads a reservation inside a transaction with a row
// lock, so a status transition and its availability re-check cannot race
// a concurrent transition on the same row.
func (r *ReservationRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Reservation, error) {
	row := tx.QueryRowContext(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE id = ? FOR UPDATE`, id)
	res, err := scanReservation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	res.Amenities, err = r.selections(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	return res, nil
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (r *ReservationRepo) selections(ctx context.Context, q queryer, reservationID uint64) ([]model.AmenitySelection, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT amenity_id, quantity FROM reservation_amenities WHERE reservation_id = ? ORDER BY amenity_id`,
		reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.AmenitySelection, 0)
	for rows.Next() {
		var s model.AmenitySelection
		if err := rows.Scan(&s.AmenityID, &s.Quantity); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

const blockingQuery = `SELECT ` + reservationColumns + ` FROM reservations
	WHERE status IN ('PENDING','CONFIRMED') AND date_from < ? AND date_to > ?`

// ListBlocking returns every PENDING/CONFIRMED reservation whose
// half-open range overlaps [from, to).  REJECTED rows never appear, so a
// rejected reservation frees its unit immediately.  This is the
// snapshot FindAvailableCategories consumes.
func (r *ReservationRepo) ListBlocking(ctx context.Context, from, to time.Time) ([]model.Reservation, error) {
	return r.listBlocking(ctx, r.db, blockingQuery, from, to)
}

// ListBlockingTx is ListBlocking inside a transaction with FOR UPDATE
// locks, used when inserting or confirming a reservation so the
// availability check and the write see the same snapshot.
func (r *ReservationRepo) ListBlockingTx(ctx context.Context, tx *sql.Tx, from, to time.Time) ([]model.Reservation, error) {
	return r.listBlocking(ctx, tx, blockingQuery+` FOR UPDATE`, from, to)
}

func (r *ReservationRepo) listBlocking(ctx context.Context, q queryer, query string, from, to time.Time) ([]model.Reservation, error) {
	rows, err := q.QueryContext(ctx, query, to.Format(dateLayout), from.Format(dateLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, rows.Err()
}

// UpdatePendingTx rewrites the dates and amenity selections of a PENDING
// reservation inside a transaction.  The status guard lives in the
// handler via the booking state machine; this method only persists.
func (r *ReservationRepo) UpdatePendingTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE reservations SET date_from = ?, date_to = ? WHERE id = ?`,
		res.DateFrom.Format(dateLayout), res.DateTo.Format(dateLayout), res.ID)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM reservation_amenities WHERE reservation_id = ?`, res.ID); err != nil {
		return err
	}
	return r.insertAmenitiesTx(ctx, tx, res.ID, res.Amenities)
}

// SetStatusTx records a confirm/reject decision: status, decision time
// and the staff user who decided.
func (r *ReservationRepo) SetStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status string, staffID uint64) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE reservations SET status = ?, processed_at = NOW(), processed_by = ? WHERE id = ?`,
		status, staffID, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrReservationNotFound
	}
	return nil
}

// AssignUnitTx stores the physical unit staff assigned to a reservation.
func (r *ReservationRepo) AssignUnitTx(ctx context.Context, tx *sql.Tx, id, unitID uint64) error {
	_, err := tx.ExecContext(ctx, `UPDATE reservations SET unit_id = ? WHERE id = ?`, unitID, id)
	return err
}

// AmenityLine is one resolved amenity on a reservation detail: the
// catalog name and unit price joined in, so callers can recompute the
// price breakdown without another query.
type AmenityLine struct {
	AmenityID uint64          `json:"amenity_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// ReservationDetail is a reservation joined with its category, unit and
// guest for display.  The total price is not stored here: it is derived
// by the booking engine at read time from CategoryPrice, the dates and
// the amenity lines.
type ReservationDetail struct {
	ID            uint64          `json:"id"`
	Status        string          `json:"status"`
	DateFrom      time.Time       `json:"-"`
	DateTo        time.Time       `json:"-"`
	UserID        uint64          `json:"user_id"`
	UserEmail     string          `json:"user_email"`
	CategoryID    uint64          `json:"category_id"`
	CategoryName  string          `json:"category_name"`
	CategoryPrice decimal.Decimal `json:"category_price"`
	RoomNumber    *int            `json:"room_number,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	ProcessedAt   *time.Time      `json:"processed_at,omitempty"`
	Amenities     []AmenityLine   `json:"amenities"`
}

const detailQuery = `SELECT r.id, r.status, r.date_from, r.date_to, r.user_id, u.email,
	       c.id, c.name, c.price, un.room_number, r.created_at, r.processed_at
	FROM reservations r
	JOIN users u ON u.id = r.user_id
	JOIN categories c ON c.id = r.category_id
	LEFT JOIN units un ON un.id = r.unit_id`

func scanDetail(row interface{ Scan(...any) error }) (*ReservationDetail, error) {
	var d ReservationDetail
	var room sql.NullInt64
	var processedAt sql.NullTime
	if err := row.Scan(&d.ID, &d.Status, &d.DateFrom, &d.DateTo, &d.UserID, &d.UserEmail,
		&d.CategoryID, &d.CategoryName, &d.CategoryPrice, &room, &d.CreatedAt, &processedAt); err != nil {
		return nil, err
	}
	if room.Valid {
		v := int(room.Int64)
		d.RoomNumber = &v
	}
	if processedAt.Valid {
		t := processedAt.Time
		d.ProcessedAt = &t
	}
	d.Amenities = []AmenityLine{}
	return &d, nil
}

// GetDetail returns one reservation detail or ErrReservationNotFound.
func (r *ReservationRepo) GetDetail(ctx context.Context, id uint64) (*ReservationDetail, error) {
	row := r.db.QueryRowContext(ctx, detailQuery+` WHERE r.id = ?`, id)
	d, err := scanDetail(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	if err := r.attachAmenities(ctx, []*ReservationDetail{d}); err != nil {
		return nil, err
	}
	return d, nil
}

// GetDetailForUser is GetDetail with ownership enforced: a reservation
// belonging to another guest yields ErrForbidden.
func (r *ReservationRepo) GetDetailForUser(ctx context.Context, id, userID uint64) (*ReservationDetail, error) {
	d, err := r.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.UserID != userID {
		return nil, ErrForbidden
	}
	return d, nil
}

// ListByUser returns all reservations of one guest, newest first.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]*ReservationDetail, error) {
	return r.listDetails(ctx, detailQuery+` WHERE r.user_id = ? ORDER BY r.created_at DESC`, userID)
}

// ListAll returns every reservation for the back office, newest first.
func (r *ReservationRepo) ListAll(ctx context.Context) ([]*ReservationDetail, error) {
	return r.listDetails(ctx, detailQuery + ` ORDER BY r.created_at DESC`)
}

func (r *ReservationRepo) listDetails(ctx context.Context, query string, args ...any) ([]*ReservationDetail, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*ReservationDetail, 0)
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachAmenities(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// attachAmenities populates the amenity lines of all listed details in a
// single query.
func (r *ReservationRepo) attachAmenities(ctx context.Context, details []*ReservationDetail) error {
	if len(details) == 0 {
		return nil
	}
	index := make(map[uint64]*ReservationDetail, len(details))
	ids := make([]any, 0, len(details))
	placeholders := make([]string, 0, len(details))
	for _, d := range details {
		index[d.ID] = d
		ids = append(ids, d.ID)
		placeholders = append(placeholders, "?")
	}
	query := `SELECT ra.reservation_id, ra.amenity_id, a.name, a.price, ra.quantity
	          FROM reservation_amenities ra
	          JOIN amenities a ON a.id = ra.amenity_id
	          WHERE ra.reservation_id IN (` + strings.Join(placeholders, ",") + `)
	          ORDER BY ra.reservation_id, a.name`
	rows, err := r.db.QueryContext(ctx, query, ids...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var rid uint64
		var line AmenityLine
		if err := rows.Scan(&rid, &line.AmenityID, &line.Name, &line.Price, &line.Quantity); err != nil {
			return err
		}
		if d, ok := index[rid]; ok {
			d.Amenities = append(d.Amenities, line)
		}
	}
	return rows.Err()
}
