package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"hebron-schedule/internal/models"
	"hebron-schedule/pkg/response"
)

type Storage struct {
	db *sql.DB
}

func New(storagePath string) (*Storage, error) {
	const op = "storage.postgres.New"

	db, err := sql.Open("postgres", storagePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

// Init creates the schema. The partial unique index is the authoritative
// guard for the one-active-booking-per-slot invariant: concurrent inserts
// for the same (date, role) resolve inside Postgres, exactly one wins.
func (s *Storage) Init(ctx context.Context) error {
	const op = "storage.postgres.Init"

	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS bookings (
			id              UUID PRIMARY KEY,
			full_name       TEXT NOT NULL,
			role            TEXT NOT NULL,
			date            DATE NOT NULL,
			status          TEXT NOT NULL DEFAULT 'Booked',
			notes           TEXT,
			email           TEXT,
			edited_by_admin BOOLEAN NOT NULL DEFAULT FALSE,
			created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
			last_updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = s.db.ExecContext(ctx, `
		CREATE UNIQUE INDEX IF NOT EXISTS bookings_active_slot_idx
		ON bookings (date, role)
		WHERE status = 'Booked'`)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	return s.db.Close()
}

const bookingColumns = `id, full_name, role, to_char(date, 'YYYY-MM-DD'),
	status, notes, email, edited_by_admin, created_at, last_updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*models.Booking, error) {
	var b models.Booking
	var notes, email sql.NullString

	err := row.Scan(
		&b.ID,
		&b.FullName,
		&b.Role,
		&b.Date,
		&b.Status,
		&notes,
		&email,
		&b.EditedByAdmin,
		&b.CreatedAt,
		&b.LastUpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if notes.Valid {
		b.Notes = &notes.String
	}
	if email.Valid {
		b.Email = &email.String
	}

	return &b, nil
}

// #### bookings/create ####

func (s *Storage) CreateBooking(ctx context.Context, b *models.Booking) error {
	const op = "storage.postgres.CreateBooking"

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO bookings
		(id, full_name, role, date, status, notes, email, edited_by_admin, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4::date, $5, $6, $7, $8, $9, $10)`,
		b.ID,
		b.FullName,
		string(b.Role),
		b.Date,
		string(b.Status),
		b.Notes,
		b.Email,
		b.EditedByAdmin,
		b.CreatedAt,
		b.LastUpdatedAt,
	)
	if err != nil {
		sqlErr, ok := err.(*pq.Error)
		if ok && sqlErr.Code == "23505" {
			return fmt.Errorf("%s: %w", op, response.ErrSlotTaken)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	const op = "storage.postgres.GetBooking"

	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id)

	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return b, nil
}

// #### admin/bookings ####

func (s *Storage) ListBookings(ctx context.Context, filters models.BookingFilters) ([]models.Booking, error) {
	const op = "storage.postgres.ListBookings"

	var conds []string
	var args []any

	if filters.Date != nil {
		args = append(args, *filters.Date)
		conds = append(conds, fmt.Sprintf("date = $%d::date", len(args)))
	}
	if filters.Role != nil {
		args = append(args, string(*filters.Role))
		conds = append(conds, fmt.Sprintf("role = $%d", len(args)))
	}
	if filters.Name != nil {
		args = append(args, "%"+*filters.Name+"%")
		conds = append(conds, fmt.Sprintf("full_name ILIKE $%d", len(args)))
	}
	if filters.Status != nil {
		args = append(args, string(*filters.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}

	query := `SELECT ` + bookingColumns + ` FROM bookings`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY date DESC, created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		bookings = append(bookings, *b)
	}

	return bookings, nil
}

// ListActiveBetween returns Booked rows with from <= date < to, date ascending.
func (s *Storage) ListActiveBetween(ctx context.Context, from, to string) ([]models.Booking, error) {
	const op = "storage.postgres.ListActiveBetween"

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings
		WHERE date >= $1::date AND date < $2::date AND status = $3
		ORDER BY date ASC, created_at ASC`,
		from, to, string(models.StatusBooked))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		bookings = append(bookings, *b)
	}

	return bookings, nil
}

func (s *Storage) ListActive(ctx context.Context) ([]models.Booking, error) {
	const op = "storage.postgres.ListActive"

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings
		WHERE status = $1
		ORDER BY date ASC, created_at ASC`,
		string(models.StatusBooked))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		bookings = append(bookings, *b)
	}

	return bookings, nil
}

func (s *Storage) ActiveSlotExists(ctx context.Context, date string, role models.Role, excludeID string) (bool, error) {
	const op = "storage.postgres.ActiveSlotExists"

	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE date = $1::date AND role = $2 AND status = $3 AND id != $4
		)`,
		date, string(role), string(models.StatusBooked), excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return exists, nil
}

func (s *Storage) ActiveByNameOnDate(ctx context.Context, fullName, date string) (bool, error) {
	const op = "storage.postgres.ActiveByNameOnDate"

	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE date = $1::date AND LOWER(full_name) = LOWER($2) AND status = $3
		)`,
		date, fullName, string(models.StatusBooked)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return exists, nil
}

// #### admin/bookings/{id} ####

func (s *Storage) UpdateBooking(ctx context.Context, id string, upd models.BookingUpdate) error {
	const op = "storage.postgres.UpdateBooking"

	sets := []string{"edited_by_admin = TRUE", "last_updated_at = now()"}
	var args []any

	add := func(col string, val any) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if upd.FullName != nil {
		add("full_name", *upd.FullName)
	}
	if upd.Role != nil {
		add("role", string(*upd.Role))
	}
	if upd.Date != nil {
		args = append(args, *upd.Date)
		sets = append(sets, fmt.Sprintf("date = $%d::date", len(args)))
	}
	if upd.Notes != nil {
		add("notes", *upd.Notes)
	}
	if upd.Status != nil {
		add("status", string(*upd.Status))
	}
	if upd.Email != nil {
		add("email", *upd.Email)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE bookings SET %s WHERE id = $%d`,
		strings.Join(sets, ", "),
		len(args),
	)

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		sqlErr, ok := err.(*pq.Error)
		if ok && sqlErr.Code == "23505" {
			return fmt.Errorf("%s: %w", op, response.ErrSlotTaken)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return nil
}

func (s *Storage) DeleteBooking(ctx context.Context, id string) error {
	const op = "storage.postgres.DeleteBooking"

	res, err := s.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return nil
}

func (s *Storage) SetBookingStatus(ctx context.Context, id string, status models.BookingStatus) error {
	const op = "storage.postgres.SetBookingStatus"

	res, err := s.db.ExecContext(ctx,
		`UPDATE bookings
		SET status = $1, edited_by_admin = TRUE, last_updated_at = now()
		WHERE id = $2`,
		string(status), id)
	if err != nil {
		sqlErr, ok := err.(*pq.Error)
		if ok && sqlErr.Code == "23505" {
			return fmt.Errorf("%s: %w", op, response.ErrSlotTaken)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return nil
}

// #### admin/participant-history ####

// ListByParticipant returns the full record for a member, cancelled
// bookings included.
func (s *Storage) ListByParticipant(ctx context.Context, name string) ([]models.Booking, error) {
	const op = "storage.postgres.ListByParticipant"

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings
		WHERE full_name ILIKE $1
		ORDER BY date DESC, created_at DESC`,
		"%"+name+"%")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		bookings = append(bookings, *b)
	}

	return bookings, nil
}

// #### admin/export ####

// ListForExport returns Booked rows date-ascending, optionally bounded
// to from <= date < to when both bounds are given.
func (s *Storage) ListForExport(ctx context.Context, from, to *string) ([]models.Booking, error) {
	const op = "storage.postgres.ListForExport"

	if from != nil && to != nil {
		return s.ListActiveBetween(ctx, *from, *to)
	}

	bookings, err := s.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return bookings, nil
}

// #### reminders ####

func (s *Storage) ListRemindable(ctx context.Context, date string) ([]models.Booking, error) {
	const op = "storage.postgres.ListRemindable"

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings
		WHERE date = $1::date AND status = $2 AND email IS NOT NULL AND email != ''
		ORDER BY created_at ASC`,
		date, string(models.StatusBooked))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		bookings = append(bookings, *b)
	}

	return bookings, nil
}
