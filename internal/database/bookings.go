package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shareit/internal/models"
)

const bookingColumns = `id, start_date, end_date, item_id, booker_id, status, created_at, updated_at`

func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	query := `INSERT INTO bookings (start_date, end_date, item_id, booker_id, status, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		booking.Start,
		booking.End,
		booking.ItemID,
		booking.BookerID,
		booking.Status,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	booking.ID = id
	booking.CreatedAt = now
	booking.UpdatedAt = now

	return nil
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`

	var b models.Booking
	err := db.QueryRowContext(ctx, query, id).Scan(
		&b.ID, &b.Start, &b.End, &b.ItemID, &b.BookerID, &b.Status,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &b, nil
}

// UpdateBookingStatusGuarded moves a booking to the given terminal status.
// The guard is re-checked by the UPDATE itself: an APPROVED booking never
// transitions again, so a concurrent double-approval loses with
// ErrAlreadyApproved.
func (db *DB) UpdateBookingStatusGuarded(ctx context.Context, id int64, status models.BookingStatus) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `UPDATE bookings SET status = ?, updated_at = ? WHERE id = ? AND status != ?`
	result, err := tx.ExecContext(ctx, query, status, time.Now(), id, models.StatusApproved)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		var current string
		err := tx.QueryRowContext(ctx, `SELECT status FROM bookings WHERE id = ?`, id).Scan(&current)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to read booking status: %w", err)
		}
		return ErrAlreadyApproved
	}

	return tx.Commit()
}

// filterClause translates a booking filter into a WHERE fragment.
// Temporal filters compare against the supplied instant, concrete statuses
// match the stored status, ALL adds nothing.
func filterClause(filter models.BookingFilter, now time.Time) (string, []any) {
	switch filter {
	case models.FilterCurrent:
		return ` AND start_date <= ? AND end_date >= ?`, []any{now, now}
	case models.FilterPast:
		return ` AND end_date < ?`, []any{now}
	case models.FilterFuture:
		return ` AND start_date > ?`, []any{now}
	case models.FilterAll:
		return ``, nil
	default:
		return ` AND status = ?`, []any{string(filter)}
	}
}

func (db *DB) GetBookingsByBooker(ctx context.Context, bookerID int64, filter models.BookingFilter, now time.Time) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE booker_id = ?`
	args := []any{bookerID}

	clause, clauseArgs := filterClause(filter, now)
	query += clause + ` ORDER BY start_date DESC, id DESC`
	args = append(args, clauseArgs...)

	return db.queryBookings(ctx, query, args...)
}

func (db *DB) GetBookingsByItems(ctx context.Context, itemIDs []int64, filter models.BookingFilter, now time.Time) ([]*models.Booking, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}

	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE item_id IN (` + placeholders(len(itemIDs)) + `)`
	args := int64Args(itemIDs)

	clause, clauseArgs := filterClause(filter, now)
	query += clause + ` ORDER BY start_date DESC, id DESC`
	args = append(args, clauseArgs...)

	return db.queryBookings(ctx, query, args...)
}

func (db *DB) GetBookingsByBookerAndItem(ctx context.Context, bookerID, itemID int64, status models.BookingStatus) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
              WHERE booker_id = ? AND item_id = ? AND status = ?
              ORDER BY start_date DESC, id DESC`
	return db.queryBookings(ctx, query, bookerID, itemID, status)
}

func (db *DB) GetAllBookings(ctx context.Context) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY start_date DESC, id DESC`
	return db.queryBookings(ctx, query)
}

// LastAndNextBooking returns the most recent started and the nearest upcoming
// non-rejected booking of an item, for the owner's item view.
func (db *DB) LastAndNextBooking(ctx context.Context, itemID int64, now time.Time) (*models.Booking, *models.Booking, error) {
	last, err := db.queryOneBooking(ctx,
		`SELECT `+bookingColumns+` FROM bookings
         WHERE item_id = ? AND status != ? AND start_date <= ?
         ORDER BY start_date DESC LIMIT 1`,
		itemID, models.StatusRejected, now)
	if err != nil {
		return nil, nil, err
	}

	next, err := db.queryOneBooking(ctx,
		`SELECT `+bookingColumns+` FROM bookings
         WHERE item_id = ? AND status != ? AND start_date > ?
         ORDER BY start_date ASC LIMIT 1`,
		itemID, models.StatusRejected, now)
	if err != nil {
		return nil, nil, err
	}

	return last, next, nil
}

func (db *DB) queryOneBooking(ctx context.Context, query string, args ...any) (*models.Booking, error) {
	var b models.Booking
	err := db.QueryRowContext(ctx, query, args...).Scan(
		&b.ID, &b.Start, &b.End, &b.ItemID, &b.BookerID, &b.Status,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query booking: %w", err)
	}
	return &b, nil
}

func (db *DB) queryBookings(ctx context.Context, query string, args ...any) ([]*models.Booking, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		b := &models.Booking{}
		err := rows.Scan(
			&b.ID, &b.Start, &b.End, &b.ItemID, &b.BookerID, &b.Status,
			&b.CreatedAt, &b.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}
