package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"studio/internal/config"
	"studio/internal/domain/models"
)

// BookingRepository wraps DB access for the bookings table.
type BookingRepository struct {
	DB *sql.DB
}

func (r BookingRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return config.DB
}

// updatableColumns is the fixed order UPDATE statements address columns in,
// so generated SQL stays deterministic for a given change-set.
var updatableColumns = []string{"status", "appointment_date", "preferred_artist", "message"}

const bookingColumns = `id, name, email, phone, message, placement,
	appointment_date, appointment_end, preferred_artist, first_available,
	preferred_style, customer_type, images, status, created_at`

// Create inserts a new booking row and returns its generated id.
func (r BookingRepository) Create(ctx context.Context, rec models.BookingRecord) (string, error) {
	db := r.db()
	if db == nil {
		return "", sql.ErrConnDone
	}

	id := strings.TrimSpace(rec.ID)
	if id == "" {
		id = uuid.NewString()
	}
	status := strings.TrimSpace(rec.Status)
	if status == "" {
		status = models.StatusPending
	}

	styles, err := json.Marshal(rec.PreferredStyle)
	if err != nil {
		return "", err
	}
	images, err := json.Marshal(rec.Images)
	if err != nil {
		return "", err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO bookings
			(id, name, email, phone, message, placement,
			 appointment_date, appointment_end, preferred_artist, first_available,
			 preferred_style, customer_type, images, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW())`,
		id, rec.Name, rec.Email, rec.Phone, rec.Message, rec.Placement,
		rec.AppointmentDate, rec.AppointmentEnd, rec.PreferredArtist, rec.FirstAvailable,
		string(styles), rec.CustomerType, string(images), status,
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

// GetByID loads one booking row.
func (r BookingRepository) GetByID(ctx context.Context, id string) (models.BookingRecord, error) {
	db := r.db()
	if db == nil {
		return models.BookingRecord{}, sql.ErrConnDone
	}

	row := db.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=? LIMIT 1`, id)
	return scanBooking(row)
}

// List returns bookings newest first, for the admin dashboard.
func (r BookingRepository) List(ctx context.Context) ([]models.BookingRecord, error) {
	db := r.db()
	if db == nil {
		return nil, sql.ErrConnDone
	}

	rows, err := db.QueryContext(ctx, `SELECT `+bookingColumns+` FROM bookings ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.BookingRecord{}
	for rows.Next() {
		rec, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// UpdateFields applies an already-filtered change-set. Columns outside the
// updatable set are ignored. Affected-row counts are not inspected: the MySQL
// driver reports changed rows, not matched rows, so a no-op re-apply of the
// current values would be indistinguishable from a missing row.
func (r BookingRepository) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	db := r.db()
	if db == nil {
		return sql.ErrConnDone
	}

	sets := []string{}
	args := []any{}
	for _, col := range updatableColumns {
		if val, ok := fields[col]; ok {
			sets = append(sets, col+"=?")
			args = append(args, val)
		}
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)

	_, err := db.ExecContext(ctx, `UPDATE bookings SET `+strings.Join(sets, ", ")+` WHERE id=?`, args...)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (models.BookingRecord, error) {
	var rec models.BookingRecord
	var styles, images sql.NullString
	var createdAt time.Time

	err := row.Scan(
		&rec.ID, &rec.Name, &rec.Email, &rec.Phone, &rec.Message, &rec.Placement,
		&rec.AppointmentDate, &rec.AppointmentEnd, &rec.PreferredArtist, &rec.FirstAvailable,
		&styles, &rec.CustomerType, &images, &rec.Status, &createdAt,
	)
	if err != nil {
		return models.BookingRecord{}, err
	}

	if styles.Valid && styles.String != "" {
		_ = json.Unmarshal([]byte(styles.String), &rec.PreferredStyle)
	}
	if images.Valid && images.String != "" {
		_ = json.Unmarshal([]byte(images.String), &rec.Images)
	}
	rec.CreatedAt = createdAt
	return rec, nil
}
