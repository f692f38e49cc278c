package db

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/pcavett/swatch/internal/errors"
	"github.com/pcavett/swatch/internal/user"
)

// ErrUniqueConstraint is returned when an insert violates a UNIQUE constraint.
var ErrUniqueConstraint = &errors.SwatchError{
	Code:    "UNIQUE_CONSTRAINT",
	Status:  409,
	Message: "unique constraint violation",
}

// Insert stores a new user preference record.
func Insert(ctx context.Context, db *sql.DB, r *user.Record) error {
	query := `
		INSERT INTO users (id, username, theme_color, surface_color, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := db.ExecContext(ctx, query,
		r.ID, r.Username, toNullString(r.ThemeColor), toNullString(r.SurfaceColor),
		r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrUniqueConstraint
		}
		return errors.NewInternal(err)
	}

	return nil
}

// GetByID retrieves a record by its ULID.
func GetByID(ctx context.Context, db *sql.DB, id string) (*user.Record, error) {
	query := `
		SELECT id, username, theme_color, surface_color, created_at, updated_at
		FROM users
		WHERE id = ?
	`

	row := db.QueryRowContext(ctx, query, id)
	r, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return r, nil
}

// GetByUsername retrieves a record by normalized username.
func GetByUsername(ctx context.Context, db *sql.DB, username string) (*user.Record, error) {
	query := `
		SELECT id, username, theme_color, surface_color, created_at, updated_at
		FROM users
		WHERE username = ?
	`

	row := db.QueryRowContext(ctx, query, username)
	r, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(username)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return r, nil
}

// List returns records ordered by username, with pagination.
// The second return value is the total record count ignoring pagination.
func List(ctx context.Context, db *sql.DB, limit, offset int) ([]user.Record, int, error) {
	var total int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&total); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	query := `
		SELECT id, username, theme_color, surface_color, created_at, updated_at
		FROM users
		ORDER BY username
		LIMIT ? OFFSET ?
	`

	rows, err := db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	defer rows.Close()

	var records []user.Record
	for rows.Next() {
		r, err := ScanRecordFromRows(rows)
		if err != nil {
			return nil, 0, errors.NewInternal(err)
		}
		records = append(records, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	return records, total, nil
}

// ColorUpdate describes a partial color update. Nil fields are left unchanged.
type ColorUpdate struct {
	Theme   *string
	Surface *string
}

// UpdateColors updates the color fields of an existing record and bumps
// updated_at. At least one field must be set.
func UpdateColors(ctx context.Context, db *sql.DB, id string, update ColorUpdate) error {
	setClauses := make([]string, 0, 3)
	args := make([]any, 0, 4)

	if update.Theme != nil {
		setClauses = append(setClauses, "theme_color = ?")
		args = append(args, *update.Theme)
	}
	if update.Surface != nil {
		setClauses = append(setClauses, "surface_color = ?")
		args = append(args, *update.Surface)
	}
	if len(setClauses) == 0 {
		return errors.NewInvalidRequest("no color fields to update")
	}

	setClauses = append(setClauses, "updated_at = ?")
	args = append(args, time.Now().Unix(), id)

	query := "UPDATE users SET " + strings.Join(setClauses, ", ") + " WHERE id = ?"

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		if isConstraintError(err) {
			return errors.NewWriteRejected(err)
		}
		return errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound(id)
	}

	return nil
}

// Delete removes a record by ID.
func Delete(ctx context.Context, db *sql.DB, id string) error {
	result, err := db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound(id)
	}

	return nil
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// ListViews returns the reporting projection of every record, ordered by
// username.
func ListViews(ctx context.Context, q querier) ([]user.View, error) {
	query := `
		SELECT id, username, theme_color, surface_color
		FROM users
		ORDER BY username
	`

	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.NewStoreUnavailable(err)
	}
	defer rows.Close()

	views := make([]user.View, 0)
	for rows.Next() {
		var (
			v       user.View
			theme   sql.NullString
			surface sql.NullString
		)
		if err := rows.Scan(&v.ID, &v.Username, &theme, &surface); err != nil {
			return nil, errors.NewInternal(err)
		}
		v.ThemeColor = fromNullString(theme)
		v.SurfaceColor = fromNullString(surface)
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return views, nil
}

// BackfillThemeDefault rewrites theme_color to canonical for every record
// where it is NULL or equals deprecated, then reads back all records.
//
// The update and the read-back run in one transaction so the returned
// snapshot is the exact post-update state: concurrent readers never observe
// a mix of old and new tokens within one call, and the report cannot drift
// from what was written.
func BackfillThemeDefault(ctx context.Context, db *sql.DB, deprecated, canonical string) (int, []user.View, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, nil, errors.NewStoreUnavailable(err)
	}
	defer tx.Rollback()

	query := `
		UPDATE users
		SET theme_color = ?, updated_at = ?
		WHERE theme_color IS NULL OR theme_color = ?
	`

	result, err := tx.ExecContext(ctx, query, canonical, time.Now().Unix(), deprecated)
	if err != nil {
		if isConstraintError(err) {
			return 0, nil, errors.NewWriteRejected(err)
		}
		return 0, nil, errors.NewStoreUnavailable(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, nil, errors.NewInternal(err)
	}

	views, err := ListViews(ctx, tx)
	if err != nil {
		return 0, nil, err
	}

	if err := tx.Commit(); err != nil {
		return 0, nil, errors.NewStoreUnavailable(err)
	}

	return int(affected), views, nil
}

// StreamForExport returns a rows cursor over all records for export.
// The caller must Close the returned rows.
func StreamForExport(ctx context.Context, db *sql.DB) (*sql.Rows, error) {
	query := `
		SELECT id, username, theme_color, surface_color, created_at, updated_at
		FROM users
		ORDER BY username
	`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.NewStoreUnavailable(err)
	}
	return rows, nil
}

// ScanRecordFromRows scans the current row of a record cursor.
func ScanRecordFromRows(rows *sql.Rows) (*user.Record, error) {
	var (
		r       user.Record
		theme   sql.NullString
		surface sql.NullString
	)
	if err := rows.Scan(&r.ID, &r.Username, &theme, &surface, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	r.ThemeColor = fromNullString(theme)
	r.SurfaceColor = fromNullString(surface)
	return &r, nil
}

// ImportRecords inserts the given records in one transaction.
// On a username collision: if replace is true, the existing record's colors
// and timestamps are overwritten (the existing ID is kept); otherwise the
// whole import fails and nothing is applied.
// Returns the number of records inserted and replaced.
func ImportRecords(ctx context.Context, db *sql.DB, records []*user.Record, replace bool) (int, int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, errors.NewStoreUnavailable(err)
	}
	defer tx.Rollback()

	insertQuery := `
		INSERT INTO users (id, username, theme_color, surface_color, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	replaceQuery := `
		UPDATE users
		SET theme_color = ?, surface_color = ?, updated_at = ?
		WHERE username = ?
	`

	imported := 0
	replaced := 0
	for _, r := range records {
		_, err := tx.ExecContext(ctx, insertQuery,
			r.ID, r.Username, toNullString(r.ThemeColor), toNullString(r.SurfaceColor),
			r.CreatedAt, r.UpdatedAt,
		)
		if err == nil {
			imported++
			continue
		}
		if !isUniqueConstraintError(err) {
			return 0, 0, errors.NewInternal(err)
		}
		if !replace {
			return 0, 0, errors.NewUsernameAlreadyExists(r.Username)
		}

		if _, err := tx.ExecContext(ctx, replaceQuery,
			toNullString(r.ThemeColor), toNullString(r.SurfaceColor), r.UpdatedAt, r.Username,
		); err != nil {
			return 0, 0, errors.NewInternal(err)
		}
		replaced++
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, errors.NewStoreUnavailable(err)
	}

	return imported, replaced, nil
}

// scanRecord scans a single row into a Record.
func scanRecord(row *sql.Row) (*user.Record, error) {
	var (
		r       user.Record
		theme   sql.NullString
		surface sql.NullString
	)
	if err := row.Scan(&r.ID, &r.Username, &theme, &surface, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	r.ThemeColor = fromNullString(theme)
	r.SurfaceColor = fromNullString(surface)
	return &r, nil
}

// isConstraintError checks if the error is a SQLite constraint violation.
func isConstraintError(err error) bool {
	if err == nil {
		return false
	}
	// SQLite returns "UNIQUE constraint failed: ..." (and similar) for
	// constraint violations
	return strings.Contains(err.Error(), "constraint failed")
}

// isUniqueConstraintError checks specifically for a UNIQUE violation, so that
// other constraint kinds (CHECK, NOT NULL) are not mistaken for a duplicate
// username.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// toNullString converts a *string to sql.NullString.
func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// fromNullString converts a sql.NullString to *string.
func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
