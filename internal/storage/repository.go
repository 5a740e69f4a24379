// Package storage provides the SQLite-backed persistence layer.
//
// The repository is constructed explicitly and injected into the services;
// there is no lazily-initialized process-global handle. All timestamps are
// stored as UTC unix seconds, all money as integer cents.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tutortrack/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ListActiveTutors returns the owner's active tutors with their display
// aliases, ordered by name. Soft-deleted tutors are excluded.
func (r *SQLiteRepository) ListActiveTutors(ctx context.Context, ownerID string) ([]core.Tutor, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner_id, name, default_cost_cents, is_active, created_at, updated_at
		 FROM tutors WHERE owner_id = ? AND is_active = 1 ORDER BY name`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list tutors: %w", err)
	}
	defer rows.Close()

	var tutors []core.Tutor
	for rows.Next() {
		t, err := scanTutor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tutor: %w", err)
		}
		tutors = append(tutors, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tutors: %w", err)
	}

	for i := range tutors {
		aliases, err := r.tutorAliases(ctx, tutors[i].ID)
		if err != nil {
			return nil, err
		}
		tutors[i].Aliases = aliases
	}
	return tutors, nil
}

// GetTutor returns the owner's tutor by id, active or not.
func (r *SQLiteRepository) GetTutor(ctx context.Context, ownerID string, id int64) (core.Tutor, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, owner_id, name, default_cost_cents, is_active, created_at, updated_at
		 FROM tutors WHERE owner_id = ? AND id = ?`,
		ownerID, id,
	)
	t, err := scanTutor(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Tutor{}, core.ErrTutorNotFound
	}
	if err != nil {
		return core.Tutor{}, fmt.Errorf("get tutor: %w", err)
	}
	t.Aliases, err = r.tutorAliases(ctx, t.ID)
	if err != nil {
		return core.Tutor{}, err
	}
	return t, nil
}

// GetActiveTutorByName resolves an owner's active tutor by display name.
// Names are not unique; the oldest match wins.
func (r *SQLiteRepository) GetActiveTutorByName(ctx context.Context, ownerID, name string) (core.Tutor, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, owner_id, name, default_cost_cents, is_active, created_at, updated_at
		 FROM tutors WHERE owner_id = ? AND name = ? AND is_active = 1
		 ORDER BY id LIMIT 1`,
		ownerID, name,
	)
	t, err := scanTutor(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Tutor{}, core.ErrTutorNotFound
	}
	if err != nil {
		return core.Tutor{}, fmt.Errorf("get tutor by name: %w", err)
	}
	return t, nil
}

// CreateTutor inserts a tutor and its aliases, returning the stored row.
func (r *SQLiteRepository) CreateTutor(ctx context.Context, t core.Tutor) (core.Tutor, error) {
	now := time.Now().UTC()
	t.IsActive = true
	t.CreatedAt = now
	t.UpdatedAt = now

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Tutor{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO tutors (owner_id, name, default_cost_cents, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, 1, ?, ?)`,
		t.OwnerID, t.Name, t.DefaultCost.Cents, now.Unix(), now.Unix(),
	)
	if err != nil {
		return core.Tutor{}, fmt.Errorf("insert tutor: %w", err)
	}
	t.ID, err = res.LastInsertId()
	if err != nil {
		return core.Tutor{}, fmt.Errorf("tutor insert id: %w", err)
	}

	if err := insertAliases(ctx, tx, t.ID, t.Aliases); err != nil {
		return core.Tutor{}, err
	}

	if err := tx.Commit(); err != nil {
		return core.Tutor{}, fmt.Errorf("commit transaction: %w", err)
	}
	return t, nil
}

// UpdateTutor updates name, default cost and aliases for the owner's tutor.
// Returns core.ErrTutorNotFound when the id doesn't match an owned tutor.
func (r *SQLiteRepository) UpdateTutor(ctx context.Context, t core.Tutor) (core.Tutor, error) {
	now := time.Now().UTC()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Tutor{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE tutors SET name = ?, default_cost_cents = ?, updated_at = ?
		 WHERE owner_id = ? AND id = ?`,
		t.Name, t.DefaultCost.Cents, now.Unix(), t.OwnerID, t.ID,
	)
	if err != nil {
		return core.Tutor{}, fmt.Errorf("update tutor: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return core.Tutor{}, fmt.Errorf("update tutor rows affected: %w", err)
	}
	if affected == 0 {
		return core.Tutor{}, core.ErrTutorNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM tutor_aliases WHERE tutor_id = ?`, t.ID); err != nil {
		return core.Tutor{}, fmt.Errorf("clear tutor aliases: %w", err)
	}
	if err := insertAliases(ctx, tx, t.ID, t.Aliases); err != nil {
		return core.Tutor{}, err
	}

	if err := tx.Commit(); err != nil {
		return core.Tutor{}, fmt.Errorf("commit transaction: %w", err)
	}
	return r.GetTutor(ctx, t.OwnerID, t.ID)
}

// DeactivateTutor soft-deletes the tutor and hard-deletes the owner's
// visits recorded under the tutor's current name, in one transaction.
// Returns the number of purged visits.
func (r *SQLiteRepository) DeactivateTutor(ctx context.Context, ownerID string, id int64) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var name string
	err = tx.QueryRowContext(ctx,
		`SELECT name FROM tutors WHERE owner_id = ? AND id = ? AND is_active = 1`,
		ownerID, id,
	).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, core.ErrTutorNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("lookup tutor for delete: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE tutors SET is_active = 0, updated_at = ? WHERE owner_id = ? AND id = ?`,
		time.Now().UTC().Unix(), ownerID, id,
	); err != nil {
		return 0, fmt.Errorf("deactivate tutor: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`DELETE FROM visits WHERE owner_id = ? AND tutor_name = ?`,
		ownerID, name,
	)
	if err != nil {
		return 0, fmt.Errorf("purge visits: %w", err)
	}
	purged, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge visits rows affected: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}
	return purged, nil
}

// CreateVisit appends a visit row. VisitDate defaults to now when zero.
func (r *SQLiteRepository) CreateVisit(ctx context.Context, v core.Visit) (core.Visit, error) {
	now := time.Now().UTC()
	if v.VisitDate.IsZero() {
		v.VisitDate = now
	}
	v.CreatedAt = now

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO visits (owner_id, tutor_name, cost_cents, visit_date, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		v.OwnerID, v.TutorName, v.Cost.Cents, v.VisitDate.UTC().Unix(), now.Unix(),
	)
	if err != nil {
		return core.Visit{}, fmt.Errorf("insert visit: %w", err)
	}
	v.ID, err = res.LastInsertId()
	if err != nil {
		return core.Visit{}, fmt.Errorf("visit insert id: %w", err)
	}
	return v, nil
}

// ListVisits returns the owner's visits newest first, optionally restricted
// to a half-open date range.
func (r *SQLiteRepository) ListVisits(ctx context.Context, ownerID string, period *core.Range) ([]core.Visit, error) {
	query := `SELECT id, owner_id, tutor_name, cost_cents, visit_date, created_at
		 FROM visits WHERE owner_id = ?`
	args := []any{ownerID}
	if period != nil {
		query += ` AND visit_date >= ? AND visit_date < ?`
		args = append(args, period.From.Unix(), period.To.Unix())
	}
	query += ` ORDER BY visit_date DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list visits: %w", err)
	}
	defer rows.Close()

	var visits []core.Visit
	for rows.Next() {
		var (
			v         core.Visit
			cents     int64
			visitDate int64
			createdAt int64
		)
		if err := rows.Scan(&v.ID, &v.OwnerID, &v.TutorName, &cents, &visitDate, &createdAt); err != nil {
			return nil, fmt.Errorf("scan visit: %w", err)
		}
		v.Cost = core.Money{Cents: cents}
		v.VisitDate = time.Unix(visitDate, 0).UTC()
		v.CreatedAt = time.Unix(createdAt, 0).UTC()
		visits = append(visits, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate visits: %w", err)
	}
	return visits, nil
}

// GroupVisits aggregates the owner's visits in the half-open range by tutor
// name. Summing happens in integer cents inside SQLite, so repeated
// additions stay exact.
func (r *SQLiteRepository) GroupVisits(ctx context.Context, ownerID string, period core.Range) (core.VisitGroup, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT tutor_name, COUNT(*), SUM(cost_cents)
		 FROM visits
		 WHERE owner_id = ? AND visit_date >= ? AND visit_date < ?
		 GROUP BY tutor_name`,
		ownerID, period.From.Unix(), period.To.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("group visits: %w", err)
	}
	defer rows.Close()

	group := make(core.VisitGroup)
	for rows.Next() {
		var (
			name  string
			count int
			cents int64
		)
		if err := rows.Scan(&name, &count, &cents); err != nil {
			return nil, fmt.Errorf("scan visit group: %w", err)
		}
		group[name] = core.TutorTotals{Count: count, Total: core.Money{Cents: cents}}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate visit groups: %w", err)
	}
	return group, nil
}

// CreatePayment inserts a payment acknowledgement. The unique index on
// (owner_id, tutor_name, payment_month) backs the at-most-one invariant;
// a violation surfaces as core.ErrDuplicatePayment.
func (r *SQLiteRepository) CreatePayment(ctx context.Context, p core.Payment) (core.Payment, error) {
	now := time.Now().UTC()
	if p.PaymentDate.IsZero() {
		p.PaymentDate = now
	}
	p.CreatedAt = now

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO payments (owner_id, tutor_name, amount_cents, payment_month, payment_date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.OwnerID, p.TutorName, p.Amount.Cents, p.PaymentMonth, p.PaymentDate.UTC().Unix(), now.Unix(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return core.Payment{}, core.ErrDuplicatePayment
		}
		return core.Payment{}, fmt.Errorf("insert payment: %w", err)
	}
	p.ID, err = res.LastInsertId()
	if err != nil {
		return core.Payment{}, fmt.Errorf("payment insert id: %w", err)
	}
	return p, nil
}

// PaymentExists reports whether a payment is already recorded for the
// (owner, tutor, month) triple.
func (r *SQLiteRepository) PaymentExists(ctx context.Context, ownerID, tutorName, monthKey string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM payments
			WHERE owner_id = ? AND tutor_name = ? AND payment_month = ?)`,
		ownerID, tutorName, monthKey,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check payment exists: %w", err)
	}
	return exists, nil
}

// ListPayments returns the owner's payments, optionally for one month.
func (r *SQLiteRepository) ListPayments(ctx context.Context, ownerID, monthKey string) ([]core.Payment, error) {
	query := `SELECT id, owner_id, tutor_name, amount_cents, payment_month, payment_date, created_at
		 FROM payments WHERE owner_id = ?`
	args := []any{ownerID}
	if monthKey != "" {
		query += ` AND payment_month = ?`
		args = append(args, monthKey)
	}
	query += ` ORDER BY payment_date DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var payments []core.Payment
	for rows.Next() {
		var (
			p           core.Payment
			cents       int64
			paymentDate int64
			createdAt   int64
		)
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.TutorName, &cents, &p.PaymentMonth, &paymentDate, &createdAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		p.Amount = core.Money{Cents: cents}
		p.PaymentDate = time.Unix(paymentDate, 0).UTC()
		p.CreatedAt = time.Unix(createdAt, 0).UTC()
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payments: %w", err)
	}
	return payments, nil
}

// PaidTutors returns the set of tutor names with a payment recorded for the
// given month key.
func (r *SQLiteRepository) PaidTutors(ctx context.Context, ownerID, monthKey string) (map[string]bool, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT tutor_name FROM payments WHERE owner_id = ? AND payment_month = ?`,
		ownerID, monthKey,
	)
	if err != nil {
		return nil, fmt.Errorf("list paid tutors: %w", err)
	}
	defer rows.Close()

	paid := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan paid tutor: %w", err)
		}
		paid[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate paid tutors: %w", err)
	}
	return paid, nil
}

func (r *SQLiteRepository) tutorAliases(ctx context.Context, tutorID int64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT label FROM tutor_aliases WHERE tutor_id = ? ORDER BY label`,
		tutorID,
	)
	if err != nil {
		return nil, fmt.Errorf("list tutor aliases: %w", err)
	}
	defer rows.Close()

	var aliases []string
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, fmt.Errorf("scan alias: %w", err)
		}
		aliases = append(aliases, label)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate aliases: %w", err)
	}
	return aliases, nil
}

func insertAliases(ctx context.Context, tx *sql.Tx, tutorID int64, aliases []string) error {
	for _, label := range aliases {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO tutor_aliases (tutor_id, label) VALUES (?, ?)`,
			tutorID, label,
		); err != nil {
			return fmt.Errorf("insert alias: %w", err)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTutor(row rowScanner) (core.Tutor, error) {
	var (
		t         core.Tutor
		cents     int64
		isActive  int
		createdAt int64
		updatedAt int64
	)
	if err := row.Scan(&t.ID, &t.OwnerID, &t.Name, &cents, &isActive, &createdAt, &updatedAt); err != nil {
		return core.Tutor{}, err
	}
	t.DefaultCost = core.Money{Cents: cents}
	t.IsActive = isActive == 1
	t.CreatedAt = time.Unix(createdAt, 0).UTC()
	t.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return t, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
