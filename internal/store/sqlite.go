package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/snagtrack/snagtrack/internal/types"
)

// SQLiteStore implements Store on a SQLite database. Report dates are
// stored as millisecond epoch integers, matching the site-report exports.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a SQLiteStore over an open database handle.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Open opens a SQLite database with the pragmas the store needs and
// bootstraps the schema. The driver is modernc.org/sqlite; callers must
// import it for side effects.
func Open(ctx context.Context, dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := NewSQLiteStore(db)
	if err := s.CreateSchema(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateSchema creates the tables if they do not exist.
func (s *SQLiteStore) CreateSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS apartment (
			id     TEXT PRIMARY KEY,
			number TEXT NOT NULL UNIQUE
		);

		CREATE TABLE IF NOT EXISTS report (
			id          TEXT PRIMARY KEY,
			report_date INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS work_item (
			id           TEXT PRIMARY KEY,
			apartment_id TEXT NOT NULL REFERENCES apartment(id),
			report_id    TEXT NOT NULL REFERENCES report(id),
			category     TEXT NOT NULL,
			status       TEXT NOT NULL,
			notes        TEXT NOT NULL DEFAULT '',
			location     TEXT NOT NULL DEFAULT '',
			description  TEXT NOT NULL DEFAULT ''
		);

		CREATE INDEX IF NOT EXISTS idx_work_item_apartment
			ON work_item (apartment_id);
		CREATE INDEX IF NOT EXISTS idx_work_item_report
			ON work_item (report_id);
	`)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) InsertReport(ctx context.Context, date time.Time, items []NewItem) (types.Report, error) {
	if err := validateItems(items); err != nil {
		return types.Report{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return types.Report{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	report := types.Report{ID: uuid.NewString(), Date: date}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO report (id, report_date) VALUES (?, ?)`,
		report.ID, date.UnixMilli(),
	); err != nil {
		return types.Report{}, fmt.Errorf("inserting report: %w", err)
	}

	// Cache apartment IDs within the transaction; reports routinely carry
	// many items for the same apartment.
	aptIDs := make(map[string]string)
	for _, in := range items {
		aptID, ok := aptIDs[in.ApartmentNumber]
		if !ok {
			aptID, err = upsertApartment(ctx, tx, in.ApartmentNumber)
			if err != nil {
				return types.Report{}, err
			}
			aptIDs[in.ApartmentNumber] = aptID
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO work_item (id, apartment_id, report_id, category, status, notes, location, description)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), aptID, report.ID,
			string(in.Category), string(in.Status), in.Notes, in.Location, in.Description,
		); err != nil {
			return types.Report{}, fmt.Errorf("inserting work item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return types.Report{}, fmt.Errorf("committing report: %w", err)
	}
	return report, nil
}

func upsertApartment(ctx context.Context, tx *sql.Tx, number string) (string, error) {
	var id string
	err := tx.QueryRowContext(ctx,
		`SELECT id FROM apartment WHERE number = ?`, number).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return "", fmt.Errorf("looking up apartment %s: %w", number, err)
	}

	id = uuid.NewString()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO apartment (id, number) VALUES (?, ?)`, id, number); err != nil {
		return "", fmt.Errorf("inserting apartment %s: %w", number, err)
	}
	return id, nil
}

const itemColumns = `
	w.id, w.apartment_id, a.number, w.report_id, w.category, w.status,
	w.notes, w.location, w.description, r.report_date`

func (s *SQLiteStore) ItemsByApartment(ctx context.Context, number string) ([]types.WorkItem, error) {
	var aptID string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM apartment WHERE number = ?`, number).Scan(&aptID)
	if err == sql.ErrNoRows {
		return nil, ErrApartmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("looking up apartment %s: %w", number, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+itemColumns+`
		FROM work_item w
		JOIN report r ON w.report_id = r.id
		JOIN apartment a ON w.apartment_id = a.id
		WHERE w.apartment_id = ?
		ORDER BY r.report_date ASC, w.rowid ASC`, aptID)
	if err != nil {
		return nil, fmt.Errorf("querying work items: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

func (s *SQLiteStore) AllItems(ctx context.Context) ([]types.WorkItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+itemColumns+`
		FROM work_item w
		JOIN report r ON w.report_id = r.id
		JOIN apartment a ON w.apartment_id = a.id
		ORDER BY r.report_date ASC, w.rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying work items: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

func (s *SQLiteStore) Apartments(ctx context.Context) ([]ApartmentSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.number,
		       COUNT(DISTINCT w.report_id),
		       COUNT(w.id),
		       COALESCE(MAX(r.report_date), 0)
		FROM apartment a
		LEFT JOIN work_item w ON w.apartment_id = a.id
		LEFT JOIN report r ON w.report_id = r.id
		GROUP BY a.number
		ORDER BY a.number ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying apartments: %w", err)
	}
	defer rows.Close()

	var result []ApartmentSummary
	for rows.Next() {
		var sum ApartmentSummary
		var lastMillis int64
		if err := rows.Scan(&sum.Number, &sum.ReportCount, &sum.ItemCount, &lastMillis); err != nil {
			return nil, fmt.Errorf("scanning apartment row: %w", err)
		}
		if lastMillis > 0 {
			sum.LastReport = time.UnixMilli(lastMillis).UTC()
		}
		result = append(result, sum)
	}
	return result, rows.Err()
}

func scanItems(rows *sql.Rows) ([]types.WorkItem, error) {
	var items []types.WorkItem
	for rows.Next() {
		var item types.WorkItem
		var millis int64
		if err := rows.Scan(
			&item.ID, &item.ApartmentID, &item.ApartmentNumber, &item.ReportID,
			&item.Category, &item.Status, &item.Notes, &item.Location,
			&item.Description, &millis,
		); err != nil {
			return nil, fmt.Errorf("scanning work item: %w", err)
		}
		item.ReportDate = time.UnixMilli(millis).UTC()
		items = append(items, item)
	}
	return items, rows.Err()
}
