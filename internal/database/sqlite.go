package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tt-go/internal/database/migrations"
	"tt-go/internal/model"
	"tt-go/internal/track"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore implements the track.Store interface using SQLite.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (and migrates) a SQLite store at path.
// path can be a file path or ":memory:" for an in-memory database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

// NewSQLiteStoreFromDB wraps an existing database connection. The caller is
// responsible for ensuring the connection is configured and migrated.
func NewSQLiteStoreFromDB(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, path: ""}
}

// OpenConnection opens and configures a SQLite database connection with
// appropriate PRAGMAs. Exported for tools and tests that need a properly
// configured connection. path can be a file path or ":memory:".
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// The PRAGMA below is per-connection; pin the pool to one connection so
	// it applies to every statement.
	db.SetMaxOpenConns(1)

	// Enable foreign key constraints (SQLite default is OFF for backward compatibility)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// InTransaction runs fn inside a single database transaction. fn's error is
// returned unchanged so typed errors (track.ValidationError) survive the
// rollback path.
func (s *SQLiteStore) InTransaction(fn func(tx track.StoreTx) error) error {
	tx, err := s.db.BeginTx(context.Background(), nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&sqliteTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListEmployees() ([]*model.Employee, error) {
	rows, err := s.db.Query("SELECT id, name, created_at FROM employees ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("listing employees: %w", err)
	}
	defer rows.Close()

	var employees []*model.Employee
	for rows.Next() {
		var e model.Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning employee: %w", err)
		}
		employees = append(employees, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing employees: %w", err)
	}
	return employees, nil
}

func (s *SQLiteStore) ListTasks() ([]*model.TaskDefinition, error) {
	rows, err := s.db.Query("SELECT id, name, name_key, baseline_minutes, created_at, updated_at FROM tasks ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*model.TaskDefinition
	for rows.Next() {
		var t model.TaskDefinition
		if err := rows.Scan(&t.ID, &t.Name, &t.NameKey, &t.BaselineMinutes, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		tasks = append(tasks, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	return tasks, nil
}

func (s *SQLiteStore) ListRecords() ([]*model.TimeRecord, error) {
	rows, err := s.db.Query("SELECT id, employee_id, task_id, actual_minutes, baseline_minutes, recorded_at FROM time_records ORDER BY recorded_at, id")
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer rows.Close()

	var records []*model.TimeRecord
	for rows.Next() {
		var r model.TimeRecord
		if err := rows.Scan(&r.ID, &r.EmployeeID, &r.TaskID, &r.ActualMinutes, &r.BaselineMinutes, &r.RecordedAt); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		records = append(records, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	return records, nil
}

// Path returns the database file path (or ":memory:" for in-memory databases).
func (s *SQLiteStore) Path() string {
	return s.path
}

// CheckMigrations verifies the database schema is up-to-date.
func (s *SQLiteStore) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(s.db)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// sqliteTx implements track.StoreTx on top of an open transaction.
type sqliteTx struct {
	tx *sql.Tx
}

func (t *sqliteTx) FindTaskByKey(nameKey string) (*model.TaskDefinition, error) {
	var task model.TaskDefinition
	err := t.tx.QueryRow(
		"SELECT id, name, name_key, baseline_minutes, created_at, updated_at FROM tasks WHERE name_key = ?",
		nameKey,
	).Scan(&task.ID, &task.Name, &task.NameKey, &task.BaselineMinutes, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding task by key: %w", err)
	}
	return &task, nil
}

func (t *sqliteTx) CreateTask(task *model.TaskDefinition) error {
	_, err := t.tx.Exec(
		"INSERT INTO tasks (id, name, name_key, baseline_minutes, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		task.ID, task.Name, task.NameKey, task.BaselineMinutes, task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating task: %w", err)
	}
	return nil
}

func (t *sqliteTx) UpdateTaskBaseline(task *model.TaskDefinition) error {
	res, err := t.tx.Exec(
		"UPDATE tasks SET baseline_minutes = ?, updated_at = ? WHERE id = ?",
		task.BaselineMinutes, task.UpdatedAt, task.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task baseline: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating task baseline: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("updating task baseline: task %s not found", task.ID)
	}
	return nil
}

func (t *sqliteTx) FindEmployeeByName(name string) (*model.Employee, error) {
	var e model.Employee
	err := t.tx.QueryRow(
		"SELECT id, name, created_at FROM employees WHERE name = ?",
		name,
	).Scan(&e.ID, &e.Name, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding employee by name: %w", err)
	}
	return &e, nil
}

func (t *sqliteTx) CreateEmployee(employee *model.Employee) error {
	_, err := t.tx.Exec(
		"INSERT INTO employees (id, name, created_at) VALUES (?, ?, ?)",
		employee.ID, employee.Name, employee.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating employee: %w", err)
	}
	return nil
}

func (t *sqliteTx) InsertRecord(record *model.TimeRecord) error {
	_, err := t.tx.Exec(
		"INSERT INTO time_records (id, employee_id, task_id, actual_minutes, baseline_minutes, recorded_at) VALUES (?, ?, ?, ?, ?, ?)",
		record.ID, record.EmployeeID, record.TaskID, record.ActualMinutes, record.BaselineMinutes, record.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting record: %w", err)
	}
	return nil
}

func (t *sqliteTx) DeleteAll() error {
	// Records first: they reference the other two tables.
	for _, table := range []string{"time_records", "tasks", "employees"} {
		if _, err := t.tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("wiping %s: %w", table, err)
		}
	}
	return nil
}

// Compile-time check that SQLiteStore implements track.Store
var _ track.Store = (*SQLiteStore)(nil)
