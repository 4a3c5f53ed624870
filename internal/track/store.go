package track

import (
	"strings"

	"tt-go/internal/model"
)

// Store provides persistence for the three entity collections. Lookups that
// miss return (nil, nil), not an error.
//
// There are two implementations: SQLite for production and an in-memory
// store for tests and ephemeral use. Both promise the same transactional
// behavior; the business rules live here in the service, not in the stores.
type Store interface {
	// InTransaction runs fn against a transactional view of the store.
	// If fn returns an error the whole transaction is rolled back and
	// nothing is visible to other readers; otherwise it commits atomically.
	InTransaction(fn func(tx StoreTx) error) error

	// ListEmployees returns all employees ordered by name.
	ListEmployees() ([]*model.Employee, error)

	// ListTasks returns all task definitions ordered by display name.
	ListTasks() ([]*model.TaskDefinition, error)

	// ListRecords returns all time records ordered by insertion timestamp.
	ListRecords() ([]*model.TimeRecord, error)

	// Close releases the underlying resources.
	Close() error
}

// StoreTx is the transactional view handed to InTransaction callbacks.
type StoreTx interface {
	// FindTaskByKey returns the task definition whose normalized lookup
	// key matches, or (nil, nil) when there is none.
	FindTaskByKey(nameKey string) (*model.TaskDefinition, error)

	// CreateTask inserts a new task definition.
	CreateTask(task *model.TaskDefinition) error

	// UpdateTaskBaseline overwrites a task's baseline in place. No history
	// is retained; existing record snapshots are unaffected.
	UpdateTaskBaseline(task *model.TaskDefinition) error

	// FindEmployeeByName returns the employee with an exact name match,
	// or (nil, nil) when there is none.
	FindEmployeeByName(name string) (*model.Employee, error)

	// CreateEmployee inserts a new employee.
	CreateEmployee(employee *model.Employee) error

	// InsertRecord appends a new time record. Records are never updated.
	InsertRecord(record *model.TimeRecord) error

	// DeleteAll removes every employee, task definition, and time record.
	DeleteAll() error
}

// TaskNameKey normalizes a task name into its case-insensitive lookup key.
// All task lookups go through this key; the display name keeps its case.
func TaskNameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
