package database

import (
	"fmt"
	"sort"
	"sync"

	"tt-go/internal/model"
	"tt-go/internal/track"
)

// MemoryStore is an in-memory implementation of track.Store. It backs tests
// and the "memory" database type. Transactions run against a deep copy of
// the tables; the copy replaces the live state only on commit, so a failed
// transaction leaves nothing behind. Safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	state *memState
}

type memState struct {
	employees map[string]*model.Employee       // by ID
	tasks     map[string]*model.TaskDefinition // by ID
	records   []*model.TimeRecord
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{state: newMemState()}
}

func newMemState() *memState {
	return &memState{
		employees: make(map[string]*model.Employee),
		tasks:     make(map[string]*model.TaskDefinition),
	}
}

func (st *memState) clone() *memState {
	next := &memState{
		employees: make(map[string]*model.Employee, len(st.employees)),
		tasks:     make(map[string]*model.TaskDefinition, len(st.tasks)),
		records:   make([]*model.TimeRecord, len(st.records)),
	}
	for id, e := range st.employees {
		copied := *e
		next.employees[id] = &copied
	}
	for id, t := range st.tasks {
		copied := *t
		next.tasks[id] = &copied
	}
	for i, r := range st.records {
		copied := *r
		next.records[i] = &copied
	}
	return next
}

// InTransaction runs fn against a copy of the store state and swaps the copy
// in on success. fn's error is returned unchanged.
func (m *MemoryStore) InTransaction(fn func(tx track.StoreTx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.state.clone()
	if err := fn(&memoryTx{state: next}); err != nil {
		return err
	}
	m.state = next
	return nil
}

func (m *MemoryStore) ListEmployees() ([]*model.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	employees := make([]*model.Employee, 0, len(m.state.employees))
	for _, e := range m.state.employees {
		copied := *e
		employees = append(employees, &copied)
	}
	sort.Slice(employees, func(i, j int) bool { return employees[i].Name < employees[j].Name })
	return employees, nil
}

func (m *MemoryStore) ListTasks() ([]*model.TaskDefinition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tasks := make([]*model.TaskDefinition, 0, len(m.state.tasks))
	for _, t := range m.state.tasks {
		copied := *t
		tasks = append(tasks, &copied)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].Name < tasks[j].Name })
	return tasks, nil
}

func (m *MemoryStore) ListRecords() ([]*model.TimeRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]*model.TimeRecord, len(m.state.records))
	for i, r := range m.state.records {
		copied := *r
		records[i] = &copied
	}
	sort.Slice(records, func(i, j int) bool {
		if !records[i].RecordedAt.Equal(records[j].RecordedAt) {
			return records[i].RecordedAt.Before(records[j].RecordedAt)
		}
		return records[i].ID < records[j].ID
	})
	return records, nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error { return nil }

// memoryTx implements track.StoreTx against a private state copy.
type memoryTx struct {
	state *memState
}

func (t *memoryTx) FindTaskByKey(nameKey string) (*model.TaskDefinition, error) {
	for _, task := range t.state.tasks {
		if task.NameKey == nameKey {
			return task, nil
		}
	}
	return nil, nil // Not found
}

func (t *memoryTx) CreateTask(task *model.TaskDefinition) error {
	if _, exists := t.state.tasks[task.ID]; exists {
		return fmt.Errorf("creating task: duplicate id %s", task.ID)
	}
	for _, existing := range t.state.tasks {
		if existing.NameKey == task.NameKey {
			return fmt.Errorf("creating task: duplicate name key %q", task.NameKey)
		}
	}
	copied := *task
	t.state.tasks[task.ID] = &copied
	return nil
}

func (t *memoryTx) UpdateTaskBaseline(task *model.TaskDefinition) error {
	existing, ok := t.state.tasks[task.ID]
	if !ok {
		return fmt.Errorf("updating task baseline: task %s not found", task.ID)
	}
	existing.BaselineMinutes = task.BaselineMinutes
	existing.UpdatedAt = task.UpdatedAt
	return nil
}

func (t *memoryTx) FindEmployeeByName(name string) (*model.Employee, error) {
	for _, e := range t.state.employees {
		if e.Name == name {
			return e, nil
		}
	}
	return nil, nil // Not found
}

func (t *memoryTx) CreateEmployee(employee *model.Employee) error {
	if _, exists := t.state.employees[employee.ID]; exists {
		return fmt.Errorf("creating employee: duplicate id %s", employee.ID)
	}
	for _, existing := range t.state.employees {
		if existing.Name == employee.Name {
			return fmt.Errorf("creating employee: duplicate name %q", employee.Name)
		}
	}
	copied := *employee
	t.state.employees[employee.ID] = &copied
	return nil
}

func (t *memoryTx) InsertRecord(record *model.TimeRecord) error {
	// Referential integrity, matching the SQLite foreign key constraints.
	if _, ok := t.state.employees[record.EmployeeID]; !ok {
		return fmt.Errorf("inserting record: unknown employee %s", record.EmployeeID)
	}
	if _, ok := t.state.tasks[record.TaskID]; !ok {
		return fmt.Errorf("inserting record: unknown task %s", record.TaskID)
	}
	copied := *record
	t.state.records = append(t.state.records, &copied)
	return nil
}

func (t *memoryTx) DeleteAll() error {
	*t.state = *newMemState()
	return nil
}

// Compile-time check that MemoryStore implements track.Store
var _ track.Store = (*MemoryStore)(nil)
