package track

import (
	"fmt"
	"strings"

	"tt-go/internal/model"
)

// Service implements the submission and reporting operations on top of a
// Store. It performs no alert I/O itself; callers classify the result and
// decide whether to dispatch (see SubmitResult.Deviation).
type Service struct {
	store     Store
	logger    Logger
	clock     Clock
	idgen     IDGenerator
	threshold float64
}

// NewService creates a Service with the provided dependencies.
// thresholdPercent is the critical-deviation cutoff; values <= 0 fall back
// to the default.
func NewService(store Store, logger Logger, clock Clock, idgen IDGenerator, thresholdPercent float64) *Service {
	if thresholdPercent <= 0 {
		thresholdPercent = DefaultCriticalThresholdPercent
	}
	return &Service{
		store:     store,
		logger:    logger,
		clock:     clock,
		idgen:     idgen,
		threshold: thresholdPercent,
	}
}

// ThresholdPercent returns the critical-deviation cutoff in use.
func (s *Service) ThresholdPercent() float64 { return s.threshold }

// Submission is one time entry to ingest. BaselineMinutes <= 0 means no
// baseline was supplied.
type Submission struct {
	EmployeeName    string
	TaskName        string
	ActualMinutes   float64
	BaselineMinutes float64
}

// SubmitResult describes a committed submission.
type SubmitResult struct {
	Record          *model.TimeRecord
	EmployeeName    string // canonical employee name
	TaskName        string // canonical task display name
	Deviation       Deviation
	TaskCreated     bool // a new TaskDefinition was created
	BaselineUpdated bool // an existing task's baseline was overwritten
}

// Submit ingests one time entry. Within a single store transaction it
// resolves or creates the task definition, snapshots the baseline onto a new
// record, lazily creates the employee, and appends the record. On any error
// nothing is written.
//
// Baseline resolution:
//   - existing task + supplied baseline > 0: overwrite, snapshot the new value
//   - existing task + no baseline: snapshot the current value
//   - new task + supplied baseline > 0: create the definition
//   - new task + no baseline: ValidationError
func (s *Service) Submit(sub Submission) (*SubmitResult, error) {
	employeeName := strings.TrimSpace(sub.EmployeeName)
	taskName := strings.TrimSpace(sub.TaskName)

	if employeeName == "" {
		return nil, &ValidationError{Msg: "employee name is required"}
	}
	if taskName == "" {
		return nil, &ValidationError{Msg: "task name is required"}
	}
	if sub.ActualMinutes <= 0 {
		return nil, &ValidationError{Msg: "actual duration must be a positive number of minutes"}
	}

	now := s.clock.Now()
	result := &SubmitResult{EmployeeName: employeeName, TaskName: taskName}

	err := s.store.InTransaction(func(tx StoreTx) error {
		task, err := tx.FindTaskByKey(TaskNameKey(taskName))
		if err != nil {
			return fmt.Errorf("finding task: %w", err)
		}

		var snapshot float64
		switch {
		case task != nil && sub.BaselineMinutes > 0:
			task.BaselineMinutes = sub.BaselineMinutes
			task.UpdatedAt = now
			if err := tx.UpdateTaskBaseline(task); err != nil {
				return fmt.Errorf("updating task baseline: %w", err)
			}
			snapshot = sub.BaselineMinutes
			result.BaselineUpdated = true

		case task != nil:
			snapshot = task.BaselineMinutes

		case sub.BaselineMinutes > 0:
			task = &model.TaskDefinition{
				ID:              s.idgen.New(),
				Name:            taskName,
				NameKey:         TaskNameKey(taskName),
				BaselineMinutes: sub.BaselineMinutes,
				CreatedAt:       now,
				UpdatedAt:       now,
			}
			if err := tx.CreateTask(task); err != nil {
				return fmt.Errorf("creating task: %w", err)
			}
			snapshot = sub.BaselineMinutes
			result.TaskCreated = true

		default:
			return &ValidationError{Msg: fmt.Sprintf("missing baseline for new task %q", taskName)}
		}
		result.TaskName = task.Name

		employee, err := tx.FindEmployeeByName(employeeName)
		if err != nil {
			return fmt.Errorf("finding employee: %w", err)
		}
		if employee == nil {
			employee = &model.Employee{
				ID:        s.idgen.New(),
				Name:      employeeName,
				CreatedAt: now,
			}
			if err := tx.CreateEmployee(employee); err != nil {
				return fmt.Errorf("creating employee: %w", err)
			}
		}

		record := &model.TimeRecord{
			ID:              s.idgen.New(),
			EmployeeID:      employee.ID,
			TaskID:          task.ID,
			ActualMinutes:   sub.ActualMinutes,
			BaselineMinutes: snapshot,
			RecordedAt:      now,
		}
		if err := tx.InsertRecord(record); err != nil {
			return fmt.Errorf("inserting record: %w", err)
		}

		result.Record = record
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Deviation = Classify(result.Record.ActualMinutes, result.Record.BaselineMinutes, s.threshold)

	s.logger.Info("record submitted",
		"employee", result.EmployeeName,
		"task", result.TaskName,
		"actual_min", result.Record.ActualMinutes,
		"baseline_min", result.Record.BaselineMinutes,
		"category", string(result.Deviation.Category),
	)
	return result, nil
}

// Wipe removes all employees, task definitions, and time records in one
// transaction. A failed wipe leaves the store untouched.
func (s *Service) Wipe() error {
	err := s.store.InTransaction(func(tx StoreTx) error {
		return tx.DeleteAll()
	})
	if err != nil {
		return fmt.Errorf("wiping data: %w", err)
	}
	s.logger.Warn("all data wiped")
	return nil
}
