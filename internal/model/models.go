package model

import "time"

// Employee is a person submitting time entries. Employees are created lazily
// on the first submission that references a new name and are never mutated.
type Employee struct {
	ID        string // UUID
	Name      string // Unique, matched exactly
	CreatedAt time.Time
}

// TaskDefinition holds the current expected duration for a task type.
// Task names are compared case-insensitively: NameKey is the lower-cased
// lookup key, Name preserves the case of the first submission.
type TaskDefinition struct {
	ID              string  // UUID
	Name            string  // Display name, original case
	NameKey         string  // Lower-cased unique lookup key
	BaselineMinutes float64 // Expected duration in minutes, always positive
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TimeRecord is one submitted time entry. BaselineMinutes is a snapshot of
// the task's baseline at insertion time and never changes afterward, even if
// the TaskDefinition's baseline is later overwritten.
type TimeRecord struct {
	ID              string // UUID
	EmployeeID      string // Foreign key to Employee
	TaskID          string // Foreign key to TaskDefinition
	ActualMinutes   float64
	BaselineMinutes float64 // Snapshot, immutable after insert
	RecordedAt      time.Time
}
