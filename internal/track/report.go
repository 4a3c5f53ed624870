package track

import (
	"fmt"
	"sort"
	"time"

	"tt-go/internal/model"
)

// RecordView is one time record joined with its employee and task names and
// classified against its baseline snapshot.
type RecordView struct {
	RecordedAt      time.Time
	Employee        string
	Task            string
	BaselineMinutes float64
	ActualMinutes   float64
	Deviation       Deviation
}

// TaskPerformance aggregates all records of one task: the original dashboard
// comparison of average actual time against the current baseline.
type TaskPerformance struct {
	Task             string
	RecordCount      int
	AvgActualMinutes float64
	BaselineMinutes  float64 // current definition baseline, not a snapshot
	AvgDeviationPct  float64 // mean of per-record deviation percentages
}

// TimelineEntry is one interval on the per-employee timeline. End is derived:
// start plus the actual duration.
type TimelineEntry struct {
	Employee string
	Task     string
	Start    time.Time
	End      time.Time
	Category Category
}

// Records returns every record as a view row, ordered by insertion timestamp.
func (s *Service) Records() ([]*RecordView, error) {
	records, employees, tasks, err := s.load()
	if err != nil {
		return nil, err
	}

	views := make([]*RecordView, len(records))
	for i, r := range records {
		views[i] = &RecordView{
			RecordedAt:      r.RecordedAt,
			Employee:        employees[r.EmployeeID],
			Task:            tasks[r.TaskID].Name,
			BaselineMinutes: r.BaselineMinutes,
			ActualMinutes:   r.ActualMinutes,
			Deviation:       Classify(r.ActualMinutes, r.BaselineMinutes, s.threshold),
		}
	}
	return views, nil
}

// TaskPerformances groups records by task, ordered by task name.
func (s *Service) TaskPerformances() ([]*TaskPerformance, error) {
	records, _, tasks, err := s.load()
	if err != nil {
		return nil, err
	}

	byTask := make(map[string]*TaskPerformance)
	for _, r := range records {
		def := tasks[r.TaskID]
		perf, ok := byTask[r.TaskID]
		if !ok {
			perf = &TaskPerformance{Task: def.Name, BaselineMinutes: def.BaselineMinutes}
			byTask[r.TaskID] = perf
		}
		perf.RecordCount++
		perf.AvgActualMinutes += r.ActualMinutes
		perf.AvgDeviationPct += Classify(r.ActualMinutes, r.BaselineMinutes, s.threshold).Percent
	}

	perfs := make([]*TaskPerformance, 0, len(byTask))
	for _, perf := range byTask {
		perf.AvgActualMinutes /= float64(perf.RecordCount)
		perf.AvgDeviationPct /= float64(perf.RecordCount)
		perfs = append(perfs, perf)
	}
	sort.Slice(perfs, func(i, j int) bool { return perfs[i].Task < perfs[j].Task })
	return perfs, nil
}

// Timeline returns one interval per record, ordered by start time.
func (s *Service) Timeline() ([]*TimelineEntry, error) {
	records, employees, tasks, err := s.load()
	if err != nil {
		return nil, err
	}

	entries := make([]*TimelineEntry, len(records))
	for i, r := range records {
		entries[i] = &TimelineEntry{
			Employee: employees[r.EmployeeID],
			Task:     tasks[r.TaskID].Name,
			Start:    r.RecordedAt,
			End:      r.RecordedAt.Add(time.Duration(r.ActualMinutes * float64(time.Minute))),
			Category: Classify(r.ActualMinutes, r.BaselineMinutes, s.threshold).Category,
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Start.Before(entries[j].Start) })
	return entries, nil
}

// Tasks returns all task definitions ordered by display name.
func (s *Service) Tasks() ([]*model.TaskDefinition, error) {
	tasks, err := s.store.ListTasks()
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	return tasks, nil
}

// load fetches records plus id→employee-name and id→task lookup maps.
// Referential integrity is the store's invariant, so a dangling reference is
// a persistence error, not a skippable row.
func (s *Service) load() ([]*model.TimeRecord, map[string]string, map[string]*model.TaskDefinition, error) {
	records, err := s.store.ListRecords()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("listing records: %w", err)
	}
	employees, err := s.store.ListEmployees()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("listing employees: %w", err)
	}
	tasks, err := s.store.ListTasks()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("listing tasks: %w", err)
	}

	employeeNames := make(map[string]string, len(employees))
	for _, e := range employees {
		employeeNames[e.ID] = e.Name
	}
	taskDefs := make(map[string]*model.TaskDefinition, len(tasks))
	for _, t := range tasks {
		taskDefs[t.ID] = t
	}

	for _, r := range records {
		if _, ok := employeeNames[r.EmployeeID]; !ok {
			return nil, nil, nil, fmt.Errorf("record %s references unknown employee %s", r.ID, r.EmployeeID)
		}
		if _, ok := taskDefs[r.TaskID]; !ok {
			return nil, nil, nil, fmt.Errorf("record %s references unknown task %s", r.ID, r.TaskID)
		}
	}
	return records, employeeNames, taskDefs, nil
}
