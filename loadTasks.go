package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/buffos/go-gantt/gantt"
)

// isYAML reports whether path should be read and written as YAML.
func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// loadTasks reads a task file. JSON may be {"tasks": [...]} or a bare array.
func loadTasks(path string, logger *slog.Logger) ([]*gantt.Task, error) {
	records, err := loadTaskRecords(path, logger)
	if err != nil {
		return nil, err
	}
	tasks, err := tasksFromRecords(records)
	if err != nil {
		return nil, fmt.Errorf("task file %q: %w", path, err)
	}
	logger.Info("tasks loaded", "count", len(tasks))
	return tasks, nil
}

// loadTaskRecords reads the records of a task file as written.
func loadTaskRecords(path string, logger *slog.Logger) ([]TaskRecord, error) {
	logger.Info("reading task file", "path", path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading task file %q: %w", path, err)
	}
	records, err := decodeTaskRecords(data, isYAML(path), logger)
	if err != nil {
		return nil, fmt.Errorf("parsing task file %q: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w in %q", gantt.ErrNoTasks, path)
	}
	return records, nil
}

// tasksFromRecords converts records to tasks, keeping their order.
func tasksFromRecords(records []TaskRecord) ([]*gantt.Task, error) {
	tasks := make([]*gantt.Task, 0, len(records))
	for i, rec := range records {
		t, err := rec.toTask()
		if err != nil {
			return nil, fmt.Errorf("task %d (%s): %w", i, rec.Name, err)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func decodeTaskRecords(data []byte, asYAML bool, logger *slog.Logger) ([]TaskRecord, error) {
	if asYAML {
		var file TaskFile
		err := yaml.Unmarshal(data, &file)
		if err == nil {
			return file.Tasks, nil
		}
		var direct []TaskRecord
		if errDirect := yaml.Unmarshal(data, &direct); errDirect != nil {
			return nil, fmt.Errorf("%w (also failed bare list parse: %v)", err, errDirect)
		}
		return direct, nil
	}

	var file TaskFile
	err := json.Unmarshal(data, &file)
	if err == nil {
		return file.Tasks, nil
	}
	// Fallback: a bare array of tasks
	logger.Warn("task file is not a {\"tasks\": [...]} object, trying a bare array", "error", err)
	var direct []TaskRecord
	if errDirect := json.Unmarshal(data, &direct); errDirect != nil {
		return nil, fmt.Errorf("%w (also failed bare array parse: %v)", err, errDirect)
	}
	return direct, nil
}

// mergeRescheduled copies the dates and progress of the changed tasks into
// their records. tasks[i] must have been built from records[i]. Every
// other record keeps exactly what was read, so fallback dates and other
// render-time adjustments never reach the file.
func mergeRescheduled(records []TaskRecord, tasks []*gantt.Task, changed map[*gantt.Task]bool) {
	for i, t := range tasks {
		if !changed[t] {
			continue
		}
		records[i].Start = formatDate(t.Start, false)
		records[i].End = formatDate(t.End, true)
		records[i].Progress = t.Progress
	}
}

// saveTaskFile encodes records in the format implied by path.
func saveTaskFile(records []TaskRecord, path string) ([]byte, error) {
	file := TaskFile{Tasks: records}
	if isYAML(path) {
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(file); err != nil {
			return nil, fmt.Errorf("encoding tasks as YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encoding tasks as YAML: %w", err)
		}
		return buf.Bytes(), nil
	}
	out, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding tasks as JSON: %w", err)
	}
	return append(out, '\n'), nil
}

// --- Record conversion ---

func parseOptionalDate(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, nil
	}
	return gantt.Parse(s)
}

func (r TaskRecord) toTask() (*gantt.Task, error) {
	start, err := parseOptionalDate(r.Start)
	if err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	end, err := parseOptionalDate(r.End)
	if err != nil {
		return nil, fmt.Errorf("end: %w", err)
	}
	t := &gantt.Task{
		Period: gantt.Period{
			Start:       start,
			End:         end,
			CustomClass: r.CustomClass,
			CSSClass:    r.CSSClass,
			Fill:        r.Fill,
			Disabled:    r.Disabled,
			Draggable:   r.Draggable,
		},
		ID:           r.ID,
		Name:         r.Name,
		Progress:     r.Progress,
		Dependencies: r.Dependencies,
		TextAlign:    r.TextAlign,
		Header:       r.Header,
	}
	for i, pr := range r.Periods {
		p, err := pr.toPeriod()
		if err != nil {
			return nil, fmt.Errorf("period %d: %w", i, err)
		}
		t.Periods = append(t.Periods, p)
	}
	return t, nil
}

func (r PeriodRecord) toPeriod() (*gantt.Period, error) {
	start, err := parseOptionalDate(r.Start)
	if err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	end, err := parseOptionalDate(r.End)
	if err != nil {
		return nil, fmt.Errorf("end: %w", err)
	}
	return &gantt.Period{
		Name:        r.Name,
		Start:       start,
		End:         end,
		CustomClass: r.CustomClass,
		CSSClass:    r.CSSClass,
		Fill:        r.Fill,
		Disabled:    r.Disabled,
		Draggable:   r.Draggable,
	}, nil
}

// formatDate writes midnight instants date-only. An exclusive midnight end
// is written as the previous day, which loading turns back into the same
// instant.
func formatDate(t time.Time, isEnd bool) string {
	if t.IsZero() {
		return ""
	}
	if t.Equal(gantt.StartOf(t, gantt.Day)) {
		if isEnd {
			t = gantt.Add(t, -1, gantt.Day)
		}
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02 15:04:05")
}
