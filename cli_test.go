package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/buffos/go-gantt/gantt"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		format, output, want string
		wantErr              bool
	}{
		{"", "", "svg", false},
		{"", "chart.PNG", "png", false},
		{"HTML", "chart.png", "html", false},
		{" jpeg ", "", "jpeg", false},
		{"", "chart", "svg", false},
		{"pdf", "", "", true},
		{"", "chart.pdf", "", true},
	}
	for _, tt := range tests {
		got, err := resolveFormat(tt.format, tt.output)
		if tt.wantErr {
			assert.Error(t, err, "%q %q", tt.format, tt.output)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestDependencyList(t *testing.T) {
	var rec TaskRecord
	require.NoError(t, json.Unmarshal([]byte(`{"name":"x","dependencies":"a, b,,c"}`), &rec))
	assert.Equal(t, DependencyList{"a", "b", "c"}, rec.Dependencies)

	require.NoError(t, json.Unmarshal([]byte(`{"name":"x","dependencies":["d","e"]}`), &rec))
	assert.Equal(t, DependencyList{"d", "e"}, rec.Dependencies)

	assert.Error(t, json.Unmarshal([]byte(`{"dependencies":42}`), &rec))

	var yrec TaskRecord
	require.NoError(t, yaml.Unmarshal([]byte("name: y\ndependencies: a,b\n"), &yrec))
	assert.Equal(t, DependencyList{"a", "b"}, yrec.Dependencies)
	require.NoError(t, yaml.Unmarshal([]byte("name: y\ndependencies: [c]\n"), &yrec))
	assert.Equal(t, DependencyList{"c"}, yrec.Dependencies)
}

func TestLoadTasks_Shapes(t *testing.T) {
	object := writeFile(t, "tasks.json", `{"tasks":[{"id":"a","name":"A","start":"2024-01-01","end":"2024-01-02"}]}`)
	bare := writeFile(t, "bare.json", `[{"id":"a","name":"A","start":"2024-01-01","end":"2024-01-02"}]`)
	yamlObject := writeFile(t, "tasks.yml", "tasks:\n  - id: a\n    name: A\n    start: 2024-01-01\n    end: 2024-01-02\n")

	for _, path := range []string{object, bare, yamlObject} {
		tasks, err := loadTasks(path, discardLogger())
		require.NoError(t, err, path)
		require.Len(t, tasks, 1)
		assert.Equal(t, "a", tasks[0].ID)
		assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), tasks[0].Start)
	}
}

func TestLoadTasks_Errors(t *testing.T) {
	_, err := loadTasks(filepath.Join(t.TempDir(), "missing.json"), discardLogger())
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = loadTasks(writeFile(t, "empty.json", `{"tasks":[]}`), discardLogger())
	assert.ErrorIs(t, err, gantt.ErrNoTasks)

	_, err = loadTasks(writeFile(t, "bad.json", `{"tasks":[{"name":"A","start":"01/02/2024"}]}`), discardLogger())
	assert.ErrorIs(t, err, gantt.ErrInvalidDate)

	_, err = loadTasks(writeFile(t, "junk.json", `not json`), discardLogger())
	assert.Error(t, err)
}

func TestSaveTaskFile_RoundTripsThroughChart(t *testing.T) {
	for _, name := range []string{"tasks.json", "tasks.yaml"} {
		t.Run(name, func(t *testing.T) {
			src := writeFile(t, "src.json", `[
				{"id":"a","name":"A","start":"2024-01-01","end":"2024-01-03","progress":30},
				{"id":"b","name":"B","start":"2024-01-04 08:00","end":"2024-01-04 18:00","dependencies":"a"}
			]`)
			records, err := loadTaskRecords(src, discardLogger())
			require.NoError(t, err)
			tasks, err := tasksFromRecords(records)
			require.NoError(t, err)
			chart, err := gantt.NewChart(tasks, gantt.DefaultOptions(), nil)
			require.NoError(t, err)

			all := map[*gantt.Task]bool{}
			for _, task := range chart.Tasks() {
				all[task] = true
			}
			mergeRescheduled(records, chart.Tasks(), all)
			out, err := saveTaskFile(records, name)
			require.NoError(t, err)
			assert.Contains(t, string(out), "2024-01-03", "inclusive end is written back")
			assert.Contains(t, string(out), "2024-01-04 18:00:00")

			dst := filepath.Join(t.TempDir(), name)
			require.NoError(t, os.WriteFile(dst, out, 0o644))
			reloaded, err := loadTasks(dst, discardLogger())
			require.NoError(t, err)
			again, err := gantt.NewChart(reloaded, gantt.DefaultOptions(), nil)
			require.NoError(t, err)

			for i, task := range again.Tasks() {
				assert.True(t, task.Start.Equal(chart.Tasks()[i].Start), task.ID)
				assert.True(t, task.End.Equal(chart.Tasks()[i].End), task.ID)
				assert.Equal(t, chart.Tasks()[i].Dependencies, task.Dependencies)
			}
		})
	}
}

func TestLoadConfig_Precedence(t *testing.T) {
	cfgFile := writeFile(t, "gantt.yaml", "chart:\n  view_mode: month\n  column_width: 90\n  padding: 12\nlog:\n  level: debug\n")
	t.Setenv("GANTT_CHART_PADDING", "20")

	root := newRootCmd()
	render, _, err := root.Find([]string{"render"})
	require.NoError(t, err)
	require.NoError(t, render.ParseFlags([]string{"--column-width", "100"}))

	cfg, err := loadConfig(render, cfgFile)
	require.NoError(t, err)
	assert.Equal(t, gantt.ViewMonth, cfg.Chart.ViewMode)
	assert.Equal(t, 100.0, cfg.Chart.ColumnWidth, "flag beats file")
	assert.Equal(t, 20.0, cfg.Chart.Padding, "env beats file")
	assert.Equal(t, 20.0, cfg.Chart.BarHeight, "default")
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfig_Invalid(t *testing.T) {
	root := newRootCmd()
	render, _, err := root.Find([]string{"render"})
	require.NoError(t, err)

	require.NoError(t, render.ParseFlags([]string{"--view-mode", "fortnight"}))
	_, err = loadConfig(render, "")
	assert.ErrorContains(t, err, "unsupported view mode")

	_, err = loadConfig(render, filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestNormalizeOptions(t *testing.T) {
	opts := gantt.DefaultOptions()
	opts.ViewMode = "quarter day"
	require.NoError(t, normalizeOptions(&opts))
	assert.Equal(t, gantt.ViewQuarterDay, opts.ViewMode)

	opts.BarTextAlign = "justify"
	assert.Error(t, normalizeOptions(&opts))

	opts.BarTextAlign = gantt.AlignLeft
	opts.Step = -1
	assert.Error(t, normalizeOptions(&opts))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(LogConfig{Level: "warn", Format: "json"}, &buf)
	require.NoError(t, err)
	logger.Info("hidden")
	logger.Warn("shown", "task", "a")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"task":"a"`)

	_, err = newLogger(LogConfig{Level: "loud"}, &buf)
	assert.Error(t, err)
	_, err = newLogger(LogConfig{Format: "xml"}, &buf)
	assert.Error(t, err)
}

func TestRenderChart_TextFormats(t *testing.T) {
	tasks, err := loadTasks(filepath.Join("testdata", "release.tasks.json"), discardLogger())
	require.NoError(t, err)
	chart, err := gantt.NewChart(tasks, gantt.DefaultOptions(), discardLogger())
	require.NoError(t, err)

	svg, err := renderChart(t.Context(), chart, "svg", discardLogger())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(svg, []byte("<svg")))

	page, err := renderChart(t.Context(), chart, "html", discardLogger())
	require.NoError(t, err)
	html := string(page)
	assert.Contains(t, html, `<table class="task-table">`)
	assert.Contains(t, html, "Build &amp; test &lt;beta&gt;")
	assert.Contains(t, html, "<td>2024-03-26</td>", "inclusive end date")
	assert.Equal(t, 1, strings.Count(html, "<svg"))

	_, err = renderChart(t.Context(), chart, "pdf", discardLogger())
	assert.Error(t, err)
}

func TestRunDrag_WritesRescheduledTasks(t *testing.T) {
	src := writeFile(t, "plan.yaml", `
- id: a
  name: A
  start: "2024-01-08"
  end: "2024-01-09"
- id: b
  name: B
  start: "2024-01-10"
  end: "2024-01-12"
  dependencies: a
`)
	out := filepath.Join(t.TempDir(), "moved.yaml")

	root := newRootCmd()
	root.SetArgs([]string{"drag", src, "--task", "a", "--dx", "76", "-o", out, "--log-level", "error"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	require.NoError(t, root.Execute())

	moved, err := loadTasks(out, discardLogger())
	require.NoError(t, err)
	require.Len(t, moved, 2)
	assert.Equal(t, time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC), moved[0].Start)
	assert.Equal(t, time.Date(2024, time.January, 11, 0, 0, 0, 0, time.UTC), moved[0].End)
	assert.Equal(t, time.Date(2024, time.January, 12, 0, 0, 0, 0, time.UTC), moved[1].Start)
}

func TestRunDrag_LeavesUntouchedTasksAsWritten(t *testing.T) {
	src := writeFile(t, "plan.json", `{"tasks": [
		{"id": "a", "name": "A", "start": "2024-01-08", "end": "2024-01-09"},
		{"id": "u", "name": "Undated"},
		{"id": "l", "name": "Long haul", "start": "2024-01-01", "end": "2040-01-01"},
		{"id": "p", "name": "Periods", "start": "2024-01-02", "end": "2024-01-20",
		 "periods": [{"name": "one", "start": "2024-01-02", "end": "2024-01-05"}]}
	]}`)
	out := filepath.Join(t.TempDir(), "moved.json")

	root := newRootCmd()
	root.SetArgs([]string{"drag", src, "--task", "a", "--dx", "38", "-o", out, "--log-level", "error"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	require.NoError(t, root.Execute())

	records, err := loadTaskRecords(out, discardLogger())
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, "2024-01-09", records[0].Start)
	assert.Equal(t, "2024-01-10", records[0].End)

	assert.Empty(t, records[1].Start, "undated task stays undated")
	assert.Empty(t, records[1].End)

	assert.Equal(t, "2024-01-01", records[2].Start)
	assert.Equal(t, "2040-01-01", records[2].End, "over-long task keeps its end")

	require.Len(t, records[3].Periods, 1)
	assert.Equal(t, "2024-01-05", records[3].Periods[0].End)
}
