// main.go
package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/buffos/go-gantt/gantt"
)

var (
	configPath   string
	outputPath   string
	exportFormat string
	gestureTask  string
	gestureKind  string
	gestureDX    float64
)

var (
	successColor = color.New(color.FgGreen)
	eventColor   = color.New(color.FgCyan)
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "gantt",
		Short:        "Render and reschedule Gantt charts",
		Long:         "gantt lays out tasks as Gantt bars and exports them as SVG, HTML, PNG or JPEG.",
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Config file (default ./gantt.{yaml,json,toml} if present)")
	pf.String("view-mode", "", "View mode: Quarter Day, Half Day, Day, Week, Month, Year")
	pf.Float64("column-width", 0, "Column width in pixels (default: view mode preset)")
	pf.Float64("step", 0, "Hours per column (default: view mode preset)")
	pf.Float64("bar-height", 0, "Bar height in pixels")
	pf.Float64("bar-corner-radius", 0, "Bar corner radius in pixels")
	pf.Float64("header-height", 0, "Header height in pixels")
	pf.Float64("padding", 0, "Padding between rows in pixels")
	pf.String("language", "", "Language for month names (en, es, fr, de, it, pt, ru, tr, zh, ja)")
	pf.String("bar-text-align", "", "Bar label alignment: center, left, right")
	pf.String("popup-trigger", "", "Event that opens a bar popup")
	pf.Int("font-size", 0, "Label font size in pixels")
	pf.String("log-level", "", "Log level: debug, info, warn, error")
	pf.String("log-format", "", "Log format: text or json")

	rootCmd.AddCommand(newRenderCmd())
	rootCmd.AddCommand(newDragCmd())
	return rootCmd
}

func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <tasks.json|tasks.yaml>",
		Short: "Render a task file as a Gantt chart",
		Args:  cobra.ExactArgs(1),
		RunE:  runRender,
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Output format: svg, html, png, jpg (default: from output extension, else svg)")
	return cmd
}

func newDragCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drag <tasks.json|tasks.yaml>",
		Short: "Apply a drag gesture to a task and write the rescheduled tasks",
		Long: `drag replays a resolved drag on one bar, exactly as the chart would:
the delta is snapped to the view's grid, dependents follow a move, and
the resulting dates or progress are written back.`,
		Args: cobra.ExactArgs(1),
		RunE: runDrag,
	}
	cmd.Flags().StringVar(&gestureTask, "task", "", "Task id to drag")
	cmd.Flags().StringVar(&gestureKind, "kind", string(gantt.GestureMove), "Gesture: move, resize-left, resize-right, progress")
	cmd.Flags().Float64Var(&gestureDX, "dx", 0, "Horizontal delta in pixels")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	_ = cmd.MarkFlagRequired("task")
	return cmd
}

// setup loads configuration and the logger shared by every command.
func setup(cmd *cobra.Command) (*Config, *slog.Logger, error) {
	cfg, err := loadConfig(cmd, configPath)
	if err != nil {
		return nil, nil, err
	}
	logger, err := newLogger(cfg.Log, os.Stderr)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	format, err := resolveFormat(exportFormat, outputPath)
	if err != nil {
		return err
	}

	tasks, err := loadTasks(args[0], logger)
	if err != nil {
		return err
	}
	chart, err := gantt.NewChart(tasks, cfg.Chart, logger)
	if err != nil {
		return fmt.Errorf("building chart: %w", err)
	}

	logger.Info("generating output", "format", format, "view_mode", string(chart.Options().ViewMode))
	out, err := renderChart(cmd.Context(), chart, format, logger)
	if err != nil {
		return err
	}
	if err := writeOutput(outputPath, out); err != nil {
		return err
	}

	successColor.Fprintf(os.Stderr, "Successfully generated %s output.\n", strings.ToUpper(format))
	if outputPath != "" {
		logger.Info("output saved", "path", outputPath)
	}
	return nil
}

// renderChart produces the chart in the requested export format.
func renderChart(ctx context.Context, chart *gantt.Chart, format string, logger *slog.Logger) ([]byte, error) {
	switch format {
	case "svg":
		return []byte(chart.SVG()), nil
	case "html":
		page, err := generateHTML(chart)
		if err != nil {
			return nil, fmt.Errorf("HTML generation failed: %w", err)
		}
		return []byte(page), nil
	case "png", "jpg", "jpeg":
		if ctx == nil {
			ctx = context.Background()
		}
		var buf bytes.Buffer
		if err := generateImage(ctx, chart.SVG(), format, &buf, logger); err != nil {
			return nil, fmt.Errorf("%s generation failed: %w", strings.ToUpper(format), err)
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("unsupported export format %q", format)
}

func runDrag(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	records, err := loadTaskRecords(args[0], logger)
	if err != nil {
		return err
	}
	tasks, err := tasksFromRecords(records)
	if err != nil {
		return fmt.Errorf("task file %q: %w", args[0], err)
	}
	chart, err := gantt.NewChart(tasks, cfg.Chart, logger)
	if err != nil {
		return fmt.Errorf("building chart: %w", err)
	}

	changed := make(map[*gantt.Task]bool)
	chart.On(gantt.EventDateChange, func(ev gantt.Event) {
		changed[ev.Task] = true
		eventColor.Fprintf(os.Stderr, "%s: %s -> %s\n", ev.Task.Name,
			gantt.Format(ev.Start, "YYYY-MM-DD HH:mm", cfg.Chart.Language),
			gantt.Format(ev.End, "YYYY-MM-DD HH:mm", cfg.Chart.Language))
	})
	chart.On(gantt.EventProgressChange, func(ev gantt.Event) {
		changed[ev.Task] = true
		eventColor.Fprintf(os.Stderr, "%s: %d%%\n", ev.Task.Name, ev.Progress)
	})

	gesture := gantt.Gesture{TaskID: gestureTask, Kind: gantt.GestureKind(gestureKind), DX: gestureDX}
	if err := chart.ApplyGesture(gesture); err != nil {
		return fmt.Errorf("applying %s gesture: %w", gestureKind, err)
	}

	mergeRescheduled(records, chart.Tasks(), changed)
	target := outputPath
	if target == "" {
		target = args[0]
	}
	out, err := saveTaskFile(records, target)
	if err != nil {
		return err
	}
	if err := writeOutput(outputPath, out); err != nil {
		return err
	}
	successColor.Fprintf(os.Stderr, "Rescheduled %d task(s).\n", len(changed))
	return nil
}
