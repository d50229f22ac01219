package main

import (
	"flag"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/buffos/go-gantt/gantt"
)

var update = flag.Bool("update", false, "rewrite the expected SVG snapshots in testdata")

// snapshotClock pins the fallback dates of undated tasks.
var snapshotClock = func() time.Time {
	return time.Date(2024, time.April, 8, 10, 0, 0, 0, time.UTC)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestSVGGeneration performs SVG comparison testing.
func TestSVGGeneration(t *testing.T) {
	testDataDir := "testdata"

	// Find all task files, JSON and YAML
	var taskFiles []string
	for _, pattern := range []string{"*.tasks.json", "*.tasks.yaml"} {
		matches, err := filepath.Glob(filepath.Join(testDataDir, pattern))
		if err != nil {
			t.Fatalf("Error finding task files: %v", err)
		}
		taskFiles = append(taskFiles, matches...)
	}
	if len(taskFiles) == 0 {
		t.Fatalf("No task files found in %s", testDataDir)
	}

	for _, taskFile := range taskFiles {
		baseName := strings.TrimSuffix(filepath.Base(taskFile), filepath.Ext(taskFile))
		baseName = strings.TrimSuffix(baseName, ".tasks")
		t.Run(baseName, func(t *testing.T) {
			configFile := filepath.Join(testDataDir, baseName+".config.yaml")
			expectedSVGFile := filepath.Join(testDataDir, baseName+".expected.svg")

			// --- Load Config (optional) ---
			if _, err := os.Stat(configFile); err != nil {
				configFile = ""
			}
			cfg, err := loadConfig(&cobra.Command{}, configFile)
			if err != nil {
				t.Fatalf("Error loading config for %s: %v", baseName, err)
			}

			// --- Load Tasks ---
			tasks, err := loadTasks(taskFile, discardLogger())
			if err != nil {
				t.Fatalf("Error loading tasks %s: %v", taskFile, err)
			}

			// --- Generate SVG ---
			chart, err := gantt.NewChart(tasks, cfg.Chart, discardLogger(), gantt.WithClock(snapshotClock))
			if err != nil {
				t.Fatalf("Error building chart for %s: %v", baseName, err)
			}
			generatedSVG := chart.SVG()

			if *update {
				if err := os.WriteFile(expectedSVGFile, []byte(generatedSVG), 0644); err != nil {
					t.Fatalf("Failed to write expected SVG %s: %v", expectedSVGFile, err)
				}
				t.Logf("Updated %s", expectedSVGFile)
				return
			}

			// --- Load Expected SVG ---
			expectedSVGBytes, err := os.ReadFile(expectedSVGFile)
			if err != nil {
				t.Fatalf("Error reading expected SVG file %s (run with -update to create it): %v", expectedSVGFile, err)
			}
			expectedSVG := string(expectedSVGBytes)

			// --- Compare SVG ---
			// Normalize line endings for comparison
			normalizedGenerated := strings.ReplaceAll(generatedSVG, "\r\n", "\n")
			normalizedExpected := strings.ReplaceAll(expectedSVG, "\r\n", "\n")

			if normalizedGenerated != normalizedExpected {
				diff := findFirstDifference(normalizedExpected, normalizedGenerated)
				t.Errorf("Generated SVG for %s does not match %s.\nFirst difference near character %d:\nEXPECTED:\n...%s...\nGOT:\n...%s...",
					baseName, expectedSVGFile,
					diff.Index, diff.ExpectedContext, diff.GotContext)
				failedFile := filepath.Join(testDataDir, baseName+".failed.svg")
				os.WriteFile(failedFile, []byte(generatedSVG), 0644)
				t.Logf("Wrote differing output to %s", failedFile)
			}
		})
	}
}

// diffResult helps show context around the first difference.
type diffResult struct {
	Index           int
	ExpectedContext string
	GotContext      string
}

// findFirstDifference finds the first differing byte of expected and got
// and returns the text around it.
func findFirstDifference(expected, got string) diffResult {
	limit := min(len(expected), len(got))
	idx := -1
	for i := 0; i < limit; i++ {
		if expected[i] != got[i] {
			idx = i
			break
		}
	}
	// one string is a prefix of the other
	if idx == -1 && len(expected) != len(got) {
		idx = limit
	}
	if idx == -1 {
		return diffResult{Index: 0, ExpectedContext: "(Strings are identical)", GotContext: "(Strings are identical)"}
	}

	const contextSize = 20
	start := max(idx-contextSize, 0)
	return diffResult{
		Index:           idx,
		ExpectedContext: expected[start:min(idx+contextSize, len(expected))],
		GotContext:      got[start:min(idx+contextSize, len(got))],
	}
}
