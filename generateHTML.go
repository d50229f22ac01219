// generateHTML.go
package main

import (
	"fmt"
	"strings"

	"github.com/buffos/go-gantt/gantt"
)

// generateHTML embeds the chart SVG in a page together with a task table.
func generateHTML(chart *gantt.Chart) (string, error) {
	var htmlBuilder strings.Builder
	opts := chart.Options()

	htmlBuilder.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>Gantt</title>\n")
	htmlBuilder.WriteString("<style>\n")
	htmlBuilder.WriteString(fmt.Sprintf("body { margin: 0; padding: 40px; font-family: %s; font-size: %dpx; }\n",
		escapeCSS("Arial, sans-serif"), opts.FontSize))
	htmlBuilder.WriteString(`
        .gantt-container {
            overflow: auto;
            border: 1px solid #e0e0e0;
            border-radius: 3px;
        }
        .task-table { border-collapse: collapse; margin-top: 24px; }
        .task-table th, .task-table td { padding: 4px 12px; border-bottom: 1px solid #eee; text-align: left; }
        .task-table tr.invalid td { color: #a0a0a0; font-style: italic; }
        .task-table tr.header td { font-weight: bold; }
    `)
	htmlBuilder.WriteString("\n</style>\n</head>\n<body>\n")

	htmlBuilder.WriteString("<div class=\"gantt-container\">\n")
	htmlBuilder.WriteString(chart.SVG())
	htmlBuilder.WriteString("</div>\n")

	// --- Task Table ---
	htmlBuilder.WriteString("<table class=\"task-table\">\n")
	htmlBuilder.WriteString("  <tr><th>Task</th><th>Start</th><th>End</th><th>Progress</th><th>Depends on</th></tr>\n")
	for _, t := range chart.Tasks() {
		rowClass := ternary(t.Invalid, "invalid", ternary(t.Header, "header", ""))
		start := gantt.Format(t.Start, "YYYY-MM-DD", opts.Language)
		end := gantt.Format(gantt.Add(t.End, -1, gantt.Second), "YYYY-MM-DD", opts.Language)
		htmlBuilder.WriteString(fmt.Sprintf("  <tr class=\"%s\"><td>%s</td><td>%s</td><td>%s</td><td>%.0f%%</td><td>%s</td></tr>\n",
			rowClass, escapeHTML(t.Name), start, end, t.Progress, escapeHTML(strings.Join(t.Dependencies, ", "))))
	}
	htmlBuilder.WriteString("</table>\n")

	htmlBuilder.WriteString("</body>\n</html>\n")
	return htmlBuilder.String(), nil
}

// Simple CSS Escaping (basic)
func escapeCSS(s string) string {
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return s
}

// Simple ternary helper for inline conditions
func ternary(condition bool, trueVal, falseVal string) string {
	if condition {
		return trueVal
	}
	return falseVal
}
