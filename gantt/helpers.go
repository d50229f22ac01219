package gantt

import (
	"math"
	"strconv"
	"strings"
)

// --- Helper Functions for Effective Options ---

// getString returns v, or def when v is empty.
func getString(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

// getFloat64 returns v, or def when v is not a positive finite number.
func getFloat64(v, def float64) float64 {
	if v > 0 && !math.IsInf(v, 0) {
		return v
	}
	return def
}

// finiteOr replaces NaN and infinities with def.
func finiteOr(v, def float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}

// formatNumber renders a float the shortest way that parses back exactly.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// joinPoints renders polygon points as "x1,y1 x2,y2 ...".
func joinPoints(coords []float64) string {
	var buf strings.Builder
	for i := 0; i+1 < len(coords); i += 2 {
		if i > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(formatNumber(coords[i]))
		buf.WriteByte(',')
		buf.WriteString(formatNumber(coords[i+1]))
	}
	return buf.String()
}

// --- XML Escaping ---

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}

// --- Text Dimension Estimation ---

// TextMeasurer reports the rendered width of a label in pixels.
type TextMeasurer func(text string) float64

// EstimateTextWidth returns a TextMeasurer using the average glyph width
// heuristic (0.6 × font size per rune).
func EstimateTextWidth(fontSize int) TextMeasurer {
	return func(text string) float64 {
		if fontSize <= 0 || text == "" {
			return 0
		}
		return float64(len([]rune(text))) * float64(fontSize) * 0.6
	}
}
