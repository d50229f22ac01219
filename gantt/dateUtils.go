package gantt

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// Unit is a calendar unit for date arithmetic.
type Unit string

const (
	Millisecond Unit = "millisecond"
	Second      Unit = "second"
	Minute      Unit = "minute"
	Hour        Unit = "hour"
	Day         Unit = "day"
	Month       Unit = "month"
	Year        Unit = "year"
)

// Diff returns a - b in the given unit, floored. Months are 30 days and
// years 12 such months.
func Diff(a, b time.Time, unit Unit) float64 {
	ms := float64(a.Sub(b)) / float64(time.Millisecond)
	var v float64
	switch unit {
	case Millisecond:
		v = ms
	case Second:
		v = ms / 1000
	case Minute:
		v = ms / 60000
	case Hour:
		v = ms / 3600000
	case Day:
		v = ms / 86400000
	case Month:
		v = ms / 86400000 / 30
	case Year:
		v = ms / 86400000 / 30 / 12
	default:
		v = ms / 86400000
	}
	return math.Floor(v)
}

// Add returns t plus qty units. Sub-day quantities may be fractional and
// are rounded to the millisecond; months and years use their integer part.
func Add(t time.Time, qty float64, unit Unit) time.Time {
	var d time.Duration
	switch unit {
	case Millisecond:
		d = time.Millisecond
	case Second:
		d = time.Second
	case Minute:
		d = time.Minute
	case Hour:
		d = time.Hour
	case Day:
		d = 24 * time.Hour
	case Month:
		return t.AddDate(0, int(qty), 0)
	case Year:
		return t.AddDate(int(qty), 0, 0)
	default:
		d = 24 * time.Hour
	}
	ms := math.Round(qty * float64(d) / float64(time.Millisecond))
	return t.Add(time.Duration(ms) * time.Millisecond)
}

// StartOf truncates t to the beginning of the unit in t's location.
func StartOf(t time.Time, unit Unit) time.Time {
	y, m, d := t.Date()
	loc := t.Location()
	switch unit {
	case Year:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
	case Month:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc)
	case Day:
		return time.Date(y, m, d, 0, 0, 0, 0, loc)
	case Hour:
		return time.Date(y, m, d, t.Hour(), 0, 0, 0, loc)
	case Minute:
		return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, loc)
	case Second:
		return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), 0, loc)
	}
	return t
}

var parseLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// Parse reads a date in one of the accepted layouts as UTC.
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range parseLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

var monthNames = map[string][12]string{
	"en": {"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"},
	"es": {"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio", "Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre"},
	"fr": {"Janvier", "Février", "Mars", "Avril", "Mai", "Juin", "Juillet", "Août", "Septembre", "Octobre", "Novembre", "Décembre"},
	"de": {"Januar", "Februar", "März", "April", "Mai", "Juni", "Juli", "August", "September", "Oktober", "November", "Dezember"},
	"it": {"Gennaio", "Febbraio", "Marzo", "Aprile", "Maggio", "Giugno", "Luglio", "Agosto", "Settembre", "Ottobre", "Novembre", "Dicembre"},
	"pt": {"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho", "Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro"},
	"ru": {"Январь", "Февраль", "Март", "Апрель", "Май", "Июнь", "Июль", "Август", "Сентябрь", "Октябрь", "Ноябрь", "Декабрь"},
	"tr": {"Ocak", "Şubat", "Mart", "Nisan", "Mayıs", "Haziran", "Temmuz", "Ağustos", "Eylül", "Ekim", "Kasım", "Aralık"},
	"zh": {"一月", "二月", "三月", "四月", "五月", "六月", "七月", "八月", "九月", "十月", "十一月", "十二月"},
	"ja": {"1月", "2月", "3月", "4月", "5月", "6月", "7月", "8月", "9月", "10月", "11月", "12月"},
}

// MonthName returns the localized month name, falling back to English.
func MonthName(m time.Month, lang string) string {
	names, ok := monthNames[baseLanguage(lang)]
	if !ok {
		names = monthNames["en"]
	}
	return names[m-1]
}

func baseLanguage(lang string) string {
	tag, err := language.Parse(strings.ReplaceAll(lang, "_", "-"))
	if err != nil {
		return "en"
	}
	base, _ := tag.Base()
	return base.String()
}

// formatTokens are matched longest first.
var formatTokens = []string{"YYYY", "MMMM", "MMM", "SSS", "MM", "DD", "HH", "mm", "ss", "D"}

// Format renders t with moment-style tokens (YYYY, MMMM, MMM, MM, DD, D,
// HH, mm, ss, SSS). Other characters are copied through.
func Format(t time.Time, layout, lang string) string {
	var buf strings.Builder
	for i := 0; i < len(layout); {
		matched := false
		for _, tok := range formatTokens {
			if strings.HasPrefix(layout[i:], tok) {
				buf.WriteString(formatToken(t, tok, lang))
				i += len(tok)
				matched = true
				break
			}
		}
		if !matched {
			buf.WriteByte(layout[i])
			i++
		}
	}
	return buf.String()
}

func formatToken(t time.Time, tok, lang string) string {
	switch tok {
	case "YYYY":
		return fmt.Sprintf("%04d", t.Year())
	case "MMMM":
		return MonthName(t.Month(), lang)
	case "MMM":
		name := []rune(MonthName(t.Month(), lang))
		if len(name) > 3 {
			name = name[:3]
		}
		return string(name)
	case "MM":
		return fmt.Sprintf("%02d", int(t.Month()))
	case "DD":
		return fmt.Sprintf("%02d", t.Day())
	case "D":
		return strconv.Itoa(t.Day())
	case "HH":
		return fmt.Sprintf("%02d", t.Hour())
	case "mm":
		return fmt.Sprintf("%02d", t.Minute())
	case "ss":
		return fmt.Sprintf("%02d", t.Second())
	case "SSS":
		return fmt.Sprintf("%03d", t.Nanosecond()/int(time.Millisecond))
	}
	return tok
}
