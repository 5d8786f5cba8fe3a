package views

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/dmitrijs2005/taxdesk/internal/client/models"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	valueStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	headStyle  = lipgloss.NewStyle().Bold(true).Underline(true)

	badgeColors = map[string]lipgloss.Color{
		string(models.PaymentCompleted):  "42",
		string(models.PaymentApproved):   "39",
		string(models.PaymentPending):    "214",
		string(models.PaymentRejected):   "196",
		string(models.PaymentProcessing): "33",
		string(models.PaymentFailed):     "196",
		string(models.PaymentCancelled):  "245",
		models.AccountActive:             "42",
		models.AccountInactive:           "196",
	}
)

// Money formats an amount the way the pages show it: "TZS 1,250,000.5".
func Money(a models.Amount) string {
	return "TZS " + humanize.CommafWithDigits(float64(a), 2)
}

// Date formats an API date or timestamp as "02 Jan 2006", or "N/A".
func Date(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "N/A"
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("02 Jan 2006")
		}
	}
	return s
}

// Ago renders a timestamp relative to now, or "Never".
func Ago(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "Never"
	}
	return humanize.Time(*t)
}

// NA substitutes "N/A" for an empty value.
func NA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func badge(status string) string {
	c, ok := badgeColors[status]
	if !ok {
		c = "245"
	}
	return lipgloss.NewStyle().Foreground(c).Bold(true).Render(status)
}

func heading(w io.Writer, title string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render(title))
	fmt.Fprintln(w, strings.Repeat("─", lipgloss.Width(title)))
}

func section(w io.Writer, title string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, headStyle.Render(title))
}

// card is one label/value pair in a row of cards.
type card struct {
	label string
	value string
}

func cards(w io.Writer, cs ...card) {
	width := 0
	for _, c := range cs {
		width = max(width, lipgloss.Width(c.label))
	}
	for _, c := range cs {
		fmt.Fprintf(w, "  %s  %s\n", labelStyle.Width(width).Render(c.label), valueStyle.Render(c.value))
	}
}

func muted(w io.Writer, text string) {
	fmt.Fprintln(w, mutedStyle.Render(text))
}

func formError(w io.Writer, text string) {
	fmt.Fprintln(w, errorStyle.Render("✖ "+text))
}

func fieldErrors(w io.Writer, fields map[string]string) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		formError(w, k+": "+fields[k])
	}
}

func formOK(w io.Writer, text string) {
	fmt.Fprintln(w, okStyle.Render("✔ "+text))
}

// table prints rows under headers with columns padded to the widest cell.
func table(w io.Writer, headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, r := range rows {
		for i := range headers {
			if i < len(r) {
				widths[i] = max(widths[i], lipgloss.Width(r[i]))
			}
		}
	}

	line := func(cells []string, style *lipgloss.Style) {
		var b strings.Builder
		b.WriteString(" ")
		for i := range headers {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			if style != nil {
				cell = style.Render(cell)
			}
			b.WriteString(" ")
			b.WriteString(cell)
			if pad := widths[i] - lipgloss.Width(cell); pad > 0 && i < len(headers)-1 {
				b.WriteString(strings.Repeat(" ", pad))
			}
			b.WriteString(" ")
		}
		fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
	}

	line(headers, &labelStyle)
	for _, r := range rows {
		line(r, nil)
	}
}
