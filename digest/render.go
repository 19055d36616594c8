package digest

import (
	"html"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	NoMessages = "No messages received."

	maxTextRunes = 500
	maxDateRunes = 100
)

var tableHeaders = [3]string{"Sender", "Subject", "Received at"}

func cells(r Row) [3]string {
	return [3]string{r.Sender, r.Subject, r.ReceivedAt}
}

// TextTable renders rows as a fixed-width table with +---+ borders.
func TextTable(rows []Row) string {
	body := make([][3]string, 0, len(rows))
	for _, r := range rows {
		body = append(body, cells(r))
	}
	if len(body) == 0 {
		body = append(body, [3]string{NoMessages, "", ""})
	}

	var widths [3]int
	for i, h := range tableHeaders {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range body {
		for i, v := range row {
			if n := utf8.RuneCountInString(v); n > widths[i] {
				widths[i] = n
			}
		}
	}

	var sep strings.Builder
	sep.WriteString("+")
	for _, w := range widths {
		sep.WriteString(strings.Repeat("-", w+2))
		sep.WriteString("+")
	}

	line := func(values [3]string) string {
		var b strings.Builder
		b.WriteString("|")
		for i, v := range values {
			b.WriteString(" ")
			b.WriteString(v)
			b.WriteString(strings.Repeat(" ", widths[i]-utf8.RuneCountInString(v)))
			b.WriteString(" |")
		}
		return b.String()
	}

	lines := []string{sep.String(), line(tableHeaders), sep.String()}
	for _, row := range body {
		lines = append(lines, line(row))
	}
	lines = append(lines, sep.String())
	return strings.Join(lines, "\n")
}

// HTMLTable renders rows as an escaped HTML table.
func HTMLTable(rows []Row) string {
	var b strings.Builder
	b.WriteString(`<table border="1" cellspacing="0" cellpadding="6" style="border-collapse:collapse;font-family:Arial,Helvetica,sans-serif;font-size:14px;">`)
	b.WriteString(`<thead><tr style="background:#f2f2f2">`)
	for _, h := range tableHeaders {
		b.WriteString("<th>" + h + "</th>")
	}
	b.WriteString("</tr></thead><tbody>")

	if len(rows) == 0 {
		b.WriteString(`<tr><td colspan="3">` + NoMessages + "</td></tr>")
	}
	for _, r := range rows {
		b.WriteString("<tr>")
		b.WriteString("<td>" + sanitize(r.Sender, maxTextRunes) + "</td>")
		b.WriteString("<td>" + sanitize(r.Subject, maxTextRunes) + "</td>")
		b.WriteString("<td>" + sanitize(r.ReceivedAt, maxDateRunes) + "</td>")
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table>")
	return b.String()
}

// HTMLDocument wraps the table in a minimal page.
func HTMLDocument(rows []Row) string {
	return "<html><body>" + HTMLTable(rows) + "</body></html>"
}

func sanitize(value string, limit int) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, value)

	if utf8.RuneCountInString(cleaned) > limit {
		cleaned = string([]rune(cleaned)[:limit])
	}
	return html.EscapeString(cleaned)
}
