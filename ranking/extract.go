package ranking

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// MinTableRows is the smallest standardized table an extractor accepts.
const MinTableRows = 20

var (
	ErrNoTable = errors.New("no ranking table found")

	countryKeywords = []string{"country", "pays", "nation", "state", "land"}
	scoreKeywords   = []string{"iq", "qi", "intelligence", "score"}
)

func findColumn(header []string, keywords []string) int {
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		for _, k := range keywords {
			if strings.Contains(h, k) {
				return i
			}
		}
	}
	return -1
}

func parseScore(raw string) (float64, bool) {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// standardize maps a raw header and body onto ranked rows. Rows without a
// country or with an unparsable score are dropped.
func standardize(header []string, records [][]string) (Table, bool) {
	countryCol := findColumn(header, countryKeywords)
	scoreCol := findColumn(header, scoreKeywords)
	if countryCol < 0 || scoreCol < 0 {
		return nil, false
	}

	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		if countryCol >= len(rec) || scoreCol >= len(rec) {
			continue
		}
		country := strings.TrimSpace(rec[countryCol])
		score, ok := parseScore(rec[scoreCol])
		if country == "" || !ok {
			continue
		}
		rows = append(rows, Row{Country: country, Score: score})
	}
	return Rerank(rows), true
}

// ExtractStrict reads tables that declare header cells.
func ExtractStrict(page string) (Table, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, err
	}

	var found Table
	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		headerRow := table.Find("tr").FilterFunction(func(_ int, tr *goquery.Selection) bool {
			return tr.Find("th").Length() > 0
		}).First()

		var header []string
		headerRow.Find("th").Each(func(_ int, th *goquery.Selection) {
			header = append(header, strings.TrimSpace(th.Text()))
		})
		if len(header) == 0 {
			return true
		}

		var records [][]string
		table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			cells := tr.Find("td")
			if cells.Length() == 0 {
				return
			}
			record := make([]string, 0, cells.Length())
			cells.Each(func(_ int, td *goquery.Selection) {
				record = append(record, strings.TrimSpace(td.Text()))
			})
			records = append(records, record)
		})

		if rows, ok := standardize(header, records); ok && len(rows) >= MinTableRows {
			found = rows
			return false
		}
		return true
	})

	if found == nil {
		return nil, ErrNoTable
	}
	return found, nil
}

// ExtractLoose tokenizes every table and treats its first row as the header,
// whatever cell type it uses.
func ExtractLoose(page string) (Table, error) {
	z := html.NewTokenizer(strings.NewReader(page))

	var (
		tables [][][]string
		rows   [][]string
		row    []string
		cell   strings.Builder
		depth  int
		inCell bool
	)

	// End tags for cells and rows are optional in HTML, so opening tags
	// flush whatever is pending.
	flushCell := func() {
		if inCell {
			row = append(row, strings.TrimSpace(cell.String()))
			inCell = false
		}
	}
	flushRow := func() {
		flushCell()
		if len(row) > 0 {
			rows = append(rows, row)
		}
		row = nil
	}

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if z.Err() == io.EOF {
				break
			}
			return nil, z.Err()
		}

		switch tt {
		case html.StartTagToken:
			name, _ := z.TagName()
			switch atom.Lookup(name) {
			case atom.Table:
				depth++
				if depth == 1 {
					rows = nil
					row = nil
				}
			case atom.Tr:
				if depth == 1 {
					flushRow()
				}
			case atom.Td, atom.Th:
				if depth == 1 {
					flushCell()
					inCell = true
					cell.Reset()
				}
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			switch atom.Lookup(name) {
			case atom.Td, atom.Th:
				if depth == 1 {
					flushCell()
				}
			case atom.Tr:
				if depth == 1 {
					flushRow()
				}
			case atom.Table:
				if depth == 1 {
					flushRow()
					if len(rows) > 0 {
						tables = append(tables, rows)
					}
				}
				if depth > 0 {
					depth--
				}
			}
		case html.TextToken:
			if inCell {
				cell.Write(z.Text())
			}
		}
	}

	for _, t := range tables {
		if len(t) < 2 {
			continue
		}
		if rows, ok := standardize(t[0], t[1:]); ok && len(rows) >= MinTableRows {
			return rows, nil
		}
	}
	return nil, ErrNoTable
}
