package ranking

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type Row struct {
	Rank    int     `json:"rank"`
	Country string  `json:"country"`
	Score   float64 `json:"iq"`
}

// Table is ordered by rank, 1 being the highest score.
type Table []Row

// Meta reports where a table came from. Offline is set for cache and seed
// data.
type Meta struct {
	Source  string `json:"source"`
	Offline bool   `json:"offline"`
}

// Rerank orders rows by score descending and numbers them from 1. Equal
// scores keep their input order.
func Rerank(rows []Row) Table {
	out := make(Table, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// Top returns the n best ranked rows.
func (t Table) Top(n int) Table {
	out := make(Table, len(t))
	copy(out, t)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Rank < out[j].Rank
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Normalize strips accents, lower-cases and collapses whitespace.
func Normalize(name string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	stripped, _, err := transform.String(t, name)
	if err != nil {
		stripped = name
	}
	return strings.Join(strings.Fields(strings.ToLower(stripped)), " ")
}

// Lookup finds a country by exact normalized name first, then by prefix or
// substring. The first hit in table order wins.
func (t Table) Lookup(query string) (Row, bool) {
	q := Normalize(query)
	if q == "" {
		return Row{}, false
	}

	names := make([]string, len(t))
	for i, row := range t {
		names[i] = Normalize(row.Country)
		if names[i] == q {
			return row, true
		}
	}
	for i, name := range names {
		if strings.HasPrefix(name, q) || strings.Contains(name, q) {
			return t[i], true
		}
	}
	return Row{}, false
}

// Neighbors returns the rows ranked rank-1 through rank+1.
func (t Table) Neighbors(rank int) Table {
	out := Table{}
	for _, row := range t.Top(-1) {
		if row.Rank >= rank-1 && row.Rank <= rank+1 {
			out = append(out, row)
		}
	}
	return out
}
