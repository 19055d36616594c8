package ranking

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureRows(n int) []Row {
	rows := make([]Row, 0, n)
	for i := 0; i < n; i++ {
		// scores deliberately out of order
		rows = append(rows, Row{Country: fmt.Sprintf("Country %02d", i), Score: float64(80 + (i*7)%n)})
	}
	return rows
}

func strictPage(n int) string {
	var b strings.Builder
	b.WriteString(`<html><body><table><tr><th>Menu</th></tr></table>`)
	b.WriteString(`<table><thead><tr><th>Rank</th><th>Country</th><th>Average IQ</th></tr></thead><tbody>`)
	for i, r := range fixtureRows(n) {
		fmt.Fprintf(&b, "<tr><td>%d</td><td> %s </td><td>%.1f</td></tr>", i+1, r.Country, r.Score)
	}
	b.WriteString(`<tr><td>99</td><td>Nowhere</td><td>n/a</td></tr>`)
	b.WriteString(`</tbody></table></body></html>`)
	return b.String()
}

func loosePage(n int) string {
	var b strings.Builder
	b.WriteString(`<html><body><table><tr><td>Pays<td>QI moyen</tr>`)
	for _, r := range fixtureRows(n) {
		fmt.Fprintf(&b, "<tr><td>%s<td>%s", r.Country, strings.Replace(fmt.Sprintf("%.1f", r.Score), ".", ",", 1))
	}
	b.WriteString(`</table></body></html>`)
	return b.String()
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "france", Normalize("  Fránce "))
	assert.Equal(t, "cote d'ivoire", Normalize("Côte \t d'Ivoire"))
	assert.Equal(t, "", Normalize("   "))
}

func TestLookup(t *testing.T) {
	seed, err := Seed()
	require.NoError(t, err)
	require.Len(t, seed, 20)

	row, ok := seed.Lookup("  Fránce ")
	require.True(t, ok)
	assert.Equal(t, "France", row.Country)
	assert.Equal(t, 12, row.Rank)

	row, ok = seed.Lookup("Fra")
	require.True(t, ok)
	assert.Equal(t, "France", row.Country)

	row, ok = seed.Lookup("land")
	require.True(t, ok)
	assert.Equal(t, "Switzerland", row.Country)

	_, ok = seed.Lookup("")
	assert.False(t, ok)
	_, ok = seed.Lookup("Atlantis")
	assert.False(t, ok)

	exactFirst := Table{{Rank: 1, Country: "Nigeria", Score: 90}, {Rank: 2, Country: "Niger", Score: 89}}
	row, ok = exactFirst.Lookup("NIGER")
	require.True(t, ok)
	assert.Equal(t, "Niger", row.Country)
}

func TestNeighbors(t *testing.T) {
	seed, err := Seed()
	require.NoError(t, err)

	ranks := func(tbl Table) []int {
		out := make([]int, 0, len(tbl))
		for _, r := range tbl {
			out = append(out, r.Rank)
		}
		return out
	}
	assert.Equal(t, []int{1, 2}, ranks(seed.Neighbors(1)))
	assert.Equal(t, []int{11, 12, 13}, ranks(seed.Neighbors(12)))
	assert.Equal(t, []int{19, 20}, ranks(seed.Neighbors(20)))
}

func TestRerankAndTop(t *testing.T) {
	table := Rerank([]Row{
		{Country: "A", Score: 90},
		{Country: "B", Score: 100},
		{Country: "C", Score: 90},
	})
	assert.Equal(t, Table{
		{Rank: 1, Country: "B", Score: 100},
		{Rank: 2, Country: "A", Score: 90},
		{Rank: 3, Country: "C", Score: 90},
	}, table)

	assert.Len(t, table.Top(2), 2)
	assert.Len(t, table.Top(150), 3)
}

func TestExtractStrict(t *testing.T) {
	table, err := ExtractStrict(strictPage(25))
	require.NoError(t, err)
	require.Len(t, table, 25)
	assert.Equal(t, 1, table[0].Rank)
	assert.Equal(t, 104.0, table[0].Score)
	for i := 1; i < len(table); i++ {
		assert.GreaterOrEqual(t, table[i-1].Score, table[i].Score)
		assert.Equal(t, i+1, table[i].Rank)
	}

	_, err = ExtractStrict(strictPage(5))
	assert.ErrorIs(t, err, ErrNoTable)

	_, err = ExtractStrict(loosePage(25))
	assert.ErrorIs(t, err, ErrNoTable)
}

func TestExtractLoose(t *testing.T) {
	table, err := ExtractLoose(loosePage(25))
	require.NoError(t, err)
	require.Len(t, table, 25)
	assert.Equal(t, 104.0, table[0].Score)

	table, err = ExtractLoose(strictPage(25))
	require.NoError(t, err)
	assert.Len(t, table, 25)

	_, err = ExtractLoose("<html><body><p>nothing here</p></body></html>")
	assert.ErrorIs(t, err, ErrNoTable)
}

func TestScraperFallsThroughSources(t *testing.T) {
	var agents []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agents = append(agents, r.UserAgent())
		switch r.URL.Path {
		case "/broken":
			w.WriteHeader(http.StatusInternalServerError)
		case "/short":
			fmt.Fprint(w, strictPage(21))
		case "/loose":
			fmt.Fprint(w, loosePage(30))
		}
	}))
	defer srv.Close()

	scraper := NewScraper([]string{srv.URL + "/broken", srv.URL + "/short", srv.URL + "/loose"}, 5*time.Second)
	table, source, err := RunAttempts(context.Background(), scraper.Attempts(), 25, nil)
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/loose", source)
	assert.Len(t, table, 30)

	// one download per page even though each page has two attempts
	assert.Len(t, agents, 3)
	assert.Equal(t, UserAgent, agents[0])

	_, _, err = RunAttempts(context.Background(), NewScraper([]string{srv.URL + "/broken"}, time.Second).Attempts(), 1, nil)
	assert.ErrorIs(t, err, ErrNoData)
}

func staticAttempts(calls *int, table Table, err error) func() []Attempt {
	return func() []Attempt {
		return []Attempt{{Source: "fixture", Run: func(context.Context) (Table, error) {
			*calls++
			return table, err
		}}}
	}
}

func TestLoaderPrecedence(t *testing.T) {
	ctx := context.Background()
	scraped := Rerank(fixtureRows(25))

	t.Run("seed when nothing else works", func(t *testing.T) {
		calls := 0
		l := &Loader{CachePath: filepath.Join(t.TempDir(), "cache.csv"), MinRows: 20,
			Attempts: staticAttempts(&calls, nil, errors.New("offline"))}

		table, meta := l.Load(ctx, false)
		assert.Len(t, table, 20)
		assert.Equal(t, Meta{Source: SeedSource, Offline: true}, meta)
		assert.Equal(t, 1, calls)
	})

	t.Run("scrape persists cache", func(t *testing.T) {
		calls := 0
		cache := filepath.Join(t.TempDir(), "data", "cache.csv")
		l := &Loader{CachePath: cache, MinRows: 20, Attempts: staticAttempts(&calls, scraped, nil)}

		table, meta := l.Load(ctx, false)
		assert.Equal(t, scraped, table)
		assert.Equal(t, Meta{Source: "fixture"}, meta)

		stored, err := LoadCSV(cache)
		require.NoError(t, err)
		assert.Equal(t, scraped, stored)

		table, meta = l.Load(ctx, false)
		assert.Equal(t, scraped, table)
		assert.Equal(t, Meta{Source: cache, Offline: true}, meta)
		assert.Equal(t, 1, calls)
	})

	t.Run("refresh bypasses cache", func(t *testing.T) {
		calls := 0
		cache := filepath.Join(t.TempDir(), "cache.csv")
		require.NoError(t, SaveCSV(cache, scraped))
		l := &Loader{CachePath: cache, MinRows: 20, Attempts: staticAttempts(&calls, scraped[:22], nil)}

		table, meta := l.Load(ctx, true)
		assert.Len(t, table, 22)
		assert.Equal(t, "fixture", meta.Source)
		assert.Equal(t, 1, calls)
	})

	t.Run("failed refresh falls back to cache once", func(t *testing.T) {
		calls := 0
		cache := filepath.Join(t.TempDir(), "cache.csv")
		require.NoError(t, SaveCSV(cache, scraped))
		l := &Loader{CachePath: cache, MinRows: 20, Attempts: staticAttempts(&calls, nil, errors.New("offline"))}

		table, meta := l.Load(ctx, true)
		assert.Len(t, table, 25)
		assert.True(t, meta.Offline)
		assert.Equal(t, 1, calls)
	})

	t.Run("small cache is ignored", func(t *testing.T) {
		calls := 0
		cache := filepath.Join(t.TempDir(), "cache.csv")
		require.NoError(t, SaveCSV(cache, scraped[:5]))
		l := &Loader{CachePath: cache, MinRows: 20, Attempts: staticAttempts(&calls, scraped, nil)}

		table, meta := l.Load(ctx, false)
		assert.Len(t, table, 25)
		assert.False(t, meta.Offline)
	})
}

func TestLoaderWithoutLogger(t *testing.T) {
	ctx := context.Background()

	t.Run("failed scrape falls back to seed", func(t *testing.T) {
		calls := 0
		l := &Loader{CachePath: filepath.Join(t.TempDir(), "cache.csv"), MinRows: 150,
			Attempts: staticAttempts(&calls, nil, errors.New("offline"))}

		var table Table
		var meta Meta
		require.NotPanics(t, func() { table, meta = l.Load(ctx, false) })
		assert.Len(t, table, 20)
		assert.Equal(t, SeedSource, meta.Source)
		assert.Equal(t, 1, calls)
	})

	t.Run("unwritable cache is reported and skipped", func(t *testing.T) {
		calls := 0
		// a directory can be neither read nor written as the cache file
		l := &Loader{CachePath: t.TempDir(), MinRows: 20,
			Attempts: staticAttempts(&calls, Rerank(fixtureRows(25)), nil)}

		var table Table
		var meta Meta
		require.NotPanics(t, func() { table, meta = l.Load(ctx, false) })
		assert.Len(t, table, 25)
		assert.Equal(t, Meta{Source: "fixture"}, meta)
	})
}

func TestReadCSVRequiresColumns(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("rank,name,score\n1,France,98\n"))
	assert.Error(t, err)

	table, err := ReadCSV(strings.NewReader("country,iq,rank\nFrance,98.1,12\n"))
	require.NoError(t, err)
	assert.Equal(t, Table{{Rank: 12, Country: "France", Score: 98.1}}, table)
}
