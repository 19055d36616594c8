package ranking

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

//go:embed seed.csv
var seedCSV []byte

const SeedSource = "seed"

var csvHeader = []string{"rank", "country", "iq"}

// WriteCSV encodes the table with a rank,country,iq header.
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, row := range t {
		record := []string{
			strconv.Itoa(row.Rank),
			row.Country,
			strconv.FormatFloat(row.Score, 'f', -1, 64),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV decodes a table; the header must name rank, country and iq.
func ReadCSV(r io.Reader) (Table, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty csv")
	}

	cols := map[string]int{}
	for i, name := range records[0] {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range csvHeader {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	t := make(Table, 0, len(records)-1)
	for n, rec := range records[1:] {
		rank, err := strconv.Atoi(strings.TrimSpace(rec[cols["rank"]]))
		if err != nil {
			return nil, fmt.Errorf("line %d: rank: %w", n+2, err)
		}
		score, err := strconv.ParseFloat(strings.TrimSpace(rec[cols["iq"]]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: iq: %w", n+2, err)
		}
		t = append(t, Row{Rank: rank, Country: strings.TrimSpace(rec[cols["country"]]), Score: score})
	}
	return t, nil
}

// SaveCSV writes the table to path, creating parent directories.
func SaveCSV(path string, t Table) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, t); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func LoadCSV(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f)
}

// Seed returns the bundled fallback table.
func Seed() (Table, error) {
	return ReadCSV(bytes.NewReader(seedCSV))
}

// Loader resolves a table from the best available source.
type Loader struct {
	CachePath string
	MinRows   int
	Attempts  func() []Attempt
	Log       *zap.Logger
}

func NewLoader(cachePath string, minRows int, scraper *Scraper, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{
		CachePath: cachePath,
		MinRows:   minRows,
		Attempts:  scraper.Attempts,
		Log:       log.Named("ranking"),
	}
}

func (l *Loader) log() *zap.Logger {
	if l.Log == nil {
		return zap.NewNop()
	}
	return l.Log
}

func (l *Loader) scrape(ctx context.Context) (Table, Meta, bool) {
	if l.Attempts == nil {
		return nil, Meta{}, false
	}
	table, source, err := RunAttempts(ctx, l.Attempts(), l.MinRows, l.log())
	if err != nil {
		l.log().Info("scraping failed", zap.Error(err))
		return nil, Meta{}, false
	}
	if err := SaveCSV(l.CachePath, table); err != nil {
		l.log().Warn("could not write cache", zap.String("path", l.CachePath), zap.Error(err))
	}
	return table, Meta{Source: source}, true
}

// Load never fails. With refresh it scrapes first; otherwise the cache is
// preferred, then scraping, then the bundled seed. An empty table with zero
// Meta means every source failed.
func (l *Loader) Load(ctx context.Context, refresh bool) (Table, Meta) {
	if refresh {
		if table, meta, ok := l.scrape(ctx); ok {
			return table, meta
		}
	}

	if cached, err := LoadCSV(l.CachePath); err == nil && len(cached) >= l.MinRows {
		return cached, Meta{Source: l.CachePath, Offline: true}
	} else if err != nil && !os.IsNotExist(err) {
		l.log().Warn("ignoring unreadable cache", zap.String("path", l.CachePath), zap.Error(err))
	}

	if !refresh {
		if table, meta, ok := l.scrape(ctx); ok {
			return table, meta
		}
	}

	seed, err := Seed()
	if err != nil {
		l.log().Error("bundled seed is invalid", zap.Error(err))
		return Table{}, Meta{}
	}
	return seed, Meta{Source: SeedSource, Offline: true}
}
