package routes

import (
	"bytes"
	"context"
	"elles-app/config"
	"elles-app/ranking"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRankingApp(t *testing.T) (*fiber.App, string, *int) {
	t.Helper()
	dir := t.TempDir()
	calls := 0

	cfg := &config.Config{Ranking: config.RankingConfig{
		CachePath: filepath.Join(dir, "cache.csv"),
		TopExport: filepath.Join(dir, "export", "top150.csv"),
		MinRows:   150,
	}}
	loader := &ranking.Loader{
		CachePath: cfg.Ranking.CachePath,
		MinRows:   cfg.Ranking.MinRows,
		Attempts: func() []ranking.Attempt {
			return []ranking.Attempt{{Source: "offline", Run: func(context.Context) (ranking.Table, error) {
				calls++
				return nil, errors.New("network unreachable")
			}}}
		},
	}
	return NewRankingApp(cfg, loader, nil), cfg.Ranking.TopExport, &calls
}

func TestRankingPage(t *testing.T) {
	app, export, _ := newRankingApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/?q="+url.QueryEscape("  Fránce "), nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	body, _ := io.ReadAll(resp.Body)
	page := string(body)
	assert.Contains(t, page, "France · Rank: 12 · Average IQ: 98.1")
	assert.Contains(t, page, "United Kingdom")
	assert.Contains(t, page, "local cache (seed)")
	assert.Contains(t, page, "20 countries")

	stored, err := ranking.LoadCSV(export)
	require.NoError(t, err)
	assert.Len(t, stored, 20)

	resp, err = app.Test(httptest.NewRequest("GET", "/?q=Atlantis", nil), -1)
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "Country not found")
}

func TestRankingAPI(t *testing.T) {
	app, _, calls := newRankingApp(t)

	status, env := do(t, app, "GET", "/api/ranking", nil)
	require.Equal(t, http.StatusOK, status)
	var data struct {
		Source  string        `json:"source"`
		Offline bool          `json:"offline"`
		Count   int           `json:"count"`
		Rows    []ranking.Row `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, ranking.SeedSource, data.Source)
	assert.True(t, data.Offline)
	assert.Equal(t, 20, data.Count)
	assert.Equal(t, 1, *calls)

	// the loaded table is reused until a refresh is requested
	do(t, app, "GET", "/api/ranking", nil)
	assert.Equal(t, 1, *calls)
	do(t, app, "GET", "/api/ranking?refresh=true", nil)
	assert.Equal(t, 2, *calls)

	status, env = do(t, app, "GET", "/api/ranking/search?q=Fra", nil)
	require.Equal(t, http.StatusOK, status)
	var hit struct {
		Match     ranking.Row   `json:"match"`
		Neighbors []ranking.Row `json:"neighbors"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &hit))
	assert.Equal(t, "France", hit.Match.Country)
	assert.Len(t, hit.Neighbors, 3)

	status, _ = do(t, app, "GET", "/api/ranking/search?q=Atlantis", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = do(t, app, "GET", "/api/ranking/search?q=%20", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestRankingDownloads(t *testing.T) {
	app, _, _ := newRankingApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/ranking/top150.csv", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	assert.Equal(t, "rank,country,iq", lines[0])
	assert.Equal(t, "1,Singapore,105.9", lines[1])
	assert.Len(t, lines, 21)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/ranking/top150.xlsx", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ = io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(body, []byte("PK")))
}

func TestRankingRefreshDoesNotBlockReaders(t *testing.T) {
	dir := t.TempDir()
	started := make(chan struct{})
	release := make(chan struct{})
	runs := 0

	cfg := &config.Config{Ranking: config.RankingConfig{
		CachePath: filepath.Join(dir, "cache.csv"),
		MinRows:   150,
	}}
	loader := &ranking.Loader{
		CachePath: cfg.Ranking.CachePath,
		MinRows:   cfg.Ranking.MinRows,
		Attempts: func() []ranking.Attempt {
			runs++
			slow := runs > 1
			return []ranking.Attempt{{Source: "offline", Run: func(context.Context) (ranking.Table, error) {
				if slow {
					close(started)
					<-release
				}
				return nil, errors.New("network unreachable")
			}}}
		},
	}
	app := NewRankingApp(cfg, loader, nil)

	status, _ := do(t, app, "GET", "/api/ranking", nil)
	require.Equal(t, http.StatusOK, status)

	done := make(chan int, 1)
	go func() {
		resp, err := app.Test(httptest.NewRequest("GET", "/api/ranking?refresh=true", nil), -1)
		if err != nil {
			done <- 0
			return
		}
		done <- resp.StatusCode
	}()
	<-started

	resp, err := app.Test(httptest.NewRequest("GET", "/api/ranking", nil), 2000)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	close(release)
	assert.Equal(t, http.StatusOK, <-done)
}
