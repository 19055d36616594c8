package controllers

import (
	"bytes"
	"elles-app/controllers/helpers"
	"elles-app/ranking"
	_ "embed"
	"fmt"
	"html/template"
	"math"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const TopExportSize = 150

//go:embed templates/ranking.html
var rankingPageSource string

var rankingPage = template.Must(template.New("ranking").Parse(rankingPageSource))

type neighborBar struct {
	ranking.Row
	Width int
}

type rankingView struct {
	Meta       ranking.Meta
	Count      int
	Empty      bool
	Query      string
	Found      bool
	Match      ranking.Row
	Neighbors  []neighborBar
	Top        ranking.Table
	ExportPath string
}

type RankingController struct {
	Loader     *ranking.Loader
	ExportPath string
	Log        *zap.Logger

	loads singleflight.Group
	mu    sync.RWMutex
	table ranking.Table
	meta  ranking.Meta
}

type loaded struct {
	table ranking.Table
	meta  ranking.Meta
}

func NewRankingController(loader *ranking.Loader, exportPath string, log *zap.Logger) *RankingController {
	if log == nil {
		log = zap.NewNop()
	}
	return &RankingController{Loader: loader, ExportPath: exportPath, Log: log.Named("ctrl.ranking")}
}

// current returns the loaded table, reloading it on refresh or while it is
// still empty. Concurrent reloads share one Load call and readers keep the
// previous table until it finishes.
func (c *RankingController) current(ctx *fiber.Ctx, refresh bool) (ranking.Table, ranking.Meta) {
	c.mu.RLock()
	table, meta := c.table, c.meta
	c.mu.RUnlock()
	if !refresh && len(table) > 0 {
		return table, meta
	}

	key := "load"
	if refresh {
		key = "refresh"
	}
	v, _, _ := c.loads.Do(key, func() (interface{}, error) {
		table, meta := c.Loader.Load(ctx.UserContext(), refresh)
		c.Log.Info("ranking loaded", zap.String("source", meta.Source), zap.Bool("offline", meta.Offline), zap.Int("rows", len(table)))

		c.mu.Lock()
		c.table, c.meta = table, meta
		c.mu.Unlock()
		return loaded{table: table, meta: meta}, nil
	})
	res := v.(loaded)
	return res.table, res.meta
}

// exportTop writes the top rows to the export path on every render.
func (c *RankingController) exportTop(table ranking.Table) ranking.Table {
	top := table.Top(TopExportSize)
	if len(top) == 0 || c.ExportPath == "" {
		return top
	}
	if err := ranking.SaveCSV(c.ExportPath, top); err != nil {
		c.Log.Warn("could not write top export", zap.String("path", c.ExportPath), zap.Error(err))
	}
	return top
}

func bars(rows ranking.Table) []neighborBar {
	best := 0.0
	for _, r := range rows {
		best = math.Max(best, r.Score)
	}
	out := make([]neighborBar, 0, len(rows))
	for _, r := range rows {
		width := 0
		if best > 0 {
			width = int(math.Round(r.Score / best * 100))
		}
		out = append(out, neighborBar{Row: r, Width: width})
	}
	return out
}

func (c *RankingController) Page(ctx *fiber.Ctx) error {
	table, meta := c.current(ctx, ctx.QueryBool("refresh"))
	top := c.exportTop(table)

	view := rankingView{
		Meta:       meta,
		Count:      len(table),
		Empty:      len(table) == 0,
		Query:      ctx.Query("q"),
		Top:        top.Top(10),
		ExportPath: c.ExportPath,
	}
	if view.Query != "" {
		if match, ok := table.Lookup(view.Query); ok {
			view.Found = true
			view.Match = match
			view.Neighbors = bars(table.Neighbors(match.Rank))
		}
	}

	var buf bytes.Buffer
	if err := rankingPage.Execute(&buf, view); err != nil {
		return err
	}
	ctx.Type("html", "utf-8")
	return ctx.Send(buf.Bytes())
}

func (c *RankingController) GetRanking(ctx *fiber.Ctx) error {
	table, meta := c.current(ctx, ctx.QueryBool("refresh"))
	c.exportTop(table)

	return helpers.Success(ctx, fiber.StatusOK, "Ranking retrieved successfully", fiber.Map{
		"source":  meta.Source,
		"offline": meta.Offline,
		"count":   len(table),
		"rows":    table,
	})
}

func (c *RankingController) SearchCountry(ctx *fiber.Ctx) error {
	query := ctx.Query("q")
	if ranking.Normalize(query) == "" {
		return helpers.Failure(ctx, fiber.StatusBadRequest, "q is required")
	}

	table, _ := c.current(ctx, false)
	match, ok := table.Lookup(query)
	if !ok {
		return helpers.Failure(ctx, fiber.StatusNotFound, "Country not found")
	}

	return helpers.Success(ctx, fiber.StatusOK, "Country found", fiber.Map{
		"match":     match,
		"neighbors": table.Neighbors(match.Rank),
	})
}

func (c *RankingController) DownloadCSV(ctx *fiber.Ctx) error {
	table, _ := c.current(ctx, false)
	top := c.exportTop(table)

	ctx.Set("Content-Type", "text/csv; charset=utf-8")
	ctx.Set("Content-Disposition", `attachment; filename="iq_top150.csv"`)
	return ranking.WriteCSV(ctx.Response().BodyWriter(), top)
}

func (c *RankingController) DownloadExcel(ctx *fiber.Ctx) error {
	table, _ := c.current(ctx, false)
	top := c.exportTop(table)

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Sheet1"

	for i, h := range []string{"Rank", "Country", "Average IQ"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	for i, row := range top {
		line := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", line), row.Rank)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", line), row.Country)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", line), row.Score)
	}

	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", `attachment; filename="iq_top150.xlsx"`)

	if err := f.Write(ctx.Response().BodyWriter()); err != nil {
		return helpers.Failure(ctx, fiber.StatusInternalServerError, "Failed to generate Excel file")
	}
	return nil
}
