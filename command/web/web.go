package cmdweb

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/labstack/echo/v4"
	lo "github.com/samber/lo"

	"milk-bench/connectors/config"
	"milk-bench/connectors/dataset"
	"milk-bench/domain/bench"
	"milk-bench/domain/kpi"
	"milk-bench/domain/peers"
	"milk-bench/domain/sample"
)

// Run starts the Echo web server exposing the benchmark JSON APIs and an
// optional SPA dashboard.
//
// Usage:
//
//	milk-bench web [-addr :8080] [-ui ./ui/dist] [-files a.json,b.json]
//
// Endpoints:
//
//	GET  /api/kpis       -> KPI catalog (keys, labels, units)
//	GET  /api/entities   -> distinct entities with province and group
//	GET  /api/benchmark  -> full dashboard view model for one request
//	GET  /api/histogram  -> peer distribution of one calendar month
//	POST /api/reload     -> re-read dataset files, invalidate caches
//
// When -ui points to a built Vite app (index.html exists), static files are
// served at / and unknown routes fall back to index.html for SPA routing.
func Run(args []string) error {
	fs := flag.NewFlagSet("web", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	addr := fs.String("addr", "", "http listen address (host:port; overrides config server.addr)")
	uiDir := fs.String("ui", "", "directory containing built UI (overrides config server.ui)")
	files := fs.String("files", "", "comma-separated sample files (overrides config dataset.files)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(config.Path())
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	if cfg == nil {
		cfg = &config.Config{}
	}
	catalog, err := cfg.Catalog()
	if err != nil {
		return err
	}

	paths := cfg.Dataset.Files
	if *files != "" {
		paths = nil
		for _, p := range strings.Split(*files, ",") {
			if p = strings.TrimSpace(p); p != "" {
				paths = append(paths, p)
			}
		}
	}
	if len(paths) == 0 {
		slog.Error("web.validation.error", "reason", "no dataset files")
		return fmt.Errorf("no dataset files: set -files or dataset.files in config")
	}

	rows, err := dataset.Load(paths)
	if err != nil {
		return err
	}
	registry, err := dataset.BuildProviders(cfg.Providers, catalog)
	if err != nil {
		return err
	}

	srv := &server{
		engine: bench.NewEngine(catalog, registry),
		paths:  paths,
		rows:   rows,
	}
	srv.catalogDefs = catalog.Definitions()

	listen := cfg.Server.Addr
	if *addr != "" {
		listen = *addr
	}
	if listen == "" {
		listen = ":8080"
	}
	ui := cfg.Server.UIDir
	if *uiDir != "" {
		ui = *uiDir
	}

	e := echo.New()
	e.GET("/api/kpis", srv.handleKPIs)
	e.GET("/api/entities", srv.handleEntities)
	e.GET("/api/benchmark", srv.handleBenchmark)
	e.GET("/api/histogram", srv.handleHistogram)
	e.POST("/api/reload", srv.handleReload)

	// Static UI (optional)
	indexPath := filepath.Join(ui, "index.html")
	if fi, err := os.Stat(indexPath); err == nil && !fi.IsDir() {
		e.Static("/", ui)
		e.GET("/", func(c echo.Context) error { return c.File(indexPath) })

		// Fallback to index.html for non-API 404s (SPA routing) while
		// keeping static assets working
		e.HTTPErrorHandler = func(err error, c echo.Context) {
			if he, ok := err.(*echo.HTTPError); ok && he.Code == http.StatusNotFound {
				if !strings.HasPrefix(c.Request().URL.Path, "/api") {
					_ = c.File(indexPath)
					return
				}
			}
			e.DefaultHTTPErrorHandler(err, c)
		}
	}

	slog.Info("web.start", "addr", listen, "rows", len(rows))
	return e.Start(listen)
}

type server struct {
	engine      *bench.Engine
	catalogDefs []kpi.Definition
	paths       []string

	mu   sync.RWMutex
	rows []sample.RawSample
}

func (s *server) snapshot() []sample.RawSample {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rows
}

func (s *server) handleKPIs(c echo.Context) error {
	return c.JSON(http.StatusOK, s.catalogDefs)
}

type entityInfo struct {
	ID       string `json:"id"`
	Province string `json:"province,omitempty"`
	GroupID  string `json:"groupId,omitempty"`
}

func (s *server) handleEntities(c echo.Context) error {
	rows := s.snapshot()
	infos := lo.UniqBy(lo.Map(rows, func(r sample.RawSample, _ int) entityInfo {
		return entityInfo{ID: r.EntityID, Province: r.Province, GroupID: r.GroupID}
	}), func(e entityInfo) string { return e.ID })
	infos = lo.Filter(infos, func(e entityInfo, _ int) bool { return e.ID != "" })
	return c.JSON(http.StatusOK, infos)
}

// parseRequest builds the pipeline request from query parameters. kpi and
// entity are required; mode defaults to network, period to the last 3
// lactations unless from/to (YYYY-MM) are both given.
func parseRequest(c echo.Context) (bench.Request, error) {
	kpiKey := c.QueryParam("kpi")
	entity := c.QueryParam("entity")
	if kpiKey == "" || entity == "" {
		return bench.Request{}, fmt.Errorf("kpi and entity query parameters are required")
	}
	req := bench.Request{
		KPI:      kpiKey,
		EntityID: entity,
		Mode:     peers.ParseMode(c.QueryParam("mode")),
		Province: c.QueryParam("province"),
	}
	if n, err := strconv.Atoi(c.QueryParam("lactations")); err == nil && n > 0 {
		req.Period.Lactations = n
	}
	from, errFrom := parseYearMonth(c.QueryParam("from"))
	to, errTo := parseYearMonth(c.QueryParam("to"))
	if errFrom == nil && errTo == nil {
		req.Period.From, req.Period.To = &from, &to
	}
	return req, nil
}

func parseYearMonth(s string) (bench.YearMonth, error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return bench.YearMonth{}, fmt.Errorf("want YYYY-MM, got %q", s)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return bench.YearMonth{}, err
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return bench.YearMonth{}, err
	}
	if month < 1 || month > 12 {
		return bench.YearMonth{}, fmt.Errorf("month out of range: %d", month)
	}
	return bench.YearMonth{Year: year, Month: month - 1}, nil
}

func (s *server) handleBenchmark(c echo.Context) error {
	req, err := parseRequest(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	vm := s.engine.ComputeDashboardView(s.snapshot(), req)
	return c.JSON(http.StatusOK, vm)
}

func (s *server) handleHistogram(c echo.Context) error {
	req, err := parseRequest(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	ym, err := parseYearMonth(c.QueryParam("month"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": fmt.Sprintf("month: %v", err)})
	}
	bins, summary := s.engine.MonthDistribution(s.snapshot(), req, ym.Year, ym.Month)
	return c.JSON(http.StatusOK, map[string]any{
		"month":     ym,
		"histogram": bins,
		"summary":   summary,
	})
}

// handleReload re-reads the dataset files and drops every cached index.
// The engine never detects staleness on its own; whoever changes the data
// underneath must hit this endpoint.
func (s *server) handleReload(c echo.Context) error {
	rows, err := dataset.Load(s.paths)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	s.mu.Lock()
	s.rows = rows
	s.mu.Unlock()
	s.engine.InvalidateCache()
	slog.Info("web.reloaded", "rows", len(rows))
	return c.JSON(http.StatusOK, map[string]any{"rows": len(rows)})
}
