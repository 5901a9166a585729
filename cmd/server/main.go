// Package main provides the unified server that runs all components together:
// - Chart API: natal chart computation with persistence
// - Almanac ingestion (continuous): WebSocket feed into storage
// - Almanac API: day/range/lucky/solar-term lookups
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"ziwei-lab/internal/almanac"
	"ziwei-lab/internal/calendar"
	calstub "ziwei-lab/internal/calendar/stub"
	"ziwei-lab/internal/chart"
	"ziwei-lab/internal/domain"
	"ziwei-lab/internal/ephemeris"
	ephstub "ziwei-lab/internal/ephemeris/stub"
	"ziwei-lab/internal/observability"
	"ziwei-lab/internal/storage"
	chstore "ziwei-lab/internal/storage/clickhouse"
	"ziwei-lab/internal/storage/memory"
	"ziwei-lab/internal/storage/migrations"
	pgstore "ziwei-lab/internal/storage/postgres"
)

// Server holds all components of the unified service.
type Server struct {
	// Configuration
	calendarEndpoint  string
	ephemerisEndpoint string
	feedEndpoint      string
	useStubs          bool

	// Components
	engine       *chart.Engine
	chartStore   storage.ChartRecordStore
	almanacStore storage.AlmanacDayStore
	lookup       *almanac.Lookup
	runner       *almanac.Runner
	feed         *ephemeris.Feed // nil in stub mode
	logger       *log.Logger

	// State
	mu             sync.Mutex
	startedAt      time.Time
	chartsComputed int
	chartErrors    int
}

func main() {
	// Load .env file if exists
	loadEnvFile()

	// Parse flags (env vars as defaults)
	calendarEndpoint := flag.String("calendar-endpoint", os.Getenv("CALENDAR_RPC_ENDPOINT"), "Calendar provider JSON-RPC endpoint")
	ephemerisEndpoint := flag.String("ephemeris-endpoint", os.Getenv("EPHEMERIS_RPC_ENDPOINT"), "Ephemeris provider JSON-RPC endpoint")
	feedEndpoint := flag.String("feed-endpoint", os.Getenv("ALMANAC_WS_ENDPOINT"), "Almanac feed WebSocket endpoint")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL/ClickHouse")
	useStubs := flag.Bool("use-stubs", false, "Use in-process collaborator stubs instead of remote providers")
	stubFeedDays := flag.Int("stub-feed-days", 366, "Number of days the stub almanac feed replays")
	httpAddr := flag.String("http-addr", ":8080", "HTTP listen address")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	// Validate required flags
	if !*useStubs {
		if *calendarEndpoint == "" || *ephemerisEndpoint == "" {
			logger.Fatal("--calendar-endpoint and --ephemeris-endpoint are required (use --use-stubs for in-process providers)")
		}
		if *feedEndpoint == "" {
			logger.Fatal("--feed-endpoint is required (use --use-stubs for the replay feed)")
		}
	}
	if !*useMemory && (*postgresDSN == "" || *clickhouseDSN == "") {
		logger.Fatal("--postgres-dsn and --clickhouse-dsn are required (use --use-memory for in-memory storage)")
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())

	// Create stores
	chartStore, almanacStore, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *useMemory)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	// Create collaborators
	var (
		cal    calendar.Service
		eph    ephemeris.Service
		source ephemeris.AlmanacSource
		feed   *ephemeris.Feed
	)
	if *useStubs {
		cal = calstub.New()
		eph = ephstub.New()
		source = ephstub.NewFeed(time.Now().UTC().AddDate(0, 0, -*stubFeedDays+1), *stubFeedDays)
		logger.Println("Using in-process collaborator stubs")
	} else {
		cal = calendar.NewClient(*calendarEndpoint)
		eph = ephemeris.NewClient(*ephemerisEndpoint)
		feed, err = ephemeris.NewFeed(ctx, *feedEndpoint, nil)
		if err != nil {
			logger.Fatalf("Failed to connect almanac feed: %v", err)
		}
		defer feed.Close()
		source = feed
	}

	server := &Server{
		calendarEndpoint:  *calendarEndpoint,
		ephemerisEndpoint: *ephemerisEndpoint,
		feedEndpoint:      *feedEndpoint,
		useStubs:          *useStubs,
		engine:            chart.NewEngine(cal, eph),
		chartStore:        chartStore,
		almanacStore:      almanacStore,
		lookup:            almanac.NewLookup(almanacStore),
		runner: almanac.NewRunner(almanac.RunnerOptions{
			Source: source,
			Store:  almanacStore,
			Logger: log.New(os.Stdout, "[almanac] ", log.LstdFlags|log.Lshortfile),
		}),
		feed:      feed,
		logger:    logger,
		startedAt: time.Now(),
	}

	// Channel to signal completion
	done := make(chan error, 1)

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		// Wait for second signal for immediate shutdown
		select {
		case sig := <-sigCh:
			logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
			os.Exit(1)
		case <-time.After(30 * time.Second):
			logger.Println("Graceful shutdown timed out after 30s, forcing exit")
			os.Exit(1)
		case <-done:
			// Normal shutdown completed
		}
	}()

	// Start HTTP server
	go server.startHTTPServer(*httpAddr)

	// Run the almanac ingestion loop
	err = server.runner.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) && *useStubs {
		// The replay feed closes its channel once drained; keep serving
		logger.Printf("Almanac replay finished: %v", err)
		<-ctx.Done()
		err = ctx.Err()
	}
	done <- err
	cancel()

	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatalf("Server error: %v", err)
	}

	logger.Println("Shutdown complete")
}

// createStores creates the chart and almanac stores and applies migrations.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory bool) (storage.ChartRecordStore, storage.AlmanacDayStore, func(), error) {
	if useMemory {
		return memory.NewChartRecordStore(), memory.NewAlmanacDayStore(), func() {}, nil
	}

	// PostgreSQL holds chart records
	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("postgres migrations: %w", err)
	}

	// ClickHouse holds the almanac timeseries
	chConn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
	if err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("clickhouse migrations: %w", err)
	}

	cleanup := func() {
		chConn.Close()
		pool.Close()
	}

	return pgstore.NewChartRecordStore(pool), chstore.NewAlmanacDayStore(chConn), cleanup, nil
}

// startHTTPServer starts the HTTP server for the API, health, and metrics.
func (s *Server) startHTTPServer(addr string) {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Prometheus metrics
	mux.Handle("/metrics", observability.Handler())

	// Status endpoint
	mux.HandleFunc("/status", s.handleStatus)

	// Chart API
	mux.HandleFunc("/api/v1/chart", s.handleChart)

	// Almanac API
	mux.HandleFunc("/api/v1/almanac/day", s.handleAlmanacDay)
	mux.HandleFunc("/api/v1/almanac/range", s.handleAlmanacRange)
	mux.HandleFunc("/api/v1/almanac/lucky", s.handleAlmanacLucky)
	mux.HandleFunc("/api/v1/almanac/terms", s.handleAlmanacTerms)

	s.logger.Printf("Starting HTTP server on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
		s.logger.Printf("HTTP server error: %v", err)
	}
}

// chartRequest is the JSON body of POST /api/v1/chart.
type chartRequest struct {
	Date     string `json:"date"`
	DateType string `json:"dateType"`
	Hour     int    `json:"hour"`
	Minute   int    `json:"minute"`
	Gender   string `json:"gender"`
}

// validate checks each field and names the first offending one.
func (r *chartRequest) validate() error {
	if _, err := time.Parse("2006-01-02", r.Date); err != nil {
		return fmt.Errorf("date: %q is not a YYYY-MM-DD date", r.Date)
	}
	switch domain.DateType(r.DateType) {
	case domain.DateTypeSolar, domain.DateTypeLunar:
	default:
		return fmt.Errorf("dateType: %q is not solar or lunar", r.DateType)
	}
	if r.Hour < 0 || r.Hour > 23 {
		return fmt.Errorf("hour: %d out of range [0,23]", r.Hour)
	}
	if r.Minute < 0 || r.Minute > 59 {
		return fmt.Errorf("minute: %d out of range [0,59]", r.Minute)
	}
	switch domain.Gender(r.Gender) {
	case domain.GenderMale, domain.GenderFemale:
	default:
		return fmt.Errorf("gender: %q is not male or female", r.Gender)
	}
	return nil
}

// handleChart computes and persists a chart (POST) or fetches stored
// charts by id or birth date (GET).
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleChartCompute(w, r)
	case http.MethodGet:
		s.handleChartGet(w, r)
	default:
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleChartCompute(w http.ResponseWriter, r *http.Request) {
	var req chartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "malformed JSON body")
		return
	}
	if err := req.validate(); err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	result, err := s.engine.Compute(r.Context(), chart.ComputeRequest{
		Date:     req.Date,
		DateType: domain.DateType(req.DateType),
		Hour:     req.Hour,
		Minute:   req.Minute,
		Gender:   domain.Gender(req.Gender),
	})
	observability.DefaultMetrics.ChartDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		s.recordChartError(err)
		if errors.Is(err, calendar.ErrInvalidDate) {
			httpError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Printf("Chart computation failed: %v", err)
		httpError(w, http.StatusBadGateway, err.Error())
		return
	}

	s.mu.Lock()
	s.chartsComputed++
	s.mu.Unlock()
	observability.RecordChartComputed("success")
	observability.DefaultMetrics.LastChartComputed.SetToCurrentTime()

	s.persistChart(r.Context(), &req, result)

	writeJSON(w, http.StatusOK, result)
}

// persistChart stores the computed chart, tolerating re-computation of a
// chart already on record.
func (s *Server) persistChart(ctx context.Context, req *chartRequest, result *domain.ChartResult) {
	payload, err := json.Marshal(result)
	if err != nil {
		s.logger.Printf("Error encoding chart %s: %v", result.ChartID, err)
		return
	}

	record := &domain.ChartRecord{
		ChartID:    result.ChartID,
		BirthDate:  req.Date,
		DateType:   domain.DateType(req.DateType),
		Hour:       req.Hour,
		Minute:     req.Minute,
		Gender:     domain.Gender(req.Gender),
		Zodiac:     result.Zodiac,
		Payload:    payload,
		ComputedAt: result.ComputedAt,
	}

	if err := s.chartStore.Insert(ctx, record); err != nil {
		if !errors.Is(err, storage.ErrDuplicateKey) {
			s.logger.Printf("Error storing chart %s: %v", result.ChartID, err)
		}
		// Same birth facts always produce the same chart ID, duplicate is expected
	}
}

func (s *Server) handleChartGet(w http.ResponseWriter, r *http.Request) {
	if id := r.URL.Query().Get("id"); id != "" {
		record, err := s.chartStore.GetByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				httpError(w, http.StatusNotFound, "chart not found")
				return
			}
			s.logger.Printf("Error fetching chart %s: %v", id, err)
			httpError(w, http.StatusInternalServerError, "storage error")
			return
		}
		writeJSON(w, http.StatusOK, record)
		return
	}

	if birthDate := r.URL.Query().Get("birthDate"); birthDate != "" {
		records, err := s.chartStore.GetByBirthDate(r.Context(), birthDate)
		if err != nil {
			s.logger.Printf("Error fetching charts for %s: %v", birthDate, err)
			httpError(w, http.StatusInternalServerError, "storage error")
			return
		}
		writeJSON(w, http.StatusOK, records)
		return
	}

	httpError(w, http.StatusBadRequest, "id or birthDate query parameter required")
}

func (s *Server) handleAlmanacDay(w http.ResponseWriter, r *http.Request) {
	observability.DefaultMetrics.AlmanacLookups.WithLabelValues("day").Inc()

	day, err := s.lookup.Day(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		s.almanacError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, day)
}

func (s *Server) handleAlmanacRange(w http.ResponseWriter, r *http.Request) {
	observability.DefaultMetrics.AlmanacLookups.WithLabelValues("range").Inc()

	days, err := s.lookup.Range(r.Context(), r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		s.almanacError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, days)
}

func (s *Server) handleAlmanacLucky(w http.ResponseWriter, r *http.Request) {
	observability.DefaultMetrics.AlmanacLookups.WithLabelValues("lucky").Inc()

	days, err := s.lookup.LuckyDays(r.Context(), r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		s.almanacError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, days)
}

func (s *Server) handleAlmanacTerms(w http.ResponseWriter, r *http.Request) {
	observability.DefaultMetrics.AlmanacLookups.WithLabelValues("terms").Inc()

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		httpError(w, http.StatusBadRequest, "year query parameter must be an integer")
		return
	}

	days, err := s.lookup.SolarTerms(r.Context(), year)
	if err != nil {
		s.almanacError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, days)
}

// almanacError maps lookup errors to HTTP statuses.
func (s *Server) almanacError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, almanac.ErrBadDate):
		httpError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, storage.ErrNotFound):
		httpError(w, http.StatusNotFound, "almanac day not found")
	default:
		s.logger.Printf("Almanac lookup error: %v", err)
		httpError(w, http.StatusInternalServerError, "storage error")
	}
}

// recordChartError classifies a compute failure by its stage prefix.
func (s *Server) recordChartError(err error) {
	s.mu.Lock()
	s.chartErrors++
	s.mu.Unlock()

	stage := "unknown"
	msg := err.Error()
	if i := strings.Index(msg, ":"); i > 0 {
		stage = strings.ReplaceAll(msg[:i], " ", "_")
	}
	observability.RecordChartComputed("error")
	observability.RecordChartStageError(stage)
}

// StatusResponse is the JSON response for /status endpoint.
type StatusResponse struct {
	Status         string    `json:"status"`
	Uptime         string    `json:"uptime"`
	StartedAt      time.Time `json:"started_at"`
	UseStubs       bool      `json:"use_stubs"`
	ChartsComputed int       `json:"charts_computed"`
	ChartErrors    int       `json:"chart_errors"`
	DaysIngested   int64     `json:"almanac_days_ingested"`
	DaysSkipped    int64     `json:"almanac_days_skipped"`
	LastAlmanacDay string    `json:"last_almanac_day,omitempty"`
	FeedReconnects int64     `json:"feed_reconnects"`
}

// handleStatus returns server status as JSON.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	stats := s.runner.Stats()

	s.mu.Lock()
	resp := StatusResponse{
		Status:         "running",
		Uptime:         time.Since(s.startedAt).String(),
		StartedAt:      s.startedAt,
		UseStubs:       s.useStubs,
		ChartsComputed: s.chartsComputed,
		ChartErrors:    s.chartErrors,
		DaysIngested:   stats.DaysIngested,
		DaysSkipped:    stats.DaysSkipped,
		LastAlmanacDay: stats.LastDate,
	}
	s.mu.Unlock()

	if s.feed != nil {
		resp.FeedReconnects = s.feed.Reconnects.Load()
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// loadEnvFile loads environment variables from .env file if it exists.
func loadEnvFile() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return // File doesn't exist, use system env vars
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Don't override existing env vars
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}
