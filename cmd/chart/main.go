// Package main provides a one-shot natal chart CLI: compute a chart for
// one birth moment and print it, optionally persisting the record.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ziwei-lab/internal/calendar"
	calstub "ziwei-lab/internal/calendar/stub"
	"ziwei-lab/internal/chart"
	"ziwei-lab/internal/domain"
	"ziwei-lab/internal/ephemeris"
	ephstub "ziwei-lab/internal/ephemeris/stub"
	"ziwei-lab/internal/storage/migrations"
	pgstore "ziwei-lab/internal/storage/postgres"
)

func main() {
	// Parse flags
	date := flag.String("date", "", "Birth date, YYYY-MM-DD (required)")
	dateType := flag.String("date-type", "solar", "Date type: solar, lunar")
	hour := flag.Int("hour", 12, "Birth hour, 0-23")
	minute := flag.Int("minute", 0, "Birth minute, 0-59")
	gender := flag.String("gender", "", "Gender: male, female (required)")
	asOf := flag.String("as-of", "", "Evaluate periods as of this date, YYYY-MM-DD (default: today)")

	// Collaborators
	calendarEndpoint := flag.String("calendar-endpoint", os.Getenv("CALENDAR_RPC_ENDPOINT"), "Calendar provider JSON-RPC endpoint")
	ephemerisEndpoint := flag.String("ephemeris-endpoint", os.Getenv("EPHEMERIS_RPC_ENDPOINT"), "Ephemeris provider JSON-RPC endpoint")
	useStubs := flag.Bool("use-stubs", false, "Use in-process collaborator stubs")

	// Storage
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string, for --persist")
	persist := flag.Bool("persist", false, "Persist the chart record to PostgreSQL")

	// Output
	outputJSON := flag.Bool("json", false, "Output as JSON")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stderr, "[chart] ", log.LstdFlags)

	// Validate required flags
	if *date == "" {
		logger.Fatal("--date is required")
	}
	if _, err := time.Parse("2006-01-02", *date); err != nil {
		logger.Fatalf("Invalid date: %q is not a YYYY-MM-DD date", *date)
	}
	if domain.DateType(*dateType) != domain.DateTypeSolar && domain.DateType(*dateType) != domain.DateTypeLunar {
		logger.Fatalf("Invalid date type: %s. Must be solar or lunar", *dateType)
	}
	if *hour < 0 || *hour > 23 {
		logger.Fatalf("Invalid hour: %d. Must be 0-23", *hour)
	}
	if *minute < 0 || *minute > 59 {
		logger.Fatalf("Invalid minute: %d. Must be 0-59", *minute)
	}
	if domain.Gender(*gender) != domain.GenderMale && domain.Gender(*gender) != domain.GenderFemale {
		logger.Fatalf("Invalid gender: %q. Must be male or female", *gender)
	}
	if !*useStubs && (*calendarEndpoint == "" || *ephemerisEndpoint == "") {
		logger.Fatal("--calendar-endpoint and --ephemeris-endpoint are required (use --use-stubs for in-process providers)")
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		cancel()
	}()

	// Create collaborators
	var (
		cal calendar.Service
		eph ephemeris.Service
	)
	if *useStubs {
		cal = calstub.New()
		eph = ephstub.New()
	} else {
		cal = calendar.NewClient(*calendarEndpoint)
		eph = ephemeris.NewClient(*ephemerisEndpoint)
	}

	engine := chart.NewEngine(cal, eph)

	if *asOf != "" {
		at, err := time.Parse("2006-01-02", *asOf)
		if err != nil {
			logger.Fatalf("Invalid as-of date: %q is not a YYYY-MM-DD date", *asOf)
		}
		engine = engine.WithClock(func() time.Time { return at })
	}

	// Compute
	result, err := engine.Compute(ctx, chart.ComputeRequest{
		Date:     *date,
		DateType: domain.DateType(*dateType),
		Hour:     *hour,
		Minute:   *minute,
		Gender:   domain.Gender(*gender),
	})
	if err != nil {
		logger.Fatalf("Chart computation failed: %v", err)
	}

	// Persist if requested
	if *persist {
		if *postgresDSN == "" {
			logger.Fatal("--postgres-dsn is required with --persist")
		}
		persistChart(ctx, logger, *postgresDSN, *date, *dateType, *hour, *minute, *gender, result)
	}

	// Output result
	if *outputJSON {
		output, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(output))
	} else {
		printChart(result)
	}
}

// persistChart stores the record in PostgreSQL, applying migrations first.
func persistChart(ctx context.Context, logger *log.Logger, dsn, date, dateType string, hour, minute int, gender string, result *domain.ChartResult) {
	pool, err := pgstore.NewPool(ctx, dsn)
	if err != nil {
		logger.Fatalf("connect to postgres: %v", err)
	}
	defer pool.Close()

	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		logger.Fatalf("postgres migrations: %v", err)
	}

	payload, err := json.Marshal(result)
	if err != nil {
		logger.Fatalf("encode chart: %v", err)
	}

	store := pgstore.NewChartRecordStore(pool)
	record := &domain.ChartRecord{
		ChartID:    result.ChartID,
		BirthDate:  date,
		DateType:   domain.DateType(dateType),
		Hour:       hour,
		Minute:     minute,
		Gender:     domain.Gender(gender),
		Zodiac:     result.Zodiac,
		Payload:    payload,
		ComputedAt: result.ComputedAt,
	}
	if err := store.Insert(ctx, record); err != nil {
		logger.Printf("Chart not stored (possibly already on record): %v", err)
	} else {
		logger.Printf("Chart stored: %s", result.ChartID)
	}
}

// printChart outputs a human-readable chart summary.
func printChart(c *domain.ChartResult) {
	fmt.Println()
	fmt.Println("=== 紫微斗数 Natal Chart ===")
	fmt.Printf("Chart ID:       %s\n", c.ChartID)
	fmt.Printf("Zodiac:         %s\n", c.Zodiac)
	fmt.Printf("Constellation:  %s\n", c.Constellation)
	fmt.Printf("Four Pillars:   %s年 %s月 %s日 %s时\n",
		c.Pillars.Year, c.Pillars.Month, c.Pillars.Day, c.Pillars.Hour)
	fmt.Println()

	fmt.Println("Palaces:")
	for _, p := range c.Palaces {
		void := ""
		if p.IsVoid {
			void = " (空宫)"
		}
		fmt.Printf("  %2d %-4s %-3s %v%s\n", p.Position, p.Name, p.Direction, p.Stars, void)
		for _, tr := range p.Transformations {
			fmt.Printf("       %s %s\n", tr.Star, tr.Type)
		}
	}
	fmt.Println()

	fmt.Println("Major Periods:")
	for _, mp := range c.Periods.Major {
		marker := " "
		if mp == c.Periods.ActiveMajor {
			marker = "*"
		}
		fmt.Printf("  %s %2d-%2d %s\n", marker, mp.StartAge, mp.EndAge, mp.Palace)
	}
	fmt.Println()

	fmt.Println("Current Periods:")
	fmt.Printf("  Minor:   %-4s (age %d)\n", c.Periods.Minor.Palace, c.Periods.Minor.StartAge)
	fmt.Printf("  Annual:  %-4s %s\n", c.Periods.Annual.Palace, c.Periods.Annual.Label)
	fmt.Printf("  Monthly: %-4s %s\n", c.Periods.Monthly.Palace, c.Periods.Monthly.Label)
	fmt.Printf("  Daily:   %-4s %s\n", c.Periods.Daily.Palace, c.Periods.Daily.Label)
	fmt.Printf("  Hourly:  %-4s %s\n", c.Periods.Hourly.Palace, c.Periods.Hourly.Label)
	fmt.Println()

	if len(c.Stars.KeyStarsLocation) > 0 {
		fmt.Println("Key Stars:")
		for _, star := range []string{"紫微", "天府", "天相", "武曲", "七杀", "破军"} {
			if palace, ok := c.Stars.KeyStarsLocation[star]; ok {
				fmt.Printf("  %s → %s\n", star, palace)
			}
		}
		fmt.Println()
	}

	fmt.Println("Four Transformations:")
	fmt.Printf("  Year stem %s:\n", c.Transforms.YearStem.Stem)
	for _, tr := range c.Transforms.YearStem.Transformations {
		fmt.Printf("    %s %s\n", tr.Star, tr.Type)
	}
	fmt.Printf("  Day stem %s:\n", c.Transforms.DayStem.Stem)
	for _, tr := range c.Transforms.DayStem.Transformations {
		fmt.Printf("    %s %s\n", tr.Star, tr.Type)
	}
}
