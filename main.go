package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/skystatuspro/skystatus-sub006/internal/api"
	"github.com/skystatuspro/skystatus-sub006/internal/config"
	"github.com/skystatuspro/skystatus-sub006/internal/extractor"
	"github.com/skystatuspro/skystatus-sub006/internal/parser"
	"github.com/skystatuspro/skystatus-sub006/internal/reconcile"
	"github.com/skystatuspro/skystatus-sub006/internal/report"
)

const version = "1.0.0"

func main() {
	// CLI flags
	outputFlag := flag.String("output", "", "Output CSV file path (defaults to input filename with .csv extension)")
	jsonFlag := flag.Bool("json", false, "Print the full report as JSON instead of text")
	csvFlag := flag.Bool("csv", false, "Also write a CSV export of flights and bonus events")
	headerFlag := flag.Bool("header", true, "Include account metadata header rows in CSV")
	configFlag := flag.String("config", "", "Path to a YAML config file (window sizes, cycle-start precedence)")
	serveFlag := flag.Bool("serve", false, "Start the HTTP API server instead of processing files")
	addrFlag := flag.String("addr", "", "Listen address for -serve (overrides config)")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	helpFlag := flag.Bool("help", false, "Show usage help")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `SkyStatus Statement Analyzer

Reconstructs a loyalty member's flights, XP, bonus events and qualification
cycle from a PDF statement, and reconciles the result against the official
header balance.

Usage:
  skystatus [flags] <statement.pdf> [statement2.pdf ...]
  skystatus -serve

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Analyze a statement and print the diagnostic report
  skystatus statement.pdf

  # Full report as JSON
  skystatus -json statement.pdf

  # CSV export of flights and bonus events
  skystatus -csv -output=activity.csv statement.pdf

  # Run the HTTP API
  skystatus -serve -addr=:8080
`)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("skystatus v%s\n", version)
		os.Exit(0)
	}

	settings, err := config.Load(*configFlag)
	if err != nil {
		fatalf("Config error: %v\n", err)
	}

	if *serveFlag {
		addr := settings.ServerAddr
		if *addrFlag != "" {
			addr = *addrFlag
		}
		serve(addr, settings)
		return
	}

	if *helpFlag || flag.NArg() == 0 {
		flag.Usage()
		os.Exit(0)
	}

	for _, inputPath := range flag.Args() {
		if err := processFile(inputPath, settings, *outputFlag, *jsonFlag, *csvFlag, *headerFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", inputPath, err)
			os.Exit(1)
		}
	}
}

func processFile(inputPath string, settings config.Settings, outputPath string, asJSON, writeCSV, includeHeader bool) error {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", inputPath)
	}

	ext := strings.ToLower(filepath.Ext(inputPath))
	if ext != ".pdf" {
		return fmt.Errorf("expected .pdf file, got %q", ext)
	}

	fmt.Printf("Processing: %s\n", inputPath)

	text, pageCount, err := extractor.ExtractTextCombined(inputPath)
	if err != nil {
		return fmt.Errorf("PDF extraction failed: %w", err)
	}
	fmt.Printf("  Extracted text from %d page(s)\n", pageCount)

	ex := parser.Analyze(text, settings.Heuristics)
	rep := reconcile.BuildReport(ex, settings)

	fmt.Printf("  Found %d requalification event(s), %d bonus event(s), %d flight(s)\n",
		len(rep.RequalEvents), len(rep.BonusEvents), len(rep.DedupedFlights))

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			return fmt.Errorf("JSON encoding failed: %w", err)
		}
	} else {
		fmt.Println()
		if err := report.WriteText(os.Stdout, &rep); err != nil {
			return err
		}
	}

	if writeCSV {
		outPath := outputPath
		if outPath == "" {
			outPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".csv"
		}
		w := &report.CSVWriter{IncludeHeader: includeHeader}
		if err := w.WriteToFile(outPath, &rep); err != nil {
			return fmt.Errorf("CSV write failed: %w", err)
		}
		fmt.Printf("  CSV output: %s\n", outPath)
	}

	fmt.Println("  Done.")
	return nil
}

func serve(addr string, settings config.Settings) {
	app := fiber.New(fiber.Config{
		BodyLimit: 32 << 20, // 32MB uploads
	})

	h := &api.Handler{Settings: settings, Version: version}
	h.Register(app)

	log.Printf("Server starting on %s", addr)
	if err := app.Listen(addr); err != nil {
		log.Fatal("Server failed to start: ", err)
	}
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}
