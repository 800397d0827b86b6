// Command importer ingests bank statement exports (CSV and XLSX) into the
// local portfolio database and writes CSV reports of the canonical records.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"portocli/internal/config"
	"portocli/internal/exporter"
	"portocli/internal/files"
	"portocli/internal/infrastructure"
	"portocli/internal/ingest"
	"portocli/internal/store"
)

func main() {
	inDir := flag.String("in", "", "input directory for statement files (defaults to data/statements)")
	outDir := flag.String("out", "", "output directory for CSV reports (defaults to data/reports)")
	dbPath := flag.String("db", "", "path of the SQLite database (defaults to data/portfolio.db)")
	profileName := flag.String("profile", "", "source profile to parse with (defaults to configured profile)")
	dateOverride := flag.String("date", "", "statement date override in YYYY-MM-DD for files carrying none")
	transactions := flag.Bool("transactions", false, "treat input files as bank transaction exports")
	keep := flag.Bool("keep", false, "leave imported files in place instead of archiving them")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}

	paths, err := cfg.ResolvePaths()
	if err != nil {
		slog.Error("failed to resolve directories", "error", err)
		os.Exit(1)
	}
	if *outDir != "" {
		if !filepath.IsAbs(*outDir) {
			*outDir = filepath.Join(paths.BaseDir, *outDir)
		}
		paths.ReportsDir = *outDir
	}
	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("failed to create required directories", "error", err)
		os.Exit(1)
	}

	if cfg.Logging.Output != "console" && !filepath.IsAbs(cfg.Logging.FilePath) {
		cfg.Logging.FilePath = filepath.Join(paths.BaseDir, cfg.Logging.FilePath)
	}
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	if *inDir == "" {
		*inDir = paths.StatementsDir
	}
	if *dbPath == "" {
		*dbPath = cfg.Database.Path
		if !filepath.IsAbs(*dbPath) {
			*dbPath = filepath.Join(paths.BaseDir, *dbPath)
		}
	}
	if *profileName == "" {
		*profileName = cfg.Import.DefaultProfile
	}

	var override time.Time
	if *dateOverride != "" {
		override, err = time.Parse("2006-01-02", *dateOverride)
		if err != nil {
			logger.Error("invalid -date value, want YYYY-MM-DD", slog.String("date", *dateOverride))
			os.Exit(1)
		}
	}

	logger.Info("starting statement import",
		slog.String("input_dir", *inDir),
		slog.String("database", *dbPath),
		slog.String("profile", *profileName),
		slog.Bool("transactions", *transactions))

	discovered, err := files.NewDiscovery(paths.BaseDir).FindStatementFiles(*inDir)
	if err != nil {
		logger.Error("failed to read input directory", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Printf("Found %d statement files\n", len(discovered))
	if latest, ok := files.Latest(discovered); ok && latest.HasDate {
		fmt.Printf("Latest statement date: %s\n", latest.Date.Format("2006-01-02"))
	}
	if len(discovered) == 0 {
		logger.Warn("no statement files found", slog.String("input_dir", *inDir))
		fmt.Println("Import complete: 0 files")
		return
	}

	db, err := store.Open(*dbPath)
	if err != nil {
		logger.Error("failed to open database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	writer := exporter.NewCSVWriter(paths)
	manager := files.NewManager(paths)

	imported, failed := 0, 0
	for _, file := range discovered {
		profile, err := ingest.ProfileByName(profileForFile(*profileName, file.Name))
		if err != nil {
			logger.Error("unknown profile", slog.String("error", err.Error()))
			os.Exit(1)
		}

		parser := ingest.NewParser(profile, cfg.Import.BaseCurrency,
			ingest.WithLogger(logger),
			ingest.WithProgress(func(msg string) { fmt.Println(msg) }))

		var importErr error
		if *transactions {
			importErr = importTransactions(parser, db, writer, file.Path)
		} else {
			importErr = importPositions(parser, db, writer, file.Path, override)
		}
		if importErr != nil {
			failed++
			logger.Error("import failed",
				slog.String("file", file.Name),
				slog.String("error", importErr.Error()))
			fmt.Printf("Failed: %s (%v)\n", file.Name, importErr)
			continue
		}

		imported++
		if !*keep {
			if _, err := manager.Archive(file.Path); err != nil {
				logger.Warn("failed to archive imported file",
					slog.String("file", file.Name),
					slog.String("error", err.Error()))
			}
		}
	}

	fmt.Printf("Import complete: %d imported, %d failed\n", imported, failed)
	if failed > 0 {
		os.Exit(1)
	}
}

func importPositions(parser *ingest.Parser, db *store.Store, writer *exporter.CSVWriter, path string, override time.Time) error {
	result, err := parser.ParsePositions(path, override)
	if err != nil {
		return err
	}

	if err := db.SavePositions(result.Run, result.Records); err != nil {
		return err
	}

	reportName := fmt.Sprintf("positions_%s.csv", result.Run.StatementDate.Format("2006-01-02"))
	if err := writer.ExportPositions(reportName, result.Records); err != nil {
		return err
	}
	return writer.AppendRunLog("imports.csv", result.Run)
}

func importTransactions(parser *ingest.Parser, db *store.Store, writer *exporter.CSVWriter, path string) error {
	result, err := parser.ParseTransactions(path)
	if err != nil {
		return err
	}
	if len(result.Records) == 0 {
		fmt.Printf("%s: no valid transactions found\n", filepath.Base(path))
		return nil
	}

	inserted, err := db.SaveBankRecords(result.Run, result.Records)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d new transactions stored\n", filepath.Base(path), inserted)

	reportName := fmt.Sprintf("transactions_%s.csv", result.Run.StatementDate.Format("2006-01-02"))
	if err := writer.ExportTransactions(reportName, result.Records); err != nil {
		return err
	}
	return writer.AppendRunLog("imports.csv", result.Run)
}

// profileForFile matches the configured profile to the file's format, so a
// mixed inbox of "depot.csv" and "depot.xlsx" works with one -profile flag.
func profileForFile(profileName, fileName string) string {
	base := strings.TrimSuffix(strings.TrimSuffix(profileName, "-csv"), "-xlsx")
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".xlsx":
		return base + "-xlsx"
	case ".csv", ".txt":
		return base + "-csv"
	default:
		return profileName
	}
}
