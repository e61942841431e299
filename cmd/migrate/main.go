package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"jobalert_backend/internal/config"
	"jobalert_backend/internal/database"
	"jobalert_backend/internal/logger"

	"gorm.io/gorm"
)

func main() {
	reset := flag.Bool("reset", false, "drop all tables, then recreate them")
	resetOnly := flag.Bool("reset-only", false, "drop all tables and exit")
	setup := flag.Bool("setup", false, "create tables and indexes")
	sampleData := flag.Bool("sample-data", false, "insert sample rows into an empty database")
	status := flag.Bool("status", false, "print tables and row counts")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", "error", err)
	}
	logger.Init(cfg.Server.Env)

	db, err := database.Open(cfg.Database.DSN, false)
	if err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}

	// Без флагов - обычная миграция
	if !*reset && !*resetOnly && !*setup && !*sampleData && !*status {
		*setup = true
	}

	if *reset || *resetOnly {
		if err := database.Reset(db); err != nil {
			logger.Fatal("Reset failed", "error", err)
		}
		logger.Info("All tables dropped")
		if *resetOnly {
			return
		}
		*setup = true
	}

	if *setup {
		if err := database.AutoMigrate(db); err != nil {
			logger.Fatal("Migration failed", "error", err)
		}
		if err := database.SeedFirstAdmin(db, cfg.FirstAdminEmail, cfg.FirstAdminPassword); err != nil {
			logger.Fatal("Failed to seed first admin user", "error", err)
		}
		logger.Info("Database schema is up to date")
	}

	if *sampleData {
		if err := database.SeedSampleData(db); err != nil {
			logger.Fatal("Sample data failed", "error", err)
		}
		logger.Info("Sample data inserted")
	}

	if *status {
		if err := printStatus(db); err != nil {
			logger.Fatal("Status failed", "error", err)
		}
	}
}

func printStatus(db *gorm.DB) error {
	tables, err := database.Status(db)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TABLE\tEXISTS\tROWS")
	for _, t := range tables {
		rows := "-"
		if t.Exists {
			rows = fmt.Sprint(t.Rows)
		}
		fmt.Fprintf(w, "%s\t%v\t%s\n", t.Table, t.Exists, rows)
	}
	return w.Flush()
}
