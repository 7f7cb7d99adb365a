// cmd/dbtools/migrate/main.go
package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"

	"github.com/codr1/Padelicious/internal/db"
)

func main() {
	var (
		dbPath  = flag.String("db", "", "Path to SQLite database")
		command = flag.String("command", "", "Command to run (up, down, steps, version, force)")
		steps   = flag.Int("n", 0, "Step count for steps, or target version for force")
	)
	flag.Parse()

	if *dbPath == "" || *command == "" {
		flag.Usage()
		os.Exit(1)
	}

	if err := os.MkdirAll(filepath.Dir(*dbPath), 0755); err != nil {
		log.Fatalf("Failed to create database directory: %v", err)
	}

	sqlDB, err := sql.Open("sqlite3", *dbPath+"?_fk=1")
	if err != nil {
		log.Fatalf("Open database failed: %v", err)
	}
	defer sqlDB.Close()

	// Migrations are embedded in the binary, so the tool always matches the
	// schema the server expects.
	m, err := db.NewMigrator(sqlDB)
	if err != nil {
		log.Fatalf("Migration init failed: %v", err)
	}

	// Execute command
	switch *command {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatalf("Migration up failed: %v", err)
		}
	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatalf("Migration down failed: %v", err)
		}
	case "steps":
		if *steps == 0 {
			log.Fatalf("steps requires -n")
		}
		if err := m.Steps(*steps); err != nil {
			log.Fatalf("Migration steps failed: %v", err)
		}
	case "force":
		if err := m.Force(*steps); err != nil {
			log.Fatalf("Migration force failed: %v", err)
		}
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			if errors.Is(err, migrate.ErrNilVersion) {
				fmt.Println("Version: none")
				return
			}
			log.Fatalf("Get version failed: %v", err)
		}
		fmt.Printf("Version: %d, Dirty: %v\n", version, dirty)
	default:
		log.Fatalf("Unknown command: %s", *command)
	}
}
