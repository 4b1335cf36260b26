// Command migrate applies migrations/*.sql in lexical order. Each file runs
// in its own transaction; applied files are recorded in schema_migrations
// and skipped on later runs.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/lib/pq"
	"github.com/spf13/pflag"

	"github.com/ignite/guest-marketing/internal/config"
	"github.com/ignite/guest-marketing/internal/pkg/logger"
)

const createLedger = `CREATE TABLE IF NOT EXISTS schema_migrations (
	name       TEXT PRIMARY KEY,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

func main() {
	flags := pflag.NewFlagSet("migrate", pflag.ContinueOnError)
	configPath := flags.String("config", "config/config.yaml", "path to config file")
	dir := flags.String("dir", "migrations", "directory holding *.sql files")
	listOnly := flags.Bool("list", false, "list applied migrations and exit")
	if err := flags.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return
		}
		os.Exit(2)
	}

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Configure(cfg.Logging.Level, false)

	if cfg.Database.URL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		logger.Error("connect failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		logger.Error("ping failed", "error", err)
		os.Exit(1)
	}

	if *listOnly {
		names, err := appliedMigrations(ctx, db)
		if err != nil {
			logger.Error("list failed", "error", err)
			os.Exit(1)
		}
		for _, n := range names {
			fmt.Println(" ", n)
		}
		fmt.Printf("Total: %d applied\n", len(names))
		return
	}

	files, err := migrationFiles(*dir)
	if err != nil {
		logger.Error("read migrations failed", "dir", *dir, "error", err)
		os.Exit(1)
	}

	applied, err := migrate(ctx, db, *dir, files)
	if err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}
	logger.Info("migrations complete", "applied", applied, "total", len(files))
}

// migrationFiles returns the *.sql names in dir, sorted.
func migrationFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

func appliedMigrations(ctx context.Context, db *sql.DB) ([]string, error) {
	if _, err := db.ExecContext(ctx, createLedger); err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `SELECT name FROM schema_migrations ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// migrate applies every file not yet recorded and stops at the first
// failure. It returns how many files were applied.
func migrate(ctx context.Context, db *sql.DB, dir string, files []string) (int, error) {
	done, err := appliedMigrations(ctx, db)
	if err != nil {
		return 0, fmt.Errorf("read ledger: %w", err)
	}
	seen := make(map[string]bool, len(done))
	for _, n := range done {
		seen[n] = true
	}

	applied := 0
	for _, f := range files {
		if seen[f] {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, f))
		if err != nil {
			return applied, err
		}
		if strings.TrimSpace(string(data)) == "" {
			continue
		}
		if err := applyOne(ctx, db, f, string(data)); err != nil {
			return applied, fmt.Errorf("%s: %w", f, err)
		}
		logger.Info("applied migration", "file", f)
		applied++
	}
	return applied, nil
}

func applyOne(ctx context.Context, db *sql.DB, name, content string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, content); err != nil {
		tx.Rollback()
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, name); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
