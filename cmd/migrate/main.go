// Command migrate applies or reverts the embedded SQL migrations.
//
//	migrate up
//	migrate down
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/chirp/chirp/internal/migrate"
	"github.com/chirp/chirp/migrations"
)

func main() {
	databaseURL := flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
	timeout := flag.Duration("timeout", time.Minute, "overall timeout")
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "usage: migrate [flags] up|down")
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	dir, err := migrate.ParseDirection(flag.Arg(0))
	if err != nil {
		flag.Usage()
		os.Exit(2)
	}

	if *databaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	m, err := migrate.Open(ctx, *databaseURL, migrations.FS, logger)
	if err != nil {
		logger.Error("failed to open migrator", "error", err)
		os.Exit(1)
	}
	defer m.Close()

	res, err := m.Run(ctx, dir)
	if err != nil {
		logger.Error("migration failed", "direction", string(dir), "from", res.From, "to", res.To, "error", err)
		os.Exit(1)
	}

	if !res.Changed() {
		logger.Info("nothing to migrate", "direction", string(dir), "version", res.To)
		return
	}
	logger.Info("migrations complete", "direction", string(dir), "from", res.From, "to", res.To)
}
