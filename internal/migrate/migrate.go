// Package migrate applies the embedded SQL migrations to PostgreSQL with
// golang-migrate. It goes through database/sql with the lib/pq driver so it
// can run before the application connection pool exists.
package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq" // postgres driver for database/sql
)

// Direction selects which half of a migration to run.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// ErrInvalidDirection is returned for anything other than up or down.
var ErrInvalidDirection = errors.New("direction must be up or down")

// ParseDirection validates a command-line direction.
func ParseDirection(s string) (Direction, error) {
	switch dir := Direction(strings.ToLower(s)); dir {
	case Up, Down:
		return dir, nil
	default:
		return "", ErrInvalidDirection
	}
}

// Source reads NNNNNN_name.(up|down).sql files from the root of fsys.
// Other files are ignored; two files for the same version and direction fail.
func Source(fsys fs.FS) (source.Driver, error) {
	src, err := iofs.New(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}
	return src, nil
}

// Result reports the schema version before and after a run.
// Version 0 means no migration is applied.
type Result struct {
	From uint
	To   uint
}

// Changed reports whether the run moved the schema.
func (r Result) Changed() bool {
	return r.From != r.To
}

// Migrator runs migrations against a database.
type Migrator struct {
	m *migrate.Migrate
}

// Open connects to databaseURL with lib/pq and loads migrations from fsys.
func Open(ctx context.Context, databaseURL string, fsys fs.FS, logger *slog.Logger) (*Migrator, error) {
	src, err := Source(fsys)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		_ = src.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = src.Close()
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		_ = src.Close()
		db.Close()
		return nil, fmt.Errorf("failed to init migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		_ = src.Close()
		_ = driver.Close()
		return nil, fmt.Errorf("failed to init migrator: %w", err)
	}
	if logger != nil {
		m.Log = slogAdapter{logger: logger}
	}

	return &Migrator{m: m}, nil
}

// Close releases the source and the database handle.
func (m *Migrator) Close() error {
	srcErr, dbErr := m.m.Close()
	return errors.Join(srcErr, dbErr)
}

// Version returns the applied schema version, 0 when nothing is applied.
// dirty is set when a previous run failed midway.
func (m *Migrator) Version() (version uint, dirty bool, err error) {
	version, dirty, err = m.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, dirty, nil
}

// Run applies every pending migration (Up) or reverts every applied one (Down).
// Cancelling ctx stops after the migration in progress.
func (m *Migrator) Run(ctx context.Context, dir Direction) (Result, error) {
	if dir != Up && dir != Down {
		return Result{}, ErrInvalidDirection
	}

	from, _, err := m.Version()
	if err != nil {
		return Result{}, err
	}

	stop := context.AfterFunc(ctx, func() {
		select {
		case m.m.GracefulStop <- true:
		default:
		}
	})
	defer stop()

	if dir == Up {
		err = m.m.Up()
	} else {
		err = m.m.Down()
	}
	if errors.Is(err, migrate.ErrNoChange) {
		err = nil
	}

	to, _, verr := m.Version()
	res := Result{From: from, To: to}
	if err != nil {
		return res, fmt.Errorf("migrate %s failed: %w", dir, err)
	}
	if verr != nil {
		return res, verr
	}
	return res, ctx.Err()
}

// slogAdapter routes golang-migrate's progress lines to slog.
type slogAdapter struct {
	logger *slog.Logger
}

func (a slogAdapter) Printf(format string, v ...any) {
	a.logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (a slogAdapter) Verbose() bool {
	return false
}
