// Package store persists each run's diagnostic.FileResults to a
// queryable history — a run log for trend-watching and CI triage, not
// a cache that feeds back into analysis: a stored run never changes
// what a later run reports.
package store

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	libsql "github.com/tursodatabase/libsql-client-go/libsql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"jslint.dev/engine/internal/diagnostic"
	"jslint.dev/engine/internal/errs"
)

// Store wraps a gorm.DB bound to the run-history schema.
type Store struct {
	db *gorm.DB
}

// Connect opens dsn (a local sqlite file path, ":memory:", or a
// libsql/Turso URL) and migrates the run-history schema. debug turns
// on gorm's query logging.
func Connect(dsn string, debug bool) (*Store, error) {
	if !isURL(dsn) && dsn != ":memory:" {
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, errs.Wrap(errs.Store, "creating database directory", err)
			}
		}
	}

	cfg := &gorm.Config{}
	if debug {
		cfg.Logger = logger.Default.LogMode(logger.Info)
	}

	var (
		dialector gorm.Dialector
		conn      *sql.DB
	)
	if isURL(dsn) {
		var (
			connector driver.Connector
			err       error
		)
		if token := os.Getenv("JSLINT_LIBSQL_AUTH_TOKEN"); token != "" {
			connector, err = libsql.NewConnector(dsn, libsql.WithAuthToken(token))
		} else {
			connector, err = libsql.NewConnector(dsn)
		}
		if err != nil {
			return nil, errs.Wrap(errs.Store, "creating libsql connector", err)
		}
		conn = sql.OpenDB(connector)
		dialector = sqlite.New(sqlite.Config{DriverName: "libsql", Conn: conn, DSN: dsn})
	} else {
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		if conn != nil {
			conn.Close()
		}
		return nil, errs.Wrap(errs.Store, "connecting to store", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Exec("PRAGMA foreign_keys = ON")
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

func isURL(dsn string) bool {
	return strings.HasPrefix(dsn, "http://") || strings.HasPrefix(dsn, "https://") || strings.HasPrefix(dsn, "libsql:")
}

// Migrate applies the run-history schema to db.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Run{}, &FileRun{}, &ViolationRow{}); err != nil {
		return errs.Wrap(errs.Store, "migrating store schema", err)
	}
	return nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// StartRun begins a new Run row and returns its id.
func (s *Store) StartRun(configHash string) (string, error) {
	run := &Run{ID: uuid.NewString(), ConfigHash: configHash}
	if err := s.db.Create(run).Error; err != nil {
		return "", errs.Wrap(errs.Store, "starting run", err)
	}
	return run.ID, nil
}

// FinishRun stamps runID's EndedAt and final counters.
func (s *Store) FinishRun(runID string, filesCount, violations int) error {
	now := time.Now()
	err := s.db.Model(&Run{}).Where("id = ?", runID).Updates(map[string]any{
		"ended_at":   now,
		"files_count": filesCount,
		"violations":  violations,
	}).Error
	if err != nil {
		return errs.Wrap(errs.Store, "finishing run", err)
	}
	return nil
}

// RecordFile persists one file's diagnostic.FileResult under runID,
// keyed by contentSHA (the caller's SHA-256 of the file's source —
// the Store doesn't hash content itself).
func (s *Store) RecordFile(runID, contentSHA string, result *diagnostic.FileResult) error {
	fr := &FileRun{
		ID:         uuid.NewString(),
		RunID:      runID,
		Path:       result.File,
		ContentSHA: contentSHA,
		Kind:       string(result.Kind),
		Error:      result.Error,
	}
	for _, v := range result.Violations {
		meta, err := json.Marshal(struct {
			Fix         any `json:"fix,omitempty"`
			Suggestions any `json:"suggestions,omitempty"`
		}{Fix: v.Fix, Suggestions: v.Suggestions})
		if err != nil {
			return errs.Wrap(errs.Store, "marshaling violation metadata", err)
		}
		fr.Violations = append(fr.Violations, ViolationRow{
			ID:        uuid.NewString(),
			Rule:      v.Rule,
			Severity:  string(v.Severity),
			MessageID: v.MessageID,
			Message:   v.Message,
			StartByte: v.Range.StartByte,
			EndByte:   v.Range.EndByte,
			StartLine: v.Range.StartLine,
			StartCol:  v.Range.StartCol,
			EndLine:   v.Range.EndLine,
			EndCol:    v.Range.EndCol,
			Metadata:  meta,
		})
	}
	if err := s.db.Create(fr).Error; err != nil {
		return errs.Wrap(errs.Store, fmt.Sprintf("recording file %q", result.File), err)
	}
	return nil
}

// RunSummary is the aggregate a CLI "history" command prints for one
// past run.
type RunSummary struct {
	Run
	FileRuns []FileRun
}

// RunHistory returns the most recent limit runs, newest first.
func (s *Store) RunHistory(limit int) ([]Run, error) {
	var runs []Run
	q := s.db.Order("started_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&runs).Error; err != nil {
		return nil, errs.Wrap(errs.Store, "loading run history", err)
	}
	return runs, nil
}

// Run loads one run and its file results (with violations preloaded).
func (s *Store) Run(runID string) (*RunSummary, error) {
	var run Run
	if err := s.db.First(&run, "id = ?", runID).Error; err != nil {
		return nil, errs.Wrap(errs.Store, fmt.Sprintf("loading run %q", runID), err)
	}
	var fileRuns []FileRun
	if err := s.db.Preload("Violations").Where("run_id = ?", runID).Find(&fileRuns).Error; err != nil {
		return nil, errs.Wrap(errs.Store, fmt.Sprintf("loading files for run %q", runID), err)
	}
	return &RunSummary{Run: run, FileRuns: fileRuns}, nil
}
