// Package qcdb persists per-run sex-inference summaries in DuckDB so
// repeated runs over a cohort stay queryable.
package qcdb

import (
	"database/sql"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/clinomics/sexcheck/internal/infer"
)

// Store manages a DuckDB connection for QC summaries.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path. Use an
// empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create qc directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS runs (
		run_id BIGINT,
		sample VARCHAR,
		vcf_path VARCHAR,
		gender VARCHAR,
		run_at TIMESTAMP
	)`); err != nil {
		return err
	}
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS chrom_stats (
		run_id BIGINT,
		chrom VARCHAR,
		depths BIGINT,
		median_depth DOUBLE,
		het_count BIGINT,
		hom_count BIGINT,
		het_hom_ratio DOUBLE
	)`)
	return err
}

// Run is one persisted detection run.
type Run struct {
	ID      int64
	Sample  string
	VCFPath string
	Gender  infer.Sex // Unknown when the run was inconclusive
	RunAt   time.Time
}

// WriteRun appends a run's verdict and per-chromosome evidence in one
// transaction, returning the new run id.
func (s *Store) WriteRun(sample, vcfPath string, verdict infer.Sex, stats []infer.ChromStats) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var runID int64
	if err := tx.QueryRow(`SELECT COALESCE(MAX(run_id), 0) + 1 FROM runs`).Scan(&runID); err != nil {
		return 0, fmt.Errorf("allocate run id: %w", err)
	}

	var gender any
	if verdict != infer.Unknown {
		gender = string(verdict)
	}
	if _, err := tx.Exec(
		`INSERT INTO runs (run_id, sample, vcf_path, gender, run_at) VALUES (?, ?, ?, ?, ?)`,
		runID, sample, vcfPath, gender, time.Now().UTC(),
	); err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO chrom_stats
		(run_id, chrom, depths, median_depth, het_count, hom_count, het_hom_ratio)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, cs := range stats {
		if _, err := stmt.Exec(
			runID, cs.Chrom, cs.Depths,
			nullableFloat(cs.MedianDepth),
			cs.Het, cs.Hom,
			nullableFloat(cs.HetHomRatio),
		); err != nil {
			return 0, fmt.Errorf("insert chrom stats for %s: %w", cs.Chrom, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return runID, nil
}

// Runs returns all persisted runs, oldest first.
func (s *Store) Runs() ([]Run, error) {
	rows, err := s.db.Query(`SELECT run_id, sample, vcf_path, gender, run_at FROM runs ORDER BY run_id`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var gender sql.NullString
		if err := rows.Scan(&r.ID, &r.Sample, &r.VCFPath, &gender, &r.RunAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if gender.Valid {
			r.Gender = infer.Sex(gender.String)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// ChromStats returns the per-chromosome evidence stored for a run.
func (s *Store) ChromStats(runID int64) ([]infer.ChromStats, error) {
	rows, err := s.db.Query(`SELECT chrom, depths, median_depth, het_count, hom_count, het_hom_ratio
		FROM chrom_stats WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("query chrom stats: %w", err)
	}
	defer rows.Close()

	var stats []infer.ChromStats
	for rows.Next() {
		var cs infer.ChromStats
		var depth, ratio sql.NullFloat64
		if err := rows.Scan(&cs.Chrom, &cs.Depths, &depth, &cs.Het, &cs.Hom, &ratio); err != nil {
			return nil, fmt.Errorf("scan chrom stats: %w", err)
		}
		cs.MedianDepth = fromNullable(depth)
		cs.HetHomRatio = fromNullable(ratio)
		stats = append(stats, cs)
	}
	return stats, rows.Err()
}

// nullableFloat maps NaN to SQL NULL.
func nullableFloat(f float64) sql.NullFloat64 {
	if math.IsNaN(f) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}

func fromNullable(f sql.NullFloat64) float64 {
	if !f.Valid {
		return math.NaN()
	}
	return f.Float64
}
