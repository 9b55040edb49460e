package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/avetisov/jobscout/internal/model"
)

// SQLiteStore persists canonical jobs selected for saving and tracks seen
// job keys for watch-mode deduplication.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures
// the schema exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS saved_jobs (
			platform    TEXT NOT NULL,
			external_id TEXT NOT NULL,
			title       TEXT NOT NULL,
			company     TEXT NOT NULL,
			location    TEXT,
			description TEXT,
			salary      TEXT,
			job_type    TEXT,
			url         TEXT,
			posted_at   DATETIME,
			saved_at    DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (platform, external_id)
		)`,
		`CREATE TABLE IF NOT EXISTS seen_jobs (
			job_key    TEXT PRIMARY KEY,
			first_seen DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating schema: %w", err)
		}
	}

	return &SQLiteStore{db: db}, nil
}

// SaveJobs inserts the given jobs, ignoring ones already saved. Returns the
// number of newly saved rows.
func (s *SQLiteStore) SaveJobs(jobs []model.Job) (int, error) {
	saved := 0
	for _, j := range jobs {
		res, err := s.db.Exec(
			`INSERT OR IGNORE INTO saved_jobs
				(platform, external_id, title, company, location, description, salary, job_type, url, posted_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			j.Platform, j.ExternalID, j.Title, j.Company, j.Location, j.Description, j.Salary, j.JobType, j.URL, j.PostedAt,
		)
		if err != nil {
			return saved, fmt.Errorf("saving job %s: %w", j.Key(), err)
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			saved++
		}
	}
	return saved, nil
}

// ListSaved returns saved jobs, most recently saved first. limit <= 0 means
// no limit.
func (s *SQLiteStore) ListSaved(limit int) ([]model.Job, error) {
	query := `SELECT platform, external_id, title, company, location, description, salary, job_type, url, posted_at
		FROM saved_jobs ORDER BY saved_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing saved jobs: %w", err)
	}
	defer rows.Close()

	var jobs []model.Job
	for rows.Next() {
		var j model.Job
		var postedAt sql.NullTime
		if err := rows.Scan(&j.Platform, &j.ExternalID, &j.Title, &j.Company, &j.Location, &j.Description, &j.Salary, &j.JobType, &j.URL, &postedAt); err != nil {
			return nil, fmt.Errorf("scanning saved job: %w", err)
		}
		if postedAt.Valid {
			j.PostedAt = postedAt.Time
		}
		j.ID = j.Key()
		j.IsExternal = true
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// HasSeen returns true if the given job key has already been recorded.
func (s *SQLiteStore) HasSeen(jobKey string) (bool, error) {
	var exists int
	err := s.db.QueryRow("SELECT 1 FROM seen_jobs WHERE job_key = ?", jobKey).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking seen status for %s: %w", jobKey, err)
	}
	return true, nil
}

// MarkSeen records a job key as seen. If it already exists the call is a no-op.
func (s *SQLiteStore) MarkSeen(jobKey string) error {
	_, err := s.db.Exec("INSERT OR IGNORE INTO seen_jobs (job_key) VALUES (?)", jobKey)
	if err != nil {
		return fmt.Errorf("marking job %s as seen: %w", jobKey, err)
	}
	return nil
}

// Cleanup deletes seen-job entries older than the given duration.
func (s *SQLiteStore) Cleanup(olderThan time.Duration) error {
	cutoff := time.Now().Add(-olderThan)
	_, err := s.db.Exec("DELETE FROM seen_jobs WHERE first_seen < ?", cutoff)
	if err != nil {
		return fmt.Errorf("cleaning up seen jobs older than %v: %w", olderThan, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
