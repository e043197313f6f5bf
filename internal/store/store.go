// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists the history of pipeline runs in a SQLite
// database: which topic ran when, how each stage ended, what scores the
// article earned and where it was published.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/content-engine/internal/jst"
	"github.com/pdiddy/content-engine/pkg/types"
)

const dbFile = "content.db"

// Stage statuses recorded per run.
const (
	StageOK      = "ok"
	StageFailed  = "failed"
	StageSkipped = "skipped"
)

// Run is one pipeline execution.
type Run struct {
	ID           string            `json:"id" yaml:"id"`
	Topic        string            `json:"topic" yaml:"topic"`
	Title        string            `json:"title" yaml:"title"`
	Stages       map[string]string `json:"stages" yaml:"stages"`
	SEOScore     int               `json:"seo_score" yaml:"seo_score"`
	QualityScore int               `json:"quality_score" yaml:"quality_score"`
	SlideScore   int               `json:"slide_score" yaml:"slide_score"`
	VideoPath    string            `json:"video_path,omitempty" yaml:"video_path,omitempty"`
	PublishedURL string            `json:"published_url,omitempty" yaml:"published_url,omitempty"`
	StartedAt    time.Time         `json:"started_at" yaml:"started_at"`
	FinishedAt   time.Time         `json:"finished_at" yaml:"finished_at"`
}

// NewRun starts a run record for a topic.
func NewRun(topic string) *Run {
	return &Run{
		ID:        uuid.NewString(),
		Topic:     topic,
		Stages:    make(map[string]string),
		StartedAt: jst.Now(),
	}
}

// Store manages the run-history SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the database at cfg.DataDir/content.db and
// ensures the schema exists.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = "data"
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			topic TEXT NOT NULL,
			title TEXT,
			stages TEXT,
			seo_score INTEGER,
			quality_score INTEGER,
			slide_score INTEGER,
			video_path TEXT,
			published_url TEXT,
			started_at TEXT,
			finished_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_topic ON runs(topic)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveRun inserts or replaces a run record.
func (s *Store) SaveRun(run *Run) error {
	stages, err := json.Marshal(run.Stages)
	if err != nil {
		return fmt.Errorf("marshaling stages: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO runs
			(id, topic, title, stages, seo_score, quality_score, slide_score,
			 video_path, published_url, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Topic, run.Title, string(stages),
		run.SEOScore, run.QualityScore, run.SlideScore,
		run.VideoPath, run.PublishedURL,
		run.StartedAt.Format(time.RFC3339), run.FinishedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("saving run %s: %w", run.ID, err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first. An empty topic
// lists runs for all topics; limit 0 applies the configured default.
func (s *Store) ListRuns(topic string, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = s.maxResults
	}

	query := `SELECT id, topic, title, stages, seo_score, quality_score, slide_score,
			video_path, published_url, started_at, finished_at
		FROM runs`
	args := []any{}
	if topic != "" {
		query += ` WHERE topic = ?`
		args = append(args, topic)
	}
	query += ` ORDER BY started_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun fetches one run by id.
func (s *Store) GetRun(id string) (*Run, error) {
	row := s.db.QueryRow(
		`SELECT id, topic, title, stages, seo_score, quality_score, slide_score,
			video_path, published_url, started_at, finished_at
		 FROM runs WHERE id = ?`, id)

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("unknown run: %s", id)
	}
	return run, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var run Run
	var stages, started, finished string
	err := row.Scan(&run.ID, &run.Topic, &run.Title, &stages,
		&run.SEOScore, &run.QualityScore, &run.SlideScore,
		&run.VideoPath, &run.PublishedURL, &started, &finished)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(stages), &run.Stages); err != nil {
		return nil, fmt.Errorf("parsing stages of run %s: %w", run.ID, err)
	}
	if run.StartedAt, err = time.Parse(time.RFC3339, started); err != nil {
		return nil, fmt.Errorf("parsing start time of run %s: %w", run.ID, err)
	}
	if run.FinishedAt, err = time.Parse(time.RFC3339, finished); err != nil {
		return nil, fmt.Errorf("parsing finish time of run %s: %w", run.ID, err)
	}
	return &run, nil
}

// ExportYAML writes the listed runs as a YAML document to path.
func (s *Store) ExportYAML(path, topic string, limit int) error {
	runs, err := s.ListRuns(topic, limit)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(map[string][]*Run{"runs": runs})
	if err != nil {
		return fmt.Errorf("marshaling runs: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	return nil
}
