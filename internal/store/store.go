// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists source texts and their synthesized QA pairs in
// SQLite and keeps a full-text index over questions and answers.
package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/pdiddy/tourism-qa/internal/logging"
	"github.com/pdiddy/tourism-qa/pkg/types"
)

const (
	dbFile            = "corpus.db"
	defaultMaxResults = 20
)

// Synthesizer turns one source text into QA pairs. *synth.Synthesizer
// satisfies it.
type Synthesizer interface {
	Text(src types.SourceText) ([]types.QAPair, error)
}

// Store manages the corpus SQLite database.
type Store struct {
	db         *sqlx.DB
	dir        string
	maxResults int
	logger     *zap.Logger
}

// NewStore opens or creates dir/corpus.db and its schema.
func NewStore(cfg types.StoreConfig, logger *zap.Logger) (*Store, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = "corpus"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	db, err := sqlx.Open("sqlite3", filepath.Join(dir, dbFile)+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{
		db:         db,
		dir:        dir,
		maxResults: maxResults,
		logger:     logging.OrNop(logger),
	}
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

// Dir returns the directory holding the database and exports.
func (s *Store) Dir() string { return s.dir }

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sources (
			id TEXT PRIMARY KEY,
			language TEXT NOT NULL DEFAULT '',
			text TEXT NOT NULL,
			text_hash TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS pairs (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			question TEXT NOT NULL,
			answer TEXT NOT NULL,
			context TEXT NOT NULL,
			source_id TEXT NOT NULL REFERENCES sources(id),
			rule TEXT NOT NULL DEFAULT '',
			language TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_pairs_source_id ON pairs(source_id)`,
		`CREATE INDEX IF NOT EXISTS idx_pairs_rule ON pairs(rule)`,
		`CREATE INDEX IF NOT EXISTS idx_pairs_language ON pairs(language)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	var ftsExists int
	if err := s.db.Get(&ftsExists,
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='pairs_fts'`,
	); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if ftsExists > 0 {
		return nil
	}

	ftsStatements := []string{
		`CREATE VIRTUAL TABLE pairs_fts USING fts5(question, answer, content=pairs, content_rowid=rowid)`,
		`CREATE TRIGGER pairs_ai AFTER INSERT ON pairs BEGIN
			INSERT INTO pairs_fts(rowid, question, answer) VALUES (new.rowid, new.question, new.answer);
		END`,
		`CREATE TRIGGER pairs_ad AFTER DELETE ON pairs BEGIN
			INSERT INTO pairs_fts(pairs_fts, rowid, question, answer) VALUES('delete', old.rowid, old.question, old.answer);
		END`,
		`CREATE TRIGGER pairs_au AFTER UPDATE ON pairs BEGIN
			INSERT INTO pairs_fts(pairs_fts, rowid, question, answer) VALUES('delete', old.rowid, old.question, old.answer);
			INSERT INTO pairs_fts(rowid, question, answer) VALUES (new.rowid, new.question, new.answer);
		END`,
	}
	for _, stmt := range ftsStatements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating FTS infrastructure: %w", err)
		}
	}
	return nil
}

// IngestSummary holds counts from a store ingest run.
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
	Pairs   int
}

// Total returns the number of source texts processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// HasFailures reports whether any source text failed.
func (s IngestSummary) HasFailures() bool { return s.Failed > 0 }

// pairRow is the pairs table row.
type pairRow struct {
	ID       string `db:"id"`
	Question string `db:"question"`
	Answer   string `db:"answer"`
	Context  string `db:"context"`
	SourceID string `db:"source_id"`
	Rule     string `db:"rule"`
	Language string `db:"language"`
}

func toRow(p types.QAPair) pairRow {
	return pairRow{
		ID:       p.ID,
		Question: p.Question,
		Answer:   p.Answer,
		Context:  p.Context,
		SourceID: p.SourceID,
		Rule:     p.Rule,
		Language: string(p.Language),
	}
}

func (r pairRow) pair() types.QAPair {
	return types.QAPair{
		ID:       r.ID,
		Question: r.Question,
		Answer:   r.Answer,
		Context:  r.Context,
		SourceID: r.SourceID,
		Rule:     r.Rule,
		Language: types.Language(r.Language),
	}
}

func textHash(src types.SourceText) string {
	h := sha256.New()
	h.Write([]byte(src.Language))
	h.Write([]byte{0})
	h.Write([]byte(src.Text))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Ingest synthesizes pairs for each source text and stores them. Texts
// whose content is unchanged since the last ingest are skipped; changed
// texts have their pairs replaced. On any change export.yaml is rewritten.
func (s *Store) Ingest(ctx context.Context, syn Synthesizer, texts []types.SourceText, w io.Writer) (IngestSummary, error) {
	var summary IngestSummary

	for _, src := range texts {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		hash := textHash(src)
		var stored string
		err := s.db.GetContext(ctx, &stored, `SELECT text_hash FROM sources WHERE id = ?`, src.ID)
		if err == nil && stored == hash {
			fmt.Fprintf(w, "skipped %s\n", src.ID)
			summary.Skipped++
			continue
		}
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			fmt.Fprintf(w, "failed  %s: %v\n", src.ID, err)
			summary.Failed++
			continue
		}
		isUpdate := err == nil

		pairs, err := syn.Text(src)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", src.ID, err)
			s.logger.Warn("synthesis failed", zap.String("source", src.ID), zap.Error(err))
			summary.Failed++
			continue
		}

		if err := s.ingestSource(ctx, src, hash, pairs, isUpdate); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", src.ID, err)
			summary.Failed++
			continue
		}

		summary.Pairs += len(pairs)
		if isUpdate {
			fmt.Fprintf(w, "updated %s (%d pairs)\n", src.ID, len(pairs))
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexing %s (%d pairs)\n", src.ID, len(pairs))
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d, pairs: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed, summary.Pairs)

	if summary.Indexed > 0 || summary.Updated > 0 {
		if _, err := s.ExportYAML(ctx, QueryOptions{}); err != nil {
			fmt.Fprintf(w, "warning: export.yaml write failed: %v\n", err)
		}
	}
	return summary, nil
}

func (s *Store) ingestSource(ctx context.Context, src types.SourceText, hash string, pairs []types.QAPair, isUpdate bool) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if isUpdate {
		if _, err := tx.ExecContext(ctx, `DELETE FROM pairs WHERE source_id = ?`, src.ID); err != nil {
			return fmt.Errorf("deleting old pairs: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO sources (id, language, text, text_hash) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			language=excluded.language, text=excluded.text, text_hash=excluded.text_hash`,
		src.ID, string(src.Language), src.Text, hash,
	)
	if err != nil {
		return fmt.Errorf("upserting source: %w", err)
	}

	for _, p := range pairs {
		if p.SourceID == "" {
			p.SourceID = src.ID
		}
		_, err := tx.NamedExecContext(ctx,
			`INSERT OR REPLACE INTO pairs (id, question, answer, context, source_id, rule, language)
			 VALUES (:id, :question, :answer, :context, :source_id, :rule, :language)`,
			toRow(p),
		)
		if err != nil {
			return fmt.Errorf("inserting pair %s: %w", p.ID, err)
		}
	}

	return tx.Commit()
}

// RuleCount is the number of stored pairs produced by one rule.
type RuleCount struct {
	Language types.Language `db:"language" json:"language" yaml:"language"`
	Rule     string         `db:"rule" json:"rule" yaml:"rule"`
	Pairs    int            `db:"pairs" json:"pairs" yaml:"pairs"`
}

// Stats returns pair counts per language and rule, largest first.
func (s *Store) Stats(ctx context.Context) ([]RuleCount, error) {
	var counts []RuleCount
	err := s.db.SelectContext(ctx, &counts,
		`SELECT language, rule, count(*) AS pairs FROM pairs
		 GROUP BY language, rule
		 ORDER BY pairs DESC, language, rule`)
	if err != nil {
		return nil, fmt.Errorf("counting pairs: %w", err)
	}
	return counts, nil
}

// Source returns the stored text for id.
func (s *Store) Source(ctx context.Context, id string) (types.SourceText, error) {
	var row struct {
		ID       string `db:"id"`
		Language string `db:"language"`
		Text     string `db:"text"`
	}
	err := s.db.GetContext(ctx, &row, `SELECT id, language, text FROM sources WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.SourceText{}, fmt.Errorf("source %s not found", id)
		}
		return types.SourceText{}, fmt.Errorf("looking up source: %w", err)
	}
	return types.SourceText{ID: row.ID, Language: types.Language(row.Language), Text: row.Text}, nil
}
