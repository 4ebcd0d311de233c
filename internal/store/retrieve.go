// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/tourism-qa/pkg/types"
)

// QueryOptions holds parameters for corpus queries.
type QueryOptions struct {
	// Query is the FTS5 full-text search string over question and answer.
	Query string

	Language types.Language
	Rule     string
	SourceID string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Language == "" && q.Rule == "" && q.SourceID == ""
}

// QueryResult is a stored pair with its full-text rank. Rank is zero for
// filter-only queries.
type QueryResult struct {
	types.QAPair `yaml:",inline"`
	Rank         float64 `json:"rank,omitempty" yaml:"rank,omitempty"`
}

type resultRow struct {
	pairRow
	Rank float64 `db:"rank"`
}

// Retrieve queries the store with optional full-text search and filters.
// Full-text results are ranked by relevance; filter-only results are
// ordered by source and insertion order.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]QueryResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT p.id, p.question, p.answer, p.context, p.source_id, p.rule, p.language,
				pairs_fts.rank AS rank
			FROM pairs_fts
			JOIN pairs p ON p.rowid = pairs_fts.rowid
			WHERE pairs_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT p.id, p.question, p.answer, p.context, p.source_id, p.rule, p.language,
				0 AS rank
			FROM pairs p
			WHERE 1=1`)
	}

	if opts.Language != "" {
		qb.WriteString(` AND p.language = ?`)
		args = append(args, string(opts.Language))
	}
	if opts.Rule != "" {
		qb.WriteString(` AND p.rule = ?`)
		args = append(args, opts.Rule)
	}
	if opts.SourceID != "" {
		qb.WriteString(` AND p.source_id = ?`)
		args = append(args, opts.SourceID)
	}

	if useFTS {
		qb.WriteString(` ORDER BY pairs_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY p.source_id, p.rowid`)
	}
	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	var rows []resultRow
	if err := s.db.SelectContext(ctx, &rows, qb.String(), args...); err != nil {
		return nil, fmt.Errorf("querying corpus: %w", err)
	}

	results := make([]QueryResult, len(rows))
	for i, r := range rows {
		results[i] = QueryResult{QAPair: r.pair(), Rank: r.Rank}
	}
	return results, nil
}

// Pairs returns every stored pair matching opts, ignoring MaxResults.
func (s *Store) Pairs(ctx context.Context, opts QueryOptions) ([]types.QAPair, error) {
	opts.MaxResults = exportLimit
	results, err := s.Retrieve(ctx, opts)
	if err != nil {
		return nil, err
	}
	pairs := make([]types.QAPair, len(results))
	for i, r := range results {
		pairs[i] = r.QAPair
	}
	return pairs, nil
}
