// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/tourism-qa/pkg/types"
)

// --- test helpers ---

// fakeSynth returns canned pairs keyed by source text and counts calls.
type fakeSynth struct {
	calls int
	fail  map[string]bool
}

func (f *fakeSynth) Text(src types.SourceText) ([]types.QAPair, error) {
	f.calls++
	if f.fail[src.ID] {
		return nil, errors.New("unknown language")
	}
	first, _, _ := strings.Cut(src.Text, " ")
	return []types.QAPair{
		{
			ID: src.ID + "-1", Question: "What is " + first + " known for?",
			Answer: "its medieval city walls", Context: src.Text,
			SourceID: src.ID, Rule: "known_for", Language: src.Language,
		},
		{
			ID: src.ID + "-2", Question: "Where is " + first + " located?",
			Answer: "on the Adriatic coast", Context: src.Text,
			SourceID: src.ID, Rule: "located", Language: src.Language,
		},
	}, nil
}

func testSetup(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(types.StoreConfig{Dir: filepath.Join(t.TempDir(), "corpus"), MaxResults: 20}, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleTexts() []types.SourceText {
	return []types.SourceText{
		{ID: "1", Language: types.LanguageEnglish, Text: "Dubrovnik is known for its medieval city walls."},
		{ID: "2", Language: types.LanguageCroatian, Text: "Split se nalazi na obali Jadranskog mora."},
	}
}

func ingestHelper(t *testing.T, store *Store, syn Synthesizer, texts []types.SourceText) IngestSummary {
	t.Helper()
	var buf strings.Builder
	summary, err := store.Ingest(context.Background(), syn, texts, &buf)
	if err != nil {
		t.Fatal(err)
	}
	return summary
}

// --- schema tests ---

func TestNewStoreCreatesSchema(t *testing.T) {
	store := testSetup(t)

	for _, table := range []string{"sources", "pairs", "pairs_fts"} {
		var count int
		err := store.db.Get(&count,
			`SELECT count(*) FROM sqlite_master WHERE type IN ('table','view') AND name = ?`, table)
		if err != nil {
			t.Fatalf("checking table %s: %v", table, err)
		}
		if count == 0 {
			t.Errorf("table %s does not exist", table)
		}
	}
}

func TestNewStoreReopens(t *testing.T) {
	dir := t.TempDir()
	for range 2 {
		store, err := NewStore(types.StoreConfig{Dir: dir}, nil)
		if err != nil {
			t.Fatal(err)
		}
		if store.maxResults != defaultMaxResults {
			t.Errorf("maxResults = %d, want %d", store.maxResults, defaultMaxResults)
		}
		store.Close()
	}
	if _, err := os.Stat(filepath.Join(dir, dbFile)); err != nil {
		t.Errorf("database file not created: %v", err)
	}
}

// --- ingest tests ---

func TestIngest(t *testing.T) {
	store := testSetup(t)
	syn := &fakeSynth{}

	var buf strings.Builder
	summary, err := store.Ingest(context.Background(), syn, sampleTexts(), &buf)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Indexed != 2 || summary.Pairs != 4 || summary.Total() != 2 {
		t.Errorf("summary = %+v", summary)
	}
	out := buf.String()
	if !strings.Contains(out, "indexing 1 (2 pairs)") {
		t.Errorf("output missing indexing line: %s", out)
	}
	if !strings.Contains(out, "indexed: 2, updated: 0, skipped: 0, failed: 0, pairs: 4") {
		t.Errorf("output missing summary: %s", out)
	}
	if _, err := os.Stat(filepath.Join(store.Dir(), "export.yaml")); err != nil {
		t.Errorf("export.yaml not written: %v", err)
	}
}

func TestIngestSkipsUnchanged(t *testing.T) {
	store := testSetup(t)
	syn := &fakeSynth{}
	ingestHelper(t, store, syn, sampleTexts())

	summary := ingestHelper(t, store, syn, sampleTexts())
	if summary.Skipped != 2 || summary.Indexed != 0 {
		t.Errorf("summary = %+v, want 2 skipped", summary)
	}
	if syn.calls != 2 {
		t.Errorf("synthesizer called %d times, want 2", syn.calls)
	}
}

func TestIngestUpdatesChanged(t *testing.T) {
	store := testSetup(t)
	syn := &fakeSynth{}
	ingestHelper(t, store, syn, sampleTexts())

	texts := sampleTexts()
	texts[0].Text = "Zagreb is known for its Upper Town streets."
	summary := ingestHelper(t, store, syn, texts)
	if summary.Updated != 1 || summary.Skipped != 1 {
		t.Errorf("summary = %+v, want 1 updated and 1 skipped", summary)
	}

	results, err := store.Retrieve(context.Background(), QueryOptions{SourceID: "1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d pairs, want 2 after replace", len(results))
	}
	if !strings.HasPrefix(results[0].Question, "What is Zagreb") {
		t.Errorf("question = %q, want replaced pair", results[0].Question)
	}

	src, err := store.Source(context.Background(), "1")
	if err != nil {
		t.Fatal(err)
	}
	if src.Text != texts[0].Text {
		t.Errorf("source text = %q", src.Text)
	}
}

func TestIngestFailure(t *testing.T) {
	store := testSetup(t)
	summary := ingestHelper(t, store, &fakeSynth{fail: map[string]bool{"2": true}}, sampleTexts())
	if summary.Failed != 1 || summary.Indexed != 1 || !summary.HasFailures() {
		t.Errorf("summary = %+v", summary)
	}
	if _, err := store.Source(context.Background(), "2"); err == nil {
		t.Error("failed source should not be stored")
	}
}

func TestIngestCancelled(t *testing.T) {
	store := testSetup(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf strings.Builder
	_, err := store.Ingest(ctx, &fakeSynth{}, sampleTexts(), &buf)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

// --- retrieve tests ---

func TestRetrieve(t *testing.T) {
	store := testSetup(t)
	ingestHelper(t, store, &fakeSynth{}, sampleTexts())

	tests := []struct {
		name string
		opts QueryOptions
		want int
	}{
		{"full text", QueryOptions{Query: "walls"}, 2},
		{"full text question", QueryOptions{Query: "Dubrovnik"}, 2},
		{"full text with language", QueryOptions{Query: "walls", Language: types.LanguageCroatian}, 1},
		{"rule filter", QueryOptions{Rule: "located"}, 2},
		{"language and rule", QueryOptions{Language: types.LanguageEnglish, Rule: "located"}, 1},
		{"source filter", QueryOptions{SourceID: "2"}, 2},
		{"max results", QueryOptions{MaxResults: 3}, 3},
		{"no match", QueryOptions{Query: "cathedral"}, 0},
		{"all", QueryOptions{}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := store.Retrieve(context.Background(), tt.opts)
			if err != nil {
				t.Fatal(err)
			}
			if len(results) != tt.want {
				t.Errorf("got %d results, want %d", len(results), tt.want)
			}
		})
	}
}

func TestRetrieveFieldsAndRank(t *testing.T) {
	store := testSetup(t)
	ingestHelper(t, store, &fakeSynth{}, sampleTexts()[:1])

	results, err := store.Retrieve(context.Background(), QueryOptions{Query: "medieval"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	r := results[0]
	if r.ID != "1-1" || r.Rule != "known_for" || r.Language != types.LanguageEnglish || r.SourceID != "1" {
		t.Errorf("result = %+v", r.QAPair)
	}
	if r.Answer != "its medieval city walls" {
		t.Errorf("Answer = %q", r.Answer)
	}
	if r.Rank >= 0 {
		t.Errorf("FTS rank = %f, want negative bm25 score", r.Rank)
	}
}

func TestQueryOptionsIsEmpty(t *testing.T) {
	if !(QueryOptions{MaxResults: 5}).IsEmpty() {
		t.Error("MaxResults alone should be empty")
	}
	if (QueryOptions{Rule: "is"}).IsEmpty() {
		t.Error("rule filter should not be empty")
	}
}

func TestStats(t *testing.T) {
	store := testSetup(t)
	ingestHelper(t, store, &fakeSynth{}, sampleTexts())

	counts, err := store.Stats(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(counts) != 4 {
		t.Fatalf("got %d rows, want 4: %+v", len(counts), counts)
	}
	for _, c := range counts {
		if c.Pairs != 1 {
			t.Errorf("%s/%s = %d, want 1", c.Language, c.Rule, c.Pairs)
		}
	}
}

// --- export tests ---

func TestExportYAML(t *testing.T) {
	store := testSetup(t)
	ingestHelper(t, store, &fakeSynth{}, sampleTexts())

	path, err := store.ExportYAML(context.Background(), QueryOptions{Language: types.LanguageCroatian})
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var pairs []types.QAPair
	if err := yaml.Unmarshal(data, &pairs); err != nil {
		t.Fatal(err)
	}
	if len(pairs) != 2 {
		t.Fatalf("got %d pairs, want 2", len(pairs))
	}
	if pairs[0].Language != types.LanguageCroatian {
		t.Errorf("Language = %q", pairs[0].Language)
	}
}

func TestExportJSON(t *testing.T) {
	store := testSetup(t)
	ingestHelper(t, store, &fakeSynth{}, sampleTexts())

	path, err := store.ExportJSON(context.Background(), QueryOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "export.json" {
		t.Errorf("path = %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var pairs []types.QAPair
	if err := json.Unmarshal(data, &pairs); err != nil {
		t.Fatal(err)
	}
	if len(pairs) != 4 {
		t.Errorf("got %d pairs, want 4", len(pairs))
	}
}
