// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pdiddy/tourism-qa/internal/synth"
	"github.com/pdiddy/tourism-qa/pkg/types"
)

// --- source CSV ---

func TestReadTexts(t *testing.T) {
	in := "id,language,text\n" +
		"a,hr,Dubrovnik je grad.\n" +
		",,  \n" +
		",EN,\"Split is a city, old and busy.\"\n"

	texts, err := ReadTexts(strings.NewReader(in), nil)
	require.NoError(t, err)
	require.Len(t, texts, 2)

	assert.Equal(t, types.SourceText{ID: "a", Language: types.LanguageCroatian, Text: "Dubrovnik je grad."}, texts[0])
	// Row 3 has no id: the row number is used.
	assert.Equal(t, "3", texts[1].ID)
	assert.Equal(t, types.LanguageEnglish, texts[1].Language)
	assert.Equal(t, "Split is a city, old and busy.", texts[1].Text)
}

func TestReadTextsTextOnly(t *testing.T) {
	texts, err := ReadTexts(strings.NewReader("\ufeffText\nOne guide here.\n"), nil)
	require.NoError(t, err)
	require.Len(t, texts, 1)
	assert.Equal(t, "1", texts[0].ID)
	assert.Equal(t, types.Language(""), texts[0].Language)
}

func TestReadTextsErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"missing text column", "id,body\n1,hello\n", ErrMissingTextColumn},
		{"empty input", "", ErrEmptyCorpus},
		{"header only", "text\n", ErrEmptyCorpus},
		{"only blank rows", "text\n\"  \"\n\"\"\n", ErrEmptyCorpus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadTexts(strings.NewReader(tt.in), nil)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestReadTextsSkipsBadRows(t *testing.T) {
	in := "id,text\n" +
		"short\n" +
		"b,\"broken \"quote\" here\"\n" +
		"c,Good text here.\n"

	core, logs := observer.New(zap.WarnLevel)
	texts, err := ReadTexts(strings.NewReader(in), zap.New(core))
	require.NoError(t, err)
	require.Len(t, texts, 1)
	assert.Equal(t, "c", texts[0].ID)
	assert.Equal(t, 2, logs.Len())
}

func TestReadTextsFileWrapsPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guides.csv")
	require.NoError(t, os.WriteFile(path, []byte("body\nx\n"), 0o644))

	_, err := ReadTextsFile(path, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingTextColumn))
	assert.Contains(t, err.Error(), path)
}

// --- pair files ---

var testPairs = []types.QAPair{
	{
		ID: "abc", Question: "What is Dubrovnik known for?",
		Answer:   "Dubrovnik is known for its walls",
		Context:  "Dubrovnik is known for its walls. It is old, and \"famous\".",
		SourceID: "1", Rule: "known-for", Language: types.LanguageEnglish,
	},
	{Question: "Što je Split?", Answer: "Split je drugi grad", Context: "Split je drugi grad."},
}

func TestPairFilesRoundTrip(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"pairs.csv", "pairs.json", "pairs.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, "nested", name)
			require.NoError(t, WritePairsFile(path, testPairs))

			got, err := ReadPairsFile(path)
			require.NoError(t, err)
			assert.Equal(t, testPairs, got)
		})
	}
}

func TestWritePairsHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePairs(&buf, nil))
	assert.Equal(t, "question,answer,context,id,source_id,rule,language\n", buf.String())
}

func TestReadPairsMinimalColumns(t *testing.T) {
	pairs, err := ReadPairs(strings.NewReader("question,answer,context\nQ one two?,A one two,C\n"))
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, "A one two", pairs[0].Answer)

	_, err = ReadPairs(strings.NewReader("question,answer\nq,a\n"))
	assert.True(t, errors.Is(err, ErrMissingPairColumn))
}

func TestFormatOf(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatOf("x/pairs.JSON"))
	assert.Equal(t, FormatYAML, FormatOf("pairs.yml"))
	assert.Equal(t, FormatCSV, FormatOf("pairs.csv"))
	assert.Equal(t, FormatCSV, FormatOf("pairs"))
}

// --- split ---

func numberedPairs(n int) []types.QAPair {
	pairs := make([]types.QAPair, n)
	for i := range pairs {
		pairs[i] = types.QAPair{ID: string(rune('a' + i%26)) + strings.Repeat("x", i/26), Answer: strings.Repeat("w ", 3)}
	}
	return pairs
}

func TestSplitSizes(t *testing.T) {
	tests := []struct {
		n                int
		train, val, test int
	}{
		{n: 10, train: 7, val: 1, test: 2},
		{n: 100, train: 70, val: 10, test: 20},
		{n: 7, train: 4, val: 1, test: 2},
		{n: 0},
	}
	for _, tt := range tests {
		s, err := Split(numberedPairs(tt.n), types.SplitConfig{})
		require.NoError(t, err)
		assert.Equal(t, tt.train, len(s.Train), "n=%d train", tt.n)
		assert.Equal(t, tt.val, len(s.Val), "n=%d val", tt.n)
		assert.Equal(t, tt.test, len(s.Test), "n=%d test", tt.n)
		assert.Equal(t, tt.n, s.Total())
	}
}

func TestSplitDeterministicAndComplete(t *testing.T) {
	pairs := numberedPairs(50)
	a, err := Split(pairs, types.SplitConfig{})
	require.NoError(t, err)
	b, err := Split(pairs, types.SplitConfig{Seed: DefaultSeed})
	require.NoError(t, err)
	assert.Equal(t, a, b)

	seen := map[string]int{}
	for _, part := range [][]types.QAPair{a.Train, a.Val, a.Test} {
		for _, p := range part {
			seen[p.ID]++
		}
	}
	assert.Len(t, seen, 50)
	for id, n := range seen {
		assert.Equal(t, 1, n, id)
	}

	// The input order is untouched.
	assert.Equal(t, numberedPairs(50), pairs)

	c, err := Split(pairs, types.SplitConfig{Seed: 7})
	require.NoError(t, err)
	assert.NotEqual(t, a.Train, c.Train)
}

func TestSplitInvalid(t *testing.T) {
	_, err := Split(numberedPairs(10), types.SplitConfig{TestSize: 0.6, ValSize: 0.4})
	assert.True(t, errors.Is(err, ErrSplitSizes))

	_, err = Split(numberedPairs(1), types.SplitConfig{})
	assert.True(t, errors.Is(err, ErrSplitSizes))
}

// --- prepare ---

func TestPrepareSampleCorpus(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "tourism_guides.csv")
	n, err := WriteSample(input)
	require.NoError(t, err)
	assert.Equal(t, len(SampleGuides()), n)

	s, err := synth.New(types.SynthesisConfig{}, nil)
	require.NoError(t, err)

	var out bytes.Buffer
	cfg := types.PrepareConfig{OutputDir: filepath.Join(dir, "data")}
	res, err := Prepare(context.Background(), s, input, cfg, &out, nil)
	require.NoError(t, err)

	assert.Equal(t, n, res.Synthesis.Texts)
	assert.Equal(t, res.Synthesis.Pairs, res.Splits.Total())
	assert.Greater(t, len(res.Splits.Train), len(res.Splits.Test))
	assert.Contains(t, out.String(), "train: ")

	for _, name := range []string{"train", "val", "test"} {
		pairs, err := ReadPairsFile(res.Files[name])
		require.NoError(t, err, name)
		assert.NotEmpty(t, pairs, name)
	}
	assert.Equal(t, filepath.Join(dir, "data", "train.csv"), res.Files["train"])
}

type stubSynth struct {
	pairs []types.QAPair
	err   error
}

func (s stubSynth) Corpus(_ context.Context, texts []types.SourceText, _ io.Writer) ([]types.QAPair, synth.CorpusSummary, error) {
	return s.pairs, synth.CorpusSummary{Texts: len(texts), Pairs: len(s.pairs)}, s.err
}

func TestPrepareNoPairs(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.csv")
	require.NoError(t, os.WriteFile(input, []byte("text\nHello there.\n"), 0o644))

	_, err := Prepare(context.Background(), stubSynth{err: synth.ErrNoPairs}, input,
		types.PrepareConfig{OutputDir: dir}, io.Discard, nil)
	assert.True(t, errors.Is(err, synth.ErrNoPairs))
	assert.NoFileExists(t, filepath.Join(dir, "train.csv"))
}

func TestPrepareMissingTextColumn(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.csv")
	require.NoError(t, os.WriteFile(input, []byte("body\nHello there.\n"), 0o644))

	_, err := Prepare(context.Background(), stubSynth{pairs: numberedPairs(10)}, input,
		types.PrepareConfig{OutputDir: dir}, io.Discard, nil)
	assert.True(t, errors.Is(err, ErrMissingTextColumn))
}

// --- sample and fetch ---

func TestSampleGuidesBilingual(t *testing.T) {
	langs := map[types.Language]int{}
	ids := map[string]bool{}
	for _, g := range SampleGuides() {
		langs[g.Language]++
		assert.False(t, ids[g.ID], "duplicate id %s", g.ID)
		ids[g.ID] = true
		assert.NotEmpty(t, strings.TrimSpace(g.Text))
	}
	assert.Equal(t, 13, langs[types.LanguageCroatian])
	assert.Greater(t, langs[types.LanguageEnglish], 0)

	// The returned slice is a copy.
	g := SampleGuides()
	g[0].Text = "changed"
	assert.NotEqual(t, "changed", SampleGuides()[0].Text)
}

type fakeGetter struct {
	body []byte
	err  error
	url  string
}

func (f *fakeGetter) Get(_ context.Context, url string) ([]byte, error) {
	f.url = url
	return f.body, f.err
}

func TestFetch(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "raw", "guides.csv")
	g := &fakeGetter{body: []byte("text\nDubrovnik is a city.\nSplit is a city.\n")}

	n, err := Fetch(context.Background(), g, "https://example.com/guides.csv", dest, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "https://example.com/guides.csv", g.url)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, g.body, data)
}

func TestFetchRejectsInvalidCorpus(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "guides.csv")
	g := &fakeGetter{body: []byte("<html>not a csv</html>\n")}

	_, err := Fetch(context.Background(), g, "https://example.com/x", dest, nil)
	assert.True(t, errors.Is(err, ErrMissingTextColumn))
	assert.NoFileExists(t, dest)

	g = &fakeGetter{err: errors.New("boom")}
	_, err = Fetch(context.Background(), g, "https://example.com/x", dest, nil)
	assert.EqualError(t, err, "boom")
}
