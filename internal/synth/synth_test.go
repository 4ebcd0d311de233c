// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/tourism-qa/internal/language"
	"github.com/pdiddy/tourism-qa/pkg/types"
)

const guideEN = "Dubrovnik is a beautiful city in southern Croatia. " +
	"Dubrovnik is known for its ancient city walls. " +
	"The museum has 200000 visitors. " +
	"The old town is located on a small peninsula near the sea. " +
	"Stradun is the main street of the old town."

func newTestSynth(t *testing.T, cfg types.SynthesisConfig) *Synthesizer {
	t.Helper()
	s, err := New(cfg, nil)
	require.NoError(t, err)
	return s
}

func TestTextKnownForScenario(t *testing.T) {
	s := newTestSynth(t, types.SynthesisConfig{})
	pairs, err := s.Text(types.SourceText{ID: "1", Text: "Dubrovnik is known for its ancient city walls."})
	require.NoError(t, err)
	require.Len(t, pairs, 1)

	assert.Equal(t, "What is Dubrovnik known for?", pairs[0].Question)
	assert.Contains(t, pairs[0].Answer, "its ancient city walls")
	assert.Equal(t, "Dubrovnik is known for its ancient city walls.", pairs[0].Context)
	assert.Equal(t, "known-for", pairs[0].Rule)
	assert.Equal(t, types.LanguageEnglish, pairs[0].Language)
}

func TestTextNumberScenario(t *testing.T) {
	s := newTestSynth(t, types.SynthesisConfig{})
	pairs, err := s.Text(types.SourceText{ID: "1", Text: "The museum has 200000 visitors."})
	require.NoError(t, err)
	require.NotEmpty(t, pairs)

	assert.Contains(t, pairs[0].Question, "How many")
	assert.Contains(t, pairs[0].Answer, "200000")
}

func TestTextNumberKeepsDecimal(t *testing.T) {
	s := newTestSynth(t, types.SynthesisConfig{})
	pairs, err := s.Text(types.SourceText{ID: "1", Text: "The lake has 2.5 million visitors every single year."})
	require.NoError(t, err)
	require.NotEmpty(t, pairs)

	assert.Equal(t, "number", pairs[0].Rule)
	assert.Contains(t, pairs[0].Question, "How many 2.5 million visitors")
	assert.Contains(t, pairs[0].Answer, "2.5")
}

func TestTextContextWindow(t *testing.T) {
	s := newTestSynth(t, types.SynthesisConfig{})
	pairs, err := s.Text(types.SourceText{ID: "g", Text: guideEN})
	require.NoError(t, err)
	require.NotEmpty(t, pairs)

	sentences := strings.SplitAfter(guideEN, ". ")
	for i := range sentences {
		sentences[i] = strings.TrimSpace(sentences[i])
	}

	// The first pair comes from the first sentence: its window has no
	// predecessor.
	assert.Equal(t, sentences[0]+" "+sentences[1], pairs[0].Context)

	for _, p := range pairs {
		if p.Rule == "known-for" {
			assert.Equal(t, strings.Join(sentences[0:3], " "), p.Context)
		}
		if strings.HasPrefix(p.Answer, "Stradun") {
			assert.Equal(t, sentences[3]+" "+sentences[4], p.Context)
		}
	}
}

func TestTextDeterministicAndUnique(t *testing.T) {
	s := newTestSynth(t, types.SynthesisConfig{})
	src := types.SourceText{ID: "g", Text: guideEN}

	first, err := s.Text(src)
	require.NoError(t, err)
	second, err := s.Text(src)
	require.NoError(t, err)

	assert.Equal(t, first, second)

	seen := map[string]bool{}
	for _, p := range first {
		assert.False(t, seen[p.Answer], "duplicate answer %q", p.Answer)
		seen[p.Answer] = true
		assert.GreaterOrEqual(t, len(strings.Fields(p.Question)), 3)
	}
}

func TestTextOrderFollowsRulesWithinSentence(t *testing.T) {
	s := newTestSynth(t, types.SynthesisConfig{})
	pairs, err := s.Text(types.SourceText{ID: "k", Text: "Korcula is an island that has many old stone houses."})
	require.NoError(t, err)

	// is-a, is, and has all produce the same answer; only the first survives.
	require.Len(t, pairs, 1)
	assert.Equal(t, "is-a", pairs[0].Rule)
}

func TestTextSkipsShortSentences(t *testing.T) {
	s := newTestSynth(t, types.SynthesisConfig{})
	pairs, err := s.Text(types.SourceText{ID: "s", Text: "Hvar is sunny. Split is big."})
	require.NoError(t, err)
	assert.Empty(t, pairs)
	assert.NotNil(t, pairs)
}

func TestTextCroatian(t *testing.T) {
	s := newTestSynth(t, types.SynthesisConfig{Language: types.LanguageCroatian})
	pairs, err := s.Text(types.SourceText{
		ID:   "hr",
		Text: "Kopački rit je najveće močvarno područje u Hrvatskoj. Park se nalazi na ušću Drave u Dunav.",
	})
	require.NoError(t, err)
	require.Len(t, pairs, 2)
	assert.Equal(t, "Što je Kopački rit?", pairs[0].Question)
	assert.Equal(t, "Gdje se nalazi Park?", pairs[1].Question)
	assert.Equal(t, types.LanguageCroatian, pairs[1].Language)
}

func TestTextUnknownLanguage(t *testing.T) {
	s := newTestSynth(t, types.SynthesisConfig{})
	_, err := s.Text(types.SourceText{ID: "x", Language: "fr", Text: guideEN})
	assert.True(t, errors.Is(err, language.ErrUnknownLanguage))
}

func TestNewRejectsUnknownDefault(t *testing.T) {
	_, err := New(types.SynthesisConfig{Language: "xx"}, nil)
	assert.Error(t, err)
}

func TestWindow(t *testing.T) {
	s := []string{"a", "b", "c", "d"}
	tests := []struct {
		i    int
		want string
	}{
		{0, "a b"},
		{1, "a b c"},
		{2, "b c d"},
		{3, "c d"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.i), func(t *testing.T) {
			assert.Equal(t, tt.want, Window(s, tt.i))
		})
	}
	assert.Equal(t, "only", Window([]string{"only"}, 0))
}

func TestStableID(t *testing.T) {
	a := StableID("1", "q", "a")
	assert.Len(t, a, 12)
	assert.Equal(t, a, StableID("1", "q", "a"))
	assert.NotEqual(t, a, StableID("2", "q", "a"))
	assert.NotEqual(t, StableID("1", "qa", ""), StableID("1", "q", "a"))
}

func TestCorpusKeepsInputOrder(t *testing.T) {
	s := newTestSynth(t, types.SynthesisConfig{Workers: 4})

	var texts []types.SourceText
	for i := 0; i < 20; i++ {
		texts = append(texts, types.SourceText{
			ID:   fmt.Sprint(i),
			Text: fmt.Sprintf("Island %d is known for its quiet sandy beaches.", i),
		})
	}
	texts = append(texts, types.SourceText{ID: "blank", Text: "   "})

	var buf strings.Builder
	pairs, summary, err := s.Corpus(context.Background(), texts, &buf)
	require.NoError(t, err)

	require.Len(t, pairs, 20)
	for i, p := range pairs {
		assert.Equal(t, fmt.Sprint(i), p.SourceID)
	}
	assert.Equal(t, CorpusSummary{Texts: 20, Skipped: 1, Pairs: 20}, summary)
	assert.Contains(t, buf.String(), "pairs: 20")
}

func TestCorpusNoPairs(t *testing.T) {
	s := newTestSynth(t, types.SynthesisConfig{})
	var buf strings.Builder
	_, summary, err := s.Corpus(context.Background(), []types.SourceText{
		{ID: "1", Text: "Nothing to see in this short line here."},
		{ID: "2", Text: ""},
	}, &buf)
	assert.True(t, errors.Is(err, ErrNoPairs))
	assert.Equal(t, 1, summary.Texts)
	assert.Equal(t, 1, summary.Skipped)
}

func TestCorpusUnknownLanguageIsSkipped(t *testing.T) {
	s := newTestSynth(t, types.SynthesisConfig{})
	var buf strings.Builder
	pairs, summary, err := s.Corpus(context.Background(), []types.SourceText{
		{ID: "bad", Language: "fr", Text: guideEN},
		{ID: "ok", Text: guideEN},
	}, &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Failed)
	assert.NotEmpty(t, pairs)
	assert.Contains(t, buf.String(), "failed  bad")
}

func TestCorpusCancelled(t *testing.T) {
	s := newTestSynth(t, types.SynthesisConfig{Workers: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf strings.Builder
	_, _, err := s.Corpus(ctx, []types.SourceText{{ID: "1", Text: guideEN}}, &buf)
	assert.ErrorIs(t, err, context.Canceled)
}
