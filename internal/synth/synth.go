// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package synth turns source texts into deduplicated QA pairs by chaining a
// language profile's segmenter, extractor, and validator.
package synth

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/tourism-qa/internal/language"
	"github.com/pdiddy/tourism-qa/internal/logging"
	"github.com/pdiddy/tourism-qa/pkg/types"
)

// Defaults applied when SynthesisConfig fields are zero.
const (
	defaultMinSentenceWords = 5
	defaultMinQuestionWords = 3
)

// ErrNoPairs is returned when an entire corpus yields no QA pairs.
var ErrNoPairs = errors.New("no valid QA pairs generated from the texts")

// Synthesizer holds one read-only profile per language and may be shared
// by concurrent callers.
type Synthesizer struct {
	profiles         map[types.Language]language.Profile
	defaultLang      types.Language
	minSentenceWords int
	minQuestionWords int
	workers          int
	logger           *zap.Logger
}

// New builds a Synthesizer with profiles for every supported language.
func New(cfg types.SynthesisConfig, logger *zap.Logger) (*Synthesizer, error) {
	logger = logging.OrNop(logger)

	lang := cfg.Language
	if lang == "" {
		lang = types.LanguageEnglish
	}

	s := &Synthesizer{
		profiles:         make(map[types.Language]language.Profile),
		defaultLang:      lang,
		minSentenceWords: cfg.MinSentenceWords,
		minQuestionWords: cfg.MinQuestionWords,
		workers:          cfg.Workers,
		logger:           logger,
	}
	if s.minSentenceWords <= 0 {
		s.minSentenceWords = defaultMinSentenceWords
	}
	if s.minQuestionWords <= 0 {
		s.minQuestionWords = defaultMinQuestionWords
	}
	if s.workers <= 0 {
		s.workers = runtime.GOMAXPROCS(0)
	}

	for _, l := range language.Supported() {
		p, err := language.New(l,
			language.WithLogger(logger),
			language.WithAnswerBounds(cfg.MinAnswerWords, cfg.MaxAnswerWords),
		)
		if err != nil {
			return nil, err
		}
		s.profiles[l] = p
	}
	if _, ok := s.profiles[lang]; !ok {
		return nil, fmt.Errorf("%w: %q", language.ErrUnknownLanguage, lang)
	}
	return s, nil
}

// Profile returns the profile for lang, or the default profile when lang
// is empty.
func (s *Synthesizer) Profile(lang types.Language) (language.Profile, error) {
	if lang == "" {
		lang = s.defaultLang
	}
	p, ok := s.profiles[lang]
	if !ok {
		return nil, fmt.Errorf("%w: %q", language.ErrUnknownLanguage, lang)
	}
	return p, nil
}

// Text synthesizes QA pairs from one source text.
//
// For every sentence with at least minSentenceWords words the context is the
// sentence joined with its immediate neighbors. A candidate is kept when its
// answer validates, its question has at least minQuestionWords words, and no
// pair already kept for this text has the same answer. Pairs are ordered by
// sentence, then rule, then match, so output is deterministic.
func (s *Synthesizer) Text(src types.SourceText) ([]types.QAPair, error) {
	p, err := s.Profile(src.Language)
	if err != nil {
		return nil, err
	}

	sentences := p.Segment(src.Text)
	pairs := []types.QAPair{}
	seen := make(map[string]struct{})

	for i, sentence := range sentences {
		if len(strings.Fields(sentence)) < s.minSentenceWords {
			continue
		}
		window := Window(sentences, i)

		for _, c := range p.Extract(sentence) {
			if !p.Validate(c.Answer) {
				continue
			}
			if len(strings.Fields(c.Question)) < s.minQuestionWords {
				continue
			}
			if _, dup := seen[c.Answer]; dup {
				continue
			}
			seen[c.Answer] = struct{}{}

			pairs = append(pairs, types.QAPair{
				ID:       StableID(src.ID, c.Question, c.Answer),
				Question: c.Question,
				Answer:   c.Answer,
				Context:  window,
				SourceID: src.ID,
				Rule:     c.Rule,
				Language: p.Language(),
			})
		}
	}
	return pairs, nil
}

// Window joins sentences[i-1 : i+2], clamped to the slice bounds.
func Window(sentences []string, i int) string {
	start := max(0, i-1)
	end := min(len(sentences), i+2)
	return strings.Join(sentences[start:end], " ")
}

// StableID generates a deterministic ID from source ID, question, and answer.
// The ID is the first 12 hex characters of SHA-256 over the three values.
func StableID(sourceID, question, answer string) string {
	h := sha256.New()
	h.Write([]byte(sourceID))
	h.Write([]byte{0})
	h.Write([]byte(question))
	h.Write([]byte{0})
	h.Write([]byte(answer))
	return fmt.Sprintf("%x", h.Sum(nil))[:12]
}

// CorpusSummary holds counts from a corpus synthesis run.
type CorpusSummary struct {
	Texts   int
	Skipped int
	Failed  int
	Pairs   int
}

// Corpus synthesizes every source text on a bounded worker pool and
// returns all pairs concatenated in input order. Blank texts are skipped;
// a text whose language is unknown is logged and skipped. Per-text
// progress lines are written to w. ErrNoPairs is returned when nothing
// was produced.
func (s *Synthesizer) Corpus(ctx context.Context, texts []types.SourceText, w io.Writer) ([]types.QAPair, CorpusSummary, error) {
	results := make([][]types.QAPair, len(texts))
	errs := make([]error, len(texts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, src := range texts {
		if strings.TrimSpace(src.Text) == "" {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i], errs[i] = s.Text(src)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, CorpusSummary{}, err
	}

	var (
		summary CorpusSummary
		all     []types.QAPair
	)
	for i, src := range texts {
		switch {
		case strings.TrimSpace(src.Text) == "":
			summary.Skipped++
		case errs[i] != nil:
			s.logger.Warn("skipping text",
				zap.String("source", src.ID),
				zap.String("snippet", logging.Snippet(src.Text, 60)),
				zap.Error(errs[i]),
			)
			fmt.Fprintf(w, "failed  %s: %v\n", src.ID, errs[i])
			summary.Failed++
		default:
			fmt.Fprintf(w, "synthesized %s (%d pairs)\n", src.ID, len(results[i]))
			summary.Texts++
			all = append(all, results[i]...)
		}
	}
	summary.Pairs = len(all)

	fmt.Fprintf(w, "\ntexts: %d, skipped: %d, failed: %d, pairs: %d\n",
		summary.Texts, summary.Skipped, summary.Failed, summary.Pairs)

	if len(all) == 0 {
		return nil, summary, ErrNoPairs
	}
	return all, summary, nil
}
