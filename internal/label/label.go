// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package label turns QA pairs into token-labeled training examples: it
// localizes each answer in its context, encodes the question/context pair,
// and maps the character span onto token indices of every encoded window.
package label

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/tourism-qa/internal/language"
	"github.com/pdiddy/tourism-qa/internal/logging"
	"github.com/pdiddy/tourism-qa/internal/span"
	"github.com/pdiddy/tourism-qa/internal/synth"
	"github.com/pdiddy/tourism-qa/internal/tokenize"
	"github.com/pdiddy/tourism-qa/pkg/types"
)

// Labeler builds examples. It is safe for concurrent use.
type Labeler struct {
	tok          tokenize.OffsetTokenizer
	localizers   map[types.Language]*span.Localizer
	defaultLang  types.Language
	dropNotFound bool
	workers      int
	logger       *zap.Logger
}

// New returns a Labeler with one localizer per supported language. Pairs
// without a language use defaultLang.
func New(tok tokenize.OffsetTokenizer, cfg types.LabelConfig, defaultLang types.Language, logger *zap.Logger) (*Labeler, error) {
	if defaultLang == "" {
		defaultLang = types.LanguageEnglish
	}
	l := &Labeler{
		tok:          tok,
		localizers:   make(map[types.Language]*span.Localizer),
		defaultLang:  defaultLang,
		dropNotFound: cfg.DropNotFound,
		workers:      cfg.Workers,
		logger:       logging.OrNop(logger),
	}
	if l.workers <= 0 {
		l.workers = runtime.GOMAXPROCS(0)
	}

	for _, lang := range language.Supported() {
		p, err := language.New(lang, language.WithLogger(l.logger))
		if err != nil {
			return nil, err
		}
		l.localizers[lang] = span.NewLocalizer(p, cfg.Localization)
	}
	if _, ok := l.localizers[defaultLang]; !ok {
		return nil, fmt.Errorf("%w: %q", language.ErrUnknownLanguage, defaultLang)
	}
	return l, nil
}

func (l *Labeler) localizer(lang types.Language) (*span.Localizer, error) {
	if lang == "" {
		lang = l.defaultLang
	}
	loc, ok := l.localizers[lang]
	if !ok {
		return nil, fmt.Errorf("%w: %q", language.ErrUnknownLanguage, lang)
	}
	return loc, nil
}

// Pair labels one QA pair and returns one example per encoded window. The
// example context is the normalized context that both the character span
// and the token offsets index into. Windows that do not fully contain the
// answer, and every window of an answer that was not found, carry the
// (0,0) unanswerable label.
func (l *Labeler) Pair(p types.QAPair) ([]types.Example, error) {
	loc, err := l.localizer(p.Language)
	if err != nil {
		return nil, err
	}

	text := loc.Normalize(p.Context)
	cs := loc.Locate(p.Context, p.Answer)

	encs, err := l.tok.EncodePair(span.Clean(p.Question), text)
	if err != nil {
		return nil, fmt.Errorf("encoding: %w", err)
	}

	id := p.ID
	if id == "" {
		id = synth.StableID(p.SourceID, p.Question, p.Answer)
	}

	examples := make([]types.Example, 0, len(encs))
	for _, enc := range encs {
		ex := types.Example{
			ID:       id,
			Question: p.Question,
			Context:  text,
			Answer:   p.Answer,
			CharSpan: cs,
			Labels:   windowLabels(enc.Offsets, cs),
			InputIDs: enc.IDs,
			Tokens:   enc.Tokens,
			Window:   enc.Window,
		}
		if enc.Window > 0 {
			ex.ID = fmt.Sprintf("%s-w%d", id, enc.Window)
		}
		examples = append(examples, ex)
	}
	return examples, nil
}

// windowLabels maps cs onto one window. Index 0 is always the leading
// anchor token, so a zero on either side means the answer is not wholly
// inside this window.
func windowLabels(offsets []types.Offset, cs types.CharSpan) types.TokenSpan {
	ts := span.ToTokens(offsets, cs)
	if ts.Start == 0 || ts.End == 0 || ts.End < ts.Start {
		return types.TokenSpan{}
	}
	return ts
}

// Summary holds counts from a labeling run.
type Summary struct {
	Pairs        int
	Found        int
	NotFound     int
	Dropped      int
	Failed       int
	Examples     int
	Unanswerable int
}

// FoundRate returns the share of labeled pairs whose answer was localized.
func (s Summary) FoundRate() float64 {
	n := s.Found + s.NotFound
	if n == 0 {
		return 0
	}
	return float64(s.Found) / float64(n)
}

// HasFailures reports whether any pair failed to encode.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// Run labels pairs on a bounded worker pool and returns examples in input
// order. Pairs that fail to encode are logged and counted; not-found
// answers are dropped when the Labeler was configured to.
func (l *Labeler) Run(ctx context.Context, pairs []types.QAPair, w io.Writer) ([]types.Example, Summary, error) {
	results := make([][]types.Example, len(pairs))
	errs := make([]error, len(pairs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)
	for i, p := range pairs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i], errs[i] = l.Pair(p)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, Summary{}, err
	}

	summary := Summary{Pairs: len(pairs)}
	var all []types.Example
	for i, p := range pairs {
		if errs[i] != nil {
			l.logger.Warn("skipping pair",
				zap.String("id", p.ID),
				zap.String("question", logging.Snippet(p.Question, 60)),
				zap.Error(errs[i]),
			)
			fmt.Fprintf(w, "failed  %s: %v\n", p.ID, errs[i])
			summary.Failed++
			continue
		}

		exs := results[i]
		if len(exs) > 0 && !exs[0].CharSpan.Found {
			summary.NotFound++
			l.logger.Debug("answer not localized",
				zap.String("id", p.ID),
				zap.String("answer", logging.Snippet(p.Answer, 60)),
			)
			if l.dropNotFound {
				summary.Dropped++
				continue
			}
		} else {
			summary.Found++
		}

		for _, ex := range exs {
			if ex.Labels.Unanswerable() {
				summary.Unanswerable++
			}
		}
		all = append(all, exs...)
	}
	summary.Examples = len(all)

	fmt.Fprintf(w, "pairs: %d, found: %d, not found: %d, dropped: %d, failed: %d, examples: %d\n",
		summary.Pairs, summary.Found, summary.NotFound, summary.Dropped, summary.Failed, summary.Examples)
	return all, summary, nil
}
