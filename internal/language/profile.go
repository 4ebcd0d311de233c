// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package language holds the per-language rule sets that turn declarative
// guide text into question/answer candidates: a sentence segmenter, an
// ordered pattern rule table, and an answer validator.
//
// English and Croatian are independent profiles. Their grammars are kept as
// separate tables and never merged; a profile is selected by its
// types.Language tag. Profiles are read-only after construction and safe
// for concurrent use.
package language

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	xlanguage "golang.org/x/text/language"

	"github.com/pdiddy/tourism-qa/internal/logging"
	"github.com/pdiddy/tourism-qa/pkg/types"
)

// ErrUnknownLanguage is returned by New for an unsupported language tag.
var ErrUnknownLanguage = errors.New("unknown language")

// Candidate is an unvalidated question/answer produced by one rule match.
type Candidate struct {
	Question string
	Answer   string
	Rule     string
}

// Profile is the language-specific capability used by the synthesizer and
// the span localizer.
type Profile interface {
	// Language returns the profile's tag.
	Language() types.Language

	// Segment splits text into trimmed sentences of at least three words.
	Segment(text string) []string

	// Extract applies every rule to sentence, in table order, and returns
	// one candidate per successful match. Failing templates are logged and
	// skipped.
	Extract(sentence string) []Candidate

	// Validate reports whether an answer is trainable.
	Validate(answer string) bool

	// IsStopword reports whether a lower-cased word is a stopword.
	IsStopword(word string) bool

	// Lower lower-cases text using the language's casing rules.
	Lower(text string) string
}

// Option customizes a profile.
type Option func(*profile)

// WithLogger sets the logger used for template failures.
func WithLogger(l *zap.Logger) Option {
	return func(p *profile) { p.logger = logging.OrNop(l) }
}

// WithAnswerBounds overrides the accepted answer length in words. Zero
// values keep the defaults.
func WithAnswerBounds(min, max int) Option {
	return func(p *profile) {
		if min > 0 {
			p.validator.MinWords = min
		}
		if max > 0 {
			p.validator.MaxWords = max
		}
	}
}

// New returns the profile for lang.
func New(lang types.Language, opts ...Option) (Profile, error) {
	var p *profile
	switch lang {
	case types.LanguageEnglish:
		p = english()
	case types.LanguageCroatian:
		p = croatian()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, lang)
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Supported lists the language tags New accepts.
func Supported() []types.Language {
	return []types.Language{types.LanguageEnglish, types.LanguageCroatian}
}

// Interrogatives returns a copy of the question words for lang, or nil for
// an unsupported tag.
func Interrogatives(lang types.Language) []string {
	switch lang {
	case types.LanguageEnglish:
		return append([]string(nil), englishInterrogatives...)
	case types.LanguageCroatian:
		return append([]string(nil), croatianInterrogatives...)
	}
	return nil
}

// profile is the data-driven Profile implementation. Each language supplies
// its own segmenter, rules, word lists, and casing.
type profile struct {
	lang      types.Language
	seg       *segmenter
	rules     []Rule
	validator *Validator
	stopwords map[string]struct{}
	tag       xlanguage.Tag
	logger    *zap.Logger
}

func newProfile(lang types.Language, tag xlanguage.Tag) *profile {
	p := &profile{
		lang:   lang,
		tag:    tag,
		logger: zap.NewNop(),
	}
	return p
}

func (p *profile) Language() types.Language { return p.lang }

func (p *profile) Segment(text string) []string { return p.seg.segment(text) }

func (p *profile) Validate(answer string) bool { return p.validator.Validate(answer) }

func (p *profile) IsStopword(word string) bool {
	_, ok := p.stopwords[word]
	return ok
}

// Lower builds a caser per call; a cases.Caser must not be shared between
// goroutines.
func (p *profile) Lower(text string) string {
	return cases.Lower(p.tag).String(text)
}

// Rules returns the rule names in priority order.
func (p *profile) Rules() []string {
	names := make([]string, len(p.rules))
	for i, r := range p.rules {
		names[i] = r.Name
	}
	return names
}

func (p *profile) Extract(sentence string) []Candidate {
	var out []Candidate
	for _, rule := range p.rules {
		for _, groups := range rule.Pattern.FindAllStringSubmatch(sentence, -1) {
			q, err := build(rule.Question, groups)
			if err == nil {
				var a string
				a, err = build(rule.Answer, groups)
				if err == nil {
					out = append(out, Candidate{Question: q, Answer: a, Rule: rule.Name})
					continue
				}
			}
			p.logger.Warn("template failed",
				zap.String("language", string(p.lang)),
				zap.String("rule", rule.Name),
				zap.String("snippet", logging.Snippet(sentence, 80)),
				zap.Error(err),
			)
		}
	}
	return out
}
