// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package span

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/tourism-qa/pkg/types"
)

// Defaults applied when LocalizationConfig fields are zero.
const (
	DefaultMaxWindowWords  = 15
	DefaultMinKeywordRatio = 0.5

	// minKeywordRunes is exclusive: key words are longer than this.
	minKeywordRunes = 3
)

// Vocabulary supplies the language-specific pieces the localizer needs.
// language.Profile satisfies it.
type Vocabulary interface {
	IsStopword(word string) bool
	Lower(text string) string
}

// Localizer finds answer spans inside contexts. It holds no mutable state
// and is safe for concurrent use.
type Localizer struct {
	vocab           Vocabulary
	maxWindowWords  int
	minKeywordRatio float64
}

// NewLocalizer returns a Localizer using vocab for casing and stopwords.
func NewLocalizer(vocab Vocabulary, cfg types.LocalizationConfig) *Localizer {
	l := &Localizer{
		vocab:           vocab,
		maxWindowWords:  cfg.MaxWindowWords,
		minKeywordRatio: cfg.MinKeywordRatio,
	}
	if l.maxWindowWords <= 0 {
		l.maxWindowWords = DefaultMaxWindowWords
	}
	if l.minKeywordRatio <= 0 {
		l.minKeywordRatio = DefaultMinKeywordRatio
	}
	return l
}

// Normalize applies the localizer's normalization to text. Span offsets
// returned by Locate index into Normalize(context).
func (l *Localizer) Normalize(text string) string {
	return Normalize(text, l.vocab.Lower)
}

// Locate returns the span of answer inside the normalized context.
//
// An exact substring match always wins. Otherwise every window of up to
// maxWindowWords contiguous context words is scored as
// matches/sqrt(windowWords), where matches counts the answer's key words
// (longer than three runes, not stopwords) present in the window. Windows
// holding fewer than minKeywordRatio of the key words are ignored. The
// highest score wins; on equal scores the shorter window wins. When no
// window qualifies, or the answer has no key words, types.NotFound is
// returned.
func (l *Localizer) Locate(context, answer string) types.CharSpan {
	text := l.Normalize(context)
	ans := l.Normalize(answer)
	if ans == "" || text == "" {
		return types.NotFound
	}

	if start := strings.Index(text, ans); start >= 0 {
		return types.CharSpan{Start: start, End: start + len(ans), Found: true}
	}
	return l.window(text, ans)
}

// word is one context word with its byte range in the normalized context.
type word struct {
	text       string
	start, end int
}

func splitWords(s string) []word {
	var out []word
	pos := 0
	for _, f := range strings.Split(s, " ") {
		out = append(out, word{text: f, start: pos, end: pos + len(f)})
		pos += len(f) + 1
	}
	return out
}

func (l *Localizer) keywords(answer string) map[string]struct{} {
	kw := make(map[string]struct{})
	for _, w := range strings.Split(answer, " ") {
		if utf8.RuneCountInString(w) > minKeywordRunes && !l.vocab.IsStopword(w) {
			kw[w] = struct{}{}
		}
	}
	return kw
}

func (l *Localizer) window(text, ans string) types.CharSpan {
	kw := l.keywords(ans)
	if len(kw) == 0 {
		return types.NotFound
	}
	need := l.minKeywordRatio * float64(len(kw))

	words := splitWords(text)
	var (
		best      types.CharSpan
		bestScore float64
		bestLen   int
	)

	for i := range words {
		seen := make(map[string]struct{}, len(kw))
		matches := 0
		last := min(i+l.maxWindowWords, len(words))
		for j := i; j < last; j++ {
			w := words[j].text
			if _, isKey := kw[w]; isKey {
				if _, dup := seen[w]; !dup {
					seen[w] = struct{}{}
					matches++
				}
			}
			if float64(matches) < need || matches == 0 {
				continue
			}

			length := j - i + 1
			score := float64(matches) / math.Sqrt(float64(length))
			if !best.Found || score > bestScore || (score == bestScore && length < bestLen) {
				best = types.CharSpan{Start: words[i].start, End: words[j].end, Found: true}
				bestScore = score
				bestLen = length
			}
		}
	}

	if !best.Found {
		return types.NotFound
	}
	return best
}
