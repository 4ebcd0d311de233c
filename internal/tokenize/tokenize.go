// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tokenize encodes question/context pairs into token windows with a
// per-token character offset mapping. It is the contract between the span
// localizer, which works in characters, and the trainer, which works in
// token indices.
package tokenize

import (
	"errors"
	"fmt"
	"hash/fnv"
	"strings"
	"unicode"

	"github.com/pdiddy/tourism-qa/pkg/types"
)

// Special tokens and the ids they take when no vocabulary is loaded.
const (
	PadToken = "[PAD]"
	UnkToken = "[UNK]"
	ClsToken = "[CLS]"
	SepToken = "[SEP]"

	padID = 0
	unkID = 100
	clsID = 101
	sepID = 102

	// hashedVocabSize bounds ids produced without a vocabulary.
	hashedVocabSize = 30522
	firstHashedID   = 1000

	continuationPrefix = "##"
	maxRunesPerWord    = 100
)

// Defaults applied when TokenizerConfig fields are zero.
const (
	DefaultMaxLength = 384
	DefaultStride    = 128
)

var (
	// ErrQuestionTooLong is returned when the question and special tokens
	// leave no room for context in a window.
	ErrQuestionTooLong = errors.New("question leaves no room for context")

	// ErrStride is returned when the stride is not smaller than the
	// context budget of a window.
	ErrStride = errors.New("stride must be smaller than the context budget")
)

// Encoding is one encoded window: [CLS] question [SEP] context-slice [SEP].
// Offsets index into the context string; question and special tokens carry
// types.NoOffset.
type Encoding struct {
	Tokens  []string       `json:"tokens"`
	IDs     []int          `json:"input_ids"`
	Offsets []types.Offset `json:"offsets"`
	Window  int            `json:"window"`
}

// OffsetTokenizer encodes a question/context pair. Only the context is
// truncated; a context longer than one window overflows into additional
// windows that overlap by the stride.
type OffsetTokenizer interface {
	EncodePair(question, context string) ([]Encoding, error)
	Detokenize(tokens []string) string
}

// piece is a token with its byte range in the source string.
type piece struct {
	text       string
	start, end int
}

// WordPiece is a BERT-style tokenizer: basic splitting on whitespace and
// punctuation, lower-casing, then greedy longest-match subword lookup. With
// no vocabulary every basic token is kept whole and gets a hashed id.
type WordPiece struct {
	vocab     map[string]int
	maxLength int
	stride    int
}

// New returns a WordPiece tokenizer. vocab may be nil.
func New(vocab map[string]int, cfg types.TokenizerConfig) *WordPiece {
	w := &WordPiece{
		vocab:     vocab,
		maxLength: cfg.MaxLength,
		stride:    cfg.Stride,
	}
	if w.maxLength <= 0 {
		w.maxLength = DefaultMaxLength
	}
	if w.stride <= 0 {
		w.stride = DefaultStride
	}
	return w
}

// FromConfig loads the vocabulary named by cfg, if any, and returns the
// tokenizer.
func FromConfig(cfg types.TokenizerConfig) (*WordPiece, error) {
	if cfg.VocabPath == "" {
		return New(nil, cfg), nil
	}
	vocab, err := LoadVocab(cfg.VocabPath)
	if err != nil {
		return nil, err
	}
	return New(vocab, cfg), nil
}

// Tokenize splits text into tokens with byte offsets into text.
func (w *WordPiece) Tokenize(text string) ([]string, []types.Offset) {
	var (
		toks []string
		offs []types.Offset
	)
	for _, p := range basic(text) {
		for _, sub := range w.subwords(p) {
			toks = append(toks, sub.text)
			offs = append(offs, types.Offset{Start: sub.start, End: sub.end})
		}
	}
	return toks, offs
}

// EncodePair encodes question and context into one or more windows of at
// most maxLength tokens.
func (w *WordPiece) EncodePair(question, context string) ([]Encoding, error) {
	qToks, _ := w.Tokenize(question)
	cToks, cOffs := w.Tokenize(context)

	budget := w.maxLength - len(qToks) - 3
	if budget <= 0 {
		return nil, fmt.Errorf("%w: %d question tokens, max length %d",
			ErrQuestionTooLong, len(qToks), w.maxLength)
	}

	stride := w.stride
	if len(cToks) <= budget {
		stride = 0
	} else if stride >= budget {
		return nil, fmt.Errorf("%w: stride %d, budget %d", ErrStride, stride, budget)
	}

	var out []Encoding
	for start := 0; ; start += budget - stride {
		end := min(start+budget, len(cToks))
		out = append(out, w.window(qToks, cToks[start:end], cOffs[start:end], len(out)))
		if end >= len(cToks) {
			break
		}
	}
	return out, nil
}

func (w *WordPiece) window(q, ctx []string, offs []types.Offset, idx int) Encoding {
	n := len(q) + len(ctx) + 3
	enc := Encoding{
		Tokens:  make([]string, 0, n),
		IDs:     make([]int, 0, n),
		Offsets: make([]types.Offset, 0, n),
		Window:  idx,
	}
	add := func(tok string, off types.Offset) {
		enc.Tokens = append(enc.Tokens, tok)
		enc.IDs = append(enc.IDs, w.id(tok))
		enc.Offsets = append(enc.Offsets, off)
	}

	add(ClsToken, types.NoOffset)
	for _, t := range q {
		add(t, types.NoOffset)
	}
	add(SepToken, types.NoOffset)
	for i, t := range ctx {
		add(t, offs[i])
	}
	add(SepToken, types.NoOffset)
	return enc
}

// Detokenize joins tokens back into text, merging subword continuations
// and dropping special tokens.
func (w *WordPiece) Detokenize(tokens []string) string {
	var b strings.Builder
	for _, t := range tokens {
		if isSpecial(t) {
			continue
		}
		if rest, ok := strings.CutPrefix(t, continuationPrefix); ok && b.Len() > 0 {
			b.WriteString(rest)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(t)
	}
	return b.String()
}

func isSpecial(t string) bool {
	switch t {
	case PadToken, ClsToken, SepToken:
		return true
	}
	return false
}

func (w *WordPiece) id(tok string) int {
	if w.vocab != nil {
		if id, ok := w.vocab[tok]; ok {
			return id
		}
		return w.vocab[UnkToken]
	}
	switch tok {
	case PadToken:
		return padID
	case UnkToken:
		return unkID
	case ClsToken:
		return clsID
	case SepToken:
		return sepID
	}
	h := fnv.New32a()
	h.Write([]byte(tok))
	return firstHashedID + int(h.Sum32()%uint32(hashedVocabSize-firstHashedID))
}

// basic splits text on whitespace and punctuation and lower-cases each
// piece. Offsets refer to the original bytes.
func basic(text string) []piece {
	var out []piece
	start := -1
	flush := func(end int) {
		if start >= 0 {
			out = append(out, piece{text: strings.ToLower(text[start:end]), start: start, end: end})
			start = -1
		}
	}
	for i, r := range text {
		switch {
		case unicode.IsSpace(r):
			flush(i)
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			flush(i)
			end := i + len(string(r))
			out = append(out, piece{text: text[i:end], start: i, end: end})
		default:
			if start < 0 {
				start = i
			}
		}
	}
	flush(len(text))
	return out
}

// subwords applies greedy longest-match-first lookup to one basic piece.
func (w *WordPiece) subwords(p piece) []piece {
	if w.vocab == nil {
		return []piece{p}
	}
	if len([]rune(p.text)) > maxRunesPerWord {
		return []piece{{text: UnkToken, start: p.start, end: p.end}}
	}

	var out []piece
	for start := 0; start < len(p.text); {
		end := len(p.text)
		var match string
		for end > start {
			cand := p.text[start:end]
			if start > 0 {
				cand = continuationPrefix + cand
			}
			if _, ok := w.vocab[cand]; ok {
				match = cand
				break
			}
			end = prevBoundary(p.text, end)
		}
		if match == "" {
			return []piece{{text: UnkToken, start: p.start, end: p.end}}
		}
		out = append(out, piece{text: match, start: p.start + start, end: p.start + end})
		start = end
	}
	return out
}

// prevBoundary returns the byte index of the rune boundary before end.
func prevBoundary(s string, end int) int {
	end--
	for end > 0 && !isRuneStart(s[end]) {
		end--
	}
	return end
}

func isRuneStart(b byte) bool { return b&0xC0 != 0x80 }
