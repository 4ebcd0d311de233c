// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// CharSpan locates an answer inside a context string by byte offsets.
// Despite the start_char and end_char field names, offsets count UTF-8
// bytes, not runes.
// Start is inclusive, End is exclusive, and 0 <= Start <= End <= len(context).
//
// Found distinguishes a real location from a failed localization. A failed
// localization still carries the legacy coordinates (0,1) so consumers that
// only read offsets see the conventional sentinel, but callers should test
// Found instead of comparing coordinates.
type CharSpan struct {
	Start int  `json:"start_char" yaml:"start_char"`
	End   int  `json:"end_char" yaml:"end_char"`
	Found bool `json:"found" yaml:"found"`
}

// NotFound is the span returned when no acceptable location exists.
var NotFound = CharSpan{Start: 0, End: 1, Found: false}

// Len returns the span length in bytes.
func (s CharSpan) Len() int {
	return s.End - s.Start
}

// Offset is the character range one token covers, as produced by a tokenizer.
// Tokens that do not belong to the context carry NoOffset.
type Offset struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// NoOffset marks special tokens and question tokens so that no character
// position of the context maps onto them.
var NoOffset = Offset{Start: -1, End: -1}

// Contains reports whether pos falls within the token's inclusive range.
func (o Offset) Contains(pos int) bool {
	return o.Start <= pos && pos <= o.End
}

// TokenSpan holds inclusive start and end token indices used as training
// labels. The zero value (0,0) points at the leading anchor token and means
// the answer is not answerable within the encoded window.
type TokenSpan struct {
	Start int `json:"start_position" yaml:"start_position"`
	End   int `json:"end_position" yaml:"end_position"`
}

// Unanswerable reports whether the span is the (0,0) anchor.
func (s TokenSpan) Unanswerable() bool {
	return s.Start == 0 && s.End == 0
}

// Example is one labeled training example: an encoded question/context
// window with token-level answer labels.
type Example struct {
	ID       string    `json:"id"`
	Question string    `json:"question"`
	Context  string    `json:"context"`
	Answer   string    `json:"answer"`
	CharSpan CharSpan  `json:"char_span"`
	Labels   TokenSpan `json:"labels"`
	InputIDs []int     `json:"input_ids"`
	Tokens   []string  `json:"tokens"`
	// Window is the zero-based index of the overflow window the labels refer to.
	Window int `json:"window"`
}
