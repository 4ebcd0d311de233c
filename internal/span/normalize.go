// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package span grounds answers in their contexts. It locates the character
// span of an answer (exact match first, scored sliding window second),
// converts character spans to token labels through a tokenizer's offset
// mapping, and decodes the best span back out of model start/end scores.
package span

import "strings"

// artifactMarker is the subword continuation prefix some tokenizers leave
// in decoded text.
const artifactMarker = "##"

// Clean trims text, removes tokenizer artifact markers, and collapses every
// whitespace run to a single space. Case is preserved.
func Clean(text string) string {
	text = strings.ReplaceAll(text, artifactMarker, "")
	return strings.Join(strings.Fields(text), " ")
}

// Normalize lower-cases text with lower and then cleans it. Applying
// Normalize to its own output returns the output unchanged.
func Normalize(text string, lower func(string) string) string {
	if lower == nil {
		lower = strings.ToLower
	}
	return Clean(lower(text))
}
