// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package language

import (
	"strings"
)

// Default answer length bounds, in words, shared by both languages.
const (
	DefaultMinAnswerWords = 3
	DefaultMaxAnswerWords = 50
)

// answerTrimChars are stripped from both ends before counting words.
const answerTrimChars = ".,;: "

// Validator decides whether a raw answer is trainable. It is stateless once
// built and safe for concurrent use.
type Validator struct {
	MinWords int
	MaxWords int

	invalidStarts  map[string]struct{}
	interrogatives []string
	lower          func(string) string
}

// Validate reports whether answer passes every gate: word count within
// bounds, no invalid leading word, and no interrogative word anywhere as a
// substring.
func (v *Validator) Validate(answer string) bool {
	answer = strings.Trim(answer, answerTrimChars)

	words := strings.Fields(answer)
	if len(words) < v.MinWords || len(words) > v.MaxWords {
		return false
	}

	if _, bad := v.invalidStarts[v.lower(words[0])]; bad {
		return false
	}

	lowered := v.lower(answer)
	for _, q := range v.interrogatives {
		if strings.Contains(lowered, q) {
			return false
		}
	}
	return true
}

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
