// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package language

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// periodMarker temporarily replaces periods that must not end a sentence.
const periodMarker = "<PCT>"

// protection rewrites one abbreviation or number pattern so its period is
// replaced by periodMarker before boundary detection.
type protection struct {
	pattern *regexp.Regexp
	replace string
}

// segmenter splits text into sentences for one language. Each language owns
// its protections and its rule for what may start a new sentence.
type segmenter struct {
	protections []protection

	// startsSentence reports whether r may begin a sentence after a
	// terminator and whitespace.
	startsSentence func(r rune) bool

	minWords int
}

// segment splits text into trimmed sentences of at least minWords words.
// Degenerate input yields an empty slice.
func (s *segmenter) segment(text string) []string {
	text = norm.NFC.String(text)
	if strings.TrimSpace(text) == "" {
		return []string{}
	}

	for _, p := range s.protections {
		text = p.pattern.ReplaceAllString(text, p.replace)
	}

	sentences := []string{}
	for _, raw := range s.split(text) {
		sent := strings.TrimSpace(strings.ReplaceAll(raw, periodMarker, "."))
		if len(strings.Fields(sent)) >= s.minWords {
			sentences = append(sentences, sent)
		}
	}
	return sentences
}

// split cuts text after runs of sentence terminators that are followed by
// optional closing quotes, whitespace, and a rune accepted by startsSentence.
func (s *segmenter) split(text string) []string {
	var out []string
	start := 0
	i := 0
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !isTerminator(r) {
			i += size
			continue
		}

		// Consume the terminator run and any closing quotes or brackets.
		end := i + size
		for end < len(text) {
			next, n := utf8.DecodeRuneInString(text[end:])
			if !isTerminator(next) && !isCloser(next) {
				break
			}
			end += n
		}

		// A boundary needs whitespace after the terminator run.
		ws := end
		for ws < len(text) {
			next, n := utf8.DecodeRuneInString(text[ws:])
			if !unicode.IsSpace(next) {
				break
			}
			ws += n
		}
		if ws == end && ws < len(text) {
			i = end
			continue
		}
		if ws >= len(text) {
			break
		}

		next, _ := utf8.DecodeRuneInString(text[ws:])
		if s.startsSentence(next) {
			out = append(out, text[start:end])
			start = ws
		}
		i = ws
	}
	if start < len(text) {
		out = append(out, text[start:])
	}
	return out
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?' || r == '…'
}

func isCloser(r rune) bool {
	switch r {
	case '"', '\'', ')', ']', '”', '’', '»':
		return true
	}
	return false
}

func isOpener(r rune) bool {
	switch r {
	case '"', '\'', '(', '“', '‘', '«', '„':
		return true
	}
	return false
}

// titleProtection protects the period after each abbreviation when a
// capitalized word follows, e.g. "Dr. Smith".
func titleProtection(abbrevs ...string) protection {
	return protection{
		pattern: regexp.MustCompile(`\b(` + strings.Join(abbrevs, "|") + `)\.(\s*)(\p{Lu})`),
		replace: "${1}" + periodMarker + "${2}${3}",
	}
}

// anyProtection protects the period after each abbreviation regardless of
// what follows. Matching is case-insensitive.
func anyProtection(abbrevs ...string) protection {
	return protection{
		pattern: regexp.MustCompile(`(?i)\b(` + strings.Join(abbrevs, "|") + `)\.`),
		replace: "${1}" + periodMarker,
	}
}

// decimalProtection protects the period inside numbers such as "3.5".
func decimalProtection() protection {
	return protection{
		pattern: regexp.MustCompile(`(\d)\.(\d)`),
		replace: "${1}" + periodMarker + "${2}",
	}
}
