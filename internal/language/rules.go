// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package language

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrEmptyGroup is returned by a template when a capture group it needs is blank.
var ErrEmptyGroup = errors.New("empty capture group")

// Template formats a question or answer from the capture groups of one
// match. groups[0] is the whole match, as returned by FindAllStringSubmatch.
type Template func(groups []string) (string, error)

// Rule is one immutable pattern rule: a case-insensitive pattern plus the
// templates that turn each match into a question and an answer.
type Rule struct {
	Name     string
	Pattern  *regexp.Regexp
	Question Template
	Answer   Template
}

// newRule compiles pattern case-insensitively. It panics on a bad pattern,
// which only happens when a rule table is edited incorrectly.
func newRule(name, pattern string, question, answer Template) Rule {
	return Rule{
		Name:     name,
		Pattern:  regexp.MustCompile(`(?i)` + pattern),
		Question: question,
		Answer:   answer,
	}
}

// format builds a Template that substitutes the listed capture groups, in
// order, into layout. Every referenced group must be non-blank after
// trimming. Numerals pass through untouched.
func format(layout string, idx ...int) Template {
	return func(groups []string) (string, error) {
		args := make([]any, len(idx))
		for i, g := range idx {
			if g >= len(groups) {
				return "", fmt.Errorf("group %d of %d: %w", g, len(groups)-1, ErrEmptyGroup)
			}
			v := strings.TrimSpace(groups[g])
			if v == "" {
				return "", fmt.Errorf("group %d: %w", g, ErrEmptyGroup)
			}
			args[i] = v
		}
		return fmt.Sprintf(layout, args...), nil
	}
}

// build runs a template and turns a panic into an error so one bad match
// never aborts extraction for the rest of the sentence.
func build(t Template, groups []string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("template panic: %v", r)
		}
	}()
	return t(groups)
}
