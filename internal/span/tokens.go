// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package span

import "github.com/pdiddy/tourism-qa/pkg/types"

// ToTokens converts a character span into inclusive token indices using a
// tokenizer offset mapping.
//
// Tokens are scanned in order. Every token whose range contains the span
// start records itself as the start token; the first token whose range
// contains the span end records the end token and stops the scan. Missing
// positions default to 0, so a span outside the encoded window, or a span
// that was never found, maps to the (0,0) anchor.
func ToTokens(offsets []types.Offset, cs types.CharSpan) types.TokenSpan {
	if !cs.Found {
		return types.TokenSpan{}
	}

	var ts types.TokenSpan
	for idx, off := range offsets {
		if off.Contains(cs.Start) {
			ts.Start = idx
		}
		if off.Contains(cs.End) {
			ts.End = idx
			break
		}
	}
	return ts
}
