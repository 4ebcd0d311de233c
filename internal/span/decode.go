// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package span

import (
	"container/heap"
	"math"
	"sort"
	"strings"

	"github.com/pdiddy/tourism-qa/pkg/types"
)

// Defaults applied when DecodeConfig fields are zero.
const (
	DefaultTopK            = 20
	DefaultMaxAnswerLength = 50
)

// DefaultInterrogatives are the question words a decoded answer may not
// start with.
var DefaultInterrogatives = []string{"what", "where", "when", "who", "how", "why"}

// Decoded is the best span chosen from model scores.
type Decoded struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
	Start int     `json:"start"`
	End   int     `json:"end"`
}

// Decoder picks the best answer span from per-token start and end scores.
type Decoder struct {
	topK           int
	maxAnswerLen   int
	interrogatives []string
}

// NewDecoder returns a Decoder. A nil interrogatives list uses
// DefaultInterrogatives.
func NewDecoder(cfg types.DecodeConfig, interrogatives []string) *Decoder {
	d := &Decoder{
		topK:           cfg.TopK,
		maxAnswerLen:   cfg.MaxAnswerLength,
		interrogatives: interrogatives,
	}
	if d.topK <= 0 {
		d.topK = DefaultTopK
	}
	if d.maxAnswerLen <= 0 {
		d.maxAnswerLen = DefaultMaxAnswerLength
	}
	if d.interrogatives == nil {
		d.interrogatives = DefaultInterrogatives
	}
	return d
}

// Decode enumerates every pair of the top-K start and top-K end positions
// with start <= end, at most maxAnswerLen tokens, and start != 0 (the
// leading anchor token). The pair score is startScores[s]+endScores[e].
// text renders tokens [s, e] inclusive. The highest-scoring pair whose text
// has at least two words, does not start with "?", and does not start with
// an interrogative word is returned; ok is false when none qualifies.
func (d *Decoder) Decode(startScores, endScores []float64, text func(start, end int) string) (Decoded, bool) {
	starts := TopK(startScores, d.topK)
	ends := TopK(endScores, d.topK)

	best := Decoded{Score: math.Inf(-1)}
	found := false

	for _, s := range starts {
		for _, e := range ends {
			if s > e || e-s+1 > d.maxAnswerLen || s == 0 {
				continue
			}
			score := startScores[s] + endScores[e]
			if score <= best.Score {
				continue
			}
			answer := strings.TrimSpace(text(s, e))
			if !d.acceptable(answer) {
				continue
			}
			best = Decoded{Text: answer, Score: score, Start: s, End: e}
			found = true
		}
	}

	if !found {
		return Decoded{}, false
	}
	return best, true
}

func (d *Decoder) acceptable(answer string) bool {
	if len(strings.Fields(answer)) < 2 {
		return false
	}
	if strings.HasPrefix(answer, "?") {
		return false
	}
	lower := strings.ToLower(answer)
	for _, w := range d.interrogatives {
		if strings.HasPrefix(lower, w) {
			return false
		}
	}
	return true
}

// TopK returns the indices of the k largest scores, highest first. Equal
// scores keep index order. A bounded min-heap keeps the cost at
// O(n log k) for long sequences.
func TopK(scores []float64, k int) []int {
	if k <= 0 || len(scores) == 0 {
		return nil
	}

	h := &minHeap{scores: scores}
	for i := range scores {
		if h.Len() < k {
			heap.Push(h, i)
			continue
		}
		if h.less(h.idx[0], i) {
			h.idx[0] = i
			heap.Fix(h, 0)
		}
	}

	out := append([]int(nil), h.idx...)
	sort.Slice(out, func(a, b int) bool {
		if scores[out[a]] != scores[out[b]] {
			return scores[out[a]] > scores[out[b]]
		}
		return out[a] < out[b]
	})
	return out
}

// minHeap orders indices by ascending score; among equal scores the larger
// index sits nearer the root so it is evicted first.
type minHeap struct {
	scores []float64
	idx    []int
}

func (h *minHeap) less(a, b int) bool {
	if h.scores[a] != h.scores[b] {
		return h.scores[a] < h.scores[b]
	}
	return a > b
}

func (h *minHeap) Len() int           { return len(h.idx) }
func (h *minHeap) Less(i, j int) bool { return h.less(h.idx[i], h.idx[j]) }
func (h *minHeap) Swap(i, j int)      { h.idx[i], h.idx[j] = h.idx[j], h.idx[i] }
func (h *minHeap) Push(x any)         { h.idx = append(h.idx, x.(int)) }
func (h *minHeap) Pop() any {
	n := len(h.idx)
	v := h.idx[n-1]
	h.idx = h.idx[:n-1]
	return v
}
