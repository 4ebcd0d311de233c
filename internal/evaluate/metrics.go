// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package evaluate

import (
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Metrics holds the per-answer scores, or their means in a report.
type Metrics struct {
	ExactMatch       float64 `json:"exact_match" yaml:"exact_match"`
	F1               float64 `json:"f1" yaml:"f1"`
	BLEU             float64 `json:"bleu" yaml:"bleu"`
	TourismRelevance float64 `json:"tourism_relevance" yaml:"tourism_relevance"`
	FactualAccuracy  float64 `json:"factual_accuracy" yaml:"factual_accuracy"`
}

// MetricNames lists the metrics in report order.
var MetricNames = []string{"exact_match", "f1", "bleu", "tourism_relevance", "factual_accuracy"}

// Values returns the metrics in MetricNames order.
func (m Metrics) Values() []float64 {
	return []float64{m.ExactMatch, m.F1, m.BLEU, m.TourismRelevance, m.FactualAccuracy}
}

func (m *Metrics) add(o Metrics) {
	m.ExactMatch += o.ExactMatch
	m.F1 += o.F1
	m.BLEU += o.BLEU
	m.TourismRelevance += o.TourismRelevance
	m.FactualAccuracy += o.FactualAccuracy
}

func (m Metrics) scale(f float64) Metrics {
	return Metrics{
		ExactMatch:       m.ExactMatch * f,
		F1:               m.F1 * f,
		BLEU:             m.BLEU * f,
		TourismRelevance: m.TourismRelevance * f,
		FactualAccuracy:  m.FactualAccuracy * f,
	}
}

// TourismKeywords is the vocabulary used for tourism relevance.
var TourismKeywords = []string{
	"hotel", "restaurant", "museum", "beach", "landmark", "attraction", "tour",
	"excursion", "accommodation", "transport", "city", "island", "park", "lake",
	"sea", "mountain", "church", "cathedral", "palace", "fortress", "castle",
	"festival", "culture", "history", "architecture", "tourists", "visitors",
	"national", "monument", "gallery", "square", "street", "promenade",
	"nature", "heritage", "tradition", "food", "wine", "lodging", "guide",
	"sightseeing", "view", "historic", "ancient", "medieval", "modern",
	"experience", "destination", "travel", "vacation", "holiday", "scenic",
	"unesco", "site", "traditional", "local", "authentic",
}

// bleuWeights are the n-gram weights; unigram and bigram precision only.
var bleuWeights = []float64{0.5, 0.5}

var (
	numberRe = regexp.MustCompile(`\d+(?:,\d+)*(?:\.\d+)?`)
	entityRe = regexp.MustCompile(`\p{Lu}\p{Ll}+`)
)

// Stopwords reports whether a lower-cased word is a stopword.
// language.Profile satisfies it.
type Stopwords interface {
	IsStopword(word string) bool
}

// Scorer computes answer metrics. It is safe for concurrent use.
type Scorer struct {
	stop     Stopwords
	keywords map[string]struct{}
}

// NewScorer returns a Scorer that drops stop's stopwords during
// normalization. A nil stop keeps every word.
func NewScorer(stop Stopwords) *Scorer {
	kw := make(map[string]struct{}, len(TourismKeywords))
	for _, w := range TourismKeywords {
		kw[w] = struct{}{}
	}
	return &Scorer{stop: stop, keywords: kw}
}

// Normalize lower-cases text, removes ASCII punctuation, collapses
// whitespace, and drops stopwords.
func (s *Scorer) Normalize(text string) string {
	text = strings.Map(func(r rune) rune {
		if r < utf8.RuneSelf && (unicode.IsPunct(r) || unicode.IsSymbol(r)) {
			return -1
		}
		return r
	}, strings.ToLower(text))

	words := strings.Fields(text)
	kept := words[:0]
	for _, w := range words {
		if s.stop != nil && s.stop.IsStopword(w) {
			continue
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}

// Score compares a prediction with its reference.
func (s *Scorer) Score(prediction, reference string) Metrics {
	pred := s.Normalize(prediction)
	ref := s.Normalize(reference)
	predToks := strings.Fields(pred)
	refToks := strings.Fields(ref)

	m := Metrics{
		F1:               setF1(predToks, refToks),
		BLEU:             BLEU(refToks, predToks),
		TourismRelevance: s.TourismRelevance(prediction, reference),
		FactualAccuracy:  FactualAccuracy(prediction, reference),
	}
	if pred == ref {
		m.ExactMatch = 1
	}
	return m
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

func overlap(a, b map[string]struct{}) int {
	n := 0
	for w := range a {
		if _, ok := b[w]; ok {
			n++
		}
	}
	return n
}

// setF1 is the harmonic mean of precision and recall over unique tokens.
func setF1(pred, ref []string) float64 {
	ps, rs := toSet(pred), toSet(ref)
	if len(ps) == 0 || len(rs) == 0 {
		return 0
	}
	common := overlap(ps, rs)
	if common == 0 {
		return 0
	}
	precision := float64(common) / float64(len(ps))
	recall := float64(common) / float64(len(rs))
	return 2 * precision * recall / (precision + recall)
}

// BLEU is sentence BLEU with unigram and bigram weights of 0.5 each,
// clipped n-gram counts, and the standard brevity penalty. A hypothesis
// with no matching unigram or bigram scores 0.
func BLEU(reference, hypothesis []string) float64 {
	if len(hypothesis) == 0 || len(reference) == 0 {
		return 0
	}

	logSum := 0.0
	for i, w := range bleuWeights {
		n := i + 1
		matched, total := clippedMatches(reference, hypothesis, n)
		if matched == 0 || total == 0 {
			return 0
		}
		logSum += w * math.Log(float64(matched)/float64(total))
	}

	bp := 1.0
	if c, r := len(hypothesis), len(reference); c < r {
		bp = math.Exp(1 - float64(r)/float64(c))
	}
	return bp * math.Exp(logSum)
}

func ngrams(words []string, n int) map[string]int {
	counts := make(map[string]int)
	for i := 0; i+n <= len(words); i++ {
		counts[strings.Join(words[i:i+n], "\x00")]++
	}
	return counts
}

func clippedMatches(reference, hypothesis []string, n int) (matched, total int) {
	ref := ngrams(reference, n)
	for g, c := range ngrams(hypothesis, n) {
		matched += min(c, ref[g])
		total += c
	}
	return matched, total
}

// TourismRelevance is the share of the reference's tourism keywords that
// the prediction also uses. With no keywords in the reference it is 1 when
// the prediction has none either, and 0 otherwise.
func (s *Scorer) TourismRelevance(prediction, reference string) float64 {
	pk := s.tourismWords(prediction)
	rk := s.tourismWords(reference)
	if len(rk) == 0 {
		if len(pk) == 0 {
			return 1
		}
		return 0
	}
	return float64(overlap(pk, rk)) / float64(len(rk))
}

func (s *Scorer) tourismWords(text string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(text)) {
		if _, ok := s.keywords[w]; ok {
			out[w] = struct{}{}
		}
	}
	return out
}

// FactualAccuracy averages how many of the reference's numbers and
// capitalized words appear in the prediction. Each part is 1 when the
// reference has none.
func FactualAccuracy(prediction, reference string) float64 {
	return (recallOf(numberRe, prediction, reference) + recallOf(entityRe, prediction, reference)) / 2
}

func recallOf(re *regexp.Regexp, prediction, reference string) float64 {
	ref := toSet(re.FindAllString(reference, -1))
	if len(ref) == 0 {
		return 1
	}
	pred := toSet(re.FindAllString(prediction, -1))
	return float64(overlap(pred, ref)) / float64(len(ref))
}

var (
	specialTokenRe = regexp.MustCompile(`<s>|</s>|\[CLS\]|\[SEP\]|\[PAD\]`)
	echoedQuestion = regexp.MustCompile(`^(?:What|Where|When|Who|How|Why).*\?`)
)

// CleanPrediction strips special tokens, a leading echoed question, extra
// whitespace, and surrounding quotes from a decoded answer.
func CleanPrediction(pred string) string {
	pred = specialTokenRe.ReplaceAllString(pred, "")
	pred = strings.TrimSpace(pred)
	pred = echoedQuestion.ReplaceAllString(pred, "")
	pred = strings.Join(strings.Fields(pred), " ")
	pred = strings.Trim(pred, `"'`)
	return strings.TrimSpace(pred)
}
