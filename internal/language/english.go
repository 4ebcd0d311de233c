// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package language

import (
	"unicode"

	xlanguage "golang.org/x/text/language"

	"github.com/pdiddy/tourism-qa/pkg/types"
)

// englishRules are tried in this order on every sentence. Specific verbs
// ("known for", "famous for", numeric "has") precede the bare "is" and
// "has" rules so that, when both produce the same answer, the more specific
// question is the one kept by answer deduplication.
var englishRules = []Rule{
	newRule("located",
		`(.*?) is located (.*?)\.?$`,
		format("Where is %s located?", 1),
		format("%s is located %s", 1, 2)),
	newRule("known-for",
		`(.*?) is known for (.*?)\.?$`,
		format("What is %s known for?", 1),
		format("%s is known for %s", 1, 2)),
	newRule("famous-for",
		`(.*?) is famous for (.*?)\.?$`,
		format("What is %s famous for?", 1),
		format("%s is famous for %s", 1, 2)),
	newRule("number",
		`(.*?) has (\d+.*?)\.?$`,
		format("How many %s does %s have?", 2, 1),
		format("%s has %s", 1, 2)),
	newRule("is-a",
		`(.*?) is (a|an) (.*?)\.?$`,
		format("What is %s?", 1),
		format("%s is %s %s", 1, 2, 3)),
	newRule("is",
		`(.*?) is (.*?)\.?$`,
		format("What is %s?", 1),
		format("%s is %s", 1, 2)),
	newRule("has",
		`(.*?) (has|contains|includes) (.*?)\.?$`,
		format("What does %s have?", 1),
		format("%s %s %s", 1, 2, 3)),
}

var englishInvalidStarts = []string{"and", "or", "but", "however", "while", "although"}

var englishInterrogatives = []string{"what", "where", "when", "who", "how", "why"}

// englishStopwords is the standard English stopword list used for key word
// selection during span localization.
var englishStopwords = []string{
	"i", "me", "my", "myself", "we", "our", "ours", "ourselves", "you", "you're",
	"you've", "you'll", "you'd", "your", "yours", "yourself", "yourselves", "he",
	"him", "his", "himself", "she", "she's", "her", "hers", "herself", "it", "it's",
	"its", "itself", "they", "them", "their", "theirs", "themselves", "what",
	"which", "who", "whom", "this", "that", "that'll", "these", "those", "am",
	"is", "are", "was", "were", "be", "been", "being", "have", "has", "had",
	"having", "do", "does", "did", "doing", "a", "an", "the", "and", "but", "if",
	"or", "because", "as", "until", "while", "of", "at", "by", "for", "with",
	"about", "against", "between", "into", "through", "during", "before",
	"after", "above", "below", "to", "from", "up", "down", "in", "out", "on",
	"off", "over", "under", "again", "further", "then", "once", "here", "there",
	"when", "where", "why", "how", "all", "any", "both", "each", "few", "more",
	"most", "other", "some", "such", "no", "nor", "not", "only", "own", "same",
	"so", "than", "too", "very", "s", "t", "can", "will", "just", "don", "don't",
	"should", "should've", "now", "d", "ll", "m", "o", "re", "ve", "y", "ain",
	"aren", "aren't", "couldn", "couldn't", "didn", "didn't", "doesn", "doesn't",
	"hadn", "hadn't", "hasn", "hasn't", "haven", "haven't", "isn", "isn't", "ma",
	"mightn", "mightn't", "mustn", "mustn't", "needn", "needn't", "shan",
	"shan't", "shouldn", "shouldn't", "wasn", "wasn't", "weren", "weren't",
	"won", "won't", "wouldn", "wouldn't",
}

func english() *profile {
	p := newProfile(types.LanguageEnglish, xlanguage.English)
	p.seg = &segmenter{
		protections: []protection{
			titleProtection("Dr", "Mr", "Mrs", "Ms", "St", "Prof", "Mt", "Jr", "Sr"),
			anyProtection(`e\.g`, `i\.e`, "approx", "vs"),
			decimalProtection(),
		},
		startsSentence: func(r rune) bool {
			return unicode.IsUpper(r) || unicode.IsDigit(r) || isOpener(r)
		},
		minWords: 3,
	}
	p.rules = englishRules
	p.stopwords = wordSet(englishStopwords...)
	p.validator = &Validator{
		MinWords:       DefaultMinAnswerWords,
		MaxWords:       DefaultMaxAnswerWords,
		invalidStarts:  wordSet(englishInvalidStarts...),
		interrogatives: englishInterrogatives,
		lower:          p.Lower,
	}
	return p
}
