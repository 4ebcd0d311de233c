// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package language

import (
	"regexp"
	"strings"
	"unicode"

	xlanguage "golang.org/x/text/language"

	"github.com/pdiddy/tourism-qa/pkg/types"
)

// Croatian sentences routinely carry ordinal periods ("iz 13. stoljeća",
// "od 10. srpnja"), so every Croatian rule captures up to an optional
// final period instead of stopping at the first one.
var croatianRules = []Rule{
	newRule("located",
		`(.*?) (se nalazi|nalazi se) (.*?)\.?$`,
		format("Gdje se nalazi %s?", 1),
		format("%s %s %s", 1, 2, 3)),
	newRule("known-for",
		`(.*?)(,?) (poznat[aoie]?) (je|su) po (.*?)\.?$`,
		format("Po čemu %s %s %s?", 4, 1, 3),
		knownForAnswer),
	newRule("known-for-je",
		`(.*?) (je|su) (poznat[aoie]?) po (.*?)\.?$`,
		format("Po čemu %s %s %s?", 2, 1, 3),
		format("%s %s %s po %s", 1, 2, 3, 4)),
	newRule("consists-of",
		`(.*?) (sastoji se od|se sastoji od) (.*?)\.?$`,
		format("Od čega se sastoji %s?", 1),
		format("%s %s %s", 1, 2, 3)),
	newRule("number",
		`(.*?) (ima|broji) (\d.*?)\.?$`,
		format("Koliko %s %s %s?", 3, 2, 1),
		format("%s %s %s", 1, 2, 3)),
	newRule("is",
		`(.*?) (je|su) (.*?)\.?$`,
		format("Što %s %s?", 2, 1),
		format("%s %s %s", 1, 2, 3)),
	newRule("has",
		`(.*?) (ima|sadrži|uključuje|nudi) (.*?)\.?$`,
		format("Što %s %s?", 2, 1),
		format("%s %s %s", 1, 2, 3)),
}

// knownForAnswer rebuilds "Split, poznat je po ..." keeping the optional
// comma that separates an apposition from the adjective.
func knownForAnswer(groups []string) (string, error) {
	if len(groups) < 6 {
		return "", ErrEmptyGroup
	}
	subject := strings.TrimSpace(groups[1])
	object := strings.TrimSpace(groups[5])
	if subject == "" || object == "" {
		return "", ErrEmptyGroup
	}
	return subject + groups[2] + " " + groups[3] + " " + groups[4] + " po " + object, nil
}

var croatianInvalidStarts = []string{"i", "ili", "te", "a", "ali", "no", "dok"}

// "sto" and "kad" are left out: matched as substrings they reject ordinary
// words such as "mjesto" and "akademija".
var croatianInterrogatives = []string{"što", "gdje", "kada", "tko", "kako", "zašto", "koliko"}

var croatianStopwords = []string{
	"a", "ako", "ali", "bi", "bih", "bila", "bili", "bilo", "bio", "bismo",
	"biste", "biti", "da", "do", "dok", "duž", "gdje", "i", "ih", "ili", "iz",
	"ja", "je", "jedan", "jedna", "jedno", "jer", "jesam", "jesi", "jesmo",
	"jest", "jeste", "jesu", "jim", "joj", "još", "ju", "kada", "kako", "kao",
	"koja", "koje", "koji", "kojih", "kojima", "kojoj", "kroz", "li", "me",
	"mene", "meni", "mi", "mimo", "moj", "moja", "moje", "mu", "na", "nad",
	"nakon", "nam", "nama", "nas", "naš", "naša", "naše", "našeg", "ne", "nego",
	"neka", "neki", "nekog", "neku", "nema", "netko", "neće", "nešto", "ni",
	"nije", "nikoga", "nikoje", "nikoju", "nisam", "nisi", "nismo", "niste",
	"nisu", "njega", "njegov", "njegova", "njegovo", "njemu", "njezin",
	"njezina", "njezino", "njih", "njihov", "njihova", "njihovo", "njim",
	"njima", "njoj", "nju", "no", "o", "od", "odmah", "on", "ona", "oni", "ono",
	"ova", "ovaj", "ovdje", "ove", "ovo", "pa", "pak", "po", "pod", "pored",
	"prije", "s", "sa", "sam", "samo", "se", "sebe", "sebi", "si", "smo", "ste",
	"su", "sve", "svi", "svog", "svoj", "svoja", "svoje", "svojim", "svojoj",
	"svom", "ta", "tada", "taj", "tako", "te", "tebe", "tebi", "ti", "to", "toj",
	"tome", "tu", "tvoj", "tvoja", "tvoje", "u", "uz", "vam", "vama", "vas",
	"vaš", "vaša", "vaše", "već", "vi", "vrlo", "za", "zar", "će", "ćemo",
	"ćete", "ćeš", "ću", "što",
}

func croatian() *profile {
	p := newProfile(types.LanguageCroatian, xlanguage.Croatian)
	p.seg = &segmenter{
		protections: []protection{
			anyProtection("sv", "tzv", "npr", "br", "god", "st", "dr", "prof", "ul", "mr"),
			decimalProtection(),
			{
				pattern: regexp.MustCompile(`(\d)\.(\s+)(\p{Ll})`),
				replace: "${1}" + periodMarker + "${2}${3}",
			},
		},
		startsSentence: func(r rune) bool {
			return unicode.IsUpper(r) || isOpener(r)
		},
		minWords: 3,
	}
	p.rules = croatianRules
	p.stopwords = wordSet(croatianStopwords...)
	p.validator = &Validator{
		MinWords:       DefaultMinAnswerWords,
		MaxWords:       DefaultMaxAnswerWords,
		invalidStarts:  wordSet(croatianInvalidStarts...),
		interrogatives: croatianInterrogatives,
		lower:          p.Lower,
	}
	return p
}
