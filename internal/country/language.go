package country

import (
	"strings"

	"golang.org/x/text/language"
)

// Language is one of the app's supported UI languages
type Language string

const (
	German  Language = "de"
	English Language = "en"
	Italian Language = "it"
	French  Language = "fr"
)

var supported = map[string]Language{
	"de": German,
	"en": English,
	"it": Italian,
	"fr": French,
}

// ParseLanguage accepts a language code or a full locale like fr-CH
func ParseLanguage(s string) (Language, bool) {
	base, _, _ := strings.Cut(strings.ReplaceAll(s, "_", "-"), "-")
	l, ok := supported[strings.ToLower(base)]
	return l, ok
}

// CurrentLanguage returns the first supported language in preferred order,
// German if none is supported.
func CurrentLanguage(preferred []string) Language {
	for _, p := range preferred {
		if l, ok := ParseLanguage(p); ok {
			return l
		}
	}
	return German
}

func (l Language) Tag() language.Tag {
	return language.Make(string(l))
}
