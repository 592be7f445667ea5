// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package stemmer

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/kljensen/snowball/english"
	"github.com/kljensen/snowball/french"
	"github.com/kljensen/snowball/norwegian"
	"github.com/kljensen/snowball/russian"
	"github.com/kljensen/snowball/spanish"
	"github.com/kljensen/snowball/swedish"
)

// DefaultLanguage is the language code used when none is configured.
const DefaultLanguage = "EN"

type stemFunc func(word string, stemStopWords bool) string

// Rule tables keyed by upper-case language code.
var rules = map[string]stemFunc{
	"EN": english.Stem,
	"ES": spanish.Stem,
	"FR": french.Stem,
	"NO": norwegian.Stem,
	"RU": russian.Stem,
	"SV": swedish.Stem,
}

var illegalChars = regexp.MustCompile(`[^a-zA-Z0-9 ]+`)

// Stemmer applies the stemming rules of one language.
type Stemmer struct {
	language string
	stem     stemFunc
}

// New creates a Stemmer for a language code such as "EN" or "fr".
func New(language string) (*Stemmer, error) {
	code := strings.ToUpper(strings.TrimSpace(language))
	fn, ok := rules[code]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, language)
	}
	return &Stemmer{language: code, stem: fn}, nil
}

// Languages returns the supported language codes, sorted.
func Languages() []string {
	codes := make([]string, 0, len(rules))
	for code := range rules {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Language returns the stemmer's language code.
func (s *Stemmer) Language() string {
	return s.language
}

// Stem returns the stem of a single lower-cased word.
func (s *Stemmer) Stem(word string) string {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return ""
	}
	return s.stem(word, true)
}

// CleanStemPhrase lower-cases text, strips everything outside [a-z0-9 ],
// stems every word and joins the stems with single spaces.
func (s *Stemmer) CleanStemPhrase(text string) string {
	words := strings.Fields(ReplaceIllegalCharacters(strings.ToLower(text)))
	for i, w := range words {
		words[i] = s.Stem(w)
	}
	return strings.Join(words, " ")
}

// ReplaceIllegalCharacters replaces each run of characters outside
// [A-Za-z0-9 ] with a single space and collapses whitespace. Case is kept.
// The result never has leading, trailing or repeated spaces.
func ReplaceIllegalCharacters(text string) string {
	return strings.Join(strings.Fields(illegalChars.ReplaceAllString(text, " ")), " ")
}
