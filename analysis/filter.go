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


package analysis

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/poiesic/semsearch/core"
)

// A token such as "body~0.5" carries a fuzziness marker and is kept whole.
var fuzzyToken = regexp.MustCompile(`^[^~]+~[0-9]+(\.[0-9]+)?$`)

// Filter extracts search terms from free text.
// A Filter is immutable after construction and safe for concurrent use.
type Filter struct {
	stopWords map[string]struct{}
	lang      language.Tag

	// set by WithStopWords, folded once the language is known
	rawStopWords []string
}

// Option configures a Filter.
type Option func(*Filter) error

// WithStopWords replaces the default stop-word list.
// An empty list disables stop-word removal.
func WithStopWords(words []string) Option {
	return func(f *Filter) error {
		f.rawStopWords = make([]string, 0, len(words))
		for _, w := range words {
			if w = strings.TrimSpace(w); w != "" {
				f.rawStopWords = append(f.rawStopWords, w)
			}
		}
		return nil
	}
}

// WithLanguage sets the language used for case folding.
// Default is language.Und.
func WithLanguage(tag language.Tag) Option {
	return func(f *Filter) error {
		f.lang = tag
		return nil
	}
}

// NewFilter creates a Filter using the English stop-word list unless
// WithStopWords is given. Stop words are case-folded with the filter's
// language regardless of option order.
func NewFilter(opts ...Option) (*Filter, error) {
	f := &Filter{lang: language.Und, rawStopWords: defaultStopWords}
	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, err
		}
	}

	f.stopWords = make(map[string]struct{}, len(f.rawStopWords))
	for _, w := range f.rawStopWords {
		f.stopWords[f.lower(w)] = struct{}{}
	}
	f.rawStopWords = nil
	return f, nil
}

// ExtractSearchTerms lower-cases text and splits it into search terms.
//
// Everything other than letters, marks, digits, '.' and '~' separates
// tokens, so whitespace, underscores, '^' and punctuation all split.
// A token of the form word~N or word~N.N is kept whole; any other '~'
// splits. Leading and trailing dots are trimmed, tokens without a letter or
// digit are dropped, and stop words are removed. Empty text yields an empty
// set.
func (f *Filter) ExtractSearchTerms(text string) *TermSet {
	terms := &TermSet{}
	if strings.TrimSpace(text) == "" {
		return terms
	}
	text = f.lower(norm.NFC.String(text))

	for _, field := range strings.FieldsFunc(text, isSeparator) {
		field = strings.Trim(field, ".")
		if !strings.Contains(field, "~") || fuzzyToken.MatchString(field) {
			f.collect(terms, field)
			continue
		}
		for _, part := range strings.Split(field, "~") {
			f.collect(terms, strings.Trim(part, "."))
		}
	}
	return terms
}

// Phrase joins the search terms of text with single spaces.
func (f *Filter) Phrase(text string) string {
	return f.ExtractSearchTerms(text).Join(" ")
}

// BoostQueryString suffixes every search term of text with ^weight and joins
// the results with single spaces. A weight of 1 or more adds no suffix.
func (f *Filter) BoostQueryString(text string, weight float64) string {
	boosted := &TermSet{}
	for _, term := range f.ExtractSearchTerms(text).Values() {
		boosted.Add(core.WeightedTerm{Token: term, Weight: weight}.String())
	}
	return boosted.Join(" ")
}

// IsStopWord reports whether word is on the filter's stop-word list.
func (f *Filter) IsStopWord(word string) bool {
	_, ok := f.stopWords[f.lower(strings.TrimSpace(word))]
	return ok
}

// StopWords returns the configured stop words in no particular order.
func (f *Filter) StopWords() []string {
	out := make([]string, 0, len(f.stopWords))
	for w := range f.stopWords {
		out = append(out, w)
	}
	return out
}

func (f *Filter) collect(terms *TermSet, token string) {
	if token == "" || !hasWordChar(token) {
		return
	}
	if _, stop := f.stopWords[token]; stop {
		return
	}
	terms.Add(token)
}

// cases.Caser is stateful, so one is built per call.
func (f *Filter) lower(s string) string {
	return cases.Lower(f.lang).String(s)
}

func isSeparator(r rune) bool {
	if r == '.' || r == '~' {
		return false
	}
	return !unicode.IsLetter(r) && !unicode.IsMark(r) && !unicode.IsDigit(r)
}

func hasWordChar(token string) bool {
	return strings.ContainsFunc(token, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	})
}
