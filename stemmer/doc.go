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


// Package stemmer reduces words to their stems and cleans free text for
// stem-based comparison.
//
// A Stemmer is bound to one language at construction time. The stemming
// rules come from the Snowball (Porter2) family; the language code selects
// the rule table:
//
//	s, err := stemmer.New("EN")
//	if err != nil {
//	    return err // stemmer.ErrUnsupportedLanguage
//	}
//	s.Stem("hypertension")            // "hypertens"
//	s.CleanStemPhrase("i like smoking!") // "i like smoke"
//
// Stemmers carry no per-call state and are safe for concurrent use.
package stemmer
