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


// Package analysis turns free text into search terms.
//
// A Filter lower-cases and tokenizes text, drops stop words and punctuation,
// and collects the remaining tokens into a TermSet. TermSet iteration order
// is a pure function of its contents, so phrases built from it are stable
// across runs and processes:
//
//	f, _ := analysis.NewFilter()
//	f.Phrase("falling in the ocean!")                // "falling ocean"
//	f.BoostQueryString("falling in the ocean!", 0.5) // "ocean^0.5 falling^0.5"
//
// EscapeExcludingCaret prepares a literal for use inside a query rule.
package analysis
