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


package core

import (
	"fmt"
	"strings"
)

// ValidateTerm validates an OntologyTerm according to domain rules.
//
// Validation rules:
//   - IRI must not be blank
//   - a term must not list its own IRI as a parent
//
// NOT validated:
//   - Label (an empty label is passed through and yields an empty phrase)
//   - Synonyms and Description
func ValidateTerm(term *OntologyTerm) error {
	if term == nil {
		return fmt.Errorf("%w: term is nil", ErrInvalidTerm)
	}

	if strings.TrimSpace(term.IRI) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidTerm, ErrEmptyIRI)
	}

	for _, parent := range term.Parents {
		if parent == term.IRI {
			return fmt.Errorf("%w: %w", ErrInvalidTerm, ErrSelfParent)
		}
	}

	return nil
}
