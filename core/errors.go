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

import "errors"

// Domain errors
var (
	// ErrTermNotFound indicates an IRI could not be resolved to an ontology term.
	ErrTermNotFound = errors.New("ontology term not found")

	// ErrInvalidTerm indicates an OntologyTerm failed validation.
	ErrInvalidTerm = errors.New("invalid ontology term")

	// ErrEmptyIRI indicates the IRI field is empty.
	ErrEmptyIRI = errors.New("term IRI cannot be empty")

	// ErrSelfParent indicates a term lists itself as a parent.
	ErrSelfParent = errors.New("term cannot be its own parent")
)
