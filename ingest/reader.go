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


package ingest

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/poiesic/semsearch/core"
)

// termRecord is one entry of a YAML term file:
//
//   - iri: http://purl.obolibrary.org/obo/NCIT_C25347
//     label: Height
//     synonyms: [Stature]
//     ontology: NCIT
//     parents: [http://purl.obolibrary.org/obo/NCIT_C25332]
type termRecord struct {
	IRI         string   `yaml:"iri"`
	Label       string   `yaml:"label"`
	Synonyms    []string `yaml:"synonyms"`
	Description string   `yaml:"description"`
	Ontology    string   `yaml:"ontology"`
	Parents     []string `yaml:"parents"`
}

// ReadTerms decodes a YAML list of terms and validates each one.
// An empty document yields no terms.
func ReadTerms(r io.Reader) ([]*core.OntologyTerm, error) {
	var records []termRecord
	if err := yaml.NewDecoder(r).Decode(&records); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}

	terms := make([]*core.OntologyTerm, 0, len(records))
	for i, rec := range records {
		term := &core.OntologyTerm{
			IRI:         rec.IRI,
			Label:       rec.Label,
			Synonyms:    rec.Synonyms,
			Description: rec.Description,
			OntologyID:  rec.Ontology,
			Parents:     rec.Parents,
		}
		if err := core.ValidateTerm(term); err != nil {
			return nil, fmt.Errorf("term %d: %w", i, err)
		}
		terms = append(terms, term)
	}
	return terms, nil
}
