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


// Package query builds weighted query rules from free text and ontology terms.
//
// The Expander turns an ontology term into phrases: one per label or synonym
// of the term itself, then one per label or synonym of each term reached
// through the children relation, with every token boosted by 1/2^distance.
//
// The Builder assembles phrases into rule trees:
//
//   - DisMaxForTerms matches each literal against the label and description
//     fields under one DIS_MAX rule.
//   - DisMaxForAttribute combines attribute name variants with the expansion
//     of the attribute's ontology tags.
//   - ShouldForIRIs resolves a comma-separated IRI list and wraps one DIS_MAX
//     rule per term in a SHOULD rule.
//
// Rules print in the catalog's query syntax:
//
//	SHOULD (DIS_MAX ('label' FUZZY_MATCH 'height', 'description' FUZZY_MATCH 'height'))
package query
