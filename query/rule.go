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


package query

import (
	"slices"
	"strings"
)

// Operator is the kind of a Rule node.
type Operator string

const (
	// DisMax scores the best matching child.
	DisMax Operator = "DIS_MAX"
	// Should sums the scores of matching children; none is required.
	Should Operator = "SHOULD"
	// And requires every child to match.
	And Operator = "AND"
	// FuzzyMatch matches a field against a literal, tolerating small differences.
	FuzzyMatch Operator = "FUZZY_MATCH"
	// In matches a field against a list of identifiers.
	In Operator = "IN"
)

// Field names matched by the builder.
const (
	FieldLabel       = "label"
	FieldDescription = "description"
)

// Rule is an immutable node of a query tree: a leaf that matches one field,
// or a combinator over ordered children.
type Rule struct {
	field    string
	operator Operator
	value    string
	values   []string
	children []*Rule
}

// NewFuzzyMatch creates a FUZZY_MATCH leaf. The literal is used as given;
// escape it first with analysis.EscapeExcludingCaret.
func NewFuzzyMatch(field, literal string) *Rule {
	return &Rule{field: field, operator: FuzzyMatch, value: literal}
}

// NewIn creates an IN leaf over identifiers.
func NewIn(field string, values ...string) *Rule {
	return &Rule{field: field, operator: In, values: slices.Clone(values)}
}

// NewDisMax creates a DIS_MAX rule over children.
func NewDisMax(children ...*Rule) *Rule {
	return newCombinator(DisMax, children)
}

// NewShould creates a SHOULD rule over children.
func NewShould(children ...*Rule) *Rule {
	return newCombinator(Should, children)
}

// NewAnd creates an AND rule over children.
func NewAnd(children ...*Rule) *Rule {
	return newCombinator(And, children)
}

func newCombinator(op Operator, children []*Rule) *Rule {
	return &Rule{operator: op, children: slices.Clone(children)}
}

// Operator returns the node's operator.
func (r *Rule) Operator() Operator { return r.operator }

// Field returns the matched field of a leaf, or "" for a combinator.
func (r *Rule) Field() string { return r.field }

// Value returns the literal of a FUZZY_MATCH leaf.
func (r *Rule) Value() string { return r.value }

// Values returns the identifiers of an IN leaf.
func (r *Rule) Values() []string { return slices.Clone(r.values) }

// Children returns the children of a combinator in construction order.
func (r *Rule) Children() []*Rule { return slices.Clone(r.children) }

// IsLeaf reports whether the rule matches a field directly.
func (r *Rule) IsLeaf() bool {
	return r.operator == FuzzyMatch || r.operator == In
}

// String renders the rule in the catalog query syntax:
//
//	DIS_MAX (<child>, <child>)
//	'<field>' FUZZY_MATCH '<literal>'
//	'<field>' IN [<id>, <id>]
func (r *Rule) String() string {
	var b strings.Builder
	r.write(&b)
	return b.String()
}

func (r *Rule) write(b *strings.Builder) {
	switch r.operator {
	case FuzzyMatch:
		b.WriteString("'" + r.field + "' " + string(r.operator) + " '" + r.value + "'")
	case In:
		b.WriteString("'" + r.field + "' " + string(r.operator) + " [")
		b.WriteString(strings.Join(r.values, ", "))
		b.WriteString("]")
	default:
		b.WriteString(string(r.operator) + " (")
		for i, child := range r.children {
			if i > 0 {
				b.WriteString(", ")
			}
			child.write(b)
		}
		b.WriteString(")")
	}
}
