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
	"reflect"
	"testing"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantSame bool
	}{
		{
			name:     "same content produces same ID",
			content:  "http://onto/height",
			wantSame: true,
		},
		{
			name:     "empty string",
			content:  "",
			wantSame: true,
		},
		{
			name:     "long content",
			content:  "http://purl.obolibrary.org/obo/NCIT_C25347/with/a/much/longer/path/segment",
			wantSame: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if tt.wantSame && id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("http://onto/1")
	id2 := IDFromContent("http://onto/2")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestOntologyTerm_ID(t *testing.T) {
	term := NewTerm("http://onto/height", "Height")
	if term.ID() != IDFromContent("http://onto/height") {
		t.Errorf("OntologyTerm.ID() is not derived from the IRI")
	}
}

func TestOntologyTerm_LabelAndSynonyms(t *testing.T) {
	tests := []struct {
		name string
		term *OntologyTerm
		want []string
	}{
		{
			name: "synonyms come before the label",
			term: NewTerm("http://onto/standingheight", "Standing height", "body_length"),
			want: []string{"body_length", "Standing height"},
		},
		{
			name: "no synonyms",
			term: NewTerm("http://onto/height", "height"),
			want: []string{"height"},
		},
		{
			name: "label equal to a synonym collapses",
			term: NewTerm("http://onto/2", "label 2", "label 2", "second"),
			want: []string{"label 2", "second"},
		},
		{
			name: "empty label is kept",
			term: NewTerm("http://onto/empty", ""),
			want: []string{""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.term.LabelAndSynonyms()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("LabelAndSynonyms() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTagSet(t *testing.T) {
	standing := NewTerm("http://onto/standingheight", "Standing height")
	sitting := NewTerm("http://onto/sittingheight", "Sitting height")
	height := NewTerm("http://onto/height", "Height")

	tags := NewTagSet()
	tags.Put(IsAssociatedWith, standing)
	tags.Put(IsRealizationOf, sitting)
	tags.Put(IsDefinedBy, height)
	tags.Put(IsDefinedBy, standing)
	tags.Put(IsDefinedBy, height) // duplicate pair

	if tags.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", tags.Len())
	}

	values := tags.Values()
	wantIRIs := []string{standing.IRI, sitting.IRI, height.IRI, standing.IRI}
	for i, v := range values {
		if v.IRI != wantIRIs[i] {
			t.Errorf("Values()[%d] = %s, want %s", i, v.IRI, wantIRIs[i])
		}
	}
}
