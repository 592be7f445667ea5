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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeExcludingCaret(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "Height", want: "Height"},
		{name: "caret untouched", in: "hypertension^4", want: "hypertension^4"},
		{name: "brackets and tilde", in: "(hypertension^4)~[]", want: `\(hypertension^4\)\~\[\]`},
		{name: "fixture literal", in: "(Height) [stand^~]", want: `\(Height\) \[stand^\~\]`},
		{name: "all reserved", in: `()[]{}~"\:/+-!?*&`, want: `\(\)\[\]\{\}\~\"\\\:\/\+\-\!\?\*\&`},
		{name: "iri", in: "http://x.org/a", want: `http\:\/\/x.org\/a`},
		{name: "unicode", in: "Ångstrøm (Å)", want: `Ångstrøm \(Å\)`},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EscapeExcludingCaret(tt.in))
		})
	}
}

func TestEscapeExcludingCaret_KeepsCarets(t *testing.T) {
	inputs := []string{"a^b", "^^(x)^", "length^0.5 body^0.5", `\^`, "~^~"}
	for _, in := range inputs {
		out := EscapeExcludingCaret(in)
		assert.Equal(t, strings.Count(in, "^"), strings.Count(out, "^"), in)
		assert.Equal(t, strings.ReplaceAll(in, "^", ""), unescape(strings.ReplaceAll(out, "^", "")), in)
	}
}

func TestEscapeExcludingCaret_NotIdempotent(t *testing.T) {
	once := EscapeExcludingCaret("(x)")
	assert.NotEqual(t, once, EscapeExcludingCaret(once))
}

func unescape(s string) string {
	var b strings.Builder
	escaped := false
	for _, r := range s {
		if r == '\\' && !escaped {
			escaped = true
			continue
		}
		escaped = false
		b.WriteRune(r)
	}
	return b.String()
}
