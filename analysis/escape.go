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

import "strings"

// Query-syntax metacharacters escaped in rule literals. The boost marker ^
// is not one of them.
const reservedChars = `()[]{}~"\:/+-!?*&`

// EscapeExcludingCaret prefixes every reserved query character in text with
// a backslash. '^' is left untouched so boost weights survive.
//
// Escaping is not idempotent: apply it once to a raw literal.
func EscapeExcludingCaret(text string) string {
	if !strings.ContainsAny(text, reservedChars) {
		return text
	}
	var b strings.Builder
	b.Grow(len(text) + 8)
	for _, r := range text {
		if strings.ContainsRune(reservedChars, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
