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
	"math"
	"strconv"
)

// BoostMarker separates a token from its boost weight.
const BoostMarker = "^"

// WeightedTerm is a token with a relevance weight in (0,1].
type WeightedTerm struct {
	Token  string
	Weight float64
}

// WeightForDistance returns 1/2^distance. Negative distances are treated as 0.
func WeightForDistance(distance int) float64 {
	if distance <= 0 {
		return 1
	}
	return math.Pow(0.5, float64(distance))
}

// FormatWeight renders a weight in its shortest decimal form, e.g. "0.5".
func FormatWeight(weight float64) string {
	return strconv.FormatFloat(weight, 'f', -1, 64)
}

// String renders the token as "token^weight", or the bare token for weight 1.
func (w WeightedTerm) String() string {
	if w.Weight >= 1 {
		return w.Token
	}
	return w.Token + BoostMarker + FormatWeight(w.Weight)
}
