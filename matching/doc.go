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


// Package matching runs query construction and search execution for batches
// of attribute matching requests.
//
// A Matcher builds a rule per Request with a query.Builder, optionally
// restricts it to the identifiers of a target entity, and hands it to an
// Executor. MatchAll spreads requests over a worker pool; call Release when
// the Matcher is no longer needed.
package matching
