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


package matching

import "errors"

var (
	// ErrBuilderRequired is returned when a query builder is not provided.
	ErrBuilderRequired = errors.New("query builder required")

	// ErrExecutorRequired is returned when a search executor is not provided.
	ErrExecutorRequired = errors.New("search executor required")

	// ErrEmptyRequest is returned for a request without name variants, tags or IRIs.
	ErrEmptyRequest = errors.New("request has nothing to match")
)
