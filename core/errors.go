// Copyright 2025 Sembox Systems
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

var (
	// ErrInvalidDocument is returned when a document fails validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrMissingUid is returned when a document has no unique identifier.
	ErrMissingUid = errors.New("missing uid")

	// ErrEmptyDocument is returned when a document has no subject and no body.
	ErrEmptyDocument = errors.New("document has no subject and no body")

	// ErrInvalidQuery is returned when a search query fails validation.
	ErrInvalidQuery = errors.New("invalid query")
)
