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

import (
	"fmt"
	"strings"
	"unicode"
)

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - Uid must not be empty
//   - at least one of Subject, BodyText, BodyHTML must be non-empty
//
// NOT validated:
//   - Attachments (may be empty)
//   - Recipient and MessageId (some archives omit them)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if doc.Uid == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrMissingUid)
	}

	if doc.Subject == "" && doc.BodyText == "" && doc.BodyHTML == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyDocument)
	}

	return nil
}

// ValidateQuery validates a caller-supplied search query before it reaches
// the engine. The engine itself does not validate queries.
//
// A query is rejected when it is empty, shorter than two characters after
// trimming, or contains no letter or digit at all (punctuation-only input).
func ValidateQuery(query string) error {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return fmt.Errorf("%w: query is empty", ErrInvalidQuery)
	}

	if len([]rune(trimmed)) < 2 {
		return fmt.Errorf("%w: query too short", ErrInvalidQuery)
	}

	for _, r := range trimmed {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return nil
		}
	}
	return fmt.Errorf("%w: query contains no letters or digits", ErrInvalidQuery)
}
