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


// Package engine implements semantic email search with bidirectional
// person/project matching.
//
// Build embeds normalized document text into a flat inner-product vector
// index; Search ranks the corpus against a classified, enhanced query; and
// IntelligentSearch orchestrates direction-specific sub-searches, merges
// them per document, re-scores with match bonuses, and filters out results
// from the wrong side of the match. When the embedding backend cannot be
// reached the engine degrades to lexical search over document metadata
// instead of failing.
package engine
