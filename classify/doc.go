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


// Package classify turns free-text queries into structured classifications.
//
// A query is scored against multilingual keyword tables to decide whether
// it describes a person, a project, or a mix of both, which in turn fixes
// the search direction. The package also extracts skills and experience
// years and produces the enhanced query variants the search engine feeds
// to the embedder.
package classify
