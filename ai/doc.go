// Package ai defines the embedding abstractions used by the search engine.
//
// The Embedder and Provider interfaces decouple the engine from concrete
// model backends. The openai subpackage talks to any OpenAI-compatible
// embedding API; the mock subpackage provides a deterministic in-process
// implementation for tests and offline development.
package ai
