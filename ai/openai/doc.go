// Package openai provides embedding generation via OpenAI-compatible APIs.
//
// It works with any service implementing the OpenAI embeddings endpoint,
// including Ollama, LocalAI, and vLLM, as well as the hosted OpenAI API.
package openai
