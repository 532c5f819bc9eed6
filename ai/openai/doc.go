// Package openai implements the ai package interfaces using OpenAI-compatible
// APIs. It works with any service exposing the OpenAI embedding and chat
// completion endpoints: Ollama, LocalAI, vLLM, or OpenAI itself.
//
// Dual-space embeddings use two clients bound to separate models, since prose
// and code embeddings come from different models with different
// dimensionalities. Query enhancement and answer generation share one chat
// model and are optional; without a configured generator model the provider
// hands out stand-ins that fail with ai.ErrGeneratorDisabled, which the
// retrieval pipeline treats as a signal to use its deterministic fallbacks.
//
// Structured output from small local models is unreliable, so the enhancer
// strips markdown fences, extracts the outermost JSON object, repairs common
// formatting damage and retries up to three times before giving up.
package openai
