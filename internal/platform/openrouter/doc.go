// Package openrouter implements the generation.Generator interface against
// the OpenRouter chat-completions API. OpenRouter fronts many hosted models
// behind one OpenAI-compatible HTTP endpoint, so this adapter is a thin JSON
// client with retry handling rather than a vendor SDK binding.
package openrouter
