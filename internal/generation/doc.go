// Package generation provides interfaces and implementations for interacting
// with external AI/LLM services for study-package generation. It abstracts the
// details of LLM API integration (OpenRouter, Gemini), allowing the application
// to generate study packages for a topic without coupling to specific external
// services, and it normalizes heterogeneous results (generated, curated, or
// failed) into the canonical StudyPackage shape.
package generation
