// Package gemini implements the generation.Generator interface using
// Google's Gemini API via the google.golang.org/genai client. It handles
// client initialization, retry with exponential backoff for transient
// failures, and translation of API responses into parsed study packages.
package gemini
