// Package youtube implements the generation.MediaLocator interface using
// the YouTube Data API v3. It resolves a free-text search query produced by
// the generation pipeline to a single playable video identifier.
package youtube
