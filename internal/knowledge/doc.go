// Package knowledge maps free-text topics to curated study content. It is
// the local cache behind the generation pipeline's fallback path: resolution
// never fails, synthesizing a generic package when no curated entry matches.
package knowledge
